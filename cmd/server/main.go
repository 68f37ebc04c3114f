package main

import (
	"context"
	"log"

	"github.com/akarpov87/pagevault/internal/server"
	"github.com/akarpov87/pagevault/internal/server/config"
)

func main() {
	ctx := context.Background()

	cfg := config.LoadConfig()

	app, err := server.NewApp(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}

	if err := app.Run(ctx); err != nil {
		log.Fatal(err)
	}
}
