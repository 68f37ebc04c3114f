package cli

import (
	"context"
	"fmt"
	"strings"
)

func (a *App) Root(ctx context.Context) {
	fmt.Println("Welcome to PageVault CLI (type 'help' for commands)")

	for {
		fmt.Print("pv> ")
		line, err := a.reader.ReadString('\n')
		if err != nil {
			break
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			fmt.Println("Available commands: login, logout, save <url> [folderId], list [folderId], folders, mkdir <name>, move <id> <folderId>, delete <id>, server [url], exit")

		case "login":
			a.Login(ctx)

		case "logout":
			a.Logout(ctx)

		case "save":
			a.Save(ctx, args)

		case "l", "list":
			a.List(ctx, args)

		case "folders":
			a.Folders(ctx)

		case "mkdir":
			a.MakeFolder(ctx, args)

		case "move":
			a.Move(ctx, args)

		case "delete":
			a.Delete(ctx, args)

		case "server":
			a.Server(ctx, args)

		case "exit", "quit":
			fmt.Println("Bye!")
			return

		default:
			fmt.Println("Unknown command:", cmd)
		}
	}
}
