// Package httpapi exposes the ingestion service over HTTP. All endpoints
// except /login require a bearer token.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/akarpov87/pagevault/internal/logging"
	"github.com/akarpov87/pagevault/internal/server/services"
)

// Server wires the page and folder services into an http.Server.
type Server struct {
	addr          string
	secretKey     string
	adminPassword string
	tokenValidity time.Duration

	pages   *services.PageService
	folders *services.FolderService
	logger  logging.Logger

	httpServer *http.Server
}

// Options carries the auth settings the handlers need.
type Options struct {
	Addr          string
	SecretKey     string
	AdminPassword string
	TokenValidity time.Duration
}

func NewServer(opts Options, pages *services.PageService, folders *services.FolderService, logger logging.Logger) *Server {
	s := &Server{
		addr:          opts.Addr,
		secretKey:     opts.SecretKey,
		adminPassword: opts.AdminPassword,
		tokenValidity: opts.TokenValidity,
		pages:         pages,
		folders:       folders,
		logger:        logger,
	}
	s.httpServer = &http.Server{
		Addr:    opts.Addr,
		Handler: s.routes(),
	}
	return s
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /login", s.handleLogin)

	mux.HandleFunc("GET /check_auth", s.withAuth(s.handleCheckAuth))
	mux.HandleFunc("POST /upload_new_page", s.withAuth(s.handleUploadPage))
	mux.HandleFunc("GET /query", s.withAuth(s.handleQueryPages))
	mux.HandleFunc("GET /get_page", s.withAuth(s.handleGetPage))
	mux.HandleFunc("GET /page_content", s.withAuth(s.handlePageContent))
	mux.HandleFunc("DELETE /delete_page", s.withAuth(s.handleDeletePage))
	mux.HandleFunc("PUT /update_page", s.withAuth(s.handleUpdatePage))
	mux.HandleFunc("GET /all_folders", s.withAuth(s.handleAllFolders))
	mux.HandleFunc("POST /create_folder", s.withAuth(s.handleCreateFolder))

	return mux
}

// Handler exposes the routed handler, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "http server listening", "addr", s.addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.logger.Info(shutdownCtx, "http server shutting down")
	return s.httpServer.Shutdown(shutdownCtx)
}
