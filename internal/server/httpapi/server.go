// Package httpapi exposes the dossier over HTTP: JSON endpoints under /api
// and the browser-facing magic-link callback.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/antonnoe/dossierfrankrijk/internal/logging"
	"github.com/antonnoe/dossierfrankrijk/internal/server/config"
	"github.com/antonnoe/dossierfrankrijk/internal/server/models"
	"github.com/antonnoe/dossierfrankrijk/internal/server/services"
)

// AuthService is the authentication surface the handlers need.
type AuthService interface {
	RequestMagicLink(ctx context.Context, email string) error
	ExchangeCode(ctx context.Context, code string) (*services.TokenPair, error)
	CurrentSession(ctx context.Context, accessToken string) (*services.Session, error)
	RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	SignOut(ctx context.Context, refreshToken string) error
}

// DossierService is the folder-and-item surface the handlers need.
type DossierService interface {
	LoadAll(ctx context.Context, userID string) *services.Dashboard
	AddItem(ctx context.Context, userID string, draft *models.ItemDraft) (*models.Item, error)
	ToggleChecklist(ctx context.Context, userID, itemID string, done bool) error
	DeleteItem(ctx context.Context, userID, itemID string) error
}

// SnapshotService is the archived-copy surface the handlers need.
type SnapshotService interface {
	RequestUpload(ctx context.Context, userID, itemID string) (string, error)
	MarkUploaded(ctx context.Context, userID, itemID string) error
	DownloadURL(ctx context.Context, userID, itemID string) (string, error)
}

// Server routes HTTP requests to the services.
type Server struct {
	logger    logging.Logger
	auth      AuthService
	dossier   DossierService
	snapshots SnapshotService
	router    chi.Router
	addr      string
}

// NewServer wires the services into a chi router.
func NewServer(cfg *config.Config, logger logging.Logger, auth AuthService, dossier DossierService, snapshots SnapshotService) *Server {
	s := &Server{
		logger:    logger.With("module", "httpapi"),
		auth:      auth,
		dossier:   dossier,
		snapshots: snapshots,
		addr:      cfg.EndpointAddr,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/auth/callback", s.handleAuthCallback)

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/magiclink", s.handleMagicLink)
		r.Post("/auth/exchange", s.handleExchange)
		r.Post("/auth/refresh", s.handleRefresh)
		r.Post("/auth/logout", s.handleLogout)

		r.Group(func(r chi.Router) {
			r.Use(s.withSession)
			r.Get("/auth/session", s.handleSession)
			r.Get("/dashboard", s.handleDashboard)
			r.Post("/items", s.handleAddItem)
			r.Patch("/items/{itemID}", s.handleUpdateItem)
			r.Delete("/items/{itemID}", s.handleDeleteItem)
			r.Post("/items/{itemID}/snapshot", s.handleRequestSnapshot)
			r.Patch("/items/{itemID}/snapshot", s.handleConfirmSnapshot)
			r.Get("/items/{itemID}/snapshot", s.handleDownloadSnapshot)
		})
	})

	s.router = r
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{Addr: s.addr, Handler: s.router}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "http server starting", "addr", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "http server stopping")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
