// Package http exposes the placerate services as a JSON API over chi.
package http

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"time"

	"github.com/dmitrijs2005/placerate/internal/logging"
	"github.com/dmitrijs2005/placerate/internal/server/models"
	"github.com/dmitrijs2005/placerate/internal/server/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

const shutdownTimeout = 5 * time.Second

type UserService interface {
	Register(ctx context.Context, in services.RegisterInput) (*models.User, error)
	GetUser(ctx context.Context, id string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.User, *services.TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	AuthenticateAccessToken(token string) (string, error)
}

type CardService interface {
	CreateCard(ctx context.Context, in services.CardInput) (*models.Card, error)
	ListCards(ctx context.Context) ([]*models.CardView, error)
	GetCard(ctx context.Context, cardID string) (*models.CardView, error)
	AddComment(ctx context.Context, cardID, description string, rating float64) (*models.Comment, error)
	ListComments(ctx context.Context, cardID string) ([]*models.Comment, error)
	DeleteCard(ctx context.Context, cardID, actingUserID string) error
}

type ImageService interface {
	PresignUpload(ctx context.Context) (key string, url string, err error)
}

type HTTPServer struct {
	address string
	origins []string
	logger  logging.Logger
	users   UserService
	cards   CardService
	images  ImageService
}

func NewHTTPServer(address string, origins []string, l logging.Logger, us UserService, cs CardService, is ImageService) *HTTPServer {
	return &HTTPServer{
		address: address,
		origins: origins,
		logger:  l.With("module", "http_server"),
		users:   us,
		cards:   cs,
		images:  is,
	}
}

// Router builds the handler tree. It is exported for tests and for embedding
// the API in another server.
func (s *HTTPServer) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.origins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: !slices.Contains(s.origins, "*"),
		MaxAge:           300,
	}))
	r.Use(finishOptions)

	r.Post("/register", s.handleRegister)
	r.Post("/login", s.handleLogin)
	r.Post("/refresh", s.handleRefresh)
	r.Get("/users/{id}", s.handleGetUser)

	r.Route("/cards", func(r chi.Router) {
		r.Post("/", s.handleCreateCard)
		r.Get("/", s.handleListCards)
		r.Get("/{cardId}", s.handleGetCard)
		r.With(s.optionalBearer).Delete("/{cardId}", s.handleDeleteCard)
		r.Post("/{cardId}/comments", s.handleAddComment)
		r.Get("/{cardId}/comments", s.handleListComments)
	})

	r.Post("/images", s.handlePresignImage)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(shutdownCtx, "shutdown error", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
