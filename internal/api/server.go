// Package api exposes posts and comments as a version-free JSON API.
package api

import (
	"net/http"
	"time"

	"github.com/UkralStul/posts-presenter/internal/dataloader"
	"github.com/UkralStul/posts-presenter/internal/logging"
	"github.com/UkralStul/posts-presenter/internal/notify"
	"github.com/UkralStul/posts-presenter/internal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	defaultLimit = 10
	maxLimit     = 100
)

// Server holds the dependencies shared by all handlers.
type Server struct {
	Storage  storage.Storage
	Observer *notify.CommentObserver
	Logger   *zap.Logger

	validate *validator.Validate
	upgrader websocket.Upgrader
}

func NewServer(store storage.Storage, observer *notify.CommentObserver, logger *zap.Logger) *Server {
	return &Server{
		Storage:  store,
		Observer: observer,
		Logger:   logger,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(logging.Middleware(s.Logger))
	router.Use(middleware.Recoverer)
	router.Use(dataloader.Middleware(s.Storage))

	router.Route("/posts", func(r chi.Router) {
		r.Get("/", s.listPosts)
		r.Post("/", s.createPost)
		r.Route("/{postID}", func(r chi.Router) {
			r.Get("/", s.getPost)
			r.Patch("/comments-enabled", s.toggleComments)
			r.Get("/comments", s.listComments)
			r.Post("/comments", s.createComment)
			r.Get("/comments/stream", s.streamComments)
		})
	})
	return router
}

const (
	pingInterval = 10 * time.Second
	writeTimeout = 5 * time.Second
)
