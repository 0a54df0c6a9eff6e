package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/UkralStul/posts-presenter/internal/api"
	"github.com/UkralStul/posts-presenter/internal/config"
	"github.com/UkralStul/posts-presenter/internal/domain"
	"github.com/UkralStul/posts-presenter/internal/logging"
	"github.com/UkralStul/posts-presenter/internal/notify"
	"github.com/UkralStul/posts-presenter/internal/storage"
	"github.com/UkralStul/posts-presenter/internal/storage/inmemory"
	"github.com/UkralStul/posts-presenter/internal/storage/postgres"
	"github.com/UkralStul/posts-presenter/internal/storage/sqlite"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	storageType := flag.String("storage", cfg.Storage, "Storage type (in-memory, postgres or sqlite)")
	flag.Parse()
	cfg.Storage = *storageType
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("starting server", zap.String("storage", cfg.Storage), zap.String("port", cfg.Port))
	store, closeStore, err := openStorage(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	if cfg.Seed {
		if _, err := seedIfEmpty(context.Background(), store, logger); err != nil {
			return err
		}
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           api.NewServer(store, notify.NewCommentObserver(), logger).Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", "http://localhost:"+cfg.Port+"/posts"))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
	}
	return nil
}

func openStorage(cfg config.Config) (storage.Storage, func(), error) {
	switch cfg.Storage {
	case config.StoragePostgres:
		store, err := postgres.New(cfg.DatabaseURL, logging.GormLevel(cfg.LogLevel))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		return store, func() { _ = store.Close() }, nil
	case config.StorageSQLite:
		store, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open sqlite: %w", err)
		}
		return store, func() { _ = store.Close() }, nil
	default:
		return inmemory.New(), func() {}, nil
	}
}

// seedIfEmpty fills the store only when it holds no posts yet, so persistent
// backends are seeded once rather than on every start.
func seedIfEmpty(ctx context.Context, s storage.Storage, logger *zap.Logger) (bool, error) {
	existing, err := s.GetPosts(ctx, 1, 0)
	if err != nil {
		return false, fmt.Errorf("check existing posts: %w", err)
	}
	if len(existing) > 0 {
		logger.Info("store already has data, skipping seed")
		return false, nil
	}
	if err := fillWithMockData(ctx, s, logger); err != nil {
		return false, err
	}
	return true, nil
}

// fillWithMockData seeds one post with comments and one with comments off.
func fillWithMockData(ctx context.Context, s storage.Storage, logger *zap.Logger) error {
	post, err := s.CreatePost(ctx, &domain.Post{
		Title:           "Query objects over active records",
		Content:         "Keep queries and JSON shapes out of the model layer.",
		AuthorID:        "user-1",
		CommentsEnabled: true,
	})
	if err != nil {
		return fmt.Errorf("seed post: %w", err)
	}

	for _, c := range []struct{ author, content string }{
		{"user-2", "Presenters make the API shape explicit."},
		{"user-3", "How does this play with batching?"},
		{"user-1", "A per-request loader handles that."},
	} {
		if _, err := s.CreateComment(ctx, &domain.Comment{PostID: post.ID, AuthorID: c.author, Content: c.content}); err != nil {
			return fmt.Errorf("seed comment: %w", err)
		}
	}

	disabledPost, err := s.CreatePost(ctx, &domain.Post{
		Title:           "Comments are closed",
		Content:         "Nothing to add here.",
		AuthorID:        "user-admin",
		CommentsEnabled: true,
	})
	if err != nil {
		return fmt.Errorf("seed disabled post: %w", err)
	}
	if _, err := s.ToggleComments(ctx, disabledPost.ID, false); err != nil {
		return fmt.Errorf("disable comments: %w", err)
	}

	logger.Info("mock data filled",
		zap.String("post_id", post.ID),
		zap.String("disabled_post_id", disabledPost.ID))
	return nil
}
