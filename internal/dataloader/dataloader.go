package dataloader

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/UkralStul/posts-presenter/internal/domain"
	"github.com/UkralStul/posts-presenter/internal/storage"
	"github.com/graph-gophers/dataloader"
)

type contextKey string

const key = contextKey("dataloaders")

// Loaders holds the request-scoped loaders.
type Loaders struct {
	CommentsByPostID *dataloader.Loader
}

// NewLoaders builds loaders that batch comment queries into a single
// GetCommentsByPostIDs call. Results are not cached, so every load reaches
// the store.
func NewLoaders(store storage.Storage) *Loaders {
	batchFn := func(ctx context.Context, keys dataloader.Keys) []*dataloader.Result {
		postIDs := keys.Keys()

		commentsMap, err := store.GetCommentsByPostIDs(ctx, postIDs)
		results := make([]*dataloader.Result, len(keys))
		if err != nil {
			for i := range results {
				results[i] = &dataloader.Result{Error: err}
			}
			return results
		}

		// Results must line up with keys.
		for i, postID := range postIDs {
			comments := commentsMap[postID]
			if comments == nil {
				comments = []*domain.Comment{}
			}
			results[i] = &dataloader.Result{Data: comments}
		}
		return results
	}

	return &Loaders{
		CommentsByPostID: dataloader.NewBatchedLoader(batchFn,
			dataloader.WithWait(time.Millisecond),
			dataloader.WithCache(&dataloader.NoCache{}),
		),
	}
}

// GetCommentsByPostID makes Loaders usable as a storage.CommentQuery.
func (l *Loaders) GetCommentsByPostID(ctx context.Context, postID string) ([]*domain.Comment, error) {
	data, err := l.CommentsByPostID.Load(ctx, dataloader.StringKey(postID))()
	if err != nil {
		return nil, err
	}
	comments, ok := data.([]*domain.Comment)
	if !ok {
		return nil, fmt.Errorf("dataloader: unexpected result type %T", data)
	}
	return comments, nil
}

// Middleware installs fresh loaders into every request context.
func Middleware(store storage.Storage) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), key, NewLoaders(store))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// For extracts the loaders from ctx, or nil if none were installed.
func For(ctx context.Context) *Loaders {
	loaders, _ := ctx.Value(key).(*Loaders)
	return loaders
}
