package dataloader

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/UkralStul/posts-presenter/internal/domain"
	"github.com/UkralStul/posts-presenter/internal/storage"
	"github.com/UkralStul/posts-presenter/internal/storage/inmemory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type batchCountingStore struct {
	storage.Storage
	batches atomic.Int32
	fail    error
}

func (s *batchCountingStore) GetCommentsByPostIDs(ctx context.Context, postIDs []string) (map[string][]*domain.Comment, error) {
	s.batches.Add(1)
	if s.fail != nil {
		return nil, s.fail
	}
	return s.Storage.GetCommentsByPostIDs(ctx, postIDs)
}

func seededStore(t *testing.T) (*batchCountingStore, []string) {
	t.Helper()
	ctx := context.Background()
	mem := inmemory.New()
	var ids []string
	for i := 0; i < 3; i++ {
		p, err := mem.CreatePost(ctx, &domain.Post{Title: "t", Content: "c", AuthorID: "a", CommentsEnabled: true})
		require.NoError(t, err)
		for j := 0; j <= i; j++ {
			_, err := mem.CreateComment(ctx, &domain.Comment{PostID: p.ID, AuthorID: "u", Content: "hi"})
			require.NoError(t, err)
		}
		ids = append(ids, p.ID)
	}
	return &batchCountingStore{Storage: mem}, ids
}

func TestLoaders_BatchesConcurrentLoads(t *testing.T) {
	store, ids := seededStore(t)
	loaders := NewLoaders(store)
	ctx := context.Background()

	counts := make([]int, len(ids))
	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			comments, err := loaders.GetCommentsByPostID(ctx, id)
			assert.NoError(t, err)
			counts[i] = len(comments)
		}(i, id)
	}
	wg.Wait()

	assert.Equal(t, []int{1, 2, 3}, counts)
	assert.Equal(t, int32(1), store.batches.Load())
}

func TestLoaders_NoCache(t *testing.T) {
	store, ids := seededStore(t)
	loaders := NewLoaders(store)
	ctx := context.Background()

	_, err := loaders.GetCommentsByPostID(ctx, ids[0])
	require.NoError(t, err)
	_, err = store.CreateComment(ctx, &domain.Comment{PostID: ids[0], AuthorID: "u", Content: "more"})
	require.NoError(t, err)

	comments, err := loaders.GetCommentsByPostID(ctx, ids[0])
	require.NoError(t, err)
	assert.Len(t, comments, 2)
	assert.Equal(t, int32(2), store.batches.Load())
}

func TestLoaders_UnknownPostIsEmpty(t *testing.T) {
	store, _ := seededStore(t)

	comments, err := NewLoaders(store).GetCommentsByPostID(context.Background(), "missing")
	require.NoError(t, err)
	assert.NotNil(t, comments)
	assert.Empty(t, comments)
}

func TestLoaders_PropagatesError(t *testing.T) {
	store, ids := seededStore(t)
	store.fail = errors.New("db down")

	_, err := NewLoaders(store).GetCommentsByPostID(context.Background(), ids[0])
	assert.ErrorContains(t, err, "db down")
}

func TestMiddleware_InstallsLoaders(t *testing.T) {
	store, _ := seededStore(t)

	var got *Loaders
	h := Middleware(store)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = For(r.Context())
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.NotNil(t, got)
	assert.Nil(t, For(context.Background()))
}
