package presenter

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/UkralStul/posts-presenter/internal/blog"
	"github.com/UkralStul/posts-presenter/internal/domain"
	"github.com/UkralStul/posts-presenter/internal/storage"
	"github.com/UkralStul/posts-presenter/internal/storage/inmemory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPost_StableShape(t *testing.T) {
	created := time.Date(2024, 3, 1, 12, 30, 0, 0, time.FixedZone("X", 3*3600))
	view := Post(&domain.Post{
		ID:              "p1",
		Title:           "Hello",
		Content:         "World",
		AuthorID:        "user-1",
		CommentsEnabled: true,
		CreatedAt:       created,
	})

	raw, err := json.Marshal(view)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"id": "p1",
		"title": "Hello",
		"content": "World",
		"authorId": "user-1",
		"commentsEnabled": true,
		"createdAt": "2024-03-01T09:30:00Z"
	}`, string(raw))
}

func TestComment_StableShape(t *testing.T) {
	view := Comment(blog.NewComment(&domain.Comment{
		ID:        "c1",
		PostID:    "p1",
		AuthorID:  "user-2",
		Content:   "Nice",
		CreatedAt: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	}))

	raw, err := json.Marshal(view)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"c1","postId":"p1","authorId":"user-2","content":"Nice","createdAt":"2024-03-01T00:00:00Z"}`, string(raw))
}

func TestPostWithComments(t *testing.T) {
	ctx := context.Background()
	store := inmemory.New()
	_, err := store.CreatePost(ctx, &domain.Post{ID: "7", Title: "t", Content: "c", AuthorID: "a", CommentsEnabled: true})
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		_, err := store.CreateComment(ctx, &domain.Comment{PostID: "7", AuthorID: "u", Content: "hi"})
		require.NoError(t, err)
	}

	view, err := PostWithComments(ctx, blog.NewPost(store, blog.PostConfig{ID: "7"}))
	require.NoError(t, err)
	assert.Equal(t, "7", view.ID)
	assert.Len(t, view.Comments, 3)

	_, err = PostWithComments(ctx, blog.NewPost(store, blog.PostConfig{ID: "8"}))
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestComments_EmptyIsArray(t *testing.T) {
	views, err := Comments(context.Background(), blog.NewComments(inmemory.New(), blog.CommentsConfig{PostID: "none"}))
	require.NoError(t, err)

	raw, err := json.Marshal(views)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(raw))
}
