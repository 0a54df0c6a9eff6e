package storage

import (
	"context"
	"errors"

	"github.com/UkralStul/posts-presenter/internal/domain"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrCommentsDisabled = errors.New("comments are disabled for this post")
	ErrContentTooLong   = errors.New("comment content is too long")
	ErrContentEmpty     = errors.New("comment content cannot be empty")
)

// PostFinder looks up a single post record by id. A missing record is
// reported with an error wrapping ErrNotFound.
type PostFinder interface {
	GetPostByID(ctx context.Context, id string) (*domain.Post, error)
}

// CommentQuery returns every comment referencing postID. The order is
// store-defined; no matches is an empty result, not an error.
type CommentQuery interface {
	GetCommentsByPostID(ctx context.Context, postID string) ([]*domain.Comment, error)
}

// Storage is the full contract every backend implements.
type Storage interface {
	PostFinder
	CommentQuery

	GetPosts(ctx context.Context, limit, offset int) ([]*domain.Post, error)
	CreatePost(ctx context.Context, post *domain.Post) (*domain.Post, error)
	ToggleComments(ctx context.Context, postID string, enable bool) (*domain.Post, error)

	// CreateComment checks, in order: the post exists, comments are enabled,
	// the content is valid. The first failing check decides the error.
	CreateComment(ctx context.Context, comment *domain.Comment) (*domain.Comment, error)
	GetCommentByID(ctx context.Context, id string) (*domain.Comment, error)

	// Batch lookup for the dataloader. Every requested id is present in the
	// result, mapped to an empty slice when it has no comments.
	GetCommentsByPostIDs(ctx context.Context, postIDs []string) (map[string][]*domain.Comment, error)
}
