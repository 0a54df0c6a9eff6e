package blog

import (
	"context"
	"fmt"
	"iter"
	"time"

	"github.com/UkralStul/posts-presenter/internal/domain"
	"github.com/UkralStul/posts-presenter/internal/storage"
)

// CommentsConfig carries the post id a Comments scope is bound to.
type CommentsConfig struct {
	PostID string
}

// Comments is the set of comments referencing one post. It holds only the
// scoping key; each traversal queries the store again.
type Comments struct {
	postID string
	query  storage.CommentQuery
}

func NewComments(query storage.CommentQuery, cfg CommentsConfig) *Comments {
	return &Comments{postID: cfg.PostID, query: query}
}

func (c *Comments) PostID() string { return c.postID }

// All traverses the scope. A store error is yielded once with a nil comment
// and ends the sequence.
func (c *Comments) All(ctx context.Context) iter.Seq2[*Comment, error] {
	return func(yield func(*Comment, error) bool) {
		records, err := c.query.GetCommentsByPostID(ctx, c.postID)
		if err != nil {
			yield(nil, fmt.Errorf("query comments for post %s: %w", c.postID, err))
			return
		}
		for _, r := range records {
			if !yield(&Comment{record: r}, nil) {
				return
			}
		}
	}
}

// Comment adapts a single comment record.
type Comment struct {
	record *domain.Comment
}

func NewComment(record *domain.Comment) *Comment {
	return &Comment{record: record}
}

func (c *Comment) ID() string           { return c.record.ID }
func (c *Comment) PostID() string       { return c.record.PostID }
func (c *Comment) AuthorID() string     { return c.record.AuthorID }
func (c *Comment) Content() string      { return c.record.Content }
func (c *Comment) CreatedAt() time.Time { return c.record.CreatedAt }

// Record exposes the wrapped record.
func (c *Comment) Record() *domain.Comment { return c.record }
