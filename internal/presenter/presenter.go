// Package presenter turns records and query objects into the JSON shapes the
// API promises. Storage structs never reach the wire directly.
package presenter

import (
	"context"
	"time"

	"github.com/UkralStul/posts-presenter/internal/blog"
	"github.com/UkralStul/posts-presenter/internal/domain"
)

// PostView is the wire shape of a post.
type PostView struct {
	ID              string         `json:"id"`
	Title           string         `json:"title"`
	Content         string         `json:"content"`
	AuthorID        string         `json:"authorId"`
	CommentsEnabled bool           `json:"commentsEnabled"`
	CreatedAt       string         `json:"createdAt"`
	Comments        []*CommentView `json:"comments,omitempty"`
}

// CommentView is the wire shape of a comment.
type CommentView struct {
	ID        string `json:"id"`
	PostID    string `json:"postId"`
	AuthorID  string `json:"authorId"`
	Content   string `json:"content"`
	CreatedAt string `json:"createdAt"`
}

// ErrorView is the body of every error response.
type ErrorView struct {
	Error string `json:"error"`
}

func timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func Post(p *domain.Post) *PostView {
	return &PostView{
		ID:              p.ID,
		Title:           p.Title,
		Content:         p.Content,
		AuthorID:        p.AuthorID,
		CommentsEnabled: p.CommentsEnabled,
		CreatedAt:       timestamp(p.CreatedAt),
	}
}

func Comment(c *blog.Comment) *CommentView {
	return &CommentView{
		ID:        c.ID(),
		PostID:    c.PostID(),
		AuthorID:  c.AuthorID(),
		Content:   c.Content(),
		CreatedAt: timestamp(c.CreatedAt()),
	}
}

// Posts presents a page of posts.
func Posts(posts []*domain.Post) []*PostView {
	out := make([]*PostView, len(posts))
	for i, p := range posts {
		out[i] = Post(p)
	}
	return out
}

// Comments traverses the scope once and presents every comment.
func Comments(ctx context.Context, comments *blog.Comments) ([]*CommentView, error) {
	return blog.Collect(blog.Map(comments.All(ctx), Comment))
}

// PostWithComments resolves post and embeds its comments.
func PostWithComments(ctx context.Context, post *blog.Post) (*PostView, error) {
	record, err := post.Record(ctx)
	if err != nil {
		return nil, err
	}
	comments, err := Comments(ctx, post.Comments())
	if err != nil {
		return nil, err
	}
	view := Post(record)
	view.Comments = comments
	return view, nil
}
