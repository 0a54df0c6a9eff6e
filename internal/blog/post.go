// Package blog holds the query objects the API is built on. A Post resolves
// its record lazily; a Comments value is a query scope, not a loaded list.
package blog

import (
	"context"
	"fmt"
	"sync"

	"github.com/UkralStul/posts-presenter/internal/domain"
	"github.com/UkralStul/posts-presenter/internal/storage"
)

// Source is what a Post needs from the store.
type Source interface {
	storage.PostFinder
	storage.CommentQuery
}

// PostConfig carries the identifier a Post is built from.
type PostConfig struct {
	ID string
}

// Post wraps a post identifier and resolves the backing record on demand.
type Post struct {
	id  string
	src Source

	mu     sync.Mutex
	record *domain.Post
}

func NewPost(src Source, cfg PostConfig) *Post {
	return &Post{id: cfg.ID, src: src}
}

// ID returns the identifier the post was constructed with.
func (p *Post) ID() string { return p.id }

// Comments returns a new scope over this post's comments on every call.
func (p *Post) Comments() *Comments {
	return NewComments(p.src, CommentsConfig{PostID: p.id})
}

// Record loads the post record on first use and caches it for the lifetime
// of p. Failures are returned and not cached, so a later call retries.
func (p *Post) Record(ctx context.Context) (*domain.Post, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.record != nil {
		return p.record, nil
	}
	record, err := p.src.GetPostByID(ctx, p.id)
	if err != nil {
		return nil, fmt.Errorf("resolve post %s: %w", p.id, err)
	}
	p.record = record
	return record, nil
}
