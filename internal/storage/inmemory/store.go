package inmemory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/UkralStul/posts-presenter/internal/domain"
	"github.com/UkralStul/posts-presenter/internal/storage"
	"github.com/google/uuid"
)

// Store implements storage.Storage in memory.
type Store struct {
	mu             sync.RWMutex
	posts          map[string]*domain.Post
	comments       map[string]*domain.Comment
	commentsByPost map[string][]string // map[postID][]commentID, insertion order
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		posts:          make(map[string]*domain.Post),
		comments:       make(map[string]*domain.Comment),
		commentsByPost: make(map[string][]string),
	}
}

// === Post Methods ===

func (s *Store) CreatePost(ctx context.Context, post *domain.Post) (*domain.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if post.ID == "" {
		post.ID = uuid.NewString()
	}
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now().UTC()
	}
	stored := *post
	s.posts[post.ID] = &stored
	return post, nil
}

func (s *Store) GetPostByID(ctx context.Context, id string) (*domain.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	post, ok := s.posts[id]
	if !ok {
		return nil, fmt.Errorf("post %s: %w", id, storage.ErrNotFound)
	}
	out := *post
	return &out, nil
}

func (s *Store) GetPosts(ctx context.Context, limit, offset int) ([]*domain.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	allPosts := make([]*domain.Post, 0, len(s.posts))
	for _, p := range s.posts {
		out := *p
		allPosts = append(allPosts, &out)
	}

	sort.Slice(allPosts, func(i, j int) bool {
		return allPosts[i].CreatedAt.After(allPosts[j].CreatedAt)
	})

	start := offset
	if start >= len(allPosts) {
		return []*domain.Post{}, nil
	}
	end := start + limit
	if end > len(allPosts) {
		end = len(allPosts)
	}
	return allPosts[start:end], nil
}

func (s *Store) ToggleComments(ctx context.Context, postID string, enable bool) (*domain.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, ok := s.posts[postID]
	if !ok {
		return nil, fmt.Errorf("post %s: %w", postID, storage.ErrNotFound)
	}
	post.CommentsEnabled = enable
	out := *post
	return &out, nil
}

// === Comment Methods ===

func (s *Store) CreateComment(ctx context.Context, comment *domain.Comment) (*domain.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, ok := s.posts[comment.PostID]
	if !ok {
		return nil, fmt.Errorf("post %s: %w", comment.PostID, storage.ErrNotFound)
	}
	if !post.CommentsEnabled {
		return nil, storage.ErrCommentsDisabled
	}
	if err := storage.ValidateComment(comment); err != nil {
		return nil, err
	}

	comment.ID = uuid.NewString()
	comment.CreatedAt = time.Now().UTC()
	stored := *comment
	s.comments[comment.ID] = &stored
	s.commentsByPost[comment.PostID] = append(s.commentsByPost[comment.PostID], comment.ID)

	return comment, nil
}

func (s *Store) GetCommentByID(ctx context.Context, id string) (*domain.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	comment, ok := s.comments[id]
	if !ok {
		return nil, fmt.Errorf("comment %s: %w", id, storage.ErrNotFound)
	}
	out := *comment
	return &out, nil
}

func (s *Store) GetCommentsByPostID(ctx context.Context, postID string) ([]*domain.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.collect(s.commentsByPost[postID]), nil
}

// === Dataloader Methods ===

func (s *Store) GetCommentsByPostIDs(ctx context.Context, postIDs []string) (map[string][]*domain.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make(map[string][]*domain.Comment, len(postIDs))
	for _, id := range postIDs {
		results[id] = s.collect(s.commentsByPost[id])
	}
	return results, nil
}

// collect copies the comments for ids so callers never alias store state.
func (s *Store) collect(ids []string) []*domain.Comment {
	out := make([]*domain.Comment, 0, len(ids))
	for _, id := range ids {
		if c, ok := s.comments[id]; ok {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out
}
