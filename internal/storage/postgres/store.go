package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/UkralStul/posts-presenter/internal/domain"
	"github.com/UkralStul/posts-presenter/internal/storage"
	"github.com/google/uuid"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Store implements storage.Storage on PostgreSQL through gorm.
type Store struct {
	db *gorm.DB
}

// New connects to dsn and migrates the posts and comments tables.
func New(dsn string, logLevel logger.LogLevel) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&domain.Post{}, &domain.Comment{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// notFound maps gorm's missing-row error onto storage.ErrNotFound.
func notFound(kind, id string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %s: %w", kind, id, storage.ErrNotFound)
	}
	return err
}

// checkID rejects ids Postgres cannot cast to uuid. Such a row cannot exist,
// so the lookup is a miss rather than a query error.
func checkID(kind, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%s %s: %w", kind, id, storage.ErrNotFound)
	}
	return nil
}

// validIDs keeps the ids that can match a uuid column.
func validIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, err := uuid.Parse(id); err == nil {
			out = append(out, id)
		}
	}
	return out
}

// === Post Methods ===

func (s *Store) CreatePost(ctx context.Context, post *domain.Post) (*domain.Post, error) {
	if err := s.db.WithContext(ctx).Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

func (s *Store) GetPostByID(ctx context.Context, id string) (*domain.Post, error) {
	if err := checkID("post", id); err != nil {
		return nil, err
	}
	var post domain.Post
	if err := s.db.WithContext(ctx).First(&post, "id = ?", id).Error; err != nil {
		return nil, notFound("post", id, err)
	}
	return &post, nil
}

func (s *Store) GetPosts(ctx context.Context, limit, offset int) ([]*domain.Post, error) {
	posts := []*domain.Post{}
	err := s.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Offset(offset).Find(&posts).Error
	return posts, err
}

func (s *Store) ToggleComments(ctx context.Context, postID string, enable bool) (*domain.Post, error) {
	if err := checkID("post", postID); err != nil {
		return nil, err
	}
	var post domain.Post
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&post, "id = ?", postID).Error; err != nil {
			return notFound("post", postID, err)
		}
		post.CommentsEnabled = enable
		return tx.Save(&post).Error
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// === Comment Methods ===

func (s *Store) CreateComment(ctx context.Context, comment *domain.Comment) (*domain.Comment, error) {
	if err := checkID("post", comment.PostID); err != nil {
		return nil, err
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post domain.Post
		if err := tx.Select("comments_enabled").First(&post, "id = ?", comment.PostID).Error; err != nil {
			return notFound("post", comment.PostID, err)
		}
		if !post.CommentsEnabled {
			return storage.ErrCommentsDisabled
		}
		if err := storage.ValidateComment(comment); err != nil {
			return err
		}
		return tx.Create(comment).Error
	})
	if err != nil {
		return nil, err
	}

	return comment, nil
}

func (s *Store) GetCommentByID(ctx context.Context, id string) (*domain.Comment, error) {
	if err := checkID("comment", id); err != nil {
		return nil, err
	}
	var comment domain.Comment
	if err := s.db.WithContext(ctx).First(&comment, "id = ?", id).Error; err != nil {
		return nil, notFound("comment", id, err)
	}
	return &comment, nil
}

// GetCommentsByPostID issues no ORDER BY; row order is whatever Postgres returns.
func (s *Store) GetCommentsByPostID(ctx context.Context, postID string) ([]*domain.Comment, error) {
	comments := []*domain.Comment{}
	if checkID("post", postID) != nil {
		return comments, nil
	}
	err := s.db.WithContext(ctx).Where("post_id = ?", postID).Find(&comments).Error
	return comments, err
}

// === Dataloader Method ===

func (s *Store) GetCommentsByPostIDs(ctx context.Context, postIDs []string) (map[string][]*domain.Comment, error) {
	result := make(map[string][]*domain.Comment, len(postIDs))
	for _, id := range postIDs {
		result[id] = []*domain.Comment{}
	}
	queryIDs := validIDs(postIDs)
	if len(queryIDs) == 0 {
		return result, nil
	}

	var comments []*domain.Comment
	err := s.db.WithContext(ctx).
		Where("post_id IN ?", queryIDs).
		Order("post_id, created_at ASC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}

	for _, c := range comments {
		result[c.PostID] = append(result[c.PostID], c)
	}
	return result, nil
}
