// Package sqlite provides a SQLite-backed storage.Storage built on plain SQL.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/UkralStul/posts-presenter/internal/domain"
	"github.com/UkralStul/posts-presenter/internal/storage"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS posts (
	id               TEXT PRIMARY KEY,
	title            TEXT NOT NULL,
	content          TEXT NOT NULL,
	author_id        TEXT NOT NULL,
	comments_enabled INTEGER NOT NULL DEFAULT 1,
	created_at       INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS comments (
	id         TEXT PRIMARY KEY,
	post_id    TEXT NOT NULL REFERENCES posts(id),
	author_id  TEXT NOT NULL,
	content    TEXT NOT NULL,
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS comments_post_id ON comments(post_id);
`

// Store persists posts and comments in SQLite.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens the database at path and creates the schema if missing.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPost(row scanner) (*domain.Post, error) {
	var (
		p         domain.Post
		enabled   int
		createdAt int64
	)
	if err := row.Scan(&p.ID, &p.Title, &p.Content, &p.AuthorID, &enabled, &createdAt); err != nil {
		return nil, err
	}
	p.CommentsEnabled = enabled != 0
	p.CreatedAt = fromMillis(createdAt)
	return &p, nil
}

func scanComment(row scanner) (*domain.Comment, error) {
	var (
		c         domain.Comment
		createdAt int64
	)
	if err := row.Scan(&c.ID, &c.PostID, &c.AuthorID, &c.Content, &createdAt); err != nil {
		return nil, err
	}
	c.CreatedAt = fromMillis(createdAt)
	return &c, nil
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

// === Post Methods ===

func (s *Store) CreatePost(ctx context.Context, post *domain.Post) (*domain.Post, error) {
	if post.ID == "" {
		post.ID = uuid.NewString()
	}
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now().UTC()
	}
	post.CreatedAt = fromMillis(toMillis(post.CreatedAt))

	_, err := s.sqlDB.ExecContext(ctx,
		`INSERT INTO posts (id, title, content, author_id, comments_enabled, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		post.ID, post.Title, post.Content, post.AuthorID, boolToInt(post.CommentsEnabled), toMillis(post.CreatedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("insert post: %w", err)
	}
	return post, nil
}

func (s *Store) GetPostByID(ctx context.Context, id string) (*domain.Post, error) {
	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT id, title, content, author_id, comments_enabled, created_at FROM posts WHERE id = ?`, id)
	post, err := scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("post %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}
	return post, nil
}

func (s *Store) GetPosts(ctx context.Context, limit, offset int) ([]*domain.Post, error) {
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT id, title, content, author_id, comments_enabled, created_at FROM posts
		 ORDER BY created_at DESC LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	posts := []*domain.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

func (s *Store) ToggleComments(ctx context.Context, postID string, enable bool) (*domain.Post, error) {
	res, err := s.sqlDB.ExecContext(ctx,
		`UPDATE posts SET comments_enabled = ? WHERE id = ?`, boolToInt(enable), postID)
	if err != nil {
		return nil, fmt.Errorf("toggle comments: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("toggle comments: rows affected: %w", err)
	}
	if n == 0 {
		return nil, fmt.Errorf("post %s: %w", postID, storage.ErrNotFound)
	}
	return s.GetPostByID(ctx, postID)
}

// === Comment Methods ===

func (s *Store) CreateComment(ctx context.Context, comment *domain.Comment) (*domain.Comment, error) {
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var enabled int
	err = tx.QueryRowContext(ctx, `SELECT comments_enabled FROM posts WHERE id = ?`, comment.PostID).Scan(&enabled)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("post %s: %w", comment.PostID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("check post: %w", err)
	}
	if enabled == 0 {
		return nil, storage.ErrCommentsDisabled
	}
	if err := storage.ValidateComment(comment); err != nil {
		return nil, err
	}

	comment.ID = uuid.NewString()
	comment.CreatedAt = fromMillis(toMillis(time.Now()))
	_, err = tx.ExecContext(ctx,
		`INSERT INTO comments (id, post_id, author_id, content, created_at) VALUES (?, ?, ?, ?, ?)`,
		comment.ID, comment.PostID, comment.AuthorID, comment.Content, toMillis(comment.CreatedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("insert comment: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return comment, nil
}

func (s *Store) GetCommentByID(ctx context.Context, id string) (*domain.Comment, error) {
	row := s.sqlDB.QueryRowContext(ctx,
		`SELECT id, post_id, author_id, content, created_at FROM comments WHERE id = ?`, id)
	comment, err := scanComment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("comment %s: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get comment: %w", err)
	}
	return comment, nil
}

func (s *Store) GetCommentsByPostID(ctx context.Context, postID string) ([]*domain.Comment, error) {
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT id, post_id, author_id, content, created_at FROM comments WHERE post_id = ?`, postID)
	if err != nil {
		return nil, fmt.Errorf("query comments: %w", err)
	}
	defer rows.Close()

	comments := []*domain.Comment{}
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// === Dataloader Method ===

func (s *Store) GetCommentsByPostIDs(ctx context.Context, postIDs []string) (map[string][]*domain.Comment, error) {
	result := make(map[string][]*domain.Comment, len(postIDs))
	if len(postIDs) == 0 {
		return result, nil
	}

	args := make([]any, len(postIDs))
	for i, id := range postIDs {
		args[i] = id
		result[id] = []*domain.Comment{}
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(postIDs)), ",")

	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT id, post_id, author_id, content, created_at FROM comments
		 WHERE post_id IN (`+placeholders+`) ORDER BY post_id, created_at ASC`, args...)
	if err != nil {
		return nil, fmt.Errorf("query comments batch: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		result[c.PostID] = append(result[c.PostID], c)
	}
	return result, rows.Err()
}
