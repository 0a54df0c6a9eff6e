package domain

import "time"

// Post is a persisted post record.
type Post struct {
	ID              string    `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Title           string    `json:"title" gorm:"type:varchar(255);not null"`
	Content         string    `json:"content" gorm:"type:text;not null"`
	AuthorID        string    `json:"authorId" gorm:"type:varchar(255);not null"`
	CommentsEnabled bool      `json:"commentsEnabled" gorm:"not null;default:true"`
	CreatedAt       time.Time `json:"createdAt" gorm:"not null;default:now()"`
}

// Comment is a persisted comment record. PostID is the foreign key that
// scopes comment queries.
type Comment struct {
	ID        string    `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	PostID    string    `json:"postId" gorm:"type:uuid;not null;index"`
	AuthorID  string    `json:"authorId" gorm:"type:varchar(255);not null"`
	Content   string    `json:"content" gorm:"type:varchar(2000);not null"`
	CreatedAt time.Time `json:"createdAt" gorm:"not null;default:now()"`
}

// MaxCommentLength is the longest comment body, in bytes, a store accepts.
const MaxCommentLength = 2000
