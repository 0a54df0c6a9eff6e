package storage

import (
	"strings"

	"github.com/UkralStul/posts-presenter/internal/domain"
)

// ValidateComment checks the content rules shared by all backends.
func ValidateComment(c *domain.Comment) error {
	if len(c.Content) > domain.MaxCommentLength {
		return ErrContentTooLong
	}
	if strings.TrimSpace(c.Content) == "" {
		return ErrContentEmpty
	}
	return nil
}
