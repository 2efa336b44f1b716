package note

import (
	"errors"
	"strings"
)

// ErrInvalidInput indicates a note with no content.
var ErrInvalidInput = errors.New("invalid note input")

// Note is a free-text chart note, newest first.
type Note struct {
	ID         string `json:"id,omitempty"`
	Content    string `json:"content"`
	AuthorID   string `json:"authorId,omitempty"`
	AuthorName string `json:"authorName,omitempty"`
	CreatedAt  string `json:"createdAt,omitempty"`
}

// Validate checks that the note has content.
func (n Note) Validate() error {
	if strings.TrimSpace(n.Content) == "" {
		return ErrInvalidInput
	}
	return nil
}
