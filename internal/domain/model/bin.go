package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidBin is matched by every ValidationError.
var ErrInvalidBin = errors.New("invalid bin")

// TimestampLayout is the ISO 8601 form used for createdAt, with millisecond
// precision and a "Z" suffix for UTC.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Bin is a single stored paste: a title and text content with an ID and
// creation timestamp. Bins are append-only and never mutated after creation.
type Bin struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// MarshalJSON writes createdAt in TimestampLayout. Decoding uses the default
// time.Time parser, which accepts any RFC 3339 timestamp.
func (b Bin) MarshalJSON() ([]byte, error) {
	type wireBin struct {
		ID        string `json:"id"`
		Title     string `json:"title"`
		Content   string `json:"content"`
		CreatedAt string `json:"createdAt"`
	}
	return json.Marshal(wireBin{
		ID:        b.ID,
		Title:     b.Title,
		Content:   b.Content,
		CreatedAt: b.CreatedAt.UTC().Format(TimestampLayout),
	})
}

// NewBin is the user-supplied input for creating a Bin.
type NewBin struct {
	Title   string
	Content string
}

// ValidationError reports the first required field that is missing or blank.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s is required", e.Field)
}

// Unwrap lets errors.Is(err, ErrInvalidBin) match.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidBin
}

// Validate checks that title and content are both non-blank.
func (n NewBin) Validate() error {
	if strings.TrimSpace(n.Title) == "" {
		return &ValidationError{Field: "title"}
	}
	if strings.TrimSpace(n.Content) == "" {
		return &ValidationError{Field: "content"}
	}
	return nil
}

// Build turns validated input into a Bin with the given ID and timestamp.
// The timestamp is normalized to UTC with millisecond precision so it
// serializes the same way the original bins.json entries do.
func (n NewBin) Build(id string, now time.Time) Bin {
	return Bin{
		ID:        id,
		Title:     n.Title,
		Content:   n.Content,
		CreatedAt: now.UTC().Truncate(time.Millisecond),
	}
}
