// Package catalog holds the content catalog: the document stores, write
// validation, read-time aggregation and the HTTP handlers.
package catalog

import (
	"context"
	"errors"
	"strings"
	"time"

	"telugudb/pkg/models"
)

// ErrNotFound is returned when an id does not resolve to a stored
// document. Malformed ids are reported the same way.
var ErrNotFound = errors.New("content not found")

// Filter narrows List. Zero fields match everything.
type Filter struct {
	Type     models.ContentType
	Language string // exact match
	Category string // exact match
	Search   string // case-insensitive substring of title or any tag
}

// Matches reports whether c satisfies every set field of f.
func (f Filter) Matches(c *models.Content) bool {
	if f.Type != "" && c.Type != f.Type {
		return false
	}
	if f.Language != "" && c.Language != f.Language {
		return false
	}
	if f.Category != "" && c.Category != f.Category {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" {
		if strings.Contains(strings.ToLower(c.Title), q) {
			return true
		}
		for _, tag := range c.Tags {
			if strings.Contains(strings.ToLower(tag), q) {
				return true
			}
		}
		return false
	}
	return true
}

// Store persists content documents. Every write touches exactly one
// document and is atomic for that document.
type Store interface {
	// Create assigns ID, CreatedAt and UpdatedAt, then persists c.
	Create(ctx context.Context, c *models.Content) error
	Get(ctx context.Context, id string) (*models.Content, error)
	// List returns matching documents in store (insertion) order.
	List(ctx context.Context, f Filter) ([]models.Content, error)
	// Update loads the document, lets mutate change it and commits the
	// result. An error from mutate aborts the write and is returned as is.
	// ID and CreatedAt are preserved; UpdatedAt always advances.
	Update(ctx context.Context, id string, mutate func(*models.Content) error) (*models.Content, error)
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
	Close() error
}

// timestamp returns now in the precision both backends keep.
func timestamp(now time.Time) time.Time {
	return now.UTC().Truncate(time.Millisecond)
}

// nextUpdatedAt returns a timestamp strictly after prev.
func nextUpdatedAt(now, prev time.Time) time.Time {
	t := timestamp(now)
	if !t.After(prev) {
		t = prev.Add(time.Millisecond)
	}
	return t
}
