package sync

import (
	"time"

	"telugudb/pkg/models"
)

const (
	EventContentCreated = "content.created"
	EventContentUpdated = "content.updated"
	EventContentDeleted = "content.deleted"
)

// ContentEvent is one line on the change feed.
type ContentEvent struct {
	Type        string             `json:"type"`
	ContentID   string             `json:"contentId"`
	ContentType models.ContentType `json:"contentType,omitempty"`
	Title       string             `json:"title,omitempty"`
	At          time.Time          `json:"at"`
}

// NewContentEvent builds an event for c. c may be nil for deletes, in
// which case only the id is known.
func NewContentEvent(kind, id string, c *models.Content) ContentEvent {
	ev := ContentEvent{Type: kind, ContentID: id, At: time.Now().UTC()}
	if c != nil {
		ev.ContentType = c.Type
		ev.Title = c.Title
	}
	return ev
}
