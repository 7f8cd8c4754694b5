// Package realtime carries change events between the storage layer, the
// in-memory mirror, and connected websocket clients.
package realtime

import (
	"encoding/json"
	"fmt"

	"artemis/internal/models"
)

// Table identifies the collection an event belongs to.
type Table string

// Tables with change feeds.
const (
	TablePosts    Table = "posts"
	TableComments Table = "comments"
)

// ChangeType is the kind of mutation an event describes.
type ChangeType string

// Change types.
const (
	ChangeInsert ChangeType = "insert"
	ChangeUpdate ChangeType = "update"
	ChangeDelete ChangeType = "delete"
)

// Event is one change notification. Insert/update events carry the full row;
// delete events carry only the entity id.
type Event struct {
	Table   Table           `json:"table"`
	Type    ChangeType      `json:"type"`
	ID      uint            `json:"id"`
	Post    *models.Post    `json:"post,omitempty"`
	Comment *models.Comment `json:"comment,omitempty"`
}

// PostEvent builds an event for a post row.
func PostEvent(t ChangeType, post *models.Post) Event {
	e := Event{Table: TablePosts, Type: t}
	if post != nil {
		e.ID = post.ID
		if t != ChangeDelete {
			e.Post = post
		}
	}
	return e
}

// PostDeleteEvent builds a delete event from a bare post id.
func PostDeleteEvent(id uint) Event {
	return Event{Table: TablePosts, Type: ChangeDelete, ID: id}
}

// CommentEvent builds an event for a comment row.
func CommentEvent(t ChangeType, comment *models.Comment) Event {
	e := Event{Table: TableComments, Type: t}
	if comment != nil {
		e.ID = comment.ID
		if t != ChangeDelete {
			e.Comment = comment
		}
	}
	return e
}

// CommentDeleteEvent builds a delete event from a bare comment id.
func CommentDeleteEvent(id uint) Event {
	return Event{Table: TableComments, Type: ChangeDelete, ID: id}
}

// Valid reports whether the event names a known table and change type.
func (e Event) Valid() bool {
	if e.Table != TablePosts && e.Table != TableComments {
		return false
	}
	switch e.Type {
	case ChangeInsert, ChangeUpdate, ChangeDelete:
		return true
	}
	return false
}

// Encode serializes the event as JSON.
func (e Event) Encode() ([]byte, error) {
	return json.Marshal(e)
}

// DecodeEvent parses an event from its JSON form.
func DecodeEvent(data []byte) (Event, error) {
	var e Event
	if err := json.Unmarshal(data, &e); err != nil {
		return Event{}, fmt.Errorf("decode change event: %w", err)
	}
	if !e.Valid() {
		return Event{}, fmt.Errorf("invalid change event: table=%q type=%q", e.Table, e.Type)
	}
	return e, nil
}
