package events

import (
	"time"

	"github.com/google/uuid"
)

// Type identifies what happened to the service state
type Type string

const (
	// Created is sent after a record was added to a collection
	Created Type = "created"
	// Replaced is sent after a record was overwritten
	Replaced Type = "replaced"
	// Applied is sent after the pending changes of a root were committed
	Applied Type = "applied"
)

// Event is one change notification published by the configuration service.
type Event struct {
	ID         string    `json:"id"`
	Type       Type      `json:"type"`
	Root       string    `json:"root"`
	Collection string    `json:"collection,omitempty"`
	ResourceID string    `json:"resource_id,omitempty"`
	Generation uint64    `json:"generation"`
	Pending    int       `json:"pending"`
	Time       time.Time `json:"time"`
}

// New returns an event with a fresh id and the current time
func New(typ Type, root, collection, resourceID string, generation uint64, pending int) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       typ,
		Root:       root,
		Collection: collection,
		ResourceID: resourceID,
		Generation: generation,
		Pending:    pending,
		Time:       time.Now().UTC(),
	}
}
