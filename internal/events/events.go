package events

import (
	"context"
	"time"
)

type Type string

const (
	BookShelved  Type = "book.shelved"
	BookRemoved  Type = "book.removed"
	BookProgress Type = "book.progress"
	BookFinished Type = "book.finished"
	ReviewSaved  Type = "review.saved"
	GoalSaved    Type = "goal.saved"
)

// Event describes a library change that has already been persisted.
type Event struct {
	Type      Type      `json:"type"`
	Namespace string    `json:"namespace,omitempty"`
	BookID    string    `json:"book_id,omitempty"`
	Shelf     string    `json:"shelf,omitempty"`
	Progress  *int      `json:"progress,omitempty"`
	Rating    *float64  `json:"rating,omitempty"`
	Target    *int      `json:"target,omitempty"`
	Time      time.Time `json:"time"`
}

// Publisher delivers library events to an activity feed.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Nop discards every event.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
