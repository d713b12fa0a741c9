// Package events publishes trainer session progress to an event bus so an
// instructor can follow along with "ltr watch".
package events

import (
	"context"
	"time"
)

// Event topic constants
const (
	TopicSessionStarted = "trainer.session.started"
	TopicLevelSolved    = "trainer.level.solved"
	TopicSessionEnded   = "trainer.session.ended"

	// TopicAll matches every trainer topic.
	TopicAll = "trainer.>"
)

// Event types

type SessionStarted struct {
	SessionID string    `json:"session_id"`
	Levels    int       `json:"levels"`
	StartedAt time.Time `json:"started_at"`
}

type LevelSolved struct {
	SessionID string `json:"session_id"`
	Level     int    `json:"level"`
	Title     string `json:"title"`
	Input     string `json:"input"`
	Attempts  int    `json:"attempts"`
}

type SessionEnded struct {
	SessionID string    `json:"session_id"`
	Solved    int       `json:"solved"`
	Total     int       `json:"total"`
	Completed bool      `json:"completed"`
	Quit      bool      `json:"quit"`
	EndedAt   time.Time `json:"ended_at"`
}

// Publisher sends session events to the bus.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}

// Subscriber follows topics on the bus. Cancel unsubscribes and closes the
// channel.
type Subscriber interface {
	Subscribe(topic string) (msgs <-chan Message, cancel func(), err error)
	Close() error
}

// Discard is the Publisher used when no bus is configured.
var Discard Publisher = discard{}

type discard struct{}

func (discard) Publish(context.Context, string, any) error { return nil }
func (discard) Close() error                               { return nil }
