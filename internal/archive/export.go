// Package archive copies finished session transcripts to durable
// destinations (an S3 bucket or a git repository) for later review.
package archive

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/alfredjeanlab/linuxtrainer/internal/model"
)

// header is the first JSONL record written by ExportJSONL.
type header struct {
	Version    string    `json:"version"`
	Type       string    `json:"type"`
	SessionID  string    `json:"session_id"`
	Timestamp  time.Time `json:"timestamp"`
	EntryCount int       `json:"entry_count"`
}

// record wraps a single JSONL line with a type discriminator.
type record struct {
	Type string                `json:"type"`
	Data model.TranscriptEntry `json:"data"`
}

// ExportJSONL writes a session transcript as JSONL to w: one header line,
// then one line per entry in recorded order.
func ExportJSONL(w io.Writer, sessionID string, entries []model.TranscriptEntry, now time.Time) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(header{
		Version:    "1",
		Type:       "header",
		SessionID:  sessionID,
		Timestamp:  now.UTC(),
		EntryCount: len(entries),
	}); err != nil {
		return fmt.Errorf("encode header: %w", err)
	}

	for i, e := range entries {
		if err := enc.Encode(record{Type: "entry", Data: e}); err != nil {
			return fmt.Errorf("encode entry %d: %w", i, err)
		}
	}
	return nil
}
