package archive

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/alfredjeanlab/linuxtrainer/internal/model"
)

// Destination is a place a transcript can be written to (S3, git, ...).
type Destination interface {
	// Name identifies the destination in logs.
	Name() string
	// Write stores data under the object name (e.g. "ls-abc123.jsonl").
	Write(ctx context.Context, name string, data []byte) error
}

// Archiver exports a transcript once and writes it to every destination.
type Archiver struct {
	destinations []Destination
	logger       *slog.Logger
	now          func() time.Time
}

// New creates an Archiver for the given destinations.
func New(destinations []Destination, logger *slog.Logger) *Archiver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Archiver{
		destinations: destinations,
		logger:       logger,
		now:          time.Now,
	}
}

// Archive writes the transcript to all destinations. A failing destination
// does not stop the others; all failures are returned joined.
func (a *Archiver) Archive(ctx context.Context, sessionID string, entries []model.TranscriptEntry) error {
	if len(a.destinations) == 0 {
		return nil
	}

	var buf bytes.Buffer
	if err := ExportJSONL(&buf, sessionID, entries, a.now()); err != nil {
		return fmt.Errorf("archive export: %w", err)
	}
	data := buf.Bytes()
	name := sessionID + ".jsonl"

	var errs []error
	for _, dest := range a.destinations {
		if err := dest.Write(ctx, name, data); err != nil {
			a.logger.Error("archive destination write failed", "destination", dest.Name(), "session", sessionID, "err", err)
			errs = append(errs, fmt.Errorf("%s: %w", dest.Name(), err))
			continue
		}
		a.logger.Debug("archived transcript", "destination", dest.Name(), "session", sessionID, "bytes", len(data))
	}
	return errors.Join(errs...)
}
