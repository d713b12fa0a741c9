// Package journal records a trainer session: an append-only text log for
// humans and an in-memory transcript for export.
package journal

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/alfredjeanlab/linuxtrainer/internal/model"
)

// Sink receives transcript entries for one session.
type Sink interface {
	Record(entry model.TranscriptEntry) error
}

// Journal writes each entry as a line of text and keeps the entries for
// later export. It is safe for concurrent use.
type Journal struct {
	mu      sync.Mutex
	w       *bufio.Writer
	closer  io.Closer
	entries []model.TranscriptEntry
	closed  bool
}

// New returns a Journal writing to w. If w is also an io.Closer it is closed
// by Close.
func New(w io.Writer) *Journal {
	j := &Journal{w: bufio.NewWriter(w)}
	if c, ok := w.(io.Closer); ok {
		j.closer = c
	}
	return j
}

// Open appends to the log file at path, creating it and its directory if needed.
func Open(path string) (*Journal, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("journal: mkdir: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("journal: open %s: %w", path, err)
	}
	return New(f), nil
}

// Discard returns a Journal that keeps the transcript but writes no log.
func Discard() *Journal {
	return New(io.Discard)
}

// Record appends entry to the log and the transcript. The log is flushed
// after every entry so it survives a crash mid-session.
func (j *Journal) Record(entry model.TranscriptEntry) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.closed {
		return fmt.Errorf("journal: record after close")
	}
	j.entries = append(j.entries, entry)
	if _, err := io.WriteString(j.w, FormatEntry(entry)+"\n"); err != nil {
		return fmt.Errorf("journal: write: %w", err)
	}
	if err := j.w.Flush(); err != nil {
		return fmt.Errorf("journal: flush: %w", err)
	}
	return nil
}

// Entries returns a copy of the recorded transcript.
func (j *Journal) Entries() []model.TranscriptEntry {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]model.TranscriptEntry(nil), j.entries...)
}

// Close flushes and releases the underlying writer. Closing twice is a no-op.
func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.closed {
		return nil
	}
	j.closed = true
	err := j.w.Flush()
	if j.closer != nil {
		if cerr := j.closer.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// FormatEntry renders an entry as one log line.
func FormatEntry(e model.TranscriptEntry) string {
	ts := e.Time.Format(time.RFC3339)
	switch e.Kind {
	case model.EntrySessionStart:
		return fmt.Sprintf("Session %s started at %s", e.SessionID, ts)
	case model.EntrySessionEnd:
		return fmt.Sprintf("Session %s ended at %s", e.SessionID, ts)
	case model.EntryInput:
		return fmt.Sprintf("Level %d input: %s", e.Level, e.Input)
	case model.EntryQuit:
		if e.Detail != "" {
			return fmt.Sprintf("User exited the session (%s).", e.Detail)
		}
		return "User exited the session."
	case model.EntryComplete:
		return "All levels completed."
	}

	line := fmt.Sprintf("[%s] %s", ts, e.Kind)
	if e.Level != 0 {
		line += fmt.Sprintf(" level=%d", e.Level)
	}
	if e.Detail != "" {
		line += " " + e.Detail
	}
	return line
}
