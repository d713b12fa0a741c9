package model

import "time"

// EntryKind classifies a transcript entry.
type EntryKind string

const (
	EntrySessionStart EntryKind = "session_start"
	EntryInput        EntryKind = "input"
	EntryHint         EntryKind = "hint"
	EntryIncorrect    EntryKind = "incorrect"
	EntrySolved       EntryKind = "solved"
	EntryExec         EntryKind = "exec"
	EntryQuit         EntryKind = "quit"
	EntryComplete     EntryKind = "complete"
	EntrySessionEnd   EntryKind = "session_end"
	EntryError        EntryKind = "error"
)

// String returns the string representation of the entry kind.
func (k EntryKind) String() string {
	return string(k)
}

// TranscriptEntry is one line of a session log.
type TranscriptEntry struct {
	Time      time.Time `json:"time"`
	SessionID string    `json:"session_id"`
	Kind      EntryKind `json:"kind"`
	Level     int       `json:"level,omitempty"`
	Input     string    `json:"input,omitempty"`
	Detail    string    `json:"detail,omitempty"`
}
