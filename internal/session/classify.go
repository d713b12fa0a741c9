package session

import (
	"strings"

	"github.com/alfredjeanlab/linuxtrainer/internal/model"
)

// Action is what a line of input asks the runner to do.
type Action int

const (
	ActionAnswer Action = iota
	ActionHint
	ActionQuit
)

// Classify maps a line to an Action. "exit", "quit" and "hint" are matched
// case-insensitively after trimming; everything else is an answer.
func Classify(line string) Action {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "exit", "quit":
		return ActionQuit
	case "hint":
		return ActionHint
	}
	return ActionAnswer
}

// FromLevel returns the suffix of levels starting at the first level whose
// number is at least n. Levels must already be sorted.
func FromLevel(levels []*model.Level, n int) []*model.Level {
	for i, l := range levels {
		if l.Number >= n {
			return levels[i:]
		}
	}
	return nil
}
