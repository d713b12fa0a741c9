package model

import (
	"fmt"
	"sort"
)

// Level is one exercise: a prompt, the command that solves it, and an
// optional hint. Levels are read-only once loaded.
type Level struct {
	Number          int     `json:"number" yaml:"number" toml:"number"`
	Title           string  `json:"title,omitempty" yaml:"title,omitempty" toml:"title,omitempty"`
	Description     string  `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`
	ExpectedCommand *string `json:"expected_command,omitempty" yaml:"expected_command,omitempty" toml:"expected_command,omitempty"`
	Hint            string  `json:"hint,omitempty" yaml:"hint,omitempty" toml:"hint,omitempty"`

	// Source is the file the level was loaded from. Not part of the level format.
	Source string `json:"-" yaml:"-" toml:"-"`
}

// DisplayTitle returns the level title, falling back to "Level <n>".
func (l *Level) DisplayTitle() string {
	if l.Title != "" {
		return l.Title
	}
	return fmt.Sprintf("Level %d", l.Number)
}

// Expected returns the expected command, or "" when none is configured.
func (l *Level) Expected() string {
	if l.ExpectedCommand == nil {
		return ""
	}
	return *l.ExpectedCommand
}

// Verifiable reports whether the level has an expected command to match against.
func (l *Level) Verifiable() bool {
	return l.Expected() != ""
}

// SortLevels orders levels ascending by Number. Ties keep their load order.
func SortLevels(levels []*Level) {
	sort.SliceStable(levels, func(i, j int) bool {
		return levels[i].Number < levels[j].Number
	})
}

// StringPtr returns a pointer to s. Convenient for building levels in code.
func StringPtr(s string) *string {
	return &s
}
