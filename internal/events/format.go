package events

import (
	"encoding/json"
	"fmt"
)

// Describe renders a received message as a one-line summary.
func Describe(msg Message) (string, error) {
	switch msg.Topic {
	case TopicSessionStarted:
		var ev SessionStarted
		if err := json.Unmarshal(msg.Data, &ev); err != nil {
			return "", fmt.Errorf("decode %s: %w", msg.Topic, err)
		}
		return fmt.Sprintf("%s started (%d levels)", ev.SessionID, ev.Levels), nil
	case TopicLevelSolved:
		var ev LevelSolved
		if err := json.Unmarshal(msg.Data, &ev); err != nil {
			return "", fmt.Errorf("decode %s: %w", msg.Topic, err)
		}
		return fmt.Sprintf("%s solved level %d %q with %q after %d attempt(s)",
			ev.SessionID, ev.Level, ev.Title, ev.Input, ev.Attempts), nil
	case TopicSessionEnded:
		var ev SessionEnded
		if err := json.Unmarshal(msg.Data, &ev); err != nil {
			return "", fmt.Errorf("decode %s: %w", msg.Topic, err)
		}
		outcome := "stopped"
		switch {
		case ev.Completed:
			outcome = "completed"
		case ev.Quit:
			outcome = "quit"
		}
		return fmt.Sprintf("%s %s (%d/%d solved)", ev.SessionID, outcome, ev.Solved, ev.Total), nil
	}
	return fmt.Sprintf("%s %s", msg.Topic, msg.Data), nil
}
