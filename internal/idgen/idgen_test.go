package idgen

import (
	"regexp"
	"strings"
	"testing"
)

func TestNewSessionID_Shape(t *testing.T) {
	pattern := regexp.MustCompile(`^` + regexp.QuoteMeta(SessionPrefix) + `[a-z0-9]{8}$`)
	for i := 0; i < 100; i++ {
		id, err := NewSessionID()
		if err != nil {
			t.Fatalf("NewSessionID() error on iteration %d: %v", i, err)
		}
		if !pattern.MatchString(id) {
			t.Fatalf("NewSessionID() = %q, does not match %s", id, pattern)
		}
	}
}

func TestNewSessionID_Uniqueness(t *testing.T) {
	const count = 5_000
	seen := make(map[string]struct{}, count)
	for i := 0; i < count; i++ {
		id, err := NewSessionID()
		if err != nil {
			t.Fatalf("NewSessionID() error on iteration %d: %v", i, err)
		}
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate ID after %d generations: %q", i, id)
		}
		seen[id] = struct{}{}
	}
}

func TestWithPrefix(t *testing.T) {
	id, err := WithPrefix("test-")
	if err != nil {
		t.Fatalf("WithPrefix error: %v", err)
	}
	if !strings.HasPrefix(id, "test-") {
		t.Errorf("WithPrefix = %q, want prefix test-", id)
	}
	if len(id) != len("test-")+Length {
		t.Errorf("WithPrefix length = %d, want %d", len(id), len("test-")+Length)
	}
}
