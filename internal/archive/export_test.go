package archive

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/alfredjeanlab/linuxtrainer/internal/model"
)

var exportTime = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

func sampleEntries() []model.TranscriptEntry {
	return []model.TranscriptEntry{
		{Time: exportTime, SessionID: "ls-exp00001", Kind: model.EntrySessionStart},
		{Time: exportTime, SessionID: "ls-exp00001", Kind: model.EntryInput, Level: 1, Input: "pwd <&>"},
		{Time: exportTime, SessionID: "ls-exp00001", Kind: model.EntrySessionEnd},
	}
}

func TestExportJSONL_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := ExportJSONL(&buf, "ls-empty001", nil, exportTime); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := nonEmptyLines(buf.String())
	if len(lines) != 1 {
		t.Fatalf("expected 1 line (header only), got %d", len(lines))
	}

	var h header
	if err := json.Unmarshal([]byte(lines[0]), &h); err != nil {
		t.Fatalf("unmarshal header: %v", err)
	}
	if h.Version != "1" || h.Type != "header" || h.SessionID != "ls-empty001" || h.EntryCount != 0 {
		t.Fatalf("unexpected header: %+v", h)
	}
}

func TestExportJSONL_Entries(t *testing.T) {
	var buf bytes.Buffer
	if err := ExportJSONL(&buf, "ls-exp00001", sampleEntries(), exportTime); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := nonEmptyLines(buf.String())
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d:\n%s", len(lines), buf.String())
	}
	if strings.Contains(lines[2], `\u003c`) {
		t.Errorf("HTML escaping should be disabled: %s", lines[2])
	}

	var rec record
	if err := json.Unmarshal([]byte(lines[2]), &rec); err != nil {
		t.Fatalf("unmarshal entry: %v", err)
	}
	if rec.Type != "entry" || rec.Data.Kind != model.EntryInput || rec.Data.Input != "pwd <&>" || rec.Data.Level != 1 {
		t.Fatalf("unexpected record: %+v", rec)
	}
}

func nonEmptyLines(s string) []string {
	var result []string
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) != "" {
			result = append(result, line)
		}
	}
	return result
}
