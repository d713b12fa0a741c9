package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"text/tabwriter"

	"github.com/alfredjeanlab/linuxtrainer/internal/model"
	"github.com/alfredjeanlab/linuxtrainer/internal/ui"
)

// levelsRow is the listing view of a level.
type levelsRow struct {
	Number   int     `json:"number"`
	Title    string  `json:"title"`
	Expected *string `json:"expected_command"`
	HasHint  bool    `json:"has_hint"`
	Source   string  `json:"source,omitempty"`
}

func rows(lvls []*model.Level) []*levelsRow {
	out := make([]*levelsRow, 0, len(lvls))
	for _, l := range lvls {
		out = append(out, &levelsRow{
			Number:   l.Number,
			Title:    l.DisplayTitle(),
			Expected: l.ExpectedCommand,
			HasHint:  l.Hint != "",
			Source:   filepath.Base(l.Source),
		})
	}
	return out
}

func printLevelsJSON(w io.Writer, lvls []*model.Level) error {
	data, err := json.MarshalIndent(rows(lvls), "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling levels: %w", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}

func printLevelsTable(w io.Writer, lvls []*model.Level) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "LEVEL\tTITLE\tEXPECTED\tHINT\tSOURCE")
	for _, r := range rows(lvls) {
		title := r.Title
		if len(title) > 40 {
			title = title[:37] + "..."
		}
		expected := "-"
		if r.Expected != nil && *r.Expected != "" {
			expected = *r.Expected
		}
		hint := "no"
		if r.HasHint {
			hint = "yes"
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", r.Number, title, expected, hint, r.Source)
	}
	tw.Flush()
	fmt.Fprintf(w, "\n%d levels\n", len(lvls))
}

// levelWarnings flags levels that load but look wrong: field checks from
// model.ValidateLevel, levels with nothing to match, and reused numbers.
func levelWarnings(lvls []*model.Level) []string {
	var warnings []string
	seen := make(map[int]string)
	for _, l := range lvls {
		src := filepath.Base(l.Source)
		var ve *model.ValidationError
		if err := model.ValidateLevel(l); errors.As(err, &ve) {
			for _, fe := range ve.Errors {
				warnings = append(warnings, fmt.Sprintf("level %d (%s): %s %s", l.Number, src, fe.Field, fe.Message))
			}
		}
		if l.ExpectedCommand == nil || *l.ExpectedCommand == "" {
			warnings = append(warnings, fmt.Sprintf("level %d (%s): no expected_command, it can never be solved", l.Number, src))
		}
		if prev, ok := seen[l.Number]; ok {
			warnings = append(warnings, fmt.Sprintf("level %d: number used by both %s and %s", l.Number, prev, src))
		}
		seen[l.Number] = src
	}
	return warnings
}

func errorMark() string { return ui.RenderError("✗") }

func warnMark() string { return ui.RenderHint("!") }
