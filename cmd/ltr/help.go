package main

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/alfredjeanlab/linuxtrainer/internal/ui"
	"github.com/spf13/cobra"
)

// Command groups shown in "ltr --help".
var helpGroups = []*cobra.Group{
	{ID: "train", Title: "Training:"},
	{ID: "levels", Title: "Level authoring:"},
	{ID: "observe", Title: "Observing:"},
}

// colorizedHelpFunc prints cobra's usage text, styled when color is on.
func colorizedHelpFunc() func(*cobra.Command, []string) {
	return func(cmd *cobra.Command, args []string) {
		if noColor || !ui.ShouldUseColor() {
			_ = cmd.Usage()
			return
		}
		out := cmd.OutOrStdout()
		var buf bytes.Buffer
		cmd.SetOut(&buf)
		_ = cmd.Usage()
		cmd.SetOut(out)
		fmt.Fprint(out, styleHelp(buf.String()))
	}
}

// helpSection is the kind of block a help line belongs to.
type helpSection int

const (
	sectionOther helpSection = iota
	sectionCommands
	sectionFlags
	sectionExamples
)

// styleHelp walks cobra's usage text line by line. Headings are accented;
// under a command group the command name is styled; under a flags block the
// flag names are styled and the value type muted; example invocations are
// shown as commands.
func styleHelp(text string) string {
	lines := strings.Split(text, "\n")
	section := sectionOther
	for i, line := range lines {
		if isHeading(line) {
			section = classifyHeading(line)
			lines[i] = ui.RenderAccent(strings.TrimRight(line, " "))
			continue
		}
		switch section {
		case sectionCommands:
			lines[i] = styleCommandLine(line)
		case sectionFlags:
			lines[i] = styleFlagLine(line)
		case sectionExamples:
			if trimmed := strings.TrimSpace(line); strings.HasPrefix(trimmed, "ltr ") {
				lines[i] = strings.Replace(line, trimmed, ui.RenderCommand(trimmed), 1)
			}
		}
	}
	return strings.Join(lines, "\n")
}

func isHeading(line string) bool {
	return line != "" && line[0] != ' ' && strings.HasSuffix(strings.TrimRight(line, " "), ":")
}

func classifyHeading(line string) helpSection {
	h := strings.TrimSuffix(strings.TrimSpace(line), ":")
	switch {
	case strings.HasSuffix(h, "Flags"):
		return sectionFlags
	case h == "Examples":
		return sectionExamples
	case h == "Usage", h == "Aliases":
		return sectionOther
	}
	// "Available Commands", "Additional Commands" and the group titles.
	return sectionCommands
}

// styleCommandLine styles "  name   description".
func styleCommandLine(line string) string {
	body := strings.TrimLeft(line, " ")
	indent := line[:len(line)-len(body)]
	name, rest, ok := strings.Cut(body, " ")
	if indent == "" || !ok {
		return line
	}
	return indent + ui.RenderCommand(name) + " " + rest
}

// styleFlagLine styles "  -v, --verbose   text (default "x")". pflag pads
// the flag column and separates it from the usage text with three spaces.
func styleFlagLine(line string) string {
	body := strings.TrimLeft(line, " ")
	if !strings.HasPrefix(body, "-") {
		return line
	}
	indent := line[:len(line)-len(body)]

	spec, tail := body, ""
	if idx := strings.Index(body, "   "); idx >= 0 {
		spec, tail = body[:idx], body[idx:]
	}

	parts := strings.Split(spec, " ")
	for i, tok := range parts {
		switch {
		case strings.HasPrefix(tok, "-"):
			name := strings.TrimSuffix(tok, ",")
			parts[i] = ui.RenderCommand(name) + tok[len(name):]
		case isFlagType(tok):
			parts[i] = ui.RenderMuted(tok)
		}
	}

	if d := strings.LastIndex(tail, "(default "); d >= 0 && strings.HasSuffix(tail, ")") {
		tail = tail[:d] + ui.RenderMuted(tail[d:])
	}
	return indent + strings.Join(parts, " ") + tail
}

func isFlagType(s string) bool {
	switch s {
	case "string", "int", "duration", "strings":
		return true
	}
	return false
}
