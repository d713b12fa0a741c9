package ui

import (
	"os"
	"strings"

	"golang.org/x/term"
)

// ShouldUseColor reports whether stdout should receive ANSI styling.
func ShouldUseColor() bool {
	return ColorEnabled(os.Getenv, term.IsTerminal(int(os.Stdout.Fd())))
}

// ColorEnabled applies the NO_COLOR and CLICOLOR conventions (no-color.org,
// bixense.com/clicolors) to a terminal check. NO_COLOR wins over
// CLICOLOR_FORCE, which wins over CLICOLOR and isTTY.
func ColorEnabled(getenv func(string) string, isTTY bool) bool {
	switch {
	case getenv("NO_COLOR") != "":
		return false
	case envFlag(getenv, "CLICOLOR_FORCE"):
		return true
	case strings.TrimSpace(getenv("CLICOLOR")) == "0":
		return false
	}
	return isTTY
}

func envFlag(getenv func(string) string, key string) bool {
	v := strings.TrimSpace(getenv(key))
	return v != "" && v != "0"
}
