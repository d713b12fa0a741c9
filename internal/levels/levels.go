// Package levels loads level definitions from a directory of JSON, YAML or
// TOML files, one level per file.
package levels

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/alfredjeanlab/linuxtrainer/internal/model"
)

//go:embed builtin/*
var builtinFS embed.FS

// ErrNoLevelsDir is returned when the levels directory does not exist.
var ErrNoLevelsDir = errors.New("levels directory not found")

// Problem describes a level file that was skipped.
type Problem struct {
	File string
	Err  error
}

func (p Problem) String() string {
	return p.File + ": " + p.Err.Error()
}

// Format is a level file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatFor returns the format implied by a file name's extension.
func FormatFor(name string) (Format, bool) {
	switch strings.ToLower(path.Ext(name)) {
	case ".json":
		return FormatJSON, true
	case ".yaml", ".yml":
		return FormatYAML, true
	case ".toml":
		return FormatTOML, true
	}
	return "", false
}

// Builtin returns the levels shipped with the trainer.
func Builtin() ([]*model.Level, []Problem, error) {
	return LoadFS(builtinFS, "builtin")
}

// LoadDir loads every level file in dir.
func LoadDir(dir string) ([]*model.Level, []Problem, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, fmt.Errorf("%w: %s", ErrNoLevelsDir, dir)
		}
		return nil, nil, fmt.Errorf("levels: %w", err)
	}
	if !info.IsDir() {
		return nil, nil, fmt.Errorf("levels: %s is not a directory", dir)
	}
	return LoadFS(os.DirFS(dir), ".")
}

// LoadFS loads every level file directly under dir in fsys. Files are read
// in lexical order; the result is sorted by level number with ties kept in
// that order. Files that cannot be read or parsed are skipped
// and reported as problems. Files with other extensions are ignored.
func LoadFS(fsys fs.FS, dir string) ([]*model.Level, []Problem, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, nil, fmt.Errorf("levels: read dir: %w", err)
	}

	var (
		levels   []*model.Level
		problems []Problem
	)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		format, ok := FormatFor(e.Name())
		if !ok {
			continue
		}

		name := path.Join(dir, e.Name())
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			problems = append(problems, Problem{File: e.Name(), Err: err})
			continue
		}
		lvl, err := Parse(data, format)
		if err != nil {
			problems = append(problems, Problem{File: e.Name(), Err: err})
			continue
		}
		lvl.Source = e.Name()
		levels = append(levels, lvl)
	}

	model.SortLevels(levels)
	return levels, problems, nil
}

// Parse decodes a single level. Content checks are left to
// model.ValidateLevel so that odd but playable levels still load.
func Parse(data []byte, format Format) (*model.Level, error) {
	var lvl model.Level
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		if err := dec.Decode(&lvl); err != nil {
			return nil, fmt.Errorf("parse json: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &lvl); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
	case FormatTOML:
		if _, err := toml.Decode(string(data), &lvl); err != nil {
			return nil, fmt.Errorf("parse toml: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown level format %q", format)
	}

	return &lvl, nil
}
