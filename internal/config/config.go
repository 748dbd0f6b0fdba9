// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/afero"
)

var (
	// ErrConfigRead is returned when the run file cannot be read.
	ErrConfigRead = errors.New("unable to read run file")
	// ErrConfigFormat is returned when the run file does not have the required two lines.
	ErrConfigFormat = errors.New("run file must have at least two lines: input column count and executable path")
	// ErrColumnCount is returned when the first line is not a positive integer.
	ErrColumnCount = errors.New("input column count must be a positive integer")
)

// Config holds the two scalars that define a batch run.
// It is loaded once per run and immutable thereafter.
type Config struct {
	// InputColumns is the number of leading workbook columns that hold an item's input fields.
	InputColumns int
	// ExecutablePath is the absolute path of the external program run once per work item.
	ExecutablePath string
}

// Load reads the run file at path: non-empty, whitespace-trimmed lines,
// line 1 the input column count, line 2 the executable path.
// The executable path is resolved to an absolute path before use.
func Load(fsys afero.Fs, path string) (Config, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return Config{}, errors.Join(ErrConfigRead, err)
	}

	var lines []string

	for _, line := range strings.Split(string(data), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}

	if len(lines) < 2 {
		return Config{}, fmt.Errorf("%w: %q has %d", ErrConfigFormat, path, len(lines))
	}

	cols, err := strconv.Atoi(lines[0])
	if err != nil {
		return Config{}, errors.Join(ErrColumnCount, err)
	}

	if cols < 1 {
		return Config{}, fmt.Errorf("%w: got %d", ErrColumnCount, cols)
	}

	exe, err := filepath.Abs(lines[1])
	if err != nil {
		return Config{}, errors.Join(ErrConfigRead, err)
	}

	return Config{
		InputColumns:   cols,
		ExecutablePath: exe,
	}, nil
}
