// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/spf13/afero"
)

var (
	// ErrSettingsParse is returned when the settings file is not valid YAML.
	ErrSettingsParse = errors.New("unable to parse settings file")
	// ErrSettingsValue is returned when a settings value is out of range.
	ErrSettingsValue = errors.New("invalid settings value")
)

// Default values for the dispatcher's tunable knobs.
const (
	// DefaultReservedCores is the headroom left for the host system when
	// sizing the worker pool from the available core count.
	DefaultReservedCores = 2
	// DefaultMaxOutputFields bounds the number of output columns written
	// back to the work store for each item.
	DefaultMaxOutputFields = 50
	// DefaultIdentifierColumn is the 1-based input column whose value names
	// the per-item artifact file.
	DefaultIdentifierColumn = 12
)

// Settings holds the optional dispatcher knobs. All fields have working
// defaults; a missing settings file is not an error.
type Settings struct {
	// ReservedCores is subtracted from the available core count when sizing the pool.
	ReservedCores int `yaml:"reserved_cores"`
	// Workers overrides the derived pool size when positive.
	Workers int `yaml:"workers"`
	// MaxOutputFields bounds the output columns written per item.
	MaxOutputFields int `yaml:"max_output_fields"`
	// ArtifactDir is where per-item artifact files are written.
	ArtifactDir string `yaml:"artifact_dir"`
	// IdentifierColumn is the 1-based input column naming the artifact file.
	IdentifierColumn int `yaml:"identifier_column"`
}

// DefaultSettings returns the settings used when no settings file is present.
func DefaultSettings() Settings {
	return Settings{
		ReservedCores:    DefaultReservedCores,
		MaxOutputFields:  DefaultMaxOutputFields,
		ArtifactDir:      ".",
		IdentifierColumn: DefaultIdentifierColumn,
	}
}

// LoadSettings reads the YAML settings file at path. A missing file yields
// the defaults; a malformed file or out-of-range value is an error.
// Absent keys keep their default values.
func LoadSettings(fsys afero.Fs, path string) (Settings, error) {
	settings := DefaultSettings()

	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}

		return Settings{}, errors.Join(ErrSettingsParse, err)
	}

	if err := yaml.Unmarshal(data, &settings); err != nil {
		return Settings{}, errors.Join(ErrSettingsParse, err)
	}

	if err := settings.validate(); err != nil {
		return Settings{}, err
	}

	return settings, nil
}

func (s Settings) validate() error {
	if s.ReservedCores < 0 {
		return fmt.Errorf("%w: reserved_cores must not be negative, got %d", ErrSettingsValue, s.ReservedCores)
	}

	if s.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative, got %d", ErrSettingsValue, s.Workers)
	}

	if s.MaxOutputFields < 1 {
		return fmt.Errorf("%w: max_output_fields must be positive, got %d", ErrSettingsValue, s.MaxOutputFields)
	}

	if s.IdentifierColumn < 1 {
		return fmt.Errorf("%w: identifier_column must be positive, got %d", ErrSettingsValue, s.IdentifierColumn)
	}

	return nil
}
