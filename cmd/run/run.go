// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package run contains the command that executes a batch.
package run

import (
	"context"
	"errors"
	"fmt"

	"github.com/matt-FFFFFF/sheetrun/internal/config"
	"github.com/matt-FFFFFF/sheetrun/internal/ctxlog"
	"github.com/matt-FFFFFF/sheetrun/internal/dispatch"
	"github.com/matt-FFFFFF/sheetrun/internal/executor"
	"github.com/matt-FFFFFF/sheetrun/internal/workstore"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v3"
)

const (
	workbookFlag    = "workbook"
	runfileFlag     = "runfile"
	settingsFlag    = "settings"
	artifactDirFlag = "artifact-dir"
	workersFlag     = "workers"
)

// ErrRun is returned when the batch cannot be started.
var ErrRun = errors.New("unable to run batch")

// RunCmd dispatches every pending workbook row to the configured executable.
var RunCmd = &cli.Command{
	Name: "run",
	Description: `Run the batch described by the workbook and the run file.

The run file is a two-line text file: line 1 is the number of input columns,
line 2 is the executable to run once per row. Status columns are written
immediately after the input columns and flushed on every transition, so an
interrupted batch resumes where it left off.`,
	Usage: "dispatch pending workbook rows to the external executable",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:      workbookFlag,
			Aliases:   []string{"w"},
			Usage:     "Path of the .xlsx workbook holding the work items",
			Value:     "input_file.xlsx",
			TakesFile: true,
			OnlyOnce:  true,
		},
		&cli.StringFlag{
			Name:      runfileFlag,
			Aliases:   []string{"r"},
			Usage:     "Path of the two-line run file (input column count, executable path)",
			Value:     "input.txt",
			TakesFile: true,
			OnlyOnce:  true,
		},
		&cli.StringFlag{
			Name:      settingsFlag,
			Aliases:   []string{"s"},
			Usage:     "Path of the optional YAML settings file",
			Value:     "sheetrun.yaml",
			TakesFile: true,
			OnlyOnce:  true,
		},
		&cli.StringFlag{
			Name:     artifactDirFlag,
			Aliases:  []string{"a"},
			Usage:    "Directory for per-item artifact files (overrides settings)",
			OnlyOnce: true,
		},
		&cli.IntFlag{
			Name:    workersFlag,
			Aliases: []string{"p"},
			Usage: "Number of concurrent worker slots. " +
				"Defaults to the available core count minus the reserved headroom.",
			OnlyOnce: true,
		},
	},
	Action: runAction,
}

func runAction(ctx context.Context, cmd *cli.Command) error {
	logger := ctxlog.Logger(ctx)
	fsys := afero.NewOsFs()

	settings, err := config.LoadSettings(fsys, cmd.String(settingsFlag))
	if err != nil {
		return errors.Join(ErrRun, err)
	}

	cfg, err := config.Load(fsys, cmd.String(runfileFlag))
	if err != nil {
		return errors.Join(ErrRun, err)
	}

	if dir := cmd.String(artifactDirFlag); dir != "" {
		settings.ArtifactDir = dir
	}

	if n := cmd.Int(workersFlag); n > 0 {
		settings.Workers = n
	}

	workers := dispatch.WorkerCount(settings.ReservedCores, settings.Workers)

	logger.Info("batch configuration",
		"workbook", cmd.String(workbookFlag),
		"executable", cfg.ExecutablePath,
		"inputColumns", cfg.InputColumns,
		"workers", workers,
		"reservedCores", settings.ReservedCores)

	store, err := workstore.Open(cmd.String(workbookFlag), cfg.InputColumns, settings.MaxOutputFields)
	if err != nil {
		return errors.Join(ErrRun, err)
	}

	defer store.Close() //nolint:errcheck

	repaired, err := store.Reconcile()
	if err != nil {
		return errors.Join(ErrRun, err)
	}

	if repaired > 0 {
		logger.Info("reconciled stale statuses from a prior run", "rows", repaired)
	}

	if repaired > 0 || store.HeadersRepaired() {
		if err := store.Flush(); err != nil {
			return errors.Join(ErrRun, err)
		}
	}

	runner := executor.New(fsys, cfg.ExecutablePath, settings.ArtifactDir, settings.IdentifierColumn)

	if err := dispatch.New(store, runner, workers, settings.MaxOutputFields).Run(ctx); err != nil {
		return fmt.Errorf("batch did not fully commit: %w", err)
	}

	return nil
}
