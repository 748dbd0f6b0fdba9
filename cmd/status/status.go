// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package status contains the command that reports batch progress.
package status

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/matt-FFFFFF/sheetrun/internal/config"
	"github.com/matt-FFFFFF/sheetrun/internal/workstore"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v3"
)

const (
	workbookFlag = "workbook"
	runfileFlag  = "runfile"
)

// ErrStatus is returned when the store cannot be summarized.
var ErrStatus = errors.New("unable to read batch status")

// StatusCmd prints the per-status item counts without scheduling anything.
var StatusCmd = &cli.Command{
	Name:  "status",
	Usage: "print per-status work item counts from the workbook",
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
	},
	Action: statusAction,
}

func statusAction(_ context.Context, cmd *cli.Command) error {
	cfg, err := config.Load(afero.NewOsFs(), cmd.String(runfileFlag))
	if err != nil {
		return errors.Join(ErrStatus, err)
	}

	store, err := workstore.Open(cmd.String(workbookFlag), cfg.InputColumns, config.DefaultMaxOutputFields)
	if err != nil {
		return errors.Join(ErrStatus, err)
	}

	defer store.Close() //nolint:errcheck

	counts, err := store.Summary()
	if err != nil {
		return errors.Join(ErrStatus, err)
	}

	total := 0
	for _, n := range counts {
		total += n
	}

	fmt.Fprintf(cmd.Writer, "total:     %d\n", total)

	for _, status := range []workstore.Status{
		workstore.StatusPending,
		workstore.StatusRunning,
		workstore.StatusCompleted,
		workstore.StatusError,
	} {
		fmt.Fprintf(cmd.Writer, "%-10s %d\n", string(status)+":", counts[status])
		delete(counts, status)
	}

	leftovers := make([]string, 0, len(counts))
	for status := range counts {
		leftovers = append(leftovers, string(status))
	}

	slices.Sort(leftovers)

	for _, raw := range leftovers {
		label := raw
		if label == "" {
			label = "(unset)"
		}

		fmt.Fprintf(cmd.Writer, "%-10s %d\n", label+":", counts[workstore.Status(raw)])
	}

	return nil
}
