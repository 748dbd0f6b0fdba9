// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package cmd contains the command-line interface (CLI) for the module.
package cmd

import (
	"os"

	"github.com/matt-FFFFFF/sheetrun/cmd/run"
	"github.com/matt-FFFFFF/sheetrun/cmd/status"
	"github.com/urfave/cli/v3"
)

// RootCmd is the root command for the CLI.
var RootCmd = &cli.Command{
	Commands: []*cli.Command{
		run.RunCmd,
		status.StatusCmd,
	},
	Writer:    os.Stdout,
	ErrWriter: os.Stderr,
	Name:      "sheetrun",
	Description: `Sheetrun is a resumable batch-job dispatcher. It reads work items from an
.xlsx workbook, runs an external executable once per row across a bounded
pool of worker slots, and writes every status transition back to the
workbook so a crash or restart never loses completed work or duplicates
running work.`,
	Usage:     "sheetrun run --workbook input_file.xlsx --runfile input.txt",
	Copyright: "Copyright (c) matt-FFFFFF 2025. All rights reserved.",
	Authors: []any{
		"Matt White (matt-FFFFFF)",
	},
	EnableShellCompletion: true,
}
