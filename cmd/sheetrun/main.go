// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package main is the entry point for the sheetrun command-line application.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/matt-FFFFFF/sheetrun"
	"github.com/matt-FFFFFF/sheetrun/cmd"
	"github.com/matt-FFFFFF/sheetrun/internal/ctxlog"
	"github.com/matt-FFFFFF/sheetrun/internal/signalbroker"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	ctx = ctxlog.New(ctx, ctxlog.DefaultLogger)
	defer cancel()

	// The first signal drains the dispatcher so the store stays resumable.
	// The second makes the watchdog exit the process without waiting for
	// in-flight executions; their rows stay running and reconcile next run.
	runCtx, drain := context.WithCancel(ctx)
	defer drain()

	sigCh := signalbroker.New(ctx)

	go signalbroker.Watch(ctx, sigCh, drain, cancel)

	cmd.RootCmd.Version = fmt.Sprintf("%s (commit: %s)", sheetrun.Version, sheetrun.Commit)

	err := cmd.RootCmd.Run(runCtx, os.Args)
	if err != nil {
		ctxlog.Logger(ctx).Error("command failed", "error", err)
		os.Exit(1)
	}

	ctxlog.Logger(ctx).Info("command completed successfully")
	os.Exit(0)
}
