// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package signalbroker

import (
	"context"
	"os"

	"github.com/matt-FFFFFF/sheetrun/internal/ctxlog"
)

// osExit is a package variable so tests can stub process termination.
var osExit = os.Exit

// Watch monitors the signal channel.
// The first signal calls drain, which stops the dispatcher from submitting
// new work items; completed work is already durable in the store and the
// rest resumes as pending on the next run.
// The second signal cancels the context and exits the process immediately,
// without waiting for in-flight executions. Their rows are still marked
// running in the store, so the next run's reconciliation retries them.
func Watch(ctx context.Context, sigCh chan os.Signal, drain, cancel context.CancelFunc) {
	drained := false

	for sig := range sigCh {
		if drained {
			ctxlog.Logger(ctx).Warn("watchdog",
				"detail", "received second signal, forcefully terminating",
				"signal", sig.String())
			close(sigCh)
			cancel()
			osExit(1)

			return
		}

		ctxlog.Logger(ctx).Info("watchdog",
			"detail", "received signal, draining: no new items will be submitted",
			"signal", sig.String())

		drain()

		drained = true
	}
}
