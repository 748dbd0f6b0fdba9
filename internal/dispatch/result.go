// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package dispatch

import (
	"context"
	"errors"
	"strings"

	"github.com/matt-FFFFFF/sheetrun/internal/ctxlog"
	"github.com/matt-FFFFFF/sheetrun/internal/workstore"
)

// commit writes one completed execution to the store and flushes before the
// freed slot is reused. An unexpected fault marks the item error. A normal
// result is recorded completed with its structured output fields, and an
// annotated external-program failure counts as a normal result.
func (d *Dispatcher) commit(ctx context.Context, c completion) error {
	logger := ctxlog.Logger(ctx).With("runId", d.runID, "row", c.item.Row, "worker", c.worker)

	if c.err != nil {
		logger.Error("item faulted", "error", c.err)

		if err := d.store.SetStatus(c.item.Row, workstore.StatusError); err != nil {
			return errors.Join(ErrStoreUpdate, err)
		}

		if err := d.store.Flush(); err != nil {
			return errors.Join(ErrStoreUpdate, err)
		}

		c.item.Status = workstore.StatusError

		return nil
	}

	rec := workstore.StatusRecord{
		Status:       workstore.StatusCompleted,
		StartTime:    c.res.StartTime,
		EndTime:      c.res.EndTime,
		Worker:       c.worker,
		OutputFields: OutputFields(c.res.StdOut, d.maxOutputFields),
	}

	if err := d.store.SetRecord(c.item.Row, rec); err != nil {
		return errors.Join(ErrStoreUpdate, err)
	}

	if err := d.store.Flush(); err != nil {
		return errors.Join(ErrStoreUpdate, err)
	}

	c.item.Status = workstore.StatusCompleted

	logger.Info("item completed", "outputFields", len(rec.OutputFields))

	return nil
}

// OutputFields extracts the structured summary from captured stdout: the
// first line of the trimmed output, split on tabs, bounded to max fields.
// Multi-line diagnostics survive only in the per-item artifact file.
func OutputFields(stdout string, max int) []string {
	trimmed := strings.TrimSpace(stdout)
	if trimmed == "" {
		return nil
	}

	first, _, _ := strings.Cut(trimmed, "\n")
	first = strings.TrimRight(first, "\r")

	fields := strings.Split(first, "\t")
	if len(fields) > max {
		fields = fields[:max]
	}

	return fields
}
