// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package dispatch

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/matt-FFFFFF/sheetrun/internal/ctxlog"
	"github.com/matt-FFFFFF/sheetrun/internal/executor"
	"github.com/matt-FFFFFF/sheetrun/internal/workstore"
)

var (
	// ErrWorkerPanic is returned when an execution panics inside the worker goroutine.
	ErrWorkerPanic = errors.New("worker panic")
	// ErrStoreUpdate is returned when a status transition cannot be persisted.
	ErrStoreUpdate = errors.New("unable to persist status transition")
)

// Store is the slice of the work store the dispatcher needs. Every mutation
// is followed by Flush before the next scheduling decision.
type Store interface {
	Load() ([]*workstore.WorkItem, error)
	SetStatus(row int, status workstore.Status) error
	SetRecord(row int, rec workstore.StatusRecord) error
	Flush() error
}

// Runner executes one work item. A failed external-program run must be
// folded into the Result; the error return is for unexpected faults only.
type Runner interface {
	Run(ctx context.Context, item *workstore.WorkItem) (*executor.Result, error)
}

// Dispatcher drives one batch run over a bounded worker pool.
type Dispatcher struct {
	store           Store
	runner          Runner
	workers         int
	maxOutputFields int
	runID           string
}

// New creates a Dispatcher with the given pool size. maxOutputFields bounds
// the structured output fields committed per item.
func New(store Store, runner Runner, workers, maxOutputFields int) *Dispatcher {
	if workers < 1 {
		workers = 1
	}

	return &Dispatcher{
		store:           store,
		runner:          runner,
		workers:         workers,
		maxOutputFields: maxOutputFields,
		runID:           uuid.NewString(),
	}
}

// completion carries one finished execution back to the dispatching goroutine.
type completion struct {
	item   *workstore.WorkItem
	worker string
	res    *executor.Result
	err    error
}

// Run executes the batch until no pending items remain and nothing is in
// flight. Cancelling ctx stops new submissions; in-flight executions are
// drained, and unsubmitted items stay pending in the store for a later run.
func (d *Dispatcher) Run(ctx context.Context) error {
	logger := ctxlog.Logger(ctx).With("runId", d.runID)

	items, err := d.store.Load()
	if err != nil {
		return errors.Join(ErrStoreUpdate, err)
	}

	pending := make([]*workstore.WorkItem, 0, len(items))

	for _, item := range items {
		if item.Status == workstore.StatusPending {
			pending = append(pending, item)
		}
	}

	logger.Info("batch loaded",
		"items", len(items),
		"pending", len(pending),
		"workers", d.workers)

	if len(pending) == 0 {
		logger.Info("no pending items, nothing to do")
		return nil
	}

	compCh := make(chan completion, d.workers)

	var (
		errs     *multierror.Error
		inflight int
		next     int
		halted   bool // store write failed, stop submitting
	)

	submit := func() {
		item := pending[next]
		// Slot labels are round-robin over submission order, matching the
		// durable record's "CPU Core Used" column.
		worker := fmt.Sprintf("Core %d", (next%d.workers)+1)

		if err := d.markRunning(item); err != nil {
			logger.Error("halting submissions", "row", item.Row, "error", err)

			errs = multierror.Append(errs, err)
			halted = true

			return
		}

		logger.Info("item submitted", "row", item.Row, "worker", worker)

		next++
		inflight++

		go d.work(ctx, item, worker, compCh)
	}

	for inflight < d.workers && next < len(pending) && !halted && ctx.Err() == nil {
		submit()
	}

	for inflight > 0 {
		c := <-compCh
		inflight--

		if err := d.commit(ctx, c); err != nil {
			errs = multierror.Append(errs, err)
			halted = true

			continue
		}

		if next < len(pending) && !halted && ctx.Err() == nil {
			submit()
		}
	}

	if remaining := len(pending) - next; remaining > 0 {
		logger.Warn("batch drained early, items remain pending for the next run",
			"remaining", remaining)
	}

	logger.Info("batch finished", "submitted", next)

	return errs.ErrorOrNil()
}

// markRunning persists the pending -> running transition. The running mark
// must be durable before the worker is dispatched, so a crash between the
// two is always observed as an orphaned running row and reconciled.
func (d *Dispatcher) markRunning(item *workstore.WorkItem) error {
	if err := d.store.SetStatus(item.Row, workstore.StatusRunning); err != nil {
		return errors.Join(ErrStoreUpdate, err)
	}

	if err := d.store.Flush(); err != nil {
		return errors.Join(ErrStoreUpdate, err)
	}

	item.Status = workstore.StatusRunning

	return nil
}

// work runs one item on a worker goroutine. The only shared state is the
// completion channel; a panic is converted into a completion so the slot is
// never leaked.
func (d *Dispatcher) work(ctx context.Context, item *workstore.WorkItem, worker string, ch chan<- completion) {
	defer func() {
		if r := recover(); r != nil {
			ch <- completion{
				item:   item,
				worker: worker,
				err:    fmt.Errorf("%w: %v", ErrWorkerPanic, r),
			}
		}
	}()

	res, err := d.runner.Run(ctx, item)

	ch <- completion{item: item, worker: worker, res: res, err: err}
}
