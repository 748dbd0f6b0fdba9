// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package workstore

import (
	"strings"
	"time"
)

// Status is the schedulable state of a work item. Within a run it moves
// pending -> running -> {completed, error} and never backwards.
type Status string

const (
	// StatusPending marks an item that is schedulable.
	StatusPending Status = "pending"
	// StatusRunning marks an item with an in-flight execution.
	StatusRunning Status = "running"
	// StatusCompleted marks an item whose execution returned, including
	// external-program failures, which are recorded in the output fields
	// rather than as a distinct status.
	StatusCompleted Status = "completed"
	// StatusError marks an item whose execution raised an unexpected fault
	// inside the dispatcher itself.
	StatusError Status = "error"
)

// TimeFormat is the wall-clock format used for the Start Time and End Time
// columns. Second resolution.
const TimeFormat = "2006-01-02 15:04:05"

// ParseStatus normalizes a raw cell value to a Status. Unknown values come
// back as-is after trimming and lowercasing; Reconcile decides what to do
// with them.
func ParseStatus(raw string) Status {
	return Status(strings.ToLower(strings.TrimSpace(raw)))
}

// known reports whether s is a status the scheduler understands.
// Everything else is normalized to pending at startup.
func (s Status) known() bool {
	switch s {
	case StatusPending, StatusRunning, StatusCompleted:
		return true
	}

	return false
}

// WorkItem is one schedulable unit: a workbook row's ordered input fields
// plus its current status. Items are created when the store is loaded and
// persist for the life of the store.
type WorkItem struct {
	// Row is the 1-based workbook row backing this item. Row 2 is the first item.
	Row int
	// Inputs holds the item's input fields, padded to the configured column count.
	Inputs []string
	// Status is the status at load time. The store is authoritative; this is
	// a snapshot kept consistent by writing through on every transition.
	Status Status
}

// StatusRecord is the full status region written back for an item on
// completion. Zero times are written as empty cells.
type StatusRecord struct {
	Status       Status
	StartTime    time.Time
	EndTime      time.Time
	Worker       string   // opaque 1-based slot label, e.g. "Core 3"
	OutputFields []string // tab-delimited first line of captured stdout
}
