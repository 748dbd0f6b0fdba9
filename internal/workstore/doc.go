// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package workstore is the durable source of truth for batch progress.
//
// The store is an .xlsx workbook: one row per work item, the configured
// input columns first, then a fixed region of status columns
// (Status, Start Time, End Time, CPU Core Used, Output), then a bounded
// region of output-field columns. The dispatcher writes through on every
// status transition and flushes before the next scheduling decision, so a
// crashed run can be resumed by any later process from the workbook alone.
//
// Flush is atomic: the workbook is serialized to a temporary file and
// renamed over the original, so a crash mid-flush never corrupts the store.
package workstore
