// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package workstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcile_RunningBecomesPending(t *testing.T) {
	path := newWorkbook(t,
		[]any{"C-1", "a", "b", "running"},
		[]any{"C-2", "a", "b", "completed"},
		[]any{"C-3", "a", "b", "running"},
	)
	s := openStore(t, path)

	repaired, err := s.Reconcile()
	require.NoError(t, err)
	assert.Equal(t, 2, repaired)
	require.NoError(t, s.Flush())

	reopened := openStore(t, path)

	for _, row := range []int{2, 4} {
		status, err := reopened.Status(row)
		require.NoError(t, err)
		assert.Equal(t, StatusPending, status, "row %d", row)
	}

	status, err := reopened.Status(3)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, status, "completed rows must be untouched")
}

func TestReconcile_UnknownAndEmptyBecomePending(t *testing.T) {
	path := newWorkbook(t,
		[]any{"C-1", "a", "b"},                // empty status
		[]any{"C-2", "a", "b", "error"},       // prior fault, retried
		[]any{"C-3", "a", "b", "in-progress"}, // garbage
		[]any{"C-4", "a", "b", "pending"},
	)
	s := openStore(t, path)

	repaired, err := s.Reconcile()
	require.NoError(t, err)
	assert.Equal(t, 3, repaired)

	items, err := s.Load()
	require.NoError(t, err)

	for _, item := range items {
		assert.Equal(t, StatusPending, item.Status, "row %d", item.Row)
	}
}

func TestReconcile_CleanStoreIsNoOp(t *testing.T) {
	path := newWorkbook(t,
		[]any{"C-1", "a", "b", "pending"},
		[]any{"C-2", "a", "b", "completed"},
	)
	s := openStore(t, path)

	repaired, err := s.Reconcile()
	require.NoError(t, err)
	assert.Zero(t, repaired)
}
