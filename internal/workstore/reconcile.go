// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package workstore

// Reconcile normalizes stale state once per process start, before any
// scheduling decision.
//
// An item observed as running cannot legitimately be executing before the
// dispatcher has scheduled anything, so it is evidence of an interrupted
// prior run and goes back to pending. Any status outside
// {pending, running, completed} is also normalized to pending so the item
// is retried. That includes empty cells and prior error marks.
//
// Reconcile returns the number of repaired rows. The caller must Flush
// before scheduling begins.
func (s *Store) Reconcile() (int, error) {
	items, err := s.Load()
	if err != nil {
		return 0, err
	}

	repaired := 0

	for _, item := range items {
		if item.Status == StatusRunning || !item.Status.known() {
			if err := s.SetStatus(item.Row, StatusPending); err != nil {
				return repaired, err
			}

			item.Status = StatusPending
			repaired++
		}
	}

	return repaired, nil
}
