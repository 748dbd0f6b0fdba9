// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package dispatch schedules work items over a fixed pool of worker slots.
//
// A single dispatching goroutine owns every work store write. It submits
// pending items in store order, marking each running and flushing before
// the worker is dispatched, then blocks on a completion channel: any single
// finished execution wakes it, its result is committed and flushed, and the
// freed slot is refilled immediately. The pool therefore stays saturated
// without busy-polling, and completion order never has to match submission
// order.
//
// A fault inside one item's execution marks that item error and the batch
// continues. Store write failures stop further submissions but in-flight
// work is always drained so no slot leaks.
package dispatch
