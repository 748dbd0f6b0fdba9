// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package executor invokes the external program once per work item, with the
// item's input fields as positional arguments, and captures stdout and
// stderr in full.
//
// A failed run, whether a non-zero exit or a launch failure, is not an
// error from this package: it is encoded into the returned stdout as an [ERROR]
// annotation so the scheduler's per-item isolation holds and the slot is
// always recovered. The full capture is also written to a per-item artifact
// file on a best-effort basis.
package executor
