// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package config loads the two inputs that define a batch run: the run file,
// a two-line text resource naming the input column count and the executable,
// and an optional YAML settings file for the dispatcher's tunable knobs.
//
// A malformed or missing run file is fatal: without it no valid work can be
// scheduled, so errors from this package terminate the process.
package config
