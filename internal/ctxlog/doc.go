// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package ctxlog provides a context-aware logger that can be used to log messages.
// It uses the slog package for structured logging and supports different log levels.
//
// The default is a pretty console handler to format the log messages in a human-readable way.
// The log level is read from the SHEETRUN_LOG_LEVEL environment variable
// (derived from the executable name) and defaults to INFO, since the dispatcher's
// state transitions are its primary user-visible record of progress.
package ctxlog
