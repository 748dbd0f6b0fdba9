// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package color applies ANSI escape codes to strings for terminal output.
// The NO_COLOR and FORCE_COLOR environment variables override terminal
// detection, which uses the golang.org/x/term package.
package color
