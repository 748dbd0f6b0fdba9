// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package dispatch

import (
	"runtime"

	"github.com/shirou/gopsutil/v3/cpu"
)

// cpuCounts is a package variable so tests can stub the host probe.
var cpuCounts = cpu.Counts

// WorkerCount returns the worker pool size: the explicit override when
// positive, otherwise the logical core count minus the reserved headroom,
// never less than one.
func WorkerCount(reserved, override int) int {
	if override > 0 {
		return override
	}

	total, err := cpuCounts(true)
	if err != nil || total < 1 {
		total = runtime.NumCPU()
	}

	if n := total - reserved; n > 1 {
		return n
	}

	return 1
}
