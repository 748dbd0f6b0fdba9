// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package status

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// newStatusFixture writes a one-input-column workbook with the given status
// values and a matching run file into a temp dir.
func newStatusFixture(t *testing.T, statuses ...string) (string, string) {
	t.Helper()

	dir := t.TempDir()
	wbPath := filepath.Join(dir, "input_file.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetCellValue(sheet, "A1", "Case ID"))

	for i, status := range statuses {
		row := i + 2
		require.NoError(t, f.SetCellValue(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("C-%d", i+1)))

		if status != "" {
			require.NoError(t, f.SetCellValue(sheet, fmt.Sprintf("B%d", row), status))
		}
	}

	require.NoError(t, f.SaveAs(wbPath))
	require.NoError(t, f.Close())

	runfile := filepath.Join(dir, "input.txt")
	require.NoError(t, os.WriteFile(runfile, []byte("1\n/bin/true\n"), 0o644))

	return wbPath, runfile
}

func TestStatus_CountsAndDeterministicLeftoverOrder(t *testing.T) {
	wbPath, runfile := newStatusFixture(t, "zebra", "alpha", "completed", "pending", "")

	buf := &bytes.Buffer{}
	StatusCmd.Writer = buf

	require.NoError(t, StatusCmd.Run(context.Background(),
		[]string{"status", "-w", wbPath, "-r", runfile}))

	out := buf.String()
	assert.Contains(t, out, "total:     5")
	assert.Contains(t, out, "pending:   1")
	assert.Contains(t, out, "completed: 1")

	unset := strings.Index(out, "(unset):")
	alpha := strings.Index(out, "alpha:")
	zebra := strings.Index(out, "zebra:")
	require.NotEqual(t, -1, unset)
	require.NotEqual(t, -1, alpha)
	require.NotEqual(t, -1, zebra)

	assert.Less(t, unset, alpha, "unrecognized statuses print in sorted order")
	assert.Less(t, alpha, zebra, "unrecognized statuses print in sorted order")
}
