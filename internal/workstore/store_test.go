// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package workstore

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const testInputCols = 3

// newWorkbook writes a workbook with three input columns and the given item
// rows into a temp dir. Each entry of rows is input fields followed
// optionally by a status value in the status column.
func newWorkbook(t *testing.T, rows ...[]any) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "input_file.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	headers := []any{"Case ID", "Param A", "Param B"}
	for col, h := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		require.NoError(t, err)
		require.NoError(t, f.SetCellValue(sheet, cell, h))
	}

	for i, row := range rows {
		for col, val := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, cell, val))
		}
	}

	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	return path
}

func openStore(t *testing.T, path string) *Store {
	t.Helper()

	s, err := Open(path, testInputCols, 50)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	return s
}

func TestOpen_MissingWorkbook(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.xlsx"), testInputCols, 50)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStoreOpen)
}

func TestOpen_WritesStatusHeaders(t *testing.T) {
	path := newWorkbook(t, []any{"C-1", "a", "b"})
	s := openStore(t, path)
	require.NoError(t, s.Flush())

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)

	defer f.Close() //nolint:errcheck

	sheet := f.GetSheetName(0)

	for i, want := range StatusHeaders {
		cell, err := excelize.CoordinatesToCellName(testInputCols+1+i, 1)
		require.NoError(t, err)

		got, err := f.GetCellValue(sheet, cell)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestOpen_HeaderRepairTrackedUntilFlushed(t *testing.T) {
	path := newWorkbook(t, []any{"C-1", "a", "b", "completed"})

	s := openStore(t, path)
	assert.True(t, s.HeadersRepaired(), "a fresh workbook is missing its status headers")
	require.NoError(t, s.Flush())

	// With the headers durable and every status clean there is nothing
	// left to persist on the next open.
	reopened := openStore(t, path)
	assert.False(t, reopened.HeadersRepaired())
}

func TestLoad_ItemsInRowOrder(t *testing.T) {
	path := newWorkbook(t,
		[]any{"C-1", "a1", "b1"},
		[]any{"C-2", "a2", "b2", "completed"},
		[]any{"C-3", "a3"},
	)
	s := openStore(t, path)

	items, err := s.Load()
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.Equal(t, 2, items[0].Row)
	assert.Equal(t, []string{"C-1", "a1", "b1"}, items[0].Inputs)
	assert.Equal(t, Status(""), items[0].Status)

	assert.Equal(t, 3, items[1].Row)
	assert.Equal(t, StatusCompleted, items[1].Status)

	// Short rows pad their inputs to the configured column count.
	assert.Equal(t, []string{"C-3", "a3", ""}, items[2].Inputs)
}

func TestLoad_StatusCaseInsensitive(t *testing.T) {
	path := newWorkbook(t, []any{"C-1", "a", "b", "  Running "})
	s := openStore(t, path)

	items, err := s.Load()
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, StatusRunning, items[0].Status)
}

func TestSetStatusAndFlush_DurableAcrossReopen(t *testing.T) {
	path := newWorkbook(t, []any{"C-1", "a", "b"})
	s := openStore(t, path)

	require.NoError(t, s.SetStatus(2, StatusRunning))
	require.NoError(t, s.Flush())

	reopened := openStore(t, path)

	status, err := reopened.Status(2)
	require.NoError(t, err)
	assert.Equal(t, StatusRunning, status)
}

func TestSetStatus_RowOutOfRange(t *testing.T) {
	path := newWorkbook(t, []any{"C-1", "a", "b"})
	s := openStore(t, path)

	err := s.SetStatus(1, StatusPending)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRowOutOfRange)
}

func TestSetRecord_WritesStatusRegionAndOutputFields(t *testing.T) {
	path := newWorkbook(t, []any{"C-1", "a", "b"})
	s := openStore(t, path)

	start := time.Date(2025, 6, 1, 10, 0, 0, 0, time.Local)
	end := start.Add(90 * time.Second)

	require.NoError(t, s.SetRecord(2, StatusRecord{
		Status:       StatusCompleted,
		StartTime:    start,
		EndTime:      end,
		Worker:       "Core 2",
		OutputFields: []string{"OK", "done"},
	}))
	require.NoError(t, s.Flush())

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)

	defer f.Close() //nolint:errcheck

	sheet := f.GetSheetName(0)
	want := map[int]string{
		testInputCols + 1: "completed",
		testInputCols + 2: "2025-06-01 10:00:00",
		testInputCols + 3: "2025-06-01 10:01:30",
		testInputCols + 4: "Core 2",
		testInputCols + 5: "",
		testInputCols + 6: "OK",
		testInputCols + 7: "done",
	}

	for col, expected := range want {
		cell, err := excelize.CoordinatesToCellName(col, 2)
		require.NoError(t, err)

		got, err := f.GetCellValue(sheet, cell)
		require.NoError(t, err)
		assert.Equal(t, expected, got, "column %d", col)
	}
}

func TestSetRecord_NarrowerResultClearsStaleOutput(t *testing.T) {
	path := newWorkbook(t, []any{"C-1", "a", "b"})
	s := openStore(t, path)

	wide := StatusRecord{
		Status:       StatusCompleted,
		Worker:       "Core 1",
		OutputFields: []string{"f1", "f2", "f3", "f4", "f5"},
	}
	require.NoError(t, s.SetRecord(2, wide))

	narrow := StatusRecord{
		Status:       StatusCompleted,
		Worker:       "Core 1",
		OutputFields: []string{"g1", "g2"},
	}
	require.NoError(t, s.SetRecord(2, narrow))
	require.NoError(t, s.Flush())

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)

	defer f.Close() //nolint:errcheck

	sheet := f.GetSheetName(0)
	outputStart := testInputCols + 1 + len(StatusHeaders)
	want := []string{"g1", "g2", "", "", ""}

	for i, expected := range want {
		cell, err := excelize.CoordinatesToCellName(outputStart+i, 2)
		require.NoError(t, err)

		got, err := f.GetCellValue(sheet, cell)
		require.NoError(t, err)
		assert.Equal(t, expected, got, "output field %d", i+1)
	}
}

func TestSetRecord_TruncatesToMaxOutputFields(t *testing.T) {
	path := newWorkbook(t, []any{"C-1", "a", "b"})

	s, err := Open(path, testInputCols, 2)
	require.NoError(t, err)

	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.SetRecord(2, StatusRecord{
		Status:       StatusCompleted,
		OutputFields: []string{"f1", "f2", "f3", "f4"},
	}))
	require.NoError(t, s.Flush())

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)

	defer f.Close() //nolint:errcheck

	sheet := f.GetSheetName(0)
	outputStart := testInputCols + 1 + len(StatusHeaders)

	for i, expected := range []string{"f1", "f2", "", ""} {
		cell, err := excelize.CoordinatesToCellName(outputStart+i, 2)
		require.NoError(t, err)

		got, err := f.GetCellValue(sheet, cell)
		require.NoError(t, err)
		assert.Equal(t, expected, got, "output field %d", i+1)
	}
}

func TestSummary(t *testing.T) {
	path := newWorkbook(t,
		[]any{"C-1", "a", "b", "completed"},
		[]any{"C-2", "a", "b", "pending"},
		[]any{"C-3", "a", "b", "pending"},
		[]any{"C-4", "a", "b"},
	)
	s := openStore(t, path)

	counts, err := s.Summary()
	require.NoError(t, err)
	assert.Equal(t, 1, counts[StatusCompleted])
	assert.Equal(t, 2, counts[StatusPending])
	assert.Equal(t, 1, counts[Status("")])
}
