// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package workstore

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/renameio/v2"
	"github.com/xuri/excelize/v2"
)

var (
	// ErrStoreOpen is returned when the workbook cannot be opened. This is
	// fatal at startup: without the store there is no work to schedule.
	ErrStoreOpen = errors.New("unable to open work store")
	// ErrStoreRead is returned when the workbook contents cannot be read.
	ErrStoreRead = errors.New("unable to read work store")
	// ErrStoreWrite is returned when a cell write fails.
	ErrStoreWrite = errors.New("unable to write work store")
	// ErrStoreFlush is returned when the workbook cannot be durably persisted.
	ErrStoreFlush = errors.New("unable to flush work store")
	// ErrRowOutOfRange is returned for a row number before the first item row.
	ErrRowOutOfRange = errors.New("row number out of range")
)

// StatusHeaders are the fixed status column headers, written immediately
// after the input columns. Output-field columns follow them.
var StatusHeaders = []string{"Status", "Start Time", "End Time", "CPU Core Used", "Output"}

const firstItemRow = 2 // row 1 holds headers

// Store is an .xlsx-backed work store. It is not safe for concurrent use:
// the dispatcher owns all reads and writes and serializes them.
type Store struct {
	path            string
	f               *excelize.File
	sheet           string
	inputCols       int
	maxOutFields    int
	headersRepaired bool
}

// Open loads the workbook at path and ensures the status headers are
// present on row 1. maxOutputFields bounds the output-field region.
func Open(path string, inputCols, maxOutputFields int) (*Store, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Join(ErrStoreOpen, err)
	}

	s := &Store{
		path:         path,
		f:            f,
		sheet:        f.GetSheetName(0),
		inputCols:    inputCols,
		maxOutFields: maxOutputFields,
	}

	if err := s.ensureHeaders(); err != nil {
		_ = f.Close()
		return nil, err
	}

	return s, nil
}

// Close releases the workbook handle. It does not flush.
func (s *Store) Close() error {
	return s.f.Close() //nolint:wrapcheck
}

// Path returns the workbook path backing the store.
func (s *Store) Path() string {
	return s.path
}

// ensureHeaders writes the fixed status headers starting immediately after
// the input columns. Mismatched header text is overwritten so the region is
// always well-formed, and any repair is tracked so callers know the
// workbook needs a flush even when no statuses change.
func (s *Store) ensureHeaders() error {
	for i, header := range StatusHeaders {
		cell, err := excelize.CoordinatesToCellName(s.statusCol()+i, 1)
		if err != nil {
			return errors.Join(ErrStoreWrite, err)
		}

		got, err := s.f.GetCellValue(s.sheet, cell)
		if err != nil {
			return errors.Join(ErrStoreRead, err)
		}

		if got == header {
			continue
		}

		if err := s.f.SetCellValue(s.sheet, cell, header); err != nil {
			return errors.Join(ErrStoreWrite, err)
		}

		s.headersRepaired = true
	}

	return nil
}

// HeadersRepaired reports whether Open had to write any status header.
func (s *Store) HeadersRepaired() bool {
	return s.headersRepaired
}

// Load returns all work items in ascending row order. Rows whose cells are
// all empty are not items and are skipped.
func (s *Store) Load() ([]*WorkItem, error) {
	rows, err := s.f.GetRows(s.sheet)
	if err != nil {
		return nil, errors.Join(ErrStoreRead, err)
	}

	items := make([]*WorkItem, 0, len(rows))

	for i, row := range rows {
		if i+1 < firstItemRow {
			continue
		}

		if empty(row) {
			continue
		}

		inputs := make([]string, s.inputCols)

		for j := range s.inputCols {
			if j < len(row) {
				inputs[j] = row[j]
			}
		}

		var status Status
		if idx := s.statusCol() - 1; idx < len(row) {
			status = ParseStatus(row[idx])
		}

		items = append(items, &WorkItem{
			Row:    i + 1,
			Inputs: inputs,
			Status: status,
		})
	}

	return items, nil
}

// Status reads the current status cell for the given row.
func (s *Store) Status(row int) (Status, error) {
	if row < firstItemRow {
		return "", fmt.Errorf("%w: %d", ErrRowOutOfRange, row)
	}

	cell, err := excelize.CoordinatesToCellName(s.statusCol(), row)
	if err != nil {
		return "", errors.Join(ErrStoreRead, err)
	}

	raw, err := s.f.GetCellValue(s.sheet, cell)
	if err != nil {
		return "", errors.Join(ErrStoreRead, err)
	}

	return ParseStatus(raw), nil
}

// SetStatus overwrites only the status cell for the given row.
func (s *Store) SetStatus(row int, status Status) error {
	if row < firstItemRow {
		return fmt.Errorf("%w: %d", ErrRowOutOfRange, row)
	}

	return s.setCell(s.statusCol(), row, string(status))
}

// SetRecord overwrites the full status region and the output-field region
// for the given row. Output columns beyond the new field count are cleared
// so a narrower result never leaks a previous run's wider output.
func (s *Store) SetRecord(row int, rec StatusRecord) error {
	if row < firstItemRow {
		return fmt.Errorf("%w: %d", ErrRowOutOfRange, row)
	}

	cells := []struct {
		col int
		val any
	}{
		{s.statusCol(), string(rec.Status)},
		{s.statusCol() + 1, formatTime(rec.StartTime)},
		{s.statusCol() + 2, formatTime(rec.EndTime)},
		{s.statusCol() + 3, rec.Worker},
		// The Output header column itself stays empty: the structured fields
		// go into the dedicated columns that follow.
		{s.statusCol() + 4, ""},
	}

	for _, c := range cells {
		if err := s.setCell(c.col, row, c.val); err != nil {
			return err
		}
	}

	for i := range s.maxOutFields {
		var val any

		if i < len(rec.OutputFields) {
			val = rec.OutputFields[i]
		}

		if err := s.setCell(s.outputStartCol()+i, row, val); err != nil {
			return err
		}
	}

	return nil
}

// Flush durably persists all pending writes. The workbook is serialized in
// memory and atomically renamed over the original file.
func (s *Store) Flush() error {
	buf, err := s.f.WriteToBuffer()
	if err != nil {
		return errors.Join(ErrStoreFlush, err)
	}

	if err := renameio.WriteFile(s.path, buf.Bytes(), 0o644); err != nil {
		return errors.Join(ErrStoreFlush, err)
	}

	return nil
}

// Summary counts items per status, for reporting.
func (s *Store) Summary() (map[Status]int, error) {
	items, err := s.Load()
	if err != nil {
		return nil, err
	}

	counts := make(map[Status]int, 4)

	for _, item := range items {
		counts[item.Status]++
	}

	return counts, nil
}

func (s *Store) statusCol() int {
	return s.inputCols + 1
}

func (s *Store) outputStartCol() int {
	return s.inputCols + 1 + len(StatusHeaders)
}

func (s *Store) setCell(col, row int, val any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return errors.Join(ErrStoreWrite, err)
	}

	if err := s.f.SetCellValue(s.sheet, cell, val); err != nil {
		return errors.Join(ErrStoreWrite, err)
	}

	return nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	return t.Format(TimeFormat)
}

func empty(row []string) bool {
	for _, cell := range row {
		if cell != "" {
			return false
		}
	}

	return true
}
