// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package executor

import (
	"context"
	"fmt"
	"os/exec"
	"time"

	"github.com/matt-FFFFFF/sheetrun/internal/ctxlog"
	"github.com/matt-FFFFFF/sheetrun/internal/workstore"
	"github.com/spf13/afero"
)

// maxCaptureSize caps each captured stream. Output beyond the cap is
// dropped and noted, never buffered.
const maxCaptureSize = 8 * 1024 * 1024 // 8MB

// Result is what a single execution produced. It is always returned, even
// for a failed program run.
type Result struct {
	StdOut    string
	StartTime time.Time
	EndTime   time.Time
}

// Executor runs the configured external program for work items.
type Executor struct {
	// Fs receives the per-item artifact files.
	Fs afero.Fs
	// ExecutablePath is the absolute path of the program to run.
	ExecutablePath string
	// ArtifactDir is the directory artifact files are written to.
	ArtifactDir string
	// IdentifierColumn is the 1-based input column whose value names the
	// artifact file. An empty value falls back to a generated name.
	IdentifierColumn int
}

// New creates an Executor writing artifacts to artifactDir on fsys.
func New(fsys afero.Fs, executablePath, artifactDir string, identifierColumn int) *Executor {
	return &Executor{
		Fs:               fsys,
		ExecutablePath:   executablePath,
		ArtifactDir:      artifactDir,
		IdentifierColumn: identifierColumn,
	}
}

// Run executes the program for one work item and returns the captured
// output with wall-clock timestamps. The error return is reserved for
// faults in the dispatcher machinery; program failures are folded into the
// Result per the package contract.
func (e *Executor) Run(ctx context.Context, item *workstore.WorkItem) (*Result, error) {
	start := time.Now()
	stdout, stderr := e.runProgram(ctx, item)
	end := time.Now()

	e.writeArtifact(ctx, item, &stdout, stderr)

	return &Result{
		StdOut:    stdout,
		StartTime: start,
		EndTime:   end,
	}, nil
}

func (e *Executor) runProgram(ctx context.Context, item *workstore.WorkItem) (string, string) {
	logger := ctxlog.Logger(ctx).With("row", item.Row)

	// exec.Command rather than CommandContext: a dispatched item is never
	// cancelled, a hung program holds its slot until it returns.
	cmd := exec.Command(e.ExecutablePath, item.Inputs...)

	stdout := &cappedBuffer{max: maxCaptureSize}
	stderr := &cappedBuffer{max: maxCaptureSize}
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	logger.Debug("running executable", "path", e.ExecutablePath, "args", item.Inputs)

	err := cmd.Run()

	outText := stdout.String()
	errText := stderr.String()

	if stdout.truncated {
		outText += "\n[output truncated]"
	}

	if err != nil {
		logger.Warn("executable run failed", "error", err)

		// Keep whatever the program managed to emit before failing: the
		// annotation stays on the first line, the partial stdout and the
		// captured stderr follow it.
		annotated := fmt.Sprintf("[ERROR] executable run failed: %v\n", err)
		if outText != "" {
			annotated += outText + "\n"
		}

		return annotated + errText, errText
	}

	logger.Debug("executable finished", "stdoutBytes", len(outText), "stderrBytes", len(errText))

	return outText, errText
}

// cappedBuffer accepts writes up to max bytes and silently drops the rest,
// so a runaway program cannot exhaust dispatcher memory.
type cappedBuffer struct {
	buf       []byte
	max       int
	truncated bool
}

func (b *cappedBuffer) Write(p []byte) (int, error) {
	room := b.max - len(b.buf)

	switch {
	case room <= 0:
		b.truncated = true
	case len(p) > room:
		b.buf = append(b.buf, p[:room]...)
		b.truncated = true
	default:
		b.buf = append(b.buf, p...)
	}

	return len(p), nil
}

func (b *cappedBuffer) String() string {
	return string(b.buf)
}
