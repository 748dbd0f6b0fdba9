// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package executor

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/matt-FFFFFF/sheetrun/internal/ctxlog"
	"github.com/matt-FFFFFF/sheetrun/internal/workstore"
	"github.com/spf13/afero"
)

// writeArtifact captures the full output to <identifier>.txt in the
// artifact directory. Failures never fail the item: they are appended to
// the in-memory output as a note so the tabular record carries the evidence.
func (e *Executor) writeArtifact(ctx context.Context, item *workstore.WorkItem, stdout *string, stderr string) {
	name := e.artifactName(item)
	path := filepath.Join(e.ArtifactDir, name)

	content := *stdout
	if stderr != "" {
		content += fmt.Sprintf("\n[STDERR]:\n%s", stderr)
	}

	err := e.Fs.MkdirAll(e.ArtifactDir, 0o755)
	if err == nil {
		err = afero.WriteFile(e.Fs, path, []byte(content), 0o644)
	}

	if err != nil {
		ctxlog.Warn(ctx, "artifact write failed", "row", item.Row, "path", path, "error", err)

		*stdout += fmt.Sprintf("\n[ERROR writing artifact file]: %v", err)

		return
	}

	ctxlog.Debug(ctx, "artifact written", "row", item.Row, "path", path)
}

func (e *Executor) artifactName(item *workstore.WorkItem) string {
	id := ""

	if idx := e.IdentifierColumn - 1; idx >= 0 && idx < len(item.Inputs) {
		id = strings.TrimSpace(item.Inputs[idx])
	}

	if id == "" {
		id = fmt.Sprintf("UNKNOWN_%d", item.Row)
	}

	return id + ".txt"
}
