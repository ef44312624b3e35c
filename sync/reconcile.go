package sync

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"rommsync/gamelist"
	"rommsync/romm"
)

// ReconcileResult counts the artifacts deleted for orphaned entries.
type ReconcileResult struct {
	RemovedRoms   int
	RemovedImages int
}

// RemoveUnfavorited deletes local artifacts for games that were previously
// synced but are absent from the current remote set. Names are the only
// join key between passes. Entries still present remotely are never
// touched; a failure deleting one artifact never stops the rest. In
// dry-run mode orphans are reported but nothing is deleted.
func RemoveUnfavorited(current []romm.Rom, existing *gamelist.Index, romsDir, imagesDir string, dryRun bool, out io.Writer) ReconcileResult {
	currentNames := make(map[string]struct{}, len(current))
	for _, rom := range current {
		if rom.Name != "" {
			currentNames[rom.Name] = struct{}{}
		}
	}

	var orphans []string
	for _, name := range existing.Names() {
		if _, stillWanted := currentNames[name]; !stillWanted {
			orphans = append(orphans, name)
		}
	}

	if len(orphans) == 0 {
		return ReconcileResult{}
	}

	fmt.Fprintf(out, "\n  Found %d game(s) to remove (no longer favorited)\n", len(orphans))

	var result ReconcileResult
	for _, name := range orphans {
		entry, _ := existing.Get(name)

		if dryRun {
			fmt.Fprintf(out, "    [DRY RUN] Would remove: %s\n", name)
			continue
		}

		fmt.Fprintf(out, "    Removing: %s\n", name)

		if entry.Path != "" {
			if deleteArtifact(romsDir, entry.Path, "ROM", out) {
				result.RemovedRoms++
			}
		}
		if entry.Image != "" {
			if deleteArtifact(imagesDir, entry.Image, "image", out) {
				result.RemovedImages++
			}
		}
	}

	return result
}

// deleteArtifact removes the file named by the final component of
// recordedPath from dir. Only the filename portion of the recorded path is
// used, and the joined path must stay under dir; a prior document cannot
// steer deletion outside the expected root.
func deleteArtifact(dir, recordedPath, kind string, out io.Writer) bool {
	logger := slog.Default()

	filename := filepath.Base(filepath.Clean(recordedPath))
	if filename == "." || filename == string(filepath.Separator) {
		return false
	}

	fullPath := filepath.Join(dir, filename)
	if !strings.HasPrefix(fullPath, filepath.Clean(dir)+string(filepath.Separator)) {
		logger.Warn("Refusing to delete path outside root", "path", recordedPath, "root", dir)
		return false
	}

	if _, err := os.Stat(fullPath); err != nil {
		return false
	}

	if err := os.Remove(fullPath); err != nil {
		logger.Error("Failed to delete artifact", "kind", kind, "path", fullPath, "error", err)
		fmt.Fprintf(out, "      Error deleting %s %s: %v\n", kind, filename, err)
		return false
	}

	fmt.Fprintf(out, "      Deleted %s: %s\n", kind, filename)
	return true
}
