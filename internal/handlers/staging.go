package handlers

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"backend/internal/wizard"
)

// safeDeleteStaged removes a staged file, refusing anything that resolves
// outside the staging root.
func safeDeleteStaged(stagingDir, path string) error {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil
	}

	cleanBase := filepath.Clean(stagingDir)
	cleanTarget := filepath.Clean(trimmed)
	if cleanTarget != cleanBase && !strings.HasPrefix(cleanTarget, cleanBase+string(os.PathSeparator)) {
		return fmt.Errorf("refusing to delete path outside staging root: %s", path)
	}

	if err := os.Remove(cleanTarget); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	return nil
}

// StagingReleaser is the preview release hook wired into the upload
// coordinator: releasing a preview deletes the staged file behind it.
func StagingReleaser(stagingDir string) func(wizard.StagedFile) {
	return func(f wizard.StagedFile) {
		_ = safeDeleteStaged(stagingDir, f.Path)
	}
}
