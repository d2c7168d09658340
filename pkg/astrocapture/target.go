package astrocapture

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const timestampLayout = "20060102_150405"

// resolveTarget computes the final output path for a device and makes
// sure its directory exists. The path is fixed once here, before any
// stream I/O starts, and never changes for the rest of the attempt.
func resolveTarget(baseDir string, dev Device, now time.Time) (string, error) {
	dir := baseDir
	if dev.Directory != "" {
		dir = filepath.Join(baseDir, dev.Directory)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory %s: %w", dir, err)
	}

	name := dev.Filename
	if name == "" {
		name = "video"
	}

	filename := fmt.Sprintf("%s_%s.%s", now.Format(timestampLayout), name, dev.Format)
	return filepath.Join(dir, filename), nil
}
