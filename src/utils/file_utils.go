package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// OutputFilename picks the path for a generated report. An explicit path
// wins; otherwise the name is built from the base and, unless disabled, a
// timestamp so reruns never overwrite a previous filing.
func OutputFilename(explicit, outputDir, base string, timestamp bool) string {
	if explicit != "" {
		return explicit
	}
	name := base + ".xml"
	if timestamp {
		name = fmt.Sprintf("%s_%s.xml", base, time.Now().Format("20060102_150405"))
	}
	return filepath.Join(outputDir, name)
}

// EnsureParentDir creates the directory a file will be written into.
func EnsureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}
	return nil
}
