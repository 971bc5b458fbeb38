package utils

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EnsureDir ensures the provided directory exists.
func EnsureDir(dir string) error {
	if dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

// SafeWriteFile writes data to a temp file and atomically renames it into place.
func SafeWriteFile(path string, data []byte) error {
	if err := EnsureDir(filepath.Dir(path)); err != nil {
		return fmt.Errorf("ensure dir: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("atomic rename: %w", err)
	}
	return nil
}

// PrettyJSON marshals a value as indented JSON.
func PrettyJSON(v any) ([]byte, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal json: %w", err)
	}
	return b, nil
}

// OutputPath joins dir and stem and applies the extension for format
// (a leading dot is optional). An empty format leaves the stem unchanged.
func OutputPath(dir, stem, format string) string {
	name := stem
	if ext := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(format)), "."); ext != "" {
		name = stem + "." + ext
	}
	if dir == "" {
		return name
	}
	return filepath.Join(dir, name)
}

// FileExists reports whether path names an existing regular file or directory.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
