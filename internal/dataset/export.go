package dataset

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/starford/herbscope/internal/herb"
)

// WriteFile encodes ds in the format implied by path and writes it
// atomically: tmp file, fsync, rename.
func WriteFile(path string, ds *herb.Dataset) error {
	var buf bytes.Buffer
	if err := Encode(&buf, ds, FormatFor(path)); err != nil {
		return fmt.Errorf("dataset: encode: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("dataset: mkdir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".herbscope-tmp-*")
	if err != nil {
		return fmt.Errorf("dataset: create temp: %w", err)
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("dataset: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("dataset: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("dataset: close temp: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("dataset: rename: %w", err)
	}
	success = true
	return nil
}
