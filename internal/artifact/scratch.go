package artifact

import (
	"fmt"
	"os"
	"path/filepath"
)

// Materialize writes every artifact into a private temporary directory and
// passes its path to capture. The directory is removed when Materialize
// returns, whether capture succeeds or not. capture must not retain the path.
func Materialize(set *Set, capture func(dir string) error) (err error) {
	dir, err := os.MkdirTemp("", "ffbuilder-")
	if err != nil {
		return fmt.Errorf("create scratch directory: %w", err)
	}
	defer func() {
		if rmErr := os.RemoveAll(dir); rmErr != nil && err == nil {
			err = fmt.Errorf("remove scratch directory: %w", rmErr)
		}
	}()

	for _, a := range set.items {
		if err := os.WriteFile(filepath.Join(dir, a.FileName), a.Content, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", a.FileName, err)
		}
	}
	return capture(dir)
}

// WriteDir publishes the set into dir, creating it if needed. Files are
// staged in scratch storage first and copied out only once every document
// was written.
func WriteDir(set *Set, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	return Materialize(set, func(scratch string) error {
		for _, a := range set.items {
			data, err := os.ReadFile(filepath.Join(scratch, a.FileName))
			if err != nil {
				return err
			}
			if err := os.WriteFile(filepath.Join(dir, a.FileName), data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", a.FileName, err)
			}
		}
		return nil
	})
}
