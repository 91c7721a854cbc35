package util

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
)

// WriteFileAtomic writes through a temp file in the target directory and
// renames it into place, so a failed write never leaves a half file.
func WriteFileAtomic(path string, write func(w io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+"_tmp*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if err := write(tmp); err != nil {
		closeQuietly(tmp)
		CleanupFile(tmpName)
		return err
	}

	if err := tmp.Close(); err != nil {
		CleanupFile(tmpName)
		return err
	}

	if err := os.Rename(tmpName, path); err != nil {
		CleanupFile(tmpName)
		return err
	}

	return nil
}

func CleanupFile(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Printf("error removing %s: %v", path, err)
	}
}

func closeQuietly(f *os.File) {
	if cerr := f.Close(); cerr != nil {
		log.Printf("error closing %s: %v", f.Name(), cerr)
	}
}

func Human(n int64) string {
	const unit = 1 << 10
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}

	div, exp := int64(unit), 0
	for m := n / unit; m >= unit && exp < 2; m /= unit {
		div *= unit
		exp++
	}

	return fmt.Sprintf("%.2f %cB", float64(n)/float64(div), "KMG"[exp])
}
