package generate

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ZipDir archives srcDir into a zip file at zipPath. Entries are stored
// under the directory's base name, so unpacking yields a single project
// folder. Entries are written in lexical walk order; identical inputs
// produce identically ordered archives.
func ZipDir(zipPath, srcDir string) error {
	out, err := os.Create(zipPath)
	if err != nil {
		return fmt.Errorf("failed to create archive: %w", err)
	}
	defer out.Close()

	w := zip.NewWriter(out)
	base := filepath.Base(srcDir)
	err = filepath.Walk(srcDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		entry := base + "/" + strings.ReplaceAll(rel, string(filepath.Separator), "/")

		f, err := w.Create(entry)
		if err != nil {
			return err
		}
		src, err := os.Open(path)
		if err != nil {
			return err
		}
		defer src.Close()
		_, err = io.Copy(f, src)
		return err
	})
	if err != nil {
		w.Close()
		return fmt.Errorf("failed to archive %s: %w", srcDir, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to finalize archive: %w", err)
	}
	return nil
}
