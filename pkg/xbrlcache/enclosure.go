package xbrlcache

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// CacheEDGAREnclosure fetches a zipped EDGAR filing enclosure (the
// "-xbrl.zip" companion to a filing's R-files) through the same
// cache/retry/politeness path as Fetch, extracts it under baseDir, and
// returns the extraction directory. Repeated calls for the same URL are
// idempotent: if the directory already exists, extraction is skipped.
//
// archive/zip is standard library; no third-party zip reader appears
// anywhere in the example corpus, and EDGAR enclosures are plain
// DEFLATE/STORE zip with no feature archive/zip lacks.
func (c *DiskCache) CacheEDGAREnclosure(ctx context.Context, rawURL string) (string, error) {
	zipPath, err := c.pathFor(rawURL)
	if err != nil {
		return "", err
	}

	if _, err := os.Stat(zipPath); os.IsNotExist(err) {
		rc, ferr := c.Fetch(ctx, rawURL)
		if ferr != nil {
			return "", ferr
		}
		rc.Close()
	}

	destDir := strings.TrimSuffix(zipPath, filepath.Ext(zipPath)) + ".d"
	if info, err := os.Stat(destDir); err == nil && info.IsDir() {
		return destDir, nil
	}

	if err := extractZip(zipPath, destDir); err != nil {
		return "", fmt.Errorf("xbrlcache: extract enclosure %s: %w", rawURL, err)
	}
	return destDir, nil
}

func extractZip(zipPath, destDir string) error {
	r, err := zip.OpenReader(zipPath)
	if err != nil {
		return fmt.Errorf("open zip: %w", err)
	}
	defer r.Close()

	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return fmt.Errorf("create dest dir: %w", err)
	}

	for _, f := range r.File {
		target := filepath.Join(destDir, f.Name)
		if !strings.HasPrefix(target, filepath.Clean(destDir)+string(os.PathSeparator)) {
			return fmt.Errorf("zip entry %q escapes destination directory", f.Name)
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}

		if err := extractZipFile(f, target); err != nil {
			return fmt.Errorf("extract %s: %w", f.Name, err)
		}
	}
	return nil
}

func extractZipFile(f *zip.File, target string) error {
	src, err := f.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, f.Mode())
	if err != nil {
		return err
	}
	defer dst.Close()

	_, err = io.Copy(dst, src)
	return err
}
