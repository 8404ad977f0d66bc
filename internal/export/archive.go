package export

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrArchive marks a malformed downloaded archive or one without a CSV member.
var ErrArchive = errors.New("export: archive error")

// FetchArchive downloads the completed export's zip payload, extracts the
// single CSV member and writes it to outPath. The temporary archive file is
// removed on every exit path.
func FetchArchive(ctx context.Context, api API, surveyID, fileID, outPath string) error {
	payload, err := api.DownloadExport(ctx, surveyID, fileID)
	if err != nil {
		return err
	}

	dir := filepath.Dir(outPath)
	tmp, err := os.CreateTemp(dir, ".qexport-*.zip")
	if err != nil {
		return fmt.Errorf("export: create temp archive: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if _, err := tmp.Write(payload); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("export: write temp archive: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("export: close temp archive: %w", err)
	}

	return extractCSV(tmpPath, outPath)
}

// extractCSV copies the first CSV member of the zip at archivePath to
// outPath, atomically via a sibling temp file.
func extractCSV(archivePath, outPath string) error {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("%w: open zip: %v", ErrArchive, err)
	}
	defer func() { _ = zr.Close() }()

	var member *zip.File
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(f.Name), ".csv") {
			member = f
			break
		}
	}
	if member == nil {
		return fmt.Errorf("%w: no csv member in archive", ErrArchive)
	}

	rc, err := member.Open()
	if err != nil {
		return fmt.Errorf("%w: open member %s: %v", ErrArchive, member.Name, err)
	}
	defer func() { _ = rc.Close() }()

	out, err := os.CreateTemp(filepath.Dir(outPath), ".qexport-*.csv")
	if err != nil {
		return fmt.Errorf("export: create output: %w", err)
	}
	outTmp := out.Name()
	defer func() { _ = os.Remove(outTmp) }()

	if _, err := io.Copy(out, rc); err != nil {
		_ = out.Close()
		return fmt.Errorf("%w: extract member %s: %v", ErrArchive, member.Name, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("export: close output: %w", err)
	}
	if err := os.Chmod(outTmp, 0o644); err != nil {
		return fmt.Errorf("export: chmod output: %w", err)
	}
	if err := os.Rename(outTmp, outPath); err != nil {
		return fmt.Errorf("export: move output into place: %w", err)
	}
	return nil
}
