package csvfix

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Vendor validation annotations appended to header cells. These are stripped
// by CleanHeader; the remaining cell text is the actual column name.
var validationAnnotations = []*regexp.Regexp{
	regexp.MustCompile(`\s*\(validation:[^)]*\)`),
	regexp.MustCompile(`\s*-\s*validation text\b`),
}

// importIDMarker identifies the vendor metadata row carrying column import ids.
const importIDMarker = `"ImportId"`

// CleanHeader strips known vendor validation annotations out of each header
// cell. It is idempotent: cleaning an already-clean row returns equal cells.
func CleanHeader(row []string) []string {
	out := make([]string, len(row))
	for i, cell := range row {
		for _, re := range validationAnnotations {
			cell = re.ReplaceAllString(cell, "")
		}
		out[i] = strings.TrimRight(cell, " \t")
	}
	return out
}

// Options control CleanFile behavior beyond the header rewrite.
type Options struct {
	// DropMetadataRows removes the vendor-injected question-text row and the
	// {"ImportId": ...} row that follow the header in raw exports.
	DropMetadataRows bool
}

// CleanFile reads the CSV at inPath, rewrites the header row and streams the
// remaining rows to outPath. An empty outPath rewrites the file in place
// (temp file + rename).
func CleanFile(inPath, outPath string, opts Options) error {
	in, err := os.Open(inPath) // #nosec G304 -- path comes from the CLI invocation
	if err != nil {
		return fmt.Errorf("csvfix: open %s: %w", inPath, err)
	}
	defer func() { _ = in.Close() }()

	inPlace := strings.TrimSpace(outPath) == ""
	dir := filepath.Dir(inPath)
	if !inPlace {
		dir = filepath.Dir(outPath)
	}
	tmp, err := os.CreateTemp(dir, ".qexport-clean-*.csv")
	if err != nil {
		return fmt.Errorf("csvfix: create temp output: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if err := cleanStream(in, tmp, opts); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("csvfix: close temp output: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return fmt.Errorf("csvfix: chmod output: %w", err)
	}

	target := outPath
	if inPlace {
		target = inPath
		_ = in.Close()
	}
	if err := os.Rename(tmpPath, target); err != nil {
		return fmt.Errorf("csvfix: move output into place: %w", err)
	}
	return nil
}

// cleanStream copies CSV records from r to w, cleaning the header and
// optionally dropping the vendor metadata rows.
func cleanStream(r io.Reader, w io.Writer, opts Options) error {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cw := csv.NewWriter(w)

	header, err := cr.Read()
	if err == io.EOF {
		cw.Flush()
		return cw.Error()
	}
	if err != nil {
		return fmt.Errorf("csvfix: read header: %w", err)
	}
	if err := cw.Write(CleanHeader(header)); err != nil {
		return fmt.Errorf("csvfix: write header: %w", err)
	}

	// One-row lookbehind: the question-text row is only identifiable by the
	// ImportId row that follows it, so writes trail reads by one record.
	var pending []string
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("csvfix: read row: %w", err)
		}
		if opts.DropMetadataRows && isImportIDRow(rec) {
			pending = nil
			continue
		}
		if pending != nil {
			if err := cw.Write(pending); err != nil {
				return fmt.Errorf("csvfix: write row: %w", err)
			}
		}
		pending = rec
	}
	if pending != nil {
		if err := cw.Write(pending); err != nil {
			return fmt.Errorf("csvfix: write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func isImportIDRow(rec []string) bool {
	for _, cell := range rec {
		if strings.Contains(cell, importIDMarker) {
			return true
		}
	}
	return false
}
