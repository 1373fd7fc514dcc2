// Package csvout persists uniform record lists as CSV files.
//
// Two deployment modes are supported: overwrite-in-place at a stable path,
// and append-timestamped-then-prune, which keeps only the most recent file
// per base name.
package csvout

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"time"
)

const timestampLayout = "20060102_150405"

// Record is implemented by any exportable row type. Columns and Values must
// align: both follow the type's field declaration order.
type Record interface {
	// Columns returns the header names.
	Columns() []string
	// Values returns the stringified field values.
	Values() []string
}

// Writer writes record lists to CSV files under a base directory.
type Writer struct {
	dir    string
	rotate bool
	now    func() time.Time
}

// WriterOption configures the Writer.
type WriterOption func(*Writer)

// WithRotation switches the writer to timestamped files, pruning older
// siblings of the same base name after each write.
func WithRotation() WriterOption {
	return func(w *Writer) {
		w.rotate = true
	}
}

// WithClock sets the timestamp source (useful for testing rotation).
func WithClock(now func() time.Time) WriterOption {
	return func(w *Writer) {
		w.now = now
	}
}

// NewWriter creates a Writer rooted at dir. The directory is created on
// first write if it does not exist.
func NewWriter(dir string, opts ...WriterOption) *Writer {
	w := &Writer{
		dir: dir,
		now: time.Now,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write persists records as {name}.csv (or a timestamped variant under
// rotation). The header row comes from the record type's declared columns.
// An empty record list is a no-op: no file is created or changed.
func Write[T Record](w *Writer, records []T, name string) error {
	if len(records) == 0 {
		return nil
	}

	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	fileName := name + ".csv"
	if w.rotate {
		fileName = fmt.Sprintf("%s_%s.csv", name, w.now().Format(timestampLayout))
	}
	path := filepath.Join(w.dir, fileName)

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	cw := csv.NewWriter(file)
	if err := cw.Write(records[0].Columns()); err != nil {
		file.Close()
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, record := range records {
		if err := cw.Write(record.Values()); err != nil {
			file.Close()
			return fmt.Errorf("failed to write record: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		file.Close()
		return fmt.Errorf("failed to flush %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}

	if w.rotate {
		return w.pruneOld(name, fileName)
	}
	return nil
}

// pruneOld deletes every timestamped sibling of name except keep, the file
// just written. Symlinks are left alone.
func (w *Writer) pruneOld(name, keep string) error {
	pattern, err := regexp.Compile("^" + regexp.QuoteMeta(name) + `_\d{8}_\d{6}\.csv$`)
	if err != nil {
		return err
	}

	entries, err := os.ReadDir(w.dir)
	if err != nil {
		return fmt.Errorf("failed to list data directory: %w", err)
	}

	var matches []string
	for _, entry := range entries {
		if entry.Type()&os.ModeSymlink != 0 {
			continue
		}
		if entry.Name() == keep || !pattern.MatchString(entry.Name()) {
			continue
		}
		matches = append(matches, entry.Name())
	}

	// Timestamped names sort chronologically, so any order works for a
	// keep-latest-1 policy; sorting keeps deletion deterministic.
	sort.Strings(matches)
	for _, stale := range matches {
		if err := os.Remove(filepath.Join(w.dir, stale)); err != nil {
			return fmt.Errorf("failed to prune %s: %w", stale, err)
		}
	}

	return nil
}
