// Package report turns the merged hymn list into the run's output tables.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Table is an ordered field list and rows keyed by field name.
// Fields missing from a row are written as empty cells.
type Table struct {
	Fields []string
	Rows   []map[string]string
}

// Write serializes the table as CSV with a header row.
func (t Table) Write(w io.Writer) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(t.Fields); err != nil {
		return err
	}

	record := make([]string, len(t.Fields))
	for _, row := range t.Rows {
		for i, field := range t.Fields {
			record[i] = row[field]
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteFile writes the table to path, creating parent directories.
func (t Table) WriteFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	if err := t.Write(file); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return file.Close()
}
