// Package dataset loads a previously written hymn dump for offline analysis.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/CadenFinley/web-scraper/internal/models"
	"github.com/CadenFinley/web-scraper/internal/report"
	"github.com/parquet-go/parquet-go"
)

const batchSize = 128

// Loader reads hymn dumps in Parquet or CSV form.
type Loader struct {
	path string
}

// NewLoader creates a loader for the dump at path.
func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

// Load reads every hymn in the dump.
func (l *Loader) Load() ([]models.Hymn, error) {
	ext := strings.ToLower(filepath.Ext(l.path))

	switch ext {
	case ".parquet":
		return l.loadParquet()
	case ".csv":
		return l.loadCSV()
	default:
		return nil, fmt.Errorf("unsupported file format: %s (supported: .parquet, .csv)", ext)
	}
}

func (l *Loader) loadParquet() ([]models.Hymn, error) {
	slog.Debug("Opening Parquet file", "path", l.path)

	file, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	pf, err := parquet.OpenFile(file, info.Size())
	if err != nil {
		return nil, fmt.Errorf("failed to open parquet: %w", err)
	}

	slog.Debug("Parquet file opened", "num_rows", pf.NumRows(), "num_row_groups", len(pf.RowGroups()))

	reader := parquet.NewGenericReader[models.Hymn](pf)
	defer reader.Close()

	hymns := make([]models.Hymn, 0, pf.NumRows())
	rows := make([]models.Hymn, batchSize)
	for {
		n, err := reader.Read(rows)
		hymns = append(hymns, rows[:n]...)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read parquet rows: %w", err)
		}
	}

	slog.Debug("Finished reading Parquet file", "total_records", len(hymns))
	return hymns, nil
}

func (l *Loader) loadCSV() ([]models.Hymn, error) {
	slog.Debug("Opening CSV file", "path", l.path)

	file, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open csv file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[name] = i
	}
	for _, field := range report.HymnFields {
		if _, ok := columns[field]; !ok {
			return nil, fmt.Errorf("csv is missing column %q", field)
		}
	}

	var hymns []models.Hymn
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("failed to read csv line %d: %w", line, err)
		}

		h, err := parseRecord(record, columns)
		if err != nil {
			return nil, fmt.Errorf("invalid csv line %d: %w", line, err)
		}
		hymns = append(hymns, h)
	}

	slog.Debug("Finished reading CSV file", "total_records", len(hymns))
	return hymns, nil
}

func parseRecord(record []string, columns map[string]int) (models.Hymn, error) {
	get := func(field string) string { return record[columns[field]] }

	total, err := strconv.Atoi(get(report.FieldHymnTotal))
	if err != nil {
		return models.Hymn{}, fmt.Errorf("bad %s: %w", report.FieldHymnTotal, err)
	}
	id, err := strconv.ParseInt(get(report.FieldHymnID), 10, 64)
	if err != nil {
		return models.Hymn{}, fmt.Errorf("bad %s: %w", report.FieldHymnID, err)
	}

	return models.Hymn{
		HymnalCode:   get(report.FieldHymnalCode),
		HymnalName:   get(report.FieldHymnalName),
		Denomination: get(report.FieldDenomination),
		HymnTotal:    total,
		HymnNumber:   get(report.FieldHymnNumber),
		Hymn:         get(report.FieldHymn),
		HymnNoBlanks: get(report.FieldHymnNoBlanks),
		HymnID:       id,
	}, nil
}
