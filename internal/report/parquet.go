package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/CadenFinley/web-scraper/internal/models"
	"github.com/parquet-go/parquet-go"
)

// WriteParquet writes the hymn dump as a Parquet file.
func WriteParquet(path string, hymns []models.Hymn) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if err := parquet.WriteFile(path, hymns); err != nil {
		return fmt.Errorf("failed to write parquet %s: %w", path, err)
	}
	return nil
}
