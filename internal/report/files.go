package report

import (
	"path/filepath"
	"time"
)

// DateLayout stamps output file names as MM-DD-YYYY.
const DateLayout = "01-02-2006"

// Files holds the output paths of one run.
type Files struct {
	Hymns        string
	HymnsParquet string
	Hymnals      string
	BookData     string
	Similarity   string
	Manifest     string
}

// FilesFor returns the output paths under dir stamped with the date of at.
func FilesFor(dir string, at time.Time) Files {
	stamp := at.Format(DateLayout)
	path := func(prefix, ext string) string {
		return filepath.Join(dir, prefix+"_"+stamp+ext)
	}
	return Files{
		Hymns:        path("hymnal_data", ".csv"),
		HymnsParquet: path("hymnal_data", ".parquet"),
		Hymnals:      path("hymnals", ".csv"),
		BookData:     path("book_data", ".csv"),
		Similarity:   path("hymn_similarity", ".csv"),
		Manifest:     path("run", ".yaml"),
	}
}

// Tables returns the CSV outputs in the order they are written.
func (f Files) Tables() []string {
	return []string{f.Hymns, f.Hymnals, f.BookData, f.Similarity}
}
