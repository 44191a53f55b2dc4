package models

import (
	"regexp"
	"strings"
)

// Hymn is one catalog entry harvested from a hymnal listing.
// Values are never mutated once they leave the collector that built them.
type Hymn struct {
	HymnalCode   string `json:"hymnal_code" parquet:"hymnal_code"`
	HymnalName   string `json:"hymnal_name" parquet:"hymnal_name"`
	Denomination string `json:"denomination" parquet:"denomination"`
	HymnTotal    int    `json:"hymn_total" parquet:"hymn_total"`   // Backfilled once the hymnal is fully traversed
	HymnNumber   string `json:"hymn_number" parquet:"hymn_number"` // Digits only
	Hymn         string `json:"hymn" parquet:"hymn"`
	HymnNoBlanks string `json:"hymn_no_blanks" parquet:"hymn_no_blanks"`
	HymnID       int64  `json:"hymn_id" parquet:"hymn_id"` // Unique across the whole run
}

// Identity is the (title, hymnal) pair used to tell hymns apart in the similarity report.
// Two hymnals may print the exact same title, so the global id is not used.
type Identity struct {
	Hymn       string
	HymnalCode string
}

// Identity returns the record's (title, hymnal) key.
func (h Hymn) Identity() Identity {
	return Identity{Hymn: h.Hymn, HymnalCode: h.HymnalCode}
}

// HymnalInfo is the descriptive metadata resolved once from a hymnal's root page.
type HymnalInfo struct {
	Code         string
	Name         string
	Denomination string
}

// PageRef is one paginated view of a hymnal listing.
type PageRef struct {
	Label string `json:"label"`
	Href  string `json:"href"`
}

var nonKeyChars = regexp.MustCompile(`[^a-zA-Z0-9_]`)

// TitleKey derives an identifier-safe key from a hymn title: whitespace runs become a
// single underscore and everything outside [a-zA-Z0-9_] is dropped.
func TitleKey(title string) string {
	key := strings.Join(strings.Fields(title), "_")
	return nonKeyChars.ReplaceAllString(key, "")
}

var nonDigits = regexp.MustCompile(`[^0-9]`)

// CleanHymnNumber strips everything but digits from a printed hymn number.
func CleanHymnNumber(raw string) string {
	return nonDigits.ReplaceAllString(raw, "")
}
