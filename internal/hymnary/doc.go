// Package hymnary harvests hymn listings from hymnary.org style hymnal pages.
//
// A hymnal is identified by a short code. Its root page carries the hymnal's metadata,
// the first page of the hymn listing and a pager linking to the remaining pages.
// Collector drives one hymnal end to end; the pager, table and metadata helpers work on
// a single parsed document each.
package hymnary

import (
	"bytes"
	"fmt"

	"github.com/PuerkitoBio/goquery"
)

// ParseDocument parses raw markup into a queryable document.
func ParseDocument(body []byte) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return doc, nil
}
