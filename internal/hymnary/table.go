package hymnary

import "github.com/PuerkitoBio/goquery"

// minHeaderCells is the header width that identifies a hymn listing table when
// the page has no list anchor.
const minHeaderCells = 7

const listAnchor = `a[name="list"]`

// LocateTable finds the hymn listing table. The first table after the
// <a name="list"> anchor wins; pages without the anchor fall back to the first
// table whose header row has at least minHeaderCells cells.
func LocateTable(doc *goquery.Document) (*goquery.Selection, bool) {
	anchor := doc.Find(listAnchor).First()
	if anchor.Length() > 0 {
		return tableAfter(doc, anchor)
	}
	return tableByShape(doc)
}

// tableAfter returns the first table that follows anchor in document order.
func tableAfter(doc *goquery.Document, anchor *goquery.Selection) (*goquery.Selection, bool) {
	anchorNode := anchor.Get(0)
	passed := false
	var table *goquery.Selection

	doc.Find(listAnchor + ", table").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if s.Get(0) == anchorNode {
			passed = true
			return true
		}
		if passed && goquery.NodeName(s) == "table" {
			table = s
			return false
		}
		return true
	})

	return table, table != nil
}

func tableByShape(doc *goquery.Document) (*goquery.Selection, bool) {
	var table *goquery.Selection
	doc.Find("table").EachWithBreak(func(_ int, t *goquery.Selection) bool {
		header := t.Find("tr").First()
		if header.Length() > 0 && header.Find("th, td").Length() >= minHeaderCells {
			table = t
			return false
		}
		return true
	})
	return table, table != nil
}
