package report

import (
	"sort"
	"strconv"
	"strings"

	"github.com/CadenFinley/web-scraper/internal/models"
	"github.com/CadenFinley/web-scraper/internal/similarity"
)

// Column names shared by the output files.
const (
	FieldHymnalCode   = "Hymnal_Code"
	FieldHymnalName   = "Hymnal_Name"
	FieldDenomination = "Denomination"
	FieldHymnTotal    = "Hymn_Total"
	FieldHymnNumber   = "Hymn_Number"
	FieldHymn         = "Hymn"
	FieldHymnNoBlanks = "Hymn_No_Blanks"
	FieldHymnID       = "Hymn_ID"
	FieldTotal        = "Total"
)

// HymnFields is the column order of the full hymn dump.
var HymnFields = []string{
	FieldHymnalCode, FieldHymnalName, FieldDenomination, FieldHymnTotal,
	FieldHymnNumber, FieldHymn, FieldHymnNoBlanks, FieldHymnID,
}

const totalLabel = "TOTAL"

// HymnTable is the full hymn dump in merge order.
func HymnTable(hymns []models.Hymn) Table {
	t := Table{Fields: HymnFields, Rows: make([]map[string]string, 0, len(hymns))}
	for _, h := range hymns {
		t.Rows = append(t.Rows, map[string]string{
			FieldHymnalCode:   h.HymnalCode,
			FieldHymnalName:   h.HymnalName,
			FieldDenomination: h.Denomination,
			FieldHymnTotal:    strconv.Itoa(h.HymnTotal),
			FieldHymnNumber:   h.HymnNumber,
			FieldHymn:         h.Hymn,
			FieldHymnNoBlanks: h.HymnNoBlanks,
			FieldHymnID:       strconv.FormatInt(h.HymnID, 10),
		})
	}
	return t
}

// HymnalSummary describes one hymnal as first seen in the merged list.
type HymnalSummary struct {
	Code         string
	Name         string
	Denomination string
	Total        int
}

// Summarize returns one summary per distinct hymnal code, sorted by code.
func Summarize(hymns []models.Hymn) []HymnalSummary {
	seen := make(map[string]HymnalSummary)
	for _, h := range hymns {
		if _, ok := seen[h.HymnalCode]; ok {
			continue
		}
		seen[h.HymnalCode] = HymnalSummary{
			Code:         h.HymnalCode,
			Name:         h.HymnalName,
			Denomination: h.Denomination,
			Total:        h.HymnTotal,
		}
	}

	summaries := make([]HymnalSummary, 0, len(seen))
	for _, s := range seen {
		summaries = append(summaries, s)
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].Code < summaries[j].Code })
	return summaries
}

// HymnalTable is the per-hymnal summary.
func HymnalTable(hymns []models.Hymn) Table {
	summaries := Summarize(hymns)
	t := Table{
		Fields: []string{FieldHymnalCode, FieldHymnalName, FieldDenomination, FieldHymnTotal},
		Rows:   make([]map[string]string, 0, len(summaries)),
	}
	for _, s := range summaries {
		t.Rows = append(t.Rows, map[string]string{
			FieldHymnalCode:   s.Code,
			FieldHymnalName:   s.Name,
			FieldDenomination: s.Denomination,
			FieldHymnTotal:    strconv.Itoa(s.Total),
		})
	}
	return t
}

// BookDataTable is the cross-hymnal presence matrix: one row per distinct raw title,
// one column per hymnal code, each cell the title's count in that hymnal, followed by
// a TOTAL row.
func BookDataTable(hymns []models.Hymn) Table {
	counts := make(map[string]map[string]int)
	codeSet := make(map[string]struct{})
	for _, h := range hymns {
		codeSet[h.HymnalCode] = struct{}{}
		if counts[h.Hymn] == nil {
			counts[h.Hymn] = make(map[string]int)
		}
		counts[h.Hymn][h.HymnalCode]++
	}

	codes := sortedKeys(codeSet)
	titles := make([]string, 0, len(counts))
	for title := range counts {
		titles = append(titles, title)
	}
	sort.Strings(titles)

	fields := append([]string{FieldHymn, FieldHymnNoBlanks}, codes...)
	fields = append(fields, FieldTotal)
	t := Table{Fields: fields, Rows: make([]map[string]string, 0, len(titles)+1)}

	codeTotals := make(map[string]int, len(codes))
	grandTotal := 0
	for _, title := range titles {
		row := map[string]string{
			FieldHymn:         title,
			FieldHymnNoBlanks: models.TitleKey(title),
		}
		rowTotal := 0
		for _, code := range codes {
			n := counts[title][code]
			row[code] = strconv.Itoa(n)
			rowTotal += n
			codeTotals[code] += n
		}
		row[FieldTotal] = strconv.Itoa(rowTotal)
		grandTotal += rowTotal
		t.Rows = append(t.Rows, row)
	}

	totals := map[string]string{FieldHymn: totalLabel, FieldHymnNoBlanks: totalLabel}
	for _, code := range codes {
		totals[code] = strconv.Itoa(codeTotals[code])
	}
	totals[FieldTotal] = strconv.Itoa(grandTotal)
	t.Rows = append(t.Rows, totals)

	return t
}

// SimilarityFields is the column order of the similarity report.
var SimilarityFields = []string{
	"Base_Hymn", "Base_Hymn_No_Blanks", "Base_Hymnal_Code", "Base_Hymnal_Name",
	"Base_Denomination", "Similar_Hymns", "Similar_Hymn_Count",
}

const matchSeparator = "; "

// SimilarityTable renders similarity rows, keeping their order.
func SimilarityTable(rows []similarity.Row) Table {
	t := Table{Fields: SimilarityFields, Rows: make([]map[string]string, 0, len(rows))}
	for _, row := range rows {
		matches := make([]string, 0, len(row.Matches))
		for _, m := range row.Matches {
			matches = append(matches, m.String())
		}
		t.Rows = append(t.Rows, map[string]string{
			"Base_Hymn":           row.Base.Hymn,
			"Base_Hymn_No_Blanks": row.Base.HymnNoBlanks,
			"Base_Hymnal_Code":    row.Base.HymnalCode,
			"Base_Hymnal_Name":    row.Base.HymnalName,
			"Base_Denomination":   row.Base.Denomination,
			"Similar_Hymns":       strings.Join(matches, matchSeparator),
			"Similar_Hymn_Count":  strconv.Itoa(len(row.Matches)),
		})
	}
	return t
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
