package report

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
)

// PrintSummary renders the per-hymnal totals and failures as a console table.
func PrintSummary(w io.Writer, summaries []HymnalSummary, m *Manifest) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Code", "Name", "Denomination", "Hymns"})

	total := 0
	for _, s := range summaries {
		t.AppendRow(table.Row{s.Code, s.Name, s.Denomination, s.Total})
		total += s.Total
	}

	if m != nil {
		for _, h := range m.Hymnals {
			if h.Error != "" {
				t.AppendRow(table.Row{h.Code, "", "failed", 0})
			}
		}
	}

	t.AppendFooter(table.Row{"", "", "Total", total})
	t.Render()

	if m != nil {
		fmt.Fprintf(w, "run %s: %d requests, %d similarity rows\n", m.RunID, m.TotalRequests, m.SimilarityRows)
	}
}
