package hymnary

import (
	"log/slog"
	"strings"

	"github.com/CadenFinley/web-scraper/internal/counter"
	"github.com/CadenFinley/web-scraper/internal/models"
	"github.com/PuerkitoBio/goquery"
)

// minRowCells is the narrowest row that can hold a hymn number, title and first line.
const minRowCells = 3

// Extractor turns listing pages into hymns, drawing ids from a shared counter.
type Extractor struct {
	ids *counter.Counter
}

// NewExtractor creates an extractor that allocates hymn ids from ids.
func NewExtractor(ids *counter.Counter) *Extractor {
	return &Extractor{ids: ids}
}

// ExtractHymns returns one hymn per valid row of the page's listing table, in row order.
// A row is valid when its first cell links a number containing at least one digit
// and its second cell links a non-empty title. HymnTotal is left unset.
func (e *Extractor) ExtractHymns(doc *goquery.Document, pageLabel string, info models.HymnalInfo) []models.Hymn {
	table, ok := LocateTable(doc)
	if !ok {
		slog.Warn("No table found on page", "hymnal", info.Code, "page", pageLabel)
		return nil
	}

	rows := table.Find("tr")
	if rows.Length() <= 1 {
		slog.Warn("No data rows found on page", "hymnal", info.Code, "page", pageLabel)
		return nil
	}

	var hymns []models.Hymn
	rows.Slice(1, goquery.ToEnd).Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < minRowCells {
			return
		}

		number := models.CleanHymnNumber(linkText(cells.Eq(0)))
		title := linkText(cells.Eq(1))
		if number == "" || title == "" {
			return
		}

		hymns = append(hymns, models.Hymn{
			HymnalCode:   info.Code,
			HymnalName:   info.Name,
			Denomination: info.Denomination,
			HymnNumber:   number,
			Hymn:         title,
			HymnNoBlanks: models.TitleKey(title),
			HymnID:       e.ids.Next(),
		})
	})

	slog.Info("Found hymns on page", "hymnal", info.Code, "page", pageLabel, "count", len(hymns))
	return hymns
}

func linkText(cell *goquery.Selection) string {
	return strings.TrimSpace(cell.Find("a").First().Text())
}
