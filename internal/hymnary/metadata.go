package hymnary

import (
	"strings"

	"github.com/CadenFinley/web-scraper/internal/models"
	"github.com/PuerkitoBio/goquery"
)

const denominationLabel = "Denomination:"

// ExtractHymnalInfo reads the hymnal name from the page title heading and the
// denomination from the info table. Missing values are left empty.
func ExtractHymnalInfo(doc *goquery.Document, code string) models.HymnalInfo {
	info := models.HymnalInfo{Code: code}

	info.Name = strings.TrimSpace(
		doc.Find("div#tabs-wrapper").First().
			Find("div.page-title").First().
			Find("h1").First().Text(),
	)

	doc.Find("table.infoTable").First().Find("tr.result-row").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		label := row.Find("span.hy_infoLabel").First()
		if label.Length() == 0 || !strings.Contains(label.Text(), denominationLabel) {
			return true
		}
		value := row.Find("span.hy_infoItem").First()
		if value.Length() == 0 {
			return true
		}
		// A linked denomination is preferred over the cell's plain text.
		if link := value.Find("a").First(); link.Length() > 0 {
			info.Denomination = strings.TrimSpace(link.Text())
		} else {
			info.Denomination = strings.TrimSpace(value.Text())
		}
		return false
	})

	return info
}
