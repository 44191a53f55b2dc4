package hymnary

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"

	"github.com/CadenFinley/web-scraper/internal/models"
	"github.com/PuerkitoBio/goquery"
)

var pageParam = regexp.MustCompile(`page=(\d+)`)

// ExtractPages lists every page of a hymnal listing, starting with page "0".
// The last page index comes from the pager's "last" control; without one the
// hymnal has a single page.
func ExtractPages(doc *goquery.Document, hymnalURL string) []models.PageRef {
	refs := []models.PageRef{{Label: "0", Href: PageURL(hymnalURL, 0)}}

	last := lastPage(doc)
	for page := 1; page <= last; page++ {
		refs = append(refs, models.PageRef{
			Label: strconv.Itoa(page),
			Href:  PageURL(hymnalURL, page),
		})
	}

	seen := make(map[models.PageRef]struct{}, len(refs))
	unique := refs[:0]
	for _, ref := range refs {
		if _, ok := seen[ref]; ok {
			continue
		}
		seen[ref] = struct{}{}
		unique = append(unique, ref)
	}

	return unique
}

// PageURL sets the page query parameter on hymnalURL.
func PageURL(hymnalURL string, page int) string {
	u, err := url.Parse(hymnalURL)
	if err != nil {
		return fmt.Sprintf("%s?page=%d", hymnalURL, page)
	}
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()
	return u.String()
}

func lastPage(doc *goquery.Document) int {
	last := 0
	doc.Find("ul.pager").EachWithBreak(func(_ int, pager *goquery.Selection) bool {
		href, ok := pager.Find("li.pager-last").First().Find("a").First().Attr("href")
		if !ok {
			return true
		}
		match := pageParam.FindStringSubmatch(href)
		if match == nil {
			return true
		}
		n, err := strconv.Atoi(match[1])
		if err != nil {
			return true
		}
		last = n
		return false
	})
	return last
}
