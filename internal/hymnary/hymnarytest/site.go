// Package hymnarytest serves synthetic hymnal listing pages for tests.
package hymnarytest

import (
	"fmt"
	"html"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
)

// Row is one line of a hymn listing table.
type Row struct {
	Number string
	Title  string
}

// Hymnal describes the pages served for one hymnal code.
type Hymnal struct {
	Code         string
	Name         string
	Denomination string
	// PlainDenomination renders the denomination without a link.
	PlainDenomination bool
	// Pages holds the listing rows of each page; page 0 is the root page.
	Pages [][]Row
	// RootStatus, when set, is returned for the root page instead of content.
	RootStatus int
	// PageStatus maps page indexes to error statuses.
	PageStatus map[int]int
}

// Site serves hymnals at /hymnal/{code}?page=N.
type Site struct {
	mu       sync.Mutex
	hymnals  map[string]Hymnal
	requests []string
}

// NewSite builds a site from hymnals.
func NewSite(hymnals ...Hymnal) *Site {
	s := &Site{hymnals: make(map[string]Hymnal, len(hymnals))}
	for _, h := range hymnals {
		s.hymnals[h.Code] = h
	}
	return s
}

// NewServer starts an httptest server for hymnals. Callers close it.
func NewServer(hymnals ...Hymnal) (*httptest.Server, *Site) {
	site := NewSite(hymnals...)
	return httptest.NewServer(site), site
}

// Requests returns the request URIs served so far.
func (s *Site) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

func (s *Site) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.requests = append(s.requests, r.URL.RequestURI())
	s.mu.Unlock()

	code, ok := strings.CutPrefix(r.URL.Path, "/hymnal/")
	if !ok {
		http.NotFound(w, r)
		return
	}
	h, ok := s.hymnals[code]
	if !ok {
		http.NotFound(w, r)
		return
	}

	page := 0
	if raw := r.URL.Query().Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			http.Error(w, "bad page", http.StatusBadRequest)
			return
		}
		page = n
	} else if h.RootStatus != 0 {
		w.WriteHeader(h.RootStatus)
		return
	}

	if status, ok := h.PageStatus[page]; ok {
		w.WriteHeader(status)
		return
	}
	if page < 0 || (page > 0 && page >= len(h.Pages)) {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(Page(h, page)))
}

// Page renders one listing page of h the way hymnary.org lays it out.
func Page(h Hymnal, page int) string {
	var b strings.Builder
	b.WriteString("<html><head><title>" + html.EscapeString(h.Name) + " | Hymnary.org</title></head><body>\n")
	b.WriteString(`<div id="tabs-wrapper"><div class="page-title"><h1>` + html.EscapeString(h.Name) + "</h1></div></div>\n")

	b.WriteString(`<table class="infoTable">` + "\n")
	b.WriteString(`<tr class="result-row"><td><span class="hy_infoLabel">Publisher:</span></td><td><span class="hy_infoItem">Test Press</span></td></tr>` + "\n")
	if h.Denomination != "" {
		value := `<a href="/denomination/x">` + html.EscapeString(h.Denomination) + "</a>"
		if h.PlainDenomination {
			value = html.EscapeString(h.Denomination)
		}
		b.WriteString(`<tr class="result-row"><td><span class="hy_infoLabel">Denomination:</span></td><td><span class="hy_infoItem">` + value + "</span></td></tr>\n")
	}
	b.WriteString("</table>\n")

	b.WriteString(`<a name="list"></a>` + "\n")
	b.WriteString("<table><tr><th>#</th><th>Text</th><th>First Line</th><th>Tune</th><th>Meter</th><th>Scripture</th><th>Audio</th></tr>\n")
	if page < len(h.Pages) {
		for _, row := range h.Pages[page] {
			fmt.Fprintf(&b, `<tr><td><a href="/hymn/%s">%s</a></td><td><a href="/text/x">%s</a></td><td>first line</td><td></td><td></td><td></td><td></td></tr>`+"\n",
				html.EscapeString(h.Code), html.EscapeString(row.Number), html.EscapeString(row.Title))
		}
	}
	b.WriteString("</table>\n")

	if last := len(h.Pages) - 1; last > 0 {
		b.WriteString(`<ul class="pager">`)
		fmt.Fprintf(&b, `<li class="pager-first"><a href="/hymnal/%s?page=0">first</a></li>`, h.Code)
		fmt.Fprintf(&b, `<li class="pager-next"><a href="/hymnal/%s?page=%d">next</a></li>`, h.Code, page+1)
		fmt.Fprintf(&b, `<li class="pager-last"><a href="/hymnal/%s?page=%d">last »</a></li>`, h.Code, last)
		b.WriteString("</ul>\n")
	}

	b.WriteString("</body></html>")
	return b.String()
}
