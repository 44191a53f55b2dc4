// Package similarity groups near-duplicate hymn titles across hymnals.
//
// Titles are first bucketed by their normalized text, so a title printed by many
// hymnals is scored once. Every unordered pair of buckets is then scored with a
// longest-matching-blocks ratio, and each hymn's qualifying partners are expanded
// back to individual hymns, best score first.
package similarity

import (
	"fmt"
	"runtime"
	"sort"
	"strings"

	"github.com/CadenFinley/web-scraper/internal/models"
	"github.com/pmezard/go-difflib/difflib"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultThreshold  = 0.85
	DefaultMaxMatches = 15
)

// Options control which pairs qualify and how many matches each hymn reports.
type Options struct {
	Threshold float64
	// MaxMatches caps matches per hymn; 0 means unbounded.
	MaxMatches int
	// Workers bounds pair scoring parallelism; 0 uses GOMAXPROCS.
	Workers int
}

// DefaultOptions returns the standard threshold and cap.
func DefaultOptions() Options {
	return Options{Threshold: DefaultThreshold, MaxMatches: DefaultMaxMatches}
}

// Match is one hymn similar to a base hymn.
type Match struct {
	Hymn  models.Hymn
	Score float64
}

// String renders the match as `title [code] (score)`.
func (m Match) String() string {
	return fmt.Sprintf("%s [%s] (%.2f)", m.Hymn.Hymn, m.Hymn.HymnalCode, m.Score)
}

// Row lists a base hymn's matches in non-increasing score order.
type Row struct {
	Base    models.Hymn
	Matches []Match
}

// Ratio returns 2*M/T where M is the number of characters in the longest matching
// blocks of a and b and T is their combined length. Identical strings score 1.
func Ratio(a, b string) float64 {
	return difflib.NewMatcher(strings.Split(a, ""), strings.Split(b, "")).Ratio()
}

// Normalize collapses whitespace runs to one space and lowercases.
func Normalize(title string) string {
	return strings.ToLower(strings.Join(strings.Fields(title), " "))
}

type bucket struct {
	compare string
	members []models.Hymn
}

type edge struct {
	bucket int
	score  float64
}

// Find returns a row for every hymn, in input order, that has at least one match at or
// above the threshold. Hymns with blank titles are ignored. A hymn never matches
// itself or another hymn with the same title in the same hymnal.
func Find(hymns []models.Hymn, opts Options) []Row {
	entries, buckets, index := group(hymns)
	if len(entries) == 0 {
		return nil
	}

	partners := score(buckets, opts)

	var rows []Row
	for _, base := range entries {
		matches := expand(base, partners[index[Normalize(base.Hymn)]], buckets, opts.MaxMatches)
		if len(matches) > 0 {
			rows = append(rows, Row{Base: base, Matches: matches})
		}
	}
	return rows
}

// group buckets hymns by normalized title, in first-seen order.
func group(hymns []models.Hymn) ([]models.Hymn, []*bucket, map[string]int) {
	entries := make([]models.Hymn, 0, len(hymns))
	var buckets []*bucket
	index := make(map[string]int)

	for _, h := range hymns {
		h.Hymn = strings.TrimSpace(h.Hymn)
		if h.Hymn == "" {
			continue
		}
		entries = append(entries, h)

		key := Normalize(h.Hymn)
		i, ok := index[key]
		if !ok {
			i = len(buckets)
			index[key] = i
			buckets = append(buckets, &bucket{compare: strings.ToLower(h.Hymn)})
		}
		buckets[i].members = append(buckets[i].members, h)
	}

	return entries, buckets, index
}

// score computes each bucket's qualifying partners, itself first, sorted by
// descending score with ties left in bucket order. Each unordered pair is scored once.
func score(buckets []*bucket, opts Options) [][]edge {
	n := len(buckets)
	upper := make([][]edge, n)

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	var g errgroup.Group
	g.SetLimit(workers)
	for i := range buckets {
		g.Go(func() error {
			for j := i + 1; j < n; j++ {
				s := Ratio(buckets[i].compare, buckets[j].compare)
				if s >= opts.Threshold {
					upper[i] = append(upper[i], edge{bucket: j, score: s})
				}
			}
			return nil
		})
	}
	_ = g.Wait()

	partners := make([][]edge, n)
	for i := range partners {
		partners[i] = []edge{{bucket: i, score: 1.0}}
	}
	for i, edges := range upper {
		for _, e := range edges {
			partners[i] = append(partners[i], e)
			partners[e.bucket] = append(partners[e.bucket], edge{bucket: i, score: e.score})
		}
	}
	for _, p := range partners {
		sort.SliceStable(p, func(a, b int) bool { return p[a].score > p[b].score })
	}

	return partners
}

func expand(base models.Hymn, partners []edge, buckets []*bucket, limit int) []Match {
	seen := map[models.Identity]struct{}{base.Identity(): {}}
	var matches []Match

	for _, p := range partners {
		for _, member := range buckets[p.bucket].members {
			id := member.Identity()
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			matches = append(matches, Match{Hymn: member, Score: p.score})
			if limit > 0 && len(matches) >= limit {
				return matches
			}
		}
	}

	return matches
}
