package dispatch

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"sync/atomic"
	"testing"
	"time"

	"github.com/CadenFinley/web-scraper/internal/counter"
	"github.com/CadenFinley/web-scraper/internal/fetch"
	"github.com/CadenFinley/web-scraper/internal/hymnary"
	"github.com/CadenFinley/web-scraper/internal/hymnary/hymnarytest"
	"github.com/CadenFinley/web-scraper/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCollector struct {
	batches map[string][]models.Hymn
	errs    map[string]error
	panics  map[string]bool
	delay   time.Duration

	active    atomic.Int32
	maxActive atomic.Int32
}

func (f *fakeCollector) Collect(_ context.Context, code string) ([]models.Hymn, error) {
	n := f.active.Add(1)
	defer f.active.Add(-1)
	for {
		old := f.maxActive.Load()
		if n <= old || f.maxActive.CompareAndSwap(old, n) {
			break
		}
	}
	time.Sleep(f.delay)

	if f.panics[code] {
		panic("malformed markup")
	}
	if err := f.errs[code]; err != nil {
		return nil, err
	}
	return f.batches[code], nil
}

func batch(code string, n int) []models.Hymn {
	hymns := make([]models.Hymn, n)
	for i := range hymns {
		hymns[i] = models.Hymn{HymnalCode: code, HymnTotal: n}
	}
	return hymns
}

func TestPoolSize(t *testing.T) {
	tests := []struct {
		name     string
		workers  int
		n        int
		expected int
	}{
		{name: "capped by hymnal count", workers: 5, n: 2, expected: 2},
		{name: "configured size below count", workers: 3, n: 10, expected: 3},
		{name: "never below one", workers: 0, n: 4, expected: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, PoolSize(tt.workers, tt.n))
		})
	}
}

func TestRun_NoSources(t *testing.T) {
	_, err := New(&fakeCollector{}, 5, nil).Run(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoSources)
}

func TestRun_FailuresAreContained(t *testing.T) {
	collector := &fakeCollector{
		batches: map[string][]models.Hymn{
			"A": batch("A", 3),
			"B": batch("B", 2),
			"D": batch("D", 1),
		},
		errs:   map[string]error{"C": errors.New("status 500")},
		panics: map[string]bool{"E": true},
	}

	result, err := New(collector, 5, nil).Run(context.Background(), []string{"A", "B", "C", "D", "E"})
	require.NoError(t, err)

	assert.Len(t, result.Hymns, 6)
	assert.Len(t, result.Outcomes, 5)

	failed := result.Failed()
	require.Len(t, failed, 2)
	codes := []string{failed[0].Code, failed[1].Code}
	sort.Strings(codes)
	assert.Equal(t, []string{"C", "E"}, codes)
	for _, o := range failed {
		assert.Zero(t, o.Hymns)
	}
}

func TestRun_BatchesStayContiguous(t *testing.T) {
	collector := &fakeCollector{batches: map[string][]models.Hymn{
		"A": batch("A", 4),
		"B": batch("B", 4),
		"C": batch("C", 4),
	}}

	result, err := New(collector, 3, nil).Run(context.Background(), []string{"A", "B", "C"})
	require.NoError(t, err)
	require.Len(t, result.Hymns, 12)

	for i := 0; i < 12; i += 4 {
		code := result.Hymns[i].HymnalCode
		for _, h := range result.Hymns[i : i+4] {
			assert.Equal(t, code, h.HymnalCode)
		}
	}
}

func TestRun_RespectsPoolSize(t *testing.T) {
	codes := []string{"A", "B", "C", "D", "E", "F", "G", "H"}
	collector := &fakeCollector{delay: 20 * time.Millisecond}

	result, err := New(collector, 3, nil).Run(context.Background(), codes)
	require.NoError(t, err)

	assert.Equal(t, 3, result.Workers)
	assert.LessOrEqual(t, collector.maxActive.Load(), int32(3))
	assert.Len(t, result.Outcomes, len(codes))
}

func TestRun_EndToEnd(t *testing.T) {
	server, _ := hymnarytest.NewServer(
		hymnarytest.Hymnal{
			Code: "SoP1870", Name: "Songs of Praise",
			Pages: [][]hymnarytest.Row{
				{{Number: "1", Title: "Amazing Grace"}, {Number: "2", Title: "Rock of Ages"}},
				{{Number: "3", Title: "Abide with Me"}},
			},
		},
		hymnarytest.Hymnal{
			Code: "GSC1986", Name: "Gospel Songs",
			Pages: [][]hymnarytest.Row{
				{{Number: "10", Title: "Amazing Grace"}},
				{{Number: "11", Title: "Just As I Am"}},
				{{Number: "12", Title: "It Is Well"}, {Number: "x", Title: "Skipped"}},
			},
		},
		hymnarytest.Hymnal{
			Code: "Down", RootStatus: http.StatusBadGateway,
		},
	)
	defer server.Close()

	ids := counter.New()
	client := fetch.NewPaced(fetch.NewClient(fetch.DefaultTimeout, ""), time.Millisecond, counter.New(), nil)
	collector := hymnary.NewCollector(client, ids, server.URL, nil)

	result, err := New(collector, 5, nil).Run(context.Background(), []string{"SoP1870", "Down", "GSC1986"})
	require.NoError(t, err)
	require.Len(t, result.Hymns, 6)

	// Ids form 1..N with no gaps or duplicates, whatever order the hymnals finished in.
	var got []int64
	perHymnal := map[string]int{}
	for _, h := range result.Hymns {
		got = append(got, h.HymnID)
		perHymnal[h.HymnalCode]++
	}
	sort.Slice(got, func(i, j int) bool { return got[i] < got[j] })
	for i, id := range got {
		assert.Equal(t, int64(i+1), id)
	}
	assert.Equal(t, int64(6), ids.Current())

	for _, h := range result.Hymns {
		assert.Equal(t, perHymnal[h.HymnalCode], h.HymnTotal, "hymnal %s", h.HymnalCode)
	}
	assert.Equal(t, map[string]int{"SoP1870": 3, "GSC1986": 3}, perHymnal)

	// Within a hymnal, ids follow page-then-row order.
	byHymnal := map[string][]int64{}
	for _, h := range result.Hymns {
		byHymnal[h.HymnalCode] = append(byHymnal[h.HymnalCode], h.HymnID)
	}
	for code, seq := range byHymnal {
		assert.True(t, sort.SliceIsSorted(seq, func(i, j int) bool { return seq[i] < seq[j] }), "hymnal %s", code)
	}

	failed := result.Failed()
	require.Len(t, failed, 1)
	assert.Equal(t, "Down", failed[0].Code)
}
