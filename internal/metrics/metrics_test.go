package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_Counts(t *testing.T) {
	r := New()

	r.ObserveRequest(200, nil, 10*time.Millisecond)
	r.ObserveRequest(200, nil, 10*time.Millisecond)
	r.ObserveRequest(404, nil, time.Millisecond)
	r.ObserveRequest(0, errors.New("connection refused"), time.Millisecond)
	r.ObservePage(PageOK)
	r.ObservePage(PageEmpty)
	r.ObserveHymnal("SoP1870", 12, nil)
	r.ObserveHymnal("GSC1986", 0, errors.New("status 500"))

	assert.Equal(t, 2.0, testutil.ToFloat64(r.requests.WithLabelValues("200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.requests.WithLabelValues("404")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.requests.WithLabelValues("error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.pages.WithLabelValues(PageEmpty)))
	assert.Equal(t, 12.0, testutil.ToFloat64(r.hymns.WithLabelValues("SoP1870")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.hymnals.WithLabelValues("failed")))
}

func TestRecorder_NilIsNoop(t *testing.T) {
	var r *Recorder
	assert.NotPanics(t, func() {
		r.ObserveRequest(200, nil, time.Second)
		r.ObservePage(PageFailed)
		r.ObserveHymnal("X", 1, nil)
	})
	assert.NoError(t, r.WriteTextfile(filepath.Join(t.TempDir(), "unused.prom")))
}

func TestRecorder_WriteTextfile(t *testing.T) {
	r := New()
	r.ObserveHymnal("SoP1870", 3, nil)

	path := filepath.Join(t.TempDir(), "hymnal.prom")
	require.NoError(t, r.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `hymnal_scraper_hymns_collected_total{hymnal="SoP1870"} 3`)
}
