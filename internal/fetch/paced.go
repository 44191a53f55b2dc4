package fetch

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/CadenFinley/web-scraper/internal/counter"
	"github.com/CadenFinley/web-scraper/internal/metrics"
	"golang.org/x/time/rate"
)

// Paced serializes every request from every worker through one limiter, so the
// aggregate request rate is capped at one per delay no matter how many workers share it.
// Each call also draws a run-wide request number used for diagnostics.
type Paced struct {
	next     Fetcher
	limiter  *rate.Limiter
	requests *counter.Counter
	recorder *metrics.Recorder
}

// NewPaced wraps next. A delay of zero disables pacing. The limiter starts empty so the
// very first request waits out the delay like every later one.
func NewPaced(next Fetcher, delay time.Duration, requests *counter.Counter, recorder *metrics.Recorder) *Paced {
	limit := rate.Inf
	if delay > 0 {
		limit = rate.Every(delay)
	}
	limiter := rate.NewLimiter(limit, 1)
	if delay > 0 {
		limiter.Allow()
	}
	if requests == nil {
		requests = counter.New()
	}

	return &Paced{
		next:     next,
		limiter:  limiter,
		requests: requests,
		recorder: recorder,
	}
}

// Fetch waits for the next pacing slot, then delegates to the wrapped fetcher.
func (p *Paced) Fetch(ctx context.Context, url string) (*Response, error) {
	n := p.requests.Next()
	slog.Debug("Making request", "request", n, "url", url)

	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("request #%d not sent: %w", n, err)
	}

	start := time.Now()
	resp, err := p.next.Fetch(ctx, url)
	status := 0
	if resp != nil {
		status = resp.StatusCode
	}
	p.recorder.ObserveRequest(status, err, time.Since(start))

	return resp, err
}

// Requests returns how many requests have been issued so far.
func (p *Paced) Requests() int64 {
	return p.requests.Current()
}
