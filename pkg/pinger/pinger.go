// Package pinger probes a list of URLs to keep free-tier deployments warm.
//
// Probes run on a bounded worker pool so a long URL list does not translate
// into an unbounded burst of outbound connections.
package pinger

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

var (
	defaultNumWorkers uint = 3
	defaultTimeout         = 30 * time.Second
)

// Config is the configuration options for the pinger.
type Config struct {
	// NumWorkers is the number of concurrent probe workers.
	NumWorkers uint

	// Timeout bounds each individual probe.
	Timeout time.Duration

	// Logger is the provided zap logger
	Logger *zap.Logger
}

// Result is the outcome of probing one URL.
type Result struct {
	URL      string
	Status   int
	Duration time.Duration
	Err      error
}

// OK reports whether the probe reached the URL and got a 2xx answer.
func (r Result) OK() bool {
	return r.Err == nil && r.Status >= 200 && r.Status < 300
}

// Pinger probes URLs with a shared resty client.
type Pinger struct {
	config *Config
	client *resty.Client
	logger *zap.Logger
}

// New creates a new Pinger.
func New(c *Config) *Pinger {
	if c.NumWorkers == 0 {
		c.NumWorkers = defaultNumWorkers
	}
	if c.Timeout == 0 {
		c.Timeout = defaultTimeout
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}

	client := resty.New().
		SetTimeout(c.Timeout).
		SetRetryCount(0)

	return &Pinger{
		config: c,
		client: client,
		logger: c.Logger,
	}
}

// Ping probes every URL once and returns one Result per URL, in input order.
// The context cancels probes that have not started yet and aborts in-flight
// ones.
func (p *Pinger) Ping(ctx context.Context, urls []string) []Result {
	results := make([]Result, len(urls))
	jobs := make(chan int)

	var wg sync.WaitGroup
	wg.Add(int(p.config.NumWorkers))
	for i := uint(0); i < p.config.NumWorkers; i++ {
		go func(id uint) {
			defer wg.Done()
			p.logger.Debug("probe worker started", zap.Uint("worker_id", id))
			for idx := range jobs {
				results[idx] = p.probe(ctx, urls[idx])
			}
		}(i)
	}

dispatch:
	for idx := range urls {
		select {
		case jobs <- idx:
		case <-ctx.Done():
			for rest := idx; rest < len(urls); rest++ {
				results[rest] = Result{URL: urls[rest], Err: ctx.Err()}
			}
			break dispatch
		}
	}
	close(jobs)
	wg.Wait()

	return results
}

// probe issues a single GET against the URL.
func (p *Pinger) probe(ctx context.Context, url string) Result {
	start := time.Now()

	resp, err := p.client.R().SetContext(ctx).Get(url)
	result := Result{
		URL:      url,
		Duration: time.Since(start),
	}
	if err != nil {
		result.Err = err
		p.logger.Warn("probe failed",
			zap.String("url", url),
			zap.Error(err),
		)
		return result
	}

	result.Status = resp.StatusCode()
	if !result.OK() {
		result.Err = fmt.Errorf("unexpected status %d", result.Status)
	}

	p.logger.Debug("probe finished",
		zap.String("url", url),
		zap.Int("status", result.Status),
		zap.Duration("duration", result.Duration),
	)

	return result
}

// SuccessCount counts the results that reached their URL with a 2xx answer.
func SuccessCount(results []Result) int {
	n := 0
	for _, r := range results {
		if r.OK() {
			n++
		}
	}
	return n
}
