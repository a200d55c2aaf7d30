package circadia

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	Cp "github.com/maroda/circadia/plugin"
	Ct "github.com/maroda/circadia/types"
)

const (
	webTimeout      = 10 * time.Second
	webRetries      = 2
	webRetryWait    = 500 * time.Millisecond
	webRetryMaxWait = 2 * time.Second
)

var ErrEmptySource = errors.New("no data source configured")

// Loader fetches the two activity recordings.
// Locations starting with http:// or https:// go over the network,
// anything else is read from local disk.
type Loader struct {
	client    *resty.Client
	extractor *Cp.ActivityKeyPlugin
}

// NewLoader uses a shared client:
// - to reuse existing endpoint connections
// - to retry transient failures before giving up
func NewLoader(activityKey string) *Loader {
	client := resty.New()
	client.SetTimeout(webTimeout)
	client.SetRetryCount(webRetries)
	client.SetRetryWaitTime(webRetryWait)
	client.SetRetryMaxWaitTime(webRetryMaxWait)
	return NewLoaderWithClient(client, activityKey)
}

// NewLoaderWithClient is testable with dependency injection
func NewLoaderWithClient(c *resty.Client, activityKey string) *Loader {
	return &Loader{
		client:    c,
		extractor: Cp.NewActivityExtractor(activityKey),
	}
}

// Fetch returns the raw body at location
func (l *Loader) Fetch(ctx context.Context, location string) ([]byte, error) {
	if location == "" {
		return nil, ErrEmptySource
	}

	if !isRemote(location) {
		body, err := os.ReadFile(location)
		if err != nil {
			slog.Error("Read Error", slog.String("path", location), slog.Any("Error", err))
			return nil, err
		}
		return body, nil
	}

	resp, err := l.client.R().SetContext(ctx).Get(location)
	if err != nil {
		slog.Error("Fetch Error", slog.String("url", location), slog.Any("Error", err))
		return nil, err
	}
	if resp.IsError() {
		slog.Error("Fetch Status", slog.String("url", location), slog.Int("status", resp.StatusCode()))
		return nil, fmt.Errorf("fetch %s: status %d", location, resp.StatusCode())
	}

	return resp.Body(), nil
}

// LoadSeries fetches one recording and extracts its activity values
func (l *Loader) LoadSeries(ctx context.Context, location string) ([]float64, error) {
	body, err := l.Fetch(ctx, location)
	if err != nil {
		return nil, err
	}
	values, err := l.extractor.Extract(body)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", location, err)
	}
	return values, nil
}

type loadResult struct {
	series Ct.Series
	values []float64
	err    error
}

// LoadStore fetches both recordings at the same time and joins them.
// If either one fails nothing is returned: there is no partial chart.
func (l *Loader) LoadStore(ctx context.Context, estrusSrc, nonEstrusSrc string, sampleRate int) (*SeriesStore, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sources := map[Ct.Series]string{
		Ct.Estrus:    estrusSrc,
		Ct.NonEstrus: nonEstrusSrc,
	}

	results := make(chan loadResult, len(sources))
	for s, loc := range sources {
		go func(s Ct.Series, loc string) {
			values, err := l.LoadSeries(ctx, loc)
			results <- loadResult{series: s, values: values, err: err}
		}(s, loc)
	}

	loaded := make(map[Ct.Series][]float64, len(sources))
	for range sources {
		res := <-results
		if res.err != nil {
			// the other fetch is abandoned, its goroutine drains into the buffer
			cancel()
			return nil, fmt.Errorf("%s data load failed: %w", res.series, res.err)
		}
		loaded[res.series] = res.values
	}

	slog.Info("Activity data loaded",
		slog.Int("estrus", len(loaded[Ct.Estrus])),
		slog.Int("nonEstrus", len(loaded[Ct.NonEstrus])))

	return NewSeriesStore(loaded[Ct.Estrus], loaded[Ct.NonEstrus], sampleRate), nil
}

// LoadChart is LoadStore followed by building the chart for a layout
func (l *Loader) LoadChart(ctx context.Context, cfg *Config) (*Chart, error) {
	store, err := l.LoadStore(ctx, cfg.EstrusSource, cfg.NonEstrusSource, cfg.SampleRate)
	if err != nil {
		return nil, err
	}
	return NewChart(store, cfg.Layout()), nil
}

func isRemote(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}
