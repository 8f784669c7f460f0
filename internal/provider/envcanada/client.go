// Package envcanada provides a client for the Environment Canada historical
// climate bulk-data endpoint.
package envcanada

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/orchardscore/orchardscore/internal/provider/resilience"
	"github.com/orchardscore/orchardscore/internal/station"
)

const (
	// DefaultBaseURL is the base URL of the climate data website.
	DefaultBaseURL = "https://climate.weather.gc.ca"

	// ProviderName identifies this provider.
	ProviderName = "envcanada"
)

// TextFetcher abstracts the HTTP text fetch, implemented by resilience.Client.
type TextFetcher interface {
	FetchText(ctx context.Context, url string) (string, error)
}

// ClientConfig holds configuration for the bulk-data client.
type ClientConfig struct {
	// BaseURL is the provider base URL (defaults to DefaultBaseURL).
	BaseURL string

	// Fetcher executes the HTTP requests. If nil, a default resilient
	// client is created.
	Fetcher TextFetcher

	// Timeout for individual requests (default: 30s).
	Timeout time.Duration
}

// Client downloads raw comma-separated climate records for a station.
type Client struct {
	baseURL string
	fetcher TextFetcher
}

// NewClient creates a new bulk-data client.
func NewClient(cfg ClientConfig) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	fetcher := cfg.Fetcher
	if fetcher == nil {
		fetcher = resilience.NewClient(resilience.ClientConfig{
			Name:    ProviderName,
			Timeout: cfg.Timeout,
		})
	}

	return &Client{
		baseURL: baseURL,
		fetcher: fetcher,
	}
}

// FetchRawRecords downloads the provider-formatted CSV payload for one
// station, year, month, and interval. The month parameter is meaningful for
// hourly data only; the provider returns the whole year for daily requests
// regardless of month. Errors are returned as-is for the caller to degrade
// to a failure year; they are never fatal to a batch.
func (c *Client) FetchRawRecords(ctx context.Context, stationID string, year, month int, interval station.Interval) (string, error) {
	text, err := c.fetcher.FetchText(ctx, c.bulkDataURL(stationID, year, month, interval))
	if err != nil {
		return "", fmt.Errorf("fetch %s records for station %s year %d: %w", interval, stationID, year, err)
	}
	return text, nil
}

func (c *Client) bulkDataURL(stationID string, year, month int, interval station.Interval) string {
	q := url.Values{}
	q.Set("format", "csv")
	q.Set("stationID", stationID)
	q.Set("Year", strconv.Itoa(year))
	q.Set("Month", strconv.Itoa(month))
	q.Set("Day", "1")
	q.Set("timeframe", strconv.Itoa(interval.TimeframeCode()))
	q.Set("submit", "Download Data")
	return c.baseURL + "/climateData/bulkdata_e.html?" + q.Encode()
}
