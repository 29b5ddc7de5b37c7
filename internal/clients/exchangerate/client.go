// Package exchangerate is the rate-lookup collaborator: latest rate for a
// currency pair and a short daily history series, fetched from public rate
// providers.
package exchangerate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/forexadvisor/forexadvisor/internal/domain"
)

const (
	defaultBaseURL    = "https://api.exchangerate-api.com/v4"
	defaultHistoryURL = "https://api.frankfurter.app"
)

// Client fetches currency rates over HTTP
type Client struct {
	baseURL    string
	historyURL string
	client     *http.Client
	now        func() time.Time
	log        zerolog.Logger
}

// NewClient creates a rate client. Empty URLs fall back to the public
// providers.
func NewClient(baseURL, historyURL string, log zerolog.Logger) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if historyURL == "" {
		historyURL = defaultHistoryURL
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		historyURL: strings.TrimRight(historyURL, "/"),
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		now: time.Now,
		log: log.With().Str("client", "exchangerate").Logger(),
	}
}

// GetRate returns the latest rate for base -> target
func (c *Client) GetRate(ctx context.Context, base, target string) (float64, error) {
	base = strings.ToUpper(strings.TrimSpace(base))
	target = strings.ToUpper(strings.TrimSpace(target))

	url := fmt.Sprintf("%s/latest/%s", c.baseURL, base)

	var payload latestResponse
	if err := c.getJSON(ctx, url, &payload); err != nil {
		return 0, err
	}

	rate, ok := payload.Rates[target]
	if !ok {
		return 0, &NetworkError{URL: url, Err: fmt.Errorf("no rate for %s", target)}
	}

	c.log.Debug().
		Str("pair", base+"/"+target).
		Float64("rate", rate).
		Msg("Rate fetched")
	return rate, nil
}

// GetHistory returns a daily {date, rate} series for base -> target covering
// the last `days` days, oldest first
func (c *Client) GetHistory(ctx context.Context, base, target string, days int) ([]domain.RatePoint, error) {
	base = strings.ToUpper(strings.TrimSpace(base))
	target = strings.ToUpper(strings.TrimSpace(target))
	if days <= 0 {
		days = 7
	}

	end := c.now().UTC()
	start := end.AddDate(0, 0, -days)
	url := fmt.Sprintf("%s/%s..%s?from=%s&to=%s",
		c.historyURL,
		start.Format("2006-01-02"), end.Format("2006-01-02"),
		base, target,
	)

	var payload seriesResponse
	if err := c.getJSON(ctx, url, &payload); err != nil {
		return nil, err
	}

	points := make([]domain.RatePoint, 0, len(payload.Rates))
	for date, rates := range payload.Rates {
		rate, ok := rates[target]
		if !ok {
			continue
		}
		points = append(points, domain.RatePoint{Date: date, Rate: rate})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date < points[j].Date })

	c.log.Debug().
		Str("pair", base+"/"+target).
		Int("points", len(points)).
		Msg("History fetched")
	return points, nil
}

func (c *Client) getJSON(ctx context.Context, url string, v interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return &NetworkError{URL: url, Err: err}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return &NetworkError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &NetworkError{URL: url, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return &NetworkError{URL: url, Err: err}
	}
	return nil
}
