package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"plateau/internal/ratelimit"
	"plateau/pkg/model"
)

const (
	yahooBaseURL   = "https://query1.finance.yahoo.com/v8/finance/chart"
	yahooUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
)

// YahooProvider implements the Provider interface for Yahoo Finance (unofficial API)
type YahooProvider struct {
	client    *http.Client
	baseURL   string
	limiter   *ratelimit.Limiter
	rateLimit int
}

// NewYahooProvider creates a Yahoo Finance provider allowing perMinute requests.
// An empty baseURL selects the public chart endpoint.
func NewYahooProvider(baseURL string, perMinute int, timeout time.Duration) *YahooProvider {
	if baseURL == "" {
		baseURL = yahooBaseURL
	}
	return &YahooProvider{
		client:    &http.Client{Timeout: timeout},
		baseURL:   strings.TrimRight(baseURL, "/"),
		limiter:   ratelimit.NewLimiter("yahoo", perMinute),
		rateLimit: perMinute,
	}
}

// Name returns the provider name
func (p *YahooProvider) Name() string {
	return "yahoo"
}

// IsAvailable always returns true (no API key needed)
func (p *YahooProvider) IsAvailable() bool {
	return true
}

// RateLimit returns the rate limit per minute
func (p *YahooProvider) RateLimit() int {
	return p.rateLimit
}

// yahooResponse represents the Yahoo Finance chart response.
// Quote arrays carry null for minutes without trades.
type yahooResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*int64   `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// GetBars fetches regular-hours bars for symbol between start and end
func (p *YahooProvider) GetBars(ctx context.Context, symbol string, start, end time.Time, interval model.Interval) ([]model.Candle, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("period1", fmt.Sprintf("%d", start.Unix()))
	q.Set("period2", fmt.Sprintf("%d", end.Unix()))
	q.Set("interval", interval.String())
	q.Set("includePrePost", "false")
	reqURL := fmt.Sprintf("%s/%s?%s", p.baseURL, url.PathEscape(symbol), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", yahooUserAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, &ProviderError{Provider: p.Name(), Err: err, Retryable: true}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		p.limiter.SignalRateLimited()
		return nil, &ProviderError{Provider: p.Name(), Err: fmt.Errorf("rate limited"), Retryable: true}
	}

	var data yahooResponse
	decodeErr := json.NewDecoder(resp.Body).Decode(&data)

	// Yahoo answers 404 with a chart.error body for unknown symbols and
	// for ranges with no trading ("No data found").
	if decodeErr == nil && data.Chart.Error != nil {
		if isYahooNoData(data.Chart.Error.Description) {
			p.limiter.ResetBackoff()
			return []model.Candle{}, nil
		}
		return nil, &ProviderError{Provider: p.Name(), Err: fmt.Errorf("%s: %s", data.Chart.Error.Code, data.Chart.Error.Description), Retryable: false}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &ProviderError{Provider: p.Name(), Err: fmt.Errorf("status %d", resp.StatusCode), Retryable: resp.StatusCode >= 500}
	}
	if decodeErr != nil {
		return nil, &ProviderError{Provider: p.Name(), Err: fmt.Errorf("decoding response: %w", decodeErr), Retryable: false}
	}

	p.limiter.ResetBackoff()

	if len(data.Chart.Result) == 0 {
		return []model.Candle{}, nil
	}

	result := data.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return []model.Candle{}, nil
	}
	quotes := result.Indicators.Quote[0]

	candles := make([]model.Candle, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		open, high, low, cls := at(quotes.Open, i), at(quotes.High, i), at(quotes.Low, i), at(quotes.Close, i)
		if open == nil || high == nil || low == nil || cls == nil {
			continue
		}

		var volume int64
		if v := at(quotes.Volume, i); v != nil {
			volume = *v
		}

		candles = append(candles, model.Candle{
			Time:   time.Unix(ts, 0).UTC(),
			Open:   *open,
			High:   *high,
			Low:    *low,
			Close:  *cls,
			Volume: volume,
		})
	}

	sort.Slice(candles, func(i, j int) bool {
		return candles[i].Time.Before(candles[j].Time)
	})

	return candles, nil
}

func at[T any](values []*T, i int) *T {
	if i >= len(values) {
		return nil
	}
	return values[i]
}

func isYahooNoData(description string) bool {
	return strings.Contains(strings.ToLower(description), "no data found")
}
