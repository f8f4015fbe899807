package provider

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"

	"plateau/internal/ratelimit"
	"plateau/pkg/model"
)

// barsClient is the subset of marketdata.Client used here
type barsClient interface {
	GetBars(symbol string, req marketdata.GetBarsRequest) ([]marketdata.Bar, error)
}

// AlpacaProvider implements the Provider interface for Alpaca market data.
// Alpaca has no regular-hours switch; extended-hours bars are returned as is.
type AlpacaProvider struct {
	client    barsClient
	feed      string
	hasKeys   bool
	limiter   *ratelimit.Limiter
	rateLimit int
}

// NewAlpacaProvider creates an Alpaca provider. feed is "iex" or "sip".
func NewAlpacaProvider(apiKey, apiSecret, feed string, perMinute int) *AlpacaProvider {
	client := marketdata.NewClient(marketdata.ClientOpts{
		APIKey:    apiKey,
		APISecret: apiSecret,
	})
	return &AlpacaProvider{
		client:    client,
		feed:      feed,
		hasKeys:   apiKey != "" && apiSecret != "",
		limiter:   ratelimit.NewLimiter("alpaca", perMinute),
		rateLimit: perMinute,
	}
}

// Name returns the provider name
func (p *AlpacaProvider) Name() string {
	return "alpaca"
}

// IsAvailable returns true when API credentials are configured
func (p *AlpacaProvider) IsAvailable() bool {
	return p.hasKeys
}

// RateLimit returns the rate limit per minute
func (p *AlpacaProvider) RateLimit() int {
	return p.rateLimit
}

// GetBars fetches bars for symbol between start and end
func (p *AlpacaProvider) GetBars(ctx context.Context, symbol string, start, end time.Time, interval model.Interval) ([]model.Candle, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req := marketdata.GetBarsRequest{
		TimeFrame: marketdata.NewTimeFrame(interval.Minutes, marketdata.Min),
		Start:     start,
		End:       end,
	}
	if p.feed != "" {
		req.Feed = marketdata.Feed(p.feed)
	}

	// The SDK call takes no context; drop late results after cancellation
	bars, err := p.client.GetBars(symbol, req)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if err != nil {
		return nil, &ProviderError{Provider: p.Name(), Err: fmt.Errorf("get bars: %w", err), Retryable: true}
	}

	candles := make([]model.Candle, 0, len(bars))
	for _, b := range bars {
		candles = append(candles, model.Candle{
			Time:   b.Timestamp.UTC(),
			Open:   b.Open,
			High:   b.High,
			Low:    b.Low,
			Close:  b.Close,
			Volume: int64(b.Volume),
		})
	}

	sort.Slice(candles, func(i, j int) bool {
		return candles[i].Time.Before(candles[j].Time)
	})

	return candles, nil
}
