package provider

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"

	"plateau/internal/ratelimit"
	"plateau/pkg/model"
)

type fakeBarsClient struct {
	bars   []marketdata.Bar
	err    error
	gotSym string
	gotReq marketdata.GetBarsRequest
	calls  int
	during func() // runs inside the call when set
}

func (f *fakeBarsClient) GetBars(symbol string, req marketdata.GetBarsRequest) ([]marketdata.Bar, error) {
	f.calls++
	f.gotSym = symbol
	f.gotReq = req
	if f.during != nil {
		f.during()
	}
	return f.bars, f.err
}

func newTestAlpaca(client barsClient) *AlpacaProvider {
	return &AlpacaProvider{
		client:    client,
		feed:      "iex",
		hasKeys:   true,
		limiter:   ratelimit.NewLimiter("alpaca", 6000),
		rateLimit: 6000,
	}
}

func TestAlpacaGetBars(t *testing.T) {
	start, end := testRange()
	t1 := time.Date(2024, 1, 15, 14, 35, 0, 0, time.UTC)
	t0 := time.Date(2024, 1, 15, 14, 30, 0, 0, time.UTC)

	fake := &fakeBarsClient{bars: []marketdata.Bar{
		{Timestamp: t1, Open: 101, High: 102, Low: 100, Close: 101.5, Volume: 2000},
		{Timestamp: t0, Open: 100, High: 101, Low: 99, Close: 100.5, Volume: 1000},
	}}
	p := newTestAlpaca(fake)

	bars, err := p.GetBars(context.Background(), "AAPL", start, end, model.Interval{Minutes: 5})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if fake.gotSym != "AAPL" {
		t.Errorf("Expected symbol AAPL, got %s", fake.gotSym)
	}
	if fake.gotReq.TimeFrame != marketdata.NewTimeFrame(5, marketdata.Min) {
		t.Errorf("Unexpected timeframe: %v", fake.gotReq.TimeFrame)
	}
	if !fake.gotReq.Start.Equal(start) || !fake.gotReq.End.Equal(end) {
		t.Errorf("Unexpected range: %s..%s", fake.gotReq.Start, fake.gotReq.End)
	}
	if string(fake.gotReq.Feed) != "iex" {
		t.Errorf("Expected feed iex, got %s", fake.gotReq.Feed)
	}

	if len(bars) != 2 {
		t.Fatalf("Expected 2 bars, got %d", len(bars))
	}
	if !bars[0].Time.Equal(t0) || bars[0].Volume != 1000 {
		t.Errorf("Expected bars sorted with first at %s, got %+v", t0, bars[0])
	}
}

func TestAlpacaError(t *testing.T) {
	start, end := testRange()
	p := newTestAlpaca(&fakeBarsClient{err: errors.New("forbidden")})

	_, err := p.GetBars(context.Background(), "AAPL", start, end, model.Interval{Minutes: 5})

	var pe *ProviderError
	if !errors.As(err, &pe) {
		t.Fatalf("Expected *ProviderError, got %v", err)
	}
	if pe.Provider != "alpaca" {
		t.Errorf("Expected provider alpaca, got %s", pe.Provider)
	}
}

func TestAlpacaCancelledDuringRequest(t *testing.T) {
	start, end := testRange()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fake := &fakeBarsClient{
		bars:   []marketdata.Bar{{Timestamp: start.Add(10 * time.Hour), Open: 100, High: 101, Low: 99, Close: 100}},
		during: cancel,
	}
	p := newTestAlpaca(fake)

	candles, err := p.GetBars(ctx, "AAPL", start, end, model.Interval{Minutes: 5})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if candles != nil {
		t.Errorf("Expected no bars after cancellation, got %d", len(candles))
	}
	if fake.calls != 1 {
		t.Errorf("Expected one SDK call, got %d", fake.calls)
	}
}

func TestAlpacaAvailability(t *testing.T) {
	if NewAlpacaProvider("", "", "iex", 200).IsAvailable() {
		t.Error("Provider without keys should not be available")
	}
	if !NewAlpacaProvider("key", "secret", "iex", 200).IsAvailable() {
		t.Error("Provider with keys should be available")
	}
}
