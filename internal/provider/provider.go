package provider

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"plateau/pkg/model"
)

// Provider defines the interface for market data providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// GetBars fetches bars for symbol in [start, end), excluding pre/post
	// market data where the source can filter it. A valid but empty result is
	// an empty slice and a nil error.
	GetBars(ctx context.Context, symbol string, start, end time.Time, interval model.Interval) ([]model.Candle, error)

	// IsAvailable checks if the provider can be used (e.g. has credentials)
	IsAvailable() bool

	// RateLimit returns the rate limit per minute
	RateLimit() int
}

// ProviderError represents a provider-specific error
type ProviderError struct {
	Provider  string
	Err       error
	Retryable bool
}

func (e *ProviderError) Error() string {
	return e.Provider + ": " + e.Err.Error()
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// ErrNoProviders is returned by a FallbackProvider with nothing to try
var ErrNoProviders = errors.New("no available data providers")

// FallbackProvider tries multiple providers in order
type FallbackProvider struct {
	providers []Provider
	logger    *zap.Logger
}

// NewFallbackProvider keeps only the available providers, in order
func NewFallbackProvider(logger *zap.Logger, providers ...Provider) *FallbackProvider {
	available := make([]Provider, 0, len(providers))
	for _, p := range providers {
		if p.IsAvailable() {
			available = append(available, p)
		}
	}
	return &FallbackProvider{providers: available, logger: logger}
}

// Name returns the combined provider name
func (f *FallbackProvider) Name() string {
	return "fallback"
}

// GetBars tries each provider in order until one succeeds
func (f *FallbackProvider) GetBars(ctx context.Context, symbol string, start, end time.Time, interval model.Interval) ([]model.Candle, error) {
	if len(f.providers) == 0 {
		return nil, ErrNoProviders
	}

	var errs []error
	for _, p := range f.providers {
		bars, err := p.GetBars(ctx, symbol, start, end, interval)
		if err == nil {
			return bars, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		f.logger.Debug("provider failed, trying next",
			zap.String("provider", p.Name()),
			zap.String("symbol", symbol),
			zap.Error(err))
		errs = append(errs, err)
	}
	return nil, fmt.Errorf("all providers failed: %w", errors.Join(errs...))
}

// IsAvailable returns true if any provider is available
func (f *FallbackProvider) IsAvailable() bool {
	return len(f.providers) > 0
}

// RateLimit returns the highest rate limit among providers
func (f *FallbackProvider) RateLimit() int {
	maxRate := 0
	for _, p := range f.providers {
		if p.RateLimit() > maxRate {
			maxRate = p.RateLimit()
		}
	}
	return maxRate
}

// Providers returns the list of underlying providers
func (f *FallbackProvider) Providers() []Provider {
	return f.providers
}
