package analyzer

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"plateau/internal/provider"
	"plateau/pkg/model"
)

// ScreenConfig holds the spike-and-hold thresholds
type ScreenConfig struct {
	PeakPct     float64 // High must exceed open by more than this percent
	BandLowPct  float64 // Low must stay at or above open + this percent
	BandHighPct float64 // High must stay at or below open + this percent
	HoldMinutes int     // Contiguous in-band duration required after the peak
}

// DefaultScreenConfig returns the standard thresholds: >10% spike, then
// two hours inside the 6-8% band.
func DefaultScreenConfig() ScreenConfig {
	return ScreenConfig{
		PeakPct:     10.0,
		BandLowPct:  6.0,
		BandHighPct: 8.0,
		HoldMinutes: 120,
	}
}

// Validate checks the thresholds are usable
func (c ScreenConfig) Validate() error {
	if c.PeakPct <= 0 {
		return fmt.Errorf("peak_pct must be positive, got %g", c.PeakPct)
	}
	if c.BandLowPct > c.BandHighPct {
		return fmt.Errorf("band_low_pct (%g) must not exceed band_high_pct (%g)", c.BandLowPct, c.BandHighPct)
	}
	if c.HoldMinutes < 1 {
		return fmt.Errorf("hold_minutes must be at least 1, got %d", c.HoldMinutes)
	}
	return nil
}

// WindowSize returns how many consecutive bars span holdMinutes, rounded down
func WindowSize(holdMinutes int, interval model.Interval) int {
	if interval.Minutes < 1 {
		return 0
	}
	return holdMinutes / interval.Minutes
}

// FindPeak returns the index of the first bar whose High is more than
// peakPct above open, or -1.
func FindPeak(candles []model.Candle, open, peakPct float64) int {
	for i, pct := range HighPercents(candles, open) {
		if pct > peakPct {
			return i
		}
	}
	return -1
}

// InBand flags the bars fully inside [open*(1+lowPct/100), open*(1+highPct/100)]
func InBand(candles []model.Candle, open, lowPct, highPct float64) []bool {
	lower := open * (1 + lowPct/100)
	upper := open * (1 + highPct/100)

	flags := make([]bool, len(candles))
	for i, c := range candles {
		flags[i] = c.Low >= lower && c.High <= upper
	}
	return flags
}

// RollingCount returns the number of set flags in every full window of size w.
// Result k covers flags[k : k+w]. Partial windows are not reported.
func RollingCount(flags []bool, w int) []int {
	if w < 1 || len(flags) < w {
		return nil
	}

	prefix := make([]int, len(flags)+1)
	for i, f := range flags {
		prefix[i+1] = prefix[i]
		if f {
			prefix[i+1]++
		}
	}

	counts := make([]int, len(flags)-w+1)
	for k := range counts {
		counts[k] = prefix[k+w] - prefix[k]
	}
	return counts
}

// LongestRun returns the length of the longest run of set flags
func LongestRun(flags []bool) int {
	longest, run := 0, 0
	for _, f := range flags {
		if !f {
			run = 0
			continue
		}
		run++
		if run > longest {
			longest = run
		}
	}
	return longest
}

// BarsHook receives the raw bars of every successful fetch
type BarsHook func(symbol string, candles []model.Candle)

// Screener detects a spike followed by a sustained hold in a narrow band
type Screener struct {
	config   ScreenConfig
	provider provider.Provider
	logger   *zap.Logger
	onBars   BarsHook
}

// NewScreener creates a new screener
func NewScreener(cfg ScreenConfig, p provider.Provider, logger *zap.Logger) *Screener {
	return &Screener{
		config:   cfg,
		provider: p,
		logger:   logger,
	}
}

// SetBarsHook sets the function called with the raw fetched bars
func (s *Screener) SetBarsHook(fn BarsHook) {
	s.onBars = fn
}

// Config returns the thresholds in use
func (s *Screener) Config() ScreenConfig {
	return s.config
}

// Match reports whether symbol shows the pattern on date.
// Any failure to evaluate counts as no match.
func (s *Screener) Match(ctx context.Context, symbol string, date time.Time, interval string) bool {
	return s.Screen(ctx, symbol, date, interval).Matched()
}

// Screen fetches symbol's bars for date and evaluates them
func (s *Screener) Screen(ctx context.Context, symbol string, date time.Time, interval string) *model.ScreenResult {
	day := TradingDay(date)
	result := &model.ScreenResult{
		Symbol:   symbol,
		Date:     day,
		Interval: interval,
	}

	iv, err := model.ParseInterval(interval)
	if err != nil || WindowSize(s.config.HoldMinutes, iv) < 1 {
		s.logger.Debug("unsupported interval",
			zap.String("symbol", symbol),
			zap.String("interval", interval))
		result.Outcome = model.OutcomeUnsupportedInterval
		if err != nil {
			result.Err = err.Error()
		}
		return result
	}

	candles, err := s.provider.GetBars(ctx, symbol, day, day.AddDate(0, 0, 1), iv)
	if err != nil {
		s.logger.Warn("error fetching data",
			zap.String("symbol", symbol),
			zap.String("date", day.Format("2006-01-02")),
			zap.Error(err))
		result.Outcome = model.OutcomeProviderError
		result.Err = err.Error()
		return result
	}

	if s.onBars != nil {
		s.onBars(symbol, candles)
	}

	return s.Evaluate(symbol, day, iv, candles)
}

// Evaluate runs the pattern test on already fetched bars. It has no side
// effects and does not modify candles.
func (s *Screener) Evaluate(symbol string, date time.Time, interval model.Interval, candles []model.Candle) *model.ScreenResult {
	window := WindowSize(s.config.HoldMinutes, interval)
	result := &model.ScreenResult{
		Symbol:     symbol,
		Date:       TradingDay(date),
		Interval:   interval.String(),
		WindowSize: window,
	}
	defer func() {
		s.logger.Debug("screened",
			zap.String("symbol", symbol),
			zap.String("outcome", string(result.Outcome)),
			zap.Int("longest_run", result.LongestRun),
			zap.Int("window", window))
	}()

	if window < 1 {
		result.Outcome = model.OutcomeUnsupportedInterval
		return result
	}

	if len(candles) == 0 {
		result.Outcome = model.OutcomeNoData
		return result
	}

	session := SessionBars(candles)
	result.SessionBars = len(session)
	if len(session) == 0 || session[0].Open <= 0 {
		result.Outcome = model.OutcomeNoSession
		return result
	}

	open := session[0].Open
	result.Open = open

	peak := FindPeak(session, open, s.config.PeakPct)
	if peak < 0 {
		result.Outcome = model.OutcomeNoPeak
		return result
	}
	result.PeakTime = session[peak].Time
	result.PeakPct = PercentFromOpen(session[peak].High, open)

	postPeak := session[peak:]
	result.PostPeakBars = len(postPeak)
	if len(postPeak) < window {
		result.Outcome = model.OutcomeInsufficientWindow
		return result
	}

	inBand := InBand(postPeak, open, s.config.BandLowPct, s.config.BandHighPct)
	result.LongestRun = LongestRun(inBand)

	for k, count := range RollingCount(inBand, window) {
		if count == window {
			result.Outcome = model.OutcomeMatched
			result.HoldStart = postPeak[k].Time
			return result
		}
	}

	result.Outcome = model.OutcomeNotContained
	return result
}
