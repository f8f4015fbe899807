package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Candle represents a single intraday bar (OHLCV data)
type Candle struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// Stock represents basic stock information
type Stock struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Exchange string `json:"exchange"` // NYSE, NASDAQ
}

// Interval is a bar granularity such as "5m".
type Interval struct {
	Minutes int
}

// ParseInterval parses "<n>m". Hourly, daily and other units are rejected.
func ParseInterval(s string) (Interval, error) {
	s = strings.TrimSpace(s)
	if !strings.HasSuffix(s, "m") {
		return Interval{}, fmt.Errorf("unsupported interval %q: only minute intervals are supported", s)
	}
	n, err := strconv.Atoi(strings.TrimSuffix(s, "m"))
	if err != nil {
		return Interval{}, fmt.Errorf("invalid interval %q: %w", s, err)
	}
	if n < 1 {
		return Interval{}, fmt.Errorf("invalid interval %q: minutes must be positive", s)
	}
	return Interval{Minutes: n}, nil
}

// String returns the provider notation, e.g. "5m"
func (i Interval) String() string {
	return fmt.Sprintf("%dm", i.Minutes)
}

// Outcome tags why a screen did or did not match
type Outcome string

const (
	OutcomeMatched             Outcome = "matched"
	OutcomeNoData              Outcome = "no_data"
	OutcomeNoSession           Outcome = "no_session"
	OutcomeNoPeak              Outcome = "no_peak"
	OutcomeInsufficientWindow  Outcome = "insufficient_window"
	OutcomeNotContained        Outcome = "not_contained"
	OutcomeUnsupportedInterval Outcome = "unsupported_interval"
	OutcomeProviderError       Outcome = "provider_error"
)

// Evaluated reports whether the data was good enough to look for the pattern.
// False means the screen could not be run, not that the pattern is absent.
func (o Outcome) Evaluated() bool {
	switch o {
	case OutcomeUnsupportedInterval, OutcomeProviderError, OutcomeNoData, OutcomeNoSession:
		return false
	}
	return true
}

// ScreenResult is the outcome of screening one symbol on one day
type ScreenResult struct {
	Symbol       string    `json:"symbol"`
	Date         time.Time `json:"date"`
	Interval     string    `json:"interval"`
	Outcome      Outcome   `json:"outcome"`
	WindowSize   int       `json:"window_size,omitempty"`
	SessionBars  int       `json:"session_bars,omitempty"`
	Open         float64   `json:"open,omitempty"`
	PeakTime     time.Time `json:"peak_time,omitzero"`
	PeakPct      float64   `json:"peak_pct,omitempty"` // High of the peak bar vs open
	PostPeakBars int       `json:"post_peak_bars,omitempty"`
	LongestRun   int       `json:"longest_run,omitempty"` // longest contiguous in-band run after the peak
	HoldStart    time.Time `json:"hold_start,omitzero"`  // first bar of the first fully contained window
	Err          string    `json:"error,omitempty"`
}

// Matched reports whether the spike-and-hold pattern was found
func (r *ScreenResult) Matched() bool {
	return r != nil && r.Outcome == OutcomeMatched
}

// ScanResult represents the final scan output
type ScanResult struct {
	RunID        string          `json:"run_id"`
	Date         time.Time       `json:"date"`
	Interval     string          `json:"interval"`
	Provider     string          `json:"provider"`
	TotalScanned int             `json:"total_scanned"`
	Results      []*ScreenResult `json:"results"`
	Matches      []string        `json:"matches"`
	ScanTime     time.Duration   `json:"scan_time"`
}
