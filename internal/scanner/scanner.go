package scanner

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"plateau/internal/analyzer"
	"plateau/pkg/model"
)

// ProgressCallback is called with progress updates
type ProgressCallback func(scanned, total int)

// Scanner screens a watch-list one symbol at a time
type Scanner struct {
	screener     *analyzer.Screener
	providerName string
	logger       *zap.Logger
	progressFunc ProgressCallback
}

// NewScanner creates a new scanner
func NewScanner(screener *analyzer.Screener, providerName string, logger *zap.Logger) *Scanner {
	return &Scanner{
		screener:     screener,
		providerName: providerName,
		logger:       logger,
	}
}

// SetProgressCallback sets the progress callback function
func (s *Scanner) SetProgressCallback(fn ProgressCallback) {
	s.progressFunc = fn
}

// Scan screens every stock for date. A failing symbol never stops the scan;
// only ctx cancellation does, in which case the partial result is returned
// together with ctx's error.
func (s *Scanner) Scan(ctx context.Context, stocks []model.Stock, date time.Time, interval string) (*model.ScanResult, error) {
	startTime := time.Now()

	result := &model.ScanResult{
		RunID:    uuid.NewString(),
		Date:     analyzer.TradingDay(date),
		Interval: interval,
		Provider: s.providerName,
		Results:  make([]*model.ScreenResult, 0, len(stocks)),
		Matches:  []string{},
	}

	logger := s.logger.With(zap.String("run_id", result.RunID))
	cfg := s.screener.Config()
	logger.Debug("scan started",
		zap.Int("symbols", len(stocks)),
		zap.String("date", result.Date.Format("2006-01-02")),
		zap.String("interval", interval),
		zap.Float64("peak_pct", cfg.PeakPct),
		zap.Float64("band_low_pct", cfg.BandLowPct),
		zap.Float64("band_high_pct", cfg.BandHighPct),
		zap.Int("hold_minutes", cfg.HoldMinutes))

	var scanErr error
	for i, stock := range stocks {
		if err := ctx.Err(); err != nil {
			logger.Info("scan interrupted", zap.Int("scanned", i), zap.Int("total", len(stocks)))
			scanErr = err
			break
		}

		r := s.screener.Screen(ctx, stock.Symbol, date, interval)
		result.Results = append(result.Results, r)
		if r.Matched() {
			result.Matches = append(result.Matches, stock.Symbol)
		}

		if s.progressFunc != nil {
			s.progressFunc(i+1, len(stocks))
		}
	}

	result.TotalScanned = len(result.Results)
	result.ScanTime = time.Since(startTime)

	logger.Debug("scan finished",
		zap.Int("scanned", result.TotalScanned),
		zap.Int("matches", len(result.Matches)),
		zap.Duration("elapsed", result.ScanTime))

	return result, scanErr
}

// Yesterday returns the previous calendar day in the local time zone
func Yesterday(now time.Time) time.Time {
	y := now.AddDate(0, 0, -1)
	return time.Date(y.Year(), y.Month(), y.Day(), 0, 0, 0, 0, now.Location())
}
