package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"plateau/internal/analyzer"
	"plateau/internal/config"
	"plateau/internal/logging"
	"plateau/internal/provider"
	"plateau/internal/report"
	"plateau/internal/scanner"
	"plateau/internal/symbols"
	"plateau/pkg/model"
)

var (
	cfgFile      string
	symbolList   string
	universe     string
	dateStr      string
	interval     string
	providerName string
	format       string
	showBars     bool
	details      bool
	showProgress bool
	logLevel     string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "plateau",
		Short: "Intraday spike-and-hold screener",
		Long: `Plateau screens US stocks for one trading day and reports those whose
price spiked more than 10% above the open and then held inside the
6-8% band for at least two hours.

Examples:
  plateau
  plateau --date 2024-01-15 --symbols AAPL,TSLA
  plateau --universe nasdaq100 --show-bars=false --details --progress`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}

	// Flags
	rootCmd.Flags().StringVar(&cfgFile, "config", "config.yaml", "config file path")
	rootCmd.Flags().StringVar(&symbolList, "symbols", "", "comma-separated list of symbols to screen (overrides --universe)")
	rootCmd.Flags().StringVar(&universe, "universe", "", "watch-list: "+strings.Join(symbols.Universes(), ", "))
	rootCmd.Flags().StringVar(&dateStr, "date", "", "trading date YYYY-MM-DD (default: yesterday)")
	rootCmd.Flags().StringVar(&interval, "interval", "", "bar interval, e.g. 1m, 5m, 15m")
	rootCmd.Flags().StringVar(&providerName, "provider", "", "data provider: yahoo, alpaca, auto")
	rootCmd.Flags().StringVar(&format, "format", "table", "output format: table, json")
	rootCmd.Flags().BoolVar(&showBars, "show-bars", true, "print the raw fetched bars of every symbol")
	rootCmd.Flags().BoolVar(&details, "details", false, "print the per-symbol outcome table")
	rootCmd.Flags().BoolVar(&showProgress, "progress", false, "show a progress bar on stderr")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	// Load configuration
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Override config with CLI flags
	if cmd.Flags().Changed("interval") {
		cfg.Screen.Interval = interval
	}
	if cmd.Flags().Changed("provider") {
		cfg.API.Provider = providerName
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if cmd.Flags().Changed("universe") {
		cfg.Scanner.Universe = universe
	}
	if syms := symbols.ParseList(symbolList); len(syms) > 0 {
		cfg.Scanner.Symbols = syms
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if format != "table" && format != "json" {
		return fmt.Errorf("unknown format %q (table, json)", format)
	}

	date, err := resolveDate(dateStr, time.Now())
	if err != nil {
		return err
	}

	// Keep stdout clean for JSON output
	logOutput := "stdout"
	if format == "json" {
		logOutput = "stderr"
	}
	logger, err := logging.New(cfg.LogLevel, logOutput)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer logger.Sync()

	stocks, err := symbols.Load(cfg.Scanner.Symbols, cfg.Scanner.Universe)
	if err != nil {
		return fmt.Errorf("loading symbols: %w", err)
	}

	dataProvider, err := createProvider(cfg, logger)
	if err != nil {
		return err
	}
	logger.Debug("using providers", zap.Strings("providers", providerNames(dataProvider)))

	// Setup context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			logger.Info("interrupted, stopping scan")
			cancel()
		case <-ctx.Done():
		}
	}()

	out := cmd.OutOrStdout()
	tableOutput := format == "table"

	screener := analyzer.NewScreener(cfg.ScreenThresholds(), dataProvider, logger)
	if tableOutput && showBars {
		screener.SetBarsHook(func(symbol string, candles []model.Candle) {
			if err := report.PrintBars(out, symbol, candles); err != nil {
				logger.Warn("error printing bars", zap.String("symbol", symbol), zap.Error(err))
			}
		})
	}

	s := scanner.NewScanner(screener, dataProvider.Name(), logger)

	var bar *progressbar.ProgressBar
	if showProgress {
		bar = newProgressBar(os.Stderr, len(stocks))
		s.SetProgressCallback(func(scanned, total int) {
			bar.Set(scanned)
		})
	}

	if tableOutput {
		report.PrintHeader(out, date)
	}
	preflight(cfg, date, logger)

	result, err := s.Scan(ctx, stocks, date, cfg.Screen.Interval)
	if bar != nil {
		bar.Finish()
		fmt.Fprintln(os.Stderr)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("scanning: %w", err)
	}

	// Output results
	if !tableOutput {
		return report.JSON(out, result)
	}
	if details {
		if err := report.PrintResults(out, result); err != nil {
			return fmt.Errorf("printing results: %w", err)
		}
	}
	report.PrintSummary(out, result)
	return nil
}

// resolveDate parses a YYYY-MM-DD date, defaulting to the day before now
func resolveDate(s string, now time.Time) (time.Time, error) {
	if s == "" {
		return scanner.Yesterday(now), nil
	}
	date, err := time.ParseInLocation("2006-01-02", s, now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --date %q (want YYYY-MM-DD): %w", s, err)
	}
	return date, nil
}

// preflight warns about runs that cannot produce a match. Neither case is
// fatal: every symbol is still screened and reported.
func preflight(cfg *config.Config, date time.Time, logger *zap.Logger) {
	if _, err := cfg.Interval(); err != nil {
		logger.Warn("interval not supported, no symbol can match", zap.Error(err))
	}
	if !analyzer.IsTradingDay(date) {
		logger.Warn("market closed on target date, expect no data",
			zap.String("date", date.Format("2006-01-02")),
			zap.String("reason", analyzer.ClosedReason(date)))
	}
}

// providerNames lists the sources behind p in the order they are tried
func providerNames(p provider.Provider) []string {
	fb, ok := p.(*provider.FallbackProvider)
	if !ok {
		return []string{p.Name()}
	}
	names := make([]string, 0, len(fb.Providers()))
	for _, inner := range fb.Providers() {
		names = append(names, inner.Name())
	}
	return names
}

// createProvider builds the configured market data source
func createProvider(cfg *config.Config, logger *zap.Logger) (provider.Provider, error) {
	var providers []provider.Provider

	yahoo := provider.NewYahooProvider(cfg.API.Yahoo.BaseURL, cfg.API.Yahoo.RateLimit, cfg.API.Yahoo.Timeout)
	alpaca := provider.NewAlpacaProvider(cfg.API.Alpaca.Key, cfg.API.Alpaca.Secret, cfg.API.Alpaca.Feed, cfg.API.Alpaca.RateLimit)

	switch strings.ToLower(cfg.API.Provider) {
	case "yahoo":
		return yahoo, nil
	case "alpaca":
		if !alpaca.IsAvailable() {
			return nil, fmt.Errorf("alpaca provider requires ALPACA_API_KEY and ALPACA_SECRET_KEY")
		}
		return alpaca, nil
	case "auto":
		// Alpaca (primary when keys are set)
		if alpaca.IsAvailable() {
			providers = append(providers, alpaca)
		}
		// Yahoo Finance (fallback - always available)
		providers = append(providers, yahoo)
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.API.Provider)
	}

	fallback := provider.NewFallbackProvider(logger, providers...)
	if !fallback.IsAvailable() {
		return nil, provider.ErrNoProviders
	}
	return fallback, nil
}

func newProgressBar(w io.Writer, total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("Screening"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]█[reset]",
			SaucerHead:    "[green]█[reset]",
			SaucerPadding: "░",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}
