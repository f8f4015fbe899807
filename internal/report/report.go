package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/tidwall/pretty"

	"plateau/internal/analyzer"
	"plateau/pkg/model"
)

const dateLayout = "2006-01-02"

// PrintHeader writes the run header naming the target date
func PrintHeader(w io.Writer, date time.Time) {
	fmt.Fprintf(w, "Checking stocks for %s\n", date.Format(dateLayout))
}

// PrintBars writes the raw fetched bars of one symbol as a table.
// Times are shown in ET.
func PrintBars(w io.Writer, symbol string, candles []model.Candle) error {
	fmt.Fprintf(w, "\n%s: %d bars\n", symbol, len(candles))
	if len(candles) == 0 {
		return nil
	}

	loc := analyzer.GetETLocation()
	table := tablewriter.NewTable(w,
		tablewriter.WithHeader([]string{"Time", "Open", "High", "Low", "Close", "Volume"}),
	)
	for _, c := range candles {
		if err := table.Append([]string{
			c.Time.In(loc).Format("2006-01-02 15:04"),
			fmt.Sprintf("%.2f", c.Open),
			fmt.Sprintf("%.2f", c.High),
			fmt.Sprintf("%.2f", c.Low),
			fmt.Sprintf("%.2f", c.Close),
			fmt.Sprintf("%d", c.Volume),
		}); err != nil {
			return err
		}
	}
	return table.Render()
}

// PrintResults writes one row per screened symbol with its outcome
func PrintResults(w io.Writer, result *model.ScanResult) error {
	fmt.Fprintln(w)
	table := tablewriter.NewTable(w,
		tablewriter.WithHeader([]string{"Symbol", "Outcome", "Open", "Peak", "Peak %", "Longest Run", "Window", "Hold Start"}),
	)

	for _, r := range result.Results {
		if err := table.Append([]string{
			r.Symbol,
			outcomeLabel(r),
			optional(r.Open > 0, fmt.Sprintf("%.2f", r.Open)),
			optional(!r.PeakTime.IsZero(), clock(r.PeakTime)),
			optional(!r.PeakTime.IsZero(), fmt.Sprintf("%+.2f%%", r.PeakPct)),
			optional(r.Outcome.Evaluated() && r.Outcome != model.OutcomeNoPeak, fmt.Sprintf("%d", r.LongestRun)),
			optional(r.WindowSize > 0, fmt.Sprintf("%d", r.WindowSize)),
			optional(!r.HoldStart.IsZero(), clock(r.HoldStart)),
		}); err != nil {
			return err
		}
	}

	if err := table.Render(); err != nil {
		return err
	}
	fmt.Fprintf(w, "Scanned %d stocks in %s\n", result.TotalScanned, result.ScanTime.Round(time.Millisecond))
	return nil
}

// FinalLine returns the summary line for the matched symbols
func FinalLine(matches []string) string {
	if len(matches) == 0 {
		return "No stocks met the criteria"
	}
	return "Stocks meeting criteria: " + strings.Join(matches, ", ")
}

// PrintSummary writes the final line
func PrintSummary(w io.Writer, result *model.ScanResult) {
	fmt.Fprintln(w, FinalLine(result.Matches))
}

// JSON writes the scan result as indented JSON
func JSON(w io.Writer, result *model.ScanResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	_, err = w.Write(pretty.Pretty(data))
	return err
}

func outcomeLabel(r *model.ScreenResult) string {
	if r.Err == "" {
		return string(r.Outcome)
	}
	return fmt.Sprintf("%s (%s)", r.Outcome, truncate(r.Err, 40))
}

// truncate shortens s to at most n runes
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}

func clock(t time.Time) string {
	return t.In(analyzer.GetETLocation()).Format("15:04")
}

func optional(ok bool, s string) string {
	if !ok {
		return "-"
	}
	return s
}
