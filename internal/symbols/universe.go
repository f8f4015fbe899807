package symbols

import (
	"fmt"
	"sort"
)

// Universe represents a predefined watch-list
type Universe string

const (
	UniverseDefault   Universe = "default"
	UniverseMegaCap   Universe = "megacap"
	UniverseNasdaq100 Universe = "nasdaq100"
)

var universes = map[Universe][]string{
	UniverseDefault:   DefaultSymbols,
	UniverseMegaCap:   MegaCapSymbols,
	UniverseNasdaq100: Nasdaq100Symbols,
}

// GetUniverse returns the symbols of a named universe
func GetUniverse(u Universe) ([]string, error) {
	syms, ok := universes[u]
	if !ok {
		return nil, fmt.Errorf("unknown universe %q (available: %v)", u, Universes())
	}
	out := make([]string, len(syms))
	copy(out, syms)
	return out, nil
}

// Universes lists the universe names
func Universes() []string {
	names := make([]string, 0, len(universes))
	for u := range universes {
		names = append(names, string(u))
	}
	sort.Strings(names)
	return names
}

// DefaultSymbols is the watch-list screened when nothing else is given
var DefaultSymbols = []string{"AAPL", "MSFT", "GOOG", "AMZN", "TSLA", "META"}

// MegaCapSymbols is a small set of the most traded large caps
var MegaCapSymbols = []string{
	"AAPL", "MSFT", "GOOGL", "AMZN", "NVDA",
	"META", "TSLA", "AMD", "NFLX", "JPM",
}

// Nasdaq100Symbols is the NASDAQ-100 components (as of 2024)
var Nasdaq100Symbols = []string{
	"AAPL", "ABNB", "ADBE", "ADI", "ADP", "ADSK", "AEP", "AMAT", "AMD", "AMGN",
	"AMZN", "ANSS", "ARM", "ASML", "AVGO", "AZN", "BIIB", "BKNG", "BKR", "CCEP",
	"CDNS", "CDW", "CEG", "CHTR", "CMCSA", "COST", "CPRT", "CRWD", "CSCO", "CSGP",
	"CSX", "CTAS", "CTSH", "DDOG", "DLTR", "DXCM", "EA", "EXC", "FANG", "FAST",
	"FTNT", "GEHC", "GFS", "GILD", "GOOG", "GOOGL", "HON", "IDXX", "ILMN", "INTC",
	"INTU", "ISRG", "KDP", "KHC", "KLAC", "LIN", "LRCX", "LULU", "MAR", "MCHP",
	"MDB", "MDLZ", "MELI", "META", "MNST", "MRNA", "MRVL", "MSFT", "MU", "NFLX",
	"NVDA", "NXPI", "ODFL", "ON", "ORLY", "PANW", "PAYX", "PCAR", "PDD", "PEP",
	"PYPL", "QCOM", "REGN", "ROP", "ROST", "SBUX", "SMCI", "SNPS", "TEAM", "TMUS",
	"TSLA", "TTD", "TTWO", "TXN", "VRSK", "VRTX", "WBD", "WDAY", "XEL", "ZS",
}
