package symbols

import (
	"fmt"
	"strings"

	"plateau/pkg/model"
)

// Load builds the watch-list. Explicit symbols win over the universe.
func Load(explicit []string, universe string) ([]model.Stock, error) {
	if len(explicit) == 0 {
		syms, err := GetUniverse(Universe(strings.ToLower(strings.TrimSpace(universe))))
		if err != nil {
			return nil, err
		}
		explicit = syms
	}

	stocks, err := LoadSymbols(explicit)
	if err != nil {
		return nil, err
	}
	if len(stocks) == 0 {
		return nil, fmt.Errorf("no symbols to screen")
	}
	return stocks, nil
}

// ParseList splits a comma-separated symbol list
func ParseList(list string) []string {
	if strings.TrimSpace(list) == "" {
		return nil
	}
	return strings.Split(list, ",")
}

// LoadSymbols normalises symbols to upper case, dropping blanks and
// duplicates while keeping the given order.
func LoadSymbols(symbols []string) ([]model.Stock, error) {
	seen := make(map[string]bool, len(symbols))
	stocks := make([]model.Stock, 0, len(symbols))
	for _, raw := range symbols {
		sym := strings.ToUpper(strings.TrimSpace(raw))
		if sym == "" || seen[sym] {
			continue
		}
		if !isValidSymbol(sym) {
			return nil, fmt.Errorf("invalid symbol %q", raw)
		}
		seen[sym] = true
		stocks = append(stocks, model.Stock{
			Symbol:   sym,
			Name:     sym,
			Exchange: "US",
		})
	}
	return stocks, nil
}

// isValidSymbol accepts tickers like AAPL, BRK.B and BF-B
func isValidSymbol(symbol string) bool {
	if len(symbol) == 0 || len(symbol) > 10 {
		return false
	}
	for i, c := range symbol {
		switch {
		case c >= 'A' && c <= 'Z':
		case (c == '.' || c == '-') && i > 0 && i < len(symbol)-1:
		default:
			return false
		}
	}
	return true
}
