package analyzer

import (
	"sort"
	"time"

	"plateau/pkg/model"
)

const (
	sessionOpenSec  = 9*3600 + 30*60 // 09:30 ET
	sessionCloseSec = 16 * 3600      // 16:00 ET
)

// MarketHours represents the trading session hours
type MarketHours struct {
	Open  time.Time
	Close time.Time
}

var etLocation = loadETLocation()

func loadETLocation() *time.Location {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		// No tzdata available; assume EST
		loc = time.FixedZone("EST", -5*60*60)
	}
	return loc
}

// GetETLocation returns the US Eastern time zone
func GetETLocation() *time.Location {
	return etLocation
}

// TradingDay returns midnight ET of date's calendar day
func TradingDay(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, GetETLocation())
}

// GetUSMarketHours returns US market hours for a given date
func GetUSMarketHours(date time.Time) MarketHours {
	day := TradingDay(date)
	return MarketHours{
		Open:  day.Add(sessionOpenSec * time.Second),
		Close: day.Add(sessionCloseSec * time.Second),
	}
}

// InSession reports whether t falls within regular hours [09:30, 16:00] ET.
// Both bounds are inclusive.
func InSession(t time.Time) bool {
	h, m, s := t.In(GetETLocation()).Clock()
	sec := h*3600 + m*60 + s
	if sec == sessionCloseSec {
		return t.Nanosecond() == 0
	}
	return sec >= sessionOpenSec && sec < sessionCloseSec
}

// SessionBars returns the bars inside regular hours, converted to ET and
// sorted chronologically. The input slice is not modified.
func SessionBars(candles []model.Candle) []model.Candle {
	loc := GetETLocation()
	session := make([]model.Candle, 0, len(candles))
	for _, c := range candles {
		if !InSession(c.Time) {
			continue
		}
		c.Time = c.Time.In(loc)
		session = append(session, c)
	}

	sort.SliceStable(session, func(i, j int) bool {
		return session[i].Time.Before(session[j].Time)
	})
	return session
}

// PercentFromOpen returns (price - open) / open * 100
func PercentFromOpen(price, open float64) float64 {
	if open == 0 {
		return 0
	}
	return (price - open) / open * 100
}

// HighPercents returns each bar's High as a percentage above open
func HighPercents(candles []model.Candle, open float64) []float64 {
	pcts := make([]float64, len(candles))
	for i, c := range candles {
		pcts[i] = PercentFromOpen(c.High, open)
	}
	return pcts
}
