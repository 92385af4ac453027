package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// Unit is the width of one balance history interval.
type Unit string

const (
	Hour  Unit = "hour"
	Day   Unit = "day"
	Week  Unit = "week"
	Month Unit = "month"
	Year  Unit = "year"
)

const (
	MinIntervals     = 1
	MaxIntervals     = 200
	DefaultIntervals = 24
)

func ParseUnit(s string) (Unit, error) {
	switch Unit(s) {
	case Hour, Day, Week, Month, Year:
		return Unit(s), nil
	}
	return "", invalid("interval", "must be one of hour, day, week, month, year")
}

// Truncate rounds t down to the start of its unit in UTC. Weeks start on Monday.
func (u Unit) Truncate(t time.Time) time.Time {
	t = t.UTC()
	switch u {
	case Hour:
		return t.Truncate(time.Hour)
	case Day:
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	case Week:
		daysSinceMonday := (int(t.Weekday()) + 6) % 7
		return time.Date(t.Year(), t.Month(), t.Day()-daysSinceMonday, 0, 0, 0, 0, time.UTC)
	case Month:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	case Year:
		return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	}
	return t
}

// Add moves t by n units. t is expected to be truncated.
func (u Unit) Add(t time.Time, n int) time.Time {
	switch u {
	case Hour:
		return t.Add(time.Duration(n) * time.Hour)
	case Day:
		return t.AddDate(0, 0, n)
	case Week:
		return t.AddDate(0, 0, 7*n)
	case Month:
		return t.AddDate(0, n, 0)
	case Year:
		return t.AddDate(n, 0, 0)
	}
	return t
}

// Candlestick summarises balance movement within [IntervalStart, next interval).
type Candlestick struct {
	Open          decimal.Decimal
	Close         decimal.Decimal
	High          decimal.Decimal
	Low           decimal.Decimal
	Volume        decimal.Decimal
	IntervalStart time.Time
}

// BalanceHistory buckets txs into count contiguous intervals of unit, oldest
// first. The last interval is the one containing now, so its close is the
// balance as of now.
func BalanceHistory(txs []Transaction, unit Unit, count int, now time.Time) ([]Candlestick, error) {
	if _, err := ParseUnit(string(unit)); err != nil {
		return nil, err
	}
	if count < MinIntervals || count > MaxIntervals {
		return nil, invalid("intervals", "must be between 1 and 200")
	}

	end := unit.Add(unit.Truncate(now), 1)
	start := unit.Add(end, -count)
	sorted := SortByTimestamp(txs)

	i := 0
	running := decimal.Zero
	for ; i < len(sorted) && sorted[i].Timestamp.Before(start); i++ {
		running = running.Add(sorted[i].Signed())
	}

	candles := make([]Candlestick, 0, count)
	for n := 0; n < count; n++ {
		s := unit.Add(start, n)
		e := unit.Add(start, n+1)
		candle := Candlestick{
			Open:          running,
			Close:         running,
			High:          running,
			Low:           running,
			Volume:        decimal.Zero,
			IntervalStart: s,
		}
		for ; i < len(sorted) && sorted[i].Timestamp.Before(e); i++ {
			candle.Close = candle.Close.Add(sorted[i].Signed())
			candle.High = decimal.Max(candle.High, candle.Close)
			candle.Low = decimal.Min(candle.Low, candle.Close)
			candle.Volume = candle.Volume.Add(sorted[i].Amount.Abs())
		}
		running = candle.Close
		candles = append(candles, candle)
	}
	return candles, nil
}
