package pulse

import "math"

// Quote is the latest observation for a single ticker: last traded (or last
// closing) price, and the change relative to the previous session's close,
// in percent units (1.5 means +1.5%).
type Quote struct {
	Symbol        string
	CurrentPrice  float64
	PercentChange Percent
}

// IsZero reports whether the quote carries no price information, the
// substitute value used when a fetch failed or the feed had no data.
func (q Quote) IsZero() bool { return q.CurrentPrice == 0 && q.PercentChange == 0 }

// QuoteFromCloses derives a Quote from a short trailing window of daily
// closing prices, oldest first. Missing observations (holidays, feed gaps)
// are represented as NaN and ignored, and so are non-positive closes: no
// listed security trades at zero, a 0.0 close is a feed glitch, and dividing
// by it would make the percent change non-finite.
//
//   - two or more valid closes: current is the last one, and the change is
//     computed against the second to last, whatever gaps lie before them.
//   - exactly one valid close: that price, with a zero change.
//   - none: the zero Quote.
func QuoteFromCloses(symbol string, closes []float64) Quote {
	valid := make([]float64, 0, len(closes))
	for _, c := range closes {
		if !math.IsNaN(c) && c > 0 {
			valid = append(valid, c)
		}
	}

	switch n := len(valid); {
	case n >= 2:
		current, previous := valid[n-1], valid[n-2]
		return Quote{
			Symbol:        symbol,
			CurrentPrice:  current,
			PercentChange: Percent((current - previous) / previous * 100),
		}
	case n == 1:
		return Quote{Symbol: symbol, CurrentPrice: valid[0]}
	default:
		return Quote{Symbol: symbol}
	}
}
