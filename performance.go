package pulse

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"
)

// topN is the number of gainers and losers reported as top movers.
const topN = 3

// Holding is a Position enriched with its latest Quote and the derived
// daily figures. The Quote's Symbol is the position's own, so it stays
// meaningful even when the symbol had no quote.
type Holding struct {
	Position Position
	Quote
	CurrentValue Money
	DailyPnL     Money
}

// Performance is the derived snapshot of the portfolio for a single run.
// It is never persisted.
type Performance struct {
	Holdings      []Holding
	TotalValue    Money
	TotalDailyPnL Money
	TopGainers    []Holding
	TopLosers     []Holding
}

// ComputePerformance joins positions with their quotes and derives the
// per-position and total daily figures, in the given reporting currency.
//
// A position whose symbol has no quote joins against the zero Quote: price 0,
// value 0, contributing nothing to the totals.
//
// Per holding:
//
//	CurrentValue = Quantity * CurrentPrice
//	DailyPnL     = CurrentValue - CurrentValue/(1+PercentChange/100)
//
// The P&L formula is an approximation carried over from the previous-close
// percent change; it is the contract, not a candidate for correction. Its
// divisor vanishes at a -100% change, where the daily loss is reported as
// zero, consistent with the zero current value a zero price implies.
func ComputePerformance(positions []Position, quotes map[string]Quote, currency string) *Performance {
	p := &Performance{
		Holdings:      make([]Holding, 0, len(positions)),
		TotalValue:    M(0, currency),
		TotalDailyPnL: M(0, currency),
	}

	for _, pos := range positions {
		q := quotes[pos.Symbol]
		q.Symbol = pos.Symbol

		value := M(q.CurrentPrice, currency).Mul(pos.Quantity)
		pnl := dailyPnL(value, q.PercentChange)

		p.Holdings = append(p.Holdings, Holding{
			Position:     pos,
			Quote:        q,
			CurrentValue: value,
			DailyPnL:     pnl,
		})
		p.TotalValue = p.TotalValue.Add(value)
		p.TotalDailyPnL = p.TotalDailyPnL.Add(pnl)
	}

	p.TopGainers = rank(p.Holdings, func(a, b Holding) bool { return a.PercentChange > b.PercentChange })
	p.TopLosers = rank(p.Holdings, func(a, b Holding) bool { return a.PercentChange < b.PercentChange })
	return p
}

// dailyPnL derives the day's gain from the current value and the percent
// change since the previous close.
func dailyPnL(value Money, change Percent) Money {
	if math.IsInf(float64(change), 0) || math.IsNaN(float64(change)) {
		// A non-finite change comes from a corrupt quote (a zero previous
		// close slipping past the provider); decimal cannot represent it.
		return M(0, value.Currency())
	}
	factor := decimal.NewFromInt(1).Add(newDecimal(float64(change)).Div(decimal.NewFromInt(100)))
	if factor.IsZero() {
		// change of exactly -100%: the formula's divisor vanishes.
		return M(0, value.Currency())
	}
	return value.Sub(value.div(factor))
}

// rank returns the top holdings under the given ordering, at most topN of
// them. The sort is stable so ties keep their portfolio-file order.
func rank(holdings []Holding, less func(a, b Holding) bool) []Holding {
	ranked := make([]Holding, len(holdings))
	copy(ranked, holdings)
	sort.SliceStable(ranked, func(i, j int) bool { return less(ranked[i], ranked[j]) })
	if len(ranked) > topN {
		ranked = ranked[:topN]
	}
	return ranked
}
