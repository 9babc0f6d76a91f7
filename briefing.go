package pulse

import (
	"context"
	"fmt"
	"log"
	"time"
)

// QuoteProvider fetches the latest quotes for a set of feed tickers. A
// provider never fails the batch: a ticker that could not be fetched or
// parsed is reported as the zero Quote.
type QuoteProvider interface {
	Quotes(ctx context.Context, tickers []string) map[string]Quote
}

// NewsProvider fetches headlines for a list of search terms, in order. A term
// that fails or yields nothing is simply absent from the digest.
type NewsProvider interface {
	News(ctx context.Context, terms []string) NewsDigest
}

// Narrator turns the structured run data into the free-text report.
type Narrator interface {
	Narrate(ctx context.Context, perf *Performance, indices []IndexLevel, news NewsDigest) (string, error)
}

// Dispatcher delivers the report to the chat channel. Send makes a single
// attempt and reports failure to the caller; Alert is best effort and
// swallows its own failures.
type Dispatcher interface {
	Send(ctx context.Context, text string) error
	Alert(ctx context.Context, text string)
}

// Index is a market index tracked alongside the portfolio.
type Index struct {
	Name       string `yaml:"name"`   // display name, e.g. "NIFTY 50"
	Ticker     string `yaml:"ticker"` // feed ticker, e.g. "^NSEI"
	SearchTerm string `yaml:"term"`   // news search term; empty means none
}

// IndexLevel is an Index with its fetched level and daily change.
type IndexLevel struct {
	Index
	Level  float64
	Change Percent
}

// Outcome is the terminal state of a single briefing run.
type Outcome int

const (
	// Skipped: the weekend guard fired before any external call.
	Skipped Outcome = iota
	// Succeeded: the report was generated and handed to the dispatcher.
	Succeeded
	// Failed: a pipeline stage errored; an alert was routed instead.
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Skipped:
		return "skipped"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// Briefing sequences one run of the pipeline: guard check, position load,
// quote fetch, performance computation, news fetch, narrative generation and
// delivery. It owns no network code itself.
type Briefing struct {
	// Positions loads the portfolio. It is a function, not a slice, so that
	// a skipped run touches neither the disk nor the network.
	Positions func() ([]Position, error)

	Symbols  *SymbolTable
	Indices  []Index
	Currency string

	Quotes     QuoteProvider
	News       NewsProvider
	Narrator   Narrator
	Dispatcher Dispatcher

	// Now is the clock used by the weekend guard. Defaults to time.Now.
	Now func() time.Time
}

// Run executes the pipeline once and returns its terminal state. Any stage
// error is converted into an alert and reported back, so the caller's
// scheduler loop only ever observes an Outcome.
func (b *Briefing) Run(ctx context.Context) (Outcome, error) {
	now := time.Now
	if b.Now != nil {
		now = b.Now
	}

	today := DateOf(now())
	if today.IsWeekend() {
		log.Printf("briefing: %s is a weekend, skipping", today)
		return Skipped, nil
	}

	report, err := b.run(ctx)
	if err != nil {
		log.Printf("briefing: run failed: %v", err)
		b.Dispatcher.Alert(ctx, fmt.Sprintf("Error fetching market data: %v", err))
		return Failed, err
	}

	// Delivery is single-attempt and never escalated: the run already
	// succeeded in producing a report.
	if err := b.Dispatcher.Send(ctx, report); err != nil {
		log.Printf("briefing: delivery failed: %v", err)
	}
	return Succeeded, nil
}

// run performs the Running state of the pipeline and returns the report text.
func (b *Briefing) run(ctx context.Context) (string, error) {
	log.Printf("briefing: loading positions")
	positions, err := b.Positions()
	if err != nil {
		return "", fmt.Errorf("loading positions: %w", err)
	}

	// One quote batch covers the portfolio and the tracked indices.
	tickers := make([]string, 0, len(positions)+len(b.Indices))
	for _, p := range positions {
		tickers = append(tickers, b.Symbols.Ticker(p.Symbol))
	}
	for _, idx := range b.Indices {
		tickers = append(tickers, idx.Ticker)
	}

	log.Printf("briefing: fetching quotes for %d tickers", len(tickers))
	batch := b.Quotes.Quotes(ctx, tickers)

	// Re-key quotes from feed tickers back to portfolio symbols.
	quotes := make(map[string]Quote, len(positions))
	for _, p := range positions {
		q := batch[b.Symbols.Ticker(p.Symbol)]
		quotes[p.Symbol] = q
	}

	log.Printf("briefing: computing performance for %d positions", len(positions))
	perf := ComputePerformance(positions, quotes, b.Currency)

	indices := make([]IndexLevel, 0, len(b.Indices))
	for _, idx := range b.Indices {
		q := batch[idx.Ticker]
		indices = append(indices, IndexLevel{Index: idx, Level: q.CurrentPrice, Change: q.PercentChange})
	}

	terms := b.newsTerms(perf)
	log.Printf("briefing: fetching news for %d terms", len(terms))
	news := b.News.News(ctx, terms)

	log.Printf("briefing: generating narrative")
	report, err := b.Narrator.Narrate(ctx, perf, indices, news)
	if err != nil {
		// The pipeline must still deliver something: degrade to a
		// placeholder instead of failing the run.
		log.Printf("briefing: narrative generation failed: %v", err)
		report = fmt.Sprintf("Market analysis unavailable: %v", err)
	}
	return report, nil
}

// newsTerms assembles the search terms for the run: the index terms followed
// by the top movers' symbols, deduplicated preserving first occurrence.
func (b *Briefing) newsTerms(perf *Performance) []string {
	var terms []string
	seen := make(map[string]bool)
	add := func(term string) {
		if term != "" && !seen[term] {
			seen[term] = true
			terms = append(terms, term)
		}
	}

	for _, idx := range b.Indices {
		add(idx.SearchTerm)
	}
	for _, h := range perf.TopGainers {
		add(h.Symbol)
	}
	for _, h := range perf.TopLosers {
		add(h.Symbol)
	}
	return terms
}
