package pulse

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"
)

// fakeQuotes records the requested tickers and serves canned quotes.
type fakeQuotes struct {
	calls  int
	asked  []string
	quotes map[string]Quote
}

func (f *fakeQuotes) Quotes(_ context.Context, tickers []string) map[string]Quote {
	f.calls++
	f.asked = append(f.asked, tickers...)
	out := make(map[string]Quote, len(tickers))
	for _, t := range tickers {
		out[t] = f.quotes[t]
	}
	return out
}

// fakeNews records the requested terms and serves one headline per term.
type fakeNews struct {
	calls int
	asked []string
}

func (f *fakeNews) News(_ context.Context, terms []string) NewsDigest {
	f.calls++
	f.asked = append(f.asked, terms...)
	var digest NewsDigest
	for _, term := range terms {
		digest = append(digest, TermNews{Term: term, Items: []Headline{{Title: "about " + term, Link: "https://example.com"}}})
	}
	return digest
}

// fakeNarrator echoes a line derived from its inputs, or fails.
type fakeNarrator struct {
	calls int
	err   error
}

func (f *fakeNarrator) Narrate(_ context.Context, perf *Performance, indices []IndexLevel, news NewsDigest) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return fmt.Sprintf("total %s over %d indices and %d news terms",
		perf.TotalValue, len(indices), len(news)), nil
}

// fakeDispatcher captures what was delivered.
type fakeDispatcher struct {
	sent    []string
	alerts  []string
	sendErr error
}

func (f *fakeDispatcher) Send(_ context.Context, text string) error {
	f.sent = append(f.sent, text)
	return f.sendErr
}
func (f *fakeDispatcher) Alert(_ context.Context, text string) {
	f.alerts = append(f.alerts, text)
}

// fixedClock returns a clock stuck at the given weekday.
func fixedClock(wd time.Weekday) func() time.Time {
	// 2025-06-02 is a Monday.
	base := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	return func() time.Time { return base.AddDate(0, 0, int(wd-time.Monday)) }
}

func testBriefing(quotes *fakeQuotes, news *fakeNews, narrator *fakeNarrator, dispatcher *fakeDispatcher) *Briefing {
	return &Briefing{
		Positions: func() ([]Position, error) {
			return []Position{{Symbol: "TATAMOTORS", Quantity: Q(10)}}, nil
		},
		Symbols:    NewSymbolTable(".NS", nil),
		Indices:    []Index{{Name: "NIFTY 50", Ticker: "^NSEI", SearchTerm: "NIFTY 50"}},
		Currency:   "INR",
		Quotes:     quotes,
		News:       news,
		Narrator:   narrator,
		Dispatcher: dispatcher,
		Now:        fixedClock(time.Monday),
	}
}

func TestRunSuccess(t *testing.T) {
	quotes := &fakeQuotes{quotes: map[string]Quote{
		"TATAMOTORS.NS": {Symbol: "TATAMOTORS.NS", CurrentPrice: 110, PercentChange: 10},
		"^NSEI":         {Symbol: "^NSEI", CurrentPrice: 25000, PercentChange: 0.4},
	}}
	news := &fakeNews{}
	narrator := &fakeNarrator{}
	dispatcher := &fakeDispatcher{}

	outcome, err := testBriefing(quotes, news, narrator, dispatcher).Run(context.Background())

	if err != nil || outcome != Succeeded {
		t.Fatalf("Run() = %v, %v, want Succeeded", outcome, err)
	}
	if len(dispatcher.sent) != 1 {
		t.Fatalf("dispatcher received %d messages, want 1", len(dispatcher.sent))
	}
	if len(dispatcher.alerts) != 0 {
		t.Errorf("unexpected alerts: %v", dispatcher.alerts)
	}
	// The quote batch covers positions (suffixed) and indices.
	wantAsked := []string{"TATAMOTORS.NS", "^NSEI"}
	if fmt.Sprint(quotes.asked) != fmt.Sprint(wantAsked) {
		t.Errorf("quote batch = %v, want %v", quotes.asked, wantAsked)
	}
	// News terms: index term first, then top movers, deduplicated.
	wantTerms := []string{"NIFTY 50", "TATAMOTORS"}
	if fmt.Sprint(news.asked) != fmt.Sprint(wantTerms) {
		t.Errorf("news terms = %v, want %v", news.asked, wantTerms)
	}
}

func TestRunWeekendGuard(t *testing.T) {
	for _, wd := range []time.Weekday{time.Saturday, time.Sunday} {
		t.Run(wd.String(), func(t *testing.T) {
			loaded := false
			quotes := &fakeQuotes{}
			news := &fakeNews{}
			narrator := &fakeNarrator{}
			dispatcher := &fakeDispatcher{}

			b := testBriefing(quotes, news, narrator, dispatcher)
			b.Now = fixedClock(wd)
			b.Positions = func() ([]Position, error) {
				loaded = true
				return nil, nil
			}

			outcome, err := b.Run(context.Background())

			if err != nil || outcome != Skipped {
				t.Fatalf("Run() = %v, %v, want Skipped", outcome, err)
			}
			if loaded || quotes.calls+news.calls+narrator.calls != 0 {
				t.Error("skipped run must make no external call")
			}
			if len(dispatcher.sent)+len(dispatcher.alerts) != 0 {
				t.Error("skipped run must deliver nothing")
			}
		})
	}
}

func TestRunNarratorFailureStillDelivers(t *testing.T) {
	quotes := &fakeQuotes{quotes: map[string]Quote{}}
	dispatcher := &fakeDispatcher{}
	narrator := &fakeNarrator{err: fmt.Errorf("model unavailable")}

	outcome, err := testBriefing(quotes, &fakeNews{}, narrator, dispatcher).Run(context.Background())

	if err != nil || outcome != Succeeded {
		t.Fatalf("Run() = %v, %v, want Succeeded with placeholder", outcome, err)
	}
	if len(dispatcher.sent) != 1 || !strings.Contains(dispatcher.sent[0], "model unavailable") {
		t.Errorf("placeholder not delivered: %v", dispatcher.sent)
	}
}

func TestRunStageFailureAlerts(t *testing.T) {
	quotes := &fakeQuotes{}
	dispatcher := &fakeDispatcher{}

	b := testBriefing(quotes, &fakeNews{}, &fakeNarrator{}, dispatcher)
	b.Positions = func() ([]Position, error) { return nil, fmt.Errorf("no such file") }

	outcome, err := b.Run(context.Background())

	if outcome != Failed || err == nil {
		t.Fatalf("Run() = %v, %v, want Failed with error", outcome, err)
	}
	if len(dispatcher.alerts) != 1 || !strings.Contains(dispatcher.alerts[0], "no such file") {
		t.Errorf("alert not routed: %v", dispatcher.alerts)
	}
	if len(dispatcher.sent) != 0 {
		t.Errorf("failed run must not deliver a report: %v", dispatcher.sent)
	}
	if quotes.calls != 0 {
		t.Error("pipeline must stop at the first failing stage")
	}
}

func TestRunDeliveryFailureIsNotEscalated(t *testing.T) {
	quotes := &fakeQuotes{quotes: map[string]Quote{}}
	dispatcher := &fakeDispatcher{sendErr: fmt.Errorf("chat unreachable")}

	outcome, err := testBriefing(quotes, &fakeNews{}, &fakeNarrator{}, dispatcher).Run(context.Background())

	if err != nil || outcome != Succeeded {
		t.Fatalf("Run() = %v, %v: delivery failure is logged, never escalated", outcome, err)
	}
	if len(dispatcher.alerts) != 0 {
		t.Errorf("delivery failure must not alert: %v", dispatcher.alerts)
	}
}

func TestRunAllQuotesFailing(t *testing.T) {
	// Every fetch failed: the provider substitutes zero quotes, the pipeline
	// still narrates and delivers.
	quotes := &fakeQuotes{quotes: map[string]Quote{}}
	dispatcher := &fakeDispatcher{}
	narrator := &fakeNarrator{}

	outcome, err := testBriefing(quotes, &fakeNews{}, narrator, dispatcher).Run(context.Background())

	if err != nil || outcome != Succeeded {
		t.Fatalf("Run() = %v, %v, want Succeeded", outcome, err)
	}
	if narrator.calls != 1 || len(dispatcher.sent) != 1 {
		t.Error("zero-data run must still narrate and deliver")
	}
}

func TestNewsTermsDeduplicated(t *testing.T) {
	b := testBriefing(&fakeQuotes{}, &fakeNews{}, &fakeNarrator{}, &fakeDispatcher{})
	b.Indices = []Index{
		{Name: "NIFTY 50", Ticker: "^NSEI", SearchTerm: "NIFTY 50"},
		{Name: "SENSEX", Ticker: "^BSESN"}, // no search term
	}

	positions := []Position{
		{Symbol: "AAA", Quantity: Q(1)},
		{Symbol: "BBB", Quantity: Q(1)},
	}
	quotes := map[string]Quote{
		"AAA": {Symbol: "AAA", CurrentPrice: 1, PercentChange: 5},
		"BBB": {Symbol: "BBB", CurrentPrice: 1, PercentChange: -5},
	}
	perf := ComputePerformance(positions, quotes, "INR")

	// With only two positions, both appear as gainer and loser; the terms
	// must still list each symbol once, in first-seen order.
	got := b.newsTerms(perf)
	want := []string{"NIFTY 50", "AAA", "BBB"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("newsTerms() = %v, want %v", got, want)
	}
}
