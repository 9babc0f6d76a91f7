// Package yfinance fetches daily closing prices from the Yahoo Finance chart
// API and derives latest-price quotes from them.
//
// The provider is deliberately forgiving: a ticker whose fetch or parse fails
// yields the zero quote instead of failing the batch, so one broken symbol
// never takes the whole briefing down.
package yfinance

import (
	"context"
	"fmt"
	"log"
	"math"
	"net/http"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/pulse"
)

const defaultBaseURL = "https://query1.finance.yahoo.com/v8/finance/chart"

// Yahoo rejects requests without a browser-looking agent.
const userAgent = "Mozilla/5.0"

// Window is the trailing range requested per ticker. Five calendar days is
// enough to contain at least two trading sessions over any weekend or single
// holiday.
const Window = "5d"

// Client talks to the Yahoo Finance chart API.
type Client struct {
	http *http.Client
	base string
}

// New returns a Client using the given http.Client, which should carry a
// request timeout.
func New(client *http.Client) *Client {
	return &Client{http: client, base: defaultBaseURL}
}

// Quotes fetches the latest quote for every ticker. Tickers that fail to
// fetch or parse are reported as the zero quote; the error is logged and the
// batch continues.
func (c *Client) Quotes(ctx context.Context, tickers []string) map[string]pulse.Quote {
	quotes := make(map[string]pulse.Quote, len(tickers))
	for _, ticker := range tickers {
		closes, err := c.closes(ctx, ticker)
		if err != nil {
			log.Printf("yfinance: %s: %v", ticker, err)
			quotes[ticker] = pulse.Quote{Symbol: ticker}
			continue
		}
		quotes[ticker] = pulse.QuoteFromCloses(ticker, closes)
	}
	return quotes
}

// closes returns the trailing daily closes for a ticker, oldest first, with
// NaN marking sessions the feed reported as null.
func (c *Client) closes(ctx context.Context, ticker string) ([]float64, error) {
	// https://query1.finance.yahoo.com/v8/finance/chart/MCD?range=5d&interval=1d
	// {
	//   "chart": {
	//     "result": [ {
	//       "meta": { ... },
	//       "timestamp": [ 1714743000, ... ],
	//       "indicators": { "quote": [ { "close": [ 271.1, null, ... ] } ] }
	//     } ],
	//     "error": null
	//   }
	// }
	addr := fmt.Sprintf("%s/%s?range=%s&interval=1d", c.base, ticker, Window)

	var jobj any
	if err := c.getJSON(ctx, addr, &jobj); err != nil {
		return nil, err
	}

	path := "$.chart.result[0].indicators.quote[0].close"
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return nil, fmt.Errorf("no close series at %q: %w", path, err)
	}
	jlist, ok := jval.([]any)
	if !ok {
		return nil, fmt.Errorf("close series is not a list: %v", jval)
	}

	closes := make([]float64, 0, len(jlist))
	for _, v := range jlist {
		f, ok := v.(float64)
		if !ok {
			// null close: market holiday or not-yet-published session.
			f = math.NaN()
		}
		closes = append(closes, f)
	}
	return closes, nil
}
