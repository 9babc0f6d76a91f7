// Package pulse implements a daily market briefing pipeline for a personal
// stock portfolio. It fetches latest quotes for every position, derives the
// day's profit and loss and the top movers, collects related news headlines,
// asks a generative model for a short written analysis, and delivers the
// result to a Telegram chat.
//
// The core of the package is pure computation:
//   - Quote derivation from a short trailing window of closing prices.
//   - Performance: per-position value, daily P&L, portfolio totals, and the
//     top-3 gainers and losers.
//   - Symbol normalization against an externally maintained mapping table.
//
// Everything that touches the network (price feed, news feed, generative
// model, chat delivery) lives in a subpackage behind a narrow interface, so
// the Briefing orchestrator can be exercised without any remote service.
//
// This package serves as the foundational logic for the `pulse` command-line
// tool.
package pulse
