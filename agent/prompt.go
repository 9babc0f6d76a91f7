package agent

import (
	"strings"
	"text/template"

	"github.com/etnz/pulse"
)

// promptText is the briefing prompt. It embeds the structured inputs the
// model needs: index levels, portfolio totals, the top-movers table, and the
// gathered headlines.
const promptText = `You are a Quantitative Analyst specializing in the Indian stock market.
Generate an "India Market Pulse" report based on the following data.

**Market Overview:**
{{range .Indices}}{{.Name}}: {{printf "%.2f" .Level}} ({{.Change.SignedString}})
{{end}}
**My Portfolio Performance:**
Total Portfolio Value: {{.Perf.TotalValue}}
Today's P&L: {{.Perf.TotalDailyPnL.SignedString}}

**Top Gainers:**
{{range .Perf.TopGainers}}- {{.Symbol}}: {{.PercentChange.SignedString}} at {{printf "%.2f" .CurrentPrice}}
{{else}}(none)
{{end}}
**Top Losers:**
{{range .Perf.TopLosers}}- {{.Symbol}}: {{.PercentChange.SignedString}} at {{printf "%.2f" .CurrentPrice}}
{{else}}(none)
{{end}}
**Relevant News:**
{{range .News}}News for {{.Term}}:
{{range .Items}}- [{{.Title}}]({{.Link}})
{{end}}
{{else}}(no recent headlines found)
{{end}}
**Instructions:**
1. **Market Sentiment**: Briefly summarize the general market mood from the index levels.
2. **Portfolio Pulse**: Comment on the daily performance.
3. **Why They Moved**: For the top movers, use the provided news (and your own knowledge if news is sparse) to explain WHY they moved. Be specific.
4. **Outlook**: A one-sentence outlook for tomorrow.

Format for a chat message. Keep it concise.
`

var promptTmpl = template.Must(template.New("prompt").Parse(promptText))

// Prompt renders the briefing prompt for the given run data.
func Prompt(perf *pulse.Performance, indices []pulse.IndexLevel, news pulse.NewsDigest) (string, error) {
	data := struct {
		Perf    *pulse.Performance
		Indices []pulse.IndexLevel
		News    pulse.NewsDigest
	}{perf, indices, news}

	var sb strings.Builder
	if err := promptTmpl.Execute(&sb, data); err != nil {
		return "", err
	}
	return sb.String(), nil
}
