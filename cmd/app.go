// Package cmd implements the CLI application running the market briefing.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"net/http"

	"github.com/etnz/pulse"
	"github.com/etnz/pulse/agent"
	"github.com/etnz/pulse/googlenews"
	"github.com/etnz/pulse/telegram"
	"github.com/etnz/pulse/yfinance"
	"github.com/google/subcommands"
)

// Commands is the list of subcommands a main package registers.
var Commands = []subcommands.Command{
	&runCmd{},
	&daemonCmd{},
	&previewCmd{},
	&fixCmd{},
	&chatidCmd{},
	&topicCmd{},
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var settingsFile = flag.String("settings", "settings.yaml", "Path to the settings file (YAML format)")

// loadConfig builds the runtime configuration from the settings file and the
// environment, failing fast if the generative-model credential is absent.
func loadConfig() (*pulse.Config, error) {
	return pulse.LoadConfig(*settingsFile)
}

// newBriefing wires the full pipeline: providers, narrator and dispatcher.
// The dispatcher may be overridden by the caller (preview renders locally).
func newBriefing(ctx context.Context, cfg *pulse.Config, dispatcher pulse.Dispatcher) (*pulse.Briefing, error) {
	symbols, err := pulse.LoadSymbolTable(cfg.SymbolFile)
	if err != nil {
		return nil, err
	}

	client, err := agent.NewClient(ctx, cfg.GoogleAPIKey)
	if err != nil {
		return nil, fmt.Errorf("initializing Gemini's client: %w", err)
	}

	httpClient := &http.Client{Timeout: cfg.Timeout()}
	if dispatcher == nil {
		if cfg.TelegramToken == "" || cfg.TelegramChatID == "" {
			return nil, fmt.Errorf("TELEGRAM_TOKEN and TELEGRAM_CHAT_ID must be set to deliver reports")
		}
		dispatcher = telegram.New(httpClient, cfg.TelegramToken, cfg.TelegramChatID)
	}

	return &pulse.Briefing{
		Positions:  func() ([]pulse.Position, error) { return pulse.LoadPositions(cfg.PortfolioFile) },
		Symbols:    symbols,
		Indices:    cfg.Indices,
		Currency:   cfg.Currency,
		Quotes:     yfinance.New(httpClient),
		News:       googlenews.New(httpClient, cfg.NewsLocale, cfg.NewsSuffix),
		Narrator:   agent.NewAnalyst(client, cfg.Model),
		Dispatcher: dispatcher,
	}, nil
}
