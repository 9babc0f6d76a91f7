package pulse

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Settings is the user-editable part of the configuration, read from a YAML
// file next to the portfolio.
type Settings struct {
	PortfolioFile string  `yaml:"portfolio_file"`
	SymbolFile    string  `yaml:"symbol_file"`
	Currency      string  `yaml:"currency"`
	Model         string  `yaml:"model"`
	Indices       []Index `yaml:"indices"`
	NewsLocale    string  `yaml:"news_locale"`
	NewsSuffix    string  `yaml:"news_suffix"` // appended to every search term
	Briefing      struct {
		Hour     int    `yaml:"hour"`
		Minute   int    `yaml:"minute"`
		Timezone string `yaml:"timezone"`
	} `yaml:"briefing"`
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

// Config is the full runtime configuration: settings plus the secrets read
// from the environment. It is built once at startup and passed explicitly to
// every component; nothing reads the process environment after that.
type Config struct {
	Settings

	TelegramToken  string
	TelegramChatID string
	GoogleAPIKey   string
}

// DefaultSettings returns the settings used when no settings file exists.
func DefaultSettings() Settings {
	s := Settings{
		PortfolioFile: "india_portfolio.csv",
		SymbolFile:    "symbols.yaml",
		Currency:      "INR",
		Model:         "gemini-2.0-flash",
		Indices: []Index{
			{Name: "NIFTY 50", Ticker: "^NSEI", SearchTerm: "NIFTY 50"},
			{Name: "SENSEX", Ticker: "^BSESN"},
		},
		NewsLocale:     "en-IN",
		NewsSuffix:     "India Business",
		TimeoutSeconds: 30,
	}
	s.Briefing.Hour = 6
	s.Briefing.Timezone = "America/New_York"
	return s
}

// LoadConfig loads the .env file if present, reads the settings file, and
// validates the secrets. A missing generative-model credential is fatal here,
// before any network activity.
func LoadConfig(settingsPath string) (*Config, error) {
	// .env is a convenience for local runs; absence is not an error.
	_ = godotenv.Load()

	settings, err := LoadSettings(settingsPath)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Settings:       settings,
		TelegramToken:  os.Getenv("TELEGRAM_TOKEN"),
		TelegramChatID: os.Getenv("TELEGRAM_CHAT_ID"),
		GoogleAPIKey:   os.Getenv("GOOGLE_API_KEY"),
	}
	if cfg.GoogleAPIKey == "" {
		return nil, fmt.Errorf("GOOGLE_API_KEY not found in environment or .env")
	}
	return cfg, nil
}

// Timeout returns the per-request HTTP timeout.
func (s Settings) Timeout() time.Duration {
	if s.TimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// Schedule returns the daily briefing schedule. An unknown timezone falls
// back to the local one.
func (s Settings) Schedule() Schedule {
	loc, err := time.LoadLocation(s.Briefing.Timezone)
	if err != nil {
		loc = time.Local
	}
	return Schedule{Hour: s.Briefing.Hour, Minute: s.Briefing.Minute, Location: loc}
}

// LoadSettings reads the settings file alone, without touching the
// environment; commands that need no secret use it directly.
func LoadSettings(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultSettings(), nil
	}
	if err != nil {
		return Settings{}, fmt.Errorf("reading settings: %w", err)
	}
	settings := DefaultSettings()
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return Settings{}, fmt.Errorf("parsing settings: %w", err)
	}
	return settings, nil
}
