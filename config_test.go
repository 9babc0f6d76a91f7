package pulse

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigFailsFastWithoutAPIKey(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "")
	t.Setenv("TELEGRAM_TOKEN", "tok")
	t.Setenv("TELEGRAM_CHAT_ID", "42")

	if _, err := LoadConfig(filepath.Join(t.TempDir(), "settings.yaml")); err == nil {
		t.Fatal("LoadConfig() must fail when GOOGLE_API_KEY is absent")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "key")
	t.Setenv("TELEGRAM_TOKEN", "tok")
	t.Setenv("TELEGRAM_CHAT_ID", "42")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "settings.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig() unexpected error: %v", err)
	}

	if cfg.Currency != "INR" || cfg.Model != "gemini-2.0-flash" {
		t.Errorf("defaults = %s/%s, want INR/gemini-2.0-flash", cfg.Currency, cfg.Model)
	}
	if len(cfg.Indices) != 2 || cfg.Indices[0].Ticker != "^NSEI" {
		t.Errorf("default indices = %v", cfg.Indices)
	}
	if cfg.Timeout() != 30*time.Second {
		t.Errorf("default timeout = %v, want 30s", cfg.Timeout())
	}
	if cfg.TelegramToken != "tok" || cfg.TelegramChatID != "42" {
		t.Errorf("secrets not read from environment: %+v", cfg)
	}
}

func TestLoadSettingsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")
	content := `
portfolio_file: my.csv
currency: USD
model: gemini-2.5-pro
timeout_seconds: 5
briefing:
  hour: 7
  minute: 30
  timezone: UTC
indices:
  - name: "S&P 500"
    ticker: "^GSPC"
    term: "S&P 500"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	settings, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("LoadSettings() unexpected error: %v", err)
	}
	if settings.PortfolioFile != "my.csv" || settings.Currency != "USD" {
		t.Errorf("settings = %+v", settings)
	}
	if settings.Timeout() != 5*time.Second {
		t.Errorf("timeout = %v, want 5s", settings.Timeout())
	}
	sched := settings.Schedule()
	if sched.Hour != 7 || sched.Minute != 30 {
		t.Errorf("schedule = %+v, want 07:30", sched)
	}
	if len(settings.Indices) != 1 || settings.Indices[0].Ticker != "^GSPC" {
		t.Errorf("indices = %v: file must replace the defaults", settings.Indices)
	}
}
