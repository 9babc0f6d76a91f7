package cmd

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/etnz/pulse"
	"github.com/etnz/pulse/telegram"
	"github.com/google/subcommands"
	"github.com/joho/godotenv"
)

// chatidCmd discovers the Telegram chat id for the configured bot.
type chatidCmd struct{}

func (*chatidCmd) Name() string     { return "chatid" }
func (*chatidCmd) Synopsis() string { return "discover the Telegram chat id and send a test message" }
func (*chatidCmd) Usage() string {
	return `pulse chatid

  Reads the bot's pending updates, prints the chat id of the latest one, and
  sends a connectivity test message to it. Requires TELEGRAM_TOKEN, and that
  the user has messaged the bot at least once.
`
}
func (*chatidCmd) SetFlags(f *flag.FlagSet) {}

func (c *chatidCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	_ = godotenv.Load()
	token := os.Getenv("TELEGRAM_TOKEN")
	if token == "" {
		fmt.Fprintln(os.Stderr, "Error: TELEGRAM_TOKEN not found in environment or .env")
		return subcommands.ExitFailure
	}

	settings, err := pulse.LoadSettings(*settingsFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	bot := telegram.New(&http.Client{Timeout: settings.Timeout()}, token, "")

	chatID, err := bot.DiscoverChatID(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintln(os.Stderr, "To fix this: open the bot in Telegram, send it a message, and run this command again.")
		return subcommands.ExitFailure
	}

	fmt.Printf("Found chat id: %s\n", chatID)
	bot.ChatID = chatID
	if err := bot.Send(ctx, "System online: pulse briefing ready"); err != nil {
		fmt.Fprintf(os.Stderr, "Error sending test message: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Println("Test message sent.")
	return subcommands.ExitSuccess
}
