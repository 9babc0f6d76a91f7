package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/etnz/pulse"
	"github.com/google/subcommands"
)

// previewCmd runs the pipeline but renders the report to the terminal
// instead of delivering it.
type previewCmd struct {
	force bool
}

func (*previewCmd) Name() string     { return "preview" }
func (*previewCmd) Synopsis() string { return "run the briefing and render it locally" }
func (*previewCmd) Usage() string {
	return `pulse preview [-force]

  Runs the full pipeline (quotes, performance, news, analysis) but renders
  the generated report on the terminal instead of posting it to Telegram.
  No Telegram credentials are required.
`
}

func (c *previewCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.force, "force", false, "run even on a weekend")
}

func (c *previewCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	briefing, err := newBriefing(ctx, cfg, terminalDispatcher{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if c.force {
		briefing.Now = nextWeekday
	}

	outcome, err := briefing.Run(ctx)
	if err != nil {
		return subcommands.ExitFailure
	}
	if outcome == pulse.Skipped {
		fmt.Println("weekend: nothing to preview (use -force)")
	}
	return subcommands.ExitSuccess
}

// nextWeekday is a clock that reports the next non-weekend instant, letting
// a forced preview pass the guard.
func nextWeekday() time.Time {
	t := time.Now()
	for pulse.DateOf(t).IsWeekend() {
		t = t.Add(24 * time.Hour)
	}
	return t
}

// terminalDispatcher renders the report on stdout instead of posting it.
type terminalDispatcher struct{}

func (terminalDispatcher) Send(_ context.Context, text string) error {
	printMarkdown(text)
	return nil
}

func (terminalDispatcher) Alert(_ context.Context, text string) {
	fmt.Fprintln(os.Stderr, text)
}
