package cmd

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/subcommands"
)

// pollInterval is how often the daemon checks whether the schedule is due.
const pollInterval = time.Minute

// daemonCmd runs the briefing on a daily schedule, forever.
type daemonCmd struct{}

func (*daemonCmd) Name() string     { return "daemon" }
func (*daemonCmd) Synopsis() string { return "run the briefing every day at the scheduled time" }
func (*daemonCmd) Usage() string {
	return `pulse daemon

  Runs indefinitely, firing the briefing pipeline once a day at the time
  configured in the settings file (default 06:00 America/New_York). The next
  firing time is recomputed after every run, so daylight-saving shifts move
  it with the wall clock.
`
}
func (*daemonCmd) SetFlags(f *flag.FlagSet) {}

func (c *daemonCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	briefing, err := newBriefing(ctx, cfg, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}

	sched := cfg.Schedule()
	next := sched.Next(time.Now())
	log.Printf("daemon: next briefing at %s", next)

	for {
		select {
		case <-ctx.Done():
			return subcommands.ExitSuccess
		case <-time.After(pollInterval):
		}
		if time.Now().Before(next) {
			continue
		}

		outcome, _ := briefing.Run(ctx)
		log.Printf("daemon: briefing %s", outcome)

		next = sched.Next(time.Now())
		log.Printf("daemon: next briefing at %s", next)
	}
}
