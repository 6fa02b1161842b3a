package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/hpungsan/mog/internal/config"
	"github.com/hpungsan/mog/internal/draft"
	"github.com/hpungsan/mog/internal/extproc"
	"github.com/hpungsan/mog/internal/history"
	"github.com/hpungsan/mog/internal/session"
)

// newApp creates the CLI application. Running with no subcommand starts
// the interactive session.
func newApp() *cli.App {
	app := &cli.App{
		Name:    "mog",
		Usage:   "Interactive session for the moggie mail engine",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"C"}, Value: config.DefaultPath(), Usage: "Config file path"},
			&cli.StringFlag{Name: "moggie", Usage: "Mail engine binary (overrides config)"},
			&cli.StringFlag{Name: "drafts", Usage: "Drafts root directory (overrides config)"},
			&cli.BoolFlag{Name: "no-history", Usage: "Do not record searches"},
		},
		Commands: []*cli.Command{
			historyCmd(),
			draftsCmd(),
		},
		Action: runSession,
	}
	return app
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}
	if bin := c.String("moggie"); bin != "" {
		cfg.Moggie = bin
	}
	if dir := c.String("drafts"); dir != "" {
		cfg.DraftsDir = dir
	}
	if c.Bool("no-history") {
		cfg.HistoryEnabled = false
	}
	return cfg, nil
}

// runSession starts the interactive prompt loop.
func runSession(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	sess := session.New(cfg, extproc.ExecRunner{}, nil, os.Stdin, os.Stdout)
	if cfg.HistoryEnabled {
		db, err := history.Init(config.DefaultDataDir())
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: history disabled: %v\n", err)
		} else {
			defer db.Close()
			sess.History = db
		}
	}

	printBanner()
	return sess.Loop(ctx)
}

// historyCmd lists recent searches without entering the session.
func historyCmd() *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "List recent searches",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: 20, Usage: "Maximum entries to show"},
		},
		Action: func(c *cli.Context) error {
			db, err := history.Init(config.DefaultDataDir())
			if err != nil {
				return err
			}
			defer db.Close()

			entries, err := history.Recent(db, c.Int("limit"))
			if err != nil {
				return err
			}
			for _, e := range entries {
				fmt.Printf("%4d  %4d hits  %s  %s\n",
					e.ID, e.Hits, e.RanAt.Local().Format("2006-01-02 15:04"), e.Query)
			}
			return nil
		},
	}
}

// draftsCmd lists draft directories without entering the session.
func draftsCmd() *cli.Command {
	return &cli.Command{
		Name:  "drafts",
		Usage: "List draft directories",
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			drafts, err := draft.List(cfg.DraftsDir)
			if err != nil {
				return err
			}
			for _, d := range drafts {
				subject := d.Subject
				if subject == "" {
					subject = "(no subject)"
				}
				fmt.Printf("%s\t%s\n", d.Dir, subject)
			}
			fmt.Printf("%d draft(s)\n", len(drafts))
			return nil
		},
	}
}

// printBanner displays a short banner when the session starts.
func printBanner() {
	fmt.Print(`
   _ __ ___   ___   __ _
  | '_ ' _ \ / _ \ / _' |
  | | | | | | (_) | (_| |
  |_| |_| |_|\___/ \__, |
                   |___/
  mail session for moggie (type ? for commands)

`)
}
