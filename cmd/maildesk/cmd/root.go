package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/maildesk/maildesk/internal/config"
	"github.com/maildesk/maildesk/internal/mailcmd"
	"github.com/maildesk/maildesk/internal/store"
	"github.com/maildesk/maildesk/internal/tui"
	"github.com/maildesk/maildesk/internal/watcher"
)

// Version is the release version, overridden at build time via
// -ldflags "-X github.com/maildesk/maildesk/cmd/maildesk/cmd.Version=...".
var Version = "dev"

var (
	cfgFile string
	homeDir string
	verbose bool
	cfg     *config.Config
	logger  *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:     "maildesk",
	Short:   "Terminal mail triage client",
	Version: Version,
	Long: `maildesk is a terminal client for triaging mail kept as markdown files
in four mailbox directories (inbox, drafts, sent, archive). All mail
operations shell out to the external "email" command; maildesk itself
only reads the mailbox files.

Running maildesk with no arguments opens the interactive UI.

Navigation:
  ↑/k, ↓/j    Move selection
  gg / G      First / last entry
  Tab         Cycle panes
  1-4         Jump to mailbox
  /           Search headers (\ to include bodies)

Mail:
  Enter/e     Edit in editor
  r / R       Reply / reply all
  a / d       Archive / delete
  f / F       Fetch / full sync
  ?           Full key reference`,
	RunE: runTUI,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		}))

		// Load config (--home is passed through so it influences
		// where config.toml is loaded from, like MAILDESK_HOME).
		var err error
		cfg, err = config.Load(cfgFile, homeDir)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		// Ensure the home and mailbox directories exist on first use
		if err := cfg.EnsureDirs(); err != nil {
			return fmt.Errorf("create data directories under %s: %w", cfg.HomeDir, err)
		}

		return nil
	},
}

func runTUI(cmd *cobra.Command, args []string) error {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return fmt.Errorf("maildesk is an interactive terminal application; run it in a terminal or use the serve/mcp subcommands")
	}

	st := store.New(cfg.MailboxDirs())
	runner := mailcmd.New(cfg.Mail.Command, cfg.Editor())

	var events <-chan watcher.Event
	if cfg.Watch.Enabled {
		ctx := cmd.Context()
		w := watcher.New(func() (bool, error) {
			return runner.Watch(ctx, cfg.Watch.TimeoutSecs)
		}, watcher.WithFatal(mailcmd.IsNotInstalled))
		w.Start()
		defer w.Stop()
		events = w.Events()
	}

	model := tui.New(st, runner, tui.Options{Events: events})
	p := tea.NewProgram(model, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}

	return nil
}

// Execute runs the root command with a background context.
// Prefer ExecuteContext for signal-aware execution.
func Execute() error {
	return ExecuteContext(context.Background())
}

// ExecuteContext runs the root command with the given context,
// enabling graceful shutdown when the context is cancelled.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.maildesk/config.toml)")
	rootCmd.PersistentFlags().StringVar(&homeDir, "home", "", "home directory (overrides MAILDESK_HOME)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
