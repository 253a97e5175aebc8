package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/maildesk/maildesk/internal/config"
	"github.com/maildesk/maildesk/internal/mail"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactive setup wizard for first-run configuration",
	Long: `Interactive setup wizard to configure maildesk for first use.

This command helps you:
  1. Choose the four mailbox directories
  2. Pick the external mail command and editor
  3. Enable or disable the background change watcher

Answers are written to config.toml and the mailbox directories are
created. Run this once after installing maildesk to get started quickly.`,
	Args: cobra.NoArgs,
	RunE: runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

// setupInput collects the wizard answers before they are applied to the
// config.
type setupInput struct {
	dirs    [mail.MailboxCount]string
	command string
	editor  string
	watch   bool
}

func runSetup(cmd *cobra.Command, args []string) error {
	in := setupInput{
		command: cfg.Mail.Command,
		editor:  cfg.Mail.Editor,
		watch:   cfg.Watch.Enabled,
	}
	for _, box := range mail.All {
		in.dirs[box] = cfg.MailboxDir(box)
	}

	fmt.Println("Welcome to maildesk setup!")
	fmt.Println()

	if err := buildSetupForm(&in).Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Println("Setup cancelled; nothing saved.")
			return nil
		}
		return fmt.Errorf("run setup form: %w", err)
	}

	applySetup(cfg, in)
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	// Reload so ~ expansion applies to the new paths, then create the
	// directories.
	fresh, err := config.Load(cfgFile, homeDir)
	if err != nil {
		return fmt.Errorf("reload config: %w", err)
	}
	if err := fresh.EnsureDirs(); err != nil {
		return fmt.Errorf("create mailbox directories: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", cfg.ConfigFilePath())
	fmt.Println()
	fmt.Println("Setup complete! Next steps:")
	fmt.Println()
	fmt.Println("  1. Open the UI and fetch your mail (press f):")
	fmt.Println("     maildesk")
	fmt.Println()
	fmt.Println("  2. Optional: run the daemon with scheduled fetch/sync jobs:")
	fmt.Println("     maildesk serve")
	fmt.Println()
	fmt.Println("For more help: maildesk --help")

	return nil
}

func buildSetupForm(in *setupInput) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Inbox directory").
				Description("Where incoming mail files live").
				Value(&in.dirs[mail.Inbox]).
				Validate(validateRequired("Inbox directory")),
			huh.NewInput().
				Title("Drafts directory").
				Description("Where draft files live").
				Value(&in.dirs[mail.Drafts]).
				Validate(validateRequired("Drafts directory")),
			huh.NewInput().
				Title("Sent directory").
				Description("Where sent mail files live").
				Value(&in.dirs[mail.Sent]).
				Validate(validateRequired("Sent directory")),
			huh.NewInput().
				Title("Archive directory").
				Description("Where archived mail files live").
				Value(&in.dirs[mail.Archive]).
				Validate(validateRequired("Archive directory")),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Mail command").
				Description("External CLI used for fetch, sync, reply, and send").
				Placeholder("email").
				Value(&in.command).
				Validate(validateRequired("Mail command")),
			huh.NewInput().
				Title("Editor").
				Description("Editor for drafts; leave empty to use $EDITOR, then hx").
				Placeholder("hx").
				Value(&in.editor),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Watch for changes").
				Description("Refresh the UI automatically when mail arrives").
				Affirmative("Yes").
				Negative("No").
				Value(&in.watch),
		),
	)
}

// applySetup writes the wizard answers into the config.
func applySetup(cfg *config.Config, in setupInput) {
	cfg.Mailboxes.Inbox = in.dirs[mail.Inbox]
	cfg.Mailboxes.Drafts = in.dirs[mail.Drafts]
	cfg.Mailboxes.Sent = in.dirs[mail.Sent]
	cfg.Mailboxes.Archive = in.dirs[mail.Archive]
	cfg.Mail.Command = in.command
	cfg.Mail.Editor = in.editor
	cfg.Watch.Enabled = in.watch
}

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}
