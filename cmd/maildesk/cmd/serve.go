package cmd

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/maildesk/maildesk/internal/api"
	"github.com/maildesk/maildesk/internal/mailcmd"
	"github.com/maildesk/maildesk/internal/scheduler"
	"github.com/maildesk/maildesk/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run maildesk as a daemon with scheduled mail jobs",
	Long: `Run maildesk as a long-running daemon that fetches and syncs mail on
schedule.

The daemon runs in the foreground and performs:
  - HTTP API server on the configured port (default: 8080)
  - Scheduled fetch/sync jobs via the external mail command
  - Cache invalidation after each job so reads see fresh mail

Configure schedules in config.toml:
  [[schedule]]
  job = "fetch"
  schedule = "*/15 * * * *"   # every 15 minutes (cron format)
  enabled = true

Cron format: minute hour day-of-month month day-of-week
  Examples:
    0 2 * * *     = 2:00 AM daily
    */15 * * * *  = Every 15 minutes
    0 0 * * 0     = Midnight on Sundays
    0 8,18 * * *  = 8 AM and 6 PM daily

Use Ctrl+C to stop the daemon gracefully.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	// Validate security posture before doing any work
	if err := cfg.Server.ValidateSecure(); err != nil {
		return err
	}

	scheduled := cfg.ScheduledJobs()
	if len(scheduled) == 0 {
		return fmt.Errorf("no scheduled jobs configured\n\nAdd jobs to config.toml:\n\n  [[schedule]]\n  job = \"fetch\"\n  schedule = \"*/15 * * * *\"\n  enabled = true")
	}

	st := store.New(cfg.MailboxDirs())
	runner := mailcmd.New(cfg.Mail.Command, cfg.Editor())

	jobFunc := func(ctx context.Context, name string) error {
		return runScheduledJob(ctx, name, st, runner)
	}

	sched := scheduler.New(jobFunc).WithLogger(logger)

	count, errs := sched.AddJobsFromConfig(cfg)
	if len(errs) > 0 {
		for _, err := range errs {
			logger.Error("failed to schedule job", "error", err)
		}
	}
	if count == 0 {
		return fmt.Errorf("no jobs could be scheduled")
	}

	// Set up signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	sched.Start()

	// The store and scheduler satisfy the API interfaces directly.
	apiServer := api.NewServer(cfg, st, sched, logger)

	serverErr := make(chan error, 1)
	go func() {
		if err := apiServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	bindAddr := cfg.Server.BindAddr
	if bindAddr == "" {
		bindAddr = "127.0.0.1"
	}
	fmt.Printf("maildesk daemon started\n")
	fmt.Printf("  API server: http://%s\n", net.JoinHostPort(bindAddr, strconv.Itoa(cfg.Server.APIPort)))
	fmt.Printf("  Scheduled jobs: %d\n", count)
	fmt.Printf("  Mail command: %s\n", runner.Command())
	fmt.Println()
	fmt.Println("Press Ctrl+C to stop.")
	fmt.Println()

	for _, status := range sched.Status() {
		fmt.Printf("  %s: next run at %s\n", status.Name, status.NextRun.Local().Format("2006-01-02 15:04:05"))
	}
	fmt.Println()

	// Wait for shutdown signal or server error
	select {
	case sig := <-sigChan:
		logger.Info("received shutdown signal", "signal", sig)
		fmt.Printf("\nReceived %s, shutting down...\n", sig)
	case err := <-serverErr:
		logger.Error("API server error", "error", err)
		fmt.Printf("\nAPI server error: %v\n", err)
	case <-ctx.Done():
		logger.Info("context cancelled")
	}

	fmt.Println("Shutting down API server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("API server shutdown error", "error", err)
	}

	fmt.Println("Waiting for running jobs to complete...")
	schedCtx := sched.Stop()

	select {
	case <-schedCtx.Done():
		fmt.Println("Shutdown complete.")
	case <-time.After(30 * time.Second):
		fmt.Println("Shutdown timed out after 30 seconds.")
	}

	return nil
}

// runScheduledJob runs one named job against the external mail command and
// invalidates the shared store so the next API or MCP read rescans disk.
func runScheduledJob(ctx context.Context, name string, st *store.Store, runner *mailcmd.Runner) error {
	logger.Info("starting scheduled job", "job", name)
	start := time.Now()

	var err error
	switch name {
	case "fetch":
		_, err = runner.Fetch(ctx)
	case "sync":
		_, err = runner.Sync(ctx)
	default:
		return fmt.Errorf("unknown job %q", name)
	}
	if err != nil {
		return err
	}

	st.InvalidateAll()

	logger.Info("scheduled job finished", "job", name, "duration", time.Since(start))
	return nil
}
