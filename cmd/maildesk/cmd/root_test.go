package cmd

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/spf13/cobra"
)

// newTestRootCmd creates a fresh root command for testing, avoiding mutation
// of the global rootCmd which could cause race conditions in parallel tests.
func newTestRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "maildesk",
		Short: "Terminal mail triage client",
	}
}

// TestExecuteContext_CancellationPropagates verifies that context cancellation
// from ExecuteContext propagates to command handlers.
func TestExecuteContext_CancellationPropagates(t *testing.T) {
	var contextWasCancelled atomic.Bool

	// Signal when the command handler has started waiting on ctx.Done()
	handlerStarted := make(chan struct{})

	testRoot := newTestRootCmd()

	testCmd := &cobra.Command{
		Use:   "test-cancel",
		Short: "Test command for context cancellation",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			close(handlerStarted)
			select {
			case <-ctx.Done():
				contextWasCancelled.Store(true)
				return ctx.Err()
			case <-time.After(5 * time.Second):
				return nil
			}
		},
	}

	testRoot.AddCommand(testCmd)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		testRoot.SetArgs([]string{"test-cancel"})
		done <- testRoot.ExecuteContext(ctx)
	}()

	select {
	case <-handlerStarted:
	case <-time.After(2 * time.Second):
		t.Fatal("command handler did not start in time")
	}

	// Cancel the context (simulates SIGINT/SIGTERM)
	cancel()

	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("expected context.Canceled error, got: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("ExecuteContext did not return after context cancellation")
	}

	if !contextWasCancelled.Load() {
		t.Error("command did not observe context cancellation")
	}
}

// TestExecute_UsesBackgroundContext verifies Execute() works with background context.
func TestExecute_UsesBackgroundContext(t *testing.T) {
	testRoot := newTestRootCmd()

	completed := make(chan struct{})
	testCmd := &cobra.Command{
		Use:   "test-execute",
		Short: "Test command for Execute",
		RunE: func(cmd *cobra.Command, args []string) error {
			close(completed)
			return nil
		},
	}

	testRoot.AddCommand(testCmd)

	testRoot.SetArgs([]string{"test-execute"})
	if err := testRoot.Execute(); err != nil {
		t.Fatalf("Execute() returned error: %v", err)
	}

	select {
	case <-completed:
	case <-time.After(time.Second):
		t.Fatal("command did not complete")
	}
}

// TestExecuteContext_PropagatesContext verifies ExecuteContext passes the
// context to command handlers.
//
// NOTE: This test modifies the package-level rootCmd variable and must NOT
// use t.Parallel().
func TestExecuteContext_PropagatesContext(t *testing.T) {
	savedRootCmd := rootCmd
	defer func() { rootCmd = savedRootCmd }()

	testRoot := newTestRootCmd()

	var receivedCtx context.Context
	testCmd := &cobra.Command{
		Use:   "test-ctx",
		Short: "Test command for context verification",
		RunE: func(cmd *cobra.Command, args []string) error {
			receivedCtx = cmd.Context()
			return nil
		},
	}
	testRoot.AddCommand(testCmd)

	rootCmd = testRoot

	type ctxKey string
	ctx := context.WithValue(context.Background(), ctxKey("marker"), "present")
	testRoot.SetArgs([]string{"test-ctx"})
	if err := ExecuteContext(ctx); err != nil {
		t.Fatalf("ExecuteContext() returned error: %v", err)
	}

	if receivedCtx == nil {
		t.Fatal("command handler did not receive a context")
	}
	if got := receivedCtx.Value(ctxKey("marker")); got != "present" {
		t.Errorf("context value = %v, want \"present\"", got)
	}
}
