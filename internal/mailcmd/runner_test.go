package mailcmd

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/maildesk/maildesk/internal/testutil"
)

func TestRunCapturesOutput(t *testing.T) {
	r := New(testutil.FakeMailCmd(t, `echo "Fetched 3 messages"`), "true")

	out, err := r.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if out != "Fetched 3 messages" {
		t.Errorf("output = %q, want %q", out, "Fetched 3 messages")
	}
}

func TestRunSurfacesStderr(t *testing.T) {
	r := New(testutil.FakeMailCmd(t, `echo "imap timeout" >&2; exit 1`), "true")

	_, err := r.Sync(context.Background())
	if err == nil {
		t.Fatal("expected error for failing command")
	}
	if !strings.Contains(err.Error(), "imap timeout") {
		t.Errorf("error = %q, want it to contain the stderr text", err)
	}
}

func TestRunFallsBackToStdout(t *testing.T) {
	r := New(testutil.FakeMailCmd(t, `echo "nothing to send"; exit 1`), "true")

	_, err := r.Send(context.Background(), "x.md")
	if err == nil {
		t.Fatal("expected error for failing command")
	}
	if !strings.Contains(err.Error(), "nothing to send") {
		t.Errorf("error = %q, want it to contain the stdout text", err)
	}
}

func TestWatchOutcomes(t *testing.T) {
	tests := []struct {
		name        string
		script      string
		wantChanged bool
		wantErr     bool
	}{
		{"change detected", "exit 0", true, false},
		{"quiet timeout", "exit 2", false, false},
		{"transient failure", `echo "connection reset" >&2; exit 1`, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(testutil.FakeMailCmd(t, tt.script), "true")
			changed, err := r.Watch(context.Background(), 30)
			if changed != tt.wantChanged {
				t.Errorf("changed = %v, want %v", changed, tt.wantChanged)
			}
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestIsNotInstalled(t *testing.T) {
	r := New("definitely-not-a-real-mail-command", "true")

	_, err := r.Fetch(context.Background())
	if err == nil {
		t.Fatal("expected error for missing binary")
	}
	if !IsNotInstalled(err) {
		t.Errorf("IsNotInstalled(%v) = false, want true", err)
	}

	if IsNotInstalled(errors.New("some other failure")) {
		t.Error("IsNotInstalled should be false for unrelated errors")
	}
}

func TestParseDraftPath(t *testing.T) {
	tests := []struct {
		name     string
		output   string
		wantPath string
		wantOK   bool
	}{
		{
			"single created line",
			"Created: /home/u/.maildesk/drafts/2025-06-01-re-budget.md",
			"/home/u/.maildesk/drafts/2025-06-01-re-budget.md",
			true,
		},
		{
			"created line among noise",
			"Replying to budget review\nCreated: drafts/re-budget.md\nDone.",
			"drafts/re-budget.md",
			true,
		},
		{
			"indented created line",
			"  Created:   drafts/re-budget.md  ",
			"drafts/re-budget.md",
			true,
		},
		{"no created line", "Reply drafted.", "", false},
		{"created with empty path", "Created:   ", "", false},
		{"empty output", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, ok := ParseDraftPath(tt.output)
			if path != tt.wantPath || ok != tt.wantOK {
				t.Errorf("ParseDraftPath(%q) = (%q, %v), want (%q, %v)",
					tt.output, path, ok, tt.wantPath, tt.wantOK)
			}
		})
	}
}
