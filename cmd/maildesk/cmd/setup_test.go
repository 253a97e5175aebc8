package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/maildesk/maildesk/internal/config"
	"github.com/maildesk/maildesk/internal/mail"
)

func TestApplySetupRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()

	cfg, err := config.Load("", tmpDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	in := setupInput{
		dirs: [mail.MailboxCount]string{
			filepath.Join(tmpDir, "mail", "in"),
			filepath.Join(tmpDir, "mail", "drafts"),
			filepath.Join(tmpDir, "mail", "out"),
			filepath.Join(tmpDir, "mail", "old"),
		},
		command: "mailctl",
		editor:  "vim",
		watch:   false,
	}
	applySetup(cfg, in)

	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := config.Load("", tmpDir)
	if err != nil {
		t.Fatalf("reload error = %v", err)
	}

	if loaded.Mail.Command != "mailctl" {
		t.Errorf("Command = %q, want mailctl", loaded.Mail.Command)
	}
	if loaded.Editor() != "vim" {
		t.Errorf("Editor() = %q, want vim", loaded.Editor())
	}
	if loaded.Watch.Enabled {
		t.Error("Watch.Enabled = true, want false")
	}
	for _, box := range mail.All {
		if got := loaded.MailboxDir(box); got != in.dirs[box] {
			t.Errorf("MailboxDir(%s) = %q, want %q", box.Key(), got, in.dirs[box])
		}
	}

	if err := loaded.EnsureDirs(); err != nil {
		t.Fatalf("EnsureDirs() error = %v", err)
	}
	for _, box := range mail.All {
		info, err := os.Stat(in.dirs[box])
		if err != nil {
			t.Fatalf("stat %s dir: %v", box.Key(), err)
		}
		if !info.IsDir() {
			t.Errorf("%s path is not a directory", box.Key())
		}
	}
}

func TestSetupFormFields(t *testing.T) {
	in := setupInput{command: "email", watch: true}
	if form := buildSetupForm(&in); form == nil {
		t.Fatal("buildSetupForm returned nil")
	}
}

func TestValidateRequired(t *testing.T) {
	fn := validateRequired("Mail command")

	if err := fn(""); err == nil {
		t.Error("empty value should fail validation")
	}
	if err := fn("   "); err == nil {
		t.Error("blank value should fail validation")
	}
	if err := fn("email"); err != nil {
		t.Errorf("non-empty value should pass, got: %v", err)
	}
}
