package dataset

import (
	"os"
	"path/filepath"
	"testing"
)

// writeEntryFile writes an entry with the given content into a dataset
// mailbox, creating directories as needed.
func writeEntryFile(t *testing.T, datasetDir, boxKey, name, content string) {
	t.Helper()
	dir := filepath.Join(datasetDir, boxKey)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestCopySubset_NewestPerMailbox(t *testing.T) {
	srcDir := t.TempDir()
	dstDir := filepath.Join(t.TempDir(), "dst")

	writeEntryFile(t, srcDir, "inbox", "2025-06-01-old.md", "---\nsubject: Old\n---\nOld body.\n")
	writeEntryFile(t, srcDir, "inbox", "2025-06-02-mid.md", "---\nsubject: Mid\n---\nMid body.\n")
	writeEntryFile(t, srcDir, "inbox", "2025-06-03-new.md", "---\nsubject: New\n---\nNew body.\n")
	writeEntryFile(t, srcDir, "drafts", "2025-06-02-reply.md", "---\nsubject: Reply\n---\nDraft body.\n")
	writeEntryFile(t, srcDir, "archive", "2025-05-01-done.md", "---\nsubject: Done\n---\nDone.\n")
	writeEntryFile(t, srcDir, "archive", "2025-05-02-also.md", "---\nsubject: Also\n---\nAlso.\n")

	result, err := CopySubset(srcDir, dstDir, 2)
	if err != nil {
		t.Fatalf("CopySubset: %v", err)
	}

	// 2 newest from inbox, 1 from drafts, 0 from sent, 2 from archive
	if result.Entries != 5 {
		t.Errorf("Entries = %d, want 5", result.Entries)
	}

	// Newest two inbox entries copied, oldest not
	if !Exists(filepath.Join(dstDir, "inbox", "2025-06-03-new.md")) {
		t.Error("newest inbox entry missing from destination")
	}
	if !Exists(filepath.Join(dstDir, "inbox", "2025-06-02-mid.md")) {
		t.Error("second-newest inbox entry missing from destination")
	}
	if Exists(filepath.Join(dstDir, "inbox", "2025-06-01-old.md")) {
		t.Error("oldest inbox entry should not have been copied")
	}

	// Content is preserved byte for byte
	content, err := os.ReadFile(filepath.Join(dstDir, "inbox", "2025-06-03-new.md"))
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != "---\nsubject: New\n---\nNew body.\n" {
		t.Errorf("copied content = %q, want original", string(content))
	}

	// All four mailbox directories exist even when the source had no sent
	for _, key := range []string{"inbox", "drafts", "sent", "archive"} {
		info, err := os.Stat(filepath.Join(dstDir, key))
		if err != nil || !info.IsDir() {
			t.Errorf("destination %s directory missing", key)
		}
	}
}

func TestCopySubset_AllEntries(t *testing.T) {
	srcDir := t.TempDir()
	dstDir := filepath.Join(t.TempDir(), "dst")

	writeEntryFile(t, srcDir, "inbox", "2025-06-01-a.md", "a")
	writeEntryFile(t, srcDir, "inbox", "2025-06-02-b.md", "b")
	writeEntryFile(t, srcDir, "sent", "2025-06-03-c.md", "c")

	// Request more than available
	result, err := CopySubset(srcDir, dstDir, 100)
	if err != nil {
		t.Fatalf("CopySubset: %v", err)
	}

	if result.Entries != 3 {
		t.Errorf("Entries = %d, want 3 (all available)", result.Entries)
	}
}

func TestCopySubset_DestinationEmptyDir(t *testing.T) {
	srcDir := t.TempDir()
	dstDir := filepath.Join(t.TempDir(), "dst")

	writeEntryFile(t, srcDir, "inbox", "2025-06-01-a.md", "a")

	// Pre-existing empty destination is fine; MkdirAll is idempotent.
	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		t.Fatal(err)
	}

	result, err := CopySubset(srcDir, dstDir, 5)
	if err != nil {
		t.Fatalf("CopySubset with pre-existing empty dir: %v", err)
	}

	if result.Entries != 1 {
		t.Errorf("Entries = %d, want 1", result.Entries)
	}
}

func TestCopySubset_DestinationEntryExists(t *testing.T) {
	srcDir := t.TempDir()
	dstDir := filepath.Join(t.TempDir(), "dst")

	writeEntryFile(t, srcDir, "inbox", "2025-06-01-hello.md", "---\nsubject: Hi\n---\nNew.\n")
	writeEntryFile(t, dstDir, "inbox", "2025-06-01-hello.md", "original")

	_, err := CopySubset(srcDir, dstDir, 5)
	if err == nil {
		t.Fatal("expected error when destination entry already exists")
	}

	// The pre-existing destination survives the failed copy
	content, readErr := os.ReadFile(filepath.Join(dstDir, "inbox", "2025-06-01-hello.md"))
	if readErr != nil {
		t.Fatal(readErr)
	}
	if string(content) != "original" {
		t.Errorf("destination entry content = %q, want untouched original", string(content))
	}
}
