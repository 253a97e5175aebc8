package mail

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadSortsNewestFirst(t *testing.T) {
	dir := t.TempDir()
	writeEntry(t, dir, "old.md", "---\nsent_at: 2024-01-15T08:00:00Z\nsubject: old\n---\n")
	writeEntry(t, dir, "new.md", "---\nsent_at: 2025-06-01T09:30:00Z\nsubject: new\n---\n")
	writeEntry(t, dir, "mid.md", "---\nsent_at: 2024-12-31T23:59:59Z\nsubject: mid\n---\n")
	writeEntry(t, dir, "undated.md", "---\nsubject: undated\n---\n")

	entries := Load(dir)
	if len(entries) != 4 {
		t.Fatalf("got %d entries, want 4", len(entries))
	}
	order := []string{"new", "mid", "old", "undated"}
	for i, subject := range order {
		if entries[i].Subject != subject {
			t.Errorf("entries[%d].Subject = %q, want %q", i, entries[i].Subject, subject)
		}
	}
}

func TestLoadSkipsMalformed(t *testing.T) {
	dir := t.TempDir()
	writeEntry(t, dir, "good.md", "---\nsubject: keep me\n---\nbody\n")
	writeEntry(t, dir, "bad.md", "---\nsubject: \"unterminated\n---\nbody\n")

	entries := Load(dir)
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if entries[0].Subject != "keep me" {
		t.Errorf("Subject = %q, want %q", entries[0].Subject, "keep me")
	}
}

func TestLoadIgnoresNonEntries(t *testing.T) {
	dir := t.TempDir()
	writeEntry(t, dir, "note.md", "---\nsubject: only\n---\n")
	writeEntry(t, dir, "notes.txt", "not an entry")
	if err := os.Mkdir(filepath.Join(dir, "nested.md"), 0o755); err != nil {
		t.Fatal(err)
	}
	writeEntry(t, filepath.Join(dir, "nested.md"), "inner.md", "---\nsubject: nested\n---\n")

	entries := Load(dir)
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if entries[0].Subject != "only" {
		t.Errorf("Subject = %q, want %q", entries[0].Subject, "only")
	}
}

func TestLoadMissingDir(t *testing.T) {
	if entries := Load(filepath.Join(t.TempDir(), "absent")); len(entries) != 0 {
		t.Errorf("got %d entries for missing dir, want 0", len(entries))
	}
}

func TestCount(t *testing.T) {
	dir := t.TempDir()
	writeEntry(t, dir, "a.md", "---\n---\n")
	writeEntry(t, dir, "b.md", "body only")
	writeEntry(t, dir, "c.txt", "ignored")

	if n := Count(dir); n != 2 {
		t.Errorf("Count = %d, want 2", n)
	}
	if n := Count(filepath.Join(dir, "absent")); n != 0 {
		t.Errorf("Count(missing) = %d, want 0", n)
	}
}
