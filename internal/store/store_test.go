package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/maildesk/maildesk/internal/mail"
	"github.com/maildesk/maildesk/internal/testutil"
)

func testStore(t *testing.T) (*Store, [mail.MailboxCount]string) {
	t.Helper()
	var dirs [mail.MailboxCount]string
	for _, box := range mail.All {
		dirs[box] = filepath.Join(t.TempDir(), box.Key())
		if err := os.MkdirAll(dirs[box], 0o755); err != nil {
			t.Fatal(err)
		}
	}
	return New(dirs), dirs
}

func writeEntry(t *testing.T, dir, name, subject string) string {
	t.Helper()
	return testutil.NewEntry().WithSubject(subject).Write(t, dir, name)
}

func TestGetOrLoadCaches(t *testing.T) {
	s, dirs := testStore(t)
	path := writeEntry(t, dirs[mail.Inbox], "a.md", "first")

	entries := s.GetOrLoad(mail.Inbox)
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}

	// A disk change without invalidation must not be visible.
	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	entries = s.GetOrLoad(mail.Inbox)
	if len(entries) != 1 {
		t.Errorf("cached load returned %d entries, want 1", len(entries))
	}

	s.Invalidate(mail.Inbox)
	entries = s.GetOrLoad(mail.Inbox)
	if len(entries) != 0 {
		t.Errorf("after invalidation got %d entries, want 0", len(entries))
	}
}

func TestInvalidateIsSelective(t *testing.T) {
	s, dirs := testStore(t)
	writeEntry(t, dirs[mail.Inbox], "a.md", "inbox entry")
	writeEntry(t, dirs[mail.Drafts], "b.md", "draft entry")

	if got := len(s.GetOrLoad(mail.Inbox)); got != 1 {
		t.Fatalf("inbox: got %d entries, want 1", got)
	}
	if got := len(s.GetOrLoad(mail.Drafts)); got != 1 {
		t.Fatalf("drafts: got %d entries, want 1", got)
	}

	writeEntry(t, dirs[mail.Inbox], "c.md", "second inbox entry")
	writeEntry(t, dirs[mail.Drafts], "d.md", "second draft entry")
	s.Invalidate(mail.Drafts)

	if got := len(s.GetOrLoad(mail.Inbox)); got != 1 {
		t.Errorf("inbox should still be cached, got %d entries", got)
	}
	if got := len(s.GetOrLoad(mail.Drafts)); got != 2 {
		t.Errorf("drafts should be reloaded, got %d entries", got)
	}
}

func TestInvalidateAll(t *testing.T) {
	s, dirs := testStore(t)
	s.GetOrLoad(mail.Sent)
	writeEntry(t, dirs[mail.Sent], "a.md", "late arrival")

	s.InvalidateAll()
	if got := len(s.GetOrLoad(mail.Sent)); got != 1 {
		t.Errorf("after InvalidateAll got %d entries, want 1", got)
	}
}

func TestCounts(t *testing.T) {
	s, dirs := testStore(t)
	writeEntry(t, dirs[mail.Inbox], "a.md", "one")
	writeEntry(t, dirs[mail.Inbox], "b.md", "two")
	writeEntry(t, dirs[mail.Archive], "c.md", "three")

	counts, err := s.Counts(context.Background())
	if err != nil {
		t.Fatalf("Counts: %v", err)
	}
	want := [mail.MailboxCount]int{mail.Inbox: 2, mail.Archive: 1}
	if counts != want {
		t.Errorf("Counts = %v, want %v", counts, want)
	}
}

func TestCountsCanceled(t *testing.T) {
	s, _ := testStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := s.Counts(ctx); err == nil {
		t.Error("Counts with canceled context should return error")
	}
}

func TestMailboxFor(t *testing.T) {
	s, dirs := testStore(t)

	box, ok := s.MailboxFor(filepath.Join(dirs[mail.Drafts], "x.md"))
	if !ok || box != mail.Drafts {
		t.Errorf("MailboxFor(drafts file) = %v/%v, want Drafts/true", box, ok)
	}

	if _, ok := s.MailboxFor(filepath.Join(dirs[mail.Drafts], "sub", "x.md")); ok {
		t.Error("MailboxFor should reject nested paths")
	}
	if _, ok := s.MailboxFor("/elsewhere/x.md"); ok {
		t.Error("MailboxFor should reject paths outside all mailboxes")
	}
}
