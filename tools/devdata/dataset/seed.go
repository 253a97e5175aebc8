package dataset

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/maildesk/maildesk/internal/mail"
)

type samplePerson struct{ name, email string }

type sampleThread struct{ subject, body string }

var samplePeople = []samplePerson{
	{"Maya Chen", "maya@example.com"},
	{"Tom Okafor", "tom@example.com"},
	{"Priya Natarajan", "priya@example.com"},
	{"Sam Alvarez", "sam@example.com"},
	{"Lena Fischer", "lena@example.com"},
}

var sampleThreads = []sampleThread{
	{"Weekly metrics review", "The dashboard numbers are in. Signups are up 4% week over week,\nand churn is flat. Full breakdown attached to the shared doc.\n"},
	{"Quarterly planning notes", "Here are the notes from yesterday's planning session. The two\nbig bets for next quarter are the onboarding revamp and search.\n"},
	{"Standup schedule change", "We're moving standup to 9:30 starting Monday so the Berlin\nfolks can join. Same link as before.\n"},
	{"Invoice from the print shop", "Attached is the invoice for the conference banners. Net 30,\nreference number 4471.\n"},
	{"Offsite logistics", "The venue is booked for the 12th through the 14th. Please fill\nin the dietary form by Friday.\n"},
	{"Design doc feedback", "Left comments on sections 2 and 4. The caching approach looks\nsolid but the invalidation story needs a diagram.\n"},
}

// Seed creates a new dataset at dstDir with perBox generated sample entries
// in each mailbox. Filenames carry date prefixes counting back one day per
// entry, so lists order newest-first without any frontmatter date fields.
func Seed(dstDir string, perBox int) (*Result, error) {
	start := time.Now()

	createdDir := false
	if _, err := os.Stat(dstDir); os.IsNotExist(err) {
		createdDir = true
	}
	if err := os.MkdirAll(dstDir, 0o700); err != nil {
		return nil, fmt.Errorf("create destination directory: %w", err)
	}
	cleanupDir := func() {
		if createdDir {
			_ = os.RemoveAll(dstDir)
		}
	}

	written := 0
	base := time.Now()
	for _, box := range mail.All {
		boxDir := filepath.Join(dstDir, box.Key())
		if err := os.MkdirAll(boxDir, 0o755); err != nil {
			cleanupDir()
			return nil, fmt.Errorf("create %s directory: %w", box.Key(), err)
		}

		for i := 0; i < perBox; i++ {
			thread := sampleThreads[i%len(sampleThreads)]
			date := base.AddDate(0, 0, -i).Format("2006-01-02")
			name := date + "-" + slugify(thread.subject) + ".md"
			content := renderSampleEntry(box, samplePeople[i%len(samplePeople)], thread, i)
			if err := os.WriteFile(filepath.Join(boxDir, name), []byte(content), 0o644); err != nil {
				cleanupDir()
				return nil, fmt.Errorf("write %s: %w", name, err)
			}
			written++
		}
	}

	return &Result{Entries: written, Elapsed: time.Since(start)}, nil
}

// renderSampleEntry renders one entry file. Inbox and archive entries come
// from the sample person; drafts and sent entries go to them as replies.
func renderSampleEntry(box mail.Mailbox, person samplePerson, thread sampleThread, i int) string {
	addr := person.name + " <" + person.email + ">"
	from, to, subject := addr, "you@example.com", thread.subject
	switch box {
	case mail.Drafts, mail.Sent:
		from, to = "you@example.com", addr
		subject = "Re: " + thread.subject
	}
	return fmt.Sprintf("---\nfrom: %s\nto: %s\nsubject: %q\nstatus: %s\n---\n%s",
		from, to, subject, sampleStatus(box, i), thread.body)
}

func sampleStatus(box mail.Mailbox, i int) string {
	switch box {
	case mail.Drafts:
		if i%2 == 1 {
			return "approved"
		}
		return "draft"
	case mail.Sent:
		return "sent"
	case mail.Archive:
		return "archived"
	default:
		return "inbox"
	}
}

// slugify reduces a subject to a filename-safe slug.
func slugify(s string) string {
	var b strings.Builder
	pending := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pending && b.Len() > 0 {
				b.WriteByte('-')
			}
			pending = false
			b.WriteRune(r)
		default:
			pending = true
		}
	}
	return b.String()
}
