// Package mail defines the on-disk email entry model: one markdown file per
// message with a YAML frontmatter header, grouped into four fixed mailboxes.
package mail

import "strings"

// Mailbox identifies one of the four fixed mail folders.
type Mailbox int

const (
	Inbox Mailbox = iota
	Drafts
	Sent
	Archive

	// MailboxCount sizes the per-mailbox arrays (caches, counts, dirs).
	MailboxCount = 4
)

// All lists the mailboxes in sidebar order.
var All = [MailboxCount]Mailbox{Inbox, Drafts, Sent, Archive}

// String returns the display label.
func (m Mailbox) String() string {
	switch m {
	case Inbox:
		return "Inbox"
	case Drafts:
		return "Drafts"
	case Sent:
		return "Sent"
	case Archive:
		return "Archive"
	default:
		return "Unknown"
	}
}

// Key returns the lower-case identifier used in config keys, env var names,
// and API routes.
func (m Mailbox) Key() string {
	switch m {
	case Inbox:
		return "inbox"
	case Drafts:
		return "drafts"
	case Sent:
		return "sent"
	case Archive:
		return "archive"
	default:
		return "unknown"
	}
}

// Icon returns the sidebar glyph.
func (m Mailbox) Icon() string {
	switch m {
	case Inbox:
		return "✉"
	case Drafts:
		return "✎"
	case Sent:
		return "➤"
	case Archive:
		return "▤"
	default:
		return "?"
	}
}

// ParseMailbox maps a lower-case identifier back to a Mailbox.
func ParseMailbox(s string) (Mailbox, bool) {
	for _, m := range All {
		if m.Key() == s {
			return m, true
		}
	}
	return 0, false
}

// Entry is one parsed email record. Entries are immutable once parsed; a
// file change requires a fresh parse.
type Entry struct {
	Path           string
	From           string
	To             string
	CC             string
	Subject        string
	Status         string
	Date           string // display form, YYYY-MM-DD or empty
	SortDate       string // sortable form, YYYY-MM-DDTHH:MM:SS or empty
	Body           string
	HasAttachments bool
}

// Contact returns the counterpart shown in the list: Inbox and Archive show
// the sender, Drafts and Sent show the recipient.
func (e Entry) Contact(m Mailbox) string {
	switch m {
	case Drafts, Sent:
		return e.To
	default:
		return e.From
	}
}

// DisplayName reduces an address to its short display form:
// `Jane Doe <jane@example.com>` becomes `Jane Doe`, a bare
// `jane@example.com` stays as-is, and `<jane@example.com>` drops the
// angle brackets.
func DisplayName(addr string) string {
	addr = strings.Trim(strings.TrimSpace(addr), `"`)
	idx := strings.Index(addr, "<")
	if idx < 0 {
		return addr
	}
	name := strings.Trim(strings.TrimSpace(addr[:idx]), `"`)
	if name == "" {
		return strings.Trim(addr, "<>")
	}
	return name
}
