package mail

import "testing"

func TestDisplayName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"name with address", "Jane Doe <jane@example.com>", "Jane Doe"},
		{"bare address", "jane@example.com", "jane@example.com"},
		{"bracketed address only", "<jane@example.com>", "jane@example.com"},
		{"quoted name", `"Doe, Jane" <jane@example.com>`, "Doe, Jane"},
		{"quoted bare address", `"jane@example.com"`, "jane@example.com"},
		{"surrounding whitespace", "  Jane Doe <jane@example.com>  ", "Jane Doe"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DisplayName(tt.input); got != tt.expected {
				t.Errorf("DisplayName(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestMailboxRoundTrip(t *testing.T) {
	for _, m := range All {
		got, ok := ParseMailbox(m.Key())
		if !ok {
			t.Fatalf("ParseMailbox(%q) not recognized", m.Key())
		}
		if got != m {
			t.Errorf("ParseMailbox(%q) = %v, want %v", m.Key(), got, m)
		}
	}
	if _, ok := ParseMailbox("junk"); ok {
		t.Error("ParseMailbox(\"junk\") should not be recognized")
	}
}

func TestMailboxLabels(t *testing.T) {
	for _, m := range All {
		if m.String() == "" || m.String() == "Unknown" {
			t.Errorf("mailbox %d has no label", int(m))
		}
		if m.Icon() == "" {
			t.Errorf("mailbox %v has no icon", m)
		}
	}
}

func TestEntryContact(t *testing.T) {
	e := Entry{From: "Alice", To: "Bob"}
	tests := []struct {
		mailbox  Mailbox
		expected string
	}{
		{Inbox, "Alice"},
		{Archive, "Alice"},
		{Drafts, "Bob"},
		{Sent, "Bob"},
	}
	for _, tt := range tests {
		t.Run(tt.mailbox.String(), func(t *testing.T) {
			if got := e.Contact(tt.mailbox); got != tt.expected {
				t.Errorf("Contact(%v) = %q, want %q", tt.mailbox, got, tt.expected)
			}
		})
	}
}
