package testutil

import (
	"fmt"
	"testing"

	"gopkg.in/yaml.v3"
)

// entryHeader mirrors the frontmatter keys an entry file carries. Rendering
// goes through yaml.Marshal so builder output always parses back cleanly,
// including values that need quoting.
type entryHeader struct {
	From           string `yaml:"from,omitempty"`
	To             string `yaml:"to,omitempty"`
	CC             string `yaml:"cc,omitempty"`
	Subject        string `yaml:"subject,omitempty"`
	Status         string `yaml:"status,omitempty"`
	Date           string `yaml:"date,omitempty"`
	SentAt         string `yaml:"sent_at,omitempty"`
	HasAttachments bool   `yaml:"has_attachments,omitempty"`
}

// EntryBuilder provides a fluent API for constructing entry file content in
// tests.
type EntryBuilder struct {
	header entryHeader
	body   string
}

// NewEntry creates a builder with sensible defaults.
func NewEntry() *EntryBuilder {
	return &EntryBuilder{
		header: entryHeader{
			From:    "sender@example.com",
			Subject: "Test Subject",
		},
		body: "Test body.\n",
	}
}

func (b *EntryBuilder) WithFrom(s string) *EntryBuilder {
	b.header.From = s
	return b
}

func (b *EntryBuilder) WithTo(s string) *EntryBuilder {
	b.header.To = s
	return b
}

func (b *EntryBuilder) WithCC(s string) *EntryBuilder {
	b.header.CC = s
	return b
}

func (b *EntryBuilder) WithSubject(s string) *EntryBuilder {
	b.header.Subject = s
	return b
}

func (b *EntryBuilder) WithStatus(s string) *EntryBuilder {
	b.header.Status = s
	return b
}

func (b *EntryBuilder) WithDate(s string) *EntryBuilder {
	b.header.Date = s
	return b
}

func (b *EntryBuilder) WithSentAt(s string) *EntryBuilder {
	b.header.SentAt = s
	return b
}

func (b *EntryBuilder) WithAttachments() *EntryBuilder {
	b.header.HasAttachments = true
	return b
}

func (b *EntryBuilder) WithBody(s string) *EntryBuilder {
	b.body = s
	return b
}

// String renders the entry as frontmatter plus body.
func (b *EntryBuilder) String() string {
	meta, err := yaml.Marshal(b.header)
	if err != nil {
		panic(fmt.Sprintf("marshal entry header: %v", err))
	}
	return "---\n" + string(meta) + "---\n" + b.body
}

// Write renders the entry and writes it to name inside dir, returning the
// full path.
func (b *EntryBuilder) Write(t *testing.T, dir, name string) string {
	t.Helper()
	return WriteFile(t, dir, name, b.String())
}
