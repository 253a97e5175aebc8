package mcp

import (
	"context"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/maildesk/maildesk/internal/mail"
)

// Tool name constants.
const (
	ToolListMailboxes = "list_mailboxes"
	ToolListEntries   = "list_entries"
	ToolSearchEntries = "search_entries"
	ToolReadEntry     = "read_entry"
)

// EntryStore is the read side of the entry store the MCP tools run against.
type EntryStore interface {
	GetOrLoad(box mail.Mailbox) []mail.Entry
	Counts(ctx context.Context) ([mail.MailboxCount]int, error)
	Dir(box mail.Mailbox) string
	MailboxFor(path string) (mail.Mailbox, bool)
}

// Common argument helpers for recurring tool option definitions.

func withLimit(defaultDesc string) mcp.ToolOption {
	return mcp.WithNumber("limit",
		mcp.Description("Maximum results to return (default "+defaultDesc+")"),
	)
}

func withOffset() mcp.ToolOption {
	return mcp.WithNumber("offset",
		mcp.Description("Number of results to skip for pagination (default 0)"),
	)
}

func mailboxKeys() []string {
	keys := make([]string, 0, len(mail.All))
	for _, box := range mail.All {
		keys = append(keys, box.Key())
	}
	return keys
}

// Serve creates an MCP server with mailbox tools and serves over stdio.
// It blocks until stdin is closed or the context is cancelled.
func Serve(ctx context.Context, store EntryStore, version string) error {
	s := server.NewMCPServer(
		"maildesk",
		version,
		server.WithToolCapabilities(false),
	)

	h := &handlers{store: store}

	s.AddTool(listMailboxesTool(), h.listMailboxes)
	s.AddTool(listEntriesTool(), h.listEntries)
	s.AddTool(searchEntriesTool(), h.searchEntries)
	s.AddTool(readEntryTool(), h.readEntry)

	stdio := server.NewStdioServer(s)
	return stdio.Listen(ctx, os.Stdin, os.Stdout)
}

func listMailboxesTool() mcp.Tool {
	return mcp.NewTool(ToolListMailboxes,
		mcp.WithDescription("List the four mailboxes with their directories and entry counts."),
		mcp.WithReadOnlyHintAnnotation(true),
	)
}

func listEntriesTool() mcp.Tool {
	return mcp.NewTool(ToolListEntries,
		mcp.WithDescription("List entries in one mailbox, newest first. Returns summaries without bodies; use read_entry for the full text."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithString("mailbox",
			mcp.Required(),
			mcp.Description("Mailbox to list"),
			mcp.Enum(mailboxKeys()...),
		),
		withLimit("20"),
		withOffset(),
	)
}

func searchEntriesTool() mcp.Tool {
	return mcp.NewTool(ToolSearchEntries,
		mcp.WithDescription("Search entries by case-insensitive substring over subject, sender, recipients, and date. Set include_body to also match body text."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Substring to match"),
		),
		mcp.WithString("mailbox",
			mcp.Description("Restrict the search to one mailbox (default: all mailboxes)"),
			mcp.Enum(mailboxKeys()...),
		),
		mcp.WithBoolean("include_body",
			mcp.Description("Also match against entry bodies"),
		),
		withLimit("20"),
		withOffset(),
	)
}

func readEntryTool() mcp.Tool {
	return mcp.NewTool(ToolReadEntry,
		mcp.WithDescription("Read one full entry, including its body, by file path. Use list_entries or search_entries first to find paths."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Entry file path (from list_entries or search_entries)"),
		),
	)
}
