package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"path/filepath"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/maildesk/maildesk/internal/mail"
	"github.com/maildesk/maildesk/internal/search"
)

const maxLimit = 500

type handlers struct {
	store EntryStore
}

type mailboxInfo struct {
	Name  string `json:"name"`
	Key   string `json:"key"`
	Dir   string `json:"dir"`
	Count int    `json:"count"`
}

type entrySummary struct {
	Path           string `json:"path"`
	Mailbox        string `json:"mailbox"`
	Subject        string `json:"subject"`
	From           string `json:"from,omitempty"`
	To             string `json:"to,omitempty"`
	CC             string `json:"cc,omitempty"`
	Status         string `json:"status"`
	Date           string `json:"date,omitempty"`
	HasAttachments bool   `json:"has_attachments,omitempty"`
}

type entryDetail struct {
	entrySummary
	Body string `json:"body"`
}

func summarize(box mail.Mailbox, e mail.Entry) entrySummary {
	return entrySummary{
		Path:           e.Path,
		Mailbox:        box.Key(),
		Subject:        e.Subject,
		From:           e.From,
		To:             e.To,
		CC:             e.CC,
		Status:         e.Status,
		Date:           e.Date,
		HasAttachments: e.HasAttachments,
	}
}

func (h *handlers) listMailboxes(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	counts, err := h.store.Counts(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("count failed: %v", err)), nil
	}

	infos := make([]mailboxInfo, 0, len(mail.All))
	for _, box := range mail.All {
		infos = append(infos, mailboxInfo{
			Name:  box.String(),
			Key:   box.Key(),
			Dir:   h.store.Dir(box),
			Count: counts[box],
		})
	}

	return jsonResult(infos)
}

func (h *handlers) listEntries(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()

	name, _ := args["mailbox"].(string)
	if name == "" {
		return mcp.NewToolResultError("mailbox parameter is required"), nil
	}
	box, ok := mail.ParseMailbox(name)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("unknown mailbox %q", name)), nil
	}

	limit := intArg(args, "limit", 20)
	offset := intArg(args, "offset", 0)

	page := paginate(h.store.GetOrLoad(box), limit, offset)

	summaries := make([]entrySummary, 0, len(page))
	for _, e := range page {
		summaries = append(summaries, summarize(box, e))
	}

	return jsonResult(summaries)
}

func (h *handlers) searchEntries(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()

	queryStr, _ := args["query"].(string)
	if queryStr == "" {
		return mcp.NewToolResultError("query parameter is required"), nil
	}
	includeBody, _ := args["include_body"].(bool)

	boxes := mail.All[:]
	if name, ok := args["mailbox"].(string); ok && name != "" {
		box, ok := mail.ParseMailbox(name)
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("unknown mailbox %q", name)), nil
		}
		boxes = []mail.Mailbox{box}
	}

	limit := intArg(args, "limit", 20)
	offset := intArg(args, "offset", 0)

	matches := make([]entrySummary, 0, limit)
	for _, box := range boxes {
		for _, e := range search.Filter(h.store.GetOrLoad(box), queryStr, includeBody) {
			matches = append(matches, summarize(box, e))
		}
	}

	return jsonResult(paginate(matches, limit, offset))
}

func (h *handlers) readEntry(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()

	path, _ := args["path"].(string)
	if path == "" {
		return mcp.NewToolResultError("path parameter is required"), nil
	}

	box, ok := h.store.MailboxFor(path)
	if !ok {
		return mcp.NewToolResultError("path is not inside a configured mailbox"), nil
	}

	entry, err := mail.ParseFile(filepath.Clean(path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return mcp.NewToolResultError("entry not found"), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("read entry failed: %v", err)), nil
	}

	return jsonResult(entryDetail{
		entrySummary: summarize(box, entry),
		Body:         entry.Body,
	})
}

// paginate applies offset/limit windowing, clamping to the slice bounds.
func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

// intArg extracts a non-negative integer from the arguments map, with a
// default. JSON numbers arrive as float64. Clamps to maxLimit to prevent
// excessive result sets.
func intArg(args map[string]any, key string, def int) int {
	v, ok := args[key].(float64)
	if !ok {
		return def
	}
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if math.IsInf(v, 1) || v > float64(maxLimit) {
		return maxLimit
	}
	return int(v)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("marshal error: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
