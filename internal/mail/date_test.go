package mail

import "testing"

func TestResolveDate(t *testing.T) {
	tests := []struct {
		name     string
		date     string
		sentAt   string
		path     string
		display  string
		sortable string
	}{
		{
			"rfc2822 date header",
			"Mon, 2 Jun 2025 10:04:05 -0700", "", "inbox/report.md",
			"2025-06-02", "2025-06-02T10:04:05",
		},
		{
			"date header wins over sent_at",
			"Mon, 2 Jun 2025 10:04:05 -0700", "2025-01-01T00:00:00Z", "inbox/report.md",
			"2025-06-02", "2025-06-02T10:04:05",
		},
		{
			"invalid date header falls back to sent_at",
			"sometime last week", "2025-06-01T09:30:00Z", "inbox/report.md",
			"2025-06-01", "2025-06-01T09:30:00",
		},
		{
			"sent_at with offset keeps local time",
			"", "2025-06-01T09:30:00+02:00", "inbox/report.md",
			"2025-06-01", "2025-06-01T09:30:00",
		},
		{
			"sent_at without zone",
			"", "2025-06-01T09:30:00", "inbox/report.md",
			"2025-06-01", "2025-06-01T09:30:00",
		},
		{
			"filename with time",
			"", "", "drafts/2025-06-01-0930-reply.md",
			"2025-06-01", "2025-06-01T09:30:00",
		},
		{
			"filename date only",
			"", "", "drafts/2025-06-01-reply.md",
			"2025-06-01", "2025-06-01T00:00:00",
		},
		{
			"filename time digits required",
			"", "", "drafts/2025-06-01-09x0-reply.md",
			"2025-06-01", "2025-06-01T00:00:00",
		},
		{
			"filename with bad month",
			"", "", "drafts/2025-13-01-reply.md",
			"", "",
		},
		{
			"nothing available",
			"", "", "drafts/reply.md",
			"", "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			display, sortable := resolveDate(tt.date, tt.sentAt, tt.path)
			if display != tt.display || sortable != tt.sortable {
				t.Errorf("resolveDate(%q, %q, %q) = (%q, %q), want (%q, %q)",
					tt.date, tt.sentAt, tt.path, display, sortable, tt.display, tt.sortable)
			}
		})
	}
}
