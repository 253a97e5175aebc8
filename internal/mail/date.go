package mail

import (
	"net/mail"
	"path/filepath"
	"strings"
	"time"
)

const (
	displayLayout  = "2006-01-02"
	sortableLayout = "2006-01-02T15:04:05"
)

// resolveDate derives the display and sortable date strings for an entry.
// Sources are tried in order: the RFC 2822 date header, the sent_at
// timestamp (RFC 3339, then without a zone), and finally a
// YYYY-MM-DD[-HHMM] prefix on the filename. Both strings are empty when
// nothing matches.
func resolveDate(dateField, sentAtField, path string) (display, sortable string) {
	if dateField != "" {
		if t, err := mail.ParseDate(dateField); err == nil {
			return t.Format(displayLayout), t.Format(sortableLayout)
		}
	}
	if sentAtField != "" {
		if t, err := time.Parse(time.RFC3339, sentAtField); err == nil {
			return t.Format(displayLayout), t.Format(sortableLayout)
		}
		if t, err := time.Parse(sortableLayout, sentAtField); err == nil {
			return t.Format(displayLayout), t.Format(sortableLayout)
		}
	}
	return dateFromFilename(path)
}

// dateFromFilename recovers a date from names like 2025-06-01-note.md or
// 2025-06-01-0930-reply.md. The optional four digits after the date carry
// the time of day.
func dateFromFilename(path string) (display, sortable string) {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if len(stem) < len(displayLayout) {
		return "", ""
	}
	datePart := stem[:len(displayLayout)]
	if _, err := time.Parse(displayLayout, datePart); err != nil {
		return "", ""
	}
	if len(stem) >= 15 && stem[10] == '-' && allDigits(stem[11:15]) {
		return datePart, datePart + "T" + stem[11:13] + ":" + stem[13:15] + ":00"
	}
	return datePart, datePart + "T00:00:00"
}

func allDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
