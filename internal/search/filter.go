// Package search filters mailbox entries by case-insensitive substring
// queries.
package search

import (
	"strings"

	"github.com/maildesk/maildesk/internal/mail"
)

// Filter returns the entries whose subject, sender, recipient, or display
// date contains query, ignoring case. With includeBody set, the body text
// is searched as well. An empty query returns the input list unchanged.
// Filter never mutates its input; it is a pure projection recomputed on
// every query edit.
func Filter(entries []mail.Entry, query string, includeBody bool) []mail.Entry {
	if query == "" {
		return entries
	}
	q := strings.ToLower(query)
	matched := make([]mail.Entry, 0, len(entries))
	for _, e := range entries {
		if Matches(e, q, includeBody) {
			matched = append(matched, e)
		}
	}
	return matched
}

// Matches reports whether a single entry matches an already lower-cased
// query.
func Matches(e mail.Entry, query string, includeBody bool) bool {
	if containsFold(e.Subject, query) ||
		containsFold(e.From, query) ||
		containsFold(e.To, query) ||
		containsFold(e.Date, query) {
		return true
	}
	return includeBody && containsFold(e.Body, query)
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), substr)
}
