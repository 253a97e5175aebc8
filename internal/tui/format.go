package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
)

// padRight pads s with spaces to exactly width display cells, truncating
// if it runs over. ANSI sequences are preserved.
func padRight(s string, width int) string {
	w := lipgloss.Width(s)
	if w > width {
		return ansi.Truncate(s, width, "")
	}
	return s + strings.Repeat(" ", width-w)
}

// truncateRunes trims s to max display cells, appending "..." when it had
// to cut. Newlines and tabs are flattened to spaces first so a multi-line
// value stays on one row.
func truncateRunes(s string, max int) string {
	s = strings.Map(func(r rune) rune {
		switch r {
		case '\n', '\r', '\t':
			return ' '
		}
		return r
	}, s)
	if runewidth.StringWidth(s) <= max {
		return s
	}
	if max <= 3 {
		return runewidth.Truncate(s, max, "")
	}
	return runewidth.Truncate(s, max, "...")
}

// wrapText wraps s to lines of at most width cells, breaking at a space
// when one falls in the latter half of the line.
func wrapText(s string, width int) []string {
	if width <= 0 {
		width = 80
	}

	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if runewidth.StringWidth(line) <= width {
			lines = append(lines, line)
			continue
		}

		runes := []rune(line)
		for len(runes) > 0 {
			w := 0
			breakAt := 0
			lastSpace := -1
			for i, r := range runes {
				rw := runewidth.RuneWidth(r)
				if w+rw > width {
					break
				}
				w += rw
				breakAt = i + 1
				if r == ' ' {
					lastSpace = i
				}
			}
			if lastSpace > breakAt/2 && breakAt < len(runes) {
				breakAt = lastSpace
			}
			if breakAt == 0 {
				// A single rune wider than the pane still has to go somewhere.
				breakAt = 1
			}
			lines = append(lines, string(runes[:breakAt]))
			runes = runes[breakAt:]
			for len(runes) > 0 && runes[0] == ' ' {
				runes = runes[1:]
			}
		}
	}
	return lines
}

// truncateToWidth returns the prefix of s that fits in width display
// cells, preserving ANSI sequences.
func truncateToWidth(s string, width int) string {
	return ansi.Truncate(s, width, "")
}

// skipToWidth returns the remainder of s after skipping the first skip
// display cells, preserving ANSI sequences.
func skipToWidth(s string, skip int) string {
	return ansi.Cut(s, skip, 10000)
}

// formatCount renders a mailbox count compactly.
func formatCount(n int) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	return fmt.Sprintf("%.1fK", float64(n)/1000)
}
