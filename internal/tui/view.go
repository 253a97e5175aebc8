package tui

import (
	"fmt"
	"strings"

	catppuccin "github.com/catppuccin/go"
	"github.com/charmbracelet/lipgloss"

	"github.com/maildesk/maildesk/internal/mail"
)

// Catppuccin Mocha palette
var (
	mocha = catppuccin.Mocha

	textColor    = lipgloss.Color(mocha.Text().Hex)
	subtextColor = lipgloss.Color(mocha.Subtext0().Hex)
	surfaceColor = lipgloss.Color(mocha.Surface0().Hex)
	overlayColor = lipgloss.Color(mocha.Overlay0().Hex)
	blueColor    = lipgloss.Color(mocha.Blue().Hex)
	greenColor   = lipgloss.Color(mocha.Green().Hex)
	redColor     = lipgloss.Color(mocha.Red().Hex)
	yellowColor  = lipgloss.Color(mocha.Yellow().Hex)
	mauveColor   = lipgloss.Color(mocha.Mauve().Hex)
	tealColor    = lipgloss.Color(mocha.Teal().Hex)
	peachColor   = lipgloss.Color(mocha.Peach().Hex)
)

var (
	statusBarStyle = lipgloss.NewStyle().
			Foreground(subtextColor).
			Background(surfaceColor)

	cursorRowStyle = lipgloss.NewStyle().
			Background(surfaceColor)

	activeBoxStyle = lipgloss.NewStyle().
			Foreground(blueColor).
			Bold(true)

	subjectStyle = lipgloss.NewStyle().
			Foreground(textColor).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(overlayColor)

	flashStyle = lipgloss.NewStyle().
			Foreground(greenColor).
			Background(surfaceColor)

	flashErrorStyle = lipgloss.NewStyle().
			Foreground(redColor).
			Background(surfaceColor).
			Bold(true)

	// Spinner is rendered bold so it stays visible on the dim status bar.
	spinnerStyle = lipgloss.NewStyle().
			Foreground(yellowColor).
			Background(surfaceColor).
			Bold(true)

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(mauveColor).
			Padding(1, 2)

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(mauveColor).
			Bold(true)
)

// Layout breakpoints: the sidebar needs a 40-column terminal, the preview
// pane an 80-column one. The sidebar has a fixed width; list and preview
// split the rest evenly.
const (
	sidebarPaneWidth  = 14
	sidebarBreakpoint = 40
	previewBreakpoint = 80
)

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "Starting maildesk..."
	}

	s := m.contentView() + "\n" + m.statusBarView()
	if m.confirm != nil || m.modal == modalHelp {
		s = m.overlayModal(s)
	}
	return s
}

// contentView lays out the panes above the status bar.
func (m Model) contentView() string {
	h := m.height - 1
	if h < 3 {
		h = 3
	}

	showSidebar := m.width >= sidebarBreakpoint
	showPreview := m.width >= previewBreakpoint

	var panes []string
	remaining := m.width
	if showSidebar {
		panes = append(panes, m.sidebarPane(sidebarPaneWidth, h))
		remaining -= sidebarPaneWidth
	}
	if showPreview {
		listWidth := remaining / 2
		panes = append(panes, m.listPane(listWidth, h), m.rightPane(remaining-listWidth, h))
	} else {
		panes = append(panes, m.listPane(remaining, h))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, panes...)
}

// sidebarPane renders the mailbox rail.
func (m Model) sidebarPane(width, height int) string {
	inner := width - 2
	lines := make([]string, 0, height-2)

	for _, box := range mail.All {
		label := fmt.Sprintf("%s %s", box.Icon(), box.String())
		count := formatCount(m.counts[box])
		gap := inner - 2 - lipgloss.Width(label) - lipgloss.Width(count)
		if gap < 1 {
			gap = 1
		}
		line := padRight(" "+label+strings.Repeat(" ", gap)+count+" ", inner)

		switch {
		case m.focus == focusSidebar && int(box) == m.sidebarIndex:
			line = cursorRowStyle.Render(line)
		case box == m.active:
			line = activeBoxStyle.Render(line)
		}
		lines = append(lines, line)
	}

	return renderPane(" Mailboxes ", fillLines(lines, inner, height-2), width, m.focus == focusSidebar)
}

// listPane renders the entry list for the active mailbox.
func (m Model) listPane(width, height int) string {
	inner := width - 2
	rows := height - 2

	var lines []string
	if len(m.visible) == 0 {
		empty := " No messages"
		if m.searchActive() {
			empty = " No matches"
		}
		lines = append(lines, dimStyle.Render(padRight(empty, inner)))
	} else {
		end := m.scrollOffset + rows
		if end > len(m.visible) {
			end = len(m.visible)
		}
		for i := m.scrollOffset; i < end; i++ {
			line := padRight(m.listLine(m.visible[i], inner), inner)
			if i == m.selected {
				line = cursorRowStyle.Render(line)
			}
			lines = append(lines, line)
		}
	}

	return renderPane(" "+m.active.String()+" ", fillLines(lines, inner, rows), width, m.focus == focusList)
}

// listLine formats one entry row: status icon, date, contact, subject.
func (m Model) listLine(e mail.Entry, inner int) string {
	subject := e.Subject
	if e.HasAttachments {
		subject = "📎 " + subject
	}
	subjectWidth := inner - 32
	if subjectWidth < 4 {
		subjectWidth = 4
	}
	return fmt.Sprintf("%s %s  %s  %s",
		statusIcon(e.Status),
		padRight(e.Date, 10),
		padRight(truncateRunes(e.Contact(m.active), 16), 16),
		truncateRunes(subject, subjectWidth),
	)
}

// rightPane is the preview pane, or the header details pane while that
// focus is active.
func (m Model) rightPane(width, height int) string {
	if m.focus == focusHeaders {
		return m.headersPane(width, height)
	}
	return m.previewPane(width, height)
}

// previewPane renders the selected entry's body with scrolling.
func (m Model) previewPane(width, height int) string {
	inner := width - 2
	rows := height - 2

	e, ok := m.selectedEntry()
	if !ok {
		return renderPane(" Preview ", fillLines([]string{dimStyle.Render(" No message selected")}, inner, rows), width, m.focus == focusPreview)
	}

	lines := []string{
		subjectStyle.Render(truncateRunes(e.Subject, inner)),
		dimStyle.Render(truncateRunes(fmt.Sprintf("%s  %s", e.Contact(m.active), e.Date), inner)),
		"",
	}

	body := wrapText(e.Body, inner)
	off := m.previewScroll
	if off > len(body)-1 {
		off = len(body) - 1
	}
	if off < 0 {
		off = 0
	}
	avail := rows - len(lines)
	for i := off; i < len(body) && i-off < avail; i++ {
		lines = append(lines, body[i])
	}

	return renderPane(" Preview ", fillLines(lines, inner, rows), width, m.focus == focusPreview)
}

// headersPane renders the full metadata block for the selected entry.
func (m Model) headersPane(width, height int) string {
	inner := width - 2
	rows := height - 2

	e, ok := m.selectedEntry()
	if !ok {
		return renderPane(" Details ", fillLines([]string{dimStyle.Render(" No message selected")}, inner, rows), width, true)
	}

	attachments := "no"
	if e.HasAttachments {
		attachments = "yes"
	}
	all := []string{
		"Subject:     " + e.Subject,
		"From:        " + e.From,
		"To:          " + e.To,
	}
	if e.CC != "" {
		all = append(all, "Cc:          "+e.CC)
	}
	all = append(all,
		"Status:      "+e.Status,
		"Date:        "+e.Date,
		"Attachments: "+attachments,
		"File:        "+e.Path,
	)

	off := m.headersScroll
	if off > len(all)-1 {
		off = len(all) - 1
	}
	if off < 0 {
		off = 0
	}
	var lines []string
	for i := off; i < len(all) && i-off < rows; i++ {
		lines = append(lines, truncateRunes(all[i], inner))
	}

	return renderPane(" Details ", fillLines(lines, inner, rows), width, true)
}

// statusBarView renders the bottom line: search input, flash message, busy
// spinner, or key hints on the left; watcher state and list position on
// the right.
func (m Model) statusBarView() string {
	var left string
	switch {
	case m.focus == focusSearch:
		tag := "/"
		if m.searchBody {
			tag = "\\"
		}
		left = statusBarStyle.Render(" "+tag) + m.searchInput.View()
	case m.flashMessage != "":
		style := flashStyle
		if m.flashIsError {
			style = flashErrorStyle
		}
		left = style.Render(" " + m.flashMessage)
	case m.busy:
		left = spinnerStyle.Render(" "+m.spinnerIndicator()) + statusBarStyle.Render(" "+m.busyLabel)
	default:
		left = statusBarStyle.Render(focusHints(m.focus))
	}

	var rightStyled string
	if m.events != nil && !m.watchOn {
		rightStyled = lipgloss.NewStyle().Foreground(peachColor).Background(surfaceColor).Render("watch off  ")
	}
	if len(m.visible) > 0 {
		rightStyled += statusBarStyle.Render(fmt.Sprintf("%d/%d ", m.selected+1, len(m.visible)))
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(rightStyled)
	if gap < 0 {
		gap = 0
	}
	return left + statusBarStyle.Render(strings.Repeat(" ", gap)) + rightStyled
}

// focusHints returns the key hint line for a focus.
func focusHints(f focusArea) string {
	switch f {
	case focusSidebar:
		return " [j/k]move  [Enter]open  [Esc]back"
	case focusPreview:
		return " [j/k]scroll  [C-d/C-u]page  [Esc]back"
	case focusHeaders:
		return " [j/k]scroll  [i]close  [Esc]back"
	default:
		return " [q]uit  [s]idebar  [Tab]cycle  [/]search  [?]help"
	}
}

// spinnerIndicator returns the current spinner frame.
func (m Model) spinnerIndicator() string {
	if m.spinnerFrame < len(spinnerFrames) {
		return spinnerFrames[m.spinnerFrame]
	}
	return spinnerFrames[0]
}

// statusIcon maps an entry status to its single-cell list glyph.
func statusIcon(status string) string {
	switch status {
	case "draft":
		return lipgloss.NewStyle().Foreground(yellowColor).Render("✎")
	case "approved":
		return lipgloss.NewStyle().Foreground(greenColor).Render("✓")
	case "sent":
		return lipgloss.NewStyle().Foreground(blueColor).Render("➤")
	case "inbox":
		return lipgloss.NewStyle().Foreground(tealColor).Render("✉")
	case "archived":
		return lipgloss.NewStyle().Foreground(overlayColor).Render("▤")
	default:
		return dimStyle.Render("·")
	}
}

// renderPane wraps pre-sized content lines in a focus-colored border and
// splices the title into the top edge.
func renderPane(title string, lines []string, width int, focused bool) string {
	borderColor := overlayColor
	titleStyle := dimStyle
	if focused {
		borderColor = blueColor
		titleStyle = lipgloss.NewStyle().Foreground(blueColor).Bold(true)
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Render(strings.Join(lines, "\n"))

	styledTitle := titleStyle.Render(truncateRunes(title, width-4))
	boxLines := strings.SplitN(box, "\n", 2)
	top := boxLines[0]
	top = truncateToWidth(top, 2) + styledTitle + skipToWidth(top, 2+lipgloss.Width(styledTitle))
	if len(boxLines) == 1 {
		return top
	}
	return top + "\n" + boxLines[1]
}

// fillLines pads a pane's content to exactly rows lines of width cells.
func fillLines(lines []string, width, rows int) []string {
	out := make([]string, 0, rows)
	for i := 0; i < rows; i++ {
		if i < len(lines) {
			out = append(out, padRight(lines[i], width))
		} else {
			out = append(out, strings.Repeat(" ", width))
		}
	}
	return out
}

// rawHelpLines is the help overlay content. The first line is the title,
// rendered with modalTitleStyle at display time.
var rawHelpLines = []string{
	"Keyboard Shortcuts",
	"",
	"Navigation",
	"  ↑/k, ↓/j    Move selection",
	"  gg / G      First / last entry",
	"  ←/h, →/l    Sidebar / preview",
	"  Tab         Cycle panes",
	"  1-4         Jump to mailbox",
	"  s           Mailbox sidebar",
	"  i           Message details",
	"",
	"Search",
	"  /           Search headers",
	"  \\           Search including body",
	"  Enter       Keep filter",
	"  Esc         Clear filter",
	"",
	"Mail",
	"  Enter/e     Edit in editor",
	"  r / R       Reply / reply all",
	"  p           Approve draft",
	"  n           New draft",
	"  m / M       Send / send approved",
	"  a / d       Archive / delete",
	"  y           Copy file path",
	"  f / F       Fetch / full sync",
	"",
	"[↑/↓] Scroll  [? or Esc] Close",
}

// helpMaxVisible returns the max visible help lines for the terminal height.
func (m Model) helpMaxVisible() int {
	v := m.height - 6
	if v < 1 {
		v = 1
	}
	if v > len(rawHelpLines) {
		v = len(rawHelpLines)
	}
	return v
}

// renderHelpModal renders the help overlay content with scrolling.
func (m Model) renderHelpModal() string {
	maxVisible := m.helpMaxVisible()

	maxScroll := len(rawHelpLines) - maxVisible
	if maxScroll < 0 {
		maxScroll = 0
	}
	if m.helpScroll > maxScroll {
		m.helpScroll = maxScroll
	}

	visible := rawHelpLines[m.helpScroll : m.helpScroll+maxVisible]
	rendered := make([]string, len(visible))
	for i, line := range visible {
		if m.helpScroll+i == 0 {
			rendered[i] = modalTitleStyle.Render(line)
		} else {
			rendered[i] = line
		}
	}
	return strings.Join(rendered, "\n")
}

// renderConfirmModal renders the yes/no dialog content.
func (m Model) renderConfirmModal() string {
	return modalTitleStyle.Render(m.confirm.title) + "\n\n" +
		m.confirm.detail + "\n\n" +
		"[Y] Yes    [N] No"
}

// overlayModal draws the active modal over the rendered screen, keeping
// the background visible around it.
func (m Model) overlayModal(background string) string {
	var content string
	switch {
	case m.confirm != nil:
		content = m.renderConfirmModal()
	case m.modal == modalHelp:
		content = m.renderHelpModal()
	}
	if content == "" {
		return background
	}

	modal := modalStyle.Render(content)

	bgLines := strings.Split(background, "\n")
	modalLines := strings.Split(modal, "\n")

	startLine := (len(bgLines) - len(modalLines)) / 2
	if startLine < 0 {
		startLine = 0
	}

	modalWidth := lipgloss.Width(modal)
	leftPadding := (m.width - modalWidth) / 2
	if leftPadding < 0 {
		leftPadding = 0
	}

	for i, modalLine := range modalLines {
		lineIdx := startLine + i
		if lineIdx >= len(bgLines) {
			break
		}
		bgLine := bgLines[lineIdx]
		bgWidth := lipgloss.Width(bgLine)

		var composite strings.Builder
		if leftPadding > 0 {
			leftBg := truncateToWidth(bgLine, leftPadding)
			composite.WriteString(leftBg)
			if lipgloss.Width(leftBg) < leftPadding {
				composite.WriteString(strings.Repeat(" ", leftPadding-lipgloss.Width(leftBg)))
			}
		}
		composite.WriteString(modalLine)

		rightStart := leftPadding + modalWidth
		if rightStart < bgWidth {
			composite.WriteString(skipToWidth(bgLine, rightStart))
		}
		bgLines[lineIdx] = composite.String()
	}

	return strings.Join(bgLines, "\n")
}
