package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/maildesk/maildesk/internal/mail"
)

// routeKey dispatches one key press. Overlay precedence comes first: an
// active confirm dialog consumes everything, then the help overlay, then
// search editing; only then are global keys tried, and finally the keys of
// the current focus.
func (m Model) routeKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.quitting = true
		return m, tea.Quit
	}

	if m.confirm != nil {
		return m.handleConfirmKeys(msg)
	}
	if m.modal == modalHelp {
		return m.handleHelpKeys(msg)
	}
	if m.focus == focusSearch {
		return m.handleSearchKeys(msg)
	}

	// A pending g survives only an immediate second g.
	if msg.String() != "g" {
		m.gPending = false
	}

	if next, cmd, handled := m.handleGlobalKeys(msg); handled {
		return next, cmd
	}

	switch m.focus {
	case focusSidebar:
		return m.handleSidebarKeys(msg)
	case focusList:
		return m.handleListKeys(msg)
	case focusPreview:
		return m.handlePreviewKeys(msg)
	case focusHeaders:
		return m.handleHeadersKeys(msg)
	}
	return m, nil
}

// handleGlobalKeys processes keys that work in every non-overlay,
// non-search focus. The bool result reports whether the key was consumed.
func (m Model) handleGlobalKeys(msg tea.KeyMsg) (Model, tea.Cmd, bool) {
	switch msg.String() {
	case "q":
		m.quitting = true
		return m, tea.Quit, true

	case "?":
		m.modal = modalHelp
		m.helpScroll = 0
		return m, nil, true

	case "/":
		next, cmd := m.enterSearch(false)
		return next, cmd, true

	case "\\":
		next, cmd := m.enterSearch(true)
		return next, cmd, true

	case "1", "2", "3", "4":
		box := mail.Mailbox(msg.String()[0] - '1')
		m.switchMailbox(box)
		m.focus = focusList
		return m, nil, true

	case "s":
		m.sidebarIndex = int(m.active)
		m.focus = focusSidebar
		return m, nil, true

	case "tab":
		m.cycleFocus(1)
		return m, nil, true

	case "shift+tab":
		m.cycleFocus(-1)
		return m, nil, true
	}
	return m, nil, false
}

// cycleFocus moves focus through the ring {Sidebar, List, Preview}. The
// headers pane sits in the preview slot for ring purposes.
func (m *Model) cycleFocus(dir int) {
	ring := []focusArea{focusSidebar, focusList, focusPreview}
	pos := 1
	for i, f := range ring {
		if m.focus == f {
			pos = i
		}
	}
	if m.focus == focusHeaders {
		pos = 2
	}
	pos = (pos + dir + len(ring)) % len(ring)
	m.focus = ring[pos]
	if m.focus == focusSidebar {
		m.sidebarIndex = int(m.active)
	}
}

// enterSearch clears the query and moves focus to the search input.
func (m Model) enterSearch(body bool) (Model, tea.Cmd) {
	m.searchInput.SetValue("")
	m.searchBody = body
	cmd := m.searchInput.Focus()
	m.focus = focusSearch
	m.refilter()
	return m, cmd
}

// leaveSearch returns focus to the list, keeping or clearing the query.
func (m *Model) leaveSearch(clear bool) {
	if clear {
		m.searchInput.SetValue("")
		m.searchBody = false
		m.refilter()
	}
	m.searchInput.Blur()
	m.focus = focusList
}

func (m Model) handleSearchKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter, tea.KeyTab, tea.KeyShiftTab:
		m.leaveSearch(false)
		return m, nil
	case tea.KeyEscape:
		m.leaveSearch(true)
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.refilter()
	return m, cmd
}

func (m Model) handleSidebarKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.sidebarIndex > 0 {
			m.sidebarIndex--
		}
	case "down", "j":
		if m.sidebarIndex < mail.MailboxCount-1 {
			m.sidebarIndex++
		}
	case "enter":
		m.switchMailbox(mail.Mailbox(m.sidebarIndex))
		m.focus = focusList
	case "esc", "left", "h", "right", "l":
		m.sidebarIndex = int(m.active)
		m.focus = focusList
	}
	return m, nil
}

func (m Model) handleListKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	// On an empty list only fetch, sync, and new-draft stay live; navigation
	// keys fall through harmlessly since selectEntry clamps to nothing.
	switch msg.String() {
	case "up", "k":
		m.selectEntry(m.selected - 1)
	case "down", "j":
		m.selectEntry(m.selected + 1)
	case "g":
		if m.gPending {
			m.gPending = false
			m.selectEntry(0)
		} else {
			m.gPending = true
		}
	case "G":
		m.selectEntry(len(m.visible) - 1)
	case "left", "h":
		m.sidebarIndex = int(m.active)
		m.focus = focusSidebar
	case "right", "l":
		m.focus = focusPreview
	case "i":
		if _, ok := m.selectedEntry(); ok {
			m.headersScroll = 0
			m.focus = focusHeaders
		}

	case "enter", "e":
		if e, ok := m.selectedEntry(); ok {
			m.pending = &action{kind: actionEdit, path: e.Path}
		}
	case "r":
		if e, ok := m.selectedEntry(); ok {
			m.pending = &action{kind: actionReply, path: e.Path}
		}
	case "R":
		if e, ok := m.selectedEntry(); ok {
			m.pending = &action{kind: actionReplyAll, path: e.Path}
		}
	case "p":
		if e, ok := m.selectedEntry(); ok {
			m.pending = &action{kind: actionApprove, path: e.Path}
		}
	case "y":
		if e, ok := m.selectedEntry(); ok {
			m.pending = &action{kind: actionCopyPath, path: e.Path}
		}
	case "n":
		m.pending = &action{kind: actionNewDraft}
	case "f":
		m.pending = &action{kind: actionFetch}
	case "F":
		m.pending = &action{kind: actionSync}

	case "a":
		m.confirmForSelected(actionArchive)
	case "d":
		m.confirmForSelected(actionDelete)
	case "m":
		m.confirmForSelected(actionSend)
	case "M":
		if len(m.visible) > 0 {
			m.confirmSendApproved()
		}
	}
	return m, nil
}

func (m Model) handlePreviewKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	m.previewScroll = scrollKey(msg, m.previewScroll)
	switch msg.String() {
	case "esc", "left", "h":
		m.focus = focusList
	}
	return m, nil
}

func (m Model) handleHeadersKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	m.headersScroll = scrollKey(msg, m.headersScroll)
	switch msg.String() {
	case "esc", "left", "h", "i":
		m.focus = focusList
	}
	return m, nil
}

// scrollKey applies the shared scroll key map to an offset. Offsets
// saturate at zero; the upper bound is enforced by the renderer.
func scrollKey(msg tea.KeyMsg, offset int) int {
	switch msg.String() {
	case "up", "k":
		offset--
	case "down", "j":
		offset++
	case "ctrl+d", "pgdown":
		offset += previewHalfPage
	case "ctrl+u", "pgup":
		offset -= previewHalfPage
	}
	if offset < 0 {
		offset = 0
	}
	return offset
}

func (m Model) handleConfirmKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		act := m.confirm.act
		m.confirm = nil
		m.pending = &act
	case "n", "N", "esc":
		m.confirm = nil
	}
	return m, nil
}

func (m Model) handleHelpKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "?", "esc", "q":
		m.modal = modalNone
		m.helpScroll = 0
	case "up", "k":
		if m.helpScroll > 0 {
			m.helpScroll--
		}
	case "down", "j":
		if m.helpScroll < len(rawHelpLines)-m.helpMaxVisible() {
			m.helpScroll++
		}
	}
	return m, nil
}
