// Package tui implements the interactive mail-triage interface for maildesk.
package tui

import (
	"context"
	"fmt"
	"os/exec"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/maildesk/maildesk/internal/mail"
	"github.com/maildesk/maildesk/internal/search"
	"github.com/maildesk/maildesk/internal/store"
	"github.com/maildesk/maildesk/internal/watcher"
)

// focusArea is the input mode: it decides which key map is active.
type focusArea int

const (
	focusSidebar focusArea = iota
	focusList
	focusPreview
	focusSearch
	focusHeaders
)

// modalType identifies the overlay drawn on top of the current focus.
// Overlays intercept all key input; the focus underneath is preserved and
// restored when the overlay closes.
type modalType int

const (
	modalNone modalType = iota
	modalConfirm
	modalHelp
)

// confirmPrompt is the pending yes/no dialog. act runs on "y"/Enter and is
// discarded on "n"/Escape.
type confirmPrompt struct {
	title  string
	detail string
	act    action
}

// mailRunner is the slice of the external mail command the model drives.
// *mailcmd.Runner satisfies it; tests substitute a fake.
type mailRunner interface {
	Reply(ctx context.Context, path string, all bool) (string, error)
	Approve(ctx context.Context, path string) (string, error)
	NewDraft(ctx context.Context, name string) (string, error)
	Send(ctx context.Context, path string) (string, error)
	SendApproved(ctx context.Context, dir string) (string, error)
	Fetch(ctx context.Context) (string, error)
	Sync(ctx context.Context) (string, error)
	Archive(ctx context.Context, path string) (string, error)
	Delete(ctx context.Context, path string) (string, error)
	EditorCmd(path string) *exec.Cmd
}

// Options configuration for the TUI.
type Options struct {
	// Events is the watcher's notification channel. Nil disables the
	// change-watch integration entirely.
	Events <-chan watcher.Event

	// CopyText overrides the clipboard sink. Nil uses the system clipboard.
	CopyText func(string) error
}

// Model is the main TUI model following the Elm architecture.
type Model struct {
	store    *store.Store
	runner   mailRunner
	events   <-chan watcher.Event
	copyText func(string) error

	// Terminal dimensions
	width    int
	height   int
	listRows int // entry rows visible in the list pane

	// Focus and overlays
	focus   focusArea
	modal   modalType
	confirm *confirmPrompt

	// Mailbox navigation
	active       mail.Mailbox
	sidebarIndex int // sidebar highlight; may differ from active while browsing
	counts       [mail.MailboxCount]int

	// Entry list state. entries is the full cached list for the active
	// mailbox; visible is the filtered projection currently displayed.
	entries      []mail.Entry
	visible      []mail.Entry
	selected     int
	scrollOffset int
	gPending     bool // first half of the gg chord seen

	previewScroll int
	headersScroll int

	// Search state
	searchInput textinput.Model
	searchBody  bool // query also matches body text

	// Single-slot action outbox. The key router fills it; Update drains it
	// into at most one command per message.
	pending *action

	// A captured mail command in flight
	busy      bool
	busyLabel string

	spinnerFrame  int
	spinnerActive bool

	// Flash message (temporary status notification)
	flashMessage   string
	flashIsError   bool
	flashExpiresAt time.Time

	helpScroll int

	// watchOn mirrors the watcher's health for the title bar. It flips off
	// on any watcher error and back on when a change event arrives.
	watchOn bool

	quitting bool
}

// spinnerFrames are the Braille animation frames for the busy spinner.
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// spinnerInterval is how fast the spinner animates.
const spinnerInterval = 80 * time.Millisecond

// flashDuration is how long flash messages are displayed.
const flashDuration = 4 * time.Second

// previewHalfPage is the scroll increment for half-page preview movement.
const previewHalfPage = 10

// New creates the TUI model. The initial mailbox (Inbox) is loaded eagerly:
// the store is synchronous and the first paint should already show mail.
func New(st *store.Store, runner mailRunner, opts Options) Model {
	ti := textinput.New()
	ti.Placeholder = "search"
	ti.CharLimit = 200
	ti.Width = 40

	m := Model{
		store:       st,
		runner:      runner,
		events:      opts.Events,
		copyText:    opts.CopyText,
		focus:       focusList,
		searchInput: ti,
		listRows:    20,
		watchOn:     opts.Events != nil,
	}
	if m.copyText == nil {
		m.copyText = clipboard.WriteAll
	}
	m.switchMailbox(mail.Inbox)
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.refreshCounts(),
		m.waitForWatcher(),
	)
}

// countsMsg carries fresh on-disk file counts for all mailboxes.
type countsMsg struct {
	counts [mail.MailboxCount]int
	err    error
}

// watchEventMsg delivers one watcher notification. ok is false when the
// watcher's channel has closed and no further events will arrive.
type watchEventMsg struct {
	event watcher.Event
	ok    bool
}

// actionDoneMsg is sent when a captured mail command or clipboard action
// finishes.
type actionDoneMsg struct {
	act    action
	output string
	err    error
}

// editorDoneMsg is sent when the interactive editor returns.
type editorDoneMsg struct {
	path string
	err  error
}

// flashClearMsg expires the flash message.
type flashClearMsg struct{}

// spinnerTickMsg advances the busy spinner animation.
type spinnerTickMsg struct{}

// refreshCounts scans all mailbox directories for fresh file counts.
func (m Model) refreshCounts() tea.Cmd {
	st := m.store
	return func() (msg tea.Msg) {
		defer func() {
			if r := recover(); r != nil {
				msg = countsMsg{err: fmt.Errorf("count scan panic: %v", r)}
			}
		}()
		counts, err := st.Counts(context.Background())
		return countsMsg{counts: counts, err: err}
	}
}

// waitForWatcher blocks on the next watcher notification. It is re-armed
// once per delivered event, so at most one notification is drained per
// update cycle.
func (m Model) waitForWatcher() tea.Cmd {
	events := m.events
	if events == nil {
		return nil
	}
	return func() tea.Msg {
		ev, ok := <-events
		return watchEventMsg{event: ev, ok: ok}
	}
}

// spinnerTick returns a command that fires a spinnerTickMsg after the
// spinner interval.
func spinnerTick() tea.Cmd {
	return tea.Tick(spinnerInterval, func(time.Time) tea.Msg {
		return spinnerTickMsg{}
	})
}

// startSpinner returns a spinnerTick command if the spinner isn't already
// running, and marks it as running.
func (m *Model) startSpinner() tea.Cmd {
	if m.spinnerActive {
		return nil
	}
	m.spinnerActive = true
	m.spinnerFrame = 0
	return spinnerTick()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		var cmd tea.Cmd
		m, cmd = m.routeKey(msg)
		// Drain the single-slot outbox set by the router.
		if m.pending != nil {
			act := *m.pending
			m.pending = nil
			return m, tea.Batch(cmd, m.startAction(act))
		}
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.width < 0 {
			m.width = 0
		}
		if m.height < 0 {
			m.height = 0
		}
		// Status bar + the list pane's top and bottom border = 3 chrome lines.
		m.listRows = m.height - 3
		if m.listRows < 1 {
			m.listRows = 1
		}
		m.ensureSelectionVisible()
		return m, nil

	case watchEventMsg:
		return m.handleWatchEvent(msg)

	case actionDoneMsg:
		return m.handleActionDone(msg)

	case editorDoneMsg:
		return m.handleEditorDone(msg)

	case countsMsg:
		if msg.err == nil {
			m.counts = msg.counts
			// The active mailbox shows the parsed entry count, which can
			// run lower than the raw file count when entries were skipped.
			m.counts[m.active] = len(m.entries)
		}
		return m, nil

	case flashClearMsg:
		if time.Now().After(m.flashExpiresAt) {
			m.flashMessage = ""
			m.flashIsError = false
		}
		return m, nil

	case spinnerTickMsg:
		if !m.busy {
			m.spinnerActive = false
			return m, nil
		}
		m.spinnerFrame = (m.spinnerFrame + 1) % len(spinnerFrames)
		return m, spinnerTick()
	}

	return m, nil
}

// handleWatchEvent reacts to one watcher notification and re-arms the
// receive unless the channel has closed.
func (m Model) handleWatchEvent(msg watchEventMsg) (tea.Model, tea.Cmd) {
	if !msg.ok {
		m.watchOn = false
		return m, nil
	}
	switch msg.event.Kind {
	case watcher.Change:
		m.watchOn = true
		m.store.InvalidateAll()
		m.reloadActive()
		return m, tea.Batch(m.refreshCounts(), m.waitForWatcher())
	case watcher.Error:
		m.watchOn = false
		cmd := m.showFlashError(fmt.Sprintf("watcher: %v", msg.event.Err))
		if msg.event.Fatal {
			return m, cmd
		}
		return m, tea.Batch(cmd, m.waitForWatcher())
	}
	return m, m.waitForWatcher()
}

// switchMailbox activates a mailbox: the search query is cleared, entries
// come from the cache (loading on first visit), selection and scrolls reset,
// and the displayed count reconciles to the loaded list length.
func (m *Model) switchMailbox(box mail.Mailbox) {
	m.active = box
	m.sidebarIndex = int(box)
	m.searchInput.SetValue("")
	m.searchInput.Blur()
	m.searchBody = false
	m.entries = m.store.GetOrLoad(box)
	m.visible = m.entries
	m.selected = 0
	m.scrollOffset = 0
	m.previewScroll = 0
	m.headersScroll = 0
	m.gPending = false
	m.counts[box] = len(m.entries)
}

// reloadActive re-fetches the active mailbox through the cache, re-applies
// the current filter, and reclamps the selection. Unlike switchMailbox it
// keeps the search query and, where possible, the selection position.
func (m *Model) reloadActive() {
	m.entries = m.store.GetOrLoad(m.active)
	m.visible = search.Filter(m.entries, m.searchInput.Value(), m.searchBody)
	m.clampSelection()
	m.counts[m.active] = len(m.entries)
}

// refilter recomputes the visible projection from the current query and
// resets selection and scroll positions.
func (m *Model) refilter() {
	m.visible = search.Filter(m.entries, m.searchInput.Value(), m.searchBody)
	m.selected = 0
	m.scrollOffset = 0
	m.previewScroll = 0
	m.headersScroll = 0
}

// clampSelection keeps the selection inside the visible list, resetting the
// preview scroll when the selected row moved.
func (m *Model) clampSelection() {
	prev := m.selected
	if m.selected >= len(m.visible) {
		m.selected = len(m.visible) - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
	if m.selected != prev {
		m.previewScroll = 0
		m.headersScroll = 0
	}
	m.ensureSelectionVisible()
}

// selectEntry moves the selection to index i, clamped to the visible list.
func (m *Model) selectEntry(i int) {
	if len(m.visible) == 0 {
		m.selected = 0
		m.scrollOffset = 0
		return
	}
	if i < 0 {
		i = 0
	}
	if i > len(m.visible)-1 {
		i = len(m.visible) - 1
	}
	if i != m.selected {
		m.selected = i
		m.previewScroll = 0
		m.headersScroll = 0
	}
	m.ensureSelectionVisible()
}

// ensureSelectionVisible adjusts the list scroll offset so the selected row
// stays on screen.
func (m *Model) ensureSelectionVisible() {
	if m.selected < m.scrollOffset {
		m.scrollOffset = m.selected
	}
	if m.selected >= m.scrollOffset+m.listRows {
		m.scrollOffset = m.selected - m.listRows + 1
	}
	if m.scrollOffset < 0 {
		m.scrollOffset = 0
	}
}

// selectedEntry returns the entry under the cursor.
func (m Model) selectedEntry() (mail.Entry, bool) {
	if m.selected >= 0 && m.selected < len(m.visible) {
		return m.visible[m.selected], true
	}
	return mail.Entry{}, false
}

// searchActive reports whether a committed or in-progress query is
// filtering the list.
func (m Model) searchActive() bool {
	return m.searchInput.Value() != ""
}

// showFlash displays a temporary status message.
func (m *Model) showFlash(message string) tea.Cmd {
	m.flashMessage = message
	m.flashIsError = false
	m.flashExpiresAt = time.Now().Add(flashDuration)
	return tea.Tick(flashDuration, func(time.Time) tea.Msg {
		return flashClearMsg{}
	})
}

// showFlashError displays a temporary error message.
func (m *Model) showFlashError(message string) tea.Cmd {
	cmd := m.showFlash(message)
	m.flashIsError = true
	return cmd
}
