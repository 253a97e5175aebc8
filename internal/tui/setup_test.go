package tui

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/maildesk/maildesk/internal/mail"
	"github.com/maildesk/maildesk/internal/store"
	"github.com/maildesk/maildesk/internal/watcher"
)

// colorProfileMu serializes tests that mutate the global lipgloss color profile.
var colorProfileMu sync.Mutex

// forceColorProfile sets lipgloss to ANSI color output for tests that assert
// on styled output. It acquires colorProfileMu to prevent data races with
// parallel tests and restores the original profile via t.Cleanup.
func forceColorProfile(t *testing.T) {
	t.Helper()
	colorProfileMu.Lock()
	orig := lipgloss.ColorProfile()
	lipgloss.SetColorProfile(termenv.ANSI)
	t.Cleanup(func() {
		lipgloss.SetColorProfile(orig)
		colorProfileMu.Unlock()
	})
}

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;?]*[ -/]*[@-~]`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

// fakeRunner records mail command invocations and returns canned results.
type fakeRunner struct {
	calls  []string
	output string
	err    error
}

func (r *fakeRunner) record(call string) (string, error) {
	r.calls = append(r.calls, call)
	return r.output, r.err
}

func (r *fakeRunner) Reply(_ context.Context, path string, all bool) (string, error) {
	return r.record(fmt.Sprintf("reply all=%v %s", all, path))
}

func (r *fakeRunner) Approve(_ context.Context, path string) (string, error) {
	return r.record("approve " + path)
}

func (r *fakeRunner) NewDraft(_ context.Context, name string) (string, error) {
	return r.record("new " + name)
}

func (r *fakeRunner) Send(_ context.Context, path string) (string, error) {
	return r.record("send " + path)
}

func (r *fakeRunner) SendApproved(_ context.Context, dir string) (string, error) {
	return r.record("send-approved " + dir)
}

func (r *fakeRunner) Fetch(_ context.Context) (string, error) {
	return r.record("fetch")
}

func (r *fakeRunner) Sync(_ context.Context) (string, error) {
	return r.record("sync")
}

func (r *fakeRunner) Archive(_ context.Context, path string) (string, error) {
	return r.record("archive " + path)
}

func (r *fakeRunner) Delete(_ context.Context, path string) (string, error) {
	return r.record("delete " + path)
}

func (r *fakeRunner) EditorCmd(path string) *exec.Cmd {
	return exec.Command("true", path)
}

// called reports whether any recorded call starts with prefix.
func (r *fakeRunner) called(prefix string) bool {
	for _, c := range r.calls {
		if strings.HasPrefix(c, prefix) {
			return true
		}
	}
	return false
}

// entrySpec describes one on-disk entry file for test fixtures.
type entrySpec struct {
	Subject string
	From    string
	To      string
	Status  string
	Date    string
	Body    string
	Attach  bool
}

// entryContent renders an entrySpec as a frontmatter entry file.
func entryContent(e entrySpec) string {
	var sb strings.Builder
	sb.WriteString("---\n")
	if e.Subject != "" {
		fmt.Fprintf(&sb, "subject: %s\n", e.Subject)
	}
	if e.From != "" {
		fmt.Fprintf(&sb, "from: %s\n", e.From)
	}
	if e.To != "" {
		fmt.Fprintf(&sb, "to: %s\n", e.To)
	}
	if e.Status != "" {
		fmt.Fprintf(&sb, "status: %s\n", e.Status)
	}
	if e.Date != "" {
		fmt.Fprintf(&sb, "date: %s\n", e.Date)
	}
	if e.Attach {
		sb.WriteString("has_attachments: true\n")
	}
	sb.WriteString("---\n")
	sb.WriteString(e.Body)
	return sb.String()
}

// TestModelBuilder constructs Model instances over a real temp-dir store.
type TestModelBuilder struct {
	t        *testing.T
	files    map[mail.Mailbox]map[string]string
	runner   *fakeRunner
	events   chan watcher.Event
	copyText func(string) error
	width    int
	height   int
}

func NewBuilder(t *testing.T) *TestModelBuilder {
	t.Helper()
	return &TestModelBuilder{
		t:      t,
		files:  make(map[mail.Mailbox]map[string]string),
		runner: &fakeRunner{},
		width:  100,
		height: 24,
	}
}

// WithFile adds one raw entry file to a mailbox directory.
func (b *TestModelBuilder) WithFile(box mail.Mailbox, name, content string) *TestModelBuilder {
	if b.files[box] == nil {
		b.files[box] = make(map[string]string)
	}
	b.files[box][name] = content
	return b
}

// WithEntry adds one entry built from a spec. Files are named a.md, b.md,
// ... in insertion order; undated entries therefore list in that order.
func (b *TestModelBuilder) WithEntry(box mail.Mailbox, e entrySpec) *TestModelBuilder {
	name := fmt.Sprintf("%c.md", 'a'+len(b.files[box]))
	return b.WithFile(box, name, entryContent(e))
}

// WithSubjects adds minimal inbox-style entries with the given subjects.
func (b *TestModelBuilder) WithSubjects(box mail.Mailbox, subjects ...string) *TestModelBuilder {
	for _, s := range subjects {
		b.WithEntry(box, entrySpec{Subject: s, From: "alice@example.com", Status: "inbox", Body: "body of " + s})
	}
	return b
}

func (b *TestModelBuilder) WithRunner(r *fakeRunner) *TestModelBuilder {
	b.runner = r
	return b
}

func (b *TestModelBuilder) WithEvents(ch chan watcher.Event) *TestModelBuilder {
	b.events = ch
	return b
}

func (b *TestModelBuilder) WithCopyText(fn func(string) error) *TestModelBuilder {
	b.copyText = fn
	return b
}

func (b *TestModelBuilder) WithSize(width, height int) *TestModelBuilder {
	b.width = width
	b.height = height
	return b
}

func (b *TestModelBuilder) Build() Model {
	b.t.Helper()

	base := b.t.TempDir()
	var dirs [mail.MailboxCount]string
	for _, box := range mail.All {
		dirs[box] = filepath.Join(base, box.Key())
		if err := os.MkdirAll(dirs[box], 0o755); err != nil {
			b.t.Fatal(err)
		}
	}
	for box, files := range b.files {
		for name, content := range files {
			if err := os.WriteFile(filepath.Join(dirs[box], name), []byte(content), 0o644); err != nil {
				b.t.Fatal(err)
			}
		}
	}

	var events <-chan watcher.Event
	if b.events != nil {
		events = b.events
	}
	m := New(store.New(dirs), b.runner, Options{Events: events, CopyText: b.copyText})
	m.width = b.width
	m.height = b.height
	m.listRows = b.height - 3
	return m
}

// sendKey sends a key message through Update and returns the concrete Model.
// Every Update must leave the action outbox drained.
func sendKey(t *testing.T, m Model, k tea.KeyMsg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(k)
	got := next.(Model)
	if got.pending != nil {
		t.Fatalf("action outbox not drained after key %q", k.String())
	}
	return got, cmd
}

// sendMsg sends any tea.Msg through Update and returns the concrete Model.
func sendMsg(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

// typeString sends each rune as its own key press.
func typeString(t *testing.T, m Model, s string) Model {
	t.Helper()
	for _, r := range s {
		m, _ = sendKey(t, m, key(r))
	}
	return m
}

// execCmds runs an effect command tree and collects the messages it
// produces. Only use on commands whose work is immediate or near-immediate
// (runner closures, the spinner's first tick); flash expiry ticks would
// block for seconds.
func execCmds(t *testing.T, cmd tea.Cmd) []tea.Msg {
	t.Helper()
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, execCmds(t, c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

// findActionDone picks the actionDoneMsg out of a collected message list.
func findActionDone(t *testing.T, msgs []tea.Msg) actionDoneMsg {
	t.Helper()
	for _, msg := range msgs {
		if done, ok := msg.(actionDoneMsg); ok {
			return done
		}
	}
	t.Fatal("no actionDoneMsg produced")
	return actionDoneMsg{}
}

func assertFocus(t *testing.T, m Model, expected focusArea) {
	t.Helper()
	if m.focus != expected {
		t.Errorf("expected focus %v, got %v", expected, m.focus)
	}
}

func assertSelected(t *testing.T, m Model, expected int) {
	t.Helper()
	if m.selected != expected {
		t.Errorf("expected selected %d, got %d", expected, m.selected)
	}
}

func assertVisibleCount(t *testing.T, m Model, expected int) {
	t.Helper()
	if len(m.visible) != expected {
		t.Errorf("expected %d visible entries, got %d", expected, len(m.visible))
	}
}

func assertActive(t *testing.T, m Model, expected mail.Mailbox) {
	t.Helper()
	if m.active != expected {
		t.Errorf("expected active mailbox %v, got %v", expected, m.active)
	}
}

func assertConfirmOpen(t *testing.T, m Model, open bool) {
	t.Helper()
	if (m.confirm != nil) != open {
		t.Errorf("expected confirm open=%v, got %v", open, m.confirm != nil)
	}
}

func assertBusy(t *testing.T, m Model, busy bool) {
	t.Helper()
	if m.busy != busy {
		t.Errorf("expected busy=%v, got %v", busy, m.busy)
	}
}

func assertFlash(t *testing.T, m Model, substr string, isError bool) {
	t.Helper()
	if !strings.Contains(m.flashMessage, substr) {
		t.Errorf("expected flash containing %q, got %q", substr, m.flashMessage)
	}
	if m.flashIsError != isError {
		t.Errorf("expected flashIsError=%v, got %v", isError, m.flashIsError)
	}
}

// key returns a KeyMsg for a single rune (e.g., key('x'), key(' '))
func key(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

// keyEnter returns a KeyMsg for the Enter key
func keyEnter() tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyEnter}
}

// keyEsc returns a KeyMsg for the Escape key
func keyEsc() tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyEscape}
}

// keyTab returns a KeyMsg for the Tab key
func keyTab() tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyTab}
}

// keyShiftTab returns a KeyMsg for Shift+Tab
func keyShiftTab() tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyShiftTab}
}

// keyUp returns a KeyMsg for the Up arrow key
func keyUp() tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyUp}
}

// keyDown returns a KeyMsg for the Down arrow key
func keyDown() tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyDown}
}

// keyBackspace returns a KeyMsg for the Backspace key
func keyBackspace() tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyBackspace}
}
