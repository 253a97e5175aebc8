package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/maildesk/maildesk/internal/mail"
	"github.com/maildesk/maildesk/internal/mailcmd"
)

// actionKind enumerates the deferred side effects the router can request.
type actionKind int

const (
	actionEdit actionKind = iota
	actionReply
	actionReplyAll
	actionApprove
	actionNewDraft
	actionFetch
	actionSync
	actionCopyPath
	actionArchive
	actionDelete
	actionSend
	actionSendApproved
)

// action is one deferred operation. path is the target entry file, or the
// drafts directory for actionSendApproved.
type action struct {
	kind actionKind
	path string
}

// verb names the action in status messages, failure prefixes included.
func (a action) verb() string {
	switch a.kind {
	case actionEdit:
		return "edit"
	case actionReply:
		return "reply"
	case actionReplyAll:
		return "reply all"
	case actionApprove:
		return "approve"
	case actionNewDraft:
		return "new draft"
	case actionFetch:
		return "fetch"
	case actionSync:
		return "sync"
	case actionCopyPath:
		return "copy path"
	case actionArchive:
		return "archive"
	case actionDelete:
		return "delete"
	case actionSend:
		return "send"
	case actionSendApproved:
		return "send approved"
	}
	return "action"
}

// workingLabel is shown with the spinner while the external command runs.
func (a action) workingLabel() string {
	switch a.kind {
	case actionReply, actionReplyAll:
		return "Replying..."
	case actionApprove:
		return "Approving draft..."
	case actionNewDraft:
		return "Creating draft..."
	case actionFetch:
		return "Fetching mail..."
	case actionSync:
		return "Syncing mailboxes..."
	case actionArchive:
		return "Archiving..."
	case actionDelete:
		return "Deleting..."
	case actionSend:
		return "Sending..."
	case actionSendApproved:
		return "Sending approved drafts..."
	}
	return "Working..."
}

// invalidates lists the mailbox caches that are stale once the action
// completed successfully.
func (a action) invalidates(active mail.Mailbox) []mail.Mailbox {
	switch a.kind {
	case actionApprove:
		return []mail.Mailbox{active}
	case actionReply, actionReplyAll, actionNewDraft:
		return []mail.Mailbox{mail.Drafts}
	case actionFetch:
		return []mail.Mailbox{mail.Inbox}
	case actionSync:
		return mail.All[:]
	case actionArchive:
		return []mail.Mailbox{active, mail.Archive}
	case actionDelete:
		return []mail.Mailbox{active}
	case actionSend, actionSendApproved:
		return []mail.Mailbox{mail.Drafts, mail.Sent}
	}
	return nil
}

// confirmForSelected opens the yes/no dialog for a destructive action on
// the selected entry. The action itself is queued only on confirmation.
func (m *Model) confirmForSelected(kind actionKind) {
	e, ok := m.selectedEntry()
	if !ok {
		return
	}
	var title string
	switch kind {
	case actionArchive:
		title = "Archive message?"
	case actionDelete:
		title = "Delete message?"
	case actionSend:
		title = "Send message?"
	}
	m.confirm = &confirmPrompt{
		title:  title,
		detail: confirmDetail(e, m.active),
		act:    action{kind: kind, path: e.Path},
	}
}

// confirmSendApproved opens the dialog for the whole-mailbox send.
func (m *Model) confirmSendApproved() {
	m.confirm = &confirmPrompt{
		title:  "Send approved drafts?",
		detail: "Every draft marked approved will be sent.",
		act:    action{kind: actionSendApproved, path: m.store.Dir(mail.Drafts)},
	}
}

// confirmDetail summarizes the entry a dialog is about.
func confirmDetail(e mail.Entry, box mail.Mailbox) string {
	label := "From"
	if box == mail.Drafts || box == mail.Sent {
		label = "To"
	}
	lines := []string{
		truncateRunes(e.Subject, 46),
		fmt.Sprintf("%s: %s", label, truncateRunes(e.Contact(box), 40)),
	}
	if e.Date != "" {
		lines = append(lines, "Date: "+e.Date)
	}
	return strings.Join(lines, "\n")
}

// startAction turns a drained action into its effect command. Captured
// commands flip the model into the busy state and show a working label
// before the blocking call runs.
func (m *Model) startAction(act action) tea.Cmd {
	if m.busy {
		return m.showFlash("Previous command still running")
	}

	switch act.kind {
	case actionEdit:
		return m.execEditor(act.path)

	case actionCopyPath:
		copyText := m.copyText
		return func() tea.Msg {
			return actionDoneMsg{act: act, err: copyText(act.path)}
		}
	}

	m.busy = true
	m.busyLabel = act.workingLabel()
	runner := m.runner
	spin := m.startSpinner()

	return tea.Batch(spin, func() (msg tea.Msg) {
		defer func() {
			if r := recover(); r != nil {
				msg = actionDoneMsg{act: act, err: fmt.Errorf("%s panic: %v", act.verb(), r)}
			}
		}()

		ctx := context.Background()
		var out string
		var err error
		switch act.kind {
		case actionReply:
			out, err = runner.Reply(ctx, act.path, false)
		case actionReplyAll:
			out, err = runner.Reply(ctx, act.path, true)
		case actionApprove:
			out, err = runner.Approve(ctx, act.path)
		case actionNewDraft:
			out, err = runner.NewDraft(ctx, time.Now().Format("20060102-150405"))
		case actionFetch:
			out, err = runner.Fetch(ctx)
		case actionSync:
			out, err = runner.Sync(ctx)
		case actionArchive:
			out, err = runner.Archive(ctx, act.path)
		case actionDelete:
			out, err = runner.Delete(ctx, act.path)
		case actionSend:
			out, err = runner.Send(ctx, act.path)
		case actionSendApproved:
			out, err = runner.SendApproved(ctx, act.path)
		}
		return actionDoneMsg{act: act, output: out, err: err}
	})
}

// execEditor suspends the terminal around an interactive editor run.
func (m Model) execEditor(path string) tea.Cmd {
	c := m.runner.EditorCmd(path)
	return tea.ExecProcess(c, func(err error) tea.Msg {
		return editorDoneMsg{path: path, err: err}
	})
}

// handleActionDone applies the completed action's cache effects and sets
// the outcome status. Failures surface prefixed with the action name.
func (m Model) handleActionDone(msg actionDoneMsg) (tea.Model, tea.Cmd) {
	m.busy = false
	m.busyLabel = ""

	if msg.err != nil {
		return m, m.showFlashError(fmt.Sprintf("%s failed: %v", msg.act.verb(), msg.err))
	}

	var cmds []tea.Cmd
	if boxes := msg.act.invalidates(m.active); len(boxes) > 0 {
		m.store.Invalidate(boxes...)
		for _, box := range boxes {
			if box == m.active {
				m.reloadActive()
				break
			}
		}
		cmds = append(cmds, m.refreshCounts())
	}

	switch msg.act.kind {
	case actionCopyPath:
		cmds = append(cmds, m.showFlash("Copied path to clipboard"))
	case actionReply, actionReplyAll:
		// The draft exists on disk whatever happens next, so Drafts was
		// already invalidated above. Open the draft when the command
		// reported where it put it.
		if path, ok := mailcmd.ParseDraftPath(msg.output); ok {
			cmds = append(cmds, m.showFlash("Reply draft created"), m.execEditor(path))
		} else {
			cmds = append(cmds, m.showFlash("Reply draft created in Drafts"))
		}
	default:
		cmds = append(cmds, m.showFlash(doneMessage(msg.act, msg.output)))
	}
	return m, tea.Batch(cmds...)
}

// handleEditorDone invalidates the edited file's mailbox once the terminal
// is back. The file may have changed even when the editor exited nonzero.
func (m Model) handleEditorDone(msg editorDoneMsg) (tea.Model, tea.Cmd) {
	box, ok := m.store.MailboxFor(msg.path)
	if !ok {
		box = m.active
	}
	m.store.Invalidate(box)
	if box == m.active {
		m.reloadActive()
	}

	cmds := []tea.Cmd{m.refreshCounts()}
	if msg.err != nil {
		cmds = append(cmds, m.showFlashError(fmt.Sprintf("edit failed: %v", msg.err)))
	} else {
		cmds = append(cmds, m.showFlash("Edited "+filepath.Base(msg.path)))
	}
	return m, tea.Batch(cmds...)
}

// doneMessage picks the success status: the command's first output line
// when it said something, a canned completion otherwise.
func doneMessage(act action, output string) string {
	for _, line := range strings.Split(output, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}
	switch act.kind {
	case actionApprove:
		return "Draft approved"
	case actionNewDraft:
		return "Draft created"
	case actionFetch:
		return "Fetch complete"
	case actionSync:
		return "Sync complete"
	case actionArchive:
		return "Message archived"
	case actionDelete:
		return "Message deleted"
	case actionSend:
		return "Message sent"
	case actionSendApproved:
		return "Approved drafts sent"
	}
	return act.verb() + " complete"
}
