// Package mailcmd invokes the external mail command that owns transport:
// fetching, syncing, replying, sending, and the long-running change wait.
// The TUI core only sees success or failure plus captured output text.
package mailcmd

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os/exec"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
)

// watchTimeoutExit is the exit code the mail command uses when a watch
// period elapses without any mailbox change.
const watchTimeoutExit = 2

// Runner shells out to the configured mail command. All captured
// subcommands block until the command exits; they are invoked from
// user-initiated actions or scheduled jobs, never from the render path.
type Runner struct {
	command string
	editor  string
}

// New returns a Runner using the given mail command and editor binaries.
func New(command, editor string) *Runner {
	return &Runner{command: command, editor: editor}
}

// Command returns the mail command binary name.
func (r *Runner) Command() string {
	return r.command
}

// Reply creates a reply draft for the entry at path. With all set, the
// reply addresses every original recipient. The captured output should
// contain a "Created: <path>" line naming the new draft; use
// ParseDraftPath to recover it.
func (r *Runner) Reply(ctx context.Context, path string, all bool) (string, error) {
	args := []string{"reply"}
	if all {
		args = append(args, "--all")
	}
	args = append(args, path)
	return r.run(ctx, args...)
}

// Approve marks the draft at path as approved for sending.
func (r *Runner) Approve(ctx context.Context, path string) (string, error) {
	return r.run(ctx, "mark-approved", path)
}

// NewDraft creates a fresh draft with the given name.
func (r *Runner) NewDraft(ctx context.Context, name string) (string, error) {
	return r.run(ctx, "new", name)
}

// Send submits the single entry at path.
func (r *Runner) Send(ctx context.Context, path string) (string, error) {
	return r.run(ctx, "send", path)
}

// SendApproved submits every approved draft in dir.
func (r *Runner) SendApproved(ctx context.Context, dir string) (string, error) {
	return r.run(ctx, "send-approved", dir)
}

// Fetch pulls new mail into the inbox.
func (r *Runner) Fetch(ctx context.Context) (string, error) {
	return r.run(ctx, "fetch")
}

// Sync runs a full mailbox synchronization.
func (r *Runner) Sync(ctx context.Context) (string, error) {
	return r.run(ctx, "sync")
}

// Archive moves the entry at path to the archive.
func (r *Runner) Archive(ctx context.Context, path string) (string, error) {
	return r.run(ctx, "archive", path)
}

// Delete removes the entry at path.
func (r *Runner) Delete(ctx context.Context, path string) (string, error) {
	return r.run(ctx, "delete", path)
}

// Watch blocks until the mail command observes a mailbox change or the
// timeout elapses. It returns (true, nil) on a change and (false, nil) on
// a quiet timeout; any other outcome is an error.
func (r *Runner) Watch(ctx context.Context, timeoutSecs int) (bool, error) {
	cmd := exec.CommandContext(ctx, r.command, "watch", "--timeout", strconv.Itoa(timeoutSecs))
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	err := cmd.Run()
	if err == nil {
		return true, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() == watchTimeoutExit {
		return false, nil
	}
	return false, wrapRunError(err, r.command+" watch", stderr.String(), "")
}

// EditorCmd builds the interactive editor invocation for path. The caller
// owns terminal handover around it.
func (r *Runner) EditorCmd(path string) *exec.Cmd {
	return exec.Command(r.editor, path)
}

// Editor returns the editor binary name.
func (r *Runner) Editor() string {
	return r.editor
}

// run executes one captured subcommand and returns its trimmed stdout.
func (r *Runner) run(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, r.command, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", wrapRunError(err, r.command+" "+args[0], stderr.String(), stdout.String())
	}
	return strings.TrimSpace(stdout.String()), nil
}

// wrapRunError attaches the most useful captured text to a command
// failure: stderr first, stdout as fallback, the bare invocation
// otherwise.
func wrapRunError(err error, invocation, stderr, stdout string) error {
	if msg := strings.TrimSpace(stderr); msg != "" {
		return eris.Wrap(err, msg)
	}
	if msg := strings.TrimSpace(stdout); msg != "" {
		return eris.Wrap(err, msg)
	}
	return eris.Wrap(err, invocation+" failed")
}

// IsNotInstalled reports whether err means the mail command binary could
// not be found at all, which is fatal for the watcher rather than a
// transient failure.
func IsNotInstalled(err error) bool {
	return errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist)
}

// ParseDraftPath scans captured reply output for the line naming the
// newly created draft file.
func ParseDraftPath(output string) (string, bool) {
	for _, line := range strings.Split(output, "\n") {
		if rest, ok := strings.CutPrefix(strings.TrimSpace(line), "Created:"); ok {
			if path := strings.TrimSpace(rest); path != "" {
				return path, true
			}
		}
	}
	return "", false
}
