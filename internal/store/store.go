// Package store caches parsed mailbox entries. Each mailbox is read from
// disk at most once until it is invalidated, so repeated lookups during a
// session stay cheap.
package store

import (
	"context"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/maildesk/maildesk/internal/mail"
)

// Store is a lazy per-mailbox entry cache. It is safe for concurrent use;
// the TUI owns one instance, and serve mode shares one between the API,
// MCP, and scheduler.
type Store struct {
	dirs [mail.MailboxCount]string

	mu     sync.Mutex
	cache  [mail.MailboxCount][]mail.Entry
	loaded [mail.MailboxCount]bool
}

// New returns a Store over the given mailbox directories, in sidebar
// order.
func New(dirs [mail.MailboxCount]string) *Store {
	return &Store{dirs: dirs}
}

// Dir returns the directory backing a mailbox.
func (s *Store) Dir(box mail.Mailbox) string {
	return s.dirs[box]
}

// GetOrLoad returns the entries of a mailbox, reading the directory only
// if the cached copy was invalidated. The returned slice is shared;
// callers must not modify it.
func (s *Store) GetOrLoad(box mail.Mailbox) []mail.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.loaded[box] {
		s.cache[box] = mail.Load(s.dirs[box])
		s.loaded[box] = true
	}
	return s.cache[box]
}

// Invalidate drops the cached entries for the given mailboxes. The next
// GetOrLoad rereads them from disk.
func (s *Store) Invalidate(boxes ...mail.Mailbox) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, box := range boxes {
		s.cache[box] = nil
		s.loaded[box] = false
	}
}

// InvalidateAll drops every cached mailbox.
func (s *Store) InvalidateAll() {
	s.Invalidate(mail.All[:]...)
}

// Counts scans all four mailbox directories concurrently and reports how
// many entry files each holds. The scan does not touch or fill the cache.
func (s *Store) Counts(ctx context.Context) ([mail.MailboxCount]int, error) {
	var counts [mail.MailboxCount]int
	g, ctx := errgroup.WithContext(ctx)
	for _, box := range mail.All {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			counts[box] = mail.Count(s.dirs[box])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return counts, err
	}
	return counts, nil
}

// MailboxFor reports which mailbox directory directly contains path.
func (s *Store) MailboxFor(path string) (mail.Mailbox, bool) {
	dir := filepath.Dir(filepath.Clean(path))
	for _, box := range mail.All {
		if dir == filepath.Clean(s.dirs[box]) {
			return box, true
		}
	}
	return 0, false
}
