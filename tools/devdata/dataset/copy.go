package dataset

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/maildesk/maildesk/internal/mail"
)

// Result holds the summary of a dataset copy or seed operation.
type Result struct {
	Entries int
	Elapsed time.Duration
}

// CopySubset creates a new dataset at dstDir holding the perBox newest
// entries of each mailbox in srcDir. Entry filenames carry a YYYY-MM-DD
// prefix, so a reverse name sort picks the newest files. A source mailbox
// directory that does not exist contributes nothing; the destination
// mailbox directories are created either way so the dataset mounts cleanly.
func CopySubset(srcDir, dstDir string, perBox int) (*Result, error) {
	start := time.Now()

	// Track whether we created the directory so cleanup only removes what
	// we made.
	createdDir := false
	if _, err := os.Stat(dstDir); os.IsNotExist(err) {
		createdDir = true
	}
	if err := os.MkdirAll(dstDir, 0o700); err != nil {
		return nil, fmt.Errorf("create destination directory: %w", err)
	}
	cleanupDir := func() {
		if createdDir {
			_ = os.RemoveAll(dstDir)
		}
	}

	copied := 0
	for _, box := range mail.All {
		dstBox := filepath.Join(dstDir, box.Key())
		if err := os.MkdirAll(dstBox, 0o755); err != nil {
			cleanupDir()
			return nil, fmt.Errorf("create %s directory: %w", box.Key(), err)
		}

		matches, err := filepath.Glob(filepath.Join(srcDir, box.Key(), "*.md"))
		if err != nil {
			cleanupDir()
			return nil, fmt.Errorf("list %s entries: %w", box.Key(), err)
		}
		sort.Sort(sort.Reverse(sort.StringSlice(matches)))
		if len(matches) > perBox {
			matches = matches[:perBox]
		}

		for _, src := range matches {
			dst := filepath.Join(dstBox, filepath.Base(src))
			if err := copyFile(src, dst); err != nil {
				cleanupDir()
				return nil, fmt.Errorf("copy %s: %w", filepath.Base(src), err)
			}
			copied++
		}
	}

	return &Result{Entries: copied, Elapsed: time.Since(start)}, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
