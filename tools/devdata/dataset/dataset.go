// Package dataset provides filesystem operations for managing maildesk datasets.
package dataset

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/maildesk/maildesk/internal/mail"
)

var validDatasetName = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// ValidateDatasetName checks that name contains only safe characters
// [a-zA-Z0-9_-]. Dataset names are used to construct filesystem paths, so
// this prevents path traversal via crafted names.
func ValidateDatasetName(name string) error {
	if name == "" {
		return fmt.Errorf("dataset name must not be empty")
	}
	if !validDatasetName.MatchString(name) {
		return fmt.Errorf("dataset name %q contains invalid characters; only letters, digits, hyphens, and underscores are allowed", name)
	}
	return nil
}

// Info describes a discovered dataset directory.
type Info struct {
	Name      string // dataset name (e.g., "gold", "demo") or "(default)" for a real ~/.maildesk
	Path      string // absolute path to the directory
	Entries   int    // entry files across the four mailbox directories
	Active    bool   // whether this is the current symlink target
	IsDefault bool   // true for a real ~/.maildesk directory (not in dev mode)
}

// IsSymlink reports whether the path is a symbolic link.
func IsSymlink(path string) (bool, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return false, err
	}
	return info.Mode()&os.ModeSymlink != 0, nil
}

// ReadTarget returns the target of the symbolic link at path.
func ReadTarget(path string) (string, error) {
	return os.Readlink(path)
}

// Exists reports whether the path exists (follows symlinks).
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// HasInbox reports whether path/inbox exists, the minimum for maildesk to
// show anything after mounting the dataset.
func HasInbox(path string) bool {
	info, err := os.Stat(filepath.Join(path, mail.Inbox.Key()))
	return err == nil && info.IsDir()
}

// CountEntries returns the number of entry files across the four mailbox
// directories under path. Missing directories count as zero.
func CountEntries(path string) int {
	total := 0
	for _, box := range mail.All {
		matches, err := filepath.Glob(filepath.Join(path, box.Key(), "*.md"))
		if err != nil {
			continue
		}
		total += len(matches)
	}
	return total
}

// ReplaceSymlink atomically replaces the symlink at linkPath to point to
// target. It uses a temp-symlink + rename pattern: os.Rename atomically
// replaces the old symlink, and fails with an error (not a silent delete)
// if linkPath has become a real directory in the meantime.
func ReplaceSymlink(linkPath, target string) error {
	// Fast-fail with a clear message if linkPath is not a symlink.
	info, err := os.Lstat(linkPath)
	if err != nil {
		return fmt.Errorf("lstat %s: %w", linkPath, err)
	}
	if info.Mode()&os.ModeSymlink == 0 {
		return fmt.Errorf("%s is not a symlink; refusing to replace (safety check)", linkPath)
	}

	// Random suffix avoids collisions between concurrent calls.
	var randBytes [4]byte
	if _, err := rand.Read(randBytes[:]); err != nil {
		return fmt.Errorf("generate random suffix: %w", err)
	}
	tmpPath := linkPath + ".tmp." + hex.EncodeToString(randBytes[:])
	if err := os.Symlink(target, tmpPath); err != nil {
		return fmt.Errorf("create temp symlink %s -> %s: %w", tmpPath, target, err)
	}
	if err := os.Rename(tmpPath, linkPath); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename symlink %s -> %s: %w", tmpPath, linkPath, err)
	}

	return nil
}

// ListDatasets enumerates all dataset directories in homeDir. It looks for
// directories matching ~/.maildesk-* and also includes ~/.maildesk itself
// when it is a real directory (not a symlink).
func ListDatasets(homeDir string) ([]Info, error) {
	mdPath := filepath.Join(homeDir, ".maildesk")

	// Determine the current symlink target for marking the active dataset.
	var activeTarget string
	if isSym, _ := IsSymlink(mdPath); isSym {
		if target, err := ReadTarget(mdPath); err == nil {
			if !filepath.IsAbs(target) {
				target = filepath.Join(homeDir, target)
			}
			activeTarget = filepath.Clean(target)
		}
	}

	var datasets []Info

	if isSym, err := IsSymlink(mdPath); err == nil && !isSym {
		if info, err := os.Stat(mdPath); err == nil && info.IsDir() {
			datasets = append(datasets, Info{
				Name:      "(default)",
				Path:      mdPath,
				Entries:   CountEntries(mdPath),
				Active:    true,
				IsDefault: true,
			})
		}
	}

	pattern := filepath.Join(homeDir, ".maildesk-*")
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("glob datasets: %w", err)
	}

	for _, m := range matches {
		info, err := os.Stat(m)
		if err != nil || !info.IsDir() {
			continue
		}

		name := strings.TrimPrefix(filepath.Base(m), ".maildesk-")
		cleanPath := filepath.Clean(m)

		datasets = append(datasets, Info{
			Name:    name,
			Path:    cleanPath,
			Entries: CountEntries(cleanPath),
			Active:  activeTarget != "" && activeTarget == cleanPath,
		})
	}

	sort.Slice(datasets, func(i, j int) bool {
		return datasets[i].Name < datasets[j].Name
	})

	return datasets, nil
}
