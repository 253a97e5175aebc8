package mail

import (
	"os"
	"path/filepath"
	"sort"
)

// Load reads every .md entry in dir, newest first. Files that cannot be
// read or whose header is invalid are skipped. A missing or unreadable
// directory yields an empty slice.
func Load(dir string) []Entry {
	dirents, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var entries []Entry
	for _, d := range dirents {
		if !d.Type().IsRegular() || filepath.Ext(d.Name()) != ".md" {
			continue
		}
		e, err := ParseFile(filepath.Join(dir, d.Name()))
		if err != nil {
			continue
		}
		entries = append(entries, e)
	}

	// Stable so undated entries keep directory order among themselves.
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].SortDate > entries[j].SortDate
	})
	return entries
}

// Count reports how many .md entries dir holds without parsing them.
func Count(dir string) int {
	dirents, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}
	n := 0
	for _, d := range dirents {
		if d.Type().IsRegular() && filepath.Ext(d.Name()) == ".md" {
			n++
		}
	}
	return n
}
