package testutil

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// FakeMailCmd writes a shell script standing in for the external mail
// command and returns its path. Tests that exercise the real command
// interface use this to control its output and exit code.
func FakeMailCmd(t *testing.T, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake mail command requires a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "fakemail")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script+"\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}
