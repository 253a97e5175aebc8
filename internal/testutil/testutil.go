// Package testutil provides shared helpers for maildesk tests.
//
// The package is organized into focused files:
//   - fs_helpers.go: sandboxed fixture writes (WriteFile, MustExist)
//   - builders.go: entry file builder (NewEntry)
//   - exec_helpers.go: fake external mail command (FakeMailCmd)
//   - log_helpers.go: quiet test logger (Logger)
package testutil
