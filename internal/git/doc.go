// Package git provides low-level Git operations.
//
// It wraps git command execution and provides a Go-friendly interface for:
//   - Branch management (create, delete, checkout)
//   - Repo state queries (status, revisions, merge bases, files at a ref)
//   - Remote operations (fetch, push, remote branch lookups)
//   - Comparing a local branch with its remote counterpart (SyncStatus)
//
// This package should be the only place where direct git commands are executed.
package git
