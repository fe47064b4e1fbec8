package git

import "context"

// GitClient defines the interface for git operations.
// This allows mocking git operations in tests without requiring a real git repository.
type GitClient interface {
	CurrentBranch(ctx context.Context) (string, error)
	TopLevel(ctx context.Context) (string, error)
	RepoName(ctx context.Context) (string, error)
	WorktreeList(ctx context.Context) ([]Worktree, error)
}

// Ensure Git implements GitClient
var _ GitClient = (*Git)(nil)
