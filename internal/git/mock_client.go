package git

import (
	"context"
	"path/filepath"
	"sync"
)

// MockGitClient is a mock implementation of GitClient for testing.
// It provides configurable function fields for custom behavior and
// tracks worktrees in memory to simulate a real repository.
type MockGitClient struct {
	mu sync.Mutex

	// Internal state
	currentBranch string
	topLevel      string
	worktrees     []Worktree

	// Configurable function fields - set these to override default behavior
	CurrentBranchFn func(ctx context.Context) (string, error)
	TopLevelFn      func(ctx context.Context) (string, error)
	RepoNameFn      func(ctx context.Context) (string, error)
	WorktreeListFn  func(ctx context.Context) ([]Worktree, error)

	// Error injection for testing error paths
	Err error // Set this to make all operations return this error
}

// NewMockGitClient creates a mock repository at topLevel with "main" checked out.
func NewMockGitClient(topLevel string) *MockGitClient {
	return &MockGitClient{
		currentBranch: "main",
		topLevel:      topLevel,
		worktrees:     []Worktree{{Path: topLevel, Head: "0000000", Branch: "main"}},
	}
}

// Ensure MockGitClient implements GitClient
var _ GitClient = (*MockGitClient)(nil)

// SetCurrentBranch sets the current branch for the mock.
func (m *MockGitClient) SetCurrentBranch(branch string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currentBranch = branch
	m.worktrees[0].Branch = branch
}

// AddWorktree adds a linked worktree on branch.
func (m *MockGitClient) AddWorktree(path, branch string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.worktrees = append(m.worktrees, Worktree{Path: path, Head: "0000000", Branch: branch})
}

// AddDetachedWorktree adds a linked worktree with a detached HEAD.
func (m *MockGitClient) AddDetachedWorktree(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.worktrees = append(m.worktrees, Worktree{Path: path, Head: "0000000", Detached: true})
}

// RemoveWorktree drops the worktree at path.
func (m *MockGitClient) RemoveWorktree(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, wt := range m.worktrees {
		if wt.Path == path {
			m.worktrees = append(m.worktrees[:i], m.worktrees[i+1:]...)
			return
		}
	}
}

func (m *MockGitClient) CurrentBranch(ctx context.Context) (string, error) {
	if m.CurrentBranchFn != nil {
		return m.CurrentBranchFn(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return "", m.Err
	}
	return m.currentBranch, nil
}

func (m *MockGitClient) TopLevel(ctx context.Context) (string, error) {
	if m.TopLevelFn != nil {
		return m.TopLevelFn(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return "", m.Err
	}
	return m.topLevel, nil
}

func (m *MockGitClient) RepoName(ctx context.Context) (string, error) {
	if m.RepoNameFn != nil {
		return m.RepoNameFn(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return "", m.Err
	}
	return filepath.Base(m.topLevel), nil
}

func (m *MockGitClient) WorktreeList(ctx context.Context) ([]Worktree, error) {
	if m.WorktreeListFn != nil {
		return m.WorktreeListFn(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	return append([]Worktree(nil), m.worktrees...), nil
}
