// Package workspace turns a repository's git worktrees into the workspaces the
// dashboard lists.
package workspace

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/pappardelle/pappardelle/internal/git"
)

// issueKeyPattern matches tracker issue keys such as "STA-123".
var issueKeyPattern = regexp.MustCompile(`^[A-Z]+-[0-9]+$`)

// Workspace is a worktree plus the key its sessions and status file are named by.
type Workspace struct {
	Key    string
	Path   string
	Branch string
	Main   bool // the repository's main worktree
}

// IsIssueKey reports whether s looks like a tracker issue key.
func IsIssueKey(s string) bool {
	return issueKeyPattern.MatchString(s)
}

// KeyFor derives a workspace key. The first path component that is an issue
// key wins; otherwise the key is "<repo>-<branch>". Status hooks running in
// the worktree derive the same key.
func KeyFor(path, repoName, branch string) string {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if IsIssueKey(part) {
			return part
		}
	}
	switch {
	case branch != "" && repoName != "":
		return repoName + "-" + branch
	case branch != "":
		return branch
	default:
		return filepath.Base(path)
	}
}

// Inventory lists the workspaces of one repository.
type Inventory struct {
	git git.GitClient
}

// NewInventory creates an Inventory backed by g.
func NewInventory(g git.GitClient) *Inventory {
	return &Inventory{git: g}
}

// List returns the repository's workspaces: the main worktree first, then
// linked worktrees ordered by key. Bare entries are skipped and a key claimed
// twice keeps its first worktree.
func (inv *Inventory) List(ctx context.Context) ([]Workspace, error) {
	worktrees, err := inv.git.WorktreeList(ctx)
	if err != nil {
		return nil, fmt.Errorf("list worktrees: %w", err)
	}
	repoName, err := inv.git.RepoName(ctx)
	if err != nil {
		return nil, fmt.Errorf("repo name: %w", err)
	}

	seen := make(map[string]bool)
	var main, linked []Workspace
	for i, wt := range worktrees {
		if wt.Bare {
			continue
		}
		ws := Workspace{
			Key:    KeyFor(wt.Path, repoName, wt.Branch),
			Path:   wt.Path,
			Branch: wt.Branch,
			Main:   i == 0,
		}
		if seen[ws.Key] {
			continue
		}
		seen[ws.Key] = true
		if ws.Main {
			main = append(main, ws)
		} else {
			linked = append(linked, ws)
		}
	}

	sort.Slice(linked, func(i, j int) bool { return linked[i].Key < linked[j].Key })
	return append(main, linked...), nil
}

// CurrentKeys returns the keys of List in order.
func (inv *Inventory) CurrentKeys(ctx context.Context) ([]string, error) {
	list, err := inv.List(ctx)
	if err != nil {
		return nil, err
	}
	keys := make([]string, len(list))
	for i, ws := range list {
		keys[i] = ws.Key
	}
	return keys, nil
}
