package git

import (
	"fmt"
	"strings"
)

// Worktree is one entry of `git worktree list --porcelain`.
type Worktree struct {
	Path     string
	Head     string
	Branch   string // short name, empty when detached or bare
	Bare     bool
	Detached bool
	Locked   bool
}

// ParseWorktrees parses porcelain worktree output. Entries are separated by
// blank lines and each must start with a "worktree" line.
func ParseWorktrees(out string) ([]Worktree, error) {
	var (
		list []Worktree
		cur  *Worktree
	)
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			cur = nil
			continue
		}

		key, value, _ := strings.Cut(line, " ")
		if key == "worktree" {
			if value == "" {
				return nil, fmt.Errorf("worktree line without path")
			}
			list = append(list, Worktree{Path: value})
			cur = &list[len(list)-1]
			continue
		}
		if cur == nil {
			return nil, fmt.Errorf("unexpected worktree output line %q", line)
		}

		switch key {
		case "HEAD":
			cur.Head = value
		case "branch":
			cur.Branch = strings.TrimPrefix(value, "refs/heads/")
		case "bare":
			cur.Bare = true
		case "detached":
			cur.Detached = true
		case "locked":
			cur.Locked = true
		}
	}
	return list, nil
}
