// Package session creates and names the tmux sessions that back each workspace.
package session

import (
	"context"
	"log"
	"strings"
)

// Kind identifies which of a workspace's sessions is meant.
type Kind int

const (
	// Assistant runs the AI assistant for the workspace.
	Assistant Kind = iota
	// Review runs the git review tool for the workspace.
	Review
)

// String returns the display name for the kind
func (k Kind) String() string {
	switch k {
	case Assistant:
		return "assistant"
	case Review:
		return "review"
	default:
		return "unknown"
	}
}

// prefix returns the session-name prefix for the kind.
func (k Kind) prefix() string {
	if k == Review {
		return "review-"
	}
	return "claude-"
}

// Name returns the tmux session name for a workspace's session of the given kind.
func Name(kind Kind, workspaceKey string) string {
	return kind.prefix() + sanitizeName(workspaceKey)
}

// sanitizeName replaces characters tmux treats as target separators.
func sanitizeName(name string) string {
	return strings.NewReplacer(".", "-", ":", "-", " ", "-").Replace(name)
}

// Mux is the slice of the tmux client the session manager needs.
type Mux interface {
	HasSession(ctx context.Context, name string) (bool, error)
	NewSession(ctx context.Context, name, dir, command string) error
}

// Manager creates workspace sessions on demand.
type Manager struct {
	mux      Mux
	commands map[Kind]string
}

// NewManager creates a Manager that starts assistantCmd and reviewCmd in new sessions.
func NewManager(mux Mux, assistantCmd, reviewCmd string) *Manager {
	commands := map[Kind]string{
		Assistant: assistantCmd,
		Review:    reviewCmd,
	}
	return &Manager{mux: mux, commands: commands}
}

// Exists reports whether the named session is running. Lookup failures count as missing.
func (m *Manager) Exists(ctx context.Context, name string) bool {
	ok, err := m.mux.HasSession(ctx, name)
	if err != nil {
		log.Printf("[session] has-session %s: %v", name, err)
		return false
	}
	return ok
}

// Ensure starts the workspace's session of the given kind unless it is already
// running. Returns whether the session exists afterwards.
func (m *Manager) Ensure(ctx context.Context, kind Kind, workspaceKey, dir string) bool {
	name := Name(kind, workspaceKey)
	if m.Exists(ctx, name) {
		return true
	}
	if dir == "" {
		log.Printf("[session] no working directory for %s, not starting %s", workspaceKey, name)
		return false
	}

	if err := m.mux.NewSession(ctx, name, dir, m.commands[kind]); err != nil {
		// Another caller may have won the race.
		if m.Exists(ctx, name) {
			return true
		}
		log.Printf("[session] new-session %s: %v", name, err)
		return false
	}
	log.Printf("[session] started %s in %s", name, dir)
	return true
}
