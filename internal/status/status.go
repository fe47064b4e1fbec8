// Package status reads the per-workspace status files written by the
// assistant's hooks and reports changes as events.
package status

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Status is the assistant state recorded in a status file.
type Status string

// Status values written by the hooks. Unknown means no status file.
const (
	Unknown            Status = ""
	Processing         Status = "processing"
	RunningTool        Status = "running_tool"
	WaitingForInput    Status = "waiting_for_input"
	WaitingForApproval Status = "waiting_for_approval"
	Compacting         Status = "compacting"
	Ended              Status = "ended"
	Error              Status = "error"
)

// Busy reports whether the assistant is working.
func (s Status) Busy() bool {
	return s == Processing || s == RunningTool || s == Compacting
}

// NeedsAttention reports whether the assistant is waiting on the user.
func (s Status) NeedsAttention() bool {
	return s == WaitingForInput || s == WaitingForApproval
}

// Signal is the JSON document stored in <dir>/<workspace>.json.
type Signal struct {
	SessionID     string `json:"sessionId"`
	WorkspaceName string `json:"workspaceName"`
	Status        Status `json:"status"`
	LastUpdate    int64  `json:"lastUpdate"` // unix milliseconds
	CurrentTool   string `json:"currentTool,omitempty"`
	Event         string `json:"event,omitempty"`
	Cwd           string `json:"cwd,omitempty"`
}

// Updated returns LastUpdate as a time.
func (s Signal) Updated() time.Time {
	return time.UnixMilli(s.LastUpdate)
}

// DefaultDir returns $PAPPARDELLE_STATUS_DIR, or ~/.pappardelle/claude-status.
func DefaultDir() string {
	if dir := os.Getenv("PAPPARDELLE_STATUS_DIR"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".pappardelle", "claude-status")
	}
	return filepath.Join(home, ".pappardelle", "claude-status")
}

// ReadSignal parses one status file.
func ReadSignal(path string) (Signal, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Signal{}, err
	}
	var sig Signal
	if err := json.Unmarshal(data, &sig); err != nil {
		return Signal{}, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return sig, nil
}
