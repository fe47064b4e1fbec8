package status

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// HookInput is the JSON the assistant passes to a hook on stdin. Only the
// fields the status writer needs are decoded.
type HookInput struct {
	SessionID        string `json:"session_id"`
	HookEventName    string `json:"hook_event_name"`
	ToolName         string `json:"tool_name"`
	NotificationType string `json:"notification_type"`
	Cwd              string `json:"cwd"`
}

// ParseStatus validates a status given on the command line.
func ParseStatus(s string) (Status, error) {
	switch st := Status(strings.TrimSpace(s)); st {
	case Processing, RunningTool, WaitingForInput, WaitingForApproval, Compacting, Ended, Error:
		return st, nil
	}
	return Unknown, fmt.Errorf("unknown status %q", s)
}

// StatusForHook maps a hook event to a status. Events that don't change the
// status return false.
func StatusForHook(in HookInput) (Status, bool) {
	switch in.HookEventName {
	case "UserPromptSubmit", "PostToolUse":
		return Processing, true
	case "PreToolUse":
		return RunningTool, true
	case "PermissionRequest":
		return WaitingForApproval, true
	case "Stop", "SubagentStop", "SessionStart":
		return WaitingForInput, true
	case "SessionEnd":
		return Ended, true
	case "PreCompact":
		return Compacting, true
	case "Notification":
		// Permission prompts arrive as PermissionRequest too.
		if in.NotificationType == "idle_prompt" {
			return WaitingForInput, true
		}
	}
	return Unknown, false
}

// WriteSignal stores sig as <dir>/<workspace>.json. The file is replaced by
// rename so the poller never reads a partial document.
func WriteSignal(dir string, sig Signal) error {
	if sig.WorkspaceName == "" || strings.ContainsAny(sig.WorkspaceName, `/\`) {
		return fmt.Errorf("invalid workspace name %q", sig.WorkspaceName)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(sig, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+sig.WorkspaceName+"-*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), filepath.Join(dir, sig.WorkspaceName+".json"))
}
