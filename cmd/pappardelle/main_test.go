package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/urfave/cli/v2"

	"github.com/pappardelle/pappardelle/internal/config"
	"github.com/pappardelle/pappardelle/internal/status"
)

func TestInitConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	var out bytes.Buffer

	app := newApp()
	app.Writer = &out
	if err := app.Run([]string{"pappardelle", "--config", path, "init-config"}); err != nil {
		t.Fatalf("init-config: %v", err)
	}
	if strings.TrimSpace(out.String()) != path {
		t.Errorf("output = %q, want %q", out.String(), path)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.AssistantCommand != config.DefaultAssistantCommand {
		t.Errorf("AssistantCommand = %q, want default", cfg.AssistantCommand)
	}

	app = newApp()
	app.Writer = &out
	if err := app.Run([]string{"pappardelle", "--config", path, "init-config"}); err == nil {
		t.Error("second init-config should refuse to overwrite")
	}
	app = newApp()
	app.Writer = &out
	if err := app.Run([]string{"pappardelle", "--config", path, "init-config", "--force"}); err != nil {
		t.Errorf("init-config --force: %v", err)
	}
}

func TestLoadConfigRepoPriority(t *testing.T) {
	dir := t.TempDir()
	fromFile := filepath.Join(dir, "from-file")
	fromFlag := filepath.Join(dir, "from-flag")
	path := filepath.Join(dir, "config.yml")
	if err := os.WriteFile(path, []byte("repo_path: "+fromFile+"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"config file", []string{"pappardelle", "--config", path}, fromFile},
		{"flag wins", []string{"pappardelle", "--config", path, "--repo", fromFlag}, fromFlag},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got *config.Config
			app := newApp()
			app.Action = func(c *cli.Context) error {
				var err error
				got, err = loadConfig(c)
				return err
			}
			if err := app.Run(tt.args); err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if got.RepoPath != tt.want {
				t.Errorf("RepoPath = %q, want %q", got.RepoPath, tt.want)
			}
		})
	}
}

func TestLoadConfigDefaultsToWorkingDir(t *testing.T) {
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	var got *config.Config
	app := newApp()
	app.Action = func(c *cli.Context) error {
		got, err = loadConfig(c)
		return err
	}
	missing := filepath.Join(t.TempDir(), "none.yml")
	if err := app.Run([]string{"pappardelle", "--config", missing}); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got.RepoPath != wd {
		t.Errorf("RepoPath = %q, want %q", got.RepoPath, wd)
	}
}

func TestSetupPanesOutsideTmux(t *testing.T) {
	t.Setenv("TMUX", "")
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	wiring, reason := setupPanes(ctx, config.Default(), 3)
	if wiring != nil {
		t.Error("setupPanes outside tmux should not wire panes")
	}
	if reason != "Not inside tmux" {
		t.Errorf("reason = %q", reason)
	}
}

func TestHookWritesStatusFile(t *testing.T) {
	dir := t.TempDir()
	statusDir := filepath.Join(dir, "status")
	cfgPath := filepath.Join(dir, "config.yml")
	if err := os.WriteFile(cfgPath, []byte("status_dir: "+statusDir+"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name      string
		stdin     string
		args      []string
		wantFile  bool
		wantState status.Status
		wantTool  string
	}{
		{
			name:      "event on stdin",
			stdin:     `{"hook_event_name":"PreToolUse","tool_name":"Bash","session_id":"s1","cwd":"/nowhere/STA-9/src"}`,
			wantFile:  true,
			wantState: status.RunningTool,
			wantTool:  "Bash",
		},
		{
			name:      "explicit status",
			stdin:     `{"cwd":"/nowhere/STA-9"}`,
			args:      []string{"--tool", "Edit", "waiting_for_approval"},
			wantFile:  true,
			wantState: status.WaitingForApproval,
			wantTool:  "Edit",
		},
		{
			name:  "ignored event",
			stdin: `{"hook_event_name":"Notification","notification_type":"permission_prompt","cwd":"/nowhere/STA-9"}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.RemoveAll(statusDir)
			app := newApp()
			app.Reader = strings.NewReader(tt.stdin)
			args := append([]string{"pappardelle", "--config", cfgPath, "hook"}, tt.args...)
			if err := app.Run(args); err != nil {
				t.Fatalf("hook: %v", err)
			}

			sig, err := status.ReadSignal(filepath.Join(statusDir, "STA-9.json"))
			if !tt.wantFile {
				if err == nil {
					t.Errorf("ignored event wrote %+v", sig)
				}
				return
			}
			if err != nil {
				t.Fatalf("ReadSignal() error = %v", err)
			}
			if sig.Status != tt.wantState || sig.WorkspaceName != "STA-9" {
				t.Errorf("signal = %+v, want %s for STA-9", sig, tt.wantState)
			}
			if tt.wantTool != "" && sig.CurrentTool != tt.wantTool {
				t.Errorf("CurrentTool = %q, want %q", sig.CurrentTool, tt.wantTool)
			}
		})
	}
}

func TestHookRejectsUnknownStatus(t *testing.T) {
	app := newApp()
	app.Reader = strings.NewReader("")
	if err := app.Run([]string{"pappardelle", "--config", filepath.Join(t.TempDir(), "c.yml"), "hook", "busy"}); err == nil {
		t.Error("hook with an unknown status should fail")
	}
}

func TestHooksPrintsSettings(t *testing.T) {
	var out, errOut bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &errOut
	if err := app.Run([]string{"pappardelle", "hooks"}); err != nil {
		t.Fatalf("hooks: %v", err)
	}
	if !strings.Contains(out.String(), `"PreToolUse"`) {
		t.Errorf("settings missing PreToolUse:\n%s", out.String())
	}
	if !strings.Contains(errOut.String(), "settings.json") {
		t.Errorf("stderr = %q, want install hint", errOut.String())
	}
}
