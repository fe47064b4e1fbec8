package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/pappardelle/pappardelle/configs"
	"github.com/pappardelle/pappardelle/internal/config"
	"github.com/pappardelle/pappardelle/internal/git"
	"github.com/pappardelle/pappardelle/internal/panes"
	"github.com/pappardelle/pappardelle/internal/session"
	"github.com/pappardelle/pappardelle/internal/status"
	"github.com/pappardelle/pappardelle/internal/tmux"
	"github.com/pappardelle/pappardelle/internal/tui"
	"github.com/pappardelle/pappardelle/internal/workspace"
)

// Version info - set via ldflags at build time
// go build -ldflags "-X main.Version=v1.0.0 -X main.CommitHash=$(git rev-parse --short HEAD)"
var (
	Version    = "dev"
	CommitHash = "unknown"
)

// teardownTimeout bounds pane cleanup after the list exits.
const teardownTimeout = 5 * time.Second

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "pappardelle: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "pappardelle",
		Usage:   "worktree dashboard that drives tmux viewer panes",
		Version: fmt.Sprintf("%s (%s)", Version, CommitHash),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "config file (default ~/.pappardelle/config.yml)",
				EnvVars: []string{"PAPPARDELLE_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "repo",
				Aliases: []string{"r"},
				Usage:   "repository whose worktrees are listed",
			},
			&cli.BoolFlag{
				Name:  "standalone",
				Usage: "run the list without viewer panes",
			},
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "write debug messages to the log file",
				EnvVars: []string{"PAPPARDELLE_DEBUG"},
			},
		},
		Action: runDashboard,
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "print workspace keys, one per line",
				Action: runList,
			},
			{
				Name:      "hook",
				Usage:     "record the assistant's status from a hook event on stdin",
				ArgsUsage: "[status]",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "tool", Usage: "tool name recorded with the status"},
				},
				Action: runHook,
			},
			{
				Name:   "hooks",
				Usage:  "print the assistant settings that report status to the dashboard",
				Action: runHooks,
			},
			{
				Name:  "init-config",
				Usage: "write the default config file",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "force", Usage: "overwrite an existing file"},
				},
				Action: runInitConfig,
			},
		},
	}
}

// configPath returns the --config value or the default location.
func configPath(c *cli.Context) (string, error) {
	if p := c.String("config"); p != "" {
		return p, nil
	}
	return config.ConfigPath()
}

// loadConfig reads the config and resolves the repository path.
// Priority: --repo flag > repo_path setting > working directory.
func loadConfig(c *cli.Context) (*config.Config, error) {
	path, err := configPath(c)
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if repo := c.String("repo"); repo != "" {
		cfg.RepoPath = repo
	}
	if cfg.RepoPath == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		cfg.RepoPath = wd
	}
	abs, err := filepath.Abs(cfg.RepoPath)
	if err != nil {
		return nil, fmt.Errorf("resolve repo path: %w", err)
	}
	cfg.RepoPath = abs
	return cfg, nil
}

func runInitConfig(c *cli.Context) error {
	path, err := configPath(c)
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err == nil && !c.Bool("force") {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	if err := config.Save(path, config.Default()); err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, path)
	return nil
}

func runList(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(c.Context, cfg.HeavyCommandTimeout)
	defer cancel()

	keys, err := workspace.NewInventory(git.New(cfg.RepoPath)).CurrentKeys(ctx)
	if err != nil {
		return err
	}
	for _, k := range keys {
		fmt.Fprintln(c.App.Writer, k)
	}
	return nil
}

func runHooks(c *cli.Context) error {
	fmt.Fprintf(c.App.ErrWriter, "# merge into ~/.claude/settings.json (version %s)\n", configs.HooksSettingsHash())
	_, err := c.App.Writer.Write(configs.HooksSettings)
	return err
}

// runHook writes the status file for the workspace the hook runs in. An
// explicit status argument wins over the event on stdin.
func runHook(c *cli.Context) error {
	var in status.HookInput
	if data, err := io.ReadAll(c.App.Reader); err == nil && len(data) > 0 {
		if err := json.Unmarshal(data, &in); err != nil {
			in = status.HookInput{}
		}
	}

	var st status.Status
	tool := in.ToolName
	if arg := c.Args().First(); arg != "" {
		parsed, err := status.ParseStatus(arg)
		if err != nil {
			return err
		}
		st = parsed
		tool = c.String("tool")
	} else {
		var ok bool
		if st, ok = status.StatusForHook(in); !ok {
			return nil
		}
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	dir := in.Cwd
	if dir == "" {
		if dir, err = os.Getwd(); err != nil {
			return err
		}
	}

	ctx, cancel := context.WithTimeout(c.Context, cfg.CommandTimeout)
	defer cancel()
	g := git.New(dir)
	branch, _ := g.CurrentBranch(ctx)
	repo, _ := g.RepoName(ctx)

	sessionID := in.SessionID
	if sessionID == "" {
		sessionID = os.Getenv("CLAUDE_SESSION_ID")
	}
	if sessionID == "" {
		sessionID = "unknown"
	}

	return status.WriteSignal(cfg.StatusDir, status.Signal{
		SessionID:     sessionID,
		WorkspaceName: workspace.KeyFor(dir, repo, branch),
		Status:        st,
		LastUpdate:    time.Now().UnixMilli(),
		CurrentTool:   tool,
		Event:         in.HookEventName,
		Cwd:           in.Cwd,
	})
}

// paneWiring is the tmux side of the dashboard. Nil in standalone mode.
type paneWiring struct {
	orch     *panes.Orchestrator
	attacher *panes.Attacher
	set      panes.PaneSet
	prefix   string
}

// setupPanes creates the viewer panes next to the pane we run in. On failure
// it returns the reason the dashboard runs standalone.
func setupPanes(ctx context.Context, cfg *config.Config, itemCount int) (*paneWiring, string) {
	root, err := tmux.CurrentPane()
	if err != nil {
		if errors.Is(err, tmux.ErrNotInTmux) {
			return nil, "Not inside tmux"
		}
		return nil, fmt.Sprintf("No tmux pane: %v", err)
	}

	client := tmux.NewClient("")
	client.SetTimeouts(cfg.CommandTimeout, cfg.HeavyCommandTimeout)

	orch := panes.NewOrchestrator(client, cfg.RepoPath)
	set, err := orch.SetupLayout(ctx, root, itemCount)
	if err != nil {
		tui.LogErr("pane setup: %v", err)
		return nil, "Viewer panes unavailable: " + err.Error()
	}

	sessions := session.NewManager(client, cfg.AssistantCommand, cfg.ReviewCommand)
	attacher := panes.NewAttacher(client, sessions)
	orch.SetViewerHooks(attacher)

	prefix, _ := client.Prefix(ctx)
	tui.LogInfo("panes ready: list=%s primary=%s secondary=%s", set.List, set.Primary, set.Secondary)
	return &paneWiring{orch: orch, attacher: attacher, set: set, prefix: prefix}, ""
}

func runDashboard(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	logDir, err := config.LogDir()
	if err != nil {
		logDir = filepath.Join(os.TempDir(), "pappardelle")
	}
	logFile := tui.InitLogging(logDir, c.Bool("debug"))
	defer logFile.Close()
	tui.SetVersionInfo(Version, CommitHash)
	tui.LogInfo("starting in %s", cfg.RepoPath)

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g := git.New(cfg.RepoPath)
	inv := workspace.NewInventory(g)
	opts := tui.Options{
		Inventory:      inv,
		RepoName:       filepath.Base(cfg.RepoPath),
		RepoPath:       cfg.RepoPath,
		PollInterval:   cfg.PollInterval,
		ResizeDebounce: cfg.ResizeDebounce,
		ZoomSettle:     cfg.ZoomSettle,
	}

	startCtx, cancel := context.WithTimeout(ctx, cfg.HeavyCommandTimeout)
	if name, err := g.RepoName(startCtx); err == nil {
		opts.RepoName = name
	}
	initial, err := inv.List(startCtx)
	cancel()
	if err != nil {
		tui.LogWarn("initial workspace list: %v", err)
	}

	var wiring *paneWiring
	if c.Bool("standalone") {
		opts.StandaloneReason = "Started with --standalone"
	} else {
		wiring, opts.StandaloneReason = setupPanes(ctx, cfg, len(initial))
	}
	if wiring != nil {
		opts.Engine = wiring.orch
		opts.Viewer = wiring.attacher
		opts.Panes = wiring.set
		opts.TmuxPrefix = wiring.prefix
		defer func() {
			tctx, cancel := context.WithTimeout(context.Background(), teardownTimeout)
			defer cancel()
			wiring.orch.Teardown(tctx)
		}()
	}

	events := make(chan status.Event, 64)
	opts.Events = events

	runCtx, cancelRun := context.WithCancel(ctx)
	defer cancelRun()
	group, gctx := errgroup.WithContext(runCtx)

	group.Go(func() error {
		err := status.NewPoller(cfg.StatusDir, cfg.PollInterval).Run(gctx, events)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	group.Go(func() error {
		// The poller stops with the list.
		defer cancelRun()
		p := tea.NewProgram(
			tui.NewAppModel(gctx, opts),
			tea.WithAltScreen(),
			tea.WithMouseCellMotion(),
			tea.WithContext(gctx),
		)
		if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			return fmt.Errorf("dashboard: %w", err)
		}
		return nil
	})

	err = group.Wait()
	close(events)
	tui.LogInfo("exiting")
	return err
}
