package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pappardelle/pappardelle/internal/status"
)

// configMu protects concurrent config file access
var configMu sync.Mutex

const (
	configDir  = ".pappardelle"
	configFile = "config.yml"
	logDir     = "logs"
)

// Defaults applied to missing or non-positive settings.
const (
	DefaultAssistantCommand    = "claude"
	DefaultReviewCommand       = "lazygit"
	DefaultPollInterval        = 2 * time.Second
	DefaultResizeDebounce      = 150 * time.Millisecond
	DefaultZoomSettle          = 100 * time.Millisecond
	DefaultCommandTimeout      = 5 * time.Second
	DefaultHeavyCommandTimeout = 15 * time.Second
)

// Config is the user-editable configuration stored in ~/.pappardelle/config.yml.
type Config struct {
	// AssistantCommand runs in each workspace's assistant session.
	AssistantCommand string `yaml:"assistant_command"`
	// ReviewCommand runs in each workspace's review session.
	ReviewCommand string `yaml:"review_command"`
	// StatusDir is where the hooks write per-workspace status files.
	StatusDir string `yaml:"status_dir"`
	// RepoPath is the repository whose worktrees are listed. Empty means the
	// working directory.
	RepoPath string `yaml:"repo_path"`

	PollInterval        time.Duration `yaml:"poll_interval"`
	ResizeDebounce      time.Duration `yaml:"resize_debounce"`
	ZoomSettle          time.Duration `yaml:"zoom_settle"`
	CommandTimeout      time.Duration `yaml:"command_timeout"`
	HeavyCommandTimeout time.Duration `yaml:"heavy_command_timeout"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		AssistantCommand:    DefaultAssistantCommand,
		ReviewCommand:       DefaultReviewCommand,
		StatusDir:           status.DefaultDir(),
		PollInterval:        DefaultPollInterval,
		ResizeDebounce:      DefaultResizeDebounce,
		ZoomSettle:          DefaultZoomSettle,
		CommandTimeout:      DefaultCommandTimeout,
		HeavyCommandTimeout: DefaultHeavyCommandTimeout,
	}
}

// ConfigDir returns the path to the pappardelle config directory (~/.pappardelle)
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, configDir), nil
}

// ConfigPath returns the full path to the default config file
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFile), nil
}

// LogDir returns the directory log files are written to.
func LogDir() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, logDir), nil
}

// Load reads the config at path, or at ConfigPath when path is empty.
// Returns the defaults if the file doesn't exist. Unknown keys are an error.
func Load(path string) (*Config, error) {
	configMu.Lock()
	defer configMu.Unlock()

	if path == "" {
		p, err := ConfigPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	cfg.normalize()
	return cfg, nil
}

// Save writes cfg as YAML to path, or to ConfigPath when path is empty.
func Save(path string, cfg *Config) error {
	configMu.Lock()
	defer configMu.Unlock()

	if path == "" {
		p, err := ConfigPath()
		if err != nil {
			return err
		}
		path = p
	}

	// Ensure config directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// normalize replaces empty or non-positive settings with defaults and expands
// a leading ~ in paths.
func (c *Config) normalize() {
	def := Default()
	if strings.TrimSpace(c.AssistantCommand) == "" {
		c.AssistantCommand = def.AssistantCommand
	}
	if strings.TrimSpace(c.ReviewCommand) == "" {
		c.ReviewCommand = def.ReviewCommand
	}
	if c.StatusDir == "" {
		c.StatusDir = def.StatusDir
	}

	durations := []struct {
		v   *time.Duration
		def time.Duration
	}{
		{&c.PollInterval, def.PollInterval},
		{&c.ResizeDebounce, def.ResizeDebounce},
		{&c.ZoomSettle, def.ZoomSettle},
		{&c.CommandTimeout, def.CommandTimeout},
		{&c.HeavyCommandTimeout, def.HeavyCommandTimeout},
	}
	for _, d := range durations {
		if *d.v <= 0 {
			*d.v = d.def
		}
	}

	c.StatusDir = expandHome(c.StatusDir)
	c.RepoPath = expandHome(c.RepoPath)
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
