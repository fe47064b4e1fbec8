package tmux

import (
	"context"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Default per-call timeouts. Heavy calls create panes or sessions.
const (
	DefaultTimeout      = 5 * time.Second
	DefaultHeavyTimeout = 15 * time.Second
)

var (
	// ErrNotInTmux is returned when the process is not running inside a tmux client.
	ErrNotInTmux = errors.New("not running inside tmux")
	// ErrTimeout is returned when a tmux call exceeds its deadline.
	ErrTimeout = errors.New("tmux command timed out")
	// ErrNotFound is returned when the target pane, window or session no longer exists.
	ErrNotFound = errors.New("tmux target not found")
	// ErrNoServer is returned when no tmux server is listening on the socket.
	ErrNoServer = errors.New("no tmux server running")
	// ErrUnexpectedOutput is returned when a command's output does not have the expected shape.
	ErrUnexpectedOutput = errors.New("unexpected tmux output")
)

// Runner executes a tmux command line and returns its combined, trimmed output.
type Runner interface {
	Run(ctx context.Context, args ...string) (string, error)
}

// execRunner shells out to the tmux binary.
type execRunner struct {
	socket string
}

func (r execRunner) Run(ctx context.Context, args ...string) (string, error) {
	fullArgs := args
	if r.socket != "" {
		fullArgs = append([]string{"-L", r.socket}, args...)
	}
	cmd := exec.CommandContext(ctx, "tmux", fullArgs...)
	out, err := cmd.CombinedOutput()
	return strings.TrimSpace(string(out)), err
}

// Client wraps tmux CLI commands. A zero socket targets the server of the
// enclosing tmux client.
type Client struct {
	socket       string
	runner       Runner
	timeout      time.Duration
	heavyTimeout time.Duration
}

// NewClient creates a tmux client targeting the given socket name.
func NewClient(socket string) *Client {
	return &Client{
		socket:       socket,
		runner:       execRunner{socket: socket},
		timeout:      DefaultTimeout,
		heavyTimeout: DefaultHeavyTimeout,
	}
}

// NewClientWithRunner creates a client that sends every command through r.
func NewClientWithRunner(r Runner) *Client {
	return &Client{
		runner:       r,
		timeout:      DefaultTimeout,
		heavyTimeout: DefaultHeavyTimeout,
	}
}

// Socket returns the socket name.
func (c *Client) Socket() string {
	return c.socket
}

// SetTimeouts overrides the per-call deadlines. Non-positive values keep the current setting.
func (c *Client) SetTimeouts(light, heavy time.Duration) {
	if light > 0 {
		c.timeout = light
	}
	if heavy > 0 {
		c.heavyTimeout = heavy
	}
}

// run executes a lightweight tmux command.
func (c *Client) run(ctx context.Context, args ...string) (string, error) {
	return c.runWithTimeout(ctx, c.timeout, args...)
}

// runHeavy executes a tmux command that creates panes or sessions.
func (c *Client) runHeavy(ctx context.Context, args ...string) (string, error) {
	return c.runWithTimeout(ctx, c.heavyTimeout, args...)
}

func (c *Client) runWithTimeout(ctx context.Context, timeout time.Duration, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	out, err := c.runner.Run(ctx, args...)
	if err == nil {
		return out, nil
	}

	name := "tmux"
	if len(args) > 0 {
		name = "tmux " + args[0]
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return out, errors.Wrapf(ErrTimeout, "%s after %s", name, timeout)
	}
	return out, classify(name, out, err)
}

// classify maps tmux's error text onto the package sentinels.
func classify(name, out string, err error) error {
	lower := strings.ToLower(out)
	switch {
	case strings.Contains(lower, "can't find"),
		strings.Contains(lower, "no such"),
		strings.Contains(lower, "not found"):
		return errors.Wrapf(ErrNotFound, "%s: %s", name, out)
	case strings.Contains(lower, "no server running"),
		strings.Contains(lower, "error connecting"):
		return errors.Wrapf(ErrNoServer, "%s: %s", name, out)
	}
	if strings.Contains(err.Error(), "executable file not found") {
		return errors.Wrap(err, "tmux not installed")
	}
	if out != "" {
		return errors.Wrapf(err, "%s: %s", name, out)
	}
	return errors.Wrap(err, name)
}

// InsideTmux reports whether this process runs inside a tmux client.
func InsideTmux() bool {
	return os.Getenv("TMUX") != ""
}

// CurrentPane returns the pane this process runs in, from $TMUX_PANE.
func CurrentPane() (string, error) {
	if !InsideTmux() {
		return "", ErrNotInTmux
	}
	pane := os.Getenv("TMUX_PANE")
	if _, err := parsePaneID(pane); err != nil {
		return "", errors.Wrap(err, "TMUX_PANE")
	}
	return pane, nil
}

// ServerRunning checks if a tmux server is running on this socket.
func (c *Client) ServerRunning(ctx context.Context) (bool, error) {
	_, err := c.run(ctx, "list-sessions")
	if err == nil {
		return true, nil
	}
	if errors.Is(err, ErrNoServer) {
		return false, nil
	}
	return false, err
}

// Prefix returns the user's configured tmux prefix key (e.g., "C-b").
func (c *Client) Prefix(ctx context.Context) (string, error) {
	out, err := c.run(ctx, "show-option", "-gv", "prefix")
	if err != nil || out == "" {
		return "C-b", nil // default fallback
	}
	return out, nil
}
