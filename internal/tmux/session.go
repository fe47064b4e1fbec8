package tmux

import (
	"context"

	"github.com/pkg/errors"
)

// HasSession reports whether a session with exactly this name exists.
func (c *Client) HasSession(ctx context.Context, name string) (bool, error) {
	_, err := c.run(ctx, "has-session", "-t", "="+name)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrNoServer) {
		return false, nil
	}
	return false, err
}

// NewSession creates a detached session rooted at dir running command.
// An empty command starts the default shell.
func (c *Client) NewSession(ctx context.Context, name, dir, command string) error {
	args := []string{"new-session", "-d", "-s", name}
	if dir != "" {
		args = append(args, "-c", dir)
	}
	if command != "" {
		args = append(args, command)
	}
	_, err := c.runHeavy(ctx, args...)
	return err
}

// ListClientTTYs returns the tty of every attached client, nested ones included.
func (c *Client) ListClientTTYs(ctx context.Context) ([]string, error) {
	out, err := c.run(ctx, "list-clients", "-F", "#{client_tty}")
	if err != nil {
		return nil, err
	}
	return parseTTYList(out)
}

// SwitchClient points the client on tty at session.
func (c *Client) SwitchClient(ctx context.Context, tty, session string) error {
	_, err := c.run(ctx, "switch-client", "-c", tty, "-t", session)
	return err
}
