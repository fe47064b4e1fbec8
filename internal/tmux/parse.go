package tmux

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Each tmux command whose output we consume has its own parser. A parser
// rejects anything that does not match the expected shape instead of guessing.

// parsePaneID validates a pane handle like "%12".
func parsePaneID(out string) (string, error) {
	id := strings.TrimSpace(out)
	if len(id) < 2 || id[0] != '%' {
		return "", errors.Wrapf(ErrUnexpectedOutput, "pane id %q", out)
	}
	if _, err := strconv.Atoi(id[1:]); err != nil {
		return "", errors.Wrapf(ErrUnexpectedOutput, "pane id %q", out)
	}
	return id, nil
}

// parseWindowSize parses "#{window_width} #{window_height}".
func parseWindowSize(out string) (cols, rows int, err error) {
	fields := strings.Fields(out)
	if len(fields) != 2 {
		return 0, 0, errors.Wrapf(ErrUnexpectedOutput, "window size %q", out)
	}
	cols, err = strconv.Atoi(fields[0])
	if err != nil || cols <= 0 {
		return 0, 0, errors.Wrapf(ErrUnexpectedOutput, "window width %q", fields[0])
	}
	rows, err = strconv.Atoi(fields[1])
	if err != nil || rows <= 0 {
		return 0, 0, errors.Wrapf(ErrUnexpectedOutput, "window height %q", fields[1])
	}
	return cols, rows, nil
}

// parseFlag parses a tmux boolean format variable ("0" or "1").
func parseFlag(out string) (bool, error) {
	switch strings.TrimSpace(out) {
	case "1":
		return true, nil
	case "0":
		return false, nil
	default:
		return false, errors.Wrapf(ErrUnexpectedOutput, "flag %q", out)
	}
}

// parseTTY validates a terminal device path like "/dev/ttys004".
func parseTTY(out string) (string, error) {
	tty := strings.TrimSpace(out)
	if !strings.HasPrefix(tty, "/") || strings.ContainsAny(tty, " \t\n") {
		return "", errors.Wrapf(ErrUnexpectedOutput, "tty %q", out)
	}
	return tty, nil
}

// parseTTYList parses newline-separated client ttys. Empty output means no clients.
func parseTTYList(out string) ([]string, error) {
	var ttys []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		tty, err := parseTTY(line)
		if err != nil {
			return nil, err
		}
		ttys = append(ttys, tty)
	}
	return ttys, nil
}

// parsePaneList parses list-panes output produced with paneListFormat.
func parsePaneList(out string) ([]PaneInfo, error) {
	var panes []PaneInfo
	for _, line := range strings.Split(out, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) != 5 {
			return nil, errors.Wrapf(ErrUnexpectedOutput, "pane line %q", line)
		}
		id, err := parsePaneID(fields[0])
		if err != nil {
			return nil, err
		}
		active, err := parseFlag(fields[1])
		if err != nil {
			return nil, err
		}
		width, werr := strconv.Atoi(fields[2])
		height, herr := strconv.Atoi(fields[3])
		if werr != nil || herr != nil {
			return nil, errors.Wrapf(ErrUnexpectedOutput, "pane size in %q", line)
		}
		panes = append(panes, PaneInfo{
			ID:     id,
			Active: active,
			Width:  width,
			Height: height,
			Role:   fields[4],
		})
	}
	return panes, nil
}
