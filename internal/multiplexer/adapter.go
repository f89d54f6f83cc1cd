// Package multiplexer shells out to an external terminal multiplexer to
// own the actual PTYs the daemon's sessions are backed by (spec §2, §4.2).
// The daemon never implements a PTY itself; it only ever asks tmux to spawn,
// feed, capture, or kill one.
package multiplexer

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"loomd/internal/logger"
)

// socketLabel is the `-L` argument every invocation carries, isolating the
// daemon's sessions from any tmux server the user's interactive shell may
// already have running (spec.md Open Question, resolved: universal, not
// just for the health probe).
const socketLabel = "loom"

// Adapter is the seam between the daemon and whatever multiplexer binary is
// actually installed, grounded on the teacher's TerminalMultiplexer
// interface (packages/core/internal/interfaces). A fake implementation
// stands in for this in unit tests so command construction can be asserted
// without a real tmux server.
type Adapter interface {
	// Spawn starts a new detached session with the given name, optional
	// working directory, and initial geometry.
	Spawn(sessionName, workingDir string, cols, rows int) error
	// SendKeys delivers one chunk of input to a session.
	SendKeys(sessionName, data string) error
	// Kill terminates a session.
	Kill(sessionName string) error
	// Capture returns pane content from startLine (if non-negative) to the
	// end of scrollback, plus the total history size in lines.
	Capture(sessionName string, startLine int) (content string, totalLines int, err error)
	// Resize changes a session's window geometry.
	Resize(sessionName string, cols, rows int) error
	// ListSessions returns every session name the multiplexer server
	// currently knows about, daemon-owned or not.
	ListSessions() ([]string, error)
	// HasSession reports whether sessionName currently exists.
	HasSession(sessionName string) bool
}

// ErrNoServerRunning is returned by ListSessions when the multiplexer has no
// server running at all (as opposed to a server with zero sessions) — the
// distinction the health probe (spec §4.7) needs to tell "nothing built yet"
// apart from "something crashed".
var ErrNoServerRunning = errors.New("multiplexer: no server running")

// TmuxAdapter is the only Adapter implementation: every operation shells out
// to a tmux binary located at construction time, grounded on the teacher's
// packages/core/internal/multiplexer/tmux.go binary-discovery logic and on
// original_source's terminal.rs command shapes.
type TmuxAdapter struct {
	tmuxPath string
	log      *logger.Logger
}

// SetLogger attaches a logger so every invocation is reported via
// DebugCommand before it runs, the equivalent of original_source's
// `log::debug!` ahead of each tmux call. A nil adapter logger (the
// zero value) is fine; command() simply skips logging.
func (a *TmuxAdapter) SetLogger(log *logger.Logger) {
	a.log = log
}

// NewTmuxAdapter locates a tmux binary (PATH first, then the common
// Homebrew/usr install locations the teacher also checks) and returns an
// adapter bound to it. It does not verify that a binary exists at the chosen
// path; IsAvailable reports whether one could be located.
func NewTmuxAdapter() *TmuxAdapter {
	path := "tmux"
	if _, err := exec.LookPath("tmux"); err != nil {
		for _, candidate := range []string{
			"/opt/homebrew/bin/tmux",
			"/usr/local/bin/tmux",
			"/usr/bin/tmux",
		} {
			if _, statErr := os.Stat(candidate); statErr == nil {
				path = candidate
				break
			}
		}
	}
	return &TmuxAdapter{tmuxPath: path}
}

// NewTmuxAdapterWithPath binds an adapter to an explicit tmux binary,
// bypassing discovery entirely. Used when config.Config.MultiplexerPath is
// set.
func NewTmuxAdapterWithPath(path string) *TmuxAdapter {
	return &TmuxAdapter{tmuxPath: path}
}

// IsAvailable reports whether a tmux binary could be located at all.
func (a *TmuxAdapter) IsAvailable() bool {
	if a.tmuxPath != "tmux" {
		return true
	}
	_, err := exec.LookPath("tmux")
	return err == nil
}

func (a *TmuxAdapter) command(args ...string) *exec.Cmd {
	full := append([]string{"-L", socketLabel}, args...)
	if a.log != nil {
		a.log.DebugCommand(a.tmuxPath, full, "")
	}
	return exec.Command(a.tmuxPath, full...)
}

// spawnArgs builds the new-session argument list (excluding -L loom, added
// by command()). Factored out so its shape is unit-testable without
// executing tmux.
func spawnArgs(sessionName, workingDir string, cols, rows int) []string {
	args := []string{"new-session", "-d", "-s", sessionName,
		"-x", strconv.Itoa(cols), "-y", strconv.Itoa(rows)}
	if workingDir != "" {
		args = append(args, "-c", workingDir)
	}
	return args
}

// Spawn creates a detached session with the given geometry (spec.md's
// standard 80x24 default is the caller's concern, not the adapter's).
func (a *TmuxAdapter) Spawn(sessionName, workingDir string, cols, rows int) error {
	if err := a.command(spawnArgs(sessionName, workingDir, cols, rows)...).Run(); err != nil {
		return fmt.Errorf("multiplexer: spawn %q: %w", sessionName, err)
	}
	return nil
}

// sendKeysArgs implements the three-way control-character switch: a bare
// carriage return becomes Enter, ETX (^C) becomes an interrupt, and
// everything else is sent as literal data so the multiplexer never
// reinterprets it as a key name.
func sendKeysArgs(sessionName, data string) []string {
	switch data {
	case "\r":
		return []string{"send-keys", "-t", sessionName, "Enter"}
	case "\x03":
		return []string{"send-keys", "-t", sessionName, "C-c"}
	default:
		return []string{"send-keys", "-t", sessionName, "-l", data}
	}
}

// SendKeys delivers one chunk of input to a session.
func (a *TmuxAdapter) SendKeys(sessionName, data string) error {
	if err := a.command(sendKeysArgs(sessionName, data)...).Run(); err != nil {
		return fmt.Errorf("multiplexer: send-keys %q: %w", sessionName, err)
	}
	return nil
}

// Kill terminates a session.
func (a *TmuxAdapter) Kill(sessionName string) error {
	if err := a.command("kill-session", "-t", sessionName).Run(); err != nil {
		return fmt.Errorf("multiplexer: kill %q: %w", sessionName, err)
	}
	return nil
}

// captureArgs mirrors original_source's get_terminal_output exactly: when
// startLine falls within the known history, capture only the trailing
// suffix of it; otherwise capture the entire scrollback.
func captureArgs(sessionName string, startLine, totalLines int) []string {
	args := []string{"capture-pane", "-t", sessionName, "-p", "-e", "-J"}
	if startLine >= 0 && startLine < totalLines {
		linesToCapture := totalLines - startLine
		return append(args, "-S", "-"+strconv.Itoa(linesToCapture))
	}
	return append(args, "-S", "-")
}

// Capture reads scrollback via display-message's history_size followed by
// capture-pane, mirroring original_source's get_terminal_output exactly:
// query the total line count first, then ask tmux for just the requested
// suffix of it (or the full history when startLine is negative).
func (a *TmuxAdapter) Capture(sessionName string, startLine int) (string, int, error) {
	historyOut, err := a.command("display-message", "-t", sessionName, "-p", "#{history_size}").Output()
	if err != nil {
		return "", 0, fmt.Errorf("multiplexer: history size %q: %w", sessionName, err)
	}
	totalLines, _ := strconv.Atoi(strings.TrimSpace(string(historyOut)))

	out, err := a.command(captureArgs(sessionName, startLine, totalLines)...).Output()
	if err != nil {
		return "", 0, fmt.Errorf("multiplexer: capture %q: %w", sessionName, err)
	}
	return string(out), totalLines, nil
}

// Resize changes a session's window geometry. Resizing the window resizes
// its pane too as long as there is only one pane, which is all the daemon
// ever creates.
func (a *TmuxAdapter) Resize(sessionName string, cols, rows int) error {
	args := []string{"resize-window", "-t", sessionName,
		"-x", strconv.Itoa(cols), "-y", strconv.Itoa(rows)}
	if err := a.command(args...).Run(); err != nil {
		return fmt.Errorf("multiplexer: resize %q: %w", sessionName, err)
	}
	return nil
}

// ListSessions returns every session name the server reports. tmux exits
// non-zero both when its server isn't running at all and when it has zero
// sessions; the two are distinguished by message text the way the teacher's
// ListSessions and original_source's list_available_sessions both do.
func (a *TmuxAdapter) ListSessions() ([]string, error) {
	out, err := a.command("list-sessions", "-F", "#{session_name}").Output()
	if err != nil {
		msg := err.Error()
		if exitErr, ok := err.(*exec.ExitError); ok {
			msg = string(exitErr.Stderr)
		}
		if strings.Contains(msg, "no server running") {
			return nil, ErrNoServerRunning
		}
		if strings.Contains(msg, "no sessions") {
			return nil, nil
		}
		return nil, fmt.Errorf("multiplexer: list-sessions: %w", err)
	}

	trimmed := strings.TrimSpace(string(out))
	if trimmed == "" {
		return nil, nil
	}
	return strings.Split(trimmed, "\n"), nil
}

// HasSession reports whether sessionName currently exists.
func (a *TmuxAdapter) HasSession(sessionName string) bool {
	return a.command("has-session", "-t", sessionName).Run() == nil
}
