// Package daemon owns the concurrency core and connection dispatcher that
// sit between the wire protocol and the session registry/multiplexer
// adapter (spec §4.5, §4.6).
package daemon

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"loomd/internal/logger"
	"loomd/internal/multiplexer"
	"loomd/internal/registry"
	"loomd/internal/wire"
)

// Default session geometry, matching original_source's "standard width:
// 80 columns" / "standard height: 24 rows" constants.
const (
	defaultCols = 80
	defaultRows = 24
)

// ErrTerminalNotFound is returned by every Core method that is handed an
// unknown session id, mirroring original_source's uniform "Terminal not
// found" message.
var ErrTerminalNotFound = errors.New("terminal not found")

// Core is the daemon's single point of mutual exclusion over the registry
// (spec §4.6): one mutex, held across registry+adapter calls that must be
// atomic (create/destroy/attach), released before adapter calls that only
// need a consistent snapshot (send/output/resize/health), and never held
// across a capture.
type Core struct {
	mu       sync.Mutex
	registry *registry.Registry
	adapter  multiplexer.Adapter
	log      *logger.Logger
}

// NewCore wires a registry and adapter together. The caller is responsible
// for having already run registry.Recover before accepting connections.
func NewCore(reg *registry.Registry, adapter multiplexer.Adapter) *Core {
	return &Core{registry: reg, adapter: adapter}
}

// SetLogger attaches a logger so slow operations can record a performance
// sample. A Core with no logger attached (the zero value) skips sampling.
func (c *Core) SetLogger(log *logger.Logger) {
	c.log = log
}

// newID mints a session identifier: a v4 UUID with its hyphens stripped, so
// it can never be mistaken for a role/instance suffix when embedded in a
// multiplexer session name (see registry.ParseID).
func newID() string {
	raw := uuid.New().String()
	stripped := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		if raw[i] != '-' {
			stripped = append(stripped, raw[i])
		}
	}
	return string(stripped)
}

// CreateTerminal spawns a new multiplexer session and registers it.
// Registration and spawn are atomic: the lock is held across the adapter
// call so a concurrent ListTerminals never observes a half-created record.
func (c *Core) CreateTerminal(name, workingDir string) (*registry.Record, error) {
	id := newID()
	sessionName := registry.Name(id, "", 0)

	c.mu.Lock()
	defer c.mu.Unlock()

	var wd *string
	if workingDir != "" {
		wd = &workingDir
	}

	if err := c.adapter.Spawn(sessionName, workingDir, defaultCols, defaultRows); err != nil {
		return nil, fmt.Errorf("create terminal: %w", err)
	}

	rec := &registry.Record{
		ID:                 id,
		Name:               name,
		MultiplexerSession: sessionName,
		WorkingDir:         wd,
		CreatedAt:          registry.NowEpoch(),
	}
	c.registry.Insert(rec)
	return rec, nil
}

// ListTerminals returns every registered session. A pure registry read: no
// adapter call at all, so the lock is released immediately.
func (c *Core) ListTerminals() []*registry.Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.registry.List()
}

// DestroyTerminal kills the backing session and removes the record
// atomically: the lock spans both so a concurrent lookup never finds a
// record whose session has already been killed, or vice versa.
func (c *Core) DestroyTerminal(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	rec, ok := c.registry.Get(id)
	if !ok {
		return ErrTerminalNotFound
	}
	if err := c.adapter.Kill(rec.MultiplexerSession); err != nil {
		return fmt.Errorf("destroy terminal: %w", err)
	}
	c.registry.Remove(id)
	return nil
}

// SendInput looks up the session, releases the lock, and forwards the
// keystrokes. Send is not atomic with the lookup — that is fine; the
// adapter call targets a session name, not the registry, and a session
// destroyed mid-call simply fails in the adapter.
func (c *Core) SendInput(id, data string) error {
	sessionName, err := c.sessionNameFor(id)
	if err != nil {
		return err
	}
	if err := c.adapter.SendKeys(sessionName, data); err != nil {
		return fmt.Errorf("send input: %w", err)
	}
	return nil
}

// GetTerminalOutput looks up the session, releases the lock, then
// captures. The lock is never held across this call: scrollback output can
// run to hundreds of kilobytes and the capture is comparatively slow.
func (c *Core) GetTerminalOutput(id string, startLine int) (string, int, error) {
	sessionName, err := c.sessionNameFor(id)
	if err != nil {
		return "", 0, err
	}
	start := time.Now()
	output, total, err := c.adapter.Capture(sessionName, startLine)
	if c.log != nil {
		c.log.Performance("capture", start, slog.String("session", sessionName), slog.Int("total_lines", total))
	}
	if err != nil {
		return "", 0, fmt.Errorf("get terminal output: %w", err)
	}
	return output, total, nil
}

// ResizeTerminal looks up the session, releases the lock, then resizes.
func (c *Core) ResizeTerminal(id string, cols, rows int) error {
	sessionName, err := c.sessionNameFor(id)
	if err != nil {
		return err
	}
	if err := c.adapter.Resize(sessionName, cols, rows); err != nil {
		return fmt.Errorf("resize terminal: %w", err)
	}
	return nil
}

// CheckSessionHealth reports whether a registered terminal's backing
// session still exists in the multiplexer. An id with no registry entry is
// not automatically unhealthy: the multiplexer is the ground truth, and a
// session spawned directly as loom-<id>[-<role>-<instance>] without ever
// going through CreateTerminal still answers true here, matching
// original_source's fallback that scans the multiplexer's own session list
// by id rather than trusting the registry alone.
func (c *Core) CheckSessionHealth(id string) (bool, error) {
	sessionName, err := c.sessionNameFor(id)
	if err == nil {
		return c.adapter.HasSession(sessionName), nil
	}
	if !errors.Is(err, ErrTerminalNotFound) {
		return false, err
	}

	names, listErr := c.adapter.ListSessions()
	if listErr != nil {
		if errors.Is(listErr, multiplexer.ErrNoServerRunning) {
			return false, nil
		}
		return false, fmt.Errorf("check session health: %w", listErr)
	}
	for _, name := range names {
		if parsedID, ok := registry.ParseID(name); ok && parsedID == id {
			return true, nil
		}
	}
	return false, nil
}

// ListAvailableSessions returns every daemon-owned session name the
// multiplexer reports, registered or not — a pure adapter call, no lock
// needed.
func (c *Core) ListAvailableSessions() ([]string, error) {
	all, err := c.adapter.ListSessions()
	if err != nil && !errors.Is(err, multiplexer.ErrNoServerRunning) {
		return nil, fmt.Errorf("list available sessions: %w", err)
	}
	var loomSessions []string
	for _, name := range all {
		if registry.HasPrefix(name) {
			loomSessions = append(loomSessions, name)
		}
	}
	return loomSessions, nil
}

// AttachToSession repoints an existing registry entry at a different
// multiplexer session, verifying it exists first. The lock spans the
// existence check and the mutation so the record's session name is never
// observed pointing at an unverified session.
func (c *Core) AttachToSession(id, sessionName string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	rec, ok := c.registry.Get(id)
	if !ok {
		return ErrTerminalNotFound
	}
	if !c.adapter.HasSession(sessionName) {
		return fmt.Errorf("attach to session: multiplexer session %q does not exist", sessionName)
	}
	rec.MultiplexerSession = sessionName
	return nil
}

// sessionNameFor resolves id to its current multiplexer session name under
// the lock, then releases it before the caller makes any adapter call.
func (c *Core) sessionNameFor(id string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	rec, ok := c.registry.Get(id)
	if !ok {
		return "", ErrTerminalNotFound
	}
	return rec.MultiplexerSession, nil
}

// toWireInfo converts a registry record to its wire representation.
func toWireInfo(rec *registry.Record) wire.TerminalInfo {
	return wire.TerminalInfo{
		ID:          rec.ID,
		Name:        rec.Name,
		TmuxSession: rec.MultiplexerSession,
		WorkingDir:  rec.WorkingDir,
		CreatedAt:   rec.CreatedAt,
	}
}
