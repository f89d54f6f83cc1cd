// Package health runs the optional background tmux-server health probe,
// grounded directly on original_source's health_monitor.rs.
package health

import (
	"errors"
	"os"
	"strconv"
	"time"

	"loomd/internal/logger"
	"loomd/internal/multiplexer"
	"loomd/internal/registry"
)

// EnvVar is the environment variable that enables the probe, set to a
// check interval in seconds.
const EnvVar = "LOOM_TMUX_HEALTH_MONITOR"

// IntervalFromEnv reports the configured probe interval, if enabled.
func IntervalFromEnv() (time.Duration, bool) {
	val, ok := os.LookupEnv(EnvVar)
	if !ok {
		return 0, false
	}
	secs, err := strconv.ParseUint(val, 10, 64)
	if err != nil {
		return 0, false
	}
	return time.Duration(secs) * time.Second, true
}

// Probe periodically lists the multiplexer's sessions and logs a summary,
// distinguishing "no server running" (alert) from "no sessions" (benign)
// via the adapter's distinguished error values rather than raw stderr
// text matching at the call site.
type Probe struct {
	adapter  multiplexer.Adapter
	log      *logger.Logger
	interval time.Duration
	stop     chan struct{}
}

// NewProbe builds a probe; it does not start until Run is called.
func NewProbe(adapter multiplexer.Adapter, log *logger.Logger, interval time.Duration) *Probe {
	return &Probe{adapter: adapter, log: log, interval: interval, stop: make(chan struct{})}
}

// Run blocks, ticking at the configured interval, until Stop is called.
// Intended to be launched in its own goroutine.
func (p *Probe) Run() {
	p.log.Info("starting tmux health monitor", "interval_seconds", int(p.interval.Seconds()))

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-p.stop:
			return
		case <-ticker.C:
			p.check()
		}
	}
}

// Stop ends the probe loop. Safe to call once.
func (p *Probe) Stop() {
	close(p.stop)
}

func (p *Probe) check() {
	sessions, err := p.adapter.ListSessions()
	if err != nil {
		if errors.Is(err, multiplexer.ErrNoServerRunning) {
			p.log.Warn("no tmux server running - daemon may have crashed or not started")
			return
		}
		p.log.ErrorWithContext(err, "tmux health check failed")
		return
	}

	count := 0
	for _, name := range sessions {
		if registry.HasPrefix(name) {
			count++
		}
	}

	p.log.Info("tmux health check", "loom_sessions", count)
	if count == 0 {
		p.log.Debug("no loom sessions exist")
	}
}
