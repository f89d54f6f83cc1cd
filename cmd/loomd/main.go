// Command loomd is the daemon: it owns interactive tmux-backed terminal
// sessions on behalf of desktop clients and exposes them over a
// Unix-domain socket (spec §1, §6).
package main

import (
	"fmt"
	"os"
	"os/exec"
	"time"

	"loomd/internal/activity"
	"loomd/internal/config"
	"loomd/internal/daemon"
	"loomd/internal/health"
	"loomd/internal/logger"
	"loomd/internal/multiplexer"
	"loomd/internal/registry"
)

func main() {
	if _, err := exec.LookPath("tmux"); err != nil {
		fmt.Fprintln(os.Stderr, "loomd: tmux not found on PATH; install tmux to run the daemon")
		os.Exit(1)
	}

	cfgManager := config.NewManager("")
	cfg, err := cfgManager.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "loomd: load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewBuilder().
		WithEnabled(true).
		WithLevel(cfg.LogLevel).
		WithFile(cfg.LogFile).
		WithMaxSize(cfg.LogMaxSizeMB).
		WithTUIMode(true).
		Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "loomd: initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	var tmuxAdapter *multiplexer.TmuxAdapter
	if cfg.MultiplexerPath != "" {
		tmuxAdapter = multiplexer.NewTmuxAdapterWithPath(cfg.MultiplexerPath)
	} else {
		tmuxAdapter = multiplexer.NewTmuxAdapter()
	}
	tmuxAdapter.SetLogger(log)
	var adapter multiplexer.Adapter = tmuxAdapter

	reg := registry.New()
	if err := reg.Recover(adapter); err != nil {
		log.ErrorWithContext(err, "session recovery failed")
	}
	log.Info("recovered sessions from multiplexer", "count", reg.Len())

	core := daemon.NewCore(reg, adapter)
	core.SetLogger(log)

	var activityWriter *activity.Writer
	if cfg.Activity.Enabled {
		activityWriter, err = activity.NewWriter(cfg.Activity.Path, cfg.Activity.MaxSizeMB, cfg.Activity.MaxFiles)
		if err != nil {
			log.ErrorWithContext(err, "activity log disabled: failed to open")
		} else {
			defer activityWriter.Close()
		}
	}

	socketPath := cfg.SocketPath
	if env := os.Getenv("LOOM_SOCKET_PATH"); env != "" {
		socketPath = env
	}

	interval, enabled := health.IntervalFromEnv()
	if !enabled && cfg.HealthMonitorIntervalSeconds > 0 {
		interval = time.Duration(cfg.HealthMonitorIntervalSeconds) * time.Second
		enabled = true
	}
	if enabled {
		probe := health.NewProbe(adapter, log, interval)
		go probe.Run()
		defer probe.Stop()
	}

	dispatcher := daemon.NewDispatcher(socketPath, core, log, activityWriter)
	if err := dispatcher.Serve(); err != nil {
		log.ErrorWithContext(err, "daemon exited")
		os.Exit(1)
	}
}
