// Package logger wraps log/slog with the structured, rotating file handler
// the daemon uses (spec §2 ambient stack), adapted
// from the teacher's packages/core/internal/logger and, for rotation
// semantics, from original_source's rotate_log_file in lib.rs.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// HumanHandler renders log records for an interactive terminal. New adds it
// only when TUIMode is off and Verbose is on; the daemon runs with TUIMode
// set and so logs structured JSON only.
type HumanHandler struct {
	writer io.Writer
	opts   *slog.HandlerOptions
}

// NewHumanHandler creates a human-readable handler.
func NewHumanHandler(w io.Writer, opts *slog.HandlerOptions) *HumanHandler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}
	return &HumanHandler{writer: w, opts: opts}
}

func (h *HumanHandler) Enabled(_ context.Context, level slog.Level) bool {
	minLevel := slog.LevelInfo
	if h.opts.Level != nil {
		minLevel = h.opts.Level.Level()
	}
	return level >= minLevel
}

func (h *HumanHandler) Handle(_ context.Context, r slog.Record) error {
	var buf strings.Builder
	buf.WriteString(fmt.Sprintf("%s%s: %s", r.Level.String(), levelIcon(r.Level), r.Message))

	r.Attrs(func(a slog.Attr) bool {
		switch a.Key {
		case "operation", "session_id", "session_name", "name", "command", "error":
			buf.WriteString(fmt.Sprintf(" [%s=%v]", a.Key, a.Value))
		case "duration_ms":
			if ms := a.Value.Int64(); ms > 0 {
				buf.WriteString(fmt.Sprintf(" (%dms)", ms))
			}
		}
		return true
	})
	buf.WriteString("\n")

	_, err := h.writer.Write([]byte(buf.String()))
	return err
}

func (h *HumanHandler) WithAttrs(attrs []slog.Attr) slog.Handler { return h }
func (h *HumanHandler) WithGroup(name string) slog.Handler       { return h }

func levelIcon(level slog.Level) string {
	switch level {
	case slog.LevelDebug:
		return "⚙"
	case slog.LevelInfo:
		return "ℹ"
	case slog.LevelWarn:
		return "⚠"
	case slog.LevelError:
		return "✗"
	default:
		return "•"
	}
}

// MultiHandler fans a record out to every handler that accepts its level.
type MultiHandler struct {
	handlers []slog.Handler
}

// NewMultiHandler combines handlers.
func NewMultiHandler(handlers ...slog.Handler) *MultiHandler {
	return &MultiHandler{handlers: handlers}
}

func (h *MultiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *MultiHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, r.Level) {
			if err := handler.Handle(ctx, r); err != nil {
				return err
			}
		}
	}
	return nil
}

func (h *MultiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newHandlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		newHandlers[i] = handler.WithAttrs(attrs)
	}
	return &MultiHandler{handlers: newHandlers}
}

func (h *MultiHandler) WithGroup(name string) slog.Handler {
	newHandlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		newHandlers[i] = handler.WithGroup(name)
	}
	return &MultiHandler{handlers: newHandlers}
}

// Logger wraps slog.Logger with loomd-specific rotation and context
// helpers.
type Logger struct {
	*slog.Logger
	config Config
	file   *os.File
	mu     sync.RWMutex
}

// Config holds logger configuration.
type Config struct {
	Enabled bool
	Level   slog.Level
	// FilePath is the path to the log file.
	FilePath string
	// MaxSize is the maximum size in MB before rotation (0 = no rotation).
	MaxSize int64
	// TUIMode when true, never writes human-readable output to stdout —
	// the daemon always runs with this set, since stdout is not attached
	// to a terminal when it's running detached.
	TUIMode bool
	Verbose bool
}

// DefaultConfig returns sensible logging defaults: disabled, JSON file
// logging under the user's config dir when enabled.
func DefaultConfig() Config {
	homeDir, _ := os.UserHomeDir()
	logPath := filepath.Join(homeDir, ".config", "loom", "loomd.log")

	return Config{
		Enabled:  false,
		Level:    slog.LevelInfo,
		FilePath: logPath,
		MaxSize:  10,
		TUIMode:  true,
		Verbose:  false,
	}
}

// New builds a Logger from config. A disabled config returns a Logger that
// discards everything rather than a nil value, so callers never need a nil
// check.
func New(config Config) (*Logger, error) {
	if !config.Enabled {
		return &Logger{
			Logger: slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
				Level: slog.LevelError + 1,
			})),
			config: config,
		}, nil
	}

	if err := os.MkdirAll(filepath.Dir(config.FilePath), 0755); err != nil {
		return nil, fmt.Errorf("logger: create log directory: %w", err)
	}

	file, err := os.OpenFile(config.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("logger: open log file: %w", err)
	}

	// l is constructed before its handler so the handler can hold a
	// reference back to it: every write checks RotateIfNeeded first,
	// the way original_source checks the file size before every append
	// rather than on a separate timer.
	l := &Logger{config: config, file: file}

	fileHandlerOpts := &slog.HandlerOptions{
		Level:     config.Level,
		AddSource: config.Verbose,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.String("time", a.Value.Time().Format(time.RFC3339))
			}
			return a
		},
	}
	fileHandler := slog.NewJSONHandler(&rotatingWriter{logger: l}, fileHandlerOpts)

	var handler slog.Handler = fileHandler
	if !config.TUIMode && config.Verbose {
		consoleHandler := NewHumanHandler(os.Stdout, &slog.HandlerOptions{Level: config.Level})
		handler = NewMultiHandler(fileHandler, consoleHandler)
	}

	l.Logger = slog.New(handler)
	l.Debug("logger initialized",
		"enabled", config.Enabled,
		"level", config.Level.String(),
		"file", config.FilePath,
		"tui_mode", config.TUIMode,
	)
	return l, nil
}

// rotatingWriter is the file handler's actual io.Writer: it checks
// RotateIfNeeded before every write so rotation happens on the live write
// path instead of requiring a caller to poll for it.
type rotatingWriter struct {
	logger *Logger
}

func (w *rotatingWriter) Write(p []byte) (int, error) {
	if err := w.logger.RotateIfNeeded(); err != nil {
		return 0, err
	}
	w.logger.mu.RLock()
	file := w.logger.file
	w.logger.mu.RUnlock()
	return file.Write(p)
}

// Close closes the underlying log file, if one is open.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

// WithOperation tags subsequent entries with the operation that produced
// them — one log line per dispatcher request (spec §4.5).
func (l *Logger) WithOperation(operation string) *Logger {
	return &Logger{Logger: l.Logger.With("operation", operation), config: l.config, file: l.file}
}

// WithSession tags subsequent entries with a session id and name.
func (l *Logger) WithSession(sessionID, sessionName string) *Logger {
	return &Logger{
		Logger: l.Logger.With("session_id", sessionID, "session_name", sessionName),
		config: l.config,
		file:   l.file,
	}
}

// WithDuration tags subsequent entries with an elapsed duration since
// start.
func (l *Logger) WithDuration(start time.Time) *Logger {
	duration := time.Since(start)
	return &Logger{Logger: l.Logger.With("duration_ms", duration.Milliseconds()), config: l.config, file: l.file}
}

// Performance logs a single performance sample for operation.
func (l *Logger) Performance(operation string, start time.Time, attrs ...slog.Attr) {
	duration := time.Since(start)
	allAttrs := append([]slog.Attr{
		slog.String("operation", operation),
		slog.Duration("duration", duration),
		slog.Int64("duration_ms", duration.Milliseconds()),
	}, attrs...)
	l.Logger.LogAttrs(context.Background(), slog.LevelDebug, "performance metric", allAttrs...)
}

// DebugCommand logs the external command about to be run, only in verbose
// mode — the equivalent of original_source's `log::debug!` before every
// tmux invocation.
func (l *Logger) DebugCommand(command string, args []string, workingDir string) {
	if l.IsVerbose() {
		l.Debug("executing command", "command", command, "args", args, "working_dir", workingDir)
	}
}

// ErrorWithContext logs err alongside msg and any extra attrs.
func (l *Logger) ErrorWithContext(err error, msg string, attrs ...slog.Attr) {
	allAttrs := append([]slog.Attr{slog.String("error", err.Error())}, attrs...)
	l.Logger.LogAttrs(context.Background(), slog.LevelError, msg, allAttrs...)
}

// RotateIfNeeded rotates the log file once it exceeds config.MaxSize MB,
// renaming the old file with a timestamp suffix — grounded on
// original_source's rotate_log_file, generalized from a fixed backup
// count to rename-on-rotate (no pruning: the daemon is long-lived and
// expected to run under a log-rotation-aware supervisor for retention).
func (l *Logger) RotateIfNeeded() error {
	if l.config.MaxSize <= 0 || l.file == nil {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	stat, err := l.file.Stat()
	if err != nil {
		return err
	}
	if stat.Size() < l.config.MaxSize*1024*1024 {
		return nil
	}

	if err := l.file.Close(); err != nil {
		return err
	}

	timestamp := time.Now().Format("20060102-150405")
	rotatedPath := fmt.Sprintf("%s.%s", l.config.FilePath, timestamp)
	if err := os.Rename(l.config.FilePath, rotatedPath); err != nil {
		return err
	}

	newFile, err := os.OpenFile(l.config.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	l.file = newFile
	return nil
}

// IsEnabled reports whether logging is active.
func (l *Logger) IsEnabled() bool { return l.config.Enabled }

// IsVerbose reports whether verbose logging is active.
func (l *Logger) IsVerbose() bool { return l.config.Verbose }
