// Package activity records an append-only JSONL log of session input and
// output events, generalized from the teacher's one-file-per-session
// FileSessionRepository to a single growing log file, with rotation
// grounded on original_source's rotate_log_file (lib.rs).
package activity

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Kind distinguishes an activity record's direction.
type Kind string

const (
	KindInput  Kind = "input"
	KindOutput Kind = "output"
)

// Record is one line of the activity log.
type Record struct {
	SessionID string            `json:"session_id"`
	Timestamp time.Time         `json:"timestamp"`
	Kind      Kind              `json:"kind"`
	Content   string            `json:"content"`
	ExitCode  *int              `json:"exit_code,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// Writer is a single-producer, single-consumer append-only log. Handlers
// call Record, which hands the record to a buffered channel that a
// background goroutine drains and appends, so a slow write is absorbed by
// the buffer; only once the buffer is full does Record wait for the disk
// (spec §4.8, §5). A crash can lose the last unflushed record; that is an
// accepted tradeoff, not a bug.
type Writer struct {
	path      string
	maxSizeMB int64
	maxFiles  int

	records chan Record
	done    chan struct{}
}

// NewWriter creates the log file's directory if needed and starts the
// background append goroutine; the file itself is created by the first
// appended record. maxSizeMB <= 0 disables rotation.
func NewWriter(path string, maxSizeMB int64, maxFiles int) (*Writer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("activity: create log directory: %w", err)
	}

	w := &Writer{
		path:      path,
		maxSizeMB: maxSizeMB,
		maxFiles:  maxFiles,
		records:   make(chan Record, 256),
		done:      make(chan struct{}),
	}
	go w.run()
	return w, nil
}

// Record enqueues an entry for the background writer. It returns as soon
// as the record is buffered; if the 256-entry buffer is full the caller
// blocks until the writer drains one rather than drop the record, since
// 256 in flight already indicates the disk is badly behind.
func (w *Writer) Record(rec Record) {
	w.records <- rec
}

// Close stops accepting new records and waits for the writer goroutine to
// drain the channel and exit.
func (w *Writer) Close() {
	close(w.records)
	<-w.done
}

func (w *Writer) run() {
	defer close(w.done)

	for rec := range w.records {
		if err := w.appendRecord(rec); err != nil {
			continue
		}
	}
}

func (w *Writer) appendRecord(rec Record) error {
	if err := w.rotateIfNeeded(); err != nil {
		return err
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	data = append(data, '\n')

	f, err := os.OpenFile(w.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.Write(data)
	return err
}

// rotateIfNeeded renames numbered backups up one slot (log.N-1 -> log.N),
// dropping the oldest beyond maxFiles, then rotates the live file to
// log.1 — the exact scheme original_source's rotate_log_file implements.
func (w *Writer) rotateIfNeeded() error {
	if w.maxSizeMB <= 0 {
		return nil
	}

	info, err := os.Stat(w.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if info.Size() < w.maxSizeMB*1024*1024 {
		return nil
	}

	oldestPath := fmt.Sprintf("%s.%d", w.path, w.maxFiles)
	_ = os.Remove(oldestPath)

	for i := w.maxFiles - 1; i >= 1; i-- {
		oldPath := fmt.Sprintf("%s.%d", w.path, i)
		newPath := fmt.Sprintf("%s.%d", w.path, i+1)
		if _, err := os.Stat(oldPath); err == nil {
			_ = os.Rename(oldPath, newPath)
		}
	}

	rotatedPath := w.path + ".1"
	return os.Rename(w.path, rotatedPath)
}
