package activity

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestRotateIfNeededNoFileExists(t *testing.T) {
	dir := t.TempDir()
	w := &Writer{path: filepath.Join(dir, "daemon.log"), maxSizeMB: 1, maxFiles: 10}
	if err := w.rotateIfNeeded(); err != nil {
		t.Fatalf("rotateIfNeeded: %v", err)
	}
}

func TestRotateIfNeededUnderLimit(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "daemon.log")
	if err := os.WriteFile(logPath, []byte("small content"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	w := &Writer{path: logPath, maxSizeMB: 1, maxFiles: 10}
	if err := w.rotateIfNeeded(); err != nil {
		t.Fatalf("rotateIfNeeded: %v", err)
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(data) != "small content" {
		t.Errorf("content = %q, want unchanged", data)
	}
}

func TestRotateIfNeededAtLimit(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "daemon.log")
	content := strings.Repeat("x", 1024*1024)
	if err := os.WriteFile(logPath, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	w := &Writer{path: logPath, maxSizeMB: 1, maxFiles: 5}
	if err := w.rotateIfNeeded(); err != nil {
		t.Fatalf("rotateIfNeeded: %v", err)
	}

	if _, err := os.Stat(logPath); !os.IsNotExist(err) {
		t.Error("expected live log file to be gone after rotation")
	}
	rotated, err := os.ReadFile(logPath + ".1")
	if err != nil {
		t.Fatalf("ReadFile rotated: %v", err)
	}
	if string(rotated) != content {
		t.Error("rotated content does not match original")
	}
}

func TestRotateIfNeededShiftsExisting(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "daemon.log")
	os.WriteFile(logPath+".1", []byte("old content"), 0644)
	os.WriteFile(logPath, []byte(strings.Repeat("x", 2*1024*1024)), 0644)

	w := &Writer{path: logPath, maxSizeMB: 1, maxFiles: 5}
	if err := w.rotateIfNeeded(); err != nil {
		t.Fatalf("rotateIfNeeded: %v", err)
	}

	shifted, err := os.ReadFile(logPath + ".2")
	if err != nil {
		t.Fatalf("ReadFile .2: %v", err)
	}
	if string(shifted) != "old content" {
		t.Errorf(".2 content = %q, want %q", shifted, "old content")
	}
	if _, err := os.Stat(logPath + ".1"); err != nil {
		t.Error("expected .1 to exist after shift")
	}
}

func TestRotateIfNeededRemovesOldest(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "daemon.log")
	os.WriteFile(logPath+".3", []byte("oldest"), 0644)
	os.WriteFile(logPath, []byte(strings.Repeat("x", 2*1024*1024)), 0644)

	w := &Writer{path: logPath, maxSizeMB: 1, maxFiles: 3}
	if err := w.rotateIfNeeded(); err != nil {
		t.Fatalf("rotateIfNeeded: %v", err)
	}

	if _, err := os.Stat(logPath + ".1"); err != nil {
		t.Error("expected .1 to exist after rotation")
	}
	if _, err := os.Stat(logPath + ".3"); !os.IsNotExist(err) {
		t.Error("expected the oldest backup .3 to be removed")
	}
}

func TestWriterAppendsJSONLRecords(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "daemon.log")

	w, err := NewWriter(logPath, 0, 0)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}

	w.Record(Record{SessionID: "abc", Timestamp: time.Now(), Kind: KindInput, Content: "ls\r"})
	w.Record(Record{SessionID: "abc", Timestamp: time.Now(), Kind: KindOutput, Content: "total 0\n"})
	w.Close()

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), data)
	}

	var rec Record
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if rec.SessionID != "abc" || rec.Kind != KindInput {
		t.Errorf("rec = %+v, want session abc / kind input", rec)
	}
}
