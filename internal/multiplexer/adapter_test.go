package multiplexer

import (
	"os/exec"
	"reflect"
	"testing"
)

func TestSpawnArgs(t *testing.T) {
	cases := []struct {
		name       string
		workingDir string
		want       []string
	}{
		{"no working dir", "", []string{"new-session", "-d", "-s", "loom-abc", "-x", "80", "-y", "24"}},
		{"with working dir", "/tmp/work", []string{"new-session", "-d", "-s", "loom-abc", "-x", "80", "-y", "24", "-c", "/tmp/work"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := spawnArgs("loom-abc", tc.workingDir, 80, 24)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("spawnArgs() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestSendKeysArgsSwitch(t *testing.T) {
	cases := []struct {
		name string
		data string
		want []string
	}{
		{"enter", "\r", []string{"send-keys", "-t", "loom-abc", "Enter"}},
		{"interrupt", "\x03", []string{"send-keys", "-t", "loom-abc", "C-c"}},
		{"literal", "ls -la", []string{"send-keys", "-t", "loom-abc", "-l", "ls -la"}},
		{"literal-looks-like-keyname", "Enter", []string{"send-keys", "-t", "loom-abc", "-l", "Enter"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := sendKeysArgs("loom-abc", tc.data)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("sendKeysArgs(%q) = %v, want %v", tc.data, got, tc.want)
			}
		})
	}
}

func TestCaptureArgsPartialHistory(t *testing.T) {
	got := captureArgs("loom-abc", 10, 100)
	want := []string{"capture-pane", "-t", "loom-abc", "-p", "-e", "-J", "-S", "-90"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("captureArgs() = %v, want %v", got, want)
	}
}

func TestCaptureArgsFullHistory(t *testing.T) {
	got := captureArgs("loom-abc", -1, 100)
	want := []string{"capture-pane", "-t", "loom-abc", "-p", "-e", "-J", "-S", "-"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("captureArgs() = %v, want %v", got, want)
	}
}

func TestCaptureArgsStartBeyondHistory(t *testing.T) {
	got := captureArgs("loom-abc", 500, 100)
	want := []string{"capture-pane", "-t", "loom-abc", "-p", "-e", "-J", "-S", "-"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("captureArgs() = %v, want %v", got, want)
	}
}

// requireTmux skips the test unless a real tmux binary is on PATH; these
// tests exercise the adapter end to end against a live multiplexer server.
func requireTmux(t *testing.T) *TmuxAdapter {
	t.Helper()
	if _, err := exec.LookPath("tmux"); err != nil {
		t.Skip("tmux not installed, skipping integration test")
	}
	return NewTmuxAdapter()
}

func TestTmuxAdapterLifecycle(t *testing.T) {
	adapter := requireTmux(t)
	const session = "loom-adaptertest0000000000000000"

	defer adapter.Kill(session)

	if err := adapter.Spawn(session, "", 80, 24); err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	if !adapter.HasSession(session) {
		t.Fatal("HasSession() = false after Spawn")
	}
	if err := adapter.SendKeys(session, "echo hi\r"); err != nil {
		t.Fatalf("SendKeys: %v", err)
	}
	if _, _, err := adapter.Capture(session, -1); err != nil {
		t.Fatalf("Capture: %v", err)
	}
	if err := adapter.Resize(session, 100, 30); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	sessions, err := adapter.ListSessions()
	if err != nil {
		t.Fatalf("ListSessions: %v", err)
	}
	found := false
	for _, s := range sessions {
		if s == session {
			found = true
		}
	}
	if !found {
		t.Errorf("ListSessions() = %v, want to contain %q", sessions, session)
	}

	if err := adapter.Kill(session); err != nil {
		t.Fatalf("Kill: %v", err)
	}
	if adapter.HasSession(session) {
		t.Error("HasSession() = true after Kill")
	}
}
