package multiplexer

import "fmt"

// FakeAdapter is an in-memory Adapter used by tests that need to assert
// what the daemon asked the multiplexer to do without shelling out to a
// real tmux binary, the same seam the teacher's factory provides for
// swapping backends (spec §4.2 EXPANSION).
type FakeAdapter struct {
	Calls    []string
	sessions map[string]bool

	SpawnErr      error
	SendKeysErr   error
	KillErr       error
	CaptureErr    error
	ResizeErr     error
	ListErr       error
	CaptureOutput string
	CaptureTotal  int
}

// NewFakeAdapter returns an empty fake with no sessions.
func NewFakeAdapter() *FakeAdapter {
	return &FakeAdapter{sessions: make(map[string]bool)}
}

func (f *FakeAdapter) record(call string) {
	f.Calls = append(f.Calls, call)
}

func (f *FakeAdapter) Spawn(sessionName, workingDir string, cols, rows int) error {
	f.record(fmt.Sprintf("spawn %s %s %dx%d", sessionName, workingDir, cols, rows))
	if f.SpawnErr != nil {
		return f.SpawnErr
	}
	f.sessions[sessionName] = true
	return nil
}

func (f *FakeAdapter) SendKeys(sessionName, data string) error {
	f.record(fmt.Sprintf("send-keys %s %q", sessionName, data))
	return f.SendKeysErr
}

func (f *FakeAdapter) Kill(sessionName string) error {
	f.record("kill " + sessionName)
	if f.KillErr != nil {
		return f.KillErr
	}
	delete(f.sessions, sessionName)
	return nil
}

func (f *FakeAdapter) Capture(sessionName string, startLine int) (string, int, error) {
	f.record(fmt.Sprintf("capture %s %d", sessionName, startLine))
	if f.CaptureErr != nil {
		return "", 0, f.CaptureErr
	}
	return f.CaptureOutput, f.CaptureTotal, nil
}

func (f *FakeAdapter) Resize(sessionName string, cols, rows int) error {
	f.record(fmt.Sprintf("resize %s %dx%d", sessionName, cols, rows))
	return f.ResizeErr
}

func (f *FakeAdapter) ListSessions() ([]string, error) {
	f.record("list-sessions")
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	out := make([]string, 0, len(f.sessions))
	for name := range f.sessions {
		out = append(out, name)
	}
	return out, nil
}

func (f *FakeAdapter) HasSession(sessionName string) bool {
	f.record("has-session " + sessionName)
	return f.sessions[sessionName]
}
