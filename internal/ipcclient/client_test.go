package ipcclient

import (
	"net"
	"path/filepath"
	"testing"
	"time"

	"loomd/internal/daemon"
	"loomd/internal/logger"
	"loomd/internal/multiplexer"
	"loomd/internal/registry"
)

func newTestServer(t *testing.T) (*Client, *multiplexer.FakeAdapter) {
	t.Helper()
	dir := t.TempDir()
	socketPath := filepath.Join(dir, "daemon.sock")

	fake := multiplexer.NewFakeAdapter()
	core := daemon.NewCore(registry.New(), fake)
	log, _ := logger.New(logger.Config{Enabled: false})
	d := daemon.NewDispatcher(socketPath, core, log, nil)

	go d.Serve()
	waitForSocket(t, socketPath)

	return New(socketPath), fake
}

// waitForSocket polls until the daemon's listener is accepting
// connections, since Serve binds asynchronously in its own goroutine.
func waitForSocket(t *testing.T, socketPath string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		conn, err := net.Dial("unix", socketPath)
		if err == nil {
			conn.Close()
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("daemon never started listening on %s", socketPath)
}

func TestClientPing(t *testing.T) {
	c, _ := newTestServer(t)
	if err := c.Ping(); err != nil {
		t.Fatalf("Ping: %v", err)
	}
}

func TestClientCreateListDestroy(t *testing.T) {
	c, _ := newTestServer(t)

	id, err := c.CreateTerminal("t1", "")
	if err != nil {
		t.Fatalf("CreateTerminal: %v", err)
	}
	if id == "" {
		t.Fatal("expected non-empty id")
	}

	terminals, err := c.ListTerminals()
	if err != nil {
		t.Fatalf("ListTerminals: %v", err)
	}
	if len(terminals) != 1 || terminals[0].ID != id {
		t.Fatalf("terminals = %+v, want one entry with id %q", terminals, id)
	}

	if err := c.DestroyTerminal(id); err != nil {
		t.Fatalf("DestroyTerminal: %v", err)
	}

	terminals, err = c.ListTerminals()
	if err != nil {
		t.Fatalf("ListTerminals after destroy: %v", err)
	}
	if len(terminals) != 0 {
		t.Fatalf("terminals after destroy = %+v, want none", terminals)
	}
}

func TestClientDestroyUnknownReturnsError(t *testing.T) {
	c, _ := newTestServer(t)
	if err := c.DestroyTerminal("nonexistent"); err == nil {
		t.Fatal("expected an error destroying an unknown terminal")
	}
}

func TestClientSendInputAndOutput(t *testing.T) {
	c, fake := newTestServer(t)
	fake.CaptureOutput = "hello\n"
	fake.CaptureTotal = 1

	id, err := c.CreateTerminal("t1", "")
	if err != nil {
		t.Fatalf("CreateTerminal: %v", err)
	}

	if err := c.SendInput(id, "ls\r"); err != nil {
		t.Fatalf("SendInput: %v", err)
	}

	output, total, err := c.GetTerminalOutput(id, -1)
	if err != nil {
		t.Fatalf("GetTerminalOutput: %v", err)
	}
	if output != "hello\n" || total != 1 {
		t.Errorf("output = %q total = %d, want %q / 1", output, total, "hello\n")
	}
}

func TestClientCheckSessionHealth(t *testing.T) {
	c, _ := newTestServer(t)

	id, err := c.CreateTerminal("t1", "")
	if err != nil {
		t.Fatalf("CreateTerminal: %v", err)
	}

	healthy, err := c.CheckSessionHealth(id)
	if err != nil {
		t.Fatalf("CheckSessionHealth: %v", err)
	}
	if !healthy {
		t.Error("expected a freshly created terminal to be healthy")
	}
}
