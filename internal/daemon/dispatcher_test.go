package daemon

import (
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"loomd/internal/activity"
	"loomd/internal/logger"
	"loomd/internal/multiplexer"
	"loomd/internal/registry"
	"loomd/internal/wire"
)

func newTestDispatcher() (*Dispatcher, *multiplexer.FakeAdapter) {
	fake := multiplexer.NewFakeAdapter()
	core := NewCore(registry.New(), fake)
	log, _ := logger.New(logger.Config{Enabled: false})
	return NewDispatcher("", core, log, nil), fake
}

// pipe sets up a client/server net.Pipe with the dispatcher driving the
// server side in its own goroutine, returning a client-side codec.
func pipe(t *testing.T, d *Dispatcher) *wire.Codec {
	t.Helper()
	client, server := net.Pipe()
	go d.handleConn(server)
	t.Cleanup(func() { client.Close() })
	return wire.NewCodec(client)
}

func roundTrip(t *testing.T, codec *wire.Codec, typ string, payload any) wire.Envelope {
	t.Helper()
	env, err := wire.Encode(typ, payload)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if err := codec.WriteEnvelope(env); err != nil {
		t.Fatalf("WriteEnvelope: %v", err)
	}
	resp, err := codec.ReadEnvelope()
	if err != nil {
		t.Fatalf("ReadEnvelope: %v", err)
	}
	return resp
}

func TestDispatchPing(t *testing.T) {
	d, _ := newTestDispatcher()
	codec := pipe(t, d)

	resp := roundTrip(t, codec, wire.ReqPing, nil)
	if resp.Type != wire.RespPong {
		t.Errorf("Type = %q, want %q", resp.Type, wire.RespPong)
	}
}

func TestDispatchCreateThenListTerminals(t *testing.T) {
	d, _ := newTestDispatcher()
	codec := pipe(t, d)

	created := roundTrip(t, codec, wire.ReqCreateTerminal, wire.CreateTerminalPayload{Name: "t1"})
	if created.Type != wire.RespTerminalCreated {
		t.Fatalf("Type = %q, want %q", created.Type, wire.RespTerminalCreated)
	}
	var createdPayload wire.TerminalCreatedPayload
	if err := created.Decode(&createdPayload); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if createdPayload.ID == "" {
		t.Fatal("created terminal has empty id")
	}

	listed := roundTrip(t, codec, wire.ReqListTerminals, nil)
	var listPayload wire.TerminalListPayload
	if err := listed.Decode(&listPayload); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(listPayload.Terminals) != 1 {
		t.Fatalf("Terminals = %v, want 1 entry", listPayload.Terminals)
	}
	if listPayload.Terminals[0].ID != createdPayload.ID {
		t.Errorf("listed id = %q, want %q", listPayload.Terminals[0].ID, createdPayload.ID)
	}
}

func TestDispatchDestroyUnknownTerminalErrors(t *testing.T) {
	d, _ := newTestDispatcher()
	codec := pipe(t, d)

	resp := roundTrip(t, codec, wire.ReqDestroyTerminal, wire.DestroyTerminalPayload{ID: "nonexistent"})
	if resp.Type != wire.RespError {
		t.Fatalf("Type = %q, want %q", resp.Type, wire.RespError)
	}
	var errPayload wire.ErrorPayload
	if err := resp.Decode(&errPayload); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if errPayload.Message == "" {
		t.Error("expected non-empty error message")
	}
}

func TestDispatchCreateDestroyLifecycle(t *testing.T) {
	d, fake := newTestDispatcher()
	codec := pipe(t, d)

	created := roundTrip(t, codec, wire.ReqCreateTerminal, wire.CreateTerminalPayload{Name: "t1"})
	var createdPayload wire.TerminalCreatedPayload
	created.Decode(&createdPayload)

	destroyed := roundTrip(t, codec, wire.ReqDestroyTerminal, wire.DestroyTerminalPayload{ID: createdPayload.ID})
	if destroyed.Type != wire.RespSuccess {
		t.Fatalf("Type = %q, want %q", destroyed.Type, wire.RespSuccess)
	}

	sessions, _ := fake.ListSessions()
	if len(sessions) != 0 {
		t.Errorf("fake adapter still has sessions after destroy: %v", sessions)
	}
}

func TestDispatchSendInputAndCapture(t *testing.T) {
	d, fake := newTestDispatcher()
	fake.CaptureOutput = "hello\n"
	fake.CaptureTotal = 1
	codec := pipe(t, d)

	created := roundTrip(t, codec, wire.ReqCreateTerminal, wire.CreateTerminalPayload{Name: "t1"})
	var createdPayload wire.TerminalCreatedPayload
	created.Decode(&createdPayload)

	sent := roundTrip(t, codec, wire.ReqSendInput, wire.SendInputPayload{ID: createdPayload.ID, Data: "ls\r"})
	if sent.Type != wire.RespSuccess {
		t.Fatalf("Type = %q, want %q", sent.Type, wire.RespSuccess)
	}

	output := roundTrip(t, codec, wire.ReqGetTerminalOutput, wire.GetTerminalOutputPayload{ID: createdPayload.ID})
	var outputPayload wire.TerminalOutputPayload
	if err := output.Decode(&outputPayload); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if outputPayload.Output != "hello\n" {
		t.Errorf("Output = %q, want %q", outputPayload.Output, "hello\n")
	}
}

func TestDispatchUnknownRequestType(t *testing.T) {
	d, _ := newTestDispatcher()
	codec := pipe(t, d)

	env := wire.Envelope{Type: "NotARealRequest"}
	if err := codec.WriteEnvelope(env); err != nil {
		t.Fatalf("WriteEnvelope: %v", err)
	}
	resp, err := codec.ReadEnvelope()
	if err != io.EOF {
		t.Fatalf("ReadEnvelope = %v, want io.EOF (connection closed)", err)
	}
	if resp.Type != "" {
		t.Errorf("Type = %q, want no response", resp.Type)
	}
}

func TestHandleConnClosesOnMalformedLine(t *testing.T) {
	d, _ := newTestDispatcher()
	client, server := net.Pipe()
	done := make(chan struct{})
	go func() {
		d.handleConn(server)
		close(done)
	}()

	if _, err := client.Write([]byte("not json\n")); err != nil {
		t.Fatalf("Write: %v", err)
	}

	<-done
	client.Close()
}

func TestDispatchSendInputRecordsActivity(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "activity.jsonl")
	writer, err := activity.NewWriter(logPath, 0, 0)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}

	fake := multiplexer.NewFakeAdapter()
	core := NewCore(registry.New(), fake)
	log, _ := logger.New(logger.Config{Enabled: false})
	d := NewDispatcher("", core, log, writer)
	codec := pipe(t, d)

	created := roundTrip(t, codec, wire.ReqCreateTerminal, wire.CreateTerminalPayload{Name: "t1"})
	var createdPayload wire.TerminalCreatedPayload
	created.Decode(&createdPayload)

	roundTrip(t, codec, wire.ReqSendInput, wire.SendInputPayload{ID: createdPayload.ID, Data: "ls\r"})
	writer.Close()

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), createdPayload.ID) {
		t.Errorf("activity log missing session id %q: %q", createdPayload.ID, data)
	}
	if !strings.Contains(string(data), `"kind":"input"`) {
		t.Errorf("activity log missing input record: %q", data)
	}
}
