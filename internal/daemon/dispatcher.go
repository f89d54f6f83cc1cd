package daemon

import (
	"errors"
	"io"
	"net"
	"os"
	"path/filepath"

	"time"

	"loomd/internal/activity"
	"loomd/internal/logger"
	"loomd/internal/wire"
)

// DefaultSocketPath returns ~/.loom/daemon.sock, overridable at the call
// site by LOOM_SOCKET_PATH — the same testing seam original_source's
// main.rs exposes.
func DefaultSocketPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".loom", "daemon.sock"), nil
}

// Dispatcher owns the listener and routes decoded requests to Core
// methods, one goroutine per connection (spec §4.5).
type Dispatcher struct {
	socketPath string
	core       *Core
	log        *logger.Logger
	activity   *activity.Writer
}

// NewDispatcher binds no resources yet; call Serve to start accepting.
// activityWriter may be nil, in which case input/output events are not
// recorded.
func NewDispatcher(socketPath string, core *Core, log *logger.Logger, activityWriter *activity.Writer) *Dispatcher {
	return &Dispatcher{socketPath: socketPath, core: core, log: log, activity: activityWriter}
}

// Serve unlinks any stale socket file, binds a new one, and accepts
// connections until the listener is closed or Shutdown calls os.Exit.
func (d *Dispatcher) Serve() error {
	if err := os.MkdirAll(filepath.Dir(d.socketPath), 0755); err != nil {
		return err
	}
	if err := os.Remove(d.socketPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	addr, err := net.ResolveUnixAddr("unix", d.socketPath)
	if err != nil {
		return err
	}
	listener, err := net.ListenUnix("unix", addr)
	if err != nil {
		return err
	}
	defer listener.Close()

	d.log.Info("ipc server listening", "socket", d.socketPath)

	for {
		conn, err := listener.AcceptUnix()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			d.log.ErrorWithContext(err, "accept failed")
			continue
		}
		go d.handleConn(conn)
	}
}

// handleConn runs the Reading -> Dispatching -> Writing loop for one
// connection until EOF, a decode error, or an unknown request type, at
// which point the connection is closed without a final response (spec
// §4.5, §9). It takes a plain
// net.Conn rather than *net.UnixConn so tests can drive it over
// net.Pipe().
func (d *Dispatcher) handleConn(conn net.Conn) {
	defer conn.Close()

	codec := wire.NewCodec(conn)
	for {
		req, err := codec.ReadEnvelope()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				d.log.ErrorWithContext(err, "malformed request, closing connection")
			}
			return
		}

		switch req.Type {
		case wire.ReqPing, wire.ReqCreateTerminal, wire.ReqListTerminals, wire.ReqDestroyTerminal,
			wire.ReqSendInput, wire.ReqGetTerminalOutput, wire.ReqResizeTerminal, wire.ReqCheckSessionHealth,
			wire.ReqListAvailableSession, wire.ReqAttachToSession, wire.ReqShutdown:
		default:
			d.log.ErrorWithContext(errors.New("unknown request type: "+req.Type), "unknown request, closing connection")
			return
		}

		reqLog := d.log.WithOperation(req.Type)
		if id := requestSessionID(req); id != "" {
			reqLog = reqLog.WithSession(id, "")
		}
		start := time.Now()
		resp := d.dispatch(req)
		reqLog.WithDuration(start).Debug("request handled")

		if err := codec.WriteEnvelope(resp); err != nil {
			d.log.ErrorWithContext(err, "write failed, closing connection")
			return
		}
	}
}

// dispatch routes one decoded request to its Core method and encodes the
// result, mirroring the original's handle_request match arms one for one.
func (d *Dispatcher) dispatch(req wire.Envelope) wire.Envelope {
	switch req.Type {
	case wire.ReqPing:
		return mustEncode(wire.RespPong, nil)

	case wire.ReqCreateTerminal:
		var p wire.CreateTerminalPayload
		if err := req.Decode(&p); err != nil {
			return errorEnvelope(err)
		}
		workingDir := ""
		if p.WorkingDir != nil {
			workingDir = *p.WorkingDir
		}
		rec, err := d.core.CreateTerminal(p.Name, workingDir)
		if err != nil {
			return errorEnvelope(err)
		}
		return mustEncode(wire.RespTerminalCreated, wire.TerminalCreatedPayload{ID: rec.ID})

	case wire.ReqListTerminals:
		recs := d.core.ListTerminals()
		infos := make([]wire.TerminalInfo, 0, len(recs))
		for _, rec := range recs {
			infos = append(infos, toWireInfo(rec))
		}
		return mustEncode(wire.RespTerminalList, wire.TerminalListPayload{Terminals: infos})

	case wire.ReqDestroyTerminal:
		var p wire.DestroyTerminalPayload
		if err := req.Decode(&p); err != nil {
			return errorEnvelope(err)
		}
		if err := d.core.DestroyTerminal(p.ID); err != nil {
			return errorEnvelope(err)
		}
		return mustEncode(wire.RespSuccess, nil)

	case wire.ReqSendInput:
		var p wire.SendInputPayload
		if err := req.Decode(&p); err != nil {
			return errorEnvelope(err)
		}
		if err := d.core.SendInput(p.ID, p.Data); err != nil {
			return errorEnvelope(err)
		}
		d.recordActivity(p.ID, activity.KindInput, p.Data)
		return mustEncode(wire.RespSuccess, nil)

	case wire.ReqGetTerminalOutput:
		var p wire.GetTerminalOutputPayload
		if err := req.Decode(&p); err != nil {
			return errorEnvelope(err)
		}
		startLine := -1
		if p.StartLine != nil {
			startLine = *p.StartLine
		}
		output, total, err := d.core.GetTerminalOutput(p.ID, startLine)
		if err != nil {
			return errorEnvelope(err)
		}
		d.recordActivity(p.ID, activity.KindOutput, output)
		return mustEncode(wire.RespTerminalOutput, wire.TerminalOutputPayload{Output: output, LineCount: total})

	case wire.ReqResizeTerminal:
		var p wire.ResizeTerminalPayload
		if err := req.Decode(&p); err != nil {
			return errorEnvelope(err)
		}
		if err := d.core.ResizeTerminal(p.ID, p.Cols, p.Rows); err != nil {
			return errorEnvelope(err)
		}
		return mustEncode(wire.RespSuccess, nil)

	case wire.ReqCheckSessionHealth:
		var p wire.CheckSessionHealthPayload
		if err := req.Decode(&p); err != nil {
			return errorEnvelope(err)
		}
		healthy, err := d.core.CheckSessionHealth(p.ID)
		if err != nil {
			return errorEnvelope(err)
		}
		return mustEncode(wire.RespSessionHealth, wire.SessionHealthPayload{HasSession: healthy})

	case wire.ReqListAvailableSession:
		sessions, err := d.core.ListAvailableSessions()
		if err != nil {
			return errorEnvelope(err)
		}
		return mustEncode(wire.RespAvailableSession, wire.AvailableSessionsPayload{Sessions: sessions})

	case wire.ReqAttachToSession:
		var p wire.AttachToSessionPayload
		if err := req.Decode(&p); err != nil {
			return errorEnvelope(err)
		}
		if err := d.core.AttachToSession(p.ID, p.SessionName); err != nil {
			return errorEnvelope(err)
		}
		return mustEncode(wire.RespSuccess, nil)

	case wire.ReqShutdown:
		d.log.Info("shutdown requested")
		os.Exit(0)
		return wire.Envelope{}

	default:
		return errorEnvelope(errors.New("unknown request type: " + req.Type))
	}
}

// recordActivity enqueues an activity record if an activity writer is
// configured; it is a no-op otherwise so the daemon can run without one.
func (d *Dispatcher) recordActivity(sessionID string, kind activity.Kind, content string) {
	if d.activity == nil {
		return
	}
	d.activity.Record(activity.Record{
		SessionID: sessionID,
		Timestamp: time.Now(),
		Kind:      kind,
		Content:   content,
	})
}

// requestSessionID extracts the "id" field every id-carrying payload shares,
// for log scoping only. It returns "" for variants with no id (Ping,
// ListTerminals, CreateTerminal, ListAvailableSessions, Shutdown) or on
// decode failure — dispatch reports the real decode error separately.
func requestSessionID(req wire.Envelope) string {
	var p struct {
		ID string `json:"id"`
	}
	if err := req.Decode(&p); err != nil {
		return ""
	}
	return p.ID
}

func errorEnvelope(err error) wire.Envelope {
	return mustEncode(wire.RespError, wire.ErrorPayload{Message: err.Error()})
}

// mustEncode only fails if payload doesn't marshal, which never happens
// for the fixed set of payload types dispatch produces.
func mustEncode(typ string, payload any) wire.Envelope {
	env, err := wire.Encode(typ, payload)
	if err != nil {
		return wire.Envelope{Type: wire.RespError, Payload: nil}
	}
	return env
}
