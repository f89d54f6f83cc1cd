// Package ipcclient is the thin request/response API cmd/loom dials
// against, generalized from the teacher's packages/core/api.Client —
// which wrapped an in-process session service — into a client that
// dials the daemon's Unix socket instead of calling one.
package ipcclient

import (
	"fmt"
	"net"

	"loomd/internal/wire"
)

// Client dials the daemon socket fresh for every call. The daemon is
// stateless per connection (spec §4.5), so there is nothing to gain by
// keeping one open across an invocation of cmd/loom.
type Client struct {
	socketPath string
}

// New returns a Client bound to socketPath. It does not dial until a
// method is called.
func New(socketPath string) *Client {
	return &Client{socketPath: socketPath}
}

// call dials, sends one request, reads one response, and closes the
// connection — the same one-shot-per-request shape as every cmd/*.go
// subcommand in the teacher, just over a socket instead of a function
// call.
func (c *Client) call(reqType string, reqPayload any, respType string, respDst any) error {
	conn, err := net.Dial("unix", c.socketPath)
	if err != nil {
		return fmt.Errorf("ipcclient: connect to daemon at %s: %w", c.socketPath, err)
	}
	defer conn.Close()

	codec := wire.NewCodec(conn)

	env, err := wire.Encode(reqType, reqPayload)
	if err != nil {
		return fmt.Errorf("ipcclient: encode request: %w", err)
	}
	if err := codec.WriteEnvelope(env); err != nil {
		return fmt.Errorf("ipcclient: send request: %w", err)
	}

	resp, err := codec.ReadEnvelope()
	if err != nil {
		return fmt.Errorf("ipcclient: read response: %w", err)
	}

	if resp.Type == wire.RespError {
		var errPayload wire.ErrorPayload
		if decErr := resp.Decode(&errPayload); decErr != nil {
			return fmt.Errorf("ipcclient: daemon returned an error response it could not even decode: %w", decErr)
		}
		return fmt.Errorf("%s", errPayload.Message)
	}

	if respType != "" && resp.Type != respType {
		return fmt.Errorf("ipcclient: unexpected response type %q, want %q", resp.Type, respType)
	}

	return resp.Decode(respDst)
}

// Ping checks that the daemon is reachable.
func (c *Client) Ping() error {
	return c.call(wire.ReqPing, nil, wire.RespPong, nil)
}

// CreateTerminal spawns a new tmux-backed terminal and returns its id.
func (c *Client) CreateTerminal(name, workingDir string) (string, error) {
	var wd *string
	if workingDir != "" {
		wd = &workingDir
	}
	var resp wire.TerminalCreatedPayload
	err := c.call(wire.ReqCreateTerminal, wire.CreateTerminalPayload{Name: name, WorkingDir: wd}, wire.RespTerminalCreated, &resp)
	return resp.ID, err
}

// ListTerminals returns every terminal the daemon currently tracks.
func (c *Client) ListTerminals() ([]wire.TerminalInfo, error) {
	var resp wire.TerminalListPayload
	err := c.call(wire.ReqListTerminals, nil, wire.RespTerminalList, &resp)
	return resp.Terminals, err
}

// DestroyTerminal kills the tmux session and forgets the terminal.
func (c *Client) DestroyTerminal(id string) error {
	return c.call(wire.ReqDestroyTerminal, wire.DestroyTerminalPayload{ID: id}, wire.RespSuccess, nil)
}

// SendInput writes raw bytes to the terminal's pty, as tmux send-keys
// would interpret them.
func (c *Client) SendInput(id, data string) error {
	return c.call(wire.ReqSendInput, wire.SendInputPayload{ID: id, Data: data}, wire.RespSuccess, nil)
}

// GetTerminalOutput captures the terminal's scrollback, starting from
// startLine if non-negative.
func (c *Client) GetTerminalOutput(id string, startLine int) (string, int, error) {
	var p wire.GetTerminalOutputPayload
	p.ID = id
	if startLine >= 0 {
		p.StartLine = &startLine
	}
	var resp wire.TerminalOutputPayload
	err := c.call(wire.ReqGetTerminalOutput, p, wire.RespTerminalOutput, &resp)
	return resp.Output, resp.LineCount, err
}

// ResizeTerminal changes the pty geometry.
func (c *Client) ResizeTerminal(id string, cols, rows int) error {
	return c.call(wire.ReqResizeTerminal, wire.ResizeTerminalPayload{ID: id, Cols: cols, Rows: rows}, wire.RespSuccess, nil)
}

// CheckSessionHealth asks whether the tmux session backing id still
// exists.
func (c *Client) CheckSessionHealth(id string) (bool, error) {
	var resp wire.SessionHealthPayload
	err := c.call(wire.ReqCheckSessionHealth, wire.CheckSessionHealthPayload{ID: id}, wire.RespSessionHealth, &resp)
	return resp.HasSession, err
}

// ListAvailableSessions lists every loom-owned tmux session name,
// including ones the daemon has not (yet) recovered into its registry.
func (c *Client) ListAvailableSessions() ([]string, error) {
	var resp wire.AvailableSessionsPayload
	err := c.call(wire.ReqListAvailableSession, nil, wire.RespAvailableSession, &resp)
	return resp.Sessions, err
}

// AttachToSession repoints an already-registered terminal id at a
// different, existing tmux session name.
func (c *Client) AttachToSession(id, sessionName string) error {
	return c.call(wire.ReqAttachToSession, wire.AttachToSessionPayload{ID: id, SessionName: sessionName}, wire.RespSuccess, nil)
}

// Shutdown asks the daemon to exit. The daemon exits via os.Exit before a
// response is ever written, so Shutdown only writes the request and does
// not read a response; a failure to write the request is not reported
// either.
func (c *Client) Shutdown() error {
	conn, err := net.Dial("unix", c.socketPath)
	if err != nil {
		return fmt.Errorf("ipcclient: connect to daemon at %s: %w", c.socketPath, err)
	}
	defer conn.Close()

	codec := wire.NewCodec(conn)
	env, err := wire.Encode(wire.ReqShutdown, nil)
	if err != nil {
		return err
	}
	_ = codec.WriteEnvelope(env)
	return nil
}
