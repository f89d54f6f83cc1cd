package wire

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
)

// maxLineSize bounds a single framed record. Capture output can run to
// hundreds of kilobytes (spec §4.2); terminal history realistically tops
// out well under this.
const maxLineSize = 16 * 1024 * 1024

// Codec frames Envelope values as newline-delimited JSON over a stream. It
// does not introduce a length prefix: the protocol is explicitly
// read-until-'\n' (spec §4.1, §9), and JSON string escaping guarantees a
// payload never contains a raw newline.
type Codec struct {
	r *bufio.Scanner
	w io.Writer
}

// NewCodec wraps a stream for framed Envelope exchange.
func NewCodec(rw io.ReadWriter) *Codec {
	scanner := bufio.NewScanner(rw)
	scanner.Buffer(make([]byte, 0, 4096), maxLineSize)
	return &Codec{r: scanner, w: rw}
}

// ReadEnvelope blocks until one newline-terminated JSON record is
// available, decodes it, and returns it. io.EOF is returned verbatim when
// the peer closes the connection cleanly.
func (c *Codec) ReadEnvelope() (Envelope, error) {
	if !c.r.Scan() {
		if err := c.r.Err(); err != nil {
			return Envelope{}, fmt.Errorf("wire: read: %w", err)
		}
		return Envelope{}, io.EOF
	}

	var env Envelope
	if err := json.Unmarshal(c.r.Bytes(), &env); err != nil {
		return Envelope{}, fmt.Errorf("wire: malformed record: %w", err)
	}
	return env, nil
}

// WriteEnvelope marshals an Envelope and appends the trailing newline.
func (c *Codec) WriteEnvelope(env Envelope) error {
	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("wire: encode: %w", err)
	}
	data = append(data, '\n')
	if _, err := c.w.Write(data); err != nil {
		return fmt.Errorf("wire: write: %w", err)
	}
	return nil
}
