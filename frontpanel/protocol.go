// protocol.go - the wire format the front panel speaks: length-prefixed
// JSON frames, pushed on a dirty-flag-gated timer.
//
// Grounded directly on runtime_ipc.go's request/response framing
// (encoding/json over a net.Conn, one JSON value per message) extended
// with a 4-byte big-endian length prefix so a push stream can carry
// many frames without relying on JSON's self-delimiting decode loop.

package frontpanel

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"

	"github.com/intuitionamiga/sel810/sel810"
)

// maxFrameSize bounds a single frame, mirroring runtime_ipc.go's
// ipcMaxRequestSize guard against a misbehaving peer.
const maxFrameSize = 1 << 16

// Frame is the pushed wire message: a snapshot plus a monotonic
// sequence number the client can use to detect drops.
type Frame struct {
	Seq      uint64          `json:"seq"`
	Snapshot sel810.Snapshot `json:"snapshot"`
}

// ControlMessage is what a connected client may send back: a request
// to step, halt, resume, master-clear, or release an IOHOLD stall.
type ControlMessage struct {
	Cmd string `json:"cmd"`
}

// WriteFrame encodes frame as length-prefixed JSON and writes it to w.
func WriteFrame(w io.Writer, frame Frame) error {
	body, err := json.Marshal(frame)
	if err != nil {
		return fmt.Errorf("frontpanel: encode frame: %w", err)
	}
	if len(body) > maxFrameSize {
		return fmt.Errorf("frontpanel: frame too large: %d bytes", len(body))
	}
	var header [4]byte
	binary.BigEndian.PutUint32(header[:], uint32(len(body)))
	if _, err := w.Write(header[:]); err != nil {
		return err
	}
	_, err = w.Write(body)
	return err
}

// ReadFrame decodes one length-prefixed JSON frame from r.
func ReadFrame(r io.Reader) (Frame, error) {
	var header [4]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return Frame{}, err
	}
	size := binary.BigEndian.Uint32(header[:])
	if size > maxFrameSize {
		return Frame{}, fmt.Errorf("frontpanel: frame too large: %d bytes", size)
	}
	body := make([]byte, size)
	if _, err := io.ReadFull(r, body); err != nil {
		return Frame{}, err
	}
	var frame Frame
	if err := json.Unmarshal(body, &frame); err != nil {
		return Frame{}, fmt.Errorf("frontpanel: decode frame: %w", err)
	}
	return frame, nil
}

// ReadControl decodes a single plain JSON ControlMessage (unframed,
// matching runtime_ipc.go's bare-request convention for the inbound
// side of the connection).
func ReadControl(r io.Reader) (ControlMessage, error) {
	var msg ControlMessage
	dec := json.NewDecoder(r)
	err := dec.Decode(&msg)
	return msg, err
}
