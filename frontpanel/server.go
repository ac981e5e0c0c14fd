// server.go - the front-panel TCP server: one accepted connection per
// client, a 200ms dirty-flag-gated snapshot push, and a control channel
// back into the run-loop.
//
// Grounded on runtime_ipc.go's Start/Stop/acceptLoop/handleConn shape,
// adapted from request-response to a push stream; Serve's
// context-cancellable loop matches sel810.RunLoop.Run so both are
// launched the same way under an errgroup.Group.

package frontpanel

import (
	"context"
	"log"
	"net"
	"time"

	"github.com/intuitionamiga/sel810/sel810"
)

// PushInterval is the front panel's display refresh period (spec.md
// S4.6).
const PushInterval = 200 * time.Millisecond

// Server pushes RunLoop snapshots to every connected client and
// applies control messages clients send back.
type Server struct {
	ln     net.Listener
	rl     *sel810.RunLoop
	logger *log.Logger
}

// NewServer binds addr and returns a server over rl.
func NewServer(addr string, rl *sel810.RunLoop, logger *log.Logger) (*Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Server{ln: ln, rl: rl, logger: logger}, nil
}

// Addr returns the bound listen address.
func (s *Server) Addr() net.Addr { return s.ln.Addr() }

// Serve accepts connections until ctx is cancelled, then closes the
// listener and returns. Meant to be run under an errgroup.Group
// alongside RunLoop.Run.
func (s *Server) Serve(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		s.ln.Close()
	}()

	for {
		conn, err := s.ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
				return err
			}
		}
		go s.handleConn(ctx, conn)
	}
}

func (s *Server) handleConn(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	go s.readControl(conn)

	ticker := time.NewTicker(PushInterval)
	defer ticker.Stop()

	var last sel810.Snapshot
	var seq uint64
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cur := s.rl.Snapshot()
			if cur == last {
				continue
			}
			seq++
			if err := WriteFrame(conn, Frame{Seq: seq, Snapshot: cur}); err != nil {
				return
			}
			last = cur
		}
	}
}

func (s *Server) readControl(conn net.Conn) {
	for {
		msg, err := ReadControl(conn)
		if err != nil {
			return
		}
		s.apply(msg)
	}
}

func (s *Server) apply(msg ControlMessage) {
	switch msg.Cmd {
	case "step":
		s.rl.Step()
	case "halt":
		s.rl.Halt()
	case "resume":
		s.rl.Resume()
	case "masterclear":
		s.rl.MasterClear()
	case "release":
		s.rl.ReleaseIOHold()
	default:
		if s.logger != nil {
			s.logger.Printf("frontpanel: unknown control command %q", msg.Cmd)
		}
	}
}
