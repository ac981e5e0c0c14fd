// network.go - a TCP-backed word channel: one connected client per
// peripheral, words relayed as length-independent big-endian pairs.
//
// Grounded on runtime_ipc.go's accept-loop-plus-handler shape, adapted
// from a request/response protocol to a persistent streaming one: a
// single background goroutine owns the accepted connection and feeds
// an inbox, mirroring Teletype's queue/ready pairing.

package devices

import (
	"encoding/binary"
	"net"
	"sync"
	"sync/atomic"
)

// Network listens on a TCP address and relays 16-bit words to/from the
// first client that connects. CommandReady/Command are unused (cmd is
// ignored); it never interrupts.
type Network struct {
	ln net.Listener

	mu   sync.Mutex
	conn net.Conn

	inboxMu sync.Mutex
	inbox []uint16
	ready atomic.Bool

	closed atomic.Bool
}

// NewNetwork binds addr and begins accepting a single client
// connection in the background.
func NewNetwork(addr string) (*Network, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	n := &Network{ln: ln}
	go n.acceptLoop()
	return n, nil
}

// Addr returns the bound listen address, for tests that bind to ":0".
func (n *Network) Addr() net.Addr { return n.ln.Addr() }

func (n *Network) acceptLoop() {
	for {
		conn, err := n.ln.Accept()
		if err != nil {
			return
		}
		n.mu.Lock()
		if n.conn != nil {
			conn.Close()
			n.mu.Unlock()
			continue
		}
		n.conn = conn
		n.mu.Unlock()
		go n.readLoop(conn)
	}
}

func (n *Network) readLoop(conn net.Conn) {
	var buf [2]byte
	for {
		if _, err := conn.Read(buf[:]); err != nil {
			return
		}
		word := binary.BigEndian.Uint16(buf[:])
		n.inboxMu.Lock()
		n.inbox = append(n.inbox, word)
		n.inboxMu.Unlock()
		n.ready.Store(true)
	}
}

func (n *Network) TestReady(uint16) bool { return true }
func (n *Network) Test(uint16) bool      { return n.ready.Load() }

func (n *Network) CommandReady() bool  { return true }
func (n *Network) Command(uint16) bool { return true }

func (n *Network) ReadReady() bool { return n.ready.Load() }

func (n *Network) Read() (bool, uint16) {
	n.inboxMu.Lock()
	defer n.inboxMu.Unlock()
	if len(n.inbox) == 0 {
		n.ready.Store(false)
		return false, 0
	}
	word := n.inbox[0]
	n.inbox = n.inbox[1:]
	if len(n.inbox) == 0 {
		n.ready.Store(false)
	}
	return true, word
}

func (n *Network) WriteReady() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.conn != nil
}

func (n *Network) Write(word uint16) bool {
	n.mu.Lock()
	conn := n.conn
	n.mu.Unlock()
	if conn == nil {
		return false
	}
	var buf [2]byte
	binary.BigEndian.PutUint16(buf[:], word)
	_, err := conn.Write(buf[:])
	return err == nil
}

func (n *Network) InterruptLines() (lines [9]uint16, ok bool) { return lines, false }

func (n *Network) Exit() {
	if n.closed.CompareAndSwap(false, true) {
		n.ln.Close()
		n.mu.Lock()
		if n.conn != nil {
			n.conn.Close()
		}
		n.mu.Unlock()
	}
}
