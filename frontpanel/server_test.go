package frontpanel

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/intuitionamiga/sel810/sel810"
)

func newTestRunLoop() *sel810.RunLoop {
	cpu := sel810.NewCPU()
	return sel810.NewRunLoop(cpu, sel810.NewDebugger(cpu, nil))
}

func TestServeAcceptsAndPushesSnapshotOnChange(t *testing.T) {
	rl := newTestRunLoop()
	srv, err := NewServer("127.0.0.1:0", rl, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go srv.Serve(ctx)

	conn, err := net.Dial("tcp", srv.Addr().String())
	require.NoError(t, err)
	defer conn.Close()

	rl.CPU.SetA(99) // mutate state so the next tick pushes a frame

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	frame, err := ReadFrame(conn)
	require.NoError(t, err)
	assert.EqualValues(t, 99, frame.Snapshot.A)
	assert.EqualValues(t, 1, frame.Seq)
}

func TestApplyStepCommandAdvancesThenRehalts(t *testing.T) {
	rl := newTestRunLoop()
	rl.CPU.Mem.Write(0, uint16(0)) // HLT is sub-op 0 at opcode 0
	rl.CPU.Prefetch()

	srv, err := NewServer("127.0.0.1:0", rl, nil)
	require.NoError(t, err)
	defer srv.ln.Close()

	srv.apply(ControlMessage{Cmd: "step"})

	assert.True(t, rl.Halted())
}

func TestApplyResumeThenHalt(t *testing.T) {
	rl := newTestRunLoop()
	srv, err := NewServer("127.0.0.1:0", rl, nil)
	require.NoError(t, err)
	defer srv.ln.Close()

	srv.apply(ControlMessage{Cmd: "resume"})
	assert.False(t, rl.Halted())

	srv.apply(ControlMessage{Cmd: "halt"})
	assert.True(t, rl.Halted())
}

func TestApplyMasterClearResetsRegisters(t *testing.T) {
	rl := newTestRunLoop()
	rl.CPU.SetA(123)
	srv, err := NewServer("127.0.0.1:0", rl, nil)
	require.NoError(t, err)
	defer srv.ln.Close()

	srv.apply(ControlMessage{Cmd: "masterclear"})

	assert.EqualValues(t, 0, rl.CPU.A)
	assert.True(t, rl.Halted())
}

func TestApplyUnknownCommandDoesNotPanic(t *testing.T) {
	rl := newTestRunLoop()
	srv, err := NewServer("127.0.0.1:0", rl, nil)
	require.NoError(t, err)
	defer srv.ln.Close()

	assert.NotPanics(t, func() { srv.apply(ControlMessage{Cmd: "bogus"}) })
}

func TestServeStopsOnContextCancel(t *testing.T) {
	rl := newTestRunLoop()
	srv, err := NewServer("127.0.0.1:0", rl, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx) }()

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Serve did not return after context cancellation")
	}
}
