package sel810

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDevice struct {
	ready       atomic.Bool
	lastCommand uint16
	lastWrite   uint16
}

func (d *fakeDevice) TestReady(uint16) bool { return d.ready.Load() }
func (d *fakeDevice) Test(uint16) bool      { return true }
func (d *fakeDevice) CommandReady() bool    { return d.ready.Load() }
func (d *fakeDevice) Command(cmd uint16) bool {
	d.lastCommand = cmd
	return true
}
func (d *fakeDevice) ReadReady() bool      { return d.ready.Load() }
func (d *fakeDevice) Read() (bool, uint16) { return true, 0xABCD }
func (d *fakeDevice) WriteReady() bool     { return d.ready.Load() }
func (d *fakeDevice) Write(word uint16) bool {
	d.lastWrite = word
	return true
}
func (d *fakeDevice) InterruptLines() (lines [9]uint16, ok bool) { return lines, false }
func (d *fakeDevice) Exit()                                      {}

func fastTimings() IOTimings {
	return IOTimings{
		IndicatorLag: 20 * time.Millisecond,
		PollInterval: 2 * time.Millisecond,
		HoldPollCmd:  3 * time.Millisecond,
		HoldPollRW:   3 * time.Millisecond,
	}
}

func TestSkipModeReturnsImmediatelyWhenNotReady(t *testing.T) {
	table := NewPeripheralTable()
	dev := &fakeDevice{}
	table.Attach(1, dev)
	io := NewIOArbiter(table)
	io.Timings = fastTimings()

	start := time.Now()
	ok := io.Command(1, ModeSkip, 42)
	assert.False(t, ok)
	assert.Less(t, time.Since(start), 5*time.Millisecond)
}

func TestWaitModeSucceedsOnceReady(t *testing.T) {
	table := NewPeripheralTable()
	dev := &fakeDevice{}
	table.Attach(1, dev)
	io := NewIOArbiter(table)
	io.Timings = fastTimings()

	dev.ready.Store(true)
	ok := io.Command(1, ModeWait, 7)
	require.True(t, ok)
	assert.EqualValues(t, 7, dev.lastCommand)
}

// TestIOHoldRecovery is spec.md S8 scenario 6: a WAIT call stalls past
// the indicator lag, enters IOHOLD, and completes once the device
// becomes ready.
func TestIOHoldRecovery(t *testing.T) {
	table := NewPeripheralTable()
	dev := &fakeDevice{}
	table.Attach(1, dev)
	io := NewIOArbiter(table)
	io.Timings = fastTimings()

	go func() {
		time.Sleep(30 * time.Millisecond)
		dev.ready.Store(true)
	}()

	start := time.Now()
	ok := io.Command(1, ModeWait, 9)
	elapsed := time.Since(start)

	assert.True(t, ok)
	assert.GreaterOrEqual(t, elapsed, io.Timings.IndicatorLag)
	assert.False(t, io.IOHold()) // cleared once the call returns
}

func TestReleaseIOHoldCutsWaitShort(t *testing.T) {
	table := NewPeripheralTable()
	dev := &fakeDevice{} // never becomes ready
	table.Attach(1, dev)
	io := NewIOArbiter(table)
	io.Timings = fastTimings()

	done := make(chan bool, 1)
	go func() { done <- io.Command(1, ModeWait, 1) }()

	time.Sleep(io.Timings.IndicatorLag + 10*time.Millisecond)
	require.True(t, io.IOHold())
	io.ReleaseIOHold()

	select {
	case ok := <-done:
		assert.False(t, ok)
	case <-time.After(500 * time.Millisecond):
		t.Fatal("ReleaseIOHold did not unblock the waiting call")
	}
}

func TestUnattachedUnitReturnsFalse(t *testing.T) {
	io := NewIOArbiter(NewPeripheralTable())
	ok := io.Command(5, ModeSkip, 1)
	assert.False(t, ok)
}

func TestReadWordAndWriteWord(t *testing.T) {
	table := NewPeripheralTable()
	dev := &fakeDevice{}
	dev.ready.Store(true)
	table.Attach(2, dev)
	io := NewIOArbiter(table)
	io.Timings = fastTimings()

	ok, word := io.ReadWord(2, ModeSkip)
	require.True(t, ok)
	assert.EqualValues(t, 0xABCD, word)

	ok = io.WriteWord(2, ModeSkip, 0x55)
	require.True(t, ok)
	assert.EqualValues(t, 0x55, dev.lastWrite)
}
