// ioarb.go - I/O arbitration: SKIP/WAIT semantics and the IOHOLD stall.
//
// Grounded on runtime_ipc.go's deadline-bounded read/accept loops
// (SetDeadline + blocking read, retried on a timeout) generalized into a
// two-stage wait: a short bounded spin, then an indefinite hold that a
// separate signal can cut short.

package sel810

import (
	"runtime"
	"sync/atomic"
	"time"
)

// IOMode selects which sub-opcode variant issued the request. SKIP
// variants never block; WAIT variants may.
type IOMode int

const (
	ModeSkip IOMode = iota
	ModeWait
)

// IOTimings are the poll/stall windows from spec.md S4.3, overridable
// (e.g. by config.go or by tests) without touching the arbitration
// logic.
type IOTimings struct {
	IndicatorLag time.Duration // WAIT spins this long before entering IOHOLD
	PollInterval time.Duration // spin-wait poll period
	HoldPollCmd  time.Duration // IOHOLD poll period for Test/Command
	HoldPollRW   time.Duration // IOHOLD poll period for Read/Write
}

// DefaultIOTimings returns the constants named in spec.md S4.3.
func DefaultIOTimings() IOTimings {
	return IOTimings{
		IndicatorLag: 200 * time.Millisecond,
		PollInterval: 10 * time.Millisecond,
		HoldPollCmd:  50 * time.Millisecond,
		HoldPollRW:   20 * time.Millisecond,
	}
}

// IOArbiter couples synchronous CPU I/O instructions to asynchronous
// peripherals. It owns no machine state beyond the peripheral table and
// the IOHOLD/release signaling spec.md S5 describes as atomic,
// lock-free flags.
type IOArbiter struct {
	Peripherals *PeripheralTable
	Timings     IOTimings

	holding atomic.Bool
	release atomic.Uint64
}

// NewIOArbiter returns an arbiter over table using the spec's default
// timings.
func NewIOArbiter(table *PeripheralTable) *IOArbiter {
	return &IOArbiter{Peripherals: table, Timings: DefaultIOTimings()}
}

// IOHold reports whether the arbiter is currently stalled waiting on a
// peripheral (front-panel visible, spec.md S4.3 step 5).
func (io *IOArbiter) IOHold() bool { return io.holding.Load() }

// ReleaseIOHold abandons the current IOHOLD wait, causing the in-flight
// I/O call to re-check readiness once more and then return regardless
// (spec.md S5).
func (io *IOArbiter) ReleaseIOHold() { io.release.Add(1) }

// resolve implements spec.md S4.3 steps 2-5 for a single readiness
// predicate: SKIP mode returns the immediate result; WAIT mode spins up
// to IndicatorLag, then enters IOHOLD until ready or released.
func (io *IOArbiter) resolve(mode IOMode, ready func() bool, holdPoll time.Duration) bool {
	if ready() {
		return true
	}
	if mode == ModeSkip {
		return false
	}

	deadline := time.Now().Add(io.Timings.IndicatorLag)
	for time.Now().Before(deadline) {
		time.Sleep(io.Timings.PollInterval)
		runtime.Gosched()
		if ready() {
			return true
		}
	}

	io.holding.Store(true)
	defer io.holding.Store(false)

	releasedAt := io.release.Load()
	for {
		if ready() {
			return true
		}
		if io.release.Load() != releasedAt {
			return ready()
		}
		time.Sleep(holdPoll)
	}
}

// Test arbitrates a TEU-style condition poll (flavor Test).
func (io *IOArbiter) Test(unit int, mode IOMode, cmd uint16) bool {
	dev := io.Peripherals.Lookup(unit)
	if dev == nil {
		return false
	}
	if !io.resolve(mode, func() bool { return dev.TestReady(cmd) }, io.Timings.HoldPollCmd) {
		return false
	}
	return dev.Test(cmd)
}

// Command arbitrates a CEU-style command issue (flavor Command).
func (io *IOArbiter) Command(unit int, mode IOMode, cmd uint16) bool {
	dev := io.Peripherals.Lookup(unit)
	if dev == nil {
		return false
	}
	if !io.resolve(mode, dev.CommandReady, io.Timings.HoldPollCmd) {
		return false
	}
	return dev.Command(cmd)
}

// ReadWord arbitrates an AIP/MIP-style word read (flavor Read).
func (io *IOArbiter) ReadWord(unit int, mode IOMode) (ok bool, word uint16) {
	dev := io.Peripherals.Lookup(unit)
	if dev == nil {
		return false, 0
	}
	if !io.resolve(mode, dev.ReadReady, io.Timings.HoldPollRW) {
		return false, 0
	}
	return dev.Read()
}

// WriteWord arbitrates an AOP/MOP-style word write (flavor Write).
func (io *IOArbiter) WriteWord(unit int, mode IOMode, word uint16) bool {
	dev := io.Peripherals.Lookup(unit)
	if dev == nil {
		return false
	}
	if !io.resolve(mode, dev.WriteReady, io.Timings.HoldPollRW) {
		return false
	}
	return dev.Write(word)
}
