// runloop.go - the run-loop controller: the single goroutine that
// drives CPU.Step and Interrupts.Step, plus the control surface the
// front panel and debugger use to pause, single-step and reset it
// (spec.md S4.4, S4.5, S5).
//
// Grounded on runtime_ipc.go's context-cancellable serve loop: Run
// takes a context, returns when it's done or cancelled, and is meant to
// be driven from an errgroup alongside sibling goroutines.

package sel810

import (
	"context"
	"sync/atomic"
	"time"
)

// RunLoop owns the sole goroutine permitted to call CPU.Step once the
// machine is running (spec.md S5: "the executor flow is the sole
// mutator of machine state"). Front-panel and debugger goroutines only
// ever read through it or flip the atomic control flags below.
type RunLoop struct {
	CPU      *CPU
	Debugger *Debugger

	halted atomic.Bool
}

// NewRunLoop returns a run-loop over cpu, started in the halted state.
func NewRunLoop(cpu *CPU, debugger *Debugger) *RunLoop {
	rl := &RunLoop{CPU: cpu, Debugger: debugger}
	rl.halted.Store(true)
	return rl
}

// Halted reports whether the loop is currently stopped.
func (rl *RunLoop) Halted() bool { return rl.halted.Load() }

// Halt stops the loop before its next instruction.
func (rl *RunLoop) Halt() { rl.halted.Store(true) }

// Resume clears the halted flag so Run can proceed.
func (rl *RunLoop) Resume() { rl.halted.Store(false) }

// Run is the run-loop's persistent driver goroutine: it lives for
// ctx's whole lifetime, stepping the CPU while not halted and idling
// otherwise, so Halt/Resume toggle execution without restarting the
// goroutine. It is meant to be launched under an errgroup.Group so its
// teardown is coordinated with sibling goroutines (the front panel,
// peripheral workers).
func (rl *RunLoop) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			rl.halted.Store(true)
			return ctx.Err()
		default:
		}
		if rl.halted.Load() {
			select {
			case <-ctx.Done():
				rl.halted.Store(true)
				return ctx.Err()
			case <-time.After(time.Millisecond):
			}
			continue
		}
		rl.step()
	}
}

// Step executes exactly one instruction regardless of the halted flag,
// for interactive single-stepping, and leaves the loop halted
// afterwards.
func (rl *RunLoop) Step() {
	rl.step()
	rl.halted.Store(true)
}

func (rl *RunLoop) step() {
	rl.CPU.Step()
	rl.CPU.Interrupts.Step(rl.CPU.Machine, rl.CPU.Peripherals)
	if rl.CPU.HaltRequested {
		rl.CPU.HaltRequested = false
		rl.halted.Store(true)
	}
}

// MasterClear halts the loop, resets the register file (spec.md S8:
// idempotent), and re-primes the prefetch so IR reflects M[PC].
func (rl *RunLoop) MasterClear() {
	rl.halted.Store(true)
	rl.CPU.Machine.MasterClear()
	rl.CPU.Prefetch()
}

// Attach installs dev at unit on the live peripheral table.
func (rl *RunLoop) Attach(unit int, dev Peripheral) { rl.CPU.Peripherals.Attach(unit, dev) }

// Detach removes and releases the peripheral at unit.
func (rl *RunLoop) Detach(unit int) { rl.CPU.Peripherals.Detach(unit) }

// ReleaseIOHold cuts short an in-progress IOHOLD stall.
func (rl *RunLoop) ReleaseIOHold() { rl.CPU.IO.ReleaseIOHold() }

// SetReadBreak arms or disarms a read breakpoint at addr.
func (rl *RunLoop) SetReadBreak(addr uint16, count int32) {
	rl.Debugger.SetReadBreak(addr, count)
}

// SetWriteBreak arms or disarms a write breakpoint at addr.
func (rl *RunLoop) SetWriteBreak(addr uint16, count int32) {
	rl.Debugger.SetWriteBreak(addr, count)
}

// SetRegBreak arms or disarms a value breakpoint on A, B, IR or PC.
func (rl *RunLoop) SetRegBreak(kind BreakKind, value uint16, on bool) {
	rl.Debugger.SetRegBreak(kind, value, on)
}

// ClearBreaks disarms every breakpoint.
func (rl *RunLoop) ClearBreaks() { rl.Debugger.ClearAll() }
