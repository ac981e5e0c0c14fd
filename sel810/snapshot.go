// snapshot.go - a point-in-time, read-only copy of machine state for
// the front panel (spec.md S4.6).
//
// Grounded on debug_monitor.go's state-snapshot struct: a flat value
// type with no pointers back into live state, safe to hand to another
// goroutine without locking.

package sel810

// Snapshot is a flat copy of everything the front panel displays. It
// holds no references into the live Machine/Interrupts/IOArbiter, so
// reading one never blocks or races with the executor.
type Snapshot struct {
	A, B int16
	X    uint16
	PC   uint16
	IR   uint16
	T    uint16
	SR   uint16
	VBR  uint16

	CF, XP, OVF bool

	IntGroup int
	IntLevel int

	Halted bool
	IOHold bool
}

// Snapshot captures the run-loop's current state. Safe to call from any
// goroutine; it takes no lock on Machine itself (register reads are
// plain words, not counters), matching the front panel's read-only,
// best-effort relationship to executor state (spec.md S5).
func (rl *RunLoop) Snapshot() Snapshot {
	m := rl.CPU.Machine
	ie := rl.CPU.Interrupts
	return Snapshot{
		A: m.A, B: m.B, X: m.X, PC: m.PC, IR: m.IR, T: m.T, SR: m.SR, VBR: m.VBR,
		CF: m.CF, XP: m.XP, OVF: m.OVF,
		IntGroup: ie.IntGroup, IntLevel: ie.IntLevel,
		Halted: rl.Halted(), IOHold: rl.CPU.IO.IOHold(),
	}
}
