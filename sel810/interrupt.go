// interrupt.go - priority-vectored interrupt arbitration and dispatch.
//
// Grounded on debug_monitor.go's BreakpointEvent/channel dispatch shape
// (flat event data driving a state transition) and on the flat-array
// design note in spec.md S9: here one eight-element array per mask kind,
// one slot per group, for a branch-predictable priority scan.

package sel810

// NumGroups is the number of interrupt groups (spec.md S3).
const NumGroups = 8

// NoGroup is the sentinel IntGroup value meaning "nothing active"
// (spec.md S3 invariant: IntGroup == 8 iff no interrupt is active).
const NoGroup = 8

// VectorBase is the first interrupt vector address (spec.md S4.4).
const VectorBase = 514

// Interrupts holds the priority-vectored interrupt state (spec.md S3).
// Only 12 bits of each mask are meaningful; bit 11 is highest priority
// within a group, bit 0 lowest.
type Interrupts struct {
	Request [NumGroups]uint16
	Enabled [NumGroups]uint16
	Active  [NumGroups]uint16

	IntGroup   int // 0..7, or NoGroup
	IntLevel   int // 1..12
	IntMask    uint16
	IntBlocked bool // one-cycle post-dispatch lockout
	TOI        bool // pending "turn off interrupt" dismissal
}

// NewInterrupts returns an interrupt engine with nothing active.
func NewInterrupts() *Interrupts {
	return &Interrupts{IntGroup: NoGroup}
}

// Aggregate folds each attached peripheral's interrupt line vector into
// Request. Active bits are never cleared here - only TOI dismissal (and
// PID, for Enabled) retires a pending request (spec.md S3 invariant).
func (ie *Interrupts) Aggregate(table *PeripheralTable) {
	for _, dev := range table.All() {
		lines, ok := dev.InterruptLines()
		if !ok {
			continue
		}
		for g := 0; g < NumGroups; g++ {
			if lines[g] != 0 {
				ie.Request[g] |= lines[g] & 0xFFF
			}
		}
	}
}

// highestBit returns the index (0-11) of the highest set bit in mask,
// or -1 if mask is zero.
func highestBit(mask uint16) int {
	for bit := 11; bit >= 0; bit-- {
		if mask&(1<<uint(bit)) != 0 {
			return bit
		}
	}
	return -1
}

// Step runs the interrupt engine once per instruction, after the
// executor returns (spec.md S4.4). It aggregates pending peripheral
// requests, applies the one-cycle IntBlocked lockout, and otherwise
// scans groups 0..IntGroup for a candidate that outranks the currently
// active request. On preemption it performs the implicit
// store-place-and-branch through the fixed vector table and returns
// true.
func (ie *Interrupts) Step(m *Machine, table *PeripheralTable) bool {
	ie.Aggregate(table)

	if ie.IntBlocked {
		ie.IntBlocked = false
		return false
	}

	limit := ie.IntGroup
	if limit > NumGroups-1 {
		limit = NumGroups - 1
	}
	for g := 0; g <= limit; g++ {
		candidate := ie.Request[g] & ie.Enabled[g]
		if candidate == 0 {
			continue
		}
		bit := highestBit(candidate)
		preempts := g < ie.IntGroup || (g == ie.IntGroup && bit > highestBit(ie.IntMask))
		if !preempts {
			continue
		}
		ie.dispatch(m, g, bit)
		return true
	}
	return false
}

// dispatch latches the winning group/level/mask, marks it active, and
// performs the implicit SPB-like vector through M[vector] (spec.md
// S4.4: "read M[vector], mask to 15 bits to yield a target, write PC at
// the target, set PC to target+1, prefetch IR, set IntBlocked").
func (ie *Interrupts) dispatch(m *Machine, group, bit int) {
	ie.IntGroup = group
	ie.IntLevel = 12 - bit
	ie.IntMask = 1 << uint(bit)
	ie.Active[group] |= ie.IntMask

	vector := uint16(VectorBase + group*16 + (11 - bit))
	if group > 2 {
		vector += 16
	}

	word := m.Mem.Read(vector)
	target := word & 0x7FFF
	m.Mem.Write(target, m.PC&0x3FFF)
	m.SetPC(target + 1)
	m.Prefetch()
	ie.IntBlocked = true
}

// PIE sets bits of mask in Enabled[group] (priority-interrupt enable).
func (ie *Interrupts) PIE(group int, mask uint16) {
	ie.Enabled[group] |= mask & 0xFFF
}

// PID clears bits of mask in Enabled[group] (priority-interrupt
// disable). PIE(g,m); PID(g,m) leaves Enabled[g] unchanged (spec.md
// S8).
func (ie *Interrupts) PID(group int, mask uint16) {
	ie.Enabled[group] &^= mask & 0xFFF
}

// DismissTOI clears the pending TOI flag and the currently active
// request/bit, then restores the next-highest still-active level, or
// sets the "none active" sentinel if nothing remains (spec.md S4.4).
func (ie *Interrupts) DismissTOI() {
	ie.TOI = false
	if ie.IntGroup == NoGroup {
		return
	}
	ie.Active[ie.IntGroup] &^= ie.IntMask
	ie.Request[ie.IntGroup] &^= ie.IntMask

	for g := 0; g < NumGroups; g++ {
		if ie.Active[g] == 0 {
			continue
		}
		bit := highestBit(ie.Active[g])
		ie.IntGroup = g
		ie.IntLevel = 12 - bit
		ie.IntMask = 1 << uint(bit)
		return
	}
	ie.IntGroup = NoGroup
	ie.IntLevel = 0
	ie.IntMask = 0
}
