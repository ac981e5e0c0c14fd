// machine.go - SEL 810A register file and lifecycle.
//
// Grounded on component_reset.go's per-component Reset() methods: one
// routine per subsystem that restores its own zero state, called from a
// single owning lifecycle point rather than scattered ad hoc clears.

package sel810

// Machine holds the single copy of CPU register state (spec.md S3). It
// is owned by the run-loop; only the executor and interrupt engine
// mutate it once the machine is running.
type Machine struct {
	A, B int16  // 16-bit signed accumulators
	X    uint16 // index register
	PC   uint16 // 15-bit program counter, bit 15 always clear
	IR   uint16 // current instruction register
	T    uint16 // transient/fetch register (front-panel visible)
	SR   uint16 // operator control-switch register
	VBR  uint16 // variable base register, bits 9-14 significant
	PPR  uint16 // protect-register shadow

	CF  bool // carry flag
	XP  bool // index-pointer flag: true selects X, false selects B
	OVF bool // overflow flag

	Mem *Memory
}

// NewMachine returns a machine with fresh, zeroed memory.
func NewMachine() *Machine {
	return &Machine{Mem: NewMemory()}
}

// MasterClear resets the registers spec.md S3 names: A, B, T, IR, PC,
// VBR, OVF, CF. SR, PPR, XP and X are deliberately left untouched -
// this mirrors the original hardware's switch/protect state surviving
// a clear. Idempotent: calling it twice is the same as calling it once
// (spec.md S8).
func (m *Machine) MasterClear() {
	m.A = 0
	m.B = 0
	m.T = 0
	m.IR = 0
	m.PC = 0
	m.VBR = 0
	m.OVF = false
	m.CF = false
}

// SetA writes the A accumulator, checking A-value breakpoints.
func (m *Machine) SetA(v int16) {
	m.A = v
	m.Mem.checkRegBreak(BreakRegA, &m.Mem.regA, &m.Mem.anyRegA, uint16(v))
}

// SetB writes the B accumulator, checking B-value breakpoints.
func (m *Machine) SetB(v int16) {
	m.B = v
	m.Mem.checkRegBreak(BreakRegB, &m.Mem.regB, &m.Mem.anyRegB, uint16(v))
}

// SetIR writes the instruction register, checking IR-value breakpoints.
func (m *Machine) SetIR(v uint16) {
	m.IR = v
	m.Mem.checkRegBreak(BreakRegIR, &m.Mem.regIR, &m.Mem.anyRegIR, v)
}

// SetPC writes the program counter, checking PC-value breakpoints. The
// top bit is always masked clear (spec.md S3 invariant: PC & 0x8000 ==
// 0).
func (m *Machine) SetPC(v uint16) {
	v &= 0x7FFF
	m.PC = v
	m.Mem.checkRegBreak(BreakRegPC, &m.Mem.regPC, &m.Mem.anyRegPC, v)
}

// Prefetch reloads T and IR from the word at PC (spec.md S4.2: "after
// every executor step, T <- M[PC]; IR <- T"). This is the prefetch
// invariant checked in spec.md S8: IR == M[PC] after a step completes.
func (m *Machine) Prefetch() {
	word := m.Mem.Read(m.PC)
	m.T = word
	m.SetIR(word)
}
