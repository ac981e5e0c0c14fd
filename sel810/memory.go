// memory.go - core memory and the breakpoint store co-located with it.
//
// Grounded on memory_bus.go (SystemBus): a contiguous word store behind a
// mutex, with the same read/write-through-one-gate shape. The breakpoint
// counters are spec.md S4.1's addition: every access checks a per-address
// counter before touching the backing array.

package sel810

import "sync"

// MemSize is the SEL 810A's 32,768-word address space.
const MemSize = 1 << 15

// AddrMask confines an address to the 15-bit space (spec.md S3: addresses
// wrap at 32768).
const AddrMask = MemSize - 1

// BreakKind identifies which counter category fired.
type BreakKind int

const (
	BreakRead BreakKind = iota
	BreakWrite
	BreakRegA
	BreakRegB
	BreakRegIR
	BreakRegPC
)

// BreakEvent describes a single breakpoint firing, passed to the sink
// that the owning Machine installs.
type BreakEvent struct {
	Kind BreakKind
	Addr uint16 // memory address, or the normalized register value
}

// BreakSink receives breakpoint firings. The Machine/RunLoop wires one in
// so that firing a break can halt the run-loop and emit a diagnostic
// (spec.md S4.1), without memory needing to know about the run-loop.
type BreakSink interface {
	OnBreak(ev BreakEvent)
}

// Memory is the 32,768-word core store plus its breakpoint counters.
// Counters of -1 mean "break always without decrement"; positive
// counters decrement on match and fire on the 1->0 transition (spec.md
// S4.1). "Any set" flags let the hot read/write path skip the lookup
// entirely when no breakpoint of that category exists (spec.md S4.1).
type Memory struct {
	mu    sync.Mutex
	words [MemSize]uint16

	readCount  [MemSize]int32
	writeCount [MemSize]int32
	anyRead    bool
	anyWrite   bool

	regA, regB, regIR, regPC [1 << 16]bool
	anyRegA, anyRegB, anyRegIR, anyRegPC bool

	sink BreakSink
}

// NewMemory returns a zeroed 32K-word store with no breakpoints armed.
func NewMemory() *Memory {
	return &Memory{}
}

// SetBreakSink installs the breakpoint-fired callback. Must be called
// before breakpoints can meaningfully fire; a nil sink silently drops
// firings (useful for headless unit tests of raw memory access).
func (m *Memory) SetBreakSink(sink BreakSink) {
	m.mu.Lock()
	m.sink = sink
	m.mu.Unlock()
}

// Read returns the word at addr, firing any armed read breakpoint.
func (m *Memory) Read(addr uint16) uint16 {
	addr &= AddrMask
	m.mu.Lock()
	word := m.words[addr]
	fire := m.anyRead && m.checkCounterLocked(&m.readCount[addr])
	sink := m.sink
	m.mu.Unlock()
	if fire && sink != nil {
		sink.OnBreak(BreakEvent{Kind: BreakRead, Addr: addr})
	}
	return word
}

// Write stores word at addr, firing any armed write breakpoint.
func (m *Memory) Write(addr uint16, word uint16) {
	addr &= AddrMask
	m.mu.Lock()
	m.words[addr] = word
	fire := m.anyWrite && m.checkCounterLocked(&m.writeCount[addr])
	sink := m.sink
	m.mu.Unlock()
	if fire && sink != nil {
		sink.OnBreak(BreakEvent{Kind: BreakWrite, Addr: addr})
	}
}

// checkCounterLocked applies the decrement/sentinel rule to a single
// counter and reports whether it just fired. Caller holds m.mu.
func (m *Memory) checkCounterLocked(counter *int32) bool {
	switch {
	case *counter == 0:
		return false
	case *counter < 0:
		return true // sentinel: fires every match, never decrements
	default:
		*counter--
		return *counter == 0
	}
}

// SetReadBreak arms (or disarms, with count==0) a read breakpoint at
// addr. count == -1 is the "always" sentinel.
func (m *Memory) SetReadBreak(addr uint16, count int32) {
	addr &= AddrMask
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readCount[addr] = count
	m.anyRead = m.anySetLocked(m.readCount[:])
}

// SetWriteBreak arms (or disarms) a write breakpoint at addr.
func (m *Memory) SetWriteBreak(addr uint16, count int32) {
	addr &= AddrMask
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writeCount[addr] = count
	m.anyWrite = m.anySetLocked(m.writeCount[:])
}

func (m *Memory) anySetLocked(counters []int32) bool {
	for _, c := range counters {
		if c != 0 {
			return true
		}
	}
	return false
}

// ClearAllBreaks disarms every read, write and register-value
// breakpoint.
func (m *Memory) ClearAllBreaks() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readCount = [MemSize]int32{}
	m.writeCount = [MemSize]int32{}
	m.anyRead = false
	m.anyWrite = false
	m.regA = [1 << 16]bool{}
	m.regB = [1 << 16]bool{}
	m.regIR = [1 << 16]bool{}
	m.regPC = [1 << 16]bool{}
	m.anyRegA, m.anyRegB, m.anyRegIR, m.anyRegPC = false, false, false, false
}

// checkRegBreak normalizes value to a non-negative 16-bit index (spec.md
// S4.1) and fires the sink if the corresponding bit is armed. Used by
// the register-write helpers in machine.go.
func (m *Memory) checkRegBreak(kind BreakKind, bitmap *[1 << 16]bool, anySet *bool, value uint16) {
	m.mu.Lock()
	armed := *anySet && bitmap[value]
	sink := m.sink
	m.mu.Unlock()
	if armed && sink != nil {
		sink.OnBreak(BreakEvent{Kind: kind, Addr: value})
	}
}

func (m *Memory) setRegBreak(bitmap *[1 << 16]bool, anySet *bool, value uint16, on bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	bitmap[value] = on
	if on {
		*anySet = true
		return
	}
	for _, set := range bitmap {
		if set {
			*anySet = true
			return
		}
	}
	*anySet = false
}

// SetRegABreak arms or disarms a value breakpoint on register A.
func (m *Memory) SetRegABreak(value uint16, on bool) { m.setRegBreak(&m.regA, &m.anyRegA, value, on) }

// SetRegBBreak arms or disarms a value breakpoint on register B.
func (m *Memory) SetRegBBreak(value uint16, on bool) { m.setRegBreak(&m.regB, &m.anyRegB, value, on) }

// SetRegIRBreak arms or disarms a value breakpoint on IR.
func (m *Memory) SetRegIRBreak(value uint16, on bool) {
	m.setRegBreak(&m.regIR, &m.anyRegIR, value, on)
}

// SetRegPCBreak arms or disarms a value breakpoint on PC.
func (m *Memory) SetRegPCBreak(value uint16, on bool) {
	m.setRegBreak(&m.regPC, &m.anyRegPC, value, on)
}
