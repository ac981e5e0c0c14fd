// exec_io.go - augmented opcodes 11 and 15: control and data I/O
// (spec.md S4.2, S4.3).
//
// Field layout (these opcodes carry no memory-reference bits): unit
// number in bits 11-6, operation in bits 5-1, SKIP/WAIT mode in bit 0.
// Every gated operation shares the skip-on-success idiom the
// memory-reference family already uses for IMS/CMA.

package sel810

const (
	ioCEU = iota
	ioTEU
	ioSNS
	ioPIE
	ioPID
)

const (
	ioAOP = iota
	ioAIP
	ioMOP
	ioMIP
)

type ioFields struct {
	unit int
	op   uint16
	mode IOMode
}

func decodeIO(ir uint16) ioFields {
	mode := ModeSkip
	if ir&1 != 0 {
		mode = ModeWait
	}
	return ioFields{
		unit: int((ir >> 6) & 0x3F),
		op:   (ir >> 1) & 0x1F,
		mode: mode,
	}
}

// execAug13 dispatches an opcode-11 control-I/O or priority-interrupt
// instruction.
func (c *CPU) execAug13() step {
	f := decodeIO(c.IR)

	switch f.op {
	case ioCEU: // command enable unit: send A as a command word
		return skipIf(c.IO.Command(f.unit, f.mode, uint16(c.A)))

	case ioTEU: // test enable unit: pure condition test against A
		return skipIf(c.IO.Test(f.unit, f.mode, uint16(c.A)))

	case ioSNS: // sense: skip if the selected SR switch bit is clear
		bit := uint(f.unit) & 0xF
		return skipIf(c.SR&(1<<bit) == 0)

	case ioPIE: // priority-interrupt enable: A's low 12 bits into the group mask
		c.PIE(f.unit%NumGroups, uint16(c.A))
		return stepNormal

	case ioPID: // priority-interrupt disable
		c.PID(f.unit%NumGroups, uint16(c.A))
		return stepNormal
	}
	return stepNormal
}

// execAug17 dispatches an opcode-15 data-I/O instruction. MOP/MIP move
// a word directly between memory and the device through the index
// register as an auto-incrementing pointer, the same role X already
// plays for indexed addressing.
func (c *CPU) execAug17() step {
	f := decodeIO(c.IR)

	switch f.op {
	case ioAOP: // A output
		return skipIf(c.IO.WriteWord(f.unit, f.mode, uint16(c.A)))

	case ioAIP: // A input
		ok, word := c.IO.ReadWord(f.unit, f.mode)
		if ok {
			c.SetA(int16(word))
		}
		return skipIf(ok)

	case ioMOP: // memory output via X
		word := c.Mem.Read(c.X)
		ok := c.IO.WriteWord(f.unit, f.mode, word)
		if ok {
			c.X++
		}
		return skipIf(ok)

	case ioMIP: // memory input via X
		ok, word := c.IO.ReadWord(f.unit, f.mode)
		if ok {
			c.Mem.Write(c.X, word)
			c.X++
		}
		return skipIf(ok)
	}
	return stepNormal
}
