// exec_mref.go - memory-reference opcodes (1-10, 12-14), spec.md S4.2.
//
// Grounded on program_executor.go's per-opcode switch: one case per
// mnemonic, each returning the instruction's PC increment rather than
// mutating PC directly, so skip/branch behavior stays uniform.

package sel810

// step describes how far the fetch/prefetch cycle should advance PC
// after an instruction completes. Branch-family ops set it to 0 because
// they've already placed PC themselves.
type step int

const (
	stepNormal step = 1
	stepSkip1  step = 2
	stepSkip2  step = 3
	stepJump   step = 0
)

// execMemRef dispatches a memory-reference opcode (1-10, 12-14) and
// returns the PC increment to apply.
func (c *CPU) execMemRef(op uint16) step {
	origI := originalIBit(c.IR)
	ea := c.effectiveAddress()

	switch op {
	case 1: // LAA
		c.SetA(int16(c.Mem.Read(ea)))
		return stepNormal
	case 2: // LBA
		c.SetB(int16(c.Mem.Read(ea)))
		return stepNormal
	case 3: // STA
		c.Mem.Write(ea, uint16(c.A))
		return stepNormal
	case 4: // STB
		c.Mem.Write(ea, uint16(c.B))
		return stepNormal
	case 5: // AMA
		c.addTo(c.A, c.Mem.Read(ea), c.SetA)
		return stepNormal
	case 6: // SMA
		c.subFrom(c.A, c.Mem.Read(ea), c.SetA)
		return stepNormal
	case 7: // MPY
		c.mpy(ea)
		return stepNormal
	case 8: // DIV
		c.div(ea)
		return stepNormal
	case 9: // BRU
		c.SetPC(ea)
		if c.TOI && origI {
			c.DismissTOI()
		}
		return stepJump
	case 10: // SPB
		c.Mem.Write(ea, (c.PC+1)&0x3FFF)
		c.SetPC(ea)
		c.IntBlocked = true
		return stepJump
	case 12: // IMS
		val := c.Mem.Read(ea) + 1
		c.Mem.Write(ea, val)
		if val == 0 {
			return stepSkip1
		}
		return stepNormal
	case 13: // CMA
		target := int16(c.Mem.Read(ea))
		switch {
		case c.A > target:
			return stepSkip2
		case c.A >= target:
			return stepSkip1
		default:
			return stepNormal
		}
	case 14: // AMB
		c.addTo(c.B, c.Mem.Read(ea), c.SetB)
		return stepNormal
	}
	return stepNormal
}

// addTo implements AMA/AMB: reg += mem + CF, with signed-overflow
// detection (spec.md S4.2). set writes the result through the
// breakpoint-checked register setter.
func (c *CPU) addTo(reg int16, mem uint16, set func(int16)) {
	carry := int32(0)
	if c.CF {
		carry = 1
	}
	sum := int32(reg) + int32(int16(mem)) + carry
	c.OVF = overflows(sum)
	set(int16(sum))
}

// subFrom implements SMA: reg -= mem + CF, with signed-overflow
// detection.
func (c *CPU) subFrom(reg int16, mem uint16, set func(int16)) {
	carry := int32(0)
	if c.CF {
		carry = 1
	}
	diff := int32(reg) - int32(int16(mem)) - carry
	c.OVF = overflows(diff)
	set(int16(diff))
}

// mpy implements MPY (spec.md S8 scenario 5): the multiplicand is B,
// not A; the raw 31-bit two's-complement product is halved before
// splitting across A (high) and B (low 15 bits), matching the hardware
// double-precision product representation the boundary scenario
// exercises. Overflow fires only at the -32768 x -32768 extreme.
func (c *CPU) mpy(ea uint16) {
	mem := int16(c.Mem.Read(ea))
	b := c.B
	c.OVF = b == -32768 && mem == -32768

	prod := (int64(b) * int64(mem)) >> 1
	c.SetA(int16((prod >> 15) & 0xFFFF))
	c.SetB(int16(prod & 0x7FFF))
}

// div implements DIV: the dividend is the 30-bit pair (A<<15 | B&0x7FFF);
// the divisor is M[EA]. Overflow is checked before dividing, matching
// the guarded hardware behavior of leaving A/B untouched rather than
// faulting on a zero or undersized divisor (spec.md S4.2).
func (c *CPU) div(ea uint16) {
	divisor := int64(int16(c.Mem.Read(ea)))
	dividend := (int64(c.A) << 15) | int64(uint16(c.B)&0x7FFF)

	if divisor == 0 || abs64(int64(c.A)) >= abs64(divisor) {
		c.OVF = true
		return
	}
	c.SetA(int16(dividend / divisor))
	c.SetB(int16(dividend % divisor))
}
