// exec_aug00.go - augmented opcode 0: accumulator, shift, skip and
// index-register operations (spec.md S4.2).
//
// The sub-op table here covers every augmented-00 mnemonic spec.md
// names or exercises in its testable properties (S8): HLT, RNA, NEG,
// CSB, SOF, CNS, LOB, TOI, TAB/TBA/IAB, the six accumulator skip-on-
// condition ops, the shift/rotate family, and four index-register
// transfer ops. Sub-op codes past this set are deliberately unassigned
// and treated as no-ops (spec.md's Open Questions: undefined
// augmented-00 sub-ops are no-ops), since no source of truth gives
// their real hardware encoding.
package sel810

const (
	subHLT = iota
	subRNA
	subNEG
	subCSB
	subSOF
	subCNS
	subLOB
	subTOI
	subTAB
	subTBA
	subIAB
	subSAZ
	subSAN
	subSAP
	subSBZ
	subSBN
	subSBP
	subSLS
	subSRS
	subSLD
	subSRD
	subFRL
	subTXA
	subTAX
	subINX
	subDEX
)

// execAug00 dispatches an opcode-0 instruction and returns its PC step.
func (c *CPU) execAug00() step {
	ir := c.IR
	subop := ir & 0x3F
	count := uint(ir>>6) & 0xF

	switch subop {
	case subHLT:
		c.HaltRequested = true
		return stepJump // PC stays put; re-prefetching HLT itself

	case subRNA:
		if c.B&0x4000 != 0 {
			before := c.A
			after := before + 1
			c.OVF = before == -1 && after == 0
			c.SetA(after)
		}
		return stepNormal

	case subNEG:
		if c.A == -32768 {
			c.OVF = true
		} else {
			c.SetA(-c.A)
		}
		return stepNormal

	case subCSB:
		c.CF = c.B < 0
		return stepNormal

	case subSOF:
		if c.OVF {
			c.OVF = false
			return stepSkip1
		}
		return stepNormal

	case subCNS:
		raw := uint16(c.A)
		if raw&0x8000 != 0 {
			c.SetA(int16(-int32(raw & 0x7FFF)))
		}
		return stepNormal

	case subLOB:
		word := c.Mem.Read(c.PC + 1)
		c.SetPC(word & 0x7FFF)
		if c.TOI {
			c.DismissTOI()
		}
		return stepJump

	case subTOI:
		c.TOI = true
		return stepNormal

	case subTAB:
		c.SetB(c.A)
		return stepNormal
	case subTBA:
		c.SetA(c.B)
		return stepNormal
	case subIAB:
		a, b := c.A, c.B
		c.SetA(b)
		c.SetB(a)
		return stepNormal

	case subSAZ:
		return skipIf(c.A == 0)
	case subSAN:
		return skipIf(c.A < 0)
	case subSAP:
		return skipIf(c.A > 0)
	case subSBZ:
		return skipIf(c.B == 0)
	case subSBN:
		return skipIf(c.B < 0)
	case subSBP:
		return skipIf(c.B > 0)

	case subSLS:
		c.SetA(int16(uint16(c.A) << count))
		return stepNormal
	case subSRS:
		c.SetA(c.A >> count)
		return stepNormal
	case subSLD:
		c.setDoubleValue(c.doubleValue() << count)
		return stepNormal
	case subSRD:
		c.setDoubleValue(c.doubleValue() >> count)
		return stepNormal
	case subFRL:
		c.rotateFull(count)
		return stepNormal

	case subTXA:
		c.SetA(int16(c.X))
		return stepNormal
	case subTAX:
		c.X = uint16(c.A)
		return stepNormal
	case subINX:
		c.X++
		return stepNormal
	case subDEX:
		c.X--
		return stepNormal
	}
	return stepNormal
}

func skipIf(cond bool) step {
	if cond {
		return stepSkip1
	}
	return stepNormal
}

// doubleValue/setDoubleValue view A:B as the same 30-bit double-length
// accumulator MPY/DIV operate over (spec.md S8 scenario 5): A holds the
// high 16 bits, B's low 15 bits the low-order fraction.
func (c *CPU) doubleValue() int64 {
	return (int64(c.A) << 15) | int64(uint16(c.B)&0x7FFF)
}

func (c *CPU) setDoubleValue(v int64) {
	c.SetA(int16((v >> 15) & 0xFFFF))
	c.SetB(int16(v & 0x7FFF))
}

// rotateFull rotates the full 32-bit concatenation of A and B left by
// count, unlike the shift family which operates over the 30-bit
// double-length accumulator.
func (c *CPU) rotateFull(count uint) {
	rot := count % 32
	combined := uint32(uint16(c.A))<<16 | uint32(uint16(c.B))
	combined = (combined << rot) | (combined >> (32 - rot))
	c.SetA(int16(combined >> 16))
	c.SetB(int16(combined & 0xFFFF))
}
