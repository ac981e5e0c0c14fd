// exec.go - the CPU: register file, interrupt engine and peripheral
// access composed behind one fetch/decode/execute/prefetch step.
//
// Grounded on program_executor.go's single ExecuteOne-style entry point
// that the run-loop calls once per tick, with CF-clearing and the
// post-step prefetch handled as fixed bracketing around the dispatch.

package sel810

// CPU composes the register file, interrupt engine and peripheral
// table into the single step primitive the run-loop drives (spec.md
// S4.2, S4.4, S5).
type CPU struct {
	*Machine
	*Interrupts
	Peripherals *PeripheralTable
	IO          *IOArbiter

	// HaltRequested is set by HLT. Only the executor writes it; the
	// run-loop reads it after Step returns and clears it once handled.
	HaltRequested bool
}

// NewCPU wires a fresh machine, interrupt engine, peripheral table and
// I/O arbiter together.
func NewCPU() *CPU {
	table := NewPeripheralTable()
	return &CPU{
		Machine:     NewMachine(),
		Interrupts:  NewInterrupts(),
		Peripherals: table,
		IO:          NewIOArbiter(table),
	}
}

// Step executes exactly one instruction: dispatch on the current IR,
// apply the carry-flag discipline (spec.md S3: "CF set only by CSB and
// cleared by every opcode except MPY"), advance PC by the instruction's
// step, and prefetch the next IR. It does not run the interrupt engine
// - the run-loop calls Interrupts.Step separately between instructions
// so that breakpoints on the dispatch target fire correctly either way.
func (c *CPU) Step() {
	ir := c.IR
	op := opcode(ir)
	var s step

	switch op {
	case 0:
		s = c.execAug00()
	case 11:
		s = c.execAug13()
	case 15:
		s = c.execAug17()
	default:
		s = c.execMemRef(op)
	}

	setsCF := op == 0 && ir&0x3F == subCSB
	preservesCF := op == 7
	if !setsCF && !preservesCF {
		c.CF = false
	}

	if s != stepJump {
		c.SetPC(c.PC + uint16(s))
	}
	c.Prefetch()
}
