// breakpoint.go - the debugger-facing control surface: arming
// breakpoints, and reacting to one firing with a halt and a decoded
// diagnostic (spec.md S4.1, S4.5).
//
// Grounded on debug_monitor.go's BreakpointEvent handling: a sink
// receives the bare event, decides whether to stop, and logs a
// human-readable line describing what fired and where.

package sel810

import "log"

// Debugger implements BreakSink over a CPU: every armed breakpoint
// firing halts the run-loop and logs a disassembled diagnostic line.
type Debugger struct {
	cpu    *CPU
	logger *log.Logger
}

// NewDebugger attaches a debugger to cpu's memory, replacing any
// previously installed sink.
func NewDebugger(cpu *CPU, logger *log.Logger) *Debugger {
	d := &Debugger{cpu: cpu, logger: logger}
	cpu.Mem.SetBreakSink(d)
	return d
}

// OnBreak implements BreakSink. It halts the executor and logs where
// and why (spec.md S4.1: breakpoints stop execution and describe
// themselves).
func (d *Debugger) OnBreak(ev BreakEvent) {
	d.cpu.HaltRequested = true
	if d.logger == nil {
		return
	}
	d.logger.Printf("breakpoint: %s at PC=%05o IR=%s", kindLabel(ev.Kind), d.cpu.PC, Disassemble(d.cpu.IR))
}

func kindLabel(k BreakKind) string {
	switch k {
	case BreakRead:
		return "read"
	case BreakWrite:
		return "write"
	case BreakRegA:
		return "reg A"
	case BreakRegB:
		return "reg B"
	case BreakRegIR:
		return "reg IR"
	case BreakRegPC:
		return "reg PC"
	default:
		return "unknown"
	}
}

// SetReadBreak arms (count>0 or -1) or disarms (count==0) a read
// breakpoint at addr.
func (d *Debugger) SetReadBreak(addr uint16, count int32) { d.cpu.Mem.SetReadBreak(addr, count) }

// SetWriteBreak arms or disarms a write breakpoint at addr.
func (d *Debugger) SetWriteBreak(addr uint16, count int32) { d.cpu.Mem.SetWriteBreak(addr, count) }

// SetRegBreak arms or disarms a value breakpoint on one of A, B, IR, PC.
func (d *Debugger) SetRegBreak(kind BreakKind, value uint16, on bool) {
	switch kind {
	case BreakRegA:
		d.cpu.Mem.SetRegABreak(value, on)
	case BreakRegB:
		d.cpu.Mem.SetRegBBreak(value, on)
	case BreakRegIR:
		d.cpu.Mem.SetRegIRBreak(value, on)
	case BreakRegPC:
		d.cpu.Mem.SetRegPCBreak(value, on)
	}
}

// ClearAll disarms every memory and register-value breakpoint.
func (d *Debugger) ClearAll() { d.cpu.Mem.ClearAllBreaks() }

var mrefMnemonic = map[uint16]string{
	1: "LAA", 2: "LBA", 3: "STA", 4: "STB", 5: "AMA", 6: "SMA",
	7: "MPY", 8: "DIV", 9: "BRU", 10: "SPB", 12: "IMS", 13: "CMA", 14: "AMB",
}

var aug00Mnemonic = map[uint16]string{
	subHLT: "HLT", subRNA: "RNA", subNEG: "NEG", subCSB: "CSB", subSOF: "SOF",
	subCNS: "CNS", subLOB: "LOB", subTOI: "TOI", subTAB: "TAB", subTBA: "TBA",
	subIAB: "IAB", subSAZ: "SAZ", subSAN: "SAN", subSAP: "SAP", subSBZ: "SBZ",
	subSBN: "SBN", subSBP: "SBP", subSLS: "SLS", subSRS: "SRS", subSLD: "SLD",
	subSRD: "SRD", subFRL: "FRL", subTXA: "TXA", subTAX: "TAX", subINX: "INX",
	subDEX: "DEX",
}

var aug13Mnemonic = map[uint16]string{ioCEU: "CEU", ioTEU: "TEU", ioSNS: "SNS", ioPIE: "PIE", ioPID: "PID"}
var aug17Mnemonic = map[uint16]string{ioAOP: "AOP", ioAIP: "AIP", ioMOP: "MOP", ioMIP: "MIP"}

// Disassemble decodes ir into a short mnemonic, for diagnostics only -
// it never reads memory or touches machine state.
func Disassemble(ir uint16) string {
	op := opcode(ir)
	switch op {
	case 0:
		if name, ok := aug00Mnemonic[ir&0x3F]; ok {
			return name
		}
		return "NOP"
	case 11:
		f := decodeIO(ir)
		if name, ok := aug13Mnemonic[f.op]; ok {
			return name
		}
		return "NOP"
	case 15:
		f := decodeIO(ir)
		if name, ok := aug17Mnemonic[f.op]; ok {
			return name
		}
		return "NOP"
	default:
		if name, ok := mrefMnemonic[op]; ok {
			return name
		}
		return "???"
	}
}
