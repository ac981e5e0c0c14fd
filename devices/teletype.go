// teletype.go - an ASR-33-style console: one word in, one byte out,
// with an interrupt line raised while input is pending.
//
// Grounded on the atomic-readiness idiom used throughout the teacher's
// CPU workers (cpu_six5go2.go's running/irqPending/nmiPending fields):
// a mutex guards the mutable input queue, an atomic.Bool publishes
// readiness lock-free to the I/O arbiter's poll loop.

package devices

import (
	"io"
	"sync"
	"sync/atomic"
)

// Teletype is a sel810.Peripheral: Write takes the low byte of
// each word as an output character; Read drains one buffered input
// word at a time. It raises an interrupt on the configured group/bit
// while input is queued.
type Teletype struct {
	out io.Writer

	group, bit int

	mu    sync.Mutex
	inbox []uint16
	ready atomic.Bool

	exited atomic.Bool
}

// NewTeletype returns a console that writes output to out and raises
// interrupts on (group, bit) while input is pending.
func NewTeletype(group, bit int, out io.Writer) *Teletype {
	return &Teletype{out: out, group: group, bit: bit}
}

// Feed queues one input word, as if a key had been struck. Safe to call
// from any goroutine (the front panel or a test harness).
func (t *Teletype) Feed(word uint16) {
	t.mu.Lock()
	t.inbox = append(t.inbox, word)
	t.mu.Unlock()
	t.ready.Store(true)
}

func (t *Teletype) TestReady(uint16) bool { return true }
func (t *Teletype) Test(uint16) bool      { return t.ready.Load() }

func (t *Teletype) CommandReady() bool  { return true }
func (t *Teletype) Command(uint16) bool { return true }

func (t *Teletype) ReadReady() bool { return t.ready.Load() }

func (t *Teletype) Read() (bool, uint16) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.inbox) == 0 {
		t.ready.Store(false)
		return false, 0
	}
	word := t.inbox[0]
	t.inbox = t.inbox[1:]
	if len(t.inbox) == 0 {
		t.ready.Store(false)
	}
	return true, word
}

func (t *Teletype) WriteReady() bool { return !t.exited.Load() }

func (t *Teletype) Write(word uint16) bool {
	if t.exited.Load() {
		return false
	}
	_, err := t.out.Write([]byte{byte(word)})
	return err == nil
}

// InterruptLines raises (group, bit) while input is queued.
func (t *Teletype) InterruptLines() (lines [9]uint16, ok bool) {
	if t.ready.Load() {
		lines[t.group] = 1 << uint(t.bit)
		return lines, true
	}
	return lines, false
}

func (t *Teletype) Exit() { t.exited.Store(true) }
