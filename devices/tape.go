// tape.go - a paper-tape reader/punch: a byte-pair image, read or
// written two bytes (one word) at a time. Punching is always ready;
// reading is ready while a full word remains.
//
// Grounded on loader.go's big-endian byte-pair convention: the tape
// image uses the same word encoding the loader expects a program
// binary to use.

package devices

import "sync"

// Tape is a sel810.Peripheral backed by an in-memory byte-pair
// image. Read advances a cursor through image; Write appends to it.
// Command rewinds the cursor to 0. It never interrupts: tape readiness
// does not model a real reader's mechanical lag.
type Tape struct {
	mu     sync.Mutex
	image  []byte
	cursor int
}

// NewTape returns a tape loaded with image (copied).
func NewTape(image []byte) *Tape {
	t := &Tape{image: append([]byte(nil), image...)}
	return t
}

// Image returns a copy of the current tape contents, for tests that
// punch and then re-read.
func (t *Tape) Image() []byte {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]byte(nil), t.image...)
}

func (t *Tape) TestReady(uint16) bool { return true }
func (t *Tape) Test(uint16) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cursor < len(t.image)
}

func (t *Tape) CommandReady() bool { return true }

// Command rewinds the tape to the start (cmd is ignored; the SEL 810A
// has no other tape commands to model).
func (t *Tape) Command(uint16) bool {
	t.mu.Lock()
	t.cursor = 0
	t.mu.Unlock()
	return true
}

func (t *Tape) ReadReady() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cursor+1 < len(t.image)
}

func (t *Tape) Read() (bool, uint16) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cursor+1 >= len(t.image) {
		return false, 0
	}
	word := uint16(t.image[t.cursor])<<8 | uint16(t.image[t.cursor+1])
	t.cursor += 2
	return true, word
}

func (t *Tape) WriteReady() bool { return true }

func (t *Tape) Write(word uint16) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.image = append(t.image, byte(word>>8), byte(word))
	return true
}

func (t *Tape) InterruptLines() (lines [9]uint16, ok bool) { return lines, false }

func (t *Tape) Exit() {}
