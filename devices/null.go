// null.go - the no-op peripheral: always ready, never interrupts.
//
// Grounded on component_reset.go's Reset() convention: a device that
// does nothing still satisfies the full lifecycle surface cleanly.

package devices

// Null is always ready and discards every command and word. It occupies
// a unit number during tests and for configured units of kind "null"
// (or no kind); units with nothing attached are not given one.
type Null struct{}

func (Null) TestReady(uint16) bool  { return true }
func (Null) Test(uint16) bool       { return true }
func (Null) CommandReady() bool     { return true }
func (Null) Command(uint16) bool    { return true }
func (Null) ReadReady() bool        { return true }
func (Null) Read() (bool, uint16)   { return true, 0 }
func (Null) WriteReady() bool       { return true }
func (Null) Write(uint16) bool      { return true }
func (Null) InterruptLines() (lines [9]uint16, ok bool) { return lines, false }
func (Null) Exit()                  {}
