// peripheral.go - peripheral capability set and attachment table.
//
// Grounded on debug_interface.go's DebuggableCPU: a single fixed-shape
// capability interface that every concrete device satisfies, so the core
// dispatches over one surface regardless of what's on the other end.

package sel810

import "sync"

// Peripheral is the capability set every attached device must implement
// (spec.md S6). An InterruptLines result with ok=false means the device
// never interrupts.
type Peripheral interface {
	TestReady(cmd uint16) bool
	Test(cmd uint16) bool

	CommandReady() bool
	Command(cmd uint16) bool

	ReadReady() bool
	Read() (bool, uint16)

	WriteReady() bool
	Write(word uint16) bool

	// InterruptLines returns a 9-slot vector of 12-bit request masks
	// (groups 0-7 plus one reserved slot), or ok=false if this device
	// never raises interrupts.
	InterruptLines() (lines [9]uint16, ok bool)

	Exit()
}

// PeripheralTable is an indexed sparse map from unit id (0-63) to a
// peripheral handle, guarded by a single coarse lock (spec.md S5: "The
// peripheral table is guarded by a single coarse lock; table entries
// are swapped wholesale on attach/detach").
type PeripheralTable struct {
	mu    sync.Mutex
	units map[int]Peripheral
}

// NewPeripheralTable returns an empty table.
func NewPeripheralTable() *PeripheralTable {
	return &PeripheralTable{units: make(map[int]Peripheral)}
}

// Lookup returns the peripheral attached at unit, or nil if none.
func (t *PeripheralTable) Lookup(unit int) Peripheral {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.units[unit]
}

// Attach installs dev at unit, releasing any previously attached
// peripheral exactly once (spec.md S3: "on detach the old handle is
// released exactly once").
func (t *PeripheralTable) Attach(unit int, dev Peripheral) {
	t.mu.Lock()
	old := t.units[unit]
	t.units[unit] = dev
	t.mu.Unlock()

	if old != nil {
		old.Exit()
	}
}

// Detach removes and releases the peripheral at unit, if any.
func (t *PeripheralTable) Detach(unit int) {
	t.mu.Lock()
	old := t.units[unit]
	delete(t.units, unit)
	t.mu.Unlock()

	if old != nil {
		old.Exit()
	}
}

// Units returns the currently attached unit ids, for interrupt
// aggregation and teardown.
func (t *PeripheralTable) Units() []int {
	t.mu.Lock()
	defer t.mu.Unlock()
	ids := make([]int, 0, len(t.units))
	for id := range t.units {
		ids = append(ids, id)
	}
	return ids
}

// All returns a snapshot of the attached peripherals, for interrupt
// aggregation and teardown, without holding the table lock while the
// caller operates on them.
func (t *PeripheralTable) All() map[int]Peripheral {
	t.mu.Lock()
	defer t.mu.Unlock()
	snap := make(map[int]Peripheral, len(t.units))
	for id, dev := range t.units {
		snap[id] = dev
	}
	return snap
}
