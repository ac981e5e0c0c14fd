// loader.go - loads a big-endian byte-pair program image into core
// memory, wrapping at the 32768-word boundary (spec.md S4.7).
//
// Grounded on component_reset.go's narrow, single-purpose lifecycle
// routines: one function, one job, no surrounding ceremony.

package loader

import (
	"fmt"

	"github.com/intuitionamiga/sel810/sel810"
)

// Load decodes image as big-endian 16-bit words and writes them into
// mem starting at origin, wrapping the address at sel810.MemSize
// (spec.md S4.7: "a program that runs off the end of the address space
// wraps, it is not an error"). An odd-length image is an error: every
// word in the format is exactly two bytes.
func Load(mem *sel810.Memory, origin uint16, image []byte) error {
	if len(image)%2 != 0 {
		return fmt.Errorf("loader: odd-length image (%d bytes)", len(image))
	}
	addr := origin
	for i := 0; i < len(image); i += 2 {
		word := uint16(image[i])<<8 | uint16(image[i+1])
		mem.Write(addr, word)
		addr = (addr + 1) & sel810.AddrMask
	}
	return nil
}

// Dump reads count words starting at origin back out as a big-endian
// byte-pair image, the inverse of Load - used by tests that load, run,
// and verify memory contents, and by a punch-style peripheral image
// export.
func Dump(mem *sel810.Memory, origin uint16, count int) []byte {
	out := make([]byte, 0, count*2)
	addr := origin
	for i := 0; i < count; i++ {
		word := mem.Read(addr)
		out = append(out, byte(word>>8), byte(word))
		addr = (addr + 1) & sel810.AddrMask
	}
	return out
}
