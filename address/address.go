// Package address provides width-parameterized absolute addresses and
// typed pointers into a target process's address space.
//
// Two address families exist — Address32 and Address64 — one per word
// size a monitored Mono/IL2CPP runtime can use. Arithmetic on either is
// unsigned and wraps, matching the target's own pointer arithmetic; no
// family is convertible into the other without an explicit widen/narrow,
// since mixing them silently is almost always a bug at a variant boundary.
package address

import "fmt"

// Address32 is an absolute address in a 32-bit target.
type Address32 uint32

// Address64 is an absolute address in a 64-bit target.
type Address64 uint64

// IsNull reports whether the address is the null pointer.
func (a Address32) IsNull() bool { return a == 0 }

// IsNull reports whether the address is the null pointer.
func (a Address64) IsNull() bool { return a == 0 }

// Add returns a + n, wrapping on overflow.
func (a Address32) Add(n uint32) Address32 { return a + Address32(n) }

// Add returns a + n, wrapping on overflow.
func (a Address64) Add(n uint64) Address64 { return a + Address64(n) }

// AddSigned returns a + n, where n may be negative (e.g. a RIP-relative
// displacement), wrapping on overflow.
func (a Address32) AddSigned(n int32) Address32 { return a + Address32(n) }

// AddSigned returns a + n, where n may be negative, wrapping on overflow.
func (a Address64) AddSigned(n int64) Address64 { return a + Address64(n) }

// Widen promotes a 32-bit address to 64-bit, for hosts that keep module
// base addresses in a uniform 64-bit form regardless of target bitness.
func (a Address32) Widen() Address64 { return Address64(a) }

func (a Address32) String() string { return fmt.Sprintf("0x%x", uint32(a)) }
func (a Address64) String() string { return fmt.Sprintf("0x%x", uint64(a)) }

// Range describes a contiguous span of target memory, e.g. a loaded
// module's mapped image. Size is in bytes.
type Range struct {
	Base Address64
	Size uint64
}

// Contains reports whether addr falls within the range.
func (r Range) Contains(addr Address64) bool {
	return addr >= r.Base && addr < r.Base+Address64(r.Size)
}
