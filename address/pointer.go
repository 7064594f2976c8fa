package address

import "unsafe"

// CStr is a phantom element type marking a pointer as pointing at a
// NUL-terminated byte string rather than a POD struct. It is never
// instantiated; only used as Pointer64[CStr] / Pointer32[CStr].
type CStr struct{}

// CStringWindow is the fixed read window used for all C-string comparisons.
// Names longer than this are truncated for comparison purposes — this is a
// deliberate bound on per-lookup syscall cost, not a correctness bug.
const CStringWindow = 128

// Pointer64 is an absolute 64-bit address plus a compile-time element type
// used to scale offsets and type the result of Read/Index.
type Pointer64[T any] struct {
	Addr Address64
}

// NewPointer64 wraps a raw address as a typed pointer.
func NewPointer64[T any](addr Address64) Pointer64[T] { return Pointer64[T]{Addr: addr} }

// Get returns the untyped address.
func (p Pointer64[T]) Get() Address64 { return p.Addr }

// IsNull reports whether the pointer is null.
func (p Pointer64[T]) IsNull() bool { return p.Addr.IsNull() }

// sizeOfT returns sizeof(T) the way the target's compiler would lay it
// out — the Go struct tagged onto T must reproduce the target's layout
// field-for-field (see each walker package's struct definitions).
func sizeOfT[T any]() uint64 {
	var zero T
	return uint64(unsafe.Sizeof(zero))
}

// Offset returns a pointer n elements of T further along, i.e.
// addr + n*sizeof(T).
func (p Pointer64[T]) Offset(n int64) Pointer64[T] {
	return Pointer64[T]{Addr: p.Addr.AddSigned(n * int64(sizeOfT[T]()))}
}

// ByteOffset returns a pointer n bytes further along, regardless of T's size.
func (p Pointer64[T]) ByteOffset(n int64) Pointer64[T] {
	return Pointer64[T]{Addr: p.Addr.AddSigned(n)}
}

// CastPointer64 reinterprets a pointer's element type. Used where the
// target's own layout aliases a field (e.g. retyping a raw MonoPtr64 to
// MonoPtr64<MonoVTable> after arithmetic that only makes sense untyped).
func CastPointer64[U, T any](p Pointer64[T]) Pointer64[U] {
	return Pointer64[U]{Addr: p.Addr}
}

// Read dereferences the pointer, decoding sizeof(T) bytes at its address.
func (p Pointer64[T]) Read(proc ProcessAccess) (T, error) {
	return ReadValue64[T](proc, p.Addr)
}

// Index reads the i'th element of T starting at the pointer's address,
// i.e. the same bytes as p.Offset(i).Read(proc).
func (p Pointer64[T]) Index(proc ProcessAccess, i int) (T, error) {
	return p.Offset(int64(i)).Read(proc)
}

// ReadStr reads the fixed C-string window at the pointer's address and
// returns it NUL-truncated. Only meaningful for Pointer64[CStr].
func (p Pointer64[T]) ReadStr(proc ProcessAccess) (string, error) {
	buf, err := proc.ReadBytes(p.Addr, CStringWindow)
	if err != nil {
		return "", err
	}
	return truncateAtNUL(buf), nil
}

// Pointer32 is the 32-bit sibling of Pointer64. Duplicated rather than
// parameterized over width: the struct layouts the two address an entirely
// different set of target binaries (32-bit Mono vs. everything else), and
// sharing code across that boundary buys nothing but a generic-over-width
// type param neither family actually needs.
type Pointer32[T any] struct {
	Addr Address32
}

// NewPointer32 wraps a raw address as a typed pointer.
func NewPointer32[T any](addr Address32) Pointer32[T] { return Pointer32[T]{Addr: addr} }

// Get returns the untyped address.
func (p Pointer32[T]) Get() Address32 { return p.Addr }

// IsNull reports whether the pointer is null.
func (p Pointer32[T]) IsNull() bool { return p.Addr.IsNull() }

// Offset returns a pointer n elements of T further along.
func (p Pointer32[T]) Offset(n int32) Pointer32[T] {
	return Pointer32[T]{Addr: p.Addr.AddSigned(n * int32(sizeOfT[T]()))}
}

// ByteOffset returns a pointer n bytes further along.
func (p Pointer32[T]) ByteOffset(n int32) Pointer32[T] {
	return Pointer32[T]{Addr: p.Addr.AddSigned(n)}
}

// CastPointer32 reinterprets a pointer's element type.
func CastPointer32[U, T any](p Pointer32[T]) Pointer32[U] {
	return Pointer32[U]{Addr: p.Addr}
}

// Read dereferences the pointer, decoding sizeof(T) bytes at its address.
func (p Pointer32[T]) Read(proc ProcessAccess) (T, error) {
	return ReadValue32[T](proc, p.Addr)
}

// Index reads the i'th element of T starting at the pointer's address.
func (p Pointer32[T]) Index(proc ProcessAccess, i int) (T, error) {
	return p.Offset(int32(i)).Read(proc)
}

// ReadStr reads the fixed C-string window at the pointer's address and
// returns it NUL-truncated. Only meaningful for Pointer32[CStr].
func (p Pointer32[T]) ReadStr(proc ProcessAccess) (string, error) {
	buf, err := ReadBytesAt(proc, p.Addr, CStringWindow)
	if err != nil {
		return "", err
	}
	return truncateAtNUL(buf), nil
}

// truncateAtNUL returns buf up to (not including) the first 0x00 byte, or
// the whole slice if none is present. Implementations must not depend on a
// NUL being present within the window.
func truncateAtNUL(buf []byte) string {
	for i, b := range buf {
		if b == 0 {
			return string(buf[:i])
		}
	}
	return string(buf)
}

// ReadValue64 decodes a value of type T from size-of(T) bytes read at addr.
// T must be a fixed-layout (no pointers/slices/strings) struct whose Go
// field order and padding reproduce the target's C layout exactly.
func ReadValue64[T any](proc ProcessAccess, addr Address64) (T, error) {
	var zero T
	size := int(sizeOfT[T]())
	buf, err := proc.ReadBytes(addr, size)
	if err != nil {
		return zero, err
	}
	return decodePOD[T](buf)
}

// ReadValue32 is the 32-bit sibling of ReadValue64.
func ReadValue32[T any](proc ProcessAccess, addr Address32) (T, error) {
	var zero T
	size := int(sizeOfT[T]())
	buf, err := ReadBytesAt(proc, addr, size)
	if err != nil {
		return zero, err
	}
	return decodePOD[T](buf)
}

// decodePOD reinterprets buf as a T. buf must be at least sizeof(T) bytes;
// ReadValue32/64 guarantee this by construction.
func decodePOD[T any](buf []byte) (T, error) {
	var out T
	size := int(unsafe.Sizeof(out))
	if len(buf) < size {
		return out, errShortRead{want: size, got: len(buf)}
	}
	out = *(*T)(unsafe.Pointer(&buf[0]))
	return out, nil
}

type errShortRead struct{ want, got int }

func (e errShortRead) Error() string {
	return "address: short read decoding POD value"
}
