package scan

import "github.com/unityscope/monowalk/address"

// Scanner finds the first occurrence of a byte pattern within a buffer.
// This is the "treated as a utility" collaborator the walkers are built
// against — a host may swap in a SIMD-accelerated scanner without the
// walkers changing.
type Scanner interface {
	Find(buf []byte, pattern []PatternByte) (offset int, ok bool)
}

// Linear is the reference Scanner: a forward, non-overlapping byte-by-byte
// search. Correct for every signature in the catalog; a host under real
// scan-volume pressure can replace it with a Boyer-Moore-style variant
// without touching any walker.
type Linear struct{}

// Find returns the offset of the first match, scanning forward from 0.
func (Linear) Find(buf []byte, pattern []PatternByte) (int, bool) {
	if len(pattern) == 0 || len(pattern) > len(buf) {
		return 0, false
	}
	last := len(buf) - len(pattern)
	for i := 0; i <= last; i++ {
		if matchAt(buf, pattern, i) {
			return i, true
		}
	}
	return 0, false
}

func matchAt(buf []byte, pattern []PatternByte, at int) bool {
	for j, pb := range pattern {
		if !pb.Matches(buf[at+j]) {
			return false
		}
	}
	return true
}

// Region scans a single contiguous read of target memory for pattern,
// returning the absolute address of the first match.
func Region(proc address.ProcessAccess, scanner Scanner, base address.Address64, size int, pattern []PatternByte) (address.Address64, bool, error) {
	buf, err := proc.ReadBytes(base, size)
	if err != nil {
		return 0, false, err
	}
	off, ok := scanner.Find(buf, pattern)
	if !ok {
		return 0, false, nil
	}
	return base.Add(uint64(off)), true, nil
}
