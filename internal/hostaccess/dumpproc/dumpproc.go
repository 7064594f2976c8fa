// Package dumpproc implements address.ProcessAccess by replaying a
// previously captured memory-mapped dump of a target process, for offline
// analysis and regression fixtures captured from a real run. The dump file
// is mmap'd rather than read wholesale, so large dumps (multi-gigabyte
// Unity processes) don't need to fit in the host's heap at once.
package dumpproc

import (
	"encoding/binary"
	"fmt"
	"os"
	"sort"

	"github.com/edsrzf/mmap-go"

	"github.com/unityscope/monowalk/address"
)

// segment is one contiguous mapped region recorded in the dump's manifest.
type segment struct {
	moduleName string
	base       address.Address64
	fileOffset int64
	size       uint64
}

// Process serves reads from an mmap'd dump file plus its segment manifest.
type Process struct {
	file     *os.File
	data     mmap.MMap
	segments []segment
}

// Open maps path read-only and parses its segment manifest. The manifest
// format is a simple fixed-record table: a uint32 segment count, then per
// segment a 64-byte NUL-padded module name, a uint64 base address, a
// uint64 file offset, and a uint64 size, all little-endian.
func Open(path string) (*Process, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	data, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("dumpproc: mmap %s: %w", path, err)
	}
	p := &Process{file: f, data: data}
	if err := p.parseManifest(); err != nil {
		p.Close()
		return nil, err
	}
	return p, nil
}

const segmentRecordSize = 64 + 8 + 8 + 8

func (p *Process) parseManifest() error {
	if len(p.data) < 4 {
		return fmt.Errorf("dumpproc: truncated manifest header")
	}
	count := binary.LittleEndian.Uint32(p.data[:4])
	off := 4
	for i := uint32(0); i < count; i++ {
		if off+segmentRecordSize > len(p.data) {
			return fmt.Errorf("dumpproc: truncated manifest record %d", i)
		}
		rec := p.data[off : off+segmentRecordSize]
		name := string(rec[:64])
		for j, b := range rec[:64] {
			if b == 0 {
				name = string(rec[:j])
				break
			}
		}
		base := binary.LittleEndian.Uint64(rec[64:72])
		fileOff := binary.LittleEndian.Uint64(rec[72:80])
		size := binary.LittleEndian.Uint64(rec[80:88])
		p.segments = append(p.segments, segment{
			moduleName: name,
			base:       address.Address64(base),
			fileOffset: int64(fileOff),
			size:       size,
		})
		off += segmentRecordSize
	}
	sort.Slice(p.segments, func(i, j int) bool { return p.segments[i].base < p.segments[j].base })
	return nil
}

// Close unmaps the dump and releases the underlying file handle.
func (p *Process) Close() error {
	if p.data != nil {
		p.data.Unmap()
	}
	return p.file.Close()
}

// GetModuleAddress implements address.ProcessAccess.
func (p *Process) GetModuleAddress(name string) (address.Address64, error) {
	for _, s := range p.segments {
		if s.moduleName == name {
			return s.base, nil
		}
	}
	return 0, fmt.Errorf("dumpproc: module %q not present in dump", name)
}

// GetModuleRange implements address.ProcessAccess.
func (p *Process) GetModuleRange(name string) (address.Range, error) {
	for _, s := range p.segments {
		if s.moduleName == name {
			return address.Range{Base: s.base, Size: s.size}, nil
		}
	}
	return address.Range{}, fmt.Errorf("dumpproc: module %q not present in dump", name)
}

// ReadBytes implements address.ProcessAccess, resolving addr against the
// segment whose range contains it and slicing directly into the mmap.
func (p *Process) ReadBytes(addr address.Address64, size int) ([]byte, error) {
	for _, s := range p.segments {
		rng := address.Range{Base: s.base, Size: s.size}
		if !rng.Contains(addr) {
			continue
		}
		delta := int64(addr - s.base)
		start := s.fileOffset + delta
		end := start + int64(size)
		if end > int64(len(p.data)) {
			return nil, fmt.Errorf("dumpproc: read past end of dump at %s", addr)
		}
		out := make([]byte, size)
		copy(out, p.data[start:end])
		return out, nil
	}
	return nil, fmt.Errorf("dumpproc: address %s not covered by any segment", addr)
}
