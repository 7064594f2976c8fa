// Package fakeproc is an in-memory address.ProcessAccess used to build the
// synthetic target-memory fixtures the end-to-end scenario tests rely on.
// It is test scaffolding, never linked into the library proper.
package fakeproc

import (
	"fmt"

	"github.com/unityscope/monowalk/address"
)

// Module describes one loaded module's mapped image.
type Module struct {
	Name string
	Base address.Address64
	Size uint64
}

// Process is a flat byte-addressable memory space plus a module table,
// standing in for a real target process in tests.
type Process struct {
	modules []Module
	mem     map[address.Address64][]byte
}

// New returns an empty Process with no modules or mapped memory.
func New() *Process {
	return &Process{mem: make(map[address.Address64][]byte)}
}

// AddModule registers a loaded module's base address and size.
func (p *Process) AddModule(name string, base address.Address64, size uint64) {
	p.modules = append(p.modules, Module{Name: name, Base: base, Size: size})
}

// WriteAt stores buf as the bytes at addr, for later ReadBytes calls.
func (p *Process) WriteAt(addr address.Address64, buf []byte) {
	p.mem[addr] = buf
}

// GetModuleAddress implements address.ProcessAccess.
func (p *Process) GetModuleAddress(name string) (address.Address64, error) {
	for _, m := range p.modules {
		if m.Name == name {
			return m.Base, nil
		}
	}
	return 0, fmt.Errorf("fakeproc: module %q not loaded", name)
}

// GetModuleRange implements address.ProcessAccess.
func (p *Process) GetModuleRange(name string) (address.Range, error) {
	for _, m := range p.modules {
		if m.Name == name {
			return address.Range{Base: m.Base, Size: m.Size}, nil
		}
	}
	return address.Range{}, fmt.Errorf("fakeproc: module %q not loaded", name)
}

// ReadBytes implements address.ProcessAccess. It serves only bytes that
// were explicitly written with WriteAt, reconstructing them byte-by-byte
// from any overlapping writes so tests can lay out structs independently
// of one another at nearby addresses.
func (p *Process) ReadBytes(addr address.Address64, size int) ([]byte, error) {
	out := make([]byte, size)
	filled := make([]bool, size)
	remaining := size
	for base, buf := range p.mem {
		for i, b := range buf {
			at := base.Add(uint64(i))
			if at < addr || at >= addr.Add(uint64(size)) {
				continue
			}
			idx := int(at - addr)
			if !filled[idx] {
				filled[idx] = true
				out[idx] = b
				remaining--
			}
		}
	}
	if remaining > 0 {
		return nil, fmt.Errorf("fakeproc: unmapped byte in read [%s, %s)", addr, addr.Add(uint64(size)))
	}
	return out, nil
}
