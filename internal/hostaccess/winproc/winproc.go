//go:build windows

// Package winproc implements address.ProcessAccess against a live Windows
// process via ReadProcessMemory and the PSAPI module-enumeration calls. It
// is the only hostaccess implementation usable against a running game; the
// others exist for tests and offline analysis.
package winproc

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/unityscope/monowalk/address"
)

const (
	processQueryInformation = 0x0400
	processVMRead           = 0x0010
)

// Process reads another process's memory by PID. Construction opens a
// handle with PROCESS_QUERY_INFORMATION|PROCESS_VM_READ; Close releases it.
type Process struct {
	pid    uint32
	handle windows.Handle
}

// Open acquires a read-only handle to the process identified by pid.
func Open(pid uint32) (*Process, error) {
	h, err := windows.OpenProcess(processQueryInformation|processVMRead, false, pid)
	if err != nil {
		return nil, fmt.Errorf("winproc: OpenProcess(%d): %w", pid, err)
	}
	return &Process{pid: pid, handle: h}, nil
}

// Close releases the process handle.
func (p *Process) Close() error {
	return windows.CloseHandle(p.handle)
}

// GetModuleAddress implements address.ProcessAccess via EnumProcessModules
// plus GetModuleBaseName, matching module names case- and
// extension-sensitively as the spec requires.
func (p *Process) GetModuleAddress(name string) (address.Address64, error) {
	base, _, err := p.findModule(name)
	return base, err
}

// GetModuleRange implements address.ProcessAccess, additionally resolving
// the module's mapped image size via GetModuleInformation.
func (p *Process) GetModuleRange(name string) (address.Range, error) {
	base, size, err := p.findModule(name)
	if err != nil {
		return address.Range{}, err
	}
	return address.Range{Base: base, Size: size}, nil
}

// ReadBytes reads size bytes at addr via ReadProcessMemory.
func (p *Process) ReadBytes(addr address.Address64, size int) ([]byte, error) {
	buf := make([]byte, size)
	var nread uintptr
	err := windows.ReadProcessMemory(p.handle, uintptr(addr), &buf[0], uintptr(size), &nread)
	if err != nil {
		return nil, fmt.Errorf("winproc: ReadProcessMemory at %s: %w", addr, err)
	}
	if int(nread) != size {
		return nil, fmt.Errorf("winproc: short read at %s: got %d of %d bytes", addr, nread, size)
	}
	return buf, nil
}

// findModule enumerates the process's loaded modules, returning the base
// address and mapped size of the first one whose base name matches name.
func (p *Process) findModule(name string) (address.Address64, uint64, error) {
	const maxModules = 1024
	var modules [maxModules]windows.Handle
	var needed uint32
	err := windows.EnumProcessModules(p.handle, &modules[0], uint32(len(modules)*int(unsafe.Sizeof(modules[0]))), &needed)
	if err != nil {
		return 0, 0, fmt.Errorf("winproc: EnumProcessModules: %w", err)
	}
	count := int(needed) / int(unsafe.Sizeof(modules[0]))
	for i := 0; i < count; i++ {
		var nameBuf [windows.MAX_PATH]uint16
		n, err := windows.GetModuleBaseName(p.handle, modules[i], &nameBuf[0], uint32(len(nameBuf)))
		if err != nil || n == 0 {
			continue
		}
		if windows.UTF16ToString(nameBuf[:n]) != name {
			continue
		}
		var info windows.ModuleInfo
		if err := windows.GetModuleInformation(p.handle, modules[i], &info, uint32(unsafe.Sizeof(info))); err != nil {
			return 0, 0, fmt.Errorf("winproc: GetModuleInformation(%s): %w", name, err)
		}
		return address.Address64(info.BaseOfDll), uint64(info.SizeOfImage), nil
	}
	return 0, 0, fmt.Errorf("winproc: module %q not loaded", name)
}
