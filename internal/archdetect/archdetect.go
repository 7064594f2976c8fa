// Package archdetect reads a loaded PE module's COFF file header to
// classify it as x86 or x64, the other half of the "out of scope" host
// utilities the version detector is built against.
package archdetect

import (
	"encoding/binary"
	"fmt"

	"github.com/unityscope/monowalk/address"
)

// Machine is a simplified target architecture classification.
type Machine int

const (
	// Unknown covers any COFF machine type this library has no use for.
	Unknown Machine = iota
	X86
	X64
)

func (m Machine) String() string {
	switch m {
	case X86:
		return "x86"
	case X64:
		return "x64"
	default:
		return "unknown"
	}
}

const (
	imageFileMachineI386  = 0x14c
	imageFileMachineAMD64 = 0x8664
)

// Detector resolves a loaded module's machine type.
type Detector interface {
	MachineType(base address.Address64) (Machine, error)
}

// PECoffDetector is the reference Detector: it reads the COFF file
// header's Machine field directly out of target memory.
type PECoffDetector struct {
	Process address.ProcessAccess
}

// MachineType reads base+e_lfanew+4 (the IMAGE_FILE_HEADER.Machine field,
// immediately after the 4-byte "PE\0\0" signature).
func (d PECoffDetector) MachineType(base address.Address64) (Machine, error) {
	peStartBuf, err := d.Process.ReadBytes(base.Add(0x3C), 4)
	if err != nil {
		return Unknown, fmt.Errorf("archdetect: read e_lfanew: %w", err)
	}
	peStart := binary.LittleEndian.Uint32(peStartBuf)

	machineBuf, err := d.Process.ReadBytes(base.Add(uint64(peStart)).Add(4), 2)
	if err != nil {
		return Unknown, fmt.Errorf("archdetect: read COFF machine field: %w", err)
	}
	switch binary.LittleEndian.Uint16(machineBuf) {
	case imageFileMachineI386:
		return X86, nil
	case imageFileMachineAMD64:
		return X64, nil
	default:
		return Unknown, nil
	}
}
