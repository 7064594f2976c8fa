package archdetect

import (
	"encoding/binary"
	"testing"

	"github.com/unityscope/monowalk/address"
	"github.com/unityscope/monowalk/internal/hostaccess/fakeproc"
)

func writeModuleHeader(proc *fakeproc.Process, base address.Address64, peStart uint32, machine uint16) {
	var u32 [4]byte
	binary.LittleEndian.PutUint32(u32[:], peStart)
	proc.WriteAt(base.Add(0x3C), u32[:])

	var u16 [2]byte
	binary.LittleEndian.PutUint16(u16[:], machine)
	proc.WriteAt(base.Add(uint64(peStart)).Add(4), u16[:])
}

func TestMachineTypeX64(t *testing.T) {
	proc := fakeproc.New()
	base := address.Address64(0x10000)
	writeModuleHeader(proc, base, 0x80, imageFileMachineAMD64)

	det := PECoffDetector{Process: proc}
	m, err := det.MachineType(base)
	if err != nil {
		t.Fatalf("MachineType: %v", err)
	}
	if m != X64 {
		t.Fatalf("MachineType() = %s, want x64", m)
	}
}

func TestMachineTypeX86(t *testing.T) {
	proc := fakeproc.New()
	base := address.Address64(0x20000)
	writeModuleHeader(proc, base, 0x80, imageFileMachineI386)

	det := PECoffDetector{Process: proc}
	m, err := det.MachineType(base)
	if err != nil {
		t.Fatalf("MachineType: %v", err)
	}
	if m != X86 {
		t.Fatalf("MachineType() = %s, want x86", m)
	}
}

func TestMachineTypeUnknown(t *testing.T) {
	proc := fakeproc.New()
	base := address.Address64(0x30000)
	writeModuleHeader(proc, base, 0x80, 0xAAAA)

	det := PECoffDetector{Process: proc}
	m, err := det.MachineType(base)
	if err != nil {
		t.Fatalf("MachineType: %v", err)
	}
	if m != Unknown {
		t.Fatalf("MachineType() = %s, want unknown", m)
	}
}
