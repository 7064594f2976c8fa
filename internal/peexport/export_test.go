package peexport

import (
	"encoding/binary"
	"testing"

	"github.com/unityscope/monowalk/address"
	"github.com/unityscope/monowalk/internal/hostaccess/fakeproc"
)

// buildMinimalPE writes a minimal DOS header + NT header + export directory
// (PE32+) exporting a single function "mono_assembly_foreach" at base+funcRVA.
func buildMinimalPE(proc *fakeproc.Process, base address.Address64, funcRVA uint32) {
	const (
		lfanewOff   = 0x3C
		ntHeaderRVA = 0x80
		magicOff    = 24
		exportDirOff64 = 0x88
		exportDirRVA   = 0x200
		nameTableRVA   = 0x300
		addrTableRVA   = 0x310
		funcNameRVA    = 0x320
	)

	var u32 [4]byte
	binary.LittleEndian.PutUint32(u32[:], ntHeaderRVA)
	proc.WriteAt(base.Add(lfanewOff), u32[:])

	var u16 [2]byte
	binary.LittleEndian.PutUint16(u16[:], active.PEMagicPE32Plus)
	proc.WriteAt(base.Add(ntHeaderRVA).Add(magicOff), u16[:])

	binary.LittleEndian.PutUint32(u32[:], exportDirRVA)
	proc.WriteAt(base.Add(ntHeaderRVA).Add(exportDirOff64), u32[:])

	binary.LittleEndian.PutUint32(u32[:], 1) // NumberOfFunctions
	proc.WriteAt(base.Add(exportDirRVA).Add(0x14), u32[:])
	binary.LittleEndian.PutUint32(u32[:], addrTableRVA)
	proc.WriteAt(base.Add(exportDirRVA).Add(0x1C), u32[:])
	binary.LittleEndian.PutUint32(u32[:], nameTableRVA)
	proc.WriteAt(base.Add(exportDirRVA).Add(0x20), u32[:])

	binary.LittleEndian.PutUint32(u32[:], funcNameRVA)
	proc.WriteAt(base.Add(nameTableRVA), u32[:])

	binary.LittleEndian.PutUint32(u32[:], funcRVA)
	proc.WriteAt(base.Add(addrTableRVA), u32[:])

	name := "mono_assembly_foreach"
	nameBuf := make([]byte, len(name)+1)
	copy(nameBuf, name)
	proc.WriteAt(base.Add(funcNameRVA), nameBuf)
}

func TestFindResolvesExportedFunction(t *testing.T) {
	proc := fakeproc.New()
	base := address.Address64(0x400000)
	buildMinimalPE(proc, base, 0x1234)

	got, err := Find(proc, base, "mono_assembly_foreach")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if want := base.Add(0x1234); got != want {
		t.Fatalf("Find() = %s, want %s", got, want)
	}
}

func TestFindReturnsNotFoundForUnknownName(t *testing.T) {
	proc := fakeproc.New()
	base := address.Address64(0x500000)
	buildMinimalPE(proc, base, 0x1234)

	_, err := Find(proc, base, "no_such_export")
	if err != ErrNotFound {
		t.Fatalf("Find() err = %v, want ErrNotFound", err)
	}
}
