package peexport

import (
	"testing"

	"github.com/unityscope/monowalk/address"
	"github.com/unityscope/monowalk/internal/hostaccess/fakeproc"
)

// FuzzFind feeds arbitrary module bytes to Find and asserts it never panics
// decoding a PE header it doesn't control — replacing the teacher's
// go-fuzz harness with Go's native testing.F, since this environment has no
// go-fuzz toolchain to build corpus data with.
func FuzzFind(f *testing.F) {
	f.Add(buildValidSeed())
	f.Add(make([]byte, 0x400))
	f.Add([]byte{0x4D, 0x5A})

	f.Fuzz(func(t *testing.T, raw []byte) {
		proc := fakeproc.New()
		base := address.Address64(0x10000)
		proc.WriteAt(base, raw)

		_, _ = Find(proc, base, "mono_assembly_foreach")
	})
}

func buildValidSeed() []byte {
	const (
		ntHeaderRVA  = 0x80
		exportDirRVA = 0x200
		nameTableRVA = 0x300
		addrTableRVA = 0x310
		funcNameRVA  = 0x320
		funcRVA      = 0x1000
	)
	buf := make([]byte, 0x400)
	putU32(buf, 0x3C, ntHeaderRVA)
	putU16(buf, ntHeaderRVA+24, active.PEMagicPE32Plus)
	putU32(buf, ntHeaderRVA+0x88, exportDirRVA)
	putU32(buf, exportDirRVA+0x14, 1)
	putU32(buf, exportDirRVA+0x1C, addrTableRVA)
	putU32(buf, exportDirRVA+0x20, nameTableRVA)
	putU32(buf, nameTableRVA, funcNameRVA)
	putU32(buf, addrTableRVA, funcRVA)
	copy(buf[funcNameRVA:], "mono_assembly_foreach\x00")
	return buf
}

func putU32(buf []byte, off int, v uint32) {
	buf[off] = byte(v)
	buf[off+1] = byte(v >> 8)
	buf[off+2] = byte(v >> 16)
	buf[off+3] = byte(v >> 24)
}

func putU16(buf []byte, off int, v uint16) {
	buf[off] = byte(v)
	buf[off+1] = byte(v >> 8)
}
