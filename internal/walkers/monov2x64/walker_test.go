package monov2x64

import (
	"encoding/binary"
	"testing"
	"unsafe"

	"github.com/unityscope/monowalk/address"
	"github.com/unityscope/monowalk/internal/hostaccess/fakeproc"
	"github.com/unityscope/monowalk/internal/scan"
)

func structBytes[T any](v T) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(&v)), unsafe.Sizeof(v))
}

func cstrBytes(s string) []byte {
	b := make([]byte, len(s)+1)
	copy(b, s)
	return b
}

// buildMinimalExportTable writes a PE32+ export directory exposing
// mono_assembly_foreach at moduleBase+fnRVA.
func buildMinimalExportTable(proc *fakeproc.Process, base address.Address64, fnRVA uint32) {
	const (
		ntHeaderRVA    = 0x80
		exportDirRVA   = 0x200
		nameTableRVA   = 0x300
		addrTableRVA   = 0x310
		funcNameRVA    = 0x320
	)
	var u32 [4]byte
	binary.LittleEndian.PutUint32(u32[:], ntHeaderRVA)
	proc.WriteAt(base.Add(0x3C), u32[:])

	var u16 [2]byte
	binary.LittleEndian.PutUint16(u16[:], 0x20b) // PE32+
	proc.WriteAt(base.Add(ntHeaderRVA).Add(24), u16[:])

	binary.LittleEndian.PutUint32(u32[:], exportDirRVA)
	proc.WriteAt(base.Add(ntHeaderRVA).Add(0x88), u32[:])

	binary.LittleEndian.PutUint32(u32[:], 1)
	proc.WriteAt(base.Add(exportDirRVA).Add(0x14), u32[:])
	binary.LittleEndian.PutUint32(u32[:], addrTableRVA)
	proc.WriteAt(base.Add(exportDirRVA).Add(0x1C), u32[:])
	binary.LittleEndian.PutUint32(u32[:], nameTableRVA)
	proc.WriteAt(base.Add(exportDirRVA).Add(0x20), u32[:])

	binary.LittleEndian.PutUint32(u32[:], funcNameRVA)
	proc.WriteAt(base.Add(nameTableRVA), u32[:])
	binary.LittleEndian.PutUint32(u32[:], fnRVA)
	proc.WriteAt(base.Add(addrTableRVA), u32[:])
	proc.WriteAt(base.Add(funcNameRVA), cstrBytes(exportedSymbol))
}

// buildFixture places mono_assembly_foreach at moduleBase+0x1000, with its
// first 0x100 bytes holding the RIP-relative load of a one-node GList
// pointing at a single assembly named "Assembly-CSharp".
func buildFixture(t *testing.T) (proc *fakeproc.Process, moduleBase address.Address64) {
	t.Helper()
	proc = fakeproc.New()
	moduleBase = address.Address64(0x7FF000000000)
	proc.AddModule(moduleName, moduleBase, 0x200000)

	fnRVA := uint32(0x1000)
	buildMinimalExportTable(proc, moduleBase, fnRVA)
	fnAddr := moduleBase.Add(uint64(fnRVA))

	fnBuf := make([]byte, scanWindowBytes)
	copy(fnBuf[0x10:], []byte{0x48, 0x8B, 0x0D}) // matches sigs.PatternMono64
	disp := int32(0x500)
	binary.LittleEndian.PutUint32(fnBuf[0x13:], uint32(disp))
	proc.WriteAt(fnAddr, fnBuf)

	// instrAddr = matchAddr+3 = fnAddr+0x10+3 = fnAddr+0x13, disp read at
	// instrAddr (dispOffset 0), target = instrAddr+4+disp.
	target := fnAddr.Add(0x13).Add(4).Add(uint64(disp))

	rootNodeAddr := moduleBase.Add(0x20000)
	nextNodeAddr := moduleBase.Add(0x20100) // terminates the chain: Data is null
	assemblyAddr := moduleBase.Add(0x21000)
	imageAddr := moduleBase.Add(0x22000)
	nameAddr := moduleBase.Add(0x23000)

	var ptrBuf [8]byte
	binary.LittleEndian.PutUint64(ptrBuf[:], uint64(rootNodeAddr))
	proc.WriteAt(target, ptrBuf[:])

	node := GList{
		Data: address.Pointer64[Assembly]{Addr: assemblyAddr},
		Next: address.Pointer64[GList]{Addr: nextNodeAddr},
	}
	proc.WriteAt(rootNodeAddr, structBytes(node))
	proc.WriteAt(nextNodeAddr, structBytes(GList{}))

	proc.WriteAt(nameAddr, cstrBytes("Assembly-CSharp"))

	asm := Assembly{
		Image: address.Pointer64[Image]{Addr: imageAddr},
		Aname: AssemblyName{Name: address.Pointer64[address.CStr]{Addr: nameAddr}},
	}
	proc.WriteAt(assemblyAddr, structBytes(asm))

	proc.WriteAt(imageAddr, structBytes(Image{}))

	return proc, moduleBase
}

func TestWalkerAttachAndGetImage(t *testing.T) {
	proc, _ := buildFixture(t)
	w := New(scan.Linear{})

	root, ok, err := w.Attach(proc)
	if err != nil {
		t.Fatalf("Attach: %v", err)
	}
	if !ok {
		t.Fatal("Attach: expected ok")
	}

	img, ok, err := w.GetImage(proc, root, "Assembly-CSharp")
	if err != nil {
		t.Fatalf("GetImage: %v", err)
	}
	if !ok {
		t.Fatal("GetImage: expected ok")
	}
	if img == nil {
		t.Fatal("GetImage: expected non-nil handle")
	}
}

func TestWalkerGetImageNotFound(t *testing.T) {
	proc, _ := buildFixture(t)
	w := New(scan.Linear{})

	root, ok, err := w.Attach(proc)
	if err != nil || !ok {
		t.Fatalf("Attach: ok=%v err=%v", ok, err)
	}

	_, ok, err = w.GetImage(proc, root, "NoSuchAssembly")
	if err != nil {
		t.Fatalf("GetImage: %v", err)
	}
	if ok {
		t.Fatal("GetImage: expected not-found when only non-matching assemblies exist")
	}
}

func TestWalkerAttachNoModule(t *testing.T) {
	proc := fakeproc.New()
	w := New(scan.Linear{})
	_, ok, err := w.Attach(proc)
	if err != nil {
		t.Fatalf("Attach: %v", err)
	}
	if ok {
		t.Fatal("Attach: expected not-ok when mono-2.0-bdwgc.dll is not loaded")
	}
}
