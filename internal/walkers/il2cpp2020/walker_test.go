package il2cpp2020

import (
	"encoding/binary"
	"testing"
	"unsafe"

	"github.com/unityscope/monowalk/address"
	"github.com/unityscope/monowalk/internal/hostaccess/fakeproc"
	"github.com/unityscope/monowalk/internal/scan"
)

// structBytes serializes v's in-memory representation, mirroring the
// reinterpret cast address.ReadValue64 performs on the way back in — so a
// fixture built this way round-trips through the walker exactly like a real
// target process's memory would.
func structBytes[T any](v T) []byte {
	return unsafe.Slice((*byte)(unsafe.Pointer(&v)), unsafe.Sizeof(v))
}

func cstrBytes(s string) []byte {
	b := make([]byte, len(s)+1)
	copy(b, s)
	return b
}

// buildFixture lays out one assembly ("Assembly-CSharp") containing one
// class ("PlayerController", parent "MonoBehaviour") with one field
// ("health" at +0x18) and a non-null static-fields pointer.
func buildFixture(t *testing.T) (proc *fakeproc.Process, gameBase address.Address64) {
	t.Helper()
	proc = fakeproc.New()
	gameBase = address.Address64(0x10000000)
	const moduleSize = 0x60
	proc.AddModule(moduleName, gameBase, moduleSize)

	// Both signatures and their RIP displacements live in one contiguous
	// buffer spanning the whole scanned module region.
	buf := make([]byte, moduleSize)
	copy(buf[0x10:], []byte{0x48, 0xFF, 0xC5, 0x80, 0x3C, 0x90, 0x00, 0x75, 0x90, 0x48, 0x8B, 0x1D})
	binary.LittleEndian.PutUint32(buf[0x1C:], uint32(int32(0x1E0))) // assemblies root displacement
	binary.LittleEndian.PutUint32(buf[0x4C:], uint32(int32(0x6B0))) // type-def-table root displacement
	copy(buf[0x50:], []byte{0x48, 0x83, 0x3C, 0x90, 0x00, 0x75, 0x90, 0x8B, 0xC0, 0xE8})
	proc.WriteAt(gameBase, buf)

	assembliesTarget := gameBase.Add(0x1C).Add(4).Add(0x1E0) // == gameBase+0x200
	typeDefTarget := gameBase.Add(0x50).Add(0x6B0)           // == gameBase+0x700

	assembliesArrayAddr := gameBase.Add(0x2000)
	assemblyAddr := gameBase.Add(0x3000)
	imageAddr := gameBase.Add(0x4000)
	assemblyNameAddr := gameBase.Add(0x5000)
	metadataHandleAddr := gameBase.Add(0x6000)
	typeInfoArrayAddr := gameBase.Add(0x8000)
	classAddr := gameBase.Add(0x9000)
	classNameAddr := gameBase.Add(0xA000)
	fieldsAddr := gameBase.Add(0xB000)
	fieldNameAddr := gameBase.Add(0xD000)
	parentClassAddr := gameBase.Add(0xE000)
	parentNameAddr := gameBase.Add(0xF000)
	staticFieldsAddr := gameBase.Add(0xC000)

	var rootPtrBuf [8]byte
	binary.LittleEndian.PutUint64(rootPtrBuf[:], uint64(assembliesArrayAddr))
	proc.WriteAt(assembliesTarget, rootPtrBuf[:])

	var arrayBuf [16]byte
	binary.LittleEndian.PutUint64(arrayBuf[0:8], uint64(assemblyAddr))
	binary.LittleEndian.PutUint64(arrayBuf[8:16], 0)
	proc.WriteAt(assembliesArrayAddr, arrayBuf[:])

	proc.WriteAt(assemblyNameAddr, cstrBytes("Assembly-CSharp"))
	proc.WriteAt(classNameAddr, cstrBytes("PlayerController"))
	proc.WriteAt(fieldNameAddr, cstrBytes("health"))
	proc.WriteAt(parentNameAddr, cstrBytes("MonoBehaviour"))

	asm := Assembly{
		Image: address.Pointer64[Image]{Addr: imageAddr},
		Token: 1,
		Aname: AssemblyName{
			Name: address.Pointer64[address.CStr]{Addr: assemblyNameAddr},
		},
	}
	proc.WriteAt(assemblyAddr, structBytes(asm))

	img := Image{
		Assembly:       address.Pointer64[Assembly]{Addr: assemblyAddr},
		TypeCount:      1,
		MetadataHandle: address.Pointer64[int32]{Addr: metadataHandleAddr},
	}
	proc.WriteAt(imageAddr, structBytes(img))

	var handleBuf [4]byte
	binary.LittleEndian.PutUint32(handleBuf[:], 0)
	proc.WriteAt(metadataHandleAddr, handleBuf[:])

	var typeDefRootBuf [8]byte
	binary.LittleEndian.PutUint64(typeDefRootBuf[:], uint64(typeInfoArrayAddr))
	proc.WriteAt(typeDefTarget, typeDefRootBuf[:])

	var typeSlotBuf [8]byte
	binary.LittleEndian.PutUint64(typeSlotBuf[:], uint64(classAddr))
	proc.WriteAt(typeInfoArrayAddr, typeSlotBuf[:])

	parent := Class{
		Name: address.Pointer64[address.CStr]{Addr: parentNameAddr},
	}
	proc.WriteAt(parentClassAddr, structBytes(parent))

	class := Class{
		Name:         address.Pointer64[address.CStr]{Addr: classNameAddr},
		Parent:       address.Pointer64[Class]{Addr: parentClassAddr},
		Fields:       address.Pointer64[ClassField]{Addr: fieldsAddr},
		StaticFields: ptr{Addr: staticFieldsAddr},
		FieldCount:   1,
	}
	proc.WriteAt(classAddr, structBytes(class))

	field := ClassField{
		Name:   address.Pointer64[address.CStr]{Addr: fieldNameAddr},
		Parent: address.Pointer64[Class]{Addr: classAddr},
		Offset: 0x18,
	}
	proc.WriteAt(fieldsAddr, structBytes(field))

	return proc, gameBase
}

func TestWalkerFullResolution(t *testing.T) {
	proc, _ := buildFixture(t)
	w := New(scan.Linear{})

	root, ok, err := w.Attach(proc)
	if err != nil {
		t.Fatalf("Attach: %v", err)
	}
	if !ok {
		t.Fatal("Attach: expected ok")
	}

	imgHandle, ok, err := w.GetImage(proc, root, "Assembly-CSharp")
	if err != nil {
		t.Fatalf("GetImage: %v", err)
	}
	if !ok {
		t.Fatal("GetImage: expected ok")
	}

	classHandle, ok, err := w.GetClass(proc, imgHandle, "PlayerController")
	if err != nil {
		t.Fatalf("GetClass: %v", err)
	}
	if !ok {
		t.Fatal("GetClass: expected ok")
	}

	offset, ok, err := w.GetField(proc, classHandle, "health")
	if err != nil {
		t.Fatalf("GetField: %v", err)
	}
	if !ok || offset != 0x18 {
		t.Fatalf("GetField() = (%#x, %v), want (0x18, true)", offset, ok)
	}

	staticAddr, ok, err := w.GetStaticTable(proc, classHandle)
	if err != nil {
		t.Fatalf("GetStaticTable: %v", err)
	}
	if !ok || staticAddr.IsNull() {
		t.Fatalf("GetStaticTable() = (%s, %v), want a non-null address", staticAddr, ok)
	}

	parentHandle, ok, err := w.GetParent(proc, classHandle)
	if err != nil {
		t.Fatalf("GetParent: %v", err)
	}
	if !ok {
		t.Fatal("GetParent: expected ok")
	}
	parentClass := parentHandle.(Class)
	parentName, err := parentClass.Name.ReadStr(proc)
	if err != nil {
		t.Fatalf("parent Name.ReadStr: %v", err)
	}
	if parentName != "MonoBehaviour" {
		t.Fatalf("parent name = %q, want %q", parentName, "MonoBehaviour")
	}

	if _, ok, err := w.GetParent(proc, parentHandle); err != nil {
		t.Fatalf("GetParent on root class: %v", err)
	} else if ok {
		t.Fatal("GetParent on root class: expected no parent")
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
		t.Fatal("GetImage: expected not-found")
	}
}

// TestWalkerGetImageStopsAtNullSlot covers the stale-null-slot case: a
// target assemblies array with a valid entry, then a null slot, then
// another valid entry ("Assembly-CSharp") past it. GetImage terminates
// at the first null slot and never reaches the later match — it must
// report not-found here even though the name exists further down the
// array.
func TestWalkerGetImageStopsAtNullSlot(t *testing.T) {
	proc := fakeproc.New()
	gameBase := address.Address64(0x10000000)
	const moduleSize = 0x60
	proc.AddModule(moduleName, gameBase, moduleSize)

	buf := make([]byte, moduleSize)
	copy(buf[0x10:], []byte{0x48, 0xFF, 0xC5, 0x80, 0x3C, 0x90, 0x00, 0x75, 0x90, 0x48, 0x8B, 0x1D})
	binary.LittleEndian.PutUint32(buf[0x1C:], uint32(int32(0x1E0)))
	binary.LittleEndian.PutUint32(buf[0x4C:], uint32(int32(0x6B0)))
	copy(buf[0x50:], []byte{0x48, 0x83, 0x3C, 0x90, 0x00, 0x75, 0x90, 0x8B, 0xC0, 0xE8})
	proc.WriteAt(gameBase, buf)

	assembliesTarget := gameBase.Add(0x1C).Add(4).Add(0x1E0)
	assembliesArrayAddr := gameBase.Add(0x2000)
	asm0Addr := gameBase.Add(0x3000)
	asm0NameAddr := gameBase.Add(0x5000)
	asm2Addr := gameBase.Add(0x3100)
	asm2NameAddr := gameBase.Add(0x5100)

	var rootPtrBuf [8]byte
	binary.LittleEndian.PutUint64(rootPtrBuf[:], uint64(assembliesArrayAddr))
	proc.WriteAt(assembliesTarget, rootPtrBuf[:])

	// slot0 = asm0 ("mscorlib"), slot1 = null, slot2 = asm2 ("Assembly-CSharp")
	var arrayBuf [24]byte
	binary.LittleEndian.PutUint64(arrayBuf[0:8], uint64(asm0Addr))
	binary.LittleEndian.PutUint64(arrayBuf[8:16], 0)
	binary.LittleEndian.PutUint64(arrayBuf[16:24], uint64(asm2Addr))
	proc.WriteAt(assembliesArrayAddr, arrayBuf[:])

	proc.WriteAt(asm0NameAddr, cstrBytes("mscorlib"))
	proc.WriteAt(asm2NameAddr, cstrBytes("Assembly-CSharp"))

	proc.WriteAt(asm0Addr, structBytes(Assembly{
		Aname: AssemblyName{Name: address.Pointer64[address.CStr]{Addr: asm0NameAddr}},
	}))
	proc.WriteAt(asm2Addr, structBytes(Assembly{
		Aname: AssemblyName{Name: address.Pointer64[address.CStr]{Addr: asm2NameAddr}},
	}))

	w := New(scan.Linear{})
	root, ok, err := w.Attach(proc)
	if err != nil || !ok {
		t.Fatalf("Attach: ok=%v err=%v", ok, err)
	}

	img, ok, err := w.GetImage(proc, root, "Assembly-CSharp")
	if err != nil {
		t.Fatalf("GetImage: %v", err)
	}
	if ok || img != nil {
		t.Fatalf("GetImage() = (%v, %v), want (nil, false) — must stop at the null slot before reaching the later match", img, ok)
	}
}

func TestWalkerGetClassNotFound(t *testing.T) {
	proc, _ := buildFixture(t)
	w := New(scan.Linear{})

	root, ok, err := w.Attach(proc)
	if err != nil || !ok {
		t.Fatalf("Attach: ok=%v err=%v", ok, err)
	}
	imgHandle, ok, err := w.GetImage(proc, root, "Assembly-CSharp")
	if err != nil || !ok {
		t.Fatalf("GetImage: ok=%v err=%v", ok, err)
	}

	_, ok, err = w.GetClass(proc, imgHandle, "NoSuchClass")
	if err != nil {
		t.Fatalf("GetClass: %v", err)
	}
	if ok {
		t.Fatal("GetClass: expected not-found")
	}
}

func TestWalkerGetFieldNotFound(t *testing.T) {
	proc, _ := buildFixture(t)
	w := New(scan.Linear{})

	root, ok, err := w.Attach(proc)
	if err != nil || !ok {
		t.Fatalf("Attach: ok=%v err=%v", ok, err)
	}
	imgHandle, ok, err := w.GetImage(proc, root, "Assembly-CSharp")
	if err != nil || !ok {
		t.Fatalf("GetImage: ok=%v err=%v", ok, err)
	}
	classHandle, ok, err := w.GetClass(proc, imgHandle, "PlayerController")
	if err != nil || !ok {
		t.Fatalf("GetClass: ok=%v err=%v", ok, err)
	}

	_, ok, err = w.GetField(proc, classHandle, "noSuchField")
	if err != nil {
		t.Fatalf("GetField: %v", err)
	}
	if ok {
		t.Fatal("GetField: expected not-found")
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
		t.Fatal("Attach: expected not-ok when GameAssembly.dll is not loaded")
	}
}
