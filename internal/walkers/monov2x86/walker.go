package monov2x86

import (
	"encoding/binary"
	"unsafe"

	"github.com/unityscope/monowalk/address"
	"github.com/unityscope/monowalk/internal/peexport"
	"github.com/unityscope/monowalk/internal/scan"
	"github.com/unityscope/monowalk/internal/sigs"
	"github.com/unityscope/monowalk/internal/variant"
	"github.com/unityscope/monowalk/internal/walkers"
)

const (
	moduleName      = "mono-2.0-bdwgc.dll"
	exportedSymbol  = "mono_assembly_foreach"
	scanWindowBytes = 0x100
)

func init() {
	walkers.Register(variant.MonoV2_x86, New(scan.Linear{}))
}

// Walker implements walkers.Walker for 32-bit Mono v2.
type Walker struct {
	scanner scan.Scanner
}

// New constructs a Walker using the given byte-pattern scanner.
func New(scanner scan.Scanner) Walker {
	return Walker{scanner: scanner}
}

type root struct {
	assemblies address.Pointer32[address.Pointer32[GList]]
}

// Attach resolves mono_assembly_foreach via the PE export table, then scans
// its first 0x100 bytes for the absolute load of the assembly GList root.
// SIG_MONO_32_1 is tried first; SIG_MONO_32_2 is the fallback signature for
// builds where the compiler emitted a slightly different instruction
// sequence. Unlike the 64-bit RIP-relative case, the matched operand here is
// an absolute 32-bit pointer value, already the address of the assemblies
// root, which is then read once to materialize the root pointer-to-pointer.
func (w Walker) Attach(proc address.ProcessAccess) (any, bool, error) {
	base, err := proc.GetModuleAddress(moduleName)
	if err != nil {
		return nil, false, nil
	}
	fnAddr, err := peexport.Find(proc, base, exportedSymbol)
	if err != nil {
		return nil, false, nil
	}

	matchAddr, found, err := scan.Region(proc, w.scanner, fnAddr, scanWindowBytes, sigs.PatternMono32First)
	if err != nil {
		return nil, false, err
	}
	if !found {
		matchAddr, found, err = scan.Region(proc, w.scanner, fnAddr, scanWindowBytes, sigs.PatternMono32Second)
		if err != nil {
			return nil, false, err
		}
		if !found {
			return nil, false, nil
		}
	}

	operandAddr := matchAddr.Add(2)
	buf, err := proc.ReadBytes(operandAddr, 4)
	if err != nil {
		return nil, false, err
	}
	value := address.Address32(binary.LittleEndian.Uint32(buf))
	assemblies := address.NewPointer32[address.Pointer32[GList]](value)
	return root{assemblies: assemblies}, true, nil
}

type imageHandle struct {
	img Image
}

// GetImage dereferences the root twice to reach the first GList node, then
// traverses .Next until .Data is null.
func (w Walker) GetImage(proc address.ProcessAccess, rootAny any, name string) (any, bool, error) {
	r := rootAny.(root)
	rootNodePtr, err := r.assemblies.Read(proc)
	if err != nil {
		return nil, false, err
	}
	node, err := rootNodePtr.Read(proc)
	if err != nil {
		return nil, false, err
	}
	for {
		if node.Data.IsNull() {
			return nil, false, nil
		}
		asm, err := node.Data.Read(proc)
		if err != nil {
			return nil, false, err
		}
		nameStr, err := asm.Aname.Name.ReadStr(proc)
		if err != nil {
			return nil, false, err
		}
		if nameStr == name {
			img, err := asm.Image.Read(proc)
			if err != nil {
				return nil, false, err
			}
			return imageHandle{img: img}, true, nil
		}
		node, err = node.Next.Read(proc)
		if err != nil {
			return nil, false, err
		}
	}
}

// GetClass walks every bucket of the image's class_cache, following each
// bucket's next_class_cache chain until null.
func (w Walker) GetClass(proc address.ProcessAccess, imageAny any, name string) (any, bool, error) {
	ih := imageAny.(imageHandle)
	cache := ih.img.ClassCache
	for i := 0; i < int(cache.Size); i++ {
		table, err := cache.Table.Index(proc, i)
		if err != nil {
			continue
		}
		for !table.IsNull() {
			class, err := table.Read(proc)
			if err != nil {
				break
			}
			nameStr, err := class.Klass.Name.ReadStr(proc)
			if err == nil && nameStr == name && !class.Klass.Fields.IsNull() {
				return class, true, nil
			}
			table = class.NextClassCache
		}
	}
	return nil, false, nil
}

// GetField returns the byte offset of the first name-matched field.
func (w Walker) GetField(proc address.ProcessAccess, classAny any, name string) (uint64, bool, error) {
	class := classAny.(ClassDef)
	for i := 0; i < int(class.FieldCount); i++ {
		field, err := class.Klass.Fields.Index(proc, i)
		if err != nil {
			continue
		}
		nameStr, err := field.Name.ReadStr(proc)
		if err != nil {
			continue
		}
		if nameStr == name {
			return uint64(field.Offset), true, nil
		}
	}
	return 0, false, nil
}

// GetStaticTable applies the "hack" offset: the static-field region sits
// immediately past the VTable's trailing function-pointer array.
func (w Walker) GetStaticTable(proc address.ProcessAccess, classAny any) (address.Address64, bool, error) {
	class := classAny.(ClassDef)
	runtimeInfo, err := class.Klass.RuntimeInfo.Read(proc)
	if err != nil {
		return 0, false, err
	}
	vtableArray := address.CastPointer32[ptr](
		runtimeInfo.DomainVtables.ByteOffset(int32(unsafe.Sizeof(VTable{})) - 4),
	)
	slot, err := vtableArray.Index(proc, int(class.Klass.VtableSize))
	if err != nil {
		return 0, false, err
	}
	addr := slot.Get()
	if addr.IsNull() {
		return 0, false, nil
	}
	return addr.Widen(), true, nil
}

// GetParent reads the class's parent pointer.
func (w Walker) GetParent(proc address.ProcessAccess, classAny any) (any, bool, error) {
	class := classAny.(ClassDef)
	if class.Klass.Parent.IsNull() {
		return nil, false, nil
	}
	parent, err := class.Klass.Parent.Read(proc)
	if err != nil {
		return nil, false, err
	}
	return parent, true, nil
}
