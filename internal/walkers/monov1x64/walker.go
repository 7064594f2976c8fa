package monov1x64

import (
	"unsafe"

	"github.com/unityscope/monowalk/address"
	"github.com/unityscope/monowalk/internal/peexport"
	"github.com/unityscope/monowalk/internal/scan"
	"github.com/unityscope/monowalk/internal/sigs"
	"github.com/unityscope/monowalk/internal/variant"
	"github.com/unityscope/monowalk/internal/walkers"
)

const (
	moduleName      = "mono.dll"
	exportedSymbol  = "mono_assembly_foreach"
	scanWindowBytes = 0x100
)

func init() {
	walkers.Register(variant.MonoV1_x64, New(scan.Linear{}))
}

// Walker implements walkers.Walker for 64-bit Mono v1. Attachment mirrors
// v2's export-scan path; only the module name and class-cache shape differ.
type Walker struct {
	scanner scan.Scanner
}

// New constructs a Walker using the given byte-pattern scanner.
func New(scanner scan.Scanner) Walker {
	return Walker{scanner: scanner}
}

type root struct {
	assemblies address.Pointer64[address.Pointer64[GList]]
}

// Attach resolves mono_assembly_foreach via the PE export table, then
// scans its first 0x100 bytes for the RIP-relative load of the assembly
// GList root.
func (w Walker) Attach(proc address.ProcessAccess) (any, bool, error) {
	base, err := proc.GetModuleAddress(moduleName)
	if err != nil {
		return nil, false, nil
	}
	fnAddr, err := peexport.Find(proc, base, exportedSymbol)
	if err != nil {
		return nil, false, nil
	}
	matchAddr, found, err := scan.Region(proc, w.scanner, fnAddr, scanWindowBytes, sigs.PatternMono64)
	if err != nil {
		return nil, false, err
	}
	if !found {
		return nil, false, nil
	}
	instrAddr := matchAddr.Add(3)
	target, err := address.DecodeRIPRelative(proc, instrAddr, 0)
	if err != nil {
		return nil, false, err
	}
	assemblies := address.NewPointer64[address.Pointer64[GList]](target)
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

// GetClass walks every bucket of the image's class_cache GHashTable,
// following each bucket's singly-linked node chain.
func (w Walker) GetClass(proc address.ProcessAccess, imageAny any, name string) (any, bool, error) {
	ih := imageAny.(imageHandle)
	cache := ih.img.ClassCache
	for i := 0; i < int(cache.Size); i++ {
		nodePtr, err := cache.Nodes.Index(proc, i)
		if err != nil {
			continue
		}
		for !nodePtr.IsNull() {
			node, err := nodePtr.Read(proc)
			if err != nil {
				break
			}
			class, err := node.Value.Read(proc)
			if err == nil {
				nameStr, err := class.Klass.Name.ReadStr(proc)
				if err == nil && nameStr == name && !class.Klass.Fields.IsNull() {
					return class, true, nil
				}
			}
			nodePtr = node.Next
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
	vtableArray := address.CastPointer64[ptr](
		runtimeInfo.DomainVtables.ByteOffset(int64(unsafe.Sizeof(VTable{})) - 8),
	)
	slot, err := vtableArray.Index(proc, int(class.Klass.VtableSize))
	if err != nil {
		return 0, false, err
	}
	addr := slot.Get()
	if addr.IsNull() {
		return 0, false, nil
	}
	return addr, true, nil
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
