package il2cppbase

import (
	"github.com/unityscope/monowalk/address"
	"github.com/unityscope/monowalk/internal/scan"
	"github.com/unityscope/monowalk/internal/sigs"
	"github.com/unityscope/monowalk/internal/variant"
	"github.com/unityscope/monowalk/internal/walkers"
)

const moduleName = "GameAssembly.dll"

func init() {
	walkers.Register(variant.Il2Cpp_base_x64, New(scan.Linear{}))
}

// Walker implements walkers.Walker for IL2CPP metadata-version < 24.
type Walker struct {
	scanner scan.Scanner
}

// New constructs a Walker using the given byte-pattern scanner.
func New(scanner scan.Scanner) Walker {
	return Walker{scanner: scanner}
}

// root holds the two flat-array roots IL2CPP attachment resolves.
type root struct {
	assemblies              address.Pointer64[address.Pointer64[Assembly]]
	typeInfoDefinitionTable address.Pointer64[address.Pointer64[Class]]
}

// Attach locates both IL2CPP roots via the RIP-relative signatures in
// GameAssembly.dll's .text section.
func (w Walker) Attach(proc address.ProcessAccess) (any, bool, error) {
	rng, err := proc.GetModuleRange(moduleName)
	if err != nil {
		return nil, false, nil
	}

	assembliesAddr, found, err := scan.Region(proc, w.scanner, rng.Base, int(rng.Size), sigs.PatternIl2CppAssemblies)
	if err != nil {
		return nil, false, err
	}
	if !found {
		return nil, false, nil
	}
	assembliesInstr := assembliesAddr.Add(12)
	assembliesTarget, err := address.DecodeRIPRelative(proc, assembliesInstr, 0)
	if err != nil {
		return nil, false, err
	}
	assemblies, err := address.ReadValue64[address.Pointer64[address.Pointer64[Assembly]]](proc, assembliesTarget)
	if err != nil {
		return nil, false, err
	}

	typeDefAddr, found, err := scan.Region(proc, w.scanner, rng.Base, int(rng.Size), sigs.PatternIl2CppTypeDefTable)
	if err != nil {
		return nil, false, err
	}
	if !found {
		return nil, false, nil
	}
	typeDefInstr := typeDefAddr.AddSigned(-4)
	typeDefTarget, err := address.DecodeRIPRelative(proc, typeDefInstr, 0)
	if err != nil {
		return nil, false, err
	}
	typeInfoTable, err := address.ReadValue64[address.Pointer64[address.Pointer64[Class]]](proc, typeDefTarget)
	if err != nil {
		return nil, false, err
	}

	return root{assemblies: assemblies, typeInfoDefinitionTable: typeInfoTable}, true, nil
}

// GetImage walks the null-terminated assemblies array slot by slot.
func (w Walker) GetImage(proc address.ProcessAccess, rootAny any, name string) (any, bool, error) {
	r := rootAny.(root)
	cur := r.assemblies
	for {
		slot, err := cur.Read(proc)
		if err != nil {
			return nil, false, err
		}
		if slot.IsNull() {
			return nil, false, nil
		}
		asm, err := slot.Read(proc)
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
			return imageHandle{img: img, root: r}, true, nil
		}
		cur = cur.Offset(1)
	}
}

type imageHandle struct {
	img  Image
	root root
}

// GetClass looks up the image-local metadata handle and scans the
// type-info definition table for a name + non-null-fields match.
func (w Walker) GetClass(proc address.ProcessAccess, imageAny any, name string) (any, bool, error) {
	ih := imageAny.(imageHandle)
	handle, err := ih.img.MetadataHandle.Read(proc)
	if err != nil {
		return nil, false, err
	}
	base := ih.root.typeInfoDefinitionTable.Offset(int64(handle))
	for i := 0; i < int(ih.img.TypeCount); i++ {
		classPtr, err := base.Index(proc, i)
		if err != nil {
			continue
		}
		if classPtr.IsNull() {
			continue
		}
		class, err := classPtr.Read(proc)
		if err != nil {
			continue
		}
		nameStr, err := class.Name.ReadStr(proc)
		if err != nil {
			continue
		}
		if nameStr == name && !class.Fields.IsNull() {
			return class, true, nil
		}
	}
	return nil, false, nil
}

// GetField returns the byte offset of the first name-matched field.
func (w Walker) GetField(proc address.ProcessAccess, classAny any, name string) (uint64, bool, error) {
	class := classAny.(Class)
	for i := 0; i < int(class.FieldCount); i++ {
		field, err := class.Fields.Index(proc, i)
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

// GetStaticTable returns the class's static_fields pointer directly.
func (w Walker) GetStaticTable(proc address.ProcessAccess, classAny any) (address.Address64, bool, error) {
	class := classAny.(Class)
	addr := class.StaticFields.Get()
	if addr.IsNull() {
		return 0, false, nil
	}
	return addr, true, nil
}

// GetParent reads the class's parent pointer.
func (w Walker) GetParent(proc address.ProcessAccess, classAny any) (any, bool, error) {
	class := classAny.(Class)
	if class.Parent.IsNull() {
		return nil, false, nil
	}
	parent, err := class.Parent.Read(proc)
	if err != nil {
		return nil, false, err
	}
	return parent, true, nil
}
