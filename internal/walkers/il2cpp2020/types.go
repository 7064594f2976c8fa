// Package il2cpp2020 implements the metadata walker for Unity builds using
// IL2CPP with metadata format version >= 27 (Unity 2020+). Struct layouts
// are grounded on Unity's public il2cpp-metadata headers for that era.
package il2cpp2020

import "github.com/unityscope/monowalk/address"

type ptr = address.Pointer64[struct{}]

// Assembly mirrors IL2CPP's Il2CppAssembly.
type Assembly struct {
	Image                    address.Pointer64[Image]
	Token                    uint32
	ReferencedAssemblyStart  int32
	ReferencedAssemblyCount  int32
	_padding                 [4]byte
	Aname                    AssemblyName
}

// AssemblyName mirrors Il2CppAssemblyName.
type AssemblyName struct {
	Name            address.Pointer64[address.CStr]
	Culture         address.Pointer64[address.CStr]
	PublicKey       address.Pointer64[byte]
	HashAlg         uint32
	HashLen         int32
	Flags           uint32
	Major           int32
	Minor           int32
	Build           int32
	Revision        int32
	PublicKeyToken  [8]byte
	_padding        [4]byte
}

// Image mirrors Il2CppImage.
type Image struct {
	Name                  address.Pointer64[address.CStr]
	NameNoExt             address.Pointer64[address.CStr]
	Assembly              address.Pointer64[Assembly]
	TypeCount             uint32
	ExportedTypeCount     uint32
	CustomAttributeCount  uint32
	_padding              [4]byte
	MetadataHandle        address.Pointer64[int32]
	NameToClassHashTable  ptr
	CodeGenModule         ptr
	Token                 uint32
	Dynamic               uint8
	_padding2             [3]byte
}

// Type mirrors Il2CppType's fixed-size prefix used here.
type Type struct {
	Data     ptr
	Attrs    uint32
	_padding uint32
}

// Class mirrors Il2CppClass.
type Class struct {
	Image                            address.Pointer64[Image]
	GCDesc                           ptr
	Name                             address.Pointer64[address.CStr]
	NameSpace                        address.Pointer64[address.CStr]
	ByvalArg                         Type
	ThisArg                          Type
	ElementClass                     address.Pointer64[Class]
	CastClass                       address.Pointer64[Class]
	DeclaringType                    address.Pointer64[Class]
	Parent                           address.Pointer64[Class]
	GenericClass                     ptr
	TypeMetadataHandle               ptr
	InteropData                      ptr
	Klass                            address.Pointer64[Class]
	Fields                           address.Pointer64[ClassField]
	Events                           ptr
	Properties                       ptr
	Methods                          address.Pointer64[ptr]
	NestedTypes                      address.Pointer64[address.Pointer64[Class]]
	ImplementedInterfaces            address.Pointer64[address.Pointer64[Class]]
	InterfaceOffsets                 ptr
	StaticFields                     ptr
	RGCtxData                        ptr
	TypeHierarchy                    address.Pointer64[address.Pointer64[Class]]
	UnityUserData                    ptr
	InitializationExceptionGCHandle  uint32
	CctorStarted                     uint32
	CctorFinished                    uint32
	_padding1                        [4]byte
	CctorThread                      uint64
	GenericContainerHandle           ptr
	InstanceSize                     uint32
	ActualSize                       uint32
	ElementSize                      uint32
	NativeSize                       int32
	StaticFieldsSize                 uint32
	ThreadStaticFieldsSize           uint32
	ThreadStaticFieldsOffset         int32
	Flags                            uint32
	Token                            uint32
	MethodCount                      uint16
	PropertyCount                    uint16
	FieldCount                       uint16
	EventCount                       uint16
	NestedTypeCount                  uint16
	VtableCount                      uint16
	InterfacesCount                  uint16
	InterfaceOffsetsCount            uint16
	TypeHierarchyDepth               uint8
	GenericRecursionDepth            uint8
	Rank                             uint8
	MinimumAlignment                 uint8
	NaturalAlignment                 uint8
	PackingSize                      uint8
	MoreFlags                        [2]byte
	_padding2                        [4]byte
}

// ClassField mirrors FieldInfo.
type ClassField struct {
	Name   address.Pointer64[address.CStr]
	Type   address.Pointer64[Type]
	Parent address.Pointer64[Class]
	Offset int32
	Token  uint32
}
