// Package monov3x64 implements the metadata walker for 64-bit Mono v3, the
// runtime shipped from Unity 2021.2 onward. It shares mono-2.0-bdwgc.dll's
// attachment path and GList-of-assemblies root with Mono v2, but MonoClass
// gained a generic-instance flag byte in this era; that single field delta
// from monov2x64's layout is the only difference reproduced here.
package monov3x64

import "github.com/unityscope/monowalk/address"

type ptr = address.Pointer64[struct{}]

// GList mirrors Mono's doubly-linked list node, the assemblies root shape.
type GList struct {
	Data address.Pointer64[Assembly]
	Next address.Pointer64[GList]
	Prev address.Pointer64[GList]
}

// Assembly mirrors MonoAssembly.
type Assembly struct {
	RefCount int32
	_padding [4]byte
	BaseDir  address.Pointer64[address.CStr]
	Aname    AssemblyName
	Image    address.Pointer64[Image]
}

// AssemblyName mirrors MonoAssemblyName.
type AssemblyName struct {
	Name           address.Pointer64[address.CStr]
	Culture        address.Pointer64[address.CStr]
	HashValue      address.Pointer64[address.CStr]
	PublicKey      ptr
	PublicKeyToken [17]byte
	_padding1      [3]byte
	HashAlg        uint32
	HashLen        uint32
	Flags          uint32
	Major          uint16
	Minor          uint16
	Build          uint16
	Revision       uint16
	Arch           uint16
	_padding       [6]byte
}

// StreamHeader mirrors MonoStreamHeader.
type StreamHeader struct {
	Data     address.Pointer64[byte]
	Size     uint32
	_padding [4]byte
}

// TableInfo mirrors MonoTableInfo.
type TableInfo struct {
	Base         address.Pointer64[byte]
	RowsAndSize  uint32
	SizeBitfield uint32
}

// InternalHashTable mirrors MonoInternalHashTable, the class-cache shape.
type InternalHashTable struct {
	HashFunc   address.Pointer64[uint32]
	KeyExtract ptr
	NextValue  ptr
	Size       int32
	NumEntries int32
	Table      address.Pointer64[address.Pointer64[ClassDef]]
}

// Image mirrors MonoImage.
type Image struct {
	RefCount            int32
	_padding            [4]byte
	RawDataHandle       ptr
	RawData             address.Pointer64[byte]
	RawDataLen          uint32
	VariousFlags        [2]byte
	_padding0           [2]byte
	Name                address.Pointer64[address.CStr]
	AssemblyName        address.Pointer64[address.CStr]
	ModuleName          address.Pointer64[address.CStr]
	Version             address.Pointer64[address.CStr]
	MdVersionMajor      int16
	MdVersionMinor      int16
	_padding2           [4]byte
	Guid                address.Pointer64[address.CStr]
	ImageInfo           ptr
	MemPool             ptr
	RawMetadata         address.Pointer64[byte]
	HeapStrings         StreamHeader
	HeapUS              StreamHeader
	HeapBlob            StreamHeader
	HeapGUID            StreamHeader
	HeapTables          StreamHeader
	HeapPDB             StreamHeader
	TablesBase          address.Pointer64[byte]
	ReferencedTables    uint64
	ReferencedTableRows address.Pointer64[int32]
	Tables              [56]TableInfo
	References          address.Pointer64[address.Pointer64[Assembly]]
	NReferences         int32
	_padding3           [4]byte
	Modules             address.Pointer64[address.Pointer64[Image]]
	ModuleCount         uint32
	_padding4           [4]byte
	ModulesLoaded       address.Pointer64[byte]
	Files               address.Pointer64[address.Pointer64[Image]]
	FileCount           uint32
	_padding5           [4]byte
	AotModule           ptr
	AotID               [16]byte
	Assembly            address.Pointer64[Assembly]
	MethodCache         ptr
	ClassCache          InternalHashTable
}

// Type mirrors MonoType's fixed-size prefix.
type Type struct {
	Data      ptr
	Attrs     uint16
	TypeKind  uint8
	Flags     uint8
	Modifiers uint32
}

// ClassField mirrors MonoClassField.
type ClassField struct {
	Type     address.Pointer64[Type]
	Name     address.Pointer64[address.CStr]
	Parent   address.Pointer64[Class]
	Offset   int32
	_padding [4]byte
}

// ClassRuntimeInfo mirrors MonoClassRuntimeInfo.
type ClassRuntimeInfo struct {
	MaxDomain     uint16
	_padding      [6]byte
	DomainVtables address.Pointer64[VTable]
}

// VTable mirrors MonoVTable; its trailing flexible vtable array is
// immediately followed in target memory by the class's static storage.
type VTable struct {
	Klass                 address.Pointer64[Class]
	GCDescr               ptr
	Domain                ptr
	Type                  ptr
	InterfaceBitmap       address.Pointer64[byte]
	MaxInterfaceID        uint32
	Rank                  uint8
	Initialized           uint8
	_padding1             [2]byte
	Flags                 uint32
	ImtCollisionsBitmap   uint32
	RuntimeGenericContext ptr
	Vtable                ptr
}

// Class mirrors MonoClass, with v3's added is_generic/is_ginst flag byte
// folded into the flags2 word's former padding — the one layout delta from
// Mono v2's MonoClass in this era.
type Class struct {
	ElementClass           address.Pointer64[Class]
	CastClass              address.Pointer64[Class]
	Supertypes             address.Pointer64[address.Pointer64[Class]]
	Idepth                 uint16
	Rank                   uint8
	_padding               uint8
	InstanceSize           int32
	Flags1                 uint32
	MinAlign               uint8
	_padding2              [3]byte
	Flags2                 uint32
	IsGenericInstance      uint8
	_padding3              [3]byte
	Parent                 address.Pointer64[ClassDef]
	NestedIn               address.Pointer64[Class]
	Image                  address.Pointer64[Image]
	Name                   address.Pointer64[address.CStr]
	NameSpace              address.Pointer64[address.CStr]
	TypeToken              uint32
	VtableSize             int32
	InterfaceCount         uint16
	_padding4              [2]byte
	InterfaceID            uint32
	MaxInterfaceID         uint32
	InterfaceOffsetCount   uint16
	_padding5              [2]byte
	InterfacesPacked       address.Pointer64[address.Pointer64[Class]]
	InterfaceOffsetsPacked address.Pointer64[uint16]
	InterfaceBitmap        address.Pointer64[byte]
	Interfaces             address.Pointer64[address.Pointer64[Class]]
	Sizes                  int32
	_padding6              [4]byte
	Fields                 address.Pointer64[ClassField]
	Methods                address.Pointer64[ptr]
	ThisArg                Type
	ByvalArg               Type
	GCDescr                ptr
	RuntimeInfo            address.Pointer64[ClassRuntimeInfo]
	Vtable                 address.Pointer64[ptr]
	InfrequentData         ptr
	UserData               ptr
}

// ClassDef mirrors MonoClassDef: the class-cache entry, klass-first.
type ClassDef struct {
	Klass          Class
	Flags          uint32
	FirstMethodIdx uint32
	FirstFieldIdx  uint32
	MethodCount    uint32
	FieldCount     uint32
	_padding       [4]byte
	NextClassCache address.Pointer64[ClassDef]
}
