// Package monov2x86 implements the metadata walker for 32-bit Mono v2
// (mono-2.0-bdwgc.dll on an x86 UnityPlayer.dll).
package monov2x86

import "github.com/unityscope/monowalk/address"

type ptr = address.Pointer32[struct{}]

// GList mirrors Mono's doubly-linked list node.
type GList struct {
	Data address.Pointer32[Assembly]
	Next address.Pointer32[GList]
	Prev address.Pointer32[GList]
}

// Assembly mirrors MonoAssembly (32-bit).
type Assembly struct {
	RefCount int32
	BaseDir  address.Pointer32[address.CStr]
	Aname    AssemblyName
	Image    address.Pointer32[Image]
}

// AssemblyName mirrors MonoAssemblyName (32-bit).
type AssemblyName struct {
	Name           address.Pointer32[address.CStr]
	Culture        address.Pointer32[address.CStr]
	HashValue      address.Pointer32[address.CStr]
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
	_padding       [2]byte
}

// StreamHeader mirrors MonoStreamHeader (32-bit).
type StreamHeader struct {
	Data address.Pointer32[byte]
	Size uint32
}

// TableInfo mirrors MonoTableInfo (32-bit).
type TableInfo struct {
	Base         address.Pointer32[byte]
	RowsAndSize  uint32
	SizeBitfield uint32
}

// InternalHashTable mirrors MonoInternalHashTable (32-bit).
type InternalHashTable struct {
	HashFunc   address.Pointer32[uint32]
	KeyExtract ptr
	NextValue  ptr
	Size       int32
	NumEntries int32
	Table      address.Pointer32[address.Pointer32[ClassDef]]
}

// Image mirrors MonoImage (32-bit).
type Image struct {
	RefCount            int32
	RawDataHandle       ptr
	RawData             address.Pointer32[byte]
	RawDataLen          uint32
	VariousFlags        [2]byte
	_padding0           [2]byte
	Name                address.Pointer32[address.CStr]
	AssemblyName        address.Pointer32[address.CStr]
	ModuleName          address.Pointer32[address.CStr]
	Version             address.Pointer32[address.CStr]
	MdVersionMajor      int16
	MdVersionMinor      int16
	Guid                address.Pointer32[address.CStr]
	ImageInfo           ptr
	MemPool             ptr
	RawMetadata         address.Pointer32[byte]
	HeapStrings         StreamHeader
	HeapUS              StreamHeader
	HeapBlob            StreamHeader
	HeapGUID            StreamHeader
	HeapTables          StreamHeader
	HeapPDB             StreamHeader
	TablesBase          address.Pointer32[byte]
	ReferencedTables    uint32
	ReferencedTables1   uint32
	ReferencedTableRows address.Pointer32[int32]
	Tables              [56]TableInfo
	References          address.Pointer32[address.Pointer32[Assembly]]
	NReferences         int32
	Modules             address.Pointer32[address.Pointer32[Image]]
	ModuleCount         uint32
	ModulesLoaded       address.Pointer32[byte]
	Files               address.Pointer32[address.Pointer32[Image]]
	FileCount           uint32
	AotModule           ptr
	AotID               [16]byte
	Assembly            address.Pointer32[Assembly]
	MethodCache         ptr
	ClassCache          InternalHashTable
}

// Type mirrors MonoType's fixed-size prefix (32-bit).
type Type struct {
	Data      ptr
	Attrs     uint16
	TypeKind  uint8
	Flags     uint8
	Modifiers uint32
}

// ClassField mirrors MonoClassField (32-bit).
type ClassField struct {
	Type   address.Pointer32[Type]
	Name   address.Pointer32[address.CStr]
	Parent address.Pointer32[Class]
	Offset int32
}

// ClassRuntimeInfo mirrors MonoClassRuntimeInfo (32-bit).
type ClassRuntimeInfo struct {
	MaxDomain     uint16
	_padding      [2]byte
	DomainVtables address.Pointer32[VTable]
}

// VTable mirrors MonoVTable (32-bit); its trailing flexible vtable array
// is immediately followed in target memory by the class's static storage.
type VTable struct {
	Klass                 address.Pointer32[Class]
	GCDescr               ptr
	Domain                ptr
	Type                  ptr
	InterfaceBitmap       address.Pointer32[byte]
	MaxInterfaceID        uint32
	Rank                  uint8
	Initialized           uint8
	_padding1             [2]byte
	Flags                 uint32
	ImtCollisionsBitmap   uint32
	RuntimeGenericContext ptr
	Vtable                ptr
}

// Class mirrors MonoClass (32-bit).
type Class struct {
	ElementClass           address.Pointer32[Class]
	CastClass              address.Pointer32[Class]
	Supertypes             address.Pointer32[address.Pointer32[Class]]
	Idepth                 uint16
	Rank                   uint8
	_padding               uint8
	InstanceSize           int32
	Flags1                 uint32
	MinAlign               uint8
	_padding2              [3]byte
	Flags2                 uint32
	Parent                 address.Pointer32[ClassDef]
	NestedIn               address.Pointer32[Class]
	Image                  address.Pointer32[Image]
	Name                   address.Pointer32[address.CStr]
	NameSpace              address.Pointer32[address.CStr]
	TypeToken              uint32
	VtableSize             int32
	InterfaceCount         uint16
	_padding4              [2]byte
	InterfaceID            uint32
	MaxInterfaceID         uint32
	InterfaceOffsetCount   uint16
	_padding5              [2]byte
	InterfacesPacked       address.Pointer32[address.Pointer32[Class]]
	InterfaceOffsetsPacked address.Pointer32[uint16]
	InterfaceBitmap        address.Pointer32[byte]
	Interfaces             address.Pointer32[address.Pointer32[Class]]
	Sizes                  int32
	Fields                 address.Pointer32[ClassField]
	Methods                address.Pointer32[ptr]
	ThisArg                Type
	ByvalArg               Type
	GCDescr                ptr
	RuntimeInfo            address.Pointer32[ClassRuntimeInfo]
	Vtable                 address.Pointer32[ptr]
	InfrequentData         ptr
	UserData               ptr
}

// ClassDef mirrors MonoClassDef (32-bit).
type ClassDef struct {
	Klass          Class
	Flags          uint32
	FirstMethodIdx uint32
	FirstFieldIdx  uint32
	MethodCount    uint32
	FieldCount     uint32
	NextClassCache address.Pointer32[ClassDef]
}
