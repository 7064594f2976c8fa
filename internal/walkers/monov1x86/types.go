// Package monov1x86 implements the metadata walker for the earliest 32-bit
// Mono runtime Unity shipped (mono.dll). It combines monov1x64's older
// GHashTable class-cache shape with monov2x86's 32-bit pointer width and
// absolute-operand attachment scan.
package monov1x86

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
	_padding       [4]byte
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

// HashNode mirrors glib's GHashNode (32-bit).
type HashNode struct {
	Key   address.Pointer32[address.CStr]
	Value address.Pointer32[ClassDef]
	Next  address.Pointer32[HashNode]
}

// ClassCache mirrors glib's GHashTable (32-bit).
type ClassCache struct {
	Size     int32
	NNodes   int32
	Nodes    address.Pointer32[address.Pointer32[HashNode]]
	HashFunc ptr
	KeyEqual ptr
	RefCount uint32
}

// Image mirrors MonoImage (32-bit), trimmed of v2's AOT/file-table fields.
type Image struct {
	RefCount       int32
	RawDataHandle  ptr
	RawData        address.Pointer32[byte]
	RawDataLen     uint32
	VariousFlags   [2]byte
	_padding0      [2]byte
	Name           address.Pointer32[address.CStr]
	AssemblyName   address.Pointer32[address.CStr]
	ModuleName     address.Pointer32[address.CStr]
	Version        address.Pointer32[address.CStr]
	MdVersionMajor int16
	MdVersionMinor int16
	Guid           address.Pointer32[address.CStr]
	ImageInfo      ptr
	MemPool        ptr
	RawMetadata    address.Pointer32[byte]
	HeapStrings    StreamHeader
	HeapUS         StreamHeader
	HeapBlob       StreamHeader
	HeapGUID       StreamHeader
	HeapTables     StreamHeader
	TablesBase     address.Pointer32[byte]
	Tables         [45]TableInfo
	References     address.Pointer32[address.Pointer32[Assembly]]
	NReferences    int32
	Assembly       address.Pointer32[Assembly]
	MethodCache    ptr
	ClassCache     ClassCache
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

// VTable mirrors MonoVTable (32-bit).
type VTable struct {
	Klass                 address.Pointer32[Class]
	GCDescr               ptr
	Domain                ptr
	Type                  ptr
	MaxInterfaceID        uint32
	Rank                  uint8
	Initialized           uint8
	_padding1             [2]byte
	Flags                 uint32
	RuntimeGenericContext ptr
	Vtable                ptr
}

// Class mirrors MonoClass (32-bit) as it existed before v2's interface
// bitmap and generic-context fields were added.
type Class struct {
	ElementClass   address.Pointer32[Class]
	CastClass      address.Pointer32[Class]
	Supertypes     address.Pointer32[address.Pointer32[Class]]
	Idepth         uint16
	Rank           uint8
	_padding       uint8
	InstanceSize   int32
	Flags1         uint32
	MinAlign       uint8
	_padding2      [3]byte
	Parent         address.Pointer32[ClassDef]
	NestedIn       address.Pointer32[Class]
	Image          address.Pointer32[Image]
	Name           address.Pointer32[address.CStr]
	NameSpace      address.Pointer32[address.CStr]
	TypeToken      uint32
	VtableSize     int32
	InterfaceCount uint16
	_padding4      [2]byte
	InterfaceID    uint32
	MaxInterfaceID uint32
	Interfaces     address.Pointer32[address.Pointer32[Class]]
	Sizes          int32
	Fields         address.Pointer32[ClassField]
	Methods        address.Pointer32[ptr]
	ThisArg        Type
	ByvalArg       Type
	GCDescr        ptr
	RuntimeInfo    address.Pointer32[ClassRuntimeInfo]
	Vtable         address.Pointer32[ptr]
	UserData       ptr
}

// ClassDef mirrors MonoClassDef (32-bit): the class-cache entry, klass-first.
type ClassDef struct {
	Klass          Class
	Flags          uint32
	FirstMethodIdx uint32
	FirstFieldIdx  uint32
	MethodCount    uint32
	FieldCount     uint32
}
