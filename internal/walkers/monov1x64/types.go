// Package monov1x64 implements the metadata walker for the earliest 64-bit
// Mono runtime Unity shipped (mono.dll, predating the bdwgc-suffixed
// assembly and the internal_hash_table class cache). Its class cache is
// modeled as the older glib GHashTable/GHashNode shape rather than v2's
// internal_hash_table, since that is the class-cache layout this era of
// Mono actually embedded; everything else follows v2's Assembly/Image
// layout with the tables this era's image format lacked removed.
package monov1x64

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
	_padding       [4]byte
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

// HashNode mirrors glib's GHashNode: a singly-linked chain entry keyed by
// the class name string, predating Mono v2's internal_hash_table cache.
type HashNode struct {
	Key   address.Pointer64[address.CStr]
	Value address.Pointer64[ClassDef]
	Next  address.Pointer64[HashNode]
}

// ClassCache mirrors glib's GHashTable as embedded in MonoImage in this era.
type ClassCache struct {
	Size       int32
	NNodes     int32
	Nodes      address.Pointer64[address.Pointer64[HashNode]]
	HashFunc   ptr
	KeyEqual   ptr
	RefCount   uint32
	_padding   [4]byte
}

// Image mirrors MonoImage, trimmed of the AOT/file-table fields v1 lacked.
type Image struct {
	RefCount       int32
	_padding       [4]byte
	RawDataHandle  ptr
	RawData        address.Pointer64[byte]
	RawDataLen     uint32
	VariousFlags   [2]byte
	_padding0      [2]byte
	Name           address.Pointer64[address.CStr]
	AssemblyName   address.Pointer64[address.CStr]
	ModuleName     address.Pointer64[address.CStr]
	Version        address.Pointer64[address.CStr]
	MdVersionMajor int16
	MdVersionMinor int16
	_padding2      [4]byte
	Guid           address.Pointer64[address.CStr]
	ImageInfo      ptr
	MemPool        ptr
	RawMetadata    address.Pointer64[byte]
	HeapStrings    StreamHeader
	HeapUS         StreamHeader
	HeapBlob       StreamHeader
	HeapGUID       StreamHeader
	HeapTables     StreamHeader
	TablesBase     address.Pointer64[byte]
	Tables         [45]TableInfo
	References     address.Pointer64[address.Pointer64[Assembly]]
	NReferences    int32
	_padding3      [4]byte
	Assembly       address.Pointer64[Assembly]
	MethodCache    ptr
	ClassCache     ClassCache
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
	MaxInterfaceID        uint32
	Rank                  uint8
	Initialized           uint8
	_padding1             [2]byte
	Flags                 uint32
	RuntimeGenericContext ptr
	Vtable                ptr
}

// Class mirrors MonoClass as it existed before v2's interface-bitmap and
// generic-context fields were added.
type Class struct {
	ElementClass   address.Pointer64[Class]
	CastClass      address.Pointer64[Class]
	Supertypes     address.Pointer64[address.Pointer64[Class]]
	Idepth         uint16
	Rank           uint8
	_padding       uint8
	InstanceSize   int32
	Flags1         uint32
	MinAlign       uint8
	_padding2      [3]byte
	Parent         address.Pointer64[ClassDef]
	NestedIn       address.Pointer64[Class]
	Image          address.Pointer64[Image]
	Name           address.Pointer64[address.CStr]
	NameSpace      address.Pointer64[address.CStr]
	TypeToken      uint32
	VtableSize     int32
	InterfaceCount uint16
	_padding4      [2]byte
	InterfaceID    uint32
	MaxInterfaceID uint32
	Interfaces     address.Pointer64[address.Pointer64[Class]]
	Sizes          int32
	_padding6      [4]byte
	Fields         address.Pointer64[ClassField]
	Methods        address.Pointer64[ptr]
	ThisArg        Type
	ByvalArg       Type
	GCDescr        ptr
	RuntimeInfo    address.Pointer64[ClassRuntimeInfo]
	Vtable         address.Pointer64[ptr]
	UserData       ptr
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
}
