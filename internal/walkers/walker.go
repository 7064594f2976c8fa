// Package walkers declares the per-variant metadata-walker contract and a
// self-registering registry of concrete implementations, one per
// internal/walkers/<variant> subpackage. The registry mirrors the
// self-registering stub pattern: each variant package registers itself
// from an init() function, and the façade looks walkers up by tag instead
// of switching on a type.
package walkers

import (
	"github.com/unityscope/monowalk/address"
	"github.com/unityscope/monowalk/internal/variant"
)

// Walker is the per-variant contract every metadata walker implements.
// Root, Image, and Class are opaque values: each walker produces and
// consumes only its own concrete types, type-asserting them back out of
// the `any` the façade threads through. The façade never inspects them.
type Walker interface {
	// Attach locates the variant's root pointer(s) in the target and
	// returns an opaque root handle.
	Attach(proc address.ProcessAccess) (root any, ok bool, err error)

	// GetImage searches the root's assembly graph for name and returns
	// the matching image snapshot.
	GetImage(proc address.ProcessAccess, root any, name string) (image any, ok bool, err error)

	// GetClass searches image's class graph for name, requiring a
	// non-null fields pointer on any candidate match.
	GetClass(proc address.ProcessAccess, image any, name string) (class any, ok bool, err error)

	// GetField returns the byte offset of the named field.
	GetField(proc address.ProcessAccess, class any, name string) (offset uint64, ok bool, err error)

	// GetStaticTable returns the address of the class's static-field
	// storage.
	GetStaticTable(proc address.ProcessAccess, class any) (addr address.Address64, ok bool, err error)

	// GetParent returns the class's parent class, if any.
	GetParent(proc address.ProcessAccess, class any) (parent any, ok bool, err error)
}

var registry = make(map[variant.RuntimeVariant]Walker)

// Register installs w as the walker for v. Called from each variant
// package's init().
func Register(v variant.RuntimeVariant, w Walker) {
	registry[v] = w
}

// Get returns the registered walker for v, if any.
func Get(v variant.RuntimeVariant) (Walker, bool) {
	w, ok := registry[v]
	return w, ok
}
