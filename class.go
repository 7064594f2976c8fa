package monowalk

import (
	"context"

	"github.com/unityscope/monowalk/address"
)

// Class is a resolved managed-runtime class, opaque beyond the field/parent
// lookups the variant's walker exposes. Its concrete representation (a Mono
// ClassDef or an IL2CPP Class) is internal to the matched walker.
type Class struct {
	attachment *Attachment
	handle     any
}

// GetField returns the byte offset of the instance field named name.
func (c *Class) GetField(name string) (uint64, bool, error) {
	a := c.attachment
	offset, ok, err := a.walker.GetField(a.proc, c.handle, name)
	a.log.Lookup("field", name, ok)
	return offset, ok, err
}

// WaitField is GetField's asynchronous sibling.
func (c *Class) WaitField(ctx context.Context, name string) (uint64, bool) {
	return retryFor(ctx, func() (uint64, bool, error) { return c.GetField(name) })
}

// GetStaticTable returns the base address of this class's static-field
// storage, distinct from any instance's layout.
func (c *Class) GetStaticTable() (address.Address64, bool, error) {
	a := c.attachment
	return a.walker.GetStaticTable(a.proc, c.handle)
}

// WaitStaticTable is GetStaticTable's asynchronous sibling.
func (c *Class) WaitStaticTable(ctx context.Context) (address.Address64, bool) {
	return retryFor(ctx, c.GetStaticTable)
}

// GetParent returns this class's base class, or (nil, false, nil) at the
// root of the hierarchy.
func (c *Class) GetParent() (*Class, bool, error) {
	a := c.attachment
	handle, ok, err := a.walker.GetParent(a.proc, c.handle)
	if err != nil || !ok {
		return nil, false, err
	}
	return &Class{attachment: a, handle: handle}, true, nil
}

// WaitParent is GetParent's asynchronous sibling.
func (c *Class) WaitParent(ctx context.Context) (*Class, bool) {
	return retryFor(ctx, c.GetParent)
}
