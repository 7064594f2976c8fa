package monowalk

import "context"

// Image is a loaded assembly's metadata image, resolved via
// Attachment.GetImage. Its fields are a snapshot read at resolution time;
// it does not track subsequent mutation of the target.
type Image struct {
	attachment *Attachment
	handle     any
}

// GetClass resolves a class by its bare name within this image.
func (img *Image) GetClass(name string) (*Class, bool, error) {
	a := img.attachment
	handle, ok, err := a.walker.GetClass(a.proc, img.handle, name)
	a.log.Lookup("class", name, ok)
	if err != nil || !ok {
		return nil, false, err
	}
	return &Class{attachment: a, handle: handle}, true, nil
}

// WaitClass is GetClass's asynchronous sibling.
func (img *Image) WaitClass(ctx context.Context, name string) (*Class, bool) {
	return retryFor(ctx, func() (*Class, bool, error) { return img.GetClass(name) })
}
