// Package monowalk resolves the managed-runtime metadata graph of a running
// Unity process — Mono or IL2CPP — into concrete target addresses and field
// offsets, without injecting any code into the target. It never writes to
// the target process; every operation here is a read.
//
// The library is purely synchronous and single-threaded: every method
// performs blocking reads on the calling goroutine via the caller-supplied
// ProcessAccess. It holds no file descriptors, sockets, or background
// goroutines, and needs no Close/teardown. Each Wait* method is the
// asynchronous sibling of its synchronous counterpart, retrying the same
// probe under internal/retry until it succeeds or ctx is cancelled.
package monowalk

import (
	"context"

	"github.com/google/uuid"

	"github.com/unityscope/monowalk/address"
	"github.com/unityscope/monowalk/internal/log"
	"github.com/unityscope/monowalk/internal/scan"
	"github.com/unityscope/monowalk/internal/variant"
	"github.com/unityscope/monowalk/internal/variantdetect"
	"github.com/unityscope/monowalk/internal/walkers"

	_ "github.com/unityscope/monowalk/internal/walkers/il2cpp2019"
	_ "github.com/unityscope/monowalk/internal/walkers/il2cpp2020"
	_ "github.com/unityscope/monowalk/internal/walkers/il2cppbase"
	_ "github.com/unityscope/monowalk/internal/walkers/monov1x64"
	_ "github.com/unityscope/monowalk/internal/walkers/monov1x86"
	_ "github.com/unityscope/monowalk/internal/walkers/monov2x64"
	_ "github.com/unityscope/monowalk/internal/walkers/monov2x86"
	_ "github.com/unityscope/monowalk/internal/walkers/monov3x64"
)

// DefaultAssemblyName is the assembly GetDefaultImage resolves.
const DefaultAssemblyName = "Assembly-CSharp"

// RuntimeVariant re-exports the closed set of managed-runtime layouts this
// library understands, so callers never need to import internal/variant.
type RuntimeVariant = variant.RuntimeVariant

const (
	MonoV1_x86      = variant.MonoV1_x86
	MonoV1_x64      = variant.MonoV1_x64
	MonoV2_x86      = variant.MonoV2_x86
	MonoV2_x64      = variant.MonoV2_x64
	MonoV3_x64      = variant.MonoV3_x64
	Il2Cpp_base_x64 = variant.Il2Cpp_base_x64
	Il2Cpp_2019_x64 = variant.Il2Cpp_2019_x64
	Il2Cpp_2020_x64 = variant.Il2Cpp_2020_x64
)

// Attachment is a resolved handle onto one managed runtime in a target
// process. It borrows the ProcessAccess passed to TryAttach/Attach for its
// entire lifetime; it owns nothing that needs releasing.
type Attachment struct {
	proc      address.ProcessAccess
	variant   variant.RuntimeVariant
	walker    walkers.Walker
	root      any
	log       *log.Logger
	sessionID uuid.UUID
}

// Variant reports which managed-runtime layout this attachment resolved to.
func (a *Attachment) Variant() variant.RuntimeVariant { return a.variant }

// SessionID is a random identifier minted for this attachment, useful for
// correlating its log lines across a host process that holds several
// attachments (e.g. to multiple game instances) at once.
func (a *Attachment) SessionID() uuid.UUID { return a.sessionID }

// TryAttach detects the target's runtime variant (scanning loaded modules
// and the UnityPlayer.dll version string) and attaches using the matching
// walker. It returns (nil, false, nil) for any target this library does not
// recognize — 32-bit IL2CPP, an unlisted module set, or a signature miss —
// never an error for "not a Unity process".
func TryAttach(proc address.ProcessAccess) (*Attachment, bool, error) {
	return TryAttachWithScanner(proc, scan.Linear{})
}

// TryAttachWithScanner is TryAttach with an explicit byte-pattern scanner,
// for hosts that supply a faster-than-linear implementation.
func TryAttachWithScanner(proc address.ProcessAccess, scanner scan.Scanner) (*Attachment, bool, error) {
	v, ok, err := variantdetect.Detect(proc, scanner)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}
	return Attach(proc, v)
}

// Attach attaches using a caller-supplied runtime variant, skipping
// detection entirely. Useful when the host has already classified the
// target (e.g. cached from a prior TryAttach) and wants to skip the scan.
func Attach(proc address.ProcessAccess, v variant.RuntimeVariant) (*Attachment, bool, error) {
	w, ok := walkers.Get(v)
	if !ok {
		return nil, false, nil
	}
	root, ok, err := w.Attach(proc)
	if err != nil || !ok {
		return nil, false, err
	}
	a := &Attachment{proc: proc, variant: v, walker: w, root: root, log: log.L, sessionID: uuid.New()}
	a.log.Attach(v.String(), a.sessionID.String())
	return a, true, nil
}

// GetImage resolves a loaded assembly by name, e.g. "Assembly-CSharp".
func (a *Attachment) GetImage(name string) (*Image, bool, error) {
	handle, ok, err := a.walker.GetImage(a.proc, a.root, name)
	a.log.Lookup("image", name, ok)
	if err != nil || !ok {
		return nil, false, err
	}
	return &Image{attachment: a, handle: handle}, true, nil
}

// GetDefaultImage resolves DefaultAssemblyName ("Assembly-CSharp"), the
// assembly that holds a Unity project's own gameplay code in the common
// case of a single main-project DLL.
func (a *Attachment) GetDefaultImage() (*Image, bool, error) {
	return a.GetImage(DefaultAssemblyName)
}

// WaitImage is GetImage's asynchronous sibling: it retries the lookup at
// internal/retry.DefaultInterval until it succeeds or ctx is cancelled.
func (a *Attachment) WaitImage(ctx context.Context, name string) (*Image, bool) {
	return retryFor(ctx, func() (*Image, bool, error) { return a.GetImage(name) })
}

// WaitDefaultImage is GetDefaultImage's asynchronous sibling.
func (a *Attachment) WaitDefaultImage(ctx context.Context) (*Image, bool) {
	return a.WaitImage(ctx, DefaultAssemblyName)
}
