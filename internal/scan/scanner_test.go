package scan

import (
	"testing"

	"github.com/unityscope/monowalk/address"
	"github.com/unityscope/monowalk/internal/hostaccess/fakeproc"
)

func TestLinearFindExactMatch(t *testing.T) {
	buf := []byte{0x90, 0x48, 0x8B, 0x0D, 0xAA, 0xBB, 0xCC, 0xDD}
	pattern := MustParsePattern("48 8B 0D ?? ?? ?? ??")

	off, ok := Linear{}.Find(buf, pattern)
	if !ok {
		t.Fatal("expected match")
	}
	if off != 1 {
		t.Fatalf("match offset = %d, want 1", off)
	}
}

func TestLinearFindNoMatch(t *testing.T) {
	buf := []byte{0x90, 0x90, 0x90}
	pattern := MustParsePattern("48 8B")
	if _, ok := (Linear{}).Find(buf, pattern); ok {
		t.Fatal("expected no match")
	}
}

func TestLinearFindPatternLongerThanBuffer(t *testing.T) {
	buf := []byte{0x90}
	pattern := MustParsePattern("48 8B 0D")
	if _, ok := (Linear{}).Find(buf, pattern); ok {
		t.Fatal("expected no match when pattern exceeds buffer length")
	}
}

func TestRegionReturnsAbsoluteAddress(t *testing.T) {
	proc := fakeproc.New()
	base := address.Address64(0x14000)
	proc.WriteAt(base, []byte{0x90, 0x90, 0x48, 0x8B, 0x0D, 0x01, 0x02, 0x03, 0x04})

	pattern := MustParsePattern("48 8B 0D")
	addr, ok, err := Region(proc, Linear{}, base, 9, pattern)
	if err != nil {
		t.Fatalf("Region: %v", err)
	}
	if !ok {
		t.Fatal("expected match")
	}
	if want := base.Add(2); addr != want {
		t.Fatalf("Region address = %s, want %s", addr, want)
	}
}

func TestRegionNoMatch(t *testing.T) {
	proc := fakeproc.New()
	base := address.Address64(0x15000)
	proc.WriteAt(base, []byte{0x90, 0x90, 0x90, 0x90})

	pattern := MustParsePattern("48 8B 0D")
	_, ok, err := Region(proc, Linear{}, base, 4, pattern)
	if err != nil {
		t.Fatalf("Region: %v", err)
	}
	if ok {
		t.Fatal("expected no match")
	}
}
