package address_test

import (
	"encoding/binary"
	"testing"

	"github.com/unityscope/monowalk/address"
	"github.com/unityscope/monowalk/internal/hostaccess/fakeproc"
)

func TestDecodeRIPRelative(t *testing.T) {
	proc := fakeproc.New()
	instrAddr := address.Address64(0x1000)
	dispOffset := int64(3)
	// instr+3 holds a 4-byte displacement of -0x20, ending at instr+3+4=instr+7.
	var disp [4]byte
	d := int32(-0x20)
	binary.LittleEndian.PutUint32(disp[:], uint32(d))
	proc.WriteAt(instrAddr.AddSigned(dispOffset), disp[:])

	got, err := address.DecodeRIPRelative(proc, instrAddr, dispOffset)
	if err != nil {
		t.Fatalf("DecodeRIPRelative: %v", err)
	}
	want := instrAddr.AddSigned(dispOffset).AddSigned(4).AddSigned(-0x20)
	if got != want {
		t.Fatalf("DecodeRIPRelative() = %s, want %s", got, want)
	}
}

func TestDecodeRIPRelativePositiveDisplacement(t *testing.T) {
	proc := fakeproc.New()
	instrAddr := address.Address64(0x5000)
	var disp [4]byte
	binary.LittleEndian.PutUint32(disp[:], 0x1000)
	proc.WriteAt(instrAddr, disp[:])

	got, err := address.DecodeRIPRelative(proc, instrAddr, 0)
	if err != nil {
		t.Fatalf("DecodeRIPRelative: %v", err)
	}
	want := instrAddr.AddSigned(4).AddSigned(0x1000)
	if got != want {
		t.Fatalf("DecodeRIPRelative() = %s, want %s", got, want)
	}
}
