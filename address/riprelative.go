package address

import "encoding/binary"

// DecodeRIPRelative resolves the absolute target of an x86-64 RIP-relative
// LEA/MOV whose 4-byte signed displacement sits at instrAddr+dispOffset:
// target = instrAddr + dispOffset + 4 + i32@(instrAddr+dispOffset).
func DecodeRIPRelative(proc ProcessAccess, instrAddr Address64, dispOffset int64) (Address64, error) {
	dispAt := instrAddr.AddSigned(dispOffset)
	buf, err := proc.ReadBytes(dispAt, 4)
	if err != nil {
		return 0, err
	}
	disp := int32(binary.LittleEndian.Uint32(buf))
	return dispAt.AddSigned(4).AddSigned(int64(disp)), nil
}
