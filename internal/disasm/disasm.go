// Package disasm renders the few bytes around a signature match as
// human-readable x86/x86-64 assembly. It is diagnostic only: nothing in the
// attach or walk path depends on it, and no cmd/monowalk command calls it.
package disasm

import (
	"fmt"
	"strings"

	"golang.org/x/arch/x86/x86asm"

	"github.com/unityscope/monowalk/internal/ui/colorize"
)

// Line is one decoded instruction at a given byte offset into the window
// passed to Window.
type Line struct {
	Offset int
	Length int
	Text   string
}

// Window decodes as many consecutive instructions as it can starting at
// buf[0], stopping at the first decode failure or once buf is exhausted.
// mode64 selects the x86-64 vs. x86 instruction set.
func Window(buf []byte, mode64 bool) []Line {
	bits := 32
	if mode64 {
		bits = 64
	}
	var lines []Line
	off := 0
	for off < len(buf) {
		inst, err := x86asm.Decode(buf[off:], bits)
		if err != nil || inst.Len == 0 {
			break
		}
		lines = append(lines, Line{Offset: off, Length: inst.Len, Text: x86asm.GNUSyntax(inst, 0, nil)})
		off += inst.Len
	}
	return lines
}

// Render formats decoded lines as a colorized, address-relative listing
// suitable for direct terminal output.
func Render(base uint64, lines []Line) string {
	var b strings.Builder
	for _, l := range lines {
		addr := colorize.Address(base + uint64(l.Offset))
		insn := colorize.Instruction(l.Text)
		fmt.Fprintf(&b, "%s  %s\n", addr, insn)
	}
	return b.String()
}
