// Package colorize applies terminal color to the two kinds of text
// monowalk's CLI prints: disassembly listings (via the chroma-based
// Instruction) and resolved metadata paths — variant names, image/class/field
// names, and byte offsets (via Variant/Path/Offset). The two use deliberately
// different palettes so a resolved "image.class.field = +0xNN" line reads
// distinctly from a disasm-dark instruction listing.
package colorize

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// getAssemblyLexer returns an appropriate assembly lexer with fallbacks
func getAssemblyLexer() chroma.Lexer {
	candidates := []string{"gas", "GAS", "Gas", "nasm"}
	for _, name := range candidates {
		if lexer := lexers.Get(name); lexer != nil {
			return lexer
		}
	}
	return nil
}

// getDisasmStyle returns the disassembly style with fallbacks
func getDisasmStyle() *chroma.Style {
	candidates := []string{"disasm-dark", "dracula", "monokai"}
	for _, name := range candidates {
		if style := styles.Get(name); style != nil {
			return style
		}
	}
	return styles.Fallback
}

// getTerminalFormatter returns an appropriate terminal formatter
func getTerminalFormatter() chroma.Formatter {
	candidates := []string{"terminal16m", "terminal256"}
	for _, name := range candidates {
		if formatter := formatters.Get(name); formatter != nil {
			return formatter
		}
	}
	return formatters.Fallback
}

// IsDisabled returns true if colors are disabled via environment
func IsDisabled() bool {
	return os.Getenv("MONOWALK_NO_COLOR") != "" || os.Getenv("NO_COLOR") != ""
}

// Instruction colorizes an assembly instruction using Chroma
func Instruction(insn string) string {
	if IsDisabled() {
		return insn
	}

	lexer := lexers.Get("nasm")
	if lexer == nil {
		lexer = getAssemblyLexer()
		if lexer == nil {
			return insn
		}
	}

	_ = DisasmDark // Force registration
	style := getDisasmStyle()
	formatter := getTerminalFormatter()

	iterator, err := lexer.Tokenise(nil, insn)
	if err != nil {
		return insn
	}

	var buf strings.Builder
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return insn
	}

	return strings.TrimSuffix(buf.String(), "\n")
}

// Address formats an address in yellow
func Address(addr uint64) string {
	if IsDisabled() {
		return fmt.Sprintf("%08X", addr)
	}
	return fmt.Sprintf("\033[38;2;255;200;0m%08X\033[0m", addr)
}

// FuncName formats a function name in yellow, matching Address.
func FuncName(name string) string {
	if IsDisabled() {
		return name
	}
	return fmt.Sprintf("\033[38;2;255;200;0m%s\033[0m", name)
}

// Detail formats detail text in light gray
func Detail(detail string) string {
	if IsDisabled() {
		return detail
	}
	return fmt.Sprintf("\033[38;2;180;180;180m%s\033[0m", detail)
}

// Border formats border characters in dark gray
func Border(s string) string {
	if IsDisabled() {
		return s
	}
	return fmt.Sprintf("\033[38;2;80;80;80m%s\033[0m", s)
}

// Comment formats comments in white
func Comment(s string) string {
	if IsDisabled() {
		return s
	}
	return fmt.Sprintf("\033[38;2;255;255;255m%s\033[0m", s)
}

// Header formats header text in blue.
func Header(s string) string {
	if IsDisabled() {
		return s
	}
	return fmt.Sprintf("\033[38;2;86;156;214m%s\033[0m", s)
}

// HexBytes formats hex opcode bytes in light gray
func HexBytes(s string) string {
	if IsDisabled() {
		return s
	}
	return fmt.Sprintf("\033[38;2;180;180;180m%s\033[0m", s)
}

// Error formats error messages in pink
func Error(s string) string {
	if IsDisabled() {
		return s
	}
	return fmt.Sprintf("\033[38;2;255;128;192m%s\033[0m", s)
}

// String formats string values in pink/magenta
func String(s string) string {
	if IsDisabled() {
		return s
	}
	return fmt.Sprintf("\033[38;2;255;128;192m%s\033[0m", s)
}

// Variant formats a detected runtime variant name (info's output), in teal —
// distinct from any disasm color so "variant: ..." reads as a status line,
// not a decoded instruction.
func Variant(name string) string {
	if IsDisabled() {
		return name
	}
	return fmt.Sprintf("\033[38;2;64;196;176m%s\033[0m", name)
}

// Image formats an assembly/image name (field's output), blue.
func Image(name string) string {
	if IsDisabled() {
		return name
	}
	return fmt.Sprintf("\033[38;2;95;175;255m%s\033[0m", name)
}

// Class formats a class name, purple.
func Class(name string) string {
	if IsDisabled() {
		return name
	}
	return fmt.Sprintf("\033[38;2;199;146;234m%s\033[0m", name)
}

// Field formats a field name, green.
func Field(name string) string {
	if IsDisabled() {
		return name
	}
	return fmt.Sprintf("\033[38;2;166;226;46m%s\033[0m", name)
}

// Offset formats a resolved byte offset, orange.
func Offset(off uint64) string {
	text := fmt.Sprintf("+0x%x", off)
	if IsDisabled() {
		return text
	}
	return fmt.Sprintf("\033[38;2;255;180;84m%s\033[0m", text)
}

// Path joins image, class, and field names with Offset into the line field
// prints for a resolved lookup: "image.class.field = +0xNN".
func Path(imageName, className, fieldName string, offset uint64) string {
	return fmt.Sprintf("%s.%s.%s = %s", Image(imageName), Class(className), Field(fieldName), Offset(offset))
}
