// Package peexport walks a loaded PE module's export directory to resolve
// an exported function's address by name. Grounded on the same
// DOS-header/NT-header/data-directory layout saferwall/pe decodes from a
// file on disk; here the same fields are read live out of target memory
// through a ProcessAccess instead of a []byte file buffer.
package peexport

import (
	"embed"
	"encoding/binary"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/unityscope/monowalk/address"
)

// ErrNotFound is returned when no export slot's name matches.
var ErrNotFound = errors.New("peexport: export not found")

//go:embed offsets.yaml
var defaultOffsetsFS embed.FS

// Offsets is the on-disk shape of the PE header offsets Find depends on —
// data, not code, so a nonstandard PE layout can be retargeted with Load
// instead of a rebuild.
type Offsets struct {
	PEMagicPE32       uint16 `yaml:"pe_magic_pe32"`
	PEMagicPE32Plus   uint16 `yaml:"pe_magic_pe32_plus"`
	ExportDirOffset32 uint64 `yaml:"export_dir_offset32"`
	ExportDirOffset64 uint64 `yaml:"export_dir_offset64"`
	MaxExportName     int    `yaml:"max_export_name"`
}

var active Offsets

func init() {
	data, err := defaultOffsetsFS.ReadFile("offsets.yaml")
	if err != nil {
		panic(fmt.Errorf("peexport: read embedded offsets.yaml: %w", err))
	}
	if err := yaml.Unmarshal(data, &active); err != nil {
		panic(fmt.Errorf("peexport: parse embedded offsets.yaml: %w", err))
	}
}

// Load parses the YAML file at path and installs it as the active offset
// table. Call it once at startup, before any Find call — it is not safe to
// call concurrently with a Find in flight.
func Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("peexport: read %s: %w", path, err)
	}
	var o Offsets
	if err := yaml.Unmarshal(data, &o); err != nil {
		return fmt.Errorf("peexport: parse %s: %w", path, err)
	}
	active = o
	return nil
}

// Find resolves name to its absolute address within the module mapped at
// base, per the DOS->NT->export-directory walk. Export ordinals are
// ignored: function order in the address table matches name order for the
// names this library looks up.
func Find(proc address.ProcessAccess, base address.Address64, name string) (address.Address64, error) {
	peStartRVA, err := readU32(proc, base.Add(0x3C))
	if err != nil {
		return 0, fmt.Errorf("peexport: read e_lfanew: %w", err)
	}
	ntHeader := base.Add(uint64(peStartRVA))

	magic, err := readU16(proc, ntHeader.Add(24))
	if err != nil {
		return 0, fmt.Errorf("peexport: read optional header magic: %w", err)
	}

	exportDirOff := active.ExportDirOffset32
	if magic == active.PEMagicPE32Plus {
		exportDirOff = active.ExportDirOffset64
	} else if magic != active.PEMagicPE32 {
		return 0, fmt.Errorf("peexport: unrecognized optional header magic %#x", magic)
	}

	exportDirRVA, err := readU32(proc, ntHeader.Add(exportDirOff))
	if err != nil {
		return 0, fmt.Errorf("peexport: read export directory RVA: %w", err)
	}
	if exportDirRVA == 0 {
		return 0, ErrNotFound
	}
	exportDir := base.Add(uint64(exportDirRVA))

	numFunctions, err := readU32(proc, exportDir.Add(0x14))
	if err != nil {
		return 0, fmt.Errorf("peexport: read NumberOfFunctions: %w", err)
	}
	addrTableRVA, err := readU32(proc, exportDir.Add(0x1C))
	if err != nil {
		return 0, fmt.Errorf("peexport: read AddressOfFunctions: %w", err)
	}
	nameTableRVA, err := readU32(proc, exportDir.Add(0x20))
	if err != nil {
		return 0, fmt.Errorf("peexport: read AddressOfNames: %w", err)
	}

	for i := uint32(0); i < numFunctions; i++ {
		nameRVA, err := readU32(proc, base.Add(uint64(nameTableRVA)+4*uint64(i)))
		if err != nil {
			continue
		}
		raw, err := proc.ReadBytes(base.Add(uint64(nameRVA)), active.MaxExportName)
		if err != nil {
			continue
		}
		if !nameMatches(raw, name) {
			continue
		}
		funcRVA, err := readU32(proc, base.Add(uint64(addrTableRVA)+4*uint64(i)))
		if err != nil {
			return 0, fmt.Errorf("peexport: read function RVA at slot %d: %w", i, err)
		}
		return base.Add(uint64(funcRVA)), nil
	}
	return 0, ErrNotFound
}

// nameMatches reports whether the NUL-terminated prefix of raw equals name.
func nameMatches(raw []byte, name string) bool {
	end := len(raw)
	for i, b := range raw {
		if b == 0 {
			end = i
			break
		}
	}
	return string(raw[:end]) == name
}

func readU32(proc address.ProcessAccess, addr address.Address64) (uint32, error) {
	buf, err := proc.ReadBytes(addr, 4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf), nil
}

func readU16(proc address.ProcessAccess, addr address.Address64) (uint16, error) {
	buf, err := proc.ReadBytes(addr, 2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(buf), nil
}
