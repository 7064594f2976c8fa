// Package sigs holds the byte-pattern catalog used to locate key globals in
// a target's .text section. The catalog is data, not code: the shipped
// values live in the embedded catalog.yaml and can be retargeted at a Unity
// fork or future PE layout change with Load, without a rebuild.
package sigs

import (
	"embed"
	"fmt"
	"os"
	"unicode/utf16"

	"gopkg.in/yaml.v3"

	"github.com/unityscope/monowalk/internal/scan"
)

//go:embed catalog.yaml
var defaultCatalogFS embed.FS

// Catalog is the on-disk shape of the signature catalog: pattern text as
// IDA-style hex tokens, wildcards as "??" or a single wildcard nibble
// ("C?"), exactly as scan.ParsePattern expects.
type Catalog struct {
	Mono64             string `yaml:"mono64"`
	Mono32First        string `yaml:"mono32_first"`
	Mono32Second       string `yaml:"mono32_second"`
	Il2CppAssemblies   string `yaml:"il2cpp_assemblies"`
	Il2CppTypeDefTable string `yaml:"il2cpp_type_def_table"`
	Il2CppMetadata     string `yaml:"il2cpp_metadata"`
	UnityVersionMarker string `yaml:"unity_version_marker"`
}

// Named signatures, compiled from the active Catalog (catalog.yaml by
// default, or whatever Load last installed).
var (
	// PatternMono64 locates mono_assembly_foreach's RIP-relative load of
	// the assembly GList root on 64-bit Mono v2/v3.
	PatternMono64 []scan.PatternByte

	// PatternMono32First is tried before PatternMono32Second when scanning
	// 32-bit mono_assembly_foreach.
	PatternMono32First  []scan.PatternByte
	PatternMono32Second []scan.PatternByte

	// PatternIl2CppAssemblies locates the RIP-relative load of the IL2CPP
	// assemblies array root.
	PatternIl2CppAssemblies []scan.PatternByte

	// PatternIl2CppTypeDefTable locates the RIP-relative load of the
	// type_info_definition_table root.
	PatternIl2CppTypeDefTable []scan.PatternByte

	// PatternIl2CppMetadata locates the metadata-version load used to
	// distinguish the 2019 vs. 2020 IL2CPP era.
	PatternIl2CppMetadata []scan.PatternByte

	// UnityVersionMarker is the UTF-16LE encoding of the catalog's
	// unity_version_marker string, the text preceding the build's version
	// number inside UnityPlayer.dll.
	UnityVersionMarker []byte

	// PatternUnityVersion is UnityVersionMarker expressed as an exact (no
	// wildcard) scan pattern.
	PatternUnityVersion []scan.PatternByte
)

func init() {
	data, err := defaultCatalogFS.ReadFile("catalog.yaml")
	if err != nil {
		panic(fmt.Errorf("sigs: read embedded catalog.yaml: %w", err))
	}
	var cat Catalog
	if err := yaml.Unmarshal(data, &cat); err != nil {
		panic(fmt.Errorf("sigs: parse embedded catalog.yaml: %w", err))
	}
	if err := compile(cat); err != nil {
		panic(fmt.Errorf("sigs: compile embedded catalog.yaml: %w", err))
	}
}

// Load parses the YAML file at path and installs it as the active catalog,
// replacing every Pattern* var. Call it once at startup, before any
// Attach/Detect call — it is not safe to call concurrently with a walker
// in flight, since the Pattern* vars it rewrites are read without a lock.
func Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("sigs: read %s: %w", path, err)
	}
	var cat Catalog
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return fmt.Errorf("sigs: parse %s: %w", path, err)
	}
	if err := compile(cat); err != nil {
		return fmt.Errorf("sigs: compile %s: %w", path, err)
	}
	return nil
}

func compile(cat Catalog) error {
	parsed := make(map[string][]scan.PatternByte, 6)
	for name, text := range map[string]string{
		"mono64":                cat.Mono64,
		"mono32_first":          cat.Mono32First,
		"mono32_second":         cat.Mono32Second,
		"il2cpp_assemblies":     cat.Il2CppAssemblies,
		"il2cpp_type_def_table": cat.Il2CppTypeDefTable,
		"il2cpp_metadata":       cat.Il2CppMetadata,
	} {
		p, err := scan.ParsePattern(text)
		if err != nil {
			return fmt.Errorf("signature %q: %w", name, err)
		}
		parsed[name] = p
	}

	PatternMono64 = parsed["mono64"]
	PatternMono32First = parsed["mono32_first"]
	PatternMono32Second = parsed["mono32_second"]
	PatternIl2CppAssemblies = parsed["il2cpp_assemblies"]
	PatternIl2CppTypeDefTable = parsed["il2cpp_type_def_table"]
	PatternIl2CppMetadata = parsed["il2cpp_metadata"]

	UnityVersionMarker = utf16LEBytes(cat.UnityVersionMarker)
	PatternUnityVersion = exactPattern(UnityVersionMarker)
	return nil
}

func exactPattern(buf []byte) []scan.PatternByte {
	out := make([]scan.PatternByte, len(buf))
	for i, b := range buf {
		out[i] = scan.PatternByte{Value: b, Mask: 0xFF}
	}
	return out
}

func utf16LEBytes(s string) []byte {
	units := utf16.Encode([]rune(s))
	out := make([]byte, 0, len(units)*2)
	for _, u := range units {
		out = append(out, byte(u), byte(u>>8))
	}
	return out
}
