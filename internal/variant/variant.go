// Package variant defines the closed set of managed-runtime layouts this
// library can attach to. It lives below the public façade and the walker
// packages so both can depend on it without a cycle.
package variant

// RuntimeVariant tags one of the eight managed-runtime layouts this library
// understands. Determined once per attachment; immutable afterward. This is
// a closed enumeration by design: variants are knowable, bounded, and tied
// to struct layouts that differ arbitrarily, so a tagged dispatch is
// correct here in a way open polymorphism would not be.
type RuntimeVariant int

const (
	// None indicates no supported runtime was detected.
	None RuntimeVariant = iota
	MonoV1_x86
	MonoV1_x64
	MonoV2_x86
	MonoV2_x64
	MonoV3_x64
	Il2Cpp_base_x64
	Il2Cpp_2019_x64
	Il2Cpp_2020_x64
)

func (v RuntimeVariant) String() string {
	switch v {
	case MonoV1_x86:
		return "mono-v1-x86"
	case MonoV1_x64:
		return "mono-v1-x64"
	case MonoV2_x86:
		return "mono-v2-x86"
	case MonoV2_x64:
		return "mono-v2-x64"
	case MonoV3_x64:
		return "mono-v3-x64"
	case Il2Cpp_base_x64:
		return "il2cpp-base-x64"
	case Il2Cpp_2019_x64:
		return "il2cpp-2019-x64"
	case Il2Cpp_2020_x64:
		return "il2cpp-2020-x64"
	default:
		return "none"
	}
}
