// Package variantdetect classifies an attached target into one of the
// eight supported RuntimeVariant tags by inspecting its loaded modules,
// per the detection pipeline the original Jujstme/asr dotnet module walks
// before picking a concrete walker.
package variantdetect

import (
	"fmt"
	"strings"

	"golang.org/x/sync/singleflight"

	"github.com/unityscope/monowalk/address"
	"github.com/unityscope/monowalk/internal/archdetect"
	"github.com/unityscope/monowalk/internal/scan"
	"github.com/unityscope/monowalk/internal/sigs"
	"github.com/unityscope/monowalk/internal/variant"
)

const (
	moduleGameAssembly = "GameAssembly.dll"
	moduleUnityPlayer  = "UnityPlayer.dll"
	moduleMono1        = "mono.dll"
	moduleMono2        = "mono-2.0-bdwgc.dll"
	unityVersionOffset = 0x1E // bytes past the "Unity Version" marker to the version digits
	unityVersionWindow = 12   // 6 UTF-16 codepoints
)

var group singleflight.Group

// Detect classifies proc per §4.4. A racing pair of Detect calls against
// the same process is deduplicated via singleflight, since concurrent
// trainers/overlays attaching to one host process would otherwise repeat
// an identical module/signature scan.
func Detect(proc address.ProcessAccess, scanner scan.Scanner) (variant.RuntimeVariant, bool, error) {
	key := fmt.Sprintf("%p", proc)
	v, err, _ := group.Do(key, func() (any, error) {
		return detect(proc, scanner)
	})
	if err != nil {
		return variant.None, false, err
	}
	rv := v.(variant.RuntimeVariant)
	return rv, rv != variant.None, nil
}

func detect(proc address.ProcessAccess, scanner scan.Scanner) (variant.RuntimeVariant, error) {
	if _, err := proc.GetModuleRange(moduleGameAssembly); err == nil {
		return detectIl2Cpp(proc, scanner)
	}
	if base, err := proc.GetModuleAddress(moduleMono1); err == nil {
		det := archdetect.PECoffDetector{Process: proc}
		machine, err := det.MachineType(base)
		if err != nil {
			return variant.None, err
		}
		if machine == archdetect.X86 {
			return variant.MonoV1_x86, nil
		}
		return variant.MonoV1_x64, nil
	}
	if _, err := proc.GetModuleAddress(moduleMono2); err == nil {
		return detectMonoV2OrV3(proc, scanner)
	}
	return variant.None, nil
}

func detectIl2Cpp(proc address.ProcessAccess, scanner scan.Scanner) (variant.RuntimeVariant, error) {
	unityRange, err := proc.GetModuleRange(moduleUnityPlayer)
	if err != nil {
		return variant.None, nil
	}
	det := archdetect.PECoffDetector{Process: proc}
	machine, err := det.MachineType(unityRange.Base)
	if err != nil {
		return variant.None, err
	}
	if machine == archdetect.X86 {
		return variant.None, nil // 32-bit IL2CPP unsupported
	}

	major, _, ok, err := unityVersion(proc, scanner, unityRange)
	if err != nil {
		return variant.None, err
	}
	if !ok {
		return variant.None, nil
	}

	if major < 2019 {
		return variant.Il2Cpp_base_x64, nil
	}
	if major == 2019 {
		return variant.Il2Cpp_2019_x64, nil
	}

	gameRange, err := proc.GetModuleRange(moduleGameAssembly)
	if err != nil {
		return variant.None, err
	}
	metaAddr, found, err := scan.Region(proc, scanner, gameRange.Base, int(gameRange.Size), sigs.PatternIl2CppMetadata)
	if err != nil {
		return variant.None, err
	}
	if !found {
		return variant.Il2Cpp_2019_x64, nil
	}
	target, err := address.DecodeRIPRelative(proc, metaAddr, 3)
	if err != nil {
		return variant.None, err
	}
	buf, err := proc.ReadBytes(target.Add(4), 4)
	if err != nil {
		return variant.None, err
	}
	metadataVersion := int32(buf[0]) | int32(buf[1])<<8 | int32(buf[2])<<16 | int32(buf[3])<<24
	if metadataVersion < 27 {
		return variant.Il2Cpp_2019_x64, nil
	}
	return variant.Il2Cpp_2020_x64, nil
}

func detectMonoV2OrV3(proc address.ProcessAccess, scanner scan.Scanner) (variant.RuntimeVariant, error) {
	unityRange, err := proc.GetModuleRange(moduleUnityPlayer)
	if err != nil {
		return variant.None, nil
	}
	major, minor, ok, err := unityVersion(proc, scanner, unityRange)
	if err != nil {
		return variant.None, err
	}
	if !ok {
		return variant.None, nil
	}

	if (major == 2021 && minor >= 2) || major > 2021 {
		return variant.MonoV3_x64, nil
	}

	det := archdetect.PECoffDetector{Process: proc}
	machine, err := det.MachineType(unityRange.Base)
	if err != nil {
		return variant.None, err
	}
	if machine == archdetect.X86 {
		return variant.MonoV2_x86, nil
	}
	return variant.MonoV2_x64, nil
}

// unityVersion locates the "Unity Version" marker in rng and parses the
// major/minor segments of the dotted version string that follows it.
// Non-decimal-digit bytes terminate a segment's parse silently.
func unityVersion(proc address.ProcessAccess, scanner scan.Scanner, rng address.Range) (major, minor int, ok bool, err error) {
	matchAddr, found, err := scan.Region(proc, scanner, rng.Base, int(rng.Size), sigs.PatternUnityVersion)
	if err != nil || !found {
		return 0, 0, false, err
	}
	buf, err := proc.ReadBytes(matchAddr.Add(unityVersionOffset), unityVersionWindow)
	if err != nil {
		return 0, 0, false, err
	}
	// narrow UTF-16LE codepoints to bytes: every other byte, low byte first.
	ascii := make([]byte, 0, unityVersionWindow/2)
	for i := 0; i+1 < len(buf); i += 2 {
		ascii = append(ascii, buf[i])
	}
	parts := strings.SplitN(string(ascii), ".", 3)
	if len(parts) < 1 {
		return 0, 0, false, nil
	}
	major = parseDecimalPrefix(parts[0])
	if len(parts) >= 2 {
		minor = parseDecimalPrefix(parts[1])
	}
	return major, minor, true, nil
}

func parseDecimalPrefix(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			break
		}
		n = n*10 + int(c-'0')
	}
	return n
}
