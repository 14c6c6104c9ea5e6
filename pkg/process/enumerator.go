package process

import (
	"strings"

	"github.com/keycanary/keycanary/pkg/common"
)

// Enumerator yields a snapshot of the current process universe. The core
// consumes the returned slice as immutable; implementations must hand out a
// fresh slice per call.
type Enumerator interface {
	List() ([]common.ProcessInfo, error)
}

// NewPlatformEnumerator returns the enumerator for the build platform.
func NewPlatformEnumerator() (Enumerator, error) {
	return newPlatformEnumerator()
}

// Filter removes the idle pseudo-process (pid 0), every process whose name
// matches the excluded set (case-insensitive), and every process whose
// executable path starts with one of the excluded prefixes.
func Filter(procs []common.ProcessInfo, excludedNames []string, excludedPrefixes []string) []common.ProcessInfo {
	excluded := make(map[string]bool, len(excludedNames))
	for _, name := range excludedNames {
		excluded[strings.ToLower(name)] = true
	}

	var kept []common.ProcessInfo

	for _, p := range procs {
		if p.Pid == 0 {
			continue
		}
		if excluded[strings.ToLower(p.Name)] {
			continue
		}
		if matchesPrefix(p.Path, excludedPrefixes) {
			continue
		}
		kept = append(kept, p)
	}

	return kept
}

func matchesPrefix(path string, prefixes []string) bool {
	if path == "" {
		return false
	}
	for _, prefix := range prefixes {
		if prefix != "" && strings.HasPrefix(strings.ToLower(path), strings.ToLower(prefix)) {
			return true
		}
	}
	return false
}
