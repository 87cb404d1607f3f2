package patch

import (
	"fmt"
	"strings"
)

// ValidatePaths rejects any operation whose path matches none of allowed.
// A "*" segment in an allowed path matches any single segment.
func ValidatePaths(ops []Operation, allowed []string) error {
	if len(allowed) == 0 {
		return nil
	}
	for i, op := range ops {
		if !pathAllowed(op.Path, allowed) {
			return fmt.Errorf("operation %d: path %q is not in the allowed paths set", i, op.Path)
		}
	}
	return nil
}

func pathAllowed(path string, allowed []string) bool {
	segments := strings.Split(path, "/")
	for _, pattern := range allowed {
		want := strings.Split(pattern, "/")
		if len(want) != len(segments) {
			continue
		}
		matched := true
		for i := range want {
			if want[i] != "*" && want[i] != segments[i] {
				matched = false
				break
			}
		}
		if matched {
			return true
		}
	}
	return false
}
