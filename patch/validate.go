package patch

import (
	"fmt"
	"strings"
)

// ValidatePatchOperations checks that every op is add, remove or replace
// and targets an allowed path. An allowed path segment of "*" or "-"
// matches any single segment, so "/tags/*" admits "/tags/3" and "/tags/-".
// An empty allow-list admits every path.
func ValidatePatchOperations(ops []Operation, allowedPaths map[string]bool) error {
	for i, op := range ops {
		switch op.Op {
		case OperationAdd, OperationRemove, OperationReplace:
		default:
			return fmt.Errorf("operation %d: unsupported op %q", i, op.Op)
		}
		if err := validatePathAllowed(op.Path, allowedPaths); err != nil {
			return fmt.Errorf("operation %d: %w", i, err)
		}
	}
	return nil
}

func validatePathAllowed(path string, allowedPaths map[string]bool) error {
	if len(allowedPaths) == 0 {
		return nil
	}
	if allowedPaths[path] || isPathMatchedByWildcard(path, allowedPaths) {
		return nil
	}
	return fmt.Errorf("path %q is not in the allowed paths set", path)
}

func isPathMatchedByWildcard(path string, allowedPaths map[string]bool) bool {
	segments := strings.Split(path, "/")
	return matchWildcard(segments, 1, allowedPaths, false)
}

func matchWildcard(segments []string, index int, allowedPaths map[string]bool, hasWildcard bool) bool {
	if index >= len(segments) {
		return hasWildcard && allowedPaths[strings.Join(segments, "/")]
	}

	original := segments[index]
	defer func() { segments[index] = original }()

	for _, wildcard := range []string{"-", "*"} {
		segments[index] = wildcard
		if matchWildcard(segments, index+1, allowedPaths, true) {
			return true
		}
	}
	segments[index] = original
	return matchWildcard(segments, index+1, allowedPaths, hasWildcard)
}
