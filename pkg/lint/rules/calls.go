package rules

import (
	"strings"

	"github.com/yaklabco/eflint/pkg/semantic"
)

const categoryUsage = "usage"

// calls reports whether method is name declared on a type whose qualified
// name starts with one of containers.
func calls(method *semantic.Method, name string, containers ...string) bool {
	if method == nil || method.Name != name {
		return false
	}
	for _, prefix := range containers {
		if strings.HasPrefix(method.ContainingType, prefix) {
			return true
		}
	}
	return false
}
