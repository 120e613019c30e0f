// Package variables implements the <name> placeholder syntax used in agent
// prompts and seeded inputs: extraction, validation and substitution.
package variables

import (
	"regexp"
	"sort"
	"strings"

	"github.com/ariumhq/arium/pkg/domain"
)

var placeholderPattern = regexp.MustCompile(`<([a-zA-Z_][a-zA-Z0-9_]*)>`)

// Extract returns the distinct placeholder names referenced in s, in order
// of first appearance.
func Extract(s string) []string {
	seen := make(map[string]bool)
	var names []string
	for _, m := range placeholderPattern.FindAllStringSubmatch(s, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			names = append(names, m[1])
		}
	}
	return names
}

// Missing returns the placeholder names in s that have no value in vars,
// sorted alphabetically.
func Missing(s string, vars map[string]string) []string {
	var missing []string
	for _, name := range Extract(s) {
		if _, ok := vars[name]; !ok {
			missing = append(missing, name)
		}
	}
	sort.Strings(missing)
	return missing
}

// Resolve substitutes every placeholder in s with its value from vars.
// It fails if any referenced placeholder has no value, reporting all missing
// names at once.
func Resolve(s string, vars map[string]string) (string, error) {
	if missing := Missing(s, vars); len(missing) > 0 {
		return "", &domain.VariableError{Missing: map[string][]string{"prompt": missing}}
	}

	return placeholderPattern.ReplaceAllStringFunc(s, func(match string) string {
		name := strings.Trim(match, "<>")
		return vars[name]
	}), nil
}
