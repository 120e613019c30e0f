package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrSessionNotFound is returned when a session ID cannot be found in a store.
var ErrSessionNotFound = errors.New("session not found")

// ConfigError reports a reference that could not be resolved while building
// a graph. It is always raised at build time, never during traversal.
type ConfigError struct {
	// Kind names the reference category ("node", "router", "model", ...).
	Kind string
	// Ref is the offending name.
	Ref string
	// Valid lists the names that would have resolved, when known.
	Valid []string
}

func (e *ConfigError) Error() string {
	if len(e.Valid) == 0 {
		return fmt.Sprintf("unresolved %s reference %q", e.Kind, e.Ref)
	}
	return fmt.Sprintf("unresolved %s reference %q (valid: %s)", e.Kind, e.Ref, strings.Join(e.Valid, ", "))
}

// RoutingError reports a transition that could not be resolved at run time:
// either a router returned a name outside its candidate set, or the current
// node has no usable outgoing edge.
type RoutingError struct {
	From       string
	Returned   string
	Candidates []string
	Reason     string
}

func (e *RoutingError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("routing from %q failed: %s", e.From, e.Reason)
	}
	return fmt.Sprintf("router at %q returned %q, not in candidate set [%s]",
		e.From, e.Returned, strings.Join(e.Candidates, ", "))
}

// VariableError reports unsupplied prompt placeholders, grouped by the node
// that requires them. It is raised before the first node runs.
type VariableError struct {
	// Missing maps a requiring node name (or "inputs" for seeded inputs)
	// to the placeholder names it needs.
	Missing map[string][]string
}

func (e *VariableError) Error() string {
	owners := make([]string, 0, len(e.Missing))
	for owner := range e.Missing {
		owners = append(owners, owner)
	}
	sort.Strings(owners)

	parts := make([]string, 0, len(owners))
	for _, owner := range owners {
		names := append([]string(nil), e.Missing[owner]...)
		sort.Strings(names)
		parts = append(parts, fmt.Sprintf("%s: %s", owner, strings.Join(names, ", ")))
	}
	return "missing variable values: " + strings.Join(parts, "; ")
}
