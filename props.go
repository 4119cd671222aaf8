// props.go — externally computed compute properties and target capabilities.
//
// The classification collaborator runs ahead of the Specializer and decides,
// per expression, whether its value is resolvable at compile time and which
// target capabilities evaluating it at runtime would need. Those results
// arrive as a PropsIndex sidecar keyed by NodePath (same addressing scheme as
// spans.go). A missing entry is fail-safe: it reads as runtime-required.

package qsharp

import (
	"fmt"
	"strings"
)

// CapabilityFlags is an opaque bitset of runtime features a target supports.
type CapabilityFlags uint32

const (
	CapForwardBranching CapabilityFlags = 1 << iota
	CapBackwardBranching
	CapIntegerComputations
	CapFloatingPointComputations
	CapResultComparison
)

// capabilityNames is the canonical name set used by config files and
// diagnostics.
var capabilityNames = []struct {
	flag CapabilityFlags
	name string
}{
	{CapForwardBranching, "forward_branching"},
	{CapBackwardBranching, "backward_branching"},
	{CapIntegerComputations, "integer_computations"},
	{CapFloatingPointComputations, "floating_point_computations"},
	{CapResultComparison, "result_comparison"},
}

// Has reports whether every flag in sub is present.
func (f CapabilityFlags) Has(sub CapabilityFlags) bool { return f&sub == sub }

// String renders the set as a sorted, comma-separated name list.
func (f CapabilityFlags) String() string {
	if f == 0 {
		return "none"
	}
	var names []string
	for _, c := range capabilityNames {
		if f.Has(c.flag) {
			names = append(names, c.name)
		}
	}
	return strings.Join(names, ",")
}

// ParseCapability maps a canonical capability name to its flag.
func ParseCapability(name string) (CapabilityFlags, error) {
	for _, c := range capabilityNames {
		if c.name == name {
			return c.flag, nil
		}
	}
	return 0, fmt.Errorf("unknown capability %q", name)
}

// ComputeProps is the per-expression classification consumed by the
// Capability Gate.
type ComputeProps struct {
	RequiresRuntimeValue bool
	RequiredCaps         CapabilityFlags
}

// PropsIndex maps NodePath → ComputeProps for one expression tree. An index
// may carry a uniform classification covering every path, with per-path
// entries overriding it.
type PropsIndex struct {
	byPath  map[string]ComputeProps
	uniform *ComputeProps
}

// NewPropsIndex returns an empty index; unset paths read as runtime-required.
func NewPropsIndex() *PropsIndex {
	return &PropsIndex{byPath: map[string]ComputeProps{}}
}

// UniformProps builds a total index classifying every expression the same
// way. Producers that analyze wholesale (everything static, or everything
// dynamic) use this instead of enumerating paths.
func UniformProps(requiresRuntime bool) *PropsIndex {
	return &PropsIndex{
		byPath:  map[string]ComputeProps{},
		uniform: &ComputeProps{RequiresRuntimeValue: requiresRuntime},
	}
}

// Set binds a classification to the node at path.
func (pi *PropsIndex) Set(p NodePath, props ComputeProps) {
	pi.byPath[pathKey(p)] = props
}

// Get returns the classification for path. A nil index or a missing entry
// without a uniform default reads as runtime-required (fail-safe).
func (pi *PropsIndex) Get(p NodePath) ComputeProps {
	if pi == nil {
		return ComputeProps{RequiresRuntimeValue: true}
	}
	if props, ok := pi.byPath[pathKey(p)]; ok {
		return props
	}
	if pi.uniform != nil {
		return *pi.uniform
	}
	return ComputeProps{RequiresRuntimeValue: true}
}
