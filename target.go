// target.go — target profiles: named capability sets loadable from YAML.

package qsharp

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// TargetProfile names a target execution model and the runtime capabilities
// it affords. The base profile is the empty set: a fully static, loop-free,
// branch-free instruction stream.
type TargetProfile struct {
	Name         string
	Capabilities CapabilityFlags
}

// BaseProfile is the fully-unrolled profile: no runtime control flow at all.
func BaseProfile() TargetProfile {
	return TargetProfile{Name: "base"}
}

// AdaptiveProfile affords forward branching, classical computations, and
// result comparison; loops are still unrolled.
func AdaptiveProfile() TargetProfile {
	return TargetProfile{
		Name: "adaptive",
		Capabilities: CapForwardBranching | CapIntegerComputations |
			CapFloatingPointComputations | CapResultComparison,
	}
}

// NamedProfile resolves a built-in profile by name.
func NamedProfile(name string) (TargetProfile, error) {
	switch name {
	case "base":
		return BaseProfile(), nil
	case "adaptive":
		return AdaptiveProfile(), nil
	default:
		return TargetProfile{}, fmt.Errorf("unknown target profile %q", name)
	}
}

type targetProfileYAML struct {
	Name         string   `yaml:"name"`
	Capabilities []string `yaml:"capabilities"`
}

// UnmarshalYAML decodes a profile of the form:
//
//	name: adaptive
//	capabilities: [forward_branching, result_comparison]
func (tp *TargetProfile) UnmarshalYAML(node *yaml.Node) error {
	var raw targetProfileYAML
	if err := node.Decode(&raw); err != nil {
		return err
	}
	if raw.Name == "" {
		return fmt.Errorf("target profile must have a name")
	}
	var flags CapabilityFlags
	for _, name := range raw.Capabilities {
		f, err := ParseCapability(name)
		if err != nil {
			return fmt.Errorf("profile %q: %w", raw.Name, err)
		}
		flags |= f
	}
	tp.Name = raw.Name
	tp.Capabilities = flags
	return nil
}

// MarshalYAML encodes the profile in the same form UnmarshalYAML accepts.
func (tp TargetProfile) MarshalYAML() (any, error) {
	raw := targetProfileYAML{Name: tp.Name}
	for _, c := range capabilityNames {
		if tp.Capabilities.Has(c.flag) {
			raw.Capabilities = append(raw.Capabilities, c.name)
		}
	}
	return raw, nil
}

// LoadTargetProfile reads a profile from a YAML file.
func LoadTargetProfile(path string) (TargetProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return TargetProfile{}, err
	}
	var tp TargetProfile
	if err := yaml.Unmarshal(data, &tp); err != nil {
		return TargetProfile{}, fmt.Errorf("parse target profile %s: %w", path, err)
	}
	return tp, nil
}
