// flatprog.go — loading flattened packages from YAML.
//
// A lowering frontend serializes its output as a YAML document: callable
// declarations, the entry expression as nested sequences, and the span/props
// sidecars as path-keyed entry lists. This is the on-disk exchange format
// between the frontend and the Specializer; see fir.go for the node forms.

package qsharp

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type flatPackage struct {
	Callables  []flatCallable `yaml:"callables"`
	Entry      any            `yaml:"entry"`
	EntryProps *flatProps     `yaml:"entry_props"`
	EntrySpans []flatSpan     `yaml:"entry_spans"`
}

type flatCallable struct {
	Name      string      `yaml:"name"`
	Intrinsic string      `yaml:"intrinsic"`
	Params    []flatParam `yaml:"params"`
	Output    string      `yaml:"output"`
	Body      any         `yaml:"body"`
	Props     *flatProps  `yaml:"props"`
	Spans     []flatSpan  `yaml:"spans"`
}

type flatParam struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

type flatProps struct {
	UniformRuntime *bool           `yaml:"uniform_runtime"`
	Entries        []flatPropEntry `yaml:"entries"`
}

type flatPropEntry struct {
	Path            string   `yaml:"path"`
	RequiresRuntime bool     `yaml:"requires_runtime"`
	Caps            []string `yaml:"caps"`
}

type flatSpan struct {
	Path  string `yaml:"path"`
	Start int    `yaml:"start"`
	End   int    `yaml:"end"`
}

var tyByName = map[string]Ty{
	"Integer": TyInteger,
	"Double":  TyDouble,
	"Boolean": TyBoolean,
	"Qubit":   TyQubit,
	"Result":  TyResult,
	"Pointer": TyPointer,
}

// LoadPackage reads and parses a flattened package document.
func LoadPackage(path string) (*Package, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParsePackage(data)
}

// ParsePackage parses a flattened package from its YAML serialization.
func ParsePackage(data []byte) (*Package, error) {
	var raw flatPackage
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing package: %w", err)
	}

	pkg := &Package{}
	for _, fc := range raw.Callables {
		decl, err := fc.toDecl()
		if err != nil {
			return nil, fmt.Errorf("callable %s: %w", fc.Name, err)
		}
		pkg.Callables = append(pkg.Callables, decl)
	}

	if raw.Entry == nil {
		return nil, fmt.Errorf("package has no entry expression")
	}
	entry, err := decodeNode(raw.Entry)
	if err != nil {
		return nil, fmt.Errorf("entry: %w", err)
	}
	pkg.Entry = entry
	if pkg.EntryProps, err = raw.EntryProps.toIndex(); err != nil {
		return nil, fmt.Errorf("entry props: %w", err)
	}
	if pkg.EntrySpans, err = decodeSpans(raw.EntrySpans); err != nil {
		return nil, fmt.Errorf("entry spans: %w", err)
	}
	return pkg, nil
}

func (fc flatCallable) toDecl() (*CallableDecl, error) {
	if fc.Name == "" {
		return nil, fmt.Errorf("missing name")
	}
	decl := &CallableDecl{Name: fc.Name}

	switch fc.Intrinsic {
	case "":
		decl.Intrinsic = IntrinsicNone
	case "gate":
		decl.Intrinsic = IntrinsicGate
	case "measurement":
		decl.Intrinsic = IntrinsicMeasurement
	case "reset":
		decl.Intrinsic = IntrinsicReset
	default:
		return nil, fmt.Errorf("unknown intrinsic kind %q", fc.Intrinsic)
	}

	for _, p := range fc.Params {
		ty, ok := tyByName[p.Type]
		if !ok {
			return nil, fmt.Errorf("param %s: unknown type %q", p.Name, p.Type)
		}
		decl.Params = append(decl.Params, Param{Name: p.Name, Ty: ty})
	}
	if fc.Output != "" {
		ty, ok := tyByName[fc.Output]
		if !ok {
			return nil, fmt.Errorf("unknown output type %q", fc.Output)
		}
		decl.Output = &ty
	}

	if fc.Body != nil {
		if decl.Intrinsic != IntrinsicNone {
			return nil, fmt.Errorf("intrinsic callables cannot carry a body")
		}
		body, err := decodeNode(fc.Body)
		if err != nil {
			return nil, err
		}
		decl.Body = body
	} else if decl.Intrinsic == IntrinsicNone {
		return nil, fmt.Errorf("non-intrinsic callable needs a body")
	}

	var err error
	if decl.Props, err = fc.Props.toIndex(); err != nil {
		return nil, err
	}
	if decl.Spans, err = decodeSpans(fc.Spans); err != nil {
		return nil, err
	}
	return decl, nil
}

func (fp *flatProps) toIndex() (*PropsIndex, error) {
	if fp == nil {
		return nil, nil
	}
	var idx *PropsIndex
	if fp.UniformRuntime != nil {
		idx = UniformProps(*fp.UniformRuntime)
	} else {
		idx = NewPropsIndex()
	}
	for _, e := range fp.Entries {
		p, err := parsePath(e.Path)
		if err != nil {
			return nil, fmt.Errorf("props path %q: %w", e.Path, err)
		}
		var caps CapabilityFlags
		for _, name := range e.Caps {
			flag, err := ParseCapability(name)
			if err != nil {
				return nil, err
			}
			caps |= flag
		}
		idx.Set(p, ComputeProps{RequiresRuntimeValue: e.RequiresRuntime, RequiredCaps: caps})
	}
	return idx, nil
}

func decodeSpans(spans []flatSpan) (*SpanIndex, error) {
	if len(spans) == 0 {
		return nil, nil
	}
	idx := NewSpanIndex()
	for _, s := range spans {
		p, err := parsePath(s.Path)
		if err != nil {
			return nil, fmt.Errorf("span path %q: %w", s.Path, err)
		}
		idx.Set(p, Span{StartByte: s.Start, EndByte: s.End})
	}
	return idx, nil
}

// decodeNode normalizes a decoded YAML sequence into an S node: nested
// sequences become S recursively and integers widen to int64, so evaluation
// sees one integer representation regardless of the document's literals.
func decodeNode(x any) (S, error) {
	seq, ok := x.([]any)
	if !ok {
		return nil, fmt.Errorf("expression node must be a sequence, got %T", x)
	}
	if len(seq) == 0 {
		return nil, fmt.Errorf("empty expression node")
	}
	if _, ok := seq[0].(string); !ok {
		return nil, fmt.Errorf("expression node must start with a tag, got %T", seq[0])
	}
	out := make(S, len(seq))
	for i, el := range seq {
		switch v := el.(type) {
		case []any:
			child, err := decodeNode(v)
			if err != nil {
				return nil, err
			}
			out[i] = child
		case int:
			out[i] = int64(v)
		default:
			out[i] = v
		}
	}
	return out, nil
}
