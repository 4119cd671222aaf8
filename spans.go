// spans.go — sidecar source spans for flattened program nodes.
//
// The Specializer never sees source text; the lowering collaborator hands it
// expression trees (S-expressions, see fir.go) plus an optional sidecar of
// byte spans into the original source. Spans are keyed by NodePath, a stable
// structural address into the tree, so the tree itself stays untouched.
//
// Spans are half-open byte intervals [StartByte, EndByte). A SpanIndex is
// read-only after construction and safe for concurrent reads. Producers
// either bind spans directly by path (Set) or record one span per node in
// post-order while lowering and call BuildSpanIndexPostOrder.

package qsharp

import (
	"strconv"
	"strings"
)

// Span is a half-open byte interval [StartByte, EndByte) in the original
// source text of the compilation unit.
type Span struct {
	StartByte int // inclusive
	EndByte   int // exclusive
}

// NodePath is a stable structural address into an S-expression tree. Each
// integer selects a child: path element k refers to S[k+1], since S[0] is the
// string tag.
type NodePath []int

// SpanIndex maps NodePath → Span for one expression tree.
type SpanIndex struct {
	byPath map[string]Span
}

// NewSpanIndex returns an empty index ready for Set calls.
func NewSpanIndex() *SpanIndex {
	return &SpanIndex{byPath: map[string]Span{}}
}

// Set binds a span to the node at path. Later bindings overwrite earlier ones.
func (si *SpanIndex) Set(p NodePath, sp Span) {
	si.byPath[pathKey(p)] = sp
}

// Get returns the span for path. The boolean is false when the path is
// unknown or the index is nil; indexes may be partial.
func (si *SpanIndex) Get(p NodePath) (Span, bool) {
	if si == nil {
		return Span{}, false
	}
	sp, ok := si.byPath[pathKey(p)]
	return sp, ok
}

// BuildSpanIndexPostOrder binds one span per node of root, visiting children
// before parents. postorder must list exactly one Span per node in that
// order; extras are ignored, and a short slice leaves the remaining nodes
// unindexed.
func BuildSpanIndexPostOrder(root S, postorder []Span) *SpanIndex {
	si := &SpanIndex{byPath: make(map[string]Span, len(postorder))}
	i := 0
	var walk func(n S, path NodePath)
	walk = func(n S, path NodePath) {
		for ci := 1; ci < len(n); ci++ {
			if child, ok := n[ci].(S); ok {
				walk(child, append(path, ci-1))
			}
		}
		if i < len(postorder) {
			si.byPath[pathKey(path)] = postorder[i]
			i++
		}
	}
	walk(root, nil)
	return si
}

// pathKey serializes a NodePath to a compact "a.b.c" map key.
func pathKey(p NodePath) string {
	if len(p) == 0 {
		return ""
	}
	var sb strings.Builder
	for i, x := range p {
		if i > 0 {
			sb.WriteByte('.')
		}
		sb.WriteString(strconv.Itoa(x))
	}
	return sb.String()
}

// childPath returns a fresh path addressing child index i of the node at p.
// It copies so sibling recursions never alias the same backing array.
func childPath(p NodePath, i int) NodePath {
	cp := make(NodePath, len(p)+1)
	copy(cp, p)
	cp[len(p)] = i
	return cp
}

// parsePath parses the "a.b.c" form produced by pathKey. The empty string is
// the root path.
func parsePath(s string) (NodePath, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ".")
	p := make(NodePath, len(parts))
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, err
		}
		p[i] = n
	}
	return p, nil
}
