package metrics

// Kind identifies what level of the symbol hierarchy a MetricNode measures.
type Kind int

const (
	KindAssembly Kind = iota
	KindNamespace
	KindNamedType
	KindMethod
	KindField
	KindProperty
	KindEvent
)

// String returns the label used in report tables.
func (k Kind) String() string {
	switch k {
	case KindAssembly:
		return "assembly"
	case KindNamespace:
		return "namespace"
	case KindNamedType:
		return "type"
	case KindMethod:
		return "method"
	case KindField:
		return "field"
	case KindProperty:
		return "property"
	case KindEvent:
		return "event"
	default:
		return "unknown"
	}
}

// IsMember reports whether the kind is member-level (below type granularity).
func (k Kind) IsMember() bool {
	switch k {
	case KindAssembly, KindNamespace, KindNamedType:
		return false
	}
	return true
}

// MetricNode is one node of the per-project metrics tree. The tree is
// built once by the front end and never mutated afterwards; parents own
// their children exclusively and children hold no back-reference.
type MetricNode struct {
	Kind             Kind
	Name             string // display name
	File             string // source file, empty on assembly nodes
	Line             int    // 1-based declaration line
	SourceLines      int
	ExecutableLines  int
	Complexity       int  // meaningful on member-level nodes only
	Maintainability  int  // 0-100
	InheritanceDepth *int // types only
	CoupledTypes     int
	Static           bool     // members only: no receiver
	Abstract         bool     // members only: interface method, no body
	Interfaces       []string // types only: implemented interface display names
	Children         []*MetricNode
}

// Flatten returns the node and all of its descendants in declaration order.
func (n *MetricNode) Flatten() []*MetricNode {
	out := []*MetricNode{n}
	for _, c := range n.Children {
		out = append(out, c.Flatten()...)
	}
	return out
}

// CountKind counts descendants of the given kind. The node itself is
// not counted.
func (n *MetricNode) CountKind(k Kind) int {
	count := 0
	for _, c := range n.Children {
		if c.Kind == k {
			count++
		}
		count += c.CountKind(k)
	}
	return count
}

// Hotspot identifies the most complex member beneath a node.
type Hotspot struct {
	Name       string
	Complexity int
}

// UnknownHotspot is returned when a node has no member-level descendants.
var UnknownHotspot = Hotspot{Name: "unknown"}

// HighestComplexity returns the member-level descendant with the highest
// cyclomatic complexity. Ties go to the first node in declaration order.
func (n *MetricNode) HighestComplexity() Hotspot {
	best := UnknownHotspot
	found := false
	for _, d := range n.Flatten() {
		if !d.Kind.IsMember() {
			continue
		}
		if !found || d.Complexity > best.Complexity {
			best = Hotspot{Name: d.Name, Complexity: d.Complexity}
			found = true
		}
	}
	return best
}
