package render

import (
	"fmt"
	"strings"

	"github.com/modreport/modreport/internal/metrics"
)

// syntheticEntryName is the display name of the synthesized entry-point
// type; no diagram is emitted for it.
const syntheticEntryName = "main"

// Diagram renders a mermaid classDiagram for one type node: an
// implements edge per interface, then members grouped field, property,
// method, other. Field visibility is restricted, everything else open;
// true visibility is not tracked.
func Diagram(t *metrics.MetricNode) string {
	var b strings.Builder
	b.WriteString("classDiagram\n")

	name := diagramName(t.Name)
	for _, iface := range t.Interfaces {
		fmt.Fprintf(&b, "%s <|.. %s : implements\n", diagramName(iface), name)
	}

	fmt.Fprintf(&b, "class %s{\n", name)
	for _, group := range [][]metrics.Kind{
		{metrics.KindField},
		{metrics.KindProperty},
		{metrics.KindMethod},
		{metrics.KindEvent, metrics.KindAssembly, metrics.KindNamespace, metrics.KindNamedType},
	} {
		for _, m := range t.Children {
			if containsKind(group, m.Kind) {
				b.WriteString("    " + memberLine(t.Name, m) + "\n")
			}
		}
	}
	b.WriteString("}\n")
	return b.String()
}

func containsKind(kinds []metrics.Kind, k metrics.Kind) bool {
	for _, kk := range kinds {
		if kk == k {
			return true
		}
	}
	return false
}

// diagramName converts generic brackets into mermaid's tilde notation:
// Store[K, V] becomes Store~K,V~.
func diagramName(name string) string {
	i := strings.Index(name, "[")
	if i < 0 || !strings.HasSuffix(name, "]") {
		return name
	}
	args := strings.ReplaceAll(name[i+1:len(name)-1], " ", "")
	return name[:i] + "~" + args + "~"
}

// memberLine renders one class member. Fields get the restricted
// marker, everything else the open one; static wins over abstract.
func memberLine(typeName string, m *metrics.MetricNode) string {
	suffix := ""
	if m.Static {
		suffix = "$"
	} else if m.Abstract {
		suffix = "*"
	}

	if m.Kind == metrics.KindField {
		return "-" + m.Name + suffix
	}
	return "+" + methodSignature(typeName, m.Name) + suffix
}

// methodSignature strips the receiver qualification from a member
// display name and rewrites constructors as a .ctor line. When the
// qualifier carries further qualification, the token after the last
// dot before the parameter list wins.
func methodSignature(typeName, display string) string {
	paren := strings.Index(display, "(")
	if paren < 0 {
		return display
	}
	qualified := display[:paren]
	rest := display[paren:]

	bare := qualified
	if dot := strings.LastIndex(qualified, "."); dot >= 0 {
		bare = qualified[dot+1:]
	}

	if bare == "New"+baseTypeName(typeName) {
		return ".ctor" + rest
	}
	return bare + rest
}

// baseTypeName drops generic parameters from a type display name.
func baseTypeName(name string) string {
	if i := strings.Index(name, "["); i >= 0 {
		return name[:i]
	}
	return name
}
