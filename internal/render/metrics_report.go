package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/modreport/modreport/internal/extract"
	"github.com/modreport/modreport/internal/metrics"
	"github.com/modreport/modreport/internal/slug"
)

// ProjectTree pairs a project path with its metrics tree.
type ProjectTree struct {
	Path string
	Tree *metrics.MetricNode
}

// MetricsReport renders the metrics document: project, namespace, type
// and member, each level after the first in a collapsible section keyed
// by its anchor, with back-links to the parent. A glossary and a
// consolidated diagram appendix close the document.
func MetricsReport(projects []ProjectTree, lc LinkContext) string {
	sortByPathFold(projects)

	d := &doc{}
	d.headingf(1, "Code Metrics")

	var appendix []*metrics.MetricNode
	for _, p := range projects {
		header := extract.MarkerPath(p.Path, lc.Marker)
		projectAnchor := slug.Anchor(header)
		d.anchor(projectAnchor)
		d.headingf(2, "%s", header)
		summarize(d, p.Tree)

		namespaces := childrenOfKind(p.Tree, metrics.KindNamespace)
		sortByNameFold(namespaces)
		for _, ns := range namespaces {
			renderNamespace(d, ns, projectAnchor, lc, &appendix)
		}
	}

	renderGlossary(d)
	renderAppendix(d, appendix)
	return d.String()
}

func summarize(d *doc, n *metrics.MetricNode) {
	hot := n.HighestComplexity()
	d.linef("**Namespaces:** %d · **Types:** %d · **Highest complexity:** %s",
		n.CountKind(metrics.KindNamespace),
		n.CountKind(metrics.KindNamedType),
		hotspotText(hot))
	d.blank()
}

func hotspotText(hot metrics.Hotspot) string {
	if hot == metrics.UnknownHotspot {
		return "unknown"
	}
	sev := metrics.Classify(hot.Complexity)
	return fmt.Sprintf("`%s` — %d %s %s", hot.Name, hot.Complexity, sev.Band.Icon(), sev.Label)
}

func renderNamespace(d *doc, ns *metrics.MetricNode, parentAnchor string, lc LinkContext, appendix *[]*metrics.MetricNode) {
	nsAnchor := slug.Anchor(ns.Name)
	d.openDetails("📦 <code>" + ns.Name + "</code>")
	d.anchor(nsAnchor)
	summarize(d, ns)

	types := childrenOfKind(ns, metrics.KindNamedType)
	sortByNameFold(types)
	for _, t := range types {
		renderType(d, t, nsAnchor, lc, appendix)
	}

	if funcs := childrenOfKind(ns, metrics.KindMethod); len(funcs) > 0 {
		sortByNameFold(funcs)
		d.linef("**Functions**")
		d.blank()
		d.table(memberHeaders(), memberRows(funcs, lc))
	}

	d.backlink(parentAnchor, "project")
	d.closeDetails()
}

func renderType(d *doc, t *metrics.MetricNode, parentAnchor string, lc LinkContext, appendix *[]*metrics.MetricNode) {
	typeAnchor := slug.Anchor(t.Name)
	d.openDetails("🧩 <code>" + t.Name + "</code>")
	d.anchor(typeAnchor)

	hot := t.HighestComplexity()
	d.linef("**Members:** %d · **Highest complexity:** %s", len(t.Children), hotspotText(hot))
	d.blank()

	members := append([]*metrics.MetricNode(nil), t.Children...)
	sortByNameFold(members)
	d.table(memberHeaders(), memberRows(members, lc))

	if t.Name != syntheticEntryName {
		d.codeBlock("mermaid", Diagram(t))
		*appendix = append(*appendix, t)
	}

	d.backlink(parentAnchor, "namespace")
	d.closeDetails()
}

func memberHeaders() []string {
	return []string{"Member", "Kind", "Line", "Maintainability", "Complexity", "Depth", "Coupling", "Lines (src/exec)"}
}

func memberRows(members []*metrics.MetricNode, lc LinkContext) [][]string {
	rows := make([][]string, 0, len(members))
	for _, m := range members {
		sev := metrics.Classify(m.Complexity)
		depth := "—"
		if m.InheritanceDepth != nil {
			depth = fmt.Sprintf("%d", *m.InheritanceDepth)
		}
		line := "—"
		if m.File != "" && m.Line > 0 {
			rel := extract.RelPath(m.File, lc.Marker)
			line = fmt.Sprintf("[%d](%s)", m.Line, lc.Permalink(rel, m.Line, m.Line))
		}
		rows = append(rows, []string{
			"`" + m.Name + "`",
			m.Kind.String(),
			line,
			fmt.Sprintf("%d", m.Maintainability),
			fmt.Sprintf("%d %s %s", m.Complexity, sev.Band.Icon(), sev.Label),
			depth,
			fmt.Sprintf("%d", m.CoupledTypes),
			fmt.Sprintf("%d / %d", m.SourceLines, m.ExecutableLines),
		})
	}
	return rows
}

func renderGlossary(d *doc) {
	d.headingf(2, "Glossary")
	d.linef("- **Maintainability index**: 0–100 composite of Halstead volume, cyclomatic complexity and length; higher is easier to maintain.")
	d.linef("- **Cyclomatic complexity**: count of independent paths through a member; classified pass (0–7), caution (8–9), high (10–11), critical (12–14), extreme (15+).")
	d.linef("- **Depth**: length of the embedding chain a type sits on.")
	d.linef("- **Coupling**: number of distinct named types a symbol refers to.")
	d.linef("- **Lines (src/exec)**: declaration span and lines holding executable statements.")
	d.blank()
}

func renderAppendix(d *doc, types []*metrics.MetricNode) {
	if len(types) == 0 {
		return
	}
	d.headingf(2, "Diagram appendix")
	d.openDetails("All class diagrams")
	sortByNameFold(types)
	for _, t := range types {
		d.linef("**%s**", t.Name)
		d.blank()
		d.codeBlock("mermaid", Diagram(t))
	}
	d.closeDetails()
}

func childrenOfKind(n *metrics.MetricNode, k metrics.Kind) []*metrics.MetricNode {
	var out []*metrics.MetricNode
	for _, c := range n.Children {
		if c.Kind == k {
			out = append(out, c)
		}
	}
	return out
}

func sortByNameFold(nodes []*metrics.MetricNode) {
	sort.SliceStable(nodes, func(i, j int) bool {
		return strings.ToLower(nodes[i].Name) < strings.ToLower(nodes[j].Name)
	})
}

func sortByPathFold(projects []ProjectTree) {
	sort.SliceStable(projects, func(i, j int) bool {
		return strings.ToLower(projects[i].Path) < strings.ToLower(projects[j].Path)
	})
}
