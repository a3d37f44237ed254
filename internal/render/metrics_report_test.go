package render

import (
	"strings"
	"testing"

	"github.com/modreport/modreport/internal/metrics"
)

var reportLinks = LinkContext{Owner: "acme", Repo: "bot", Branch: "main", Marker: "src"}

func sampleTree() *metrics.MetricNode {
	return &metrics.MetricNode{
		Kind: metrics.KindAssembly,
		Name: "bot",
		Children: []*metrics.MetricNode{
			{
				Kind: metrics.KindNamespace,
				Name: "bot/queue",
				Children: []*metrics.MetricNode{
					{
						Kind:             metrics.KindNamedType,
						Name:             "Queue",
						InheritanceDepth: intPtr(0),
						Children: []*metrics.MetricNode{
							{
								Kind:            metrics.KindMethod,
								Name:            "Queue.Pop() string",
								File:            "/home/ci/src/bot/queue/queue.go",
								Line:            14,
								Complexity:      9,
								Maintainability: 72,
								SourceLines:     6,
								ExecutableLines: 4,
							},
						},
					},
					{
						Kind:            metrics.KindMethod,
						Name:            "Drain(q *Queue)",
						Complexity:      2,
						Maintainability: 90,
					},
				},
			},
		},
	}
}

func TestMetricsReportStructure(t *testing.T) {
	got := MetricsReport([]ProjectTree{{Path: "/home/ci/src/bot/go.mod", Tree: sampleTree()}}, reportLinks)

	for _, want := range []string{
		"# Code Metrics",
		"## src/bot/go.mod",
		`<a id="src/bot/go-mod"></a>`,
		"<summary>📦 <code>bot/queue</code></summary>",
		"<summary>🧩 <code>Queue</code></summary>",
		"**Highest complexity:** `Queue.Pop() string` — 9 ⚠️ caution",
		"[14](https://github.com/acme/bot/blob/main/bot/queue/queue.go#L14)",
		"classDiagram",
		"[🔙 namespace](#bot/queue)",
		"## Glossary",
		"## Diagram appendix",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("report missing %q\n%s", want, got)
		}
	}
}

func TestMetricsReportSortsProjectsCaseInsensitively(t *testing.T) {
	empty := func(name string) *metrics.MetricNode {
		return &metrics.MetricNode{Kind: metrics.KindAssembly, Name: name}
	}
	got := MetricsReport([]ProjectTree{
		{Path: "src/Zeta/go.mod", Tree: empty("zeta")},
		{Path: "src/alpha/go.mod", Tree: empty("alpha")},
	}, reportLinks)

	if strings.Index(got, "## src/alpha/go.mod") > strings.Index(got, "## src/Zeta/go.mod") {
		t.Errorf("projects not sorted case-insensitively:\n%s", got)
	}
}

func TestMetricsReportSkipsSyntheticEntryDiagram(t *testing.T) {
	tree := &metrics.MetricNode{
		Kind: metrics.KindAssembly,
		Name: "bot",
		Children: []*metrics.MetricNode{
			{
				Kind: metrics.KindNamespace,
				Name: "bot",
				Children: []*metrics.MetricNode{
					{Kind: metrics.KindNamedType, Name: syntheticEntryName},
				},
			},
		},
	}
	got := MetricsReport([]ProjectTree{{Path: "src/bot/go.mod", Tree: tree}}, reportLinks)
	if strings.Contains(got, "classDiagram") {
		t.Errorf("synthetic entry type must not get a diagram:\n%s", got)
	}
	if strings.Contains(got, "## Diagram appendix") {
		t.Errorf("appendix should be omitted when no diagrams exist:\n%s", got)
	}
}

func TestMetricsReportUnknownHotspot(t *testing.T) {
	tree := &metrics.MetricNode{Kind: metrics.KindAssembly, Name: "bot"}
	got := MetricsReport([]ProjectTree{{Path: "src/bot/go.mod", Tree: tree}}, reportLinks)
	if !strings.Contains(got, "**Highest complexity:** unknown") {
		t.Errorf("empty tree should report unknown hotspot:\n%s", got)
	}
}
