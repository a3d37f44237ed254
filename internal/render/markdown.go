// Package render turns the aggregated metrics trees and command model
// into the two markdown documents the pipeline publishes.
package render

import (
	"fmt"
	"strings"
)

// LinkContext carries the opaque identity inputs used only for link
// construction. Nothing here is validated.
type LinkContext struct {
	Owner  string
	Repo   string
	Branch string
	Marker string
}

// Permalink builds a source link for a repository-relative path and an
// inclusive line span.
func (lc LinkContext) Permalink(relPath string, start, end int) string {
	anchor := fmt.Sprintf("#L%d", start)
	if end > start {
		anchor = fmt.Sprintf("#L%d-L%d", start, end)
	}
	return fmt.Sprintf("https://github.com/%s/%s/blob/%s/%s%s", lc.Owner, lc.Repo, lc.Branch, relPath, anchor)
}

// doc accumulates a markdown document.
type doc struct {
	b strings.Builder
}

func (d *doc) headingf(level int, format string, args ...any) {
	d.b.WriteString(strings.Repeat("#", level))
	d.b.WriteString(" ")
	fmt.Fprintf(&d.b, format, args...)
	d.b.WriteString("\n\n")
}

func (d *doc) linef(format string, args ...any) {
	fmt.Fprintf(&d.b, format, args...)
	d.b.WriteString("\n")
}

func (d *doc) blank() {
	d.b.WriteString("\n")
}

func (d *doc) anchor(id string) {
	d.linef(`<a id="%s"></a>`, id)
	d.blank()
}

func (d *doc) openDetails(summary string) {
	d.linef("<details>")
	d.linef("<summary>%s</summary>", summary)
	d.blank()
}

func (d *doc) closeDetails() {
	d.blank()
	d.linef("</details>")
	d.blank()
}

func (d *doc) table(headers []string, rows [][]string) {
	d.linef("| %s |", strings.Join(headers, " | "))
	sep := make([]string, len(headers))
	for i := range sep {
		sep[i] = "---"
	}
	d.linef("| %s |", strings.Join(sep, " | "))
	for _, row := range rows {
		d.linef("| %s |", strings.Join(row, " | "))
	}
	d.blank()
}

func (d *doc) codeBlock(lang, body string) {
	d.linef("```%s", lang)
	d.b.WriteString(strings.TrimRight(body, "\n"))
	d.b.WriteString("\n")
	d.linef("```")
	d.blank()
}

func (d *doc) backlink(anchor, label string) {
	d.linef("[🔙 %s](#%s)", label, anchor)
	d.blank()
}

func (d *doc) String() string {
	return d.b.String()
}
