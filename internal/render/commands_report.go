package render

import (
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/modreport/modreport/internal/extract"
)

// ProjectCommands pairs a project path with its extracted modules.
type ProjectCommands struct {
	Path    string
	Modules []extract.CommandModule
}

const unnamedGroup = "(unnamed)"

// CommandCatalog renders the command document: one section per project,
// one per module, commands grouped under their resolved name. The full
// model is appended as YAML in a collapsible section so other tooling
// can consume it without re-parsing the markdown.
func CommandCatalog(projects []ProjectCommands, lc LinkContext) string {
	sort.SliceStable(projects, func(i, j int) bool {
		return strings.ToLower(projects[i].Path) < strings.ToLower(projects[j].Path)
	})

	d := &doc{}
	d.headingf(1, "Commands")

	for _, p := range projects {
		d.headingf(2, "%s", extract.MarkerPath(p.Path, lc.Marker))
		modules := append([]extract.CommandModule(nil), p.Modules...)
		sort.SliceStable(modules, func(i, j int) bool {
			return strings.ToLower(modules[i].Path) < strings.ToLower(modules[j].Path)
		})
		for _, m := range modules {
			renderModule(d, m, lc)
		}
	}

	renderModelDump(d, projects)
	return d.String()
}

func renderModule(d *doc, m extract.CommandModule, lc LinkContext) {
	d.headingf(3, "%s", m.Path)

	groups := map[string][]extract.Command{}
	for _, c := range m.Commands {
		key := c.Name
		if key == "" {
			key = unnamedGroup
		}
		groups[key] = append(groups[key], c)
	}
	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return strings.ToLower(names[i]) < strings.ToLower(names[j])
	})

	for _, name := range names {
		cmds := groups[name]
		d.headingf(4, "%s", name)
		// The group description is the first declared overload's, even
		// when that one is empty and a later overload has text.
		if desc := cmds[0].Description; desc != "" {
			d.linef("%s", desc)
			d.blank()
		}
		for _, c := range cmds {
			renderCommand(d, c, lc)
		}
	}
}

func renderCommand(d *doc, c extract.Command, lc LinkContext) {
	sig := signature(c)
	link := lc.Permalink(c.File, c.StartLine, c.EndLine)
	d.linef("`%s` · [%s](%s)", sig, c.Location, link)
	d.blank()

	if len(c.Aliases) > 0 {
		d.linef("Aliases: %s", "`"+strings.Join(c.Aliases, "`, `")+"`")
		d.blank()
	}

	if len(c.Arguments) > 0 {
		rows := make([][]string, 0, len(c.Arguments))
		for _, a := range c.Arguments {
			rows = append(rows, []string{"`" + a.Name + "`", argumentText(a), "`" + a.Type + "`"})
		}
		d.table([]string{"Argument", "Description", "Type"}, rows)
	}
}

// signature synthesizes a usage line: required arguments in angle
// brackets, optional ones in square brackets, a remaining argument
// trailed with an ellipsis.
func signature(c extract.Command) string {
	name := c.Name
	if name == "" {
		name = c.Method
	}
	parts := []string{name}
	for _, a := range c.Arguments {
		switch {
		case a.Remaining:
			parts = append(parts, fmt.Sprintf("[%s]…", a.Name))
		case a.Optional:
			parts = append(parts, fmt.Sprintf("[%s]", a.Name))
		default:
			parts = append(parts, fmt.Sprintf("<%s>", a.Name))
		}
	}
	return strings.Join(parts, " ")
}

func argumentText(a extract.Argument) string {
	text := a.Description
	if a.DefaultText != "" {
		if text != "" {
			text += " "
		}
		text += fmt.Sprintf("Defaults to `%s`.", a.DefaultText)
	}
	if text == "" {
		text = "—"
	}
	return text
}

func renderModelDump(d *doc, projects []ProjectCommands) {
	type dump struct {
		Project string                  `yaml:"project"`
		Modules []extract.CommandModule `yaml:"modules"`
	}
	model := make([]dump, 0, len(projects))
	for _, p := range projects {
		model = append(model, dump{Project: p.Path, Modules: p.Modules})
	}
	out, err := yaml.Marshal(model)
	if err != nil {
		return
	}
	d.headingf(2, "Machine-readable model")
	d.openDetails("YAML")
	d.codeBlock("yaml", strings.TrimRight(string(out), "\n"))
	d.closeDetails()
}
