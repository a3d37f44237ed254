package render

import (
	"strings"
	"testing"

	"github.com/modreport/modreport/internal/extract"
)

func catalogFixture() []ProjectCommands {
	return []ProjectCommands{
		{
			Path: "/home/ci/src/bot/go.mod",
			Modules: []extract.CommandModule{
				{
					Name: "bot/mod.AdminModule",
					Path: "bot/mod/admin.go",
					Commands: []extract.Command{
						{
							Location:    "src/bot/mod/admin.go:30-44",
							File:        "bot/mod/admin.go",
							StartLine:   30,
							EndLine:     44,
							Method:      "Ban",
							Name:        "ban",
							Description: "Removes a user from the server.",
							Aliases:     []string{"kick-forever"},
							Arguments: []extract.Argument{
								{Name: "user", Type: "string", Description: "User to remove."},
								{Name: "reason", Type: "string", Optional: true, DefaultText: `"no reason given"`},
								{Name: "notes", Type: "[]string", Remaining: true},
							},
						},
						{
							Location:  "src/bot/mod/admin.go:50-52",
							File:      "bot/mod/admin.go",
							StartLine: 50,
							EndLine:   52,
							Method:    "BanSlash",
							Name:      "ban",
						},
						{
							Location:  "src/bot/mod/admin.go:60-61",
							File:      "bot/mod/admin.go",
							StartLine: 60,
							EndLine:   61,
							Method:    "Mystery",
						},
					},
				},
			},
		},
	}
}

func TestCommandCatalogStructure(t *testing.T) {
	got := CommandCatalog(catalogFixture(), reportLinks)

	for _, want := range []string{
		"# Commands",
		"## src/bot/go.mod",
		"### bot/mod/admin.go",
		"#### ban",
		"Removes a user from the server.",
		"`ban <user> [reason] [notes]…`",
		"[src/bot/mod/admin.go:30-44](https://github.com/acme/bot/blob/main/bot/mod/admin.go#L30-L44)",
		"Aliases: `kick-forever`",
		"| `reason` | Defaults to `\"no reason given\"`. | `string` |",
		"#### (unnamed)",
		"`Mystery`",
		"## Machine-readable model",
		"```yaml",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("catalog missing %q\n%s", want, got)
		}
	}
}

func TestCommandCatalogGroupsShareFirstDescription(t *testing.T) {
	got := CommandCatalog(catalogFixture(), reportLinks)

	// Both ban overloads live under one heading; the description from
	// the first declared command is printed once.
	if strings.Count(got, "#### ban") != 1 {
		t.Errorf("expected a single ban group:\n%s", got)
	}
	if strings.Count(got, "Removes a user from the server.") < 1 {
		t.Errorf("group description missing:\n%s", got)
	}
	if !strings.Contains(got, "admin.go#L50-L52") {
		t.Errorf("second overload permalink missing:\n%s", got)
	}
}

func TestCommandCatalogDescriptionFollowsDeclarationOrder(t *testing.T) {
	projects := []ProjectCommands{{
		Path: "src/bot/go.mod",
		Modules: []extract.CommandModule{{
			Name: "bot.M",
			Path: "bot/m.go",
			Commands: []extract.Command{
				{Method: "Roll", Name: "roll"},
				{Method: "RollSlash", Name: "roll", Description: "Rolls a die."},
			},
		}},
	}}
	got := CommandCatalog(projects, reportLinks)

	// Only the rendered sections count; the YAML dump keeps every field.
	prose, _, _ := strings.Cut(got, "## Machine-readable model")

	// The first declared overload carries no description, so the group
	// shows none even though a later overload has one.
	if strings.Contains(prose, "Rolls a die.") {
		t.Errorf("group description must come from the first declared overload:\n%s", prose)
	}
}

func TestCommandCatalogSortsGroups(t *testing.T) {
	projects := []ProjectCommands{{
		Path: "src/bot/go.mod",
		Modules: []extract.CommandModule{{
			Name: "bot.M",
			Path: "bot/m.go",
			Commands: []extract.Command{
				{Method: "Zap", Name: "zap"},
				{Method: "Ack", Name: "ack"},
				{Method: "Anon"},
			},
		}},
	}}
	got := CommandCatalog(projects, reportLinks)

	unnamed := strings.Index(got, "#### (unnamed)")
	ack := strings.Index(got, "#### ack")
	zap := strings.Index(got, "#### zap")
	if !(unnamed < ack && ack < zap) {
		t.Errorf("groups out of order (unnamed=%d ack=%d zap=%d):\n%s", unnamed, ack, zap, got)
	}
}

func TestSignatureSynthesis(t *testing.T) {
	cases := []struct {
		cmd  extract.Command
		want string
	}{
		{extract.Command{Name: "ping"}, "ping"},
		{extract.Command{Method: "Ping"}, "Ping"},
		{
			extract.Command{Name: "say", Arguments: []extract.Argument{
				{Name: "text"},
				{Name: "channel", Optional: true},
			}},
			"say <text> [channel]",
		},
		{
			extract.Command{Name: "sum", Arguments: []extract.Argument{
				{Name: "values", Remaining: true},
			}},
			"sum [values]…",
		},
	}
	for _, tc := range cases {
		if got := signature(tc.cmd); got != tc.want {
			t.Errorf("signature(%q) = %q, want %q", tc.cmd.Method, got, tc.want)
		}
	}
}
