package extract

import (
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/go/packages"

	"github.com/modreport/modreport/internal/diag"
	"github.com/modreport/modreport/internal/loader"
)

const testMarker = "src"

// typecheckProject builds a one-package project from source, the way
// the front end would hand it to the engine.
func typecheckProject(t *testing.T, src string) *loader.Project {
	t.Helper()

	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "/home/ci/src/bot/mod/module.go", src, parser.ParseComments)
	require.NoError(t, err)

	info := &types.Info{
		Types: make(map[ast.Expr]types.TypeAndValue),
		Defs:  make(map[*ast.Ident]types.Object),
		Uses:  make(map[*ast.Ident]types.Object),
	}
	conf := types.Config{Error: func(error) {}}
	tpkg, _ := conf.Check("bot/mod", fset, []*ast.File{file}, info)

	pkg := &packages.Package{
		ID:        "bot/mod",
		Name:      "mod",
		PkgPath:   "bot/mod",
		Fset:      fset,
		Syntax:    []*ast.File{file},
		Types:     tpkg,
		TypesInfo: info,
	}
	return &loader.Project{
		Path: "/home/ci/src/bot/go.mod",
		Name: "bot",
		Fset: fset,
		Pkgs: []*packages.Package{pkg},
	}
}

func TestModulesRecognizesMarkerBase(t *testing.T) {
	p := typecheckProject(t, `package mod

type BaseCommandModule struct{}

type Moderation struct {
	BaseCommandModule
}

type Helper struct{}

func (h *Helper) Ignore() {}
`)
	sink := &diag.Collector{}
	mods := Modules(p, testMarker, sink)

	require.Len(t, mods, 1)
	assert.Equal(t, "bot/mod.Moderation", mods[0].Name)
	assert.Equal(t, "bot/mod/module.go", mods[0].Path)
	// A matching module with zero annotated methods still exists,
	// with an empty command list.
	assert.Empty(t, mods[0].Commands)
	assert.Empty(t, sink.Entries)
}

func TestModulesPrimaryNameAnnotation(t *testing.T) {
	p := typecheckProject(t, `package mod

type BaseCommandModule struct{}

type General struct {
	BaseCommandModule
}

//cmd:command(ping)
func (g *General) Ping() error { return nil }

func (g *General) helper() {}
`)
	mods := Modules(p, testMarker, &diag.Collector{})

	require.Len(t, mods, 1)
	require.Len(t, mods[0].Commands, 1)
	cmd := mods[0].Commands[0]
	assert.Equal(t, "ping", cmd.Name)
	assert.Empty(t, cmd.Description)
	assert.Empty(t, cmd.Aliases)
	assert.Equal(t, "src/bot/mod/module.go:10-10", cmd.Location)
}

func TestModulesSlashAnnotation(t *testing.T) {
	p := typecheckProject(t, `package mod

type ApplicationCommandModule struct{}

type General struct {
	ApplicationCommandModule
}

//cmd:slash(ping, "replies pong")
func (g *General) Ping() error { return nil }
`)
	mods := Modules(p, testMarker, &diag.Collector{})

	require.Len(t, mods, 1)
	require.Len(t, mods[0].Commands, 1)
	assert.Equal(t, "ping", mods[0].Commands[0].Name)
	assert.Equal(t, "replies pong", mods[0].Commands[0].Description)
}

func TestModulesFullAnnotationSet(t *testing.T) {
	p := typecheckProject(t, `package mod

type BaseCommandModule struct{}

type BotContext struct{}

type Moderation struct {
	BaseCommandModule
}

//cmd:command(ban)
//cmd:description(Removes a user from the guild)
//cmd:aliases(b, banish)
//cmd:requirePermissions(admin)
//cmd:arg(user) description(Who to ban)
//cmd:arg(reason) default(no reason given)
//cmd:arg(reason) remaining
//cmd:arg(user) audited
func (m *Moderation) Ban(ctx *BotContext, user string, reason ...string) error {
	return nil
}
`)
	sink := &diag.Collector{}
	mods := Modules(p, testMarker, sink)

	require.Len(t, mods, 1)
	require.Len(t, mods[0].Commands, 1)
	cmd := mods[0].Commands[0]

	assert.Equal(t, "ban", cmd.Name)
	assert.Equal(t, "Removes a user from the guild", cmd.Description)
	assert.Equal(t, []string{"b", "banish"}, cmd.Aliases)
	assert.Equal(t, []string{"requirePermissions"}, cmd.Custom)

	// The leading context parameter is not an argument.
	require.Len(t, cmd.Arguments, 2)

	user := cmd.Arguments[0]
	assert.Equal(t, "user", user.Name)
	assert.Equal(t, "string", user.Type)
	assert.Equal(t, "Who to ban", user.Description)
	assert.False(t, user.Optional)
	assert.Equal(t, []string{"audited"}, user.Custom)

	reason := cmd.Arguments[1]
	assert.Equal(t, "reason", reason.Name)
	assert.Equal(t, "...string", reason.Type)
	assert.True(t, reason.Optional)
	assert.True(t, reason.Remaining)
	assert.Equal(t, "no reason given", reason.DefaultText)

	assert.Empty(t, sink.Entries)
}

func TestModulesZeroArgumentCommandWarns(t *testing.T) {
	p := typecheckProject(t, `package mod

type BaseCommandModule struct{}

type General struct {
	BaseCommandModule
}

//cmd:command()
func (g *General) Mystery() error { return nil }
`)
	sink := &diag.Collector{}
	mods := Modules(p, testMarker, sink)

	require.Len(t, mods, 1)
	require.Len(t, mods[0].Commands, 1)
	// The method is still a command, just with an unresolved name.
	assert.Empty(t, mods[0].Commands[0].Name)
	require.Len(t, sink.Entries, 1)
	assert.Contains(t, sink.Entries[0].Message, "Mystery")
}

func TestModulesUnknownParameterWarns(t *testing.T) {
	p := typecheckProject(t, `package mod

type BaseCommandModule struct{}

type General struct {
	BaseCommandModule
}

//cmd:command(echo)
//cmd:arg(nope) description(missing)
func (g *General) Echo(text string) error { return nil }
`)
	sink := &diag.Collector{}
	mods := Modules(p, testMarker, sink)

	require.Len(t, mods[0].Commands, 1)
	require.Len(t, sink.Entries, 1)
	assert.Contains(t, sink.Entries[0].Message, `"nope"`)
}

func TestModulesDeclarationOrderKept(t *testing.T) {
	p := typecheckProject(t, `package mod

type BaseCommandModule struct{}

type General struct {
	BaseCommandModule
}

//cmd:command(zeta)
func (g *General) Zeta() error { return nil }

//cmd:command(alpha)
func (g *General) Alpha() error { return nil }
`)
	mods := Modules(p, testMarker, &diag.Collector{})

	require.Len(t, mods[0].Commands, 2)
	assert.Equal(t, "zeta", mods[0].Commands[0].Name)
	assert.Equal(t, "alpha", mods[0].Commands[1].Name)
}

func TestModulesGenericReceiver(t *testing.T) {
	p := typecheckProject(t, `package mod

type BaseCommandModule struct{}

type General[T any] struct {
	BaseCommandModule
}

//cmd:command(ping)
func (g *General[T]) Ping() error { return nil }

type Paired[K comparable, V any] struct {
	BaseCommandModule
}

//cmd:command(pair)
func (p Paired[K, V]) Pair() error { return nil }
`)
	mods := Modules(p, testMarker, &diag.Collector{})

	require.Len(t, mods, 2)
	require.Len(t, mods[0].Commands, 1)
	assert.Equal(t, "ping", mods[0].Commands[0].Name)
	require.Len(t, mods[1].Commands, 1)
	assert.Equal(t, "pair", mods[1].Commands[0].Name)
}

func TestModulesParameterTypesAsWritten(t *testing.T) {
	p := typecheckProject(t, `package mod

type BaseCommandModule struct {}

type General struct {
	BaseCommandModule
}

//cmd:command(feed)
func (g *General) Feed(events chan int, sink func(), tags map[string][]string) error { return nil }
`)
	mods := Modules(p, testMarker, &diag.Collector{})

	require.Len(t, mods[0].Commands, 1)
	args := mods[0].Commands[0].Arguments
	require.Len(t, args, 3)
	assert.Equal(t, "chan int", args[0].Type)
	assert.Equal(t, "func", args[1].Type)
	assert.Equal(t, "map[string][]string", args[2].Type)
}
