package extract

import (
	"go/ast"
	"go/token"
	"go/types"
	"strings"

	"golang.org/x/tools/go/packages"

	"github.com/modreport/modreport/internal/diag"
	"github.com/modreport/modreport/internal/loader"
)

// markerBases are the designated base types: embedding either one marks
// a struct as a command module.
var markerBases = map[string]bool{
	"BaseCommandModule":        true,
	"ApplicationCommandModule": true,
}

// Modules walks the project's typed syntax trees and recovers every
// command module in declaration order. Methods without annotations are
// invisible; malformed annotations warn to the sink and never fail the
// walk.
func Modules(p *loader.Project, marker string, sink diag.Sink) []CommandModule {
	var out []CommandModule
	for _, pkg := range p.Pkgs {
		out = append(out, packageModules(p.Fset, pkg, marker, sink)...)
	}
	return out
}

func packageModules(fset *token.FileSet, pkg *packages.Package, marker string, sink diag.Sink) []CommandModule {
	var modules []CommandModule
	for _, file := range pkg.Syntax {
		for _, decl := range file.Decls {
			gen, ok := decl.(*ast.GenDecl)
			if !ok || gen.Tok != token.TYPE {
				continue
			}
			for _, spec := range gen.Specs {
				ts, ok := spec.(*ast.TypeSpec)
				if !ok {
					continue
				}
				st, ok := ts.Type.(*ast.StructType)
				if !ok || !isCommandModule(pkg, st) {
					continue
				}
				mod := CommandModule{
					Name: pkg.PkgPath + "." + ts.Name.Name,
					Path: RelPath(fset.Position(ts.Pos()).Filename, marker),
				}
				mod.Commands = moduleCommands(fset, pkg, ts.Name.Name, marker, sink)
				modules = append(modules, mod)
			}
		}
	}
	return modules
}

// isCommandModule checks the struct's embedded fields, resolving each
// through the type checker so aliases and cross-package embedding still
// match the marker names.
func isCommandModule(pkg *packages.Package, st *ast.StructType) bool {
	if st.Fields == nil {
		return false
	}
	for _, field := range st.Fields.List {
		if len(field.Names) > 0 {
			continue
		}
		if markerBases[resolvedTypeName(pkg, field.Type)] {
			return true
		}
	}
	return false
}

// resolvedTypeName returns the declared name of the type an expression
// refers to, preferring semantic resolution and falling back to the
// written identifier when type information is unavailable.
func resolvedTypeName(pkg *packages.Package, expr ast.Expr) string {
	if pkg.TypesInfo != nil {
		if t := pkg.TypesInfo.TypeOf(expr); t != nil {
			if ptr, ok := t.(*types.Pointer); ok {
				t = ptr.Elem()
			}
			if named, ok := t.(*types.Named); ok {
				return named.Obj().Name()
			}
		}
	}
	return writtenBaseName(expr)
}

func writtenBaseName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.StarExpr:
		return writtenBaseName(t.X)
	case *ast.SelectorExpr:
		return t.Sel.Name
	case *ast.Ident:
		return t.Name
	case *ast.IndexExpr: // Generic[T]
		return writtenBaseName(t.X)
	case *ast.IndexListExpr: // Generic[T, U]
		return writtenBaseName(t.X)
	default:
		return ""
	}
}

// moduleCommands collects the annotated methods of one module type, in
// declaration order across the package's files.
func moduleCommands(fset *token.FileSet, pkg *packages.Package, typeName, marker string, sink diag.Sink) []Command {
	var commands []Command
	for _, file := range pkg.Syntax {
		for _, decl := range file.Decls {
			fn, ok := decl.(*ast.FuncDecl)
			if !ok || fn.Recv == nil || len(fn.Recv.List) == 0 {
				continue
			}
			if writtenBaseName(fn.Recv.List[0].Type) != typeName {
				continue
			}
			annos := parseAnnotations(fn.Doc)
			if len(annos) == 0 {
				continue // unannotated methods are invisible
			}
			commands = append(commands, buildCommand(fset, fn, annos, marker, sink))
		}
	}
	return commands
}

func buildCommand(fset *token.FileSet, fn *ast.FuncDecl, annos []annotation, marker string, sink diag.Sink) Command {
	start := fset.Position(fn.Pos())
	end := fset.Position(fn.End())

	b := &commandBuilder{
		method:   fn.Name.Name,
		location: Location(start.Filename, marker, start.Line, end.Line),
		file:     RelPath(start.Filename, marker),
		start:    start.Line,
		end:      end.Line,
	}
	b.args = parameterBuilders(fn)

	byParam := make(map[string]*argumentBuilder, len(b.args))
	for _, ab := range b.args {
		byParam[ab.name] = ab
	}

	for _, a := range annos {
		if a.param == "" {
			b.applyMethod(a, sink)
			continue
		}
		ab, ok := byParam[a.param]
		if !ok {
			sink.Warnf("annotation on %s targets unknown parameter %q", fn.Name.Name, a.param)
			continue
		}
		ab.apply(a, sink)
	}

	return b.finalize()
}

// parameterBuilders seeds one argument builder per parameter, skipping
// a conventional leading context parameter.
func parameterBuilders(fn *ast.FuncDecl) []*argumentBuilder {
	if fn.Type.Params == nil {
		return nil
	}

	var builders []*argumentBuilder
	first := true
	for _, field := range fn.Type.Params.List {
		typ := loader.TypeString(field.Type)
		names := field.Names
		if len(names) == 0 {
			names = []*ast.Ident{{Name: "_"}}
		}
		for _, name := range names {
			if first {
				first = false
				if strings.HasSuffix(strings.TrimPrefix(typ, "*"), "Context") {
					continue
				}
			}
			builders = append(builders, &argumentBuilder{
				method: fn.Name.Name,
				name:   name.Name,
				typ:    typ,
			})
		}
	}
	return builders
}
