// Package loader is the compiler front end: it loads Go projects into
// typed syntax trees and computes the per-symbol metrics tree the
// renderer consumes.
package loader

import (
	"context"
	"fmt"
	"go/token"
	"path/filepath"
	"strings"

	"golang.org/x/tools/go/packages"
)

const loadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedCompiledGoFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedModule |
	packages.NeedImports |
	packages.NeedDeps

// Project is one loaded project: the typed syntax trees and symbol
// information for every package beneath a go.mod.
type Project struct {
	Path string // project file path as discovered
	Dir  string
	Name string // module path
	Fset *token.FileSet
	Pkgs []*packages.Package
}

// Load loads the project rooted at the given go.mod. Packages that fail
// to type-check are still returned; extraction and metrics work on
// whatever syntax is available.
func Load(ctx context.Context, projectFile string) (*Project, error) {
	dir := filepath.Dir(projectFile)
	fset := token.NewFileSet()

	cfg := &packages.Config{
		Context: ctx,
		Dir:     dir,
		Fset:    fset,
		Mode:    loadMode,
	}
	pkgs, err := packages.Load(cfg, "./...")
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", projectFile, err)
	}

	var kept []*packages.Package
	for _, pkg := range pkgs {
		if isTestPackage(pkg) {
			continue
		}
		kept = append(kept, pkg)
	}

	name := filepath.Base(dir)
	if len(kept) > 0 && kept[0].Module != nil && kept[0].Module.Path != "" {
		name = kept[0].Module.Path
	}

	return &Project{
		Path: projectFile,
		Dir:  dir,
		Name: name,
		Fset: fset,
		Pkgs: kept,
	}, nil
}

func isTestPackage(pkg *packages.Package) bool {
	return strings.HasSuffix(pkg.ID, ".test") ||
		strings.HasSuffix(pkg.Name, "_test") ||
		strings.Contains(pkg.ID, ".test]")
}
