package loader

import (
	"go/ast"
	"go/token"
	"go/types"
	"strings"

	"golang.org/x/tools/go/packages"

	"github.com/modreport/modreport/internal/metrics"
)

// BuildMetrics computes the metrics tree for a loaded project:
// module -> package -> type -> member, in declaration order.
func BuildMetrics(p *Project) *metrics.MetricNode {
	root := &metrics.MetricNode{Kind: metrics.KindAssembly, Name: p.Name}

	candidates := collectInterfaces(p.Pkgs)
	for _, pkg := range p.Pkgs {
		ns := buildPackageNode(p.Fset, pkg, candidates)
		if ns == nil {
			continue
		}
		root.Children = append(root.Children, ns)
		root.SourceLines += ns.SourceLines
		root.ExecutableLines += ns.ExecutableLines
		root.CoupledTypes += ns.CoupledTypes
	}
	root.Maintainability = averageMaintainability(root.Children)
	return root
}

// ifaceCandidate is a declared, exported, non-generic interface a type
// may implement.
type ifaceCandidate struct {
	obj   *types.TypeName
	iface *types.Interface
}

func collectInterfaces(pkgs []*packages.Package) []ifaceCandidate {
	var out []ifaceCandidate
	for _, pkg := range pkgs {
		if pkg.Types == nil {
			continue
		}
		scope := pkg.Types.Scope()
		for _, name := range scope.Names() {
			obj, ok := scope.Lookup(name).(*types.TypeName)
			if !ok || !obj.Exported() || obj.IsAlias() {
				continue
			}
			named, ok := obj.Type().(*types.Named)
			if !ok || named.TypeParams().Len() > 0 {
				continue
			}
			iface, ok := named.Underlying().(*types.Interface)
			if !ok || iface.NumMethods() == 0 {
				continue
			}
			out = append(out, ifaceCandidate{obj: obj, iface: iface})
		}
	}
	return out
}

func buildPackageNode(fset *token.FileSet, pkg *packages.Package, candidates []ifaceCandidate) *metrics.MetricNode {
	if len(pkg.Syntax) == 0 {
		return nil
	}

	ns := &metrics.MetricNode{Kind: metrics.KindNamespace, Name: pkg.PkgPath}

	typeNodes := make(map[string]*metrics.MetricNode)
	var typeOrder []string
	var freeFuncs []*metrics.MetricNode

	// First pass: type declarations and their fields.
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
				node := buildTypeNode(fset, pkg, ts, candidates)
				typeNodes[ts.Name.Name] = node
				typeOrder = append(typeOrder, ts.Name.Name)
			}
		}
	}

	// Second pass: methods, constructors and free functions.
	for _, file := range pkg.Syntax {
		for _, decl := range file.Decls {
			fn, ok := decl.(*ast.FuncDecl)
			if !ok {
				continue
			}
			member := buildFuncNode(fset, pkg, fn)
			if owner := ownerType(fn, typeNodes); owner != nil {
				owner.Children = append(owner.Children, member)
			} else {
				freeFuncs = append(freeFuncs, member)
			}
		}
	}

	for _, name := range typeOrder {
		t := typeNodes[name]
		finalizeTypeNode(t)
		ns.Children = append(ns.Children, t)
		ns.SourceLines += t.SourceLines
		ns.ExecutableLines += t.ExecutableLines
		ns.CoupledTypes += t.CoupledTypes
	}
	for _, fn := range freeFuncs {
		ns.Children = append(ns.Children, fn)
		ns.SourceLines += fn.SourceLines
		ns.ExecutableLines += fn.ExecutableLines
		ns.CoupledTypes += fn.CoupledTypes
	}
	ns.Maintainability = averageMaintainability(ns.Children)
	return ns
}

// ownerType resolves the type node a function belongs to: its receiver
// base type, or the type a New<Type> constructor returns.
func ownerType(fn *ast.FuncDecl, typeNodes map[string]*metrics.MetricNode) *metrics.MetricNode {
	if fn.Recv != nil && len(fn.Recv.List) > 0 {
		return typeNodes[receiverBase(fn.Recv.List[0].Type)]
	}
	if rest, ok := strings.CutPrefix(fn.Name.Name, "New"); ok && rest != "" {
		return typeNodes[rest]
	}
	return nil
}

// receiverBase strips pointer and generic instantiation from a receiver
// type expression.
func receiverBase(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.StarExpr:
		return receiverBase(t.X)
	case *ast.IndexExpr:
		return receiverBase(t.X)
	case *ast.IndexListExpr:
		return receiverBase(t.X)
	case *ast.Ident:
		return t.Name
	default:
		return ""
	}
}

func buildTypeNode(fset *token.FileSet, pkg *packages.Package, ts *ast.TypeSpec, candidates []ifaceCandidate) *metrics.MetricNode {
	pos := fset.Position(ts.Pos())
	name := ts.Name.Name
	if ts.TypeParams != nil && len(ts.TypeParams.List) > 0 {
		var params []string
		for _, f := range ts.TypeParams.List {
			for _, n := range f.Names {
				params = append(params, n.Name)
			}
		}
		name += "[" + strings.Join(params, ", ") + "]"
	}

	node := &metrics.MetricNode{
		Kind:        metrics.KindNamedType,
		Name:        name,
		File:        pos.Filename,
		Line:        pos.Line,
		SourceLines: sourceLines(fset, ts),
	}

	var self types.Object
	if pkg.TypesInfo != nil {
		self = pkg.TypesInfo.Defs[ts.Name]
	}
	node.CoupledTypes = coupledTypes(pkg, ts, self)

	depth := embeddingDepth(pkg, ts)
	node.InheritanceDepth = &depth

	if st, ok := ts.Type.(*ast.StructType); ok && st.Fields != nil {
		for _, field := range st.Fields.List {
			for _, fieldName := range field.Names {
				fpos := fset.Position(field.Pos())
				node.Children = append(node.Children, &metrics.MetricNode{
					Kind:            metrics.KindField,
					Name:            fieldName.Name + " : " + TypeString(field.Type),
					File:            fpos.Filename,
					Line:            fpos.Line,
					SourceLines:     1,
					Maintainability: 100,
					CoupledTypes:    coupledTypes(pkg, field.Type, self),
				})
			}
		}
	}

	if it, ok := ts.Type.(*ast.InterfaceType); ok && it.Methods != nil {
		for _, m := range it.Methods.List {
			if len(m.Names) == 0 {
				continue // embedded interface
			}
			ft, ok := m.Type.(*ast.FuncType)
			if !ok {
				continue
			}
			mpos := fset.Position(m.Pos())
			node.Children = append(node.Children, &metrics.MetricNode{
				Kind:            metrics.KindMethod,
				Name:            name + "." + signatureString(m.Names[0].Name, ft),
				File:            mpos.Filename,
				Line:            mpos.Line,
				SourceLines:     1,
				Complexity:      1,
				Maintainability: 100,
				Abstract:        true,
			})
		}
	}

	node.Interfaces = implementedInterfaces(pkg, ts, candidates)
	return node
}

// implementedInterfaces lists the display names of interfaces the type
// satisfies, plus any instantiated generic interfaces it embeds.
func implementedInterfaces(pkg *packages.Package, ts *ast.TypeSpec, candidates []ifaceCandidate) []string {
	if pkg.TypesInfo == nil {
		return nil
	}
	obj, ok := pkg.TypesInfo.Defs[ts.Name].(*types.TypeName)
	if !ok {
		return nil
	}
	named, ok := obj.Type().(*types.Named)
	if !ok {
		return nil
	}

	var out []string
	for _, c := range candidates {
		if c.obj == obj {
			continue
		}
		if types.Implements(named, c.iface) || types.Implements(types.NewPointer(named), c.iface) {
			out = append(out, c.obj.Name())
		}
	}

	// Embedded instantiations of generic interfaces.
	if st, ok := ts.Type.(*ast.StructType); ok && st.Fields != nil {
		for _, field := range st.Fields.List {
			if len(field.Names) > 0 {
				continue
			}
			t := pkg.TypesInfo.TypeOf(field.Type)
			if t == nil {
				continue
			}
			if ptr, ok := t.(*types.Pointer); ok {
				t = ptr.Elem()
			}
			embedded, ok := t.(*types.Named)
			if !ok || embedded.TypeArgs().Len() == 0 {
				continue
			}
			if _, ok := embedded.Underlying().(*types.Interface); !ok {
				continue
			}
			out = append(out, types.TypeString(t, func(*types.Package) string { return "" }))
		}
	}
	return out
}

func buildFuncNode(fset *token.FileSet, pkg *packages.Package, fn *ast.FuncDecl) *metrics.MetricNode {
	pos := fset.Position(fn.Pos())
	complexity := cyclomaticComplexity(fn)
	lines := sourceLines(fset, fn)

	var self types.Object
	if pkg.TypesInfo != nil {
		self = pkg.TypesInfo.Defs[fn.Name]
	}

	return &metrics.MetricNode{
		Kind:            metrics.KindMethod,
		Name:            funcDisplayName(fn),
		File:            pos.Filename,
		Line:            pos.Line,
		SourceLines:     lines,
		ExecutableLines: executableLines(fset, fn),
		Complexity:      complexity,
		Maintainability: maintainabilityIndex(halsteadVolume(fn), complexity, lines),
		CoupledTypes:    coupledTypes(pkg, fn, self),
		Static:          fn.Recv == nil,
	}
}

// funcDisplayName renders a member display name: the receiver-qualified
// name, the parameter types and the result types. Constructors
// (New<Type> functions) qualify under the type they build.
func funcDisplayName(fn *ast.FuncDecl) string {
	qualifier := ""
	if fn.Recv != nil && len(fn.Recv.List) > 0 {
		qualifier = receiverBase(fn.Recv.List[0].Type)
	} else if rest, ok := strings.CutPrefix(fn.Name.Name, "New"); ok && rest != "" {
		qualifier = rest
	}
	sig := signatureString(fn.Name.Name, fn.Type)
	if qualifier == "" {
		return sig
	}
	return qualifier + "." + sig
}

// signatureString renders "name(paramTypes) resultTypes".
func signatureString(name string, ft *ast.FuncType) string {
	var b strings.Builder
	b.WriteString(name)
	b.WriteString("(")
	if ft.Params != nil {
		first := true
		for _, p := range ft.Params.List {
			n := len(p.Names)
			if n == 0 {
				n = 1
			}
			for i := 0; i < n; i++ {
				if !first {
					b.WriteString(", ")
				}
				first = false
				b.WriteString(TypeString(p.Type))
			}
		}
	}
	b.WriteString(")")
	if ft.Results != nil && len(ft.Results.List) > 0 {
		var rets []string
		for _, r := range ft.Results.List {
			n := len(r.Names)
			if n == 0 {
				n = 1
			}
			for i := 0; i < n; i++ {
				rets = append(rets, TypeString(r.Type))
			}
		}
		b.WriteString(" ")
		if len(rets) == 1 {
			b.WriteString(rets[0])
		} else {
			b.WriteString("(" + strings.Join(rets, ", ") + ")")
		}
	}
	return b.String()
}

// coupledTypes counts the distinct named types a declaration refers to,
// excluding the declaring symbol itself.
func coupledTypes(pkg *packages.Package, node ast.Node, self types.Object) int {
	if pkg.TypesInfo == nil {
		return 0
	}
	seen := make(map[string]bool)
	ast.Inspect(node, func(n ast.Node) bool {
		id, ok := n.(*ast.Ident)
		if !ok {
			return true
		}
		obj, ok := pkg.TypesInfo.Uses[id].(*types.TypeName)
		if !ok || obj.Pkg() == nil || obj == self {
			return true
		}
		seen[obj.Pkg().Path()+"."+obj.Name()] = true
		return true
	})
	return len(seen)
}

// embeddingDepth is the inheritance-depth analogue: 1 plus the deepest
// chain of embedded named struct types.
func embeddingDepth(pkg *packages.Package, ts *ast.TypeSpec) int {
	if pkg.TypesInfo == nil {
		return 1
	}
	obj := pkg.TypesInfo.Defs[ts.Name]
	if obj == nil {
		return 1
	}
	return namedDepth(obj.Type(), make(map[types.Type]bool))
}

func namedDepth(t types.Type, seen map[types.Type]bool) int {
	if seen[t] {
		return 1
	}
	seen[t] = true

	named, ok := t.(*types.Named)
	if !ok {
		return 1
	}
	st, ok := named.Underlying().(*types.Struct)
	if !ok {
		return 1
	}
	depth := 1
	for i := 0; i < st.NumFields(); i++ {
		field := st.Field(i)
		if !field.Embedded() {
			continue
		}
		ft := field.Type()
		if ptr, ok := ft.(*types.Pointer); ok {
			ft = ptr.Elem()
		}
		if d := 1 + namedDepth(ft, seen); d > depth {
			depth = d
		}
	}
	return depth
}

func finalizeTypeNode(t *metrics.MetricNode) {
	for _, m := range t.Children {
		// Field lines are already inside the declaration span.
		if m.Kind != metrics.KindField {
			t.SourceLines += m.SourceLines
		}
		t.ExecutableLines += m.ExecutableLines
	}
	t.Maintainability = averageMaintainability(t.Children)
}

func averageMaintainability(nodes []*metrics.MetricNode) int {
	if len(nodes) == 0 {
		return 100
	}
	sum := 0
	for _, n := range nodes {
		sum += n.Maintainability
	}
	return sum / len(nodes)
}
