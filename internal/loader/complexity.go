package loader

import (
	"fmt"
	"go/ast"
	"go/token"
	"math"
)

// cyclomaticComplexity counts decision points in a function body,
// starting from a base of 1.
func cyclomaticComplexity(fn *ast.FuncDecl) int {
	complexity := 1
	if fn.Body == nil {
		return complexity
	}

	ast.Inspect(fn.Body, func(n ast.Node) bool {
		switch node := n.(type) {
		case *ast.IfStmt, *ast.ForStmt, *ast.RangeStmt:
			complexity++
		case *ast.CaseClause:
			if node.List != nil { // default adds no branch
				complexity++
			}
		case *ast.CommClause:
			if node.Comm != nil {
				complexity++
			}
		case *ast.BinaryExpr:
			if node.Op == token.LAND || node.Op == token.LOR {
				complexity++
			}
		}
		return true
	})

	return complexity
}

// sourceLines is the inclusive span of a declaration in its file.
func sourceLines(fset *token.FileSet, node ast.Node) int {
	return fset.Position(node.End()).Line - fset.Position(node.Pos()).Line + 1
}

// executableLines counts distinct lines holding a statement.
func executableLines(fset *token.FileSet, fn *ast.FuncDecl) int {
	if fn.Body == nil {
		return 0
	}
	lines := make(map[int]bool)
	ast.Inspect(fn.Body, func(n ast.Node) bool {
		switch n.(type) {
		case *ast.BlockStmt, nil:
			return true
		case ast.Stmt:
			lines[fset.Position(n.Pos()).Line] = true
		}
		return true
	})
	return len(lines)
}

// halsteadVolume approximates the Halstead volume of a function from
// operator and operand counts.
func halsteadVolume(fn *ast.FuncDecl) float64 {
	if fn.Body == nil {
		return 0
	}

	operators := make(map[string]int)
	operands := make(map[string]int)

	ast.Inspect(fn.Body, func(n ast.Node) bool {
		switch node := n.(type) {
		case *ast.BinaryExpr:
			operators[node.Op.String()]++
		case *ast.UnaryExpr:
			operators[node.Op.String()]++
		case *ast.AssignStmt:
			operators[node.Tok.String()]++
		case *ast.IncDecStmt:
			operators[node.Tok.String()]++
		case *ast.CallExpr:
			operators["()"]++
		case *ast.IndexExpr:
			operators["[]"]++
		case *ast.StarExpr:
			operators["*"]++
		case *ast.IfStmt:
			operators["if"]++
		case *ast.ForStmt, *ast.RangeStmt:
			operators["for"]++
		case *ast.SwitchStmt, *ast.TypeSwitchStmt:
			operators["switch"]++
		case *ast.SelectStmt:
			operators["select"]++
		case *ast.ReturnStmt:
			operators["return"]++
		case *ast.GoStmt:
			operators["go"]++
		case *ast.DeferStmt:
			operators["defer"]++
		case *ast.Ident:
			operands[node.Name]++
		case *ast.BasicLit:
			operands[node.Value]++
		}
		return true
	})

	total := 0
	for _, c := range operators {
		total += c
	}
	for _, c := range operands {
		total += c
	}
	distinct := len(operators) + len(operands)
	if total == 0 || distinct == 0 {
		return 0
	}
	return float64(total) * math.Log2(float64(distinct))
}

// maintainabilityIndex computes the 0-100 maintainability index from
// Halstead volume, cyclomatic complexity and line count.
func maintainabilityIndex(volume float64, complexity, lines int) int {
	if volume < 1 {
		volume = 1
	}
	if lines < 1 {
		lines = 1
	}
	mi := 171 - 5.2*math.Log(volume) - 0.23*float64(complexity) - 16.2*math.Log(float64(lines))
	mi = mi * 100 / 171
	if mi < 0 {
		mi = 0
	}
	return int(math.Round(mi))
}

// TypeString renders a type expression as written, covering the forms
// that appear in signatures. The command extractor shares it for
// parameter types so both documents render a declaration identically.
func TypeString(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.StarExpr:
		return "*" + TypeString(t.X)
	case *ast.SelectorExpr:
		return TypeString(t.X) + "." + t.Sel.Name
	case *ast.ArrayType:
		return "[]" + TypeString(t.Elt)
	case *ast.Ellipsis:
		return "..." + TypeString(t.Elt)
	case *ast.MapType:
		return "map[" + TypeString(t.Key) + "]" + TypeString(t.Value)
	case *ast.ChanType:
		return "chan " + TypeString(t.Value)
	case *ast.FuncType:
		return "func"
	case *ast.InterfaceType:
		return "interface{}"
	case *ast.IndexExpr: // Generic[T]
		return TypeString(t.X) + "[" + TypeString(t.Index) + "]"
	case *ast.IndexListExpr: // Generic[T, U]
		args := ""
		for i, idx := range t.Indices {
			if i > 0 {
				args += ", "
			}
			args += TypeString(idx)
		}
		return TypeString(t.X) + "[" + args + "]"
	default:
		return fmt.Sprintf("%T", expr)
	}
}
