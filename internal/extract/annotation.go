package extract

import (
	"go/ast"
	"strings"
)

// annoKind is the closed set of annotation kinds the extractor
// understands. Anything else is annoCustom and carries its spelled name
// so downstream consumers can pick it up later.
type annoKind int

const (
	annoCommand annoKind = iota // primary command name
	annoSlash                   // slash-style: name + description
	annoDescription
	annoAliases
	annoRemaining // parameter-level: consumes all trailing input
	annoDefault   // parameter-level: default value text
	annoCustom
)

// annotation is one parsed //cmd: directive. param is set for
// parameter-scoped directives.
type annotation struct {
	kind  annoKind
	name  string
	param string
	args  []string
}

const directivePrefix = "//cmd:"

var annoKinds = map[string]annoKind{
	"command":     annoCommand,
	"slash":       annoSlash,
	"description": annoDescription,
	"aliases":     annoAliases,
	"remaining":   annoRemaining,
	"default":     annoDefault,
}

func classify(name string) annoKind {
	if k, ok := annoKinds[name]; ok {
		return k
	}
	return annoCustom
}

// parseAnnotations extracts every //cmd: directive from a doc comment.
func parseAnnotations(doc *ast.CommentGroup) []annotation {
	if doc == nil {
		return nil
	}
	var out []annotation
	for _, c := range doc.List {
		if !strings.HasPrefix(c.Text, directivePrefix) {
			continue
		}
		if a, ok := parseDirective(strings.TrimPrefix(c.Text, directivePrefix)); ok {
			out = append(out, a)
		}
	}
	return out
}

// parseDirective parses "name(args)" or the parameter-scoped form
// "arg(param) name(args)".
func parseDirective(s string) (annotation, bool) {
	name, rest := readIdent(s)
	if name == "" {
		return annotation{}, false
	}

	if name != "arg" {
		return annotation{kind: classify(name), name: name, args: readArgs(rest, true)}, true
	}

	// arg(param) <inner directive>
	scope := readArgs(rest, false)
	if len(scope) == 0 {
		return annotation{kind: annoCustom, name: name}, true
	}
	param := scope[0]

	inner := rest
	if idx := strings.Index(rest, ")"); idx >= 0 {
		inner = rest[idx+1:]
	}
	innerName, innerRest := readIdent(strings.TrimSpace(inner))
	if innerName == "" {
		return annotation{kind: annoCustom, name: name, param: param}, true
	}
	return annotation{
		kind:  classify(innerName),
		name:  innerName,
		param: param,
		args:  readArgs(innerRest, true),
	}, true
}

// readIdent splits a leading identifier off the string.
func readIdent(s string) (string, string) {
	i := 0
	for i < len(s) {
		c := s[i]
		if c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_' {
			i++
			continue
		}
		break
	}
	return s[:i], s[i:]
}

// readArgs parses a parenthesized argument list. greedy selects the
// last closing paren (terminal groups, so quoted text may hold parens);
// otherwise the group ends at the first one.
func readArgs(s string, greedy bool) []string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "(") {
		return nil
	}
	var end int
	if greedy {
		end = strings.LastIndex(s, ")")
	} else {
		end = strings.Index(s, ")")
	}
	if end < 0 {
		return nil
	}
	return splitArgs(s[1:end])
}

// splitArgs splits on commas outside double quotes, trims each piece
// and strips surrounding quotes. The result preserves literal text.
func splitArgs(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var args []string
	var cur strings.Builder
	inQuote := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '"':
			inQuote = !inQuote
			cur.WriteByte(c)
		case c == ',' && !inQuote:
			args = append(args, cleanArg(cur.String()))
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	args = append(args, cleanArg(cur.String()))
	return args
}

func cleanArg(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	return s
}
