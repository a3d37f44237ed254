package extract

import "github.com/modreport/modreport/internal/diag"

// commandBuilder accumulates annotation-driven field updates and
// finalizes into an immutable Command once per method. Handlers never
// share mutable state across traversal callbacks.
type commandBuilder struct {
	method      string
	location    string
	file        string
	start, end  int
	name        string
	description string
	aliases     []string
	custom      []string
	args        []*argumentBuilder
}

// applyMethod dispatches one method-level annotation. The switch is
// exhaustive over annoKind; parameter-only kinds are unknown at method
// level and are deferred like any other unrecognized annotation.
func (b *commandBuilder) applyMethod(a annotation, sink diag.Sink) {
	switch a.kind {
	case annoCommand:
		if len(a.args) == 0 {
			sink.Warnf("command annotation on %s names no command, name left unset", b.method)
			return
		}
		b.name = a.args[0]
	case annoSlash:
		if len(a.args) == 0 {
			sink.Warnf("slash annotation on %s names no command, name left unset", b.method)
			return
		}
		b.name = a.args[0]
		if len(a.args) >= 2 {
			b.description = a.args[1]
		} else {
			sink.Warnf("slash annotation on %s carries no description", b.method)
		}
	case annoDescription:
		if len(a.args) == 0 {
			sink.Warnf("description annotation on %s is empty, left unset", b.method)
			return
		}
		b.description = a.args[0]
	case annoAliases:
		b.aliases = append(b.aliases[:0], a.args...)
	case annoRemaining, annoDefault, annoCustom:
		b.custom = append(b.custom, a.name)
	}
}

func (b *commandBuilder) finalize() Command {
	cmd := Command{
		Location:    b.location,
		File:        b.file,
		StartLine:   b.start,
		EndLine:     b.end,
		Method:      b.method,
		Name:        b.name,
		Description: b.description,
		Aliases:     b.aliases,
		Custom:      b.custom,
	}
	for _, ab := range b.args {
		cmd.Arguments = append(cmd.Arguments, ab.finalize())
	}
	return cmd
}

// argumentBuilder mirrors commandBuilder for one parameter.
type argumentBuilder struct {
	method      string
	name        string
	typ         string
	optional    bool
	remaining   bool
	defaultText string
	description string
	custom      []string
}

// apply dispatches one parameter-level annotation. Method-only kinds
// are unknown here and are deferred by name.
func (b *argumentBuilder) apply(a annotation, sink diag.Sink) {
	switch a.kind {
	case annoDescription:
		if len(a.args) == 0 {
			sink.Warnf("description annotation on %s(%s) is empty, left unset", b.method, b.name)
			return
		}
		b.description = a.args[0]
	case annoRemaining:
		b.remaining = true
	case annoDefault:
		if len(a.args) == 0 {
			sink.Warnf("default annotation on %s(%s) carries no value, parameter stays required", b.method, b.name)
			return
		}
		b.defaultText = a.args[0]
		b.optional = true
	case annoCommand, annoSlash, annoAliases, annoCustom:
		b.custom = append(b.custom, a.name)
	}
}

func (b *argumentBuilder) finalize() Argument {
	return Argument{
		Name:        b.name,
		Type:        b.typ,
		Optional:    b.optional,
		Remaining:   b.remaining,
		DefaultText: b.defaultText,
		Description: b.description,
		Custom:      b.custom,
	}
}
