package engine

import (
	"github.com/walterschell/chesslang/ast"
	"github.com/walterschell/chesslang/board"
	"github.com/walterschell/chesslang/script"
)

type compiledScript struct {
	on    ast.EventKind
	stmts []script.Stmt
}

// compileScripts parses every `script { ... }` block's verbatim source
// once at engine construction (the compiler already ran
// script.ValidateSyntax over the same source at compile time — this is a
// second parse producing the tree actually walked at runtime, not a second
// validation pass).
func compileScripts(blocks []ast.ScriptBlock) ([]compiledScript, error) {
	out := make([]compiledScript, 0, len(blocks))
	for _, b := range blocks {
		stmts, err := script.ParseProgram(b.Source)
		if err != nil {
			return nil, errf("script block: %v", err)
		}
		out = append(out, compiledScript{on: b.On, stmts: stmts})
	}
	return out, nil
}

// runScripts executes every script bound to step.kind, in declaration
// order, after triggers for the same event have run (spec.md §4.6: scripts
// and the trigger executor both answer to the event bus; ChessLang runs
// triggers first since they can `cancel` the event, and scripts have no
// such veto power). A script's binding names its event.* payload directly
// (`piece`, `from`, `to`, `captured`) rather than through an `event.`
// prefix, since the script mini-language has no special-cased namespace —
// every top-level name is just a variable.
func (e *Engine) runScripts(step stepEntry) {
	bindings := scriptBindings(step.binding)
	for _, cs := range e.scripts {
		if cs.on != step.kind {
			continue
		}
		if err := script.Run(cs.stmts, e, bindings); err != nil {
			log.Warn("script error", "event", step.kind.String(), "err", err)
		}
	}
}

func scriptBindings(binding map[string]any) map[string]any {
	out := make(map[string]any, len(binding))
	for k, v := range binding {
		if p, ok := v.(*board.Piece); ok {
			out[k] = toView(p)
			continue
		}
		out[k] = v
	}
	return out
}
