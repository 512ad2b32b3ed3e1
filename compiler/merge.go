package compiler

import "github.com/walterschell/chesslang/ast"

// mergeGame combines a base game with a child's overrides (spec.md §4.3
// step 5). Pieces, effects, and top-level triggers are keyed by name: a
// child declaration with the same name as a base one is a full
// replacement, not a field-by-field patch — this keeps override semantics
// unambiguous (an open question resolved this way; see DESIGN.md). Setup,
// victory, and draw honor the explicit add/replace/remove merge actions
// the parser already tags each entry with.
func mergeGame(base, child *ast.Game) *ast.Game {
	merged := &ast.Game{
		Name:  child.Name,
		Board: mergeBoard(base.Board, child.Board),
		Rules: mergeRules(base.Rules, child.Rules),
	}
	if merged.Name == "" {
		merged.Name = base.Name
	}

	merged.Pieces = mergeNamedPieces(base.Pieces, child.Pieces)
	merged.Effects = mergeNamedEffects(base.Effects, child.Effects)
	merged.Triggers = mergeNamedTriggers(base.Triggers, child.Triggers)
	merged.Setup = mergeSetup(base.Setup, child.Setup)
	merged.Victory = mergeVictory(base.Victory, child.Victory)
	merged.Draw = mergeDraw(base.Draw, child.Draw)
	merged.Patterns = mergeNamedPatterns(base.Patterns, child.Patterns)
	merged.Scripts = append(append([]ast.ScriptBlock{}, base.Scripts...), child.Scripts...)
	return merged
}

func mergeBoard(base, child *ast.BoardConfig) *ast.BoardConfig {
	if child == nil {
		return base
	}
	if base == nil {
		return child
	}
	out := &ast.BoardConfig{Width: base.Width, Height: base.Height, Zones: map[string][]string{}}
	for name, squares := range base.Zones {
		out.Zones[name] = squares
	}
	if child.Width != 0 {
		out.Width = child.Width
	}
	if child.Height != 0 {
		out.Height = child.Height
	}
	for name, squares := range child.Zones {
		out.Zones[name] = squares
	}
	return out
}

func mergeRules(base, child map[string]any) map[string]any {
	out := map[string]any{}
	for k, v := range base {
		out[k] = v
	}
	for k, v := range child {
		out[k] = v
	}
	return out
}

func mergeNamedPieces(base, child []ast.PieceDecl) []ast.PieceDecl {
	out := append([]ast.PieceDecl{}, base...)
	index := map[string]int{}
	for i, pd := range out {
		index[pd.Name] = i
	}
	for _, pd := range child {
		if i, ok := index[pd.Name]; ok {
			out[i] = pd
			continue
		}
		index[pd.Name] = len(out)
		out = append(out, pd)
	}
	return out
}

func mergeNamedEffects(base, child []ast.EffectDecl) []ast.EffectDecl {
	out := append([]ast.EffectDecl{}, base...)
	index := map[string]int{}
	for i, ed := range out {
		index[ed.Name] = i
	}
	for _, ed := range child {
		if i, ok := index[ed.Name]; ok {
			out[i] = ed
			continue
		}
		index[ed.Name] = len(out)
		out = append(out, ed)
	}
	return out
}

func mergeNamedTriggers(base, child []ast.Trigger) []ast.Trigger {
	out := append([]ast.Trigger{}, base...)
	index := map[string]int{}
	for i, tr := range out {
		index[tr.Name] = i
	}
	for _, tr := range child {
		if i, ok := index[tr.Name]; ok {
			out[i] = tr
			continue
		}
		index[tr.Name] = len(out)
		out = append(out, tr)
	}
	return out
}

func mergeNamedPatterns(base, child []ast.NamedPatternDecl) []ast.NamedPatternDecl {
	out := append([]ast.NamedPatternDecl{}, base...)
	index := map[string]int{}
	for i, pd := range out {
		index[pd.Name] = i
	}
	for _, pd := range child {
		if i, ok := index[pd.Name]; ok {
			out[i] = pd
			continue
		}
		index[pd.Name] = len(out)
		out = append(out, pd)
	}
	return out
}

func mergeSetup(base, child *ast.SetupConfig) *ast.SetupConfig {
	if child == nil {
		return base
	}
	out := &ast.SetupConfig{Replace: map[string]string{}}
	if base != nil {
		for k, v := range base.Replace {
			out.Replace[k] = v
		}
	}
	switch {
	case child.Additive && base != nil:
		out.Placements = append(append([]ast.Placement{}, base.Placements...), child.Placements...)
	case len(child.Placements) == 0 && base != nil:
		// A child setup that supplies only a `replace:` (and/or no `add:`)
		// sub-block keeps the base's placements untouched (spec.md §4.3 step
		// 6: "for setup.replace: — rewrite every base placement whose
		// pieceType matches a key to the mapped type"), rather than
		// discarding them the way a full placement-list override would.
		out.Placements = append([]ast.Placement{}, base.Placements...)
	default:
		out.Placements = append([]ast.Placement{}, child.Placements...)
	}
	for k, v := range child.Replace {
		out.Replace[k] = v
	}
	for i, pl := range out.Placements {
		if dst, ok := out.Replace[pl.PieceType]; ok {
			out.Placements[i].PieceType = dst
		}
	}
	return out
}

func mergeVictory(base, child []ast.VictoryCondition) []ast.VictoryCondition {
	out := append([]ast.VictoryCondition{}, base...)
	index := map[string]int{}
	for i, vc := range out {
		index[vc.Name] = i
	}
	for _, vc := range child {
		switch vc.Action {
		case ast.MergeRemove:
			if i, ok := index[vc.Name]; ok {
				out = append(out[:i], out[i+1:]...)
				reindex(index, out, func(v ast.VictoryCondition) string { return v.Name })
			}
		default:
			if i, ok := index[vc.Name]; ok {
				out[i] = vc
				continue
			}
			index[vc.Name] = len(out)
			out = append(out, vc)
		}
	}
	return out
}

func mergeDraw(base, child []ast.DrawCondition) []ast.DrawCondition {
	out := append([]ast.DrawCondition{}, base...)
	index := map[string]int{}
	for i, dc := range out {
		index[dc.Name] = i
	}
	for _, dc := range child {
		switch dc.Action {
		case ast.MergeRemove:
			if i, ok := index[dc.Name]; ok {
				out = append(out[:i], out[i+1:]...)
				reindex(index, out, func(d ast.DrawCondition) string { return d.Name })
			}
		default:
			if i, ok := index[dc.Name]; ok {
				out[i] = dc
				continue
			}
			index[dc.Name] = len(out)
			out = append(out, dc)
		}
	}
	return out
}

func reindex[T any](index map[string]int, out []T, name func(T) string) {
	for k := range index {
		delete(index, k)
	}
	for i, v := range out {
		index[name(v)] = i
	}
}
