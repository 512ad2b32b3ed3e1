// Package trigger executes a compiled Trigger's action list against a
// board, applying Set/Remove/Create/Move/Win/Draw/Mark/Cancel in order
// (spec.md §5 Trigger & action executor).
package trigger

import (
	"log/slog"

	"github.com/walterschell/chesslang/ast"
	"github.com/walterschell/chesslang/board"
	"github.com/walterschell/chesslang/pattern"
	"github.com/walterschell/chesslang/position"
)

var log = slog.Default().With("package", "trigger")

// Host supplies the pieces of engine state an action executor needs but
// that the trigger package has no business owning: fresh piece ids and the
// compiled effect table (for `mark ... with Name`).
type Host interface {
	NextPieceID() board.PieceID
	EffectDecl(name string) (ast.EffectDecl, bool)
}

// Result accumulates the engine-visible consequences of running an action
// list: a vetoed event, a win, or a draw. Board/piece mutations are applied
// directly to ctx.Board as each action runs.
type Result struct {
	Cancelled  bool
	Won        bool
	Winner     position.Owner
	Drawn      bool
	DrawReason string
}

// Execute runs actions in order against ctx, short-circuiting the
// remainder of the list once Cancel has fired (spec.md §3 Action: "Cancel
// vetoes the triggering event").
func Execute(actions []ast.Action, ctx pattern.Context, host Host) (*Result, error) {
	res := &Result{}
	for _, a := range actions {
		if res.Cancelled {
			break
		}
		if err := execOne(a, ctx, host, res); err != nil {
			return res, err
		}
	}
	return res, nil
}

func execOne(a ast.Action, ctx pattern.Context, host Host, res *Result) error {
	switch n := a.(type) {
	case ast.Set:
		return execSet(n, ctx)
	case ast.Remove:
		return execRemove(n, ctx)
	case ast.Create:
		return execCreate(n, ctx, host)
	case ast.Move:
		return execMove(n, ctx)
	case ast.Win:
		res.Won = true
		res.Winner = resolvePlayerRef(n.Player, ctx.Piece.Owner)
		return nil
	case ast.Draw:
		res.Drawn = true
		res.DrawReason = n.Reason
		return nil
	case ast.Mark:
		return execMark(n, ctx, host)
	case ast.Cancel:
		res.Cancelled = true
		return nil
	default:
		log.Warn("unknown action node", "type", a)
		return nil
	}
}

func resolvePlayerRef(ref ast.PlayerRef, current position.Owner) position.Owner {
	switch ref {
	case ast.PlayerOpponent:
		return current.Opponent()
	case ast.PlayerWhite:
		return position.White
	case ast.PlayerBlack:
		return position.Black
	default:
		return current
	}
}

// stateScope distinguishes the game's custom state (bare `state.x`, spec.md
// §3 GameState / §4.4) from the moving piece's own state (`piece.state.x`) —
// two separate stores that happen to share the same `set` grammar.
type stateScope int

const (
	scopeNone stateScope = iota
	scopeGame
	scopePiece
)

// execSet writes a value to an access path. Only `piece.state.*` and
// `state.*` paths are assignable; any other target is a compile-time
// authoring mistake the script/action author is expected to avoid (the
// compiler does not currently statically check action targets — see
// DESIGN.md).
func execSet(n ast.Set, ctx pattern.Context) error {
	field, scope := stateField(n.Target)
	if scope == scopeNone {
		log.Warn("set action targets a non-assignable path, ignored")
		return nil
	}
	store := ctx.Piece.State
	if scope == scopeGame {
		store = ctx.GameState
	}
	newVal := pattern.EvalExpr(n.Value, ctx)
	switch n.Op {
	case ast.AssignSet:
		store[field] = newVal
	case ast.AssignAdd, ast.AssignSub:
		cur, _ := toFloat(store[field])
		delta, _ := toFloat(newVal)
		if n.Op == ast.AssignSub {
			delta = -delta
		}
		store[field] = cur + delta
	}
	return nil
}

func stateField(e ast.Expr) (string, stateScope) {
	m, ok := e.(ast.Member)
	if !ok {
		return "", scopeNone
	}
	switch t := m.Target.(type) {
	case ast.Ident:
		if t.Name == "state" {
			return m.Field, scopeGame
		}
	case ast.Member:
		if inner, ok := t.Target.(ast.Ident); ok && inner.Name == "piece" && t.Field == "state" {
			return m.Field, scopePiece
		}
	}
	return "", scopeNone
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int:
		return float64(x), true
	}
	return 0, false
}

func execRemove(n ast.Remove, ctx pattern.Context) error {
	if n.Range == nil {
		pos, ok := resolvePosition(n.Target, ctx)
		if !ok {
			return nil
		}
		removeIfPasses(pos, ctx, n.Filter)
		return nil
	}
	for _, pos := range rangeSquares(n.Range, ctx) {
		removeIfPasses(pos, ctx, n.Filter)
	}
	return nil
}

func removeIfPasses(pos position.Position, ctx pattern.Context, filter *ast.Filter) {
	occ := ctx.Board.PieceAt(pos)
	if occ == nil {
		return
	}
	if !passesFilter(occ, ctx.Piece.Owner, filter) {
		return
	}
	ctx.Board.Remove(pos)
}

func passesFilter(occ *board.Piece, mover position.Owner, filter *ast.Filter) bool {
	if filter == nil {
		return true
	}
	switch filter.Kind {
	case ast.FilterEnemy:
		return occ.Owner != mover
	case ast.FilterFriend:
		return occ.Owner == mover
	case ast.FilterTypeIn:
		return containsStr(filter.Types, occ.Type)
	case ast.FilterTypeNotIn:
		return !containsStr(filter.Types, occ.Type)
	default:
		return true
	}
}

func containsStr(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func rangeSquares(r *ast.Range, ctx pattern.Context) []position.Position {
	from, ok := resolvePosition(r.From, ctx)
	if !ok {
		from = ctx.Piece.Pos
	}
	switch r.Kind {
	case ast.RangeRadius:
		var out []position.Position
		for f := from.File - r.Radius; f <= from.File+r.Radius; f++ {
			for rk := from.Rank - r.Radius; rk <= from.Rank+r.Radius; rk++ {
				p := position.Position{File: f, Rank: rk}
				if p == from || !ctx.Board.InBounds(p) {
					continue
				}
				out = append(out, p)
			}
		}
		return out
	case ast.RangeAdjacent:
		var out []position.Position
		for df := -1; df <= 1; df++ {
			for dr := -1; dr <= 1; dr++ {
				if df == 0 && dr == 0 {
					continue
				}
				p := from.Add(position.Vector{DFile: df, DRank: dr})
				if ctx.Board.InBounds(p) {
					out = append(out, p)
				}
			}
		}
		return out
	case ast.RangeZone:
		return ctx.Board.ZoneSquares(r.Zone)
	case ast.RangeLine:
		dir, ok := positionDirection(r.Direction)
		if !ok {
			return nil
		}
		var out []position.Position
		for _, v := range dir.Vectors(ctx.Piece.Owner) {
			sq := from
			for {
				sq = sq.Add(v)
				if !ctx.Board.InBounds(sq) {
					break
				}
				out = append(out, sq)
			}
		}
		return out
	default:
		return nil
	}
}

func positionDirection(name string) (position.Direction, bool) {
	return position.ParseDirection(name)
}

func resolvePosition(e ast.Expr, ctx pattern.Context) (position.Position, bool) {
	if e == nil {
		return ctx.Piece.Pos, true
	}
	if id, ok := e.(ast.Ident); ok {
		switch id.Name {
		case "piece":
			return ctx.Piece.Pos, true
		case "target", "candidate":
			if ctx.HasCandidate {
				return ctx.Candidate, true
			}
			return position.Position{}, false
		}
	}
	v := pattern.EvalExpr(e, ctx)
	if s, ok := v.(string); ok {
		if p, err := position.ParseAlgebraic(s); err == nil {
			return p, true
		}
	}
	return position.Position{}, false
}

func resolveOwner(e ast.Expr, ctx pattern.Context) position.Owner {
	if e == nil {
		return ctx.Piece.Owner
	}
	v := pattern.EvalExpr(e, ctx)
	if s, ok := v.(string); ok {
		switch s {
		case "White":
			return position.White
		case "Black":
			return position.Black
		case "opponent":
			return ctx.Piece.Owner.Opponent()
		}
	}
	return ctx.Piece.Owner
}

func execCreate(n ast.Create, ctx pattern.Context, host Host) error {
	pos, ok := resolvePosition(n.Position, ctx)
	if !ok {
		return nil
	}
	owner := resolveOwner(n.Owner, ctx)
	p := &board.Piece{
		ID:     host.NextPieceID(),
		Type:   n.PieceType,
		Owner:  owner,
		Pos:    pos,
		Traits: map[string]bool{},
		State:  map[string]any{},
	}
	// An occupied target square fails the action rather than silently
	// replacing the occupant (resolved Open Question: "create at an
	// occupied square", see DESIGN.md) — consistent with the board's
	// piece-index-is-bijective-with-occupied-squares invariant being
	// enforced at every mutation, not only at `move`.
	if !ctx.Board.PlaceIfEmpty(p) {
		return &ActionError{Message: "create: square " + pos.Algebraic() + " is already occupied"}
	}
	return nil
}

func execMove(n ast.Move, ctx pattern.Context) error {
	var piece *board.Piece
	if id, ok := n.Piece.(ast.Ident); ok && id.Name == "piece" {
		piece = ctx.Piece
	} else if pos, ok := resolvePosition(n.Piece, ctx); ok {
		piece = ctx.Board.PieceAt(pos)
	}
	if piece == nil {
		return nil
	}
	to, ok := resolvePosition(n.To, ctx)
	if !ok {
		return nil
	}
	if ctx.Board.PieceAt(to) != nil {
		return nil
	}
	ctx.Board.Move(piece.ID, to)
	return nil
}

func execMark(n ast.Mark, ctx pattern.Context, host Host) error {
	pos, ok := resolvePosition(n.Position, ctx)
	if !ok {
		return nil
	}
	decl, ok := host.EffectDecl(n.Effect)
	blocks := board.BlocksNone
	duration := -1
	if ok {
		blocks = parseBlocks(decl.Blocks)
		if decl.Duration != 0 {
			duration = decl.Duration
		}
	}
	ctx.Board.Mark(pos, n.Effect, blocks, ctx.Piece.Owner, duration)
	return nil
}

func parseBlocks(s string) board.Blocks {
	switch s {
	case "all":
		return board.BlocksAll
	case "enemy":
		return board.BlocksEnemy
	case "friend":
		return board.BlocksFriend
	default:
		return board.BlocksNone
	}
}
