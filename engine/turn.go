package engine

import (
	"github.com/walterschell/chesslang/ast"
	"github.com/walterschell/chesslang/board"
	"github.com/walterschell/chesslang/pattern"
	"github.com/walterschell/chesslang/position"
	"github.com/walterschell/chesslang/trigger"
)

// undoRecord snapshots everything MakeMove can change, so UndoMove can
// restore it by simple assignment rather than reversing each mutation
// individually — the board's slab representation makes a full clone cheap
// (spec.md §9 design note on cheap clone()), and a snapshot is far less
// error-prone than hand-reversing every action a trigger might have taken.
type undoRecord struct {
	board          *board.Board
	turn           position.Owner
	result         *Result
	ply            int
	halfmove       int
	enPassant      *position.Position
	positionCounts map[string]int
	nextPiece      board.PieceID
	pending        []PendingTrigger
	nextPendingID  int
	customState    map[string]any
}

func (e *Engine) pushUndo() {
	counts := make(map[string]int, len(e.positionCounts))
	for k, v := range e.positionCounts {
		counts[k] = v
	}
	custom := make(map[string]any, len(e.customState))
	for k, v := range e.customState {
		custom[k] = v
	}
	e.history = append(e.history, undoRecord{
		board:          e.board.Clone(),
		turn:           e.turn,
		result:         e.result,
		ply:            e.ply,
		halfmove:       e.halfmove,
		enPassant:      e.enPassant,
		positionCounts: counts,
		nextPiece:      e.nextPiece,
		pending:        append([]PendingTrigger{}, e.pending...),
		nextPendingID:  e.nextPendingID,
		customState:    custom,
	})
}

// UndoMove pops and restores the last snapshot (spec.md §4.6). Returns
// false if the stack is empty.
func (e *Engine) UndoMove() bool {
	if len(e.history) == 0 {
		return false
	}
	rec := e.history[len(e.history)-1]
	e.history = e.history[:len(e.history)-1]
	e.board = rec.board
	e.turn = rec.turn
	e.result = rec.result
	e.ply = rec.ply
	e.halfmove = rec.halfmove
	e.enPassant = rec.enPassant
	e.positionCounts = rec.positionCounts
	e.nextPiece = rec.nextPiece
	e.pending = rec.pending
	e.pendingTriggerBody = nil
	e.nextPendingID = rec.nextPendingID
	e.customState = rec.customState
	e.resumeSteps = nil
	e.legalCache = nil
	return true
}

// applyMoveTo mutates board in place to reflect m, with no engine-level
// bookkeeping (halfmove clock, en-passant target, undo history). Used both
// by the stateful Engine.applyMove and by the hypothetical-move check-safety
// filter in GetLegalMoves, which only needs the resulting board.
func applyMoveTo(b *board.Board, defs map[string]ast.PieceDecl, m Move) *board.Piece {
	mover := b.Piece(m.PieceID)
	if mover == nil {
		return nil
	}
	var captured *board.Piece
	switch m.Kind {
	case MoveEnPassant:
		capturedPos := position.Position{File: m.To.File, Rank: m.From.Rank}
		captured = b.Remove(capturedPos)
		b.Move(m.PieceID, m.To)
	case MoveCastleKingside, MoveCastleQueenside:
		b.Move(m.PieceID, m.To)
		rookFromFile := 0
		rookToFile := m.To.File + 1
		if m.Kind == MoveCastleKingside {
			rookFromFile = b.Width - 1
			rookToFile = m.To.File - 1
		}
		rookPos := position.Position{File: rookFromFile, Rank: m.From.Rank}
		if rook := b.PieceAt(rookPos); rook != nil {
			b.Move(rook.ID, position.Position{File: rookToFile, Rank: m.From.Rank})
			rook.State["moved"] = true
		}
	default:
		captured = b.Remove(m.To)
		b.Move(m.PieceID, m.To)
	}
	mover.State["moved"] = true
	if m.Promotion != "" {
		mover.Type = m.Promotion
		if def, ok := defs[m.Promotion]; ok {
			mover.Traits = traitSet(def.Traits)
		}
	}
	return captured
}

func promotionLetter(pieceType string) byte {
	if pieceType == "" {
		return 0
	}
	return pieceType[0] | 0x20 // lowercase first letter, e.g. "Queen" -> 'q'
}

// buildSteps precomputes the event-dispatch sequence for one move, in the
// order spec.md §5 mandates: turn_start(current) -> move application ->
// (if capture) capture -> move -> check(if applicable) -> turn_end(current).
func (e *Engine) buildSteps(mover *board.Piece, captured *board.Piece, m Move) []stepEntry {
	moveEvent := map[string]any{
		"piece": mover, "from": m.From.Algebraic(), "to": m.To.Algebraic(),
	}
	var steps []stepEntry
	steps = append(steps, stepEntry{kind: ast.OnTurnStart, binding: moveEvent, owner: mover.Owner})
	if captured != nil {
		capEvent := map[string]any{"piece": mover, "captured": captured, "from": m.From.Algebraic(), "to": m.To.Algebraic()}
		steps = append(steps, stepEntry{kind: ast.OnCapture, binding: capEvent, owner: mover.Owner})
	}
	steps = append(steps, stepEntry{kind: ast.OnMove, binding: moveEvent, owner: mover.Owner})
	if pattern.IsInCheck(pattern.Context{Board: e.board, PieceDefs: e.pieceDefs}, mover.Owner.Opponent()) {
		checkEvent := map[string]any{"piece": mover, "owner": mover.Owner.Opponent().String()}
		steps = append(steps, stepEntry{kind: ast.OnCheck, binding: checkEvent, owner: mover.Owner})
	}
	steps = append(steps, stepEntry{kind: ast.OnTurnEnd, binding: moveEvent, owner: mover.Owner})
	return steps
}

type stepEntry struct {
	kind    ast.EventKind
	binding map[string]any
	owner   position.Owner
}

// MakeMove validates and applies m (spec.md §4.6). The move must belong to
// the current legal set, the pending queue must be empty, and the engine
// must own the piece referenced.
func (e *Engine) MakeMove(m Move) (*MakeMoveOutcome, error) {
	if len(e.pending) > 0 {
		return nil, errf("cannot move while optional triggers are pending")
	}
	mover := e.board.Piece(m.PieceID)
	if mover == nil || mover.Owner != e.turn {
		return nil, errf("move references a piece not owned by the side to move")
	}
	legal := e.GetLegalMoves(e.turn)
	matched := false
	for _, lm := range legal {
		if movesEqual(lm, m) {
			m = lm
			matched = true
			break
		}
	}
	if !matched {
		return nil, errf("illegal move %s", m.Algebraic())
	}

	e.pushUndo()
	captured := applyMoveTo(e.board, e.pieceDefs, m)
	if mover.HasTrait("pawn") || captured != nil {
		e.halfmove = 0
	} else {
		e.halfmove++
	}
	e.enPassant = nil
	if mover.HasTrait("pawn") {
		dr := m.To.Rank - m.From.Rank
		if dr == 2 || dr == -2 {
			mid := position.Position{File: m.From.File, Rank: (m.From.Rank + m.To.Rank) / 2}
			e.enPassant = &mid
		}
	}
	e.legalCache = nil
	e.resumeSteps = e.buildSteps(mover, captured, m)
	return e.runSteps(), nil
}

// runSteps drains e.resumeSteps, firing trigger events in order, pausing
// (and returning) after any event that queued an optional trigger. Once the
// sequence completes with no pending queue, it advances the turn and
// checks terminal conditions.
func (e *Engine) runSteps() *MakeMoveOutcome {
	for len(e.resumeSteps) > 0 {
		step := e.resumeSteps[0]
		e.resumeSteps = e.resumeSteps[1:]
		paused := e.fireEvent(step)
		if paused {
			return &MakeMoveOutcome{Success: true, Pending: true}
		}
		if e.result != nil {
			e.resumeSteps = nil
			return &MakeMoveOutcome{Success: true, Result: e.result}
		}
	}
	return e.finishTurn()
}

func (e *Engine) finishTurn() *MakeMoveOutcome {
	e.turn = e.turn.Opponent()
	e.ply++
	e.notePosition()
	e.detectTerminal()
	return &MakeMoveOutcome{Success: true, Result: e.result}
}

// fireEvent runs every trigger (piece-scoped then top-level, in
// declaration order) matching step.kind, evaluating `when` against a
// context carrying step.binding as event.* bindings. An optional trigger
// is queued and the scan goes on; the event's scripts run as well. It
// reports whether anything was queued, in which case the rest of this
// move's steps are deferred until the queue drains (spec.md §4.5).
func (e *Engine) fireEvent(step stepEntry) bool {
	mover, _ := step.binding["piece"].(*board.Piece)
	ctx := pattern.Context{Board: e.board, Piece: mover, PieceDefs: e.pieceDefs, Rules: e.game.Rules, EnPassant: e.enPassant, Event: step.binding, GameState: e.customState}
	if mover != nil {
		// A trigger's `when` clause may test square-dependent conditions
		// (in_zone, empty, enemy, clear) against the square the event's
		// piece now occupies, e.g. "when a King enters zone d4..e5".
		ctx.Candidate = mover.Pos
		ctx.HasCandidate = true
	}

	paused := false
	if mover != nil {
		if def, ok := e.pieceDefs[mover.Type]; ok {
			for _, tr := range def.Triggers {
				if tr.On != step.kind {
					continue
				}
				if e.runTrigger(tr, ctx) {
					paused = true
				}
			}
		}
	}
	for _, tr := range e.game.Triggers {
		if tr.On != step.kind {
			continue
		}
		if e.runTrigger(tr, ctx) {
			paused = true
		}
	}
	e.runScripts(step)
	return paused
}

func (e *Engine) runTrigger(tr ast.Trigger, ctx pattern.Context) bool {
	if tr.When != nil && !pattern.EvalCondition(tr.When, ctx) {
		return false
	}
	if tr.Optional {
		e.nextPendingID++
		e.pending = append(e.pending, PendingTrigger{ID: e.nextPendingID, TriggerName: tr.Name, Description: tr.Description})
		e.pendingTriggerBody = append(e.pendingTriggerBody, pendingBody{id: e.nextPendingID, trigger: tr, ctx: ctx})
		return true
	}
	res, err := trigger.Execute(tr.Actions, ctx, e)
	if err != nil {
		log.Warn("trigger action failed", "trigger", tr.Name, "err", err)
		return false
	}
	e.applyTriggerResult(res)
	return false
}

func (e *Engine) applyTriggerResult(res *trigger.Result) {
	if res == nil {
		return
	}
	if res.Won && e.result == nil {
		e.result = &Result{Winner: res.Winner}
	}
	if res.Drawn && e.result == nil {
		e.result = &Result{Draw: true, Reason: res.DrawReason}
	}
}

type pendingBody struct {
	id      int
	trigger ast.Trigger
	ctx     pattern.Context
}

// ExecuteOptionalTrigger drains the queued trigger with the given id,
// running its actions, then resumes the suspended move (spec.md §4.6).
func (e *Engine) ExecuteOptionalTrigger(id int) (*MakeMoveOutcome, error) {
	body, err := e.takePendingBody(id)
	if err != nil {
		return nil, err
	}
	res, err := trigger.Execute(body.trigger.Actions, body.ctx, e)
	if err != nil {
		return nil, errf("optional trigger %q: %v", body.trigger.Name, err)
	}
	e.applyTriggerResult(res)
	return e.resumeAfterPending(), nil
}

// SkipOptionalTrigger drains the queued trigger without running it.
func (e *Engine) SkipOptionalTrigger(id int) (*MakeMoveOutcome, error) {
	if _, err := e.takePendingBody(id); err != nil {
		return nil, err
	}
	return e.resumeAfterPending(), nil
}

func (e *Engine) takePendingBody(id int) (pendingBody, error) {
	for i, p := range e.pendingTriggerBody {
		if p.id == id {
			e.pendingTriggerBody = append(e.pendingTriggerBody[:i], e.pendingTriggerBody[i+1:]...)
			for j, pt := range e.pending {
				if pt.ID == id {
					e.pending = append(e.pending[:j], e.pending[j+1:]...)
					break
				}
			}
			return p, nil
		}
	}
	return pendingBody{}, errf("no pending optional trigger with id %d", id)
}

// resumeAfterPending continues the move once the queue has drained: if
// more optional triggers remain, pause again; otherwise resume the
// suspended event sequence (or advance the turn if none remains).
func (e *Engine) resumeAfterPending() *MakeMoveOutcome {
	if len(e.pending) > 0 {
		return &MakeMoveOutcome{Success: true, Pending: true}
	}
	e.legalCache = nil
	return e.runSteps()
}

// notePosition records the current position (board FEN-ish digest + side
// to move) for threefold-repetition detection.
func (e *Engine) notePosition() {
	key := e.board.FEN() + "|" + e.turn.String()
	e.positionCounts[key]++
}

func (e *Engine) repetitionCount() int {
	key := e.board.FEN() + "|" + e.turn.String()
	return e.positionCounts[key]
}

// detectTerminal evaluates every victory/draw condition against the side
// now to move, combining OR-wise (spec.md §4.6, §8 property 6): the first
// match wins. Victory is checked before draw, matching the declaration
// order in compiled game definitions (STANDARD_CHESS lists checkmate
// before any draw condition).
func (e *Engine) detectTerminal() {
	if e.result != nil {
		return
	}
	mover := &board.Piece{Owner: e.turn, State: map[string]any{}}
	ctx := pattern.Context{
		Board: e.board, Piece: mover, PieceDefs: e.pieceDefs, Rules: e.game.Rules, EnPassant: e.enPassant,
		Halfmove: e.halfmove, Repetition: e.repetitionCount(), GameState: e.customState,
	}
	for _, vc := range e.game.Victory {
		if pattern.EvalCondition(vc.Condition, ctx) {
			winner := e.turn
			if vc.HasWinner {
				winner = resolvePlayerRef(vc.Winner, e.turn)
			}
			e.result = &Result{Winner: winner}
			return
		}
	}
	for _, dc := range e.game.Draw {
		if pattern.EvalCondition(dc.Condition, ctx) {
			e.result = &Result{Draw: true, Reason: dc.Reason}
			return
		}
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
