package script

// evalCall dispatches a function call to either a bare builtin
// (`at(...)`, `movePiece(...)`, ...) or a `console.log(...)` method call —
// the only two call shapes a script body can produce (spec.md §5: scripts
// receive a curated API, nothing resolves through arbitrary member lookup).
func evalCall(n Call, e *env, host Host) (any, error) {
	args := make([]any, len(n.Args))
	for i, a := range n.Args {
		v, err := evalExpr(a, e, host)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	if m, ok := n.Callee.(Member); ok {
		if id, ok := m.Target.(Ident); ok && id.Name == "console" && m.Field == "log" {
			log.Info("script console.log", "args", args)
			return nil, nil
		}
		return nil, errf("unsupported method call %q", m.Field)
	}
	id, ok := n.Callee.(Ident)
	if !ok {
		return nil, errf("call target is not callable")
	}
	return callBuiltin(id.Name, args, host)
}

func callBuiltin(name string, args []any, host Host) (any, error) {
	switch name {
	case "at":
		sq, ok := argString(args, 0)
		if !ok {
			return nil, errf("at(square) requires a string argument")
		}
		p, found := host.At(sq)
		if !found {
			return nil, nil
		}
		return p, nil
	case "pieces":
		owner, _ := argString(args, 0)
		return toAnySlice(host.Pieces(owner)), nil
	case "emptySquares":
		return toAnyStrSlice(host.EmptySquares()), nil
	case "adjacent":
		sq, ok := argString(args, 0)
		if !ok {
			return nil, errf("adjacent(square) requires a string argument")
		}
		return toAnyStrSlice(host.Adjacent(sq)), nil
	case "isValidPos":
		sq, ok := argString(args, 0)
		if !ok {
			return nil, errf("isValidPos(square) requires a string argument")
		}
		return host.IsValidPos(sq), nil
	case "getPieces":
		return toAnySlice(host.GetPieces()), nil
	case "movePiece":
		from, _ := argString(args, 0)
		to, _ := argString(args, 1)
		return nil, host.MovePiece(from, to)
	case "removePiece":
		sq, _ := argString(args, 0)
		return nil, host.RemovePiece(sq)
	case "createPiece":
		pieceType, _ := argString(args, 0)
		sq, _ := argString(args, 1)
		owner, _ := argString(args, 2)
		return nil, host.CreatePiece(pieceType, sq, owner)
	case "toSquare":
		file, _ := argFloat(args, 0)
		rank, _ := argFloat(args, 1)
		return host.ToSquare(int(file), int(rank)), nil
	case "parseSquare":
		sq, _ := argString(args, 0)
		file, rank, ok := host.ParseSquare(sq)
		return []any{float64(file), float64(rank), ok}, nil
	case "distance":
		a, _ := argString(args, 0)
		b, _ := argString(args, 1)
		return float64(host.Distance(a, b)), nil
	default:
		return nil, errf("unknown function %q", name)
	}
}

func argString(args []any, i int) (string, bool) {
	if i >= len(args) {
		return "", false
	}
	return asString(args[i])
}

func argFloat(args []any, i int) (float64, bool) {
	if i >= len(args) {
		return 0, false
	}
	return toFloat(args[i])
}

func toAnySlice(pieces []PieceView) []any {
	out := make([]any, len(pieces))
	for i, p := range pieces {
		out[i] = p
	}
	return out
}

func toAnyStrSlice(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
