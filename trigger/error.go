package trigger

// ActionError reports a single action in a trigger's action list failing
// at runtime (spec.md §7's per-stage error type, this stage's variant).
type ActionError struct {
	Message string
}

func (e *ActionError) Error() string { return "trigger: " + e.Message }
