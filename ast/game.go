package ast

// EventKind enumerates the engine events a Trigger can respond to
// (spec.md §3 Trigger).
type EventKind int

const (
	OnMove EventKind = iota
	OnCapture
	OnCheck
	OnTurnStart
	OnTurnEnd
	OnPlace
	OnRemove
)

var eventNames = map[string]EventKind{
	"move": OnMove, "capture": OnCapture, "check": OnCheck,
	"turn_start": OnTurnStart, "turn_end": OnTurnEnd,
	"place": OnPlace, "remove": OnRemove,
}

// ParseEventKind resolves a trigger's `on` keyword.
func ParseEventKind(s string) (EventKind, bool) {
	k, ok := eventNames[s]
	return k, ok
}

func (k EventKind) String() string {
	for name, v := range eventNames {
		if v == k {
			return name
		}
	}
	return "unknown"
}

// Trigger is a rule that fires on a named engine event.
type Trigger struct {
	Name        string
	On          EventKind
	When        Condition // nil means unconditional
	Actions     []Action
	Optional    bool
	Description string
}

// PieceDecl is a `piece Name { ... }` declaration.
type PieceDecl struct {
	Name       string
	Move       Pattern
	Capture    Pattern // nil if CaptureSpecial != CaptureNormal
	CaptureSpecial SpecialCapture
	Traits     []string
	InitialState map[string]any
	Triggers   []Trigger
	PromoteTo  []string
	Value      float64
	HasValue   bool
}

// EffectDecl is an `effect Name { ... }` declaration.
type EffectDecl struct {
	Name     string
	Blocks   string // "none", "all", "enemy", "friend"
	Duration int    // 0 means unspecified/permanent at declaration time
}

// MergeAction tags how a victory/draw entry participates in inheritance
// merging (spec.md §4.3 step 5).
type MergeAction int

const (
	MergeAdd MergeAction = iota
	MergeReplace
	MergeRemove
)

// VictoryCondition / DrawCondition share the same shape.
type VictoryCondition struct {
	Name      string
	Condition Condition
	Winner    PlayerRef
	HasWinner bool
	Action    MergeAction
}

type DrawCondition struct {
	Name      string
	Condition Condition
	Reason    string
	Action    MergeAction
}

// BoardConfig describes board dimensions and declared zones.
type BoardConfig struct {
	Width, Height int
	Zones         map[string][]string // zone name -> declared square list
}

// Placement is one `type at square [owner]` setup entry.
type Placement struct {
	PieceType string
	Square    string
	Owner     string // "White" or "Black"
}

// SetupConfig describes how the initial position is derived.
type SetupConfig struct {
	Additive    bool // true for `setup add:` merges
	Replace     map[string]string
	Placements  []Placement
}

// ScriptBlock is a captured verbatim `script [on EVENT] { ... }` body. On is
// the event named by the optional `on EVENT` header before the brace
// (turn_end when omitted); Source is the body text, parsed by the script
// package.
type ScriptBlock struct {
	On     EventKind
	Source string
}

// NamedPatternDecl is a top-level `pattern name = ...` declaration.
type NamedPatternDecl struct {
	Name    string
	Pattern Pattern
}

// Game is the parser's root AST node (spec.md §4.2).
type Game struct {
	Name         string
	Extends      string
	HasExtends   bool
	Board        *BoardConfig
	Pieces       []PieceDecl
	Effects      []EffectDecl
	Triggers     []Trigger
	Setup        *SetupConfig
	Victory      []VictoryCondition
	Draw         []DrawCondition
	Rules        map[string]any
	Patterns     []NamedPatternDecl
	Scripts      []ScriptBlock
}
