package ast

import "github.com/walterschell/chesslang/position"

// Pattern is the recursive sum type of movement/capture geometries
// (spec.md §3 Pattern).
type Pattern interface {
	patternNode()
}

// SpecialCapture is used for the PieceDefinition.Capture field's two
// sentinel forms that are not themselves patterns: "same" (reuse the move
// pattern, requiring an enemy at the destination) and "none" (no captures).
type SpecialCapture int

const (
	CaptureNormal SpecialCapture = iota
	CaptureSame
	CaptureNone
)

// Step is a unit or bounded displacement in a direction.
type Step struct {
	Direction position.Direction
	Distance  int // 0 means "no explicit bound" -> 1
}

func (Step) patternNode() {}

// Slide repeats Step until blocked.
type Slide struct {
	Direction position.Direction
}

func (Slide) patternNode() {}

// Leap is an 8-fold-symmetric (dx,dy) offset.
type Leap struct {
	DX, DY int
}

func (Leap) patternNode() {}

// Hop slides to the square after exactly one intervening piece.
type Hop struct {
	Direction position.Direction
}

func (Hop) patternNode() {}

// Conditional restricts a pattern's candidate squares to those satisfying a
// condition.
type Conditional struct {
	Pattern   Pattern
	Condition Condition
}

func (Conditional) patternNode() {}

// CompositeOp is the combining operator for Composite patterns.
type CompositeOp int

const (
	CompositeOr CompositeOp = iota
	CompositeAnd
)

// Composite unions (Or) or intersects (And) its sub-patterns' results.
type Composite struct {
	Op       CompositeOp
	Patterns []Pattern
}

func (Composite) patternNode() {}

// Named references a top-level `pattern name = ...` declaration.
type Named struct {
	Ref string
	// Resolved is filled in by the compiler once the named pattern has been
	// looked up; nil until then.
	Resolved Pattern
}

func (Named) patternNode() {}
