package env

import (
	"fmt"

	"github.com/vito/redex/pkg/expr"
	"github.com/vito/redex/pkg/level"
)

// ConstantVal is the part shared by every declaration.
type ConstantVal struct {
	Name        expr.Name
	LevelParams []string
	Type        expr.Expr
}

// ConstantInfo is a global declaration. The variant set is closed:
// *AxiomVal, *DefinitionVal, *TheoremVal, *OpaqueVal, *InductiveVal,
// *ConstructorVal, *RecursorVal and *QuotVal.
type ConstantInfo interface {
	Base() *ConstantVal
	// Value returns the body of definitions and theorems. Opaque constants
	// keep their value private and report none.
	Value() (expr.Expr, bool)
	Kind() Kind
}

// Kind names the variant of a ConstantInfo.
type Kind uint8

const (
	KindAxiom Kind = iota + 1
	KindDefinition
	KindTheorem
	KindOpaque
	KindInductive
	KindConstructor
	KindRecursor
	KindQuot
)

func (k Kind) String() string {
	switch k {
	case KindAxiom:
		return "axiom"
	case KindDefinition:
		return "def"
	case KindTheorem:
		return "theorem"
	case KindOpaque:
		return "opaque"
	case KindInductive:
		return "inductive"
	case KindConstructor:
		return "ctor"
	case KindRecursor:
		return "recursor"
	case KindQuot:
		return "quot"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// Safety of a definition.
type Safety uint8

const (
	Safe Safety = iota
	Unsafe
	Partial
)

// ReducibilityHints guide the order of unfolding during definitional
// equality checks: Opaque never, Abbrev always first, Regular by height.
type ReducibilityHints struct {
	Kind   HintKind
	Height uint32
}

type HintKind uint8

const (
	HintRegular HintKind = iota
	HintOpaque
	HintAbbrev
)

type AxiomVal struct {
	ConstantVal
	IsUnsafe bool
}

type DefinitionVal struct {
	ConstantVal
	Val    expr.Expr
	Hints  ReducibilityHints
	Safety Safety
}

type TheoremVal struct {
	ConstantVal
	Val expr.Expr
}

type OpaqueVal struct {
	ConstantVal
	Val      expr.Expr
	IsUnsafe bool
}

type InductiveVal struct {
	ConstantVal
	NumParams   int
	NumIndices  int
	All         []expr.Name
	Ctors       []expr.Name
	IsRec       bool
	IsUnsafe    bool
	IsReflexive bool
}

type ConstructorVal struct {
	ConstantVal
	Induct    expr.Name
	Cidx      int
	NumParams int
	NumFields int
	IsUnsafe  bool
}

// RecursorRule is the computation rule of a recursor for one constructor.
// RHS abstracts over params, motives, minors and then the constructor
// fields, in that order.
type RecursorRule struct {
	Ctor      expr.Name
	NumFields int
	RHS       expr.Expr
}

type RecursorVal struct {
	ConstantVal
	All        []expr.Name
	NumParams  int
	NumIndices int
	NumMotives int
	NumMinors  int
	Rules      []RecursorRule
	// K marks recursors eligible for the K rule: the inductive lives in Prop,
	// has one constructor and that constructor has no fields.
	K        bool
	IsUnsafe bool
}

// Induct is the inductive type the recursor eliminates.
func (r *RecursorVal) Induct() expr.Name {
	return r.Name.Prefix()
}

// MajorIdx is the position of the major premise among the recursor's
// arguments.
func (r *RecursorVal) MajorIdx() int {
	return r.NumParams + r.NumMotives + r.NumMinors + r.NumIndices
}

// FirstIndexIdx is the position of the first index argument.
func (r *RecursorVal) FirstIndexIdx() int {
	return r.NumParams + r.NumMotives + r.NumMinors
}

// RuleFor finds the rule for a constructor.
func (r *RecursorVal) RuleFor(ctor expr.Name) (RecursorRule, bool) {
	for _, rule := range r.Rules {
		if rule.Ctor == ctor {
			return rule, true
		}
	}
	return RecursorRule{}, false
}

type QuotKind uint8

const (
	QuotType QuotKind = iota
	QuotCtor
	QuotLift
	QuotInd
)

type QuotVal struct {
	ConstantVal
	QuotKind QuotKind
}

func (c *AxiomVal) Base() *ConstantVal       { return &c.ConstantVal }
func (c *DefinitionVal) Base() *ConstantVal  { return &c.ConstantVal }
func (c *TheoremVal) Base() *ConstantVal     { return &c.ConstantVal }
func (c *OpaqueVal) Base() *ConstantVal      { return &c.ConstantVal }
func (c *InductiveVal) Base() *ConstantVal   { return &c.ConstantVal }
func (c *ConstructorVal) Base() *ConstantVal { return &c.ConstantVal }
func (c *RecursorVal) Base() *ConstantVal    { return &c.ConstantVal }
func (c *QuotVal) Base() *ConstantVal        { return &c.ConstantVal }

func (c *AxiomVal) Value() (expr.Expr, bool)       { return nil, false }
func (c *DefinitionVal) Value() (expr.Expr, bool)  { return c.Val, true }
func (c *TheoremVal) Value() (expr.Expr, bool)     { return c.Val, true }
func (c *OpaqueVal) Value() (expr.Expr, bool)      { return nil, false }
func (c *InductiveVal) Value() (expr.Expr, bool)   { return nil, false }
func (c *ConstructorVal) Value() (expr.Expr, bool) { return nil, false }
func (c *RecursorVal) Value() (expr.Expr, bool)    { return nil, false }
func (c *QuotVal) Value() (expr.Expr, bool)        { return nil, false }

func (c *AxiomVal) Kind() Kind       { return KindAxiom }
func (c *DefinitionVal) Kind() Kind  { return KindDefinition }
func (c *TheoremVal) Kind() Kind     { return KindTheorem }
func (c *OpaqueVal) Kind() Kind      { return KindOpaque }
func (c *InductiveVal) Kind() Kind   { return KindInductive }
func (c *ConstructorVal) Kind() Kind { return KindConstructor }
func (c *RecursorVal) Kind() Kind    { return KindRecursor }
func (c *QuotVal) Kind() Kind        { return KindQuot }

// InstantiateTypeLevelParams returns the type of c at the given levels.
func InstantiateTypeLevelParams(c ConstantInfo, levels []level.Level) expr.Expr {
	b := c.Base()
	return expr.InstantiateLevelParams(b.Type, b.LevelParams, levels)
}

// IsStructureLike reports whether ind has exactly one constructor, no
// indices, and is not recursive: the shape eligible for structure eta and
// primitive projections.
func IsStructureLike(ind *InductiveVal) bool {
	return len(ind.Ctors) == 1 && ind.NumIndices == 0 && !ind.IsRec
}
