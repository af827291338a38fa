package expr

import (
	"encoding/binary"
	"fmt"

	"github.com/zeebo/xxh3"

	"github.com/vito/redex/pkg/level"
)

// Kind tags the variants of Expr.
type Kind uint8

const (
	KindBVar Kind = iota + 1
	KindFVar
	KindMVar
	KindSort
	KindConst
	KindApp
	KindLambda
	KindPi
	KindLet
	KindLit
	KindProj
)

var kindNames = [...]string{
	KindBVar:   "bvar",
	KindFVar:   "fvar",
	KindMVar:   "mvar",
	KindSort:   "sort",
	KindConst:  "const",
	KindApp:    "app",
	KindLambda: "lambda",
	KindPi:     "pi",
	KindLet:    "let",
	KindLit:    "lit",
	KindProj:   "proj",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Expr is an immutable term. The variant set is closed: *BVar, *FVar, *MVar,
// *Sort, *Const, *App, *Lambda, *Pi, *Let, *Lit and *Proj.
//
// Every node caches its structural hash, the range of its loose bound
// variables and a few occurrence flags, so all of these are O(1).
type Expr interface {
	Kind() Kind
	Hash() uint64
	// LooseBVarRange is one more than the largest loose de Bruijn index, or 0
	// if the term is closed.
	LooseBVarRange() uint32
	HasLooseBVars() bool
	HasFVar() bool
	HasMVar() bool
	HasLevelParam() bool
	HasLevelMVar() bool
	fmt.Stringer

	meta() *data
}

type flags uint8

const (
	flagFVar flags = 1 << iota
	flagMVar
	flagLevelParam
	flagLevelMVar
)

type data struct {
	hash      uint64
	bvarRange uint32
	flags     flags
}

func (d *data) meta() *data              { return d }
func (d *data) Hash() uint64             { return d.hash }
func (d *data) LooseBVarRange() uint32   { return d.bvarRange }
func (d *data) HasLooseBVars() bool      { return d.bvarRange > 0 }
func (d *data) HasFVar() bool            { return d.flags&flagFVar != 0 }
func (d *data) HasMVar() bool            { return d.flags&flagMVar != 0 }
func (d *data) HasLevelParam() bool      { return d.flags&flagLevelParam != 0 }
func (d *data) HasLevelMVar() bool       { return d.flags&flagLevelMVar != 0 }

func mix(k Kind, hs ...uint64) uint64 {
	if len(hs) > 4 {
		h := xxh3.New()
		var buf [8]byte
		_, _ = h.Write([]byte{byte(k)})
		for _, x := range hs {
			binary.LittleEndian.PutUint64(buf[:], x)
			_, _ = h.Write(buf[:])
		}
		return h.Sum64()
	}
	var buf [1 + 8*4]byte
	buf[0] = byte(k)
	for i, x := range hs {
		binary.LittleEndian.PutUint64(buf[1+8*i:], x)
	}
	return xxh3.Hash(buf[:1+8*len(hs)])
}

func levelFlags(ls ...level.Level) flags {
	var f flags
	for _, l := range ls {
		if l.HasParam() {
			f |= flagLevelParam
		}
		if l.HasMVar() {
			f |= flagLevelMVar
		}
	}
	return f
}

func binderRange(r uint32) uint32 {
	if r == 0 {
		return 0
	}
	return r - 1
}

// BVar is a loose or bound variable, as a de Bruijn index.
type BVar struct {
	data
	Idx uint32
}

func NewBVar(idx uint32) *BVar {
	return &BVar{
		data: data{hash: mix(KindBVar, uint64(idx)), bvarRange: idx + 1},
		Idx:  idx,
	}
}

// FVar is a free variable declared in a local context.
type FVar struct {
	data
	ID FVarID
}

func NewFVar(id FVarID) *FVar {
	return &FVar{
		data: data{hash: mix(KindFVar, xxh3.HashString(string(id))), flags: flagFVar},
		ID:   id,
	}
}

// MVar is an expression metavariable.
type MVar struct {
	data
	ID MVarID
}

func NewMVar(id MVarID) *MVar {
	return &MVar{
		data: data{hash: mix(KindMVar, xxh3.HashString(string(id))), flags: flagMVar},
		ID:   id,
	}
}

// Sort is the type of types at a universe level.
type Sort struct {
	data
	Level level.Level
}

func NewSort(l level.Level) *Sort {
	return &Sort{
		data:  data{hash: mix(KindSort, l.Hash()), flags: levelFlags(l)},
		Level: l,
	}
}

// Prop is `Sort 0`.
var Prop = NewSort(level.Zero)

// Type is `Sort 1`.
var Type = NewSort(level.One)

// Const is a reference to a global declaration with explicit universe levels.
type Const struct {
	data
	Name   Name
	Levels []level.Level
}

func NewConst(name Name, levels ...level.Level) *Const {
	hs := make([]uint64, 0, len(levels)+1)
	hs = append(hs, xxh3.HashString(string(name)))
	for _, l := range levels {
		hs = append(hs, l.Hash())
	}
	return &Const{
		data:   data{hash: mix(KindConst, hs...), flags: levelFlags(levels...)},
		Name:   name,
		Levels: levels,
	}
}

// App is a unary application. Multi-argument applications are left-nested
// spines; see GetAppFn and GetAppArgs.
type App struct {
	data
	Fn, Arg Expr
}

func NewApp(fn, arg Expr) *App {
	f, a := fn.meta(), arg.meta()
	return &App{
		data: data{
			hash:      mix(KindApp, f.hash, a.hash),
			bvarRange: max(f.bvarRange, a.bvarRange),
			flags:     f.flags | a.flags,
		},
		Fn:  fn,
		Arg: arg,
	}
}

// Binder carries the user-facing name and binder info of a lambda or pi.
type Binder struct {
	Name Name
	Info BinderInfo
}

// Lambda is a function abstraction. Body refers to the bound variable as
// BVar 0.
type Lambda struct {
	data
	Binder
	Type, Body Expr
}

func NewLambda(name Name, ty, body Expr) *Lambda {
	return NewLambdaInfo(Binder{Name: name}, ty, body)
}

func NewLambdaInfo(b Binder, ty, body Expr) *Lambda {
	t, bd := ty.meta(), body.meta()
	return &Lambda{
		data: data{
			hash:      mix(KindLambda, t.hash, bd.hash),
			bvarRange: max(t.bvarRange, binderRange(bd.bvarRange)),
			flags:     t.flags | bd.flags,
		},
		Binder: b,
		Type:   ty,
		Body:   body,
	}
}

// Pi is a dependent function type.
type Pi struct {
	data
	Binder
	Type, Body Expr
}

func NewPi(name Name, ty, body Expr) *Pi {
	return NewPiInfo(Binder{Name: name}, ty, body)
}

func NewPiInfo(b Binder, ty, body Expr) *Pi {
	t, bd := ty.meta(), body.meta()
	return &Pi{
		data: data{
			hash:      mix(KindPi, t.hash, bd.hash),
			bvarRange: max(t.bvarRange, binderRange(bd.bvarRange)),
			flags:     t.flags | bd.flags,
		},
		Binder: b,
		Type:   ty,
		Body:   body,
	}
}

// Arrow is the non-dependent function type A → B.
func Arrow(dom, cod Expr) *Pi {
	return NewPi("a", dom, LiftLooseBVars(cod, 0, 1))
}

// Let is a local definition.
type Let struct {
	data
	Name              Name
	Type, Value, Body Expr
}

func NewLet(name Name, ty, value, body Expr) *Let {
	t, v, bd := ty.meta(), value.meta(), body.meta()
	return &Let{
		data: data{
			hash:      mix(KindLet, t.hash, v.hash, bd.hash),
			bvarRange: max(t.bvarRange, v.bvarRange, binderRange(bd.bvarRange)),
			flags:     t.flags | v.flags | bd.flags,
		},
		Name:  name,
		Type:  ty,
		Value: value,
		Body:  body,
	}
}

// Lit is a literal value.
type Lit struct {
	data
	Value Literal
}

func NewLit(v Literal) *Lit {
	return &Lit{
		data:  data{hash: mix(KindLit, v.Hash())},
		Value: v,
	}
}

// Proj projects field Idx (zero-based, constructor parameters excluded) out of
// Struct, whose type is the structure TypeName.
type Proj struct {
	data
	TypeName Name
	Idx      int
	Struct   Expr
}

func NewProj(typeName Name, idx int, s Expr) *Proj {
	m := s.meta()
	return &Proj{
		data: data{
			hash:      mix(KindProj, xxh3.HashString(string(typeName)), uint64(idx), m.hash),
			bvarRange: m.bvarRange,
			flags:     m.flags,
		},
		TypeName: typeName,
		Idx:      idx,
		Struct:   s,
	}
}

func (*BVar) Kind() Kind   { return KindBVar }
func (*FVar) Kind() Kind   { return KindFVar }
func (*MVar) Kind() Kind   { return KindMVar }
func (*Sort) Kind() Kind   { return KindSort }
func (*Const) Kind() Kind  { return KindConst }
func (*App) Kind() Kind    { return KindApp }
func (*Lambda) Kind() Kind { return KindLambda }
func (*Pi) Kind() Kind     { return KindPi }
func (*Let) Kind() Kind    { return KindLet }
func (*Lit) Kind() Kind    { return KindLit }
func (*Proj) Kind() Kind   { return KindProj }
