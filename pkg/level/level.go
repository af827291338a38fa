package level

import (
	"encoding/binary"
	"fmt"
	"strconv"

	"github.com/zeebo/xxh3"
)

// Level is a universe level: the index n of a sort `Sort n`.
type Level interface {
	// Apply substitutes universe parameters.
	Apply(Subs) Level
	// Params returns the universe parameters occurring in the level.
	Params() ParamSet
	// Eq is structural equality. Use IsEquiv to compare up to normalization.
	Eq(Level) bool
	// Hash is a structural hash, stable across processes.
	Hash() uint64
	HasParam() bool
	HasMVar() bool
	fmt.Stringer
}

const (
	tagZero byte = iota + 1
	tagSucc
	tagMax
	tagIMax
	tagParam
	tagMVar
)

func mix(tag byte, hs ...uint64) uint64 {
	var buf [1 + 8*2]byte
	buf[0] = tag
	for i, h := range hs {
		binary.LittleEndian.PutUint64(buf[1+8*i:], h)
	}
	return xxh3.Hash(buf[:1+8*len(hs)])
}

type zero struct{}

// Zero is the level of propositions.
var Zero Level = zero{}

// One is the level of `Type`.
var One Level = Succ{Zero}

func (zero) Apply(Subs) Level { return Zero }
func (zero) Params() ParamSet { return nil }
func (zero) HasParam() bool   { return false }
func (zero) HasMVar() bool    { return false }
func (zero) Hash() uint64     { return mix(tagZero) }
func (zero) String() string   { return "0" }
func (zero) Eq(other Level) bool {
	_, ok := other.(zero)
	return ok
}

// Succ is the successor level.
type Succ struct {
	Of Level
}

func (l Succ) Apply(subs Subs) Level {
	of := l.Of.Apply(subs)
	if of == l.Of {
		return l
	}
	return Succ{of}
}

func (l Succ) Params() ParamSet { return l.Of.Params() }
func (l Succ) HasParam() bool   { return l.Of.HasParam() }
func (l Succ) HasMVar() bool    { return l.Of.HasMVar() }
func (l Succ) Hash() uint64     { return mix(tagSucc, l.Of.Hash()) }

func (l Succ) Eq(other Level) bool {
	if o, ok := other.(Succ); ok {
		return l.Of.Eq(o.Of)
	}
	return false
}

func (l Succ) String() string {
	base, k := ToOffset(l)
	if base.Eq(Zero) {
		return strconv.Itoa(k)
	}
	return fmt.Sprintf("%s+%d", base, k)
}

// Max is the maximum of two levels.
type Max struct {
	LHS, RHS Level
}

func (l Max) Apply(subs Subs) Level {
	return Max{l.LHS.Apply(subs), l.RHS.Apply(subs)}
}

func (l Max) Params() ParamSet { return l.LHS.Params().Union(l.RHS.Params()) }
func (l Max) HasParam() bool   { return l.LHS.HasParam() || l.RHS.HasParam() }
func (l Max) HasMVar() bool    { return l.LHS.HasMVar() || l.RHS.HasMVar() }
func (l Max) Hash() uint64     { return mix(tagMax, l.LHS.Hash(), l.RHS.Hash()) }
func (l Max) String() string   { return fmt.Sprintf("(max %s %s)", l.LHS, l.RHS) }

func (l Max) Eq(other Level) bool {
	if o, ok := other.(Max); ok {
		return l.LHS.Eq(o.LHS) && l.RHS.Eq(o.RHS)
	}
	return false
}

// IMax is the impredicative maximum: zero whenever RHS is zero.
type IMax struct {
	LHS, RHS Level
}

func (l IMax) Apply(subs Subs) Level {
	return IMax{l.LHS.Apply(subs), l.RHS.Apply(subs)}
}

func (l IMax) Params() ParamSet { return l.LHS.Params().Union(l.RHS.Params()) }
func (l IMax) HasParam() bool   { return l.LHS.HasParam() || l.RHS.HasParam() }
func (l IMax) HasMVar() bool    { return l.LHS.HasMVar() || l.RHS.HasMVar() }
func (l IMax) Hash() uint64     { return mix(tagIMax, l.LHS.Hash(), l.RHS.Hash()) }
func (l IMax) String() string   { return fmt.Sprintf("(imax %s %s)", l.LHS, l.RHS) }

func (l IMax) Eq(other Level) bool {
	if o, ok := other.(IMax); ok {
		return l.LHS.Eq(o.LHS) && l.RHS.Eq(o.RHS)
	}
	return false
}

// Param is a universe parameter of a declaration.
type Param string

func (p Param) Apply(subs Subs) Level {
	if l, ok := subs[p]; ok {
		return l
	}
	return p
}

func (p Param) Params() ParamSet { return NewParamSet(p) }
func (p Param) HasParam() bool   { return true }
func (p Param) HasMVar() bool    { return false }
func (p Param) Hash() uint64     { return mix(tagParam, xxh3.HashString(string(p))) }
func (p Param) String() string   { return string(p) }

func (p Param) Eq(other Level) bool {
	o, ok := other.(Param)
	return ok && o == p
}

// MVar is a universe metavariable.
type MVar string

func (m MVar) Apply(Subs) Level { return m }
func (m MVar) Params() ParamSet { return nil }
func (m MVar) HasParam() bool   { return false }
func (m MVar) HasMVar() bool    { return true }
func (m MVar) Hash() uint64     { return mix(tagMVar, xxh3.HashString(string(m))) }
func (m MVar) String() string   { return "?" + string(m) }

func (m MVar) Eq(other Level) bool {
	o, ok := other.(MVar)
	return ok && o == m
}

// OfNat returns the explicit level n.
func OfNat(n int) Level {
	var l Level = Zero
	for range n {
		l = Succ{l}
	}
	return l
}

// Params converts parameter names into levels, e.g. for the self-reference of
// a recursor rule.
func Params(names ...string) []Level {
	ls := make([]Level, len(names))
	for i, n := range names {
		ls[i] = Param(n)
	}
	return ls
}

// ToOffset splits l into a base and the number of successors wrapped around it.
func ToOffset(l Level) (Level, int) {
	k := 0
	for {
		s, ok := l.(Succ)
		if !ok {
			return l, k
		}
		l = s.Of
		k++
	}
}

// EqAll compares two level lists pointwise.
func EqAll(as, bs []Level) bool {
	if len(as) != len(bs) {
		return false
	}
	for i := range as {
		if !as[i].Eq(bs[i]) {
			return false
		}
	}
	return true
}

// AnyHasParam reports whether any level in ls mentions a parameter.
func AnyHasParam(ls []Level) bool {
	for _, l := range ls {
		if l.HasParam() {
			return true
		}
	}
	return false
}

// AnyHasMVar reports whether any level in ls mentions a metavariable.
func AnyHasMVar(ls []Level) bool {
	for _, l := range ls {
		if l.HasMVar() {
			return true
		}
	}
	return false
}
