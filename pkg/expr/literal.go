package expr

import (
	"math/big"
	"strconv"

	"github.com/zeebo/xxh3"
)

// Literal is the payload of a *Lit node: a natural number or a string.
type Literal interface {
	Hash() uint64
	Eq(Literal) bool
	String() string
	isLiteral()
}

// NatVal is an arbitrary-precision natural number literal.
type NatVal struct {
	V *big.Int
}

func (NatVal) isLiteral() {}

func (l NatVal) Hash() uint64 {
	return xxh3.Hash(l.V.Bytes())
}

func (l NatVal) Eq(other Literal) bool {
	o, ok := other.(NatVal)
	return ok && l.V.Cmp(o.V) == 0
}

func (l NatVal) String() string {
	return l.V.String()
}

// StrVal is a string literal.
type StrVal struct {
	V string
}

func (StrVal) isLiteral() {}

func (l StrVal) Hash() uint64 {
	return xxh3.HashString(l.V) ^ 0x9e3779b97f4a7c15
}

func (l StrVal) Eq(other Literal) bool {
	o, ok := other.(StrVal)
	return ok && l.V == o.V
}

func (l StrVal) String() string {
	return strconv.Quote(l.V)
}

// NatLit builds a nat literal from a machine integer.
func NatLit(n uint64) *Lit {
	return NewLit(NatVal{new(big.Int).SetUint64(n)})
}

// BigNatLit builds a nat literal. Negative values are clamped to zero.
func BigNatLit(n *big.Int) *Lit {
	if n.Sign() < 0 {
		n = new(big.Int)
	}
	return NewLit(NatVal{n})
}

// StrLit builds a string literal.
func StrLit(s string) *Lit {
	return NewLit(StrVal{s})
}

// NatValue returns the value of a nat literal.
func NatValue(e Expr) (*big.Int, bool) {
	if l, ok := e.(*Lit); ok {
		if n, ok := l.Value.(NatVal); ok {
			return n.V, true
		}
	}
	return nil, false
}

// StrValue returns the value of a string literal.
func StrValue(e Expr) (string, bool) {
	if l, ok := e.(*Lit); ok {
		if s, ok := l.Value.(StrVal); ok {
			return s.V, true
		}
	}
	return "", false
}
