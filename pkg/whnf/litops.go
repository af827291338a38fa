package whnf

import (
	"math/big"
	"slices"

	"github.com/vito/redex/pkg/expr"
)

// LitDomain is the kind of operand a literal operation consumes.
type LitDomain uint8

const (
	NatDomain LitDomain = iota
	BoolDomain
)

// LitOp is a primitive evaluated directly on literal operands. Exactly one
// of Nat and Bool is set, matching Domain. Returning nil declines the
// operation and leaves the term to ordinary reduction.
type LitOp struct {
	Arity  int
	Domain LitDomain
	Nat    func(args []*big.Int) expr.Expr
	Bool   func(args []bool) expr.Expr
}

// LitOps maps a function constant to its literal implementation.
type LitOps map[expr.Name]LitOp

// Without returns a copy of ops lacking the named operations.
func (ops LitOps) Without(names ...expr.Name) LitOps {
	out := make(LitOps, len(ops))
	for k, v := range ops {
		if !slices.Contains(names, k) {
			out[k] = v
		}
	}
	return out
}

// Names lists the operations in sorted order.
func (ops LitOps) Names() []expr.Name {
	names := make([]expr.Name, 0, len(ops))
	for k := range ops {
		names = append(names, k)
	}
	slices.Sort(names)
	return names
}

func natUnary(f func(a *big.Int) *big.Int) LitOp {
	return LitOp{Arity: 1, Domain: NatDomain, Nat: func(args []*big.Int) expr.Expr {
		return expr.BigNatLit(f(args[0]))
	}}
}

func natBinary(f func(a, b *big.Int) *big.Int) LitOp {
	return LitOp{Arity: 2, Domain: NatDomain, Nat: func(args []*big.Int) expr.Expr {
		return expr.BigNatLit(f(args[0], args[1]))
	}}
}

func natPred(f func(a, b *big.Int) bool) LitOp {
	return LitOp{Arity: 2, Domain: NatDomain, Nat: func(args []*big.Int) expr.Expr {
		return ToBoolExpr(f(args[0], args[1]))
	}}
}

func boolOp(arity int, f func(args []bool) bool) LitOp {
	return LitOp{Arity: arity, Domain: BoolDomain, Bool: func(args []bool) expr.Expr {
		return ToBoolExpr(f(args))
	}}
}

// ToBoolExpr is Bool.true or Bool.false.
func ToBoolExpr(b bool) expr.Expr {
	if b {
		return expr.NewConst(BoolTrue)
	}
	return expr.NewConst(BoolFalse)
}

// maxPowExponent bounds Nat.pow and Nat.shiftLeft so a literal like
// 2^(2^64) is not materialized.
var maxPowExponent = big.NewInt(1 << 24)

// DefaultLitOps covers the Nat and Bool primitives the kernel accelerates.
// Subtraction truncates at zero, division and modulus by zero yield zero
// and the dividend respectively.
func DefaultLitOps() LitOps {
	return LitOps{
		"Nat.succ": natUnary(func(a *big.Int) *big.Int {
			return new(big.Int).Add(a, big.NewInt(1))
		}),
		"Nat.pred": natUnary(func(a *big.Int) *big.Int {
			if a.Sign() == 0 {
				return a
			}
			return new(big.Int).Sub(a, big.NewInt(1))
		}),
		"Nat.log2": natUnary(func(a *big.Int) *big.Int {
			if a.Sign() == 0 {
				return a
			}
			return big.NewInt(int64(a.BitLen() - 1))
		}),
		"Nat.add": natBinary(func(a, b *big.Int) *big.Int {
			return new(big.Int).Add(a, b)
		}),
		"Nat.sub": natBinary(func(a, b *big.Int) *big.Int {
			if a.Cmp(b) <= 0 {
				return new(big.Int)
			}
			return new(big.Int).Sub(a, b)
		}),
		"Nat.mul": natBinary(func(a, b *big.Int) *big.Int {
			return new(big.Int).Mul(a, b)
		}),
		"Nat.div": natBinary(func(a, b *big.Int) *big.Int {
			if b.Sign() == 0 {
				return new(big.Int)
			}
			return new(big.Int).Quo(a, b)
		}),
		"Nat.mod": natBinary(func(a, b *big.Int) *big.Int {
			if b.Sign() == 0 {
				return a
			}
			return new(big.Int).Rem(a, b)
		}),
		"Nat.gcd": natBinary(func(a, b *big.Int) *big.Int {
			return new(big.Int).GCD(nil, nil, a, b)
		}),
		"Nat.pow": {Arity: 2, Domain: NatDomain, Nat: func(args []*big.Int) expr.Expr {
			if args[1].Cmp(maxPowExponent) > 0 {
				return nil
			}
			return expr.BigNatLit(new(big.Int).Exp(args[0], args[1], nil))
		}},
		"Nat.land": natBinary(func(a, b *big.Int) *big.Int {
			return new(big.Int).And(a, b)
		}),
		"Nat.lor": natBinary(func(a, b *big.Int) *big.Int {
			return new(big.Int).Or(a, b)
		}),
		"Nat.xor": natBinary(func(a, b *big.Int) *big.Int {
			return new(big.Int).Xor(a, b)
		}),
		"Nat.shiftLeft": {Arity: 2, Domain: NatDomain, Nat: func(args []*big.Int) expr.Expr {
			if args[1].Cmp(maxPowExponent) > 0 {
				return nil
			}
			return expr.BigNatLit(new(big.Int).Lsh(args[0], uint(args[1].Uint64())))
		}},
		"Nat.shiftRight": natBinary(func(a, b *big.Int) *big.Int {
			if !b.IsUint64() || b.Uint64() >= uint64(a.BitLen()) {
				return new(big.Int)
			}
			return new(big.Int).Rsh(a, uint(b.Uint64()))
		}),
		"Nat.beq": natPred(func(a, b *big.Int) bool { return a.Cmp(b) == 0 }),
		"Nat.ble": natPred(func(a, b *big.Int) bool { return a.Cmp(b) <= 0 }),
		"Nat.blt": natPred(func(a, b *big.Int) bool { return a.Cmp(b) < 0 }),

		"not": boolOp(1, func(args []bool) bool { return !args[0] }),
		"and": boolOp(2, func(args []bool) bool { return args[0] && args[1] }),
		"or":  boolOp(2, func(args []bool) bool { return args[0] || args[1] }),
		"xor": boolOp(2, func(args []bool) bool { return args[0] != args[1] }),
	}
}
