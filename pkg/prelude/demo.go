package prelude

import (
	"github.com/pkg/errors"

	"github.com/vito/redex/pkg/env"
	"github.com/vito/redex/pkg/expr"
	"github.com/vito/redex/pkg/level"
)

func idRhs(l level.Level, α, a expr.Expr) expr.Expr {
	return app(c("idRhs", l), α, a)
}

func addIdRhs(b *env.Builder) {
	b.Add(def("idRhs",
		ipi("α", sort(u), func(α expr.Expr) expr.Expr {
			return arrow(α, α)
		}),
		ilam("α", sort(u), func(α expr.Expr) expr.Expr {
			return lam("a", α, func(a expr.Expr) expr.Expr {
				return a
			})
		}), "u"))
}

// addSmartUnfolding declares Nat.double, whose body hides behind an opaque
// implementation, and its Nat.double.eq companion that computes by cases.
// Smart unfolding makes `Nat.double 3` reduce to 6 through the companion,
// while `Nat.double x` stays folded.
func addSmartUnfolding(b *env.Builder) {
	unary := arrow(natT, natT)
	b.Add(
		opaque("Nat.doubleImpl", unary, lam("n", natT, func(n expr.Expr) expr.Expr {
			return app(c("Nat.add"), n, n)
		})),
		def("Nat.double", unary, lam("n", natT, func(n expr.Expr) expr.Expr {
			return app(c("Nat.doubleImpl"), n)
		})),
		def("Nat.double.eq", unary, lam("n", natT, func(n expr.Expr) expr.Expr {
			return natCases(natT, n, idRhs(level.One, natT, zero), func(m expr.Expr) expr.Expr {
				return idRhs(level.One, natT, app(succ, app(succ, app(c("Nat.double"), m))))
			})
		})),
		def("Nat.triple", unary, lam("n", natT, func(n expr.Expr) expr.Expr {
			return idRhs(level.One, natT, app(c("Nat.add"), n, app(c("Nat.add"), n, n)))
		})),
	)
}

// addTransparency declares one constant per reducibility class.
func addTransparency(b *env.Builder) {
	b.Add(
		def("Nat.two", natT, nat(2)),
		def("Nat.ident", arrow(natT, natT), lam("n", natT, func(n expr.Expr) expr.Expr { return n })),
		def("Nat.secret", natT, nat(7)),
		&env.TheoremVal{
			ConstantVal: decl("Nat.two_eq", Eq(level.One, natT, c("Nat.two"), nat(2))),
			Val:         EqRefl(level.One, natT, nat(2)),
		},
	)
	b.SetReducibility("Nat.ident", env.Reducible)
	b.SetReducibility("Nat.secret", env.Irreducible)
}

// ErrBroken is returned by the Native.broken implementation.
var ErrBroken = errors.New("native implementation failed")

// addNative declares the Lean.reduceBool / Lean.reduceNat wrappers and a
// few constants with compiled implementations.
func addNative(b *env.Builder) {
	b.Add(
		def("Lean.reduceBool", arrow(boolT, boolT), lam("b", boolT, func(x expr.Expr) expr.Expr { return x })),
		def("Lean.reduceNat", arrow(natT, natT), lam("n", natT, func(n expr.Expr) expr.Expr { return n })),
		def("Native.isEven", boolT, app(c("Nat.beq"), app(c("Nat.mod"), nat(1000), nat(2)), nat(0))),
		def("Native.answer", natT, app(c("Nat.mul"), nat(6), nat(7))),
		def("Native.broken", natT, nat(5)),
	)
	b.RegisterNative("Native.isEven", func() (env.NativeValue, error) {
		return 1000%2 == 0, nil
	})
	b.RegisterNative("Native.answer", func() (env.NativeValue, error) {
		return uint64(6 * 7), nil
	})
	b.RegisterNative("Native.broken", func() (env.NativeValue, error) {
		return nil, ErrBroken
	})
}
