package prelude

import (
	"github.com/vito/redex/pkg/env"
	"github.com/vito/redex/pkg/expr"
	"github.com/vito/redex/pkg/level"
)

// Eq returns `@Eq.{l} α a b`.
func Eq(l level.Level, α, a, b expr.Expr) expr.Expr {
	return app(c("Eq", l), α, a, b)
}

// EqRefl returns `@Eq.refl.{l} α a`.
func EqRefl(l level.Level, α, a expr.Expr) expr.Expr {
	return app(c("Eq.refl", l), α, a)
}

func addEq(b *env.Builder) {
	b.Add(
		&env.InductiveVal{
			ConstantVal: decl("Eq",
				ipi("α", sort(u), func(α expr.Expr) expr.Expr {
					return arrow(α, arrow(α, expr.Prop))
				}), "u"),
			NumParams:  2,
			NumIndices: 1,
			All:        names("Eq"),
			Ctors:      names("Eq.refl"),
		},
		ctor("Eq.refl",
			ipi("α", sort(u), func(α expr.Expr) expr.Expr {
				return pi("a", α, func(a expr.Expr) expr.Expr {
					return Eq(u, α, a, a)
				})
			}), "Eq", 0, 2, 0, "u"),
		&env.RecursorVal{
			ConstantVal: decl("Eq.rec",
				ipi("α", sort(u1), func(α expr.Expr) expr.Expr {
					return ipi("a", α, func(a expr.Expr) expr.Expr {
						motiveT := pi("b", α, func(b expr.Expr) expr.Expr {
							return arrow(Eq(u1, α, a, b), sort(u))
						})
						return ipi("motive", motiveT, func(motive expr.Expr) expr.Expr {
							return pi("refl", app(motive, a, EqRefl(u1, α, a)), func(expr.Expr) expr.Expr {
								return ipi("b", α, func(b expr.Expr) expr.Expr {
									return pi("t", Eq(u1, α, a, b), func(t expr.Expr) expr.Expr {
										return app(motive, b, t)
									})
								})
							})
						})
					})
				}), "u", "u_1"),
			All:        names("Eq"),
			NumParams:  2,
			NumIndices: 1,
			NumMotives: 1,
			NumMinors:  1,
			K:          true,
			Rules: []env.RecursorRule{
				rule("Eq.refl", 0, lam("α", sort(u1), func(α expr.Expr) expr.Expr {
					return lam("a", α, func(a expr.Expr) expr.Expr {
						motiveT := pi("b", α, func(b expr.Expr) expr.Expr {
							return arrow(Eq(u1, α, a, b), sort(u))
						})
						return lam("motive", motiveT, func(motive expr.Expr) expr.Expr {
							return lam("refl", app(motive, a, EqRefl(u1, α, a)), func(refl expr.Expr) expr.Expr {
								return refl
							})
						})
					})
				})),
			},
		},
	)
}

func addQuot(b *env.Builder) {
	relT := func(α expr.Expr) expr.Expr {
		return arrow(α, arrow(α, expr.Prop))
	}
	quot := func(l level.Level, α, r expr.Expr) expr.Expr {
		return app(c("Quot", l), α, r)
	}
	b.Add(
		&env.QuotVal{
			ConstantVal: decl("Quot",
				ipi("α", sort(u), func(α expr.Expr) expr.Expr {
					return arrow(relT(α), sort(u))
				}), "u"),
			QuotKind: env.QuotType,
		},
		&env.QuotVal{
			ConstantVal: decl("Quot.mk",
				ipi("α", sort(u), func(α expr.Expr) expr.Expr {
					return pi("r", relT(α), func(r expr.Expr) expr.Expr {
						return arrow(α, quot(u, α, r))
					})
				}), "u"),
			QuotKind: env.QuotCtor,
		},
		&env.QuotVal{
			ConstantVal: decl("Quot.lift",
				ipi("α", sort(u), func(α expr.Expr) expr.Expr {
					return ipi("r", relT(α), func(r expr.Expr) expr.Expr {
						return ipi("β", sort(v), func(β expr.Expr) expr.Expr {
							return pi("f", arrow(α, β), func(f expr.Expr) expr.Expr {
								respects := pi("a", α, func(a expr.Expr) expr.Expr {
									return pi("b", α, func(b expr.Expr) expr.Expr {
										return arrow(app(r, a, b), Eq(v, β, app(f, a), app(f, b)))
									})
								})
								return arrow(respects, arrow(quot(u, α, r), β))
							})
						})
					})
				}), "u", "v"),
			QuotKind: env.QuotLift,
		},
		&env.QuotVal{
			ConstantVal: decl("Quot.ind",
				ipi("α", sort(u), func(α expr.Expr) expr.Expr {
					return ipi("r", relT(α), func(r expr.Expr) expr.Expr {
						return ipi("motive", arrow(quot(u, α, r), expr.Prop), func(motive expr.Expr) expr.Expr {
							mk := pi("a", α, func(a expr.Expr) expr.Expr {
								return app(motive, app(c("Quot.mk", u), α, r, a))
							})
							return arrow(mk, pi("q", quot(u, α, r), func(q expr.Expr) expr.Expr {
								return app(motive, q)
							}))
						})
					})
				}), "u"),
			QuotKind: env.QuotInd,
		},
	)
}
