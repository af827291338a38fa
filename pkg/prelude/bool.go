package prelude

import (
	"github.com/vito/redex/pkg/env"
	"github.com/vito/redex/pkg/expr"
	"github.com/vito/redex/pkg/level"
)

// boolCases builds `Bool.casesOn (fun _ => Bool) t f tr`.
func boolCases(t, f, tr expr.Expr) expr.Expr {
	return app(c("Bool.casesOn", level.One), constant(boolT, boolT), t, f, tr)
}

func addBool(b *env.Builder) {
	motiveT := arrow(boolT, sort(u))
	boolBin := arrow(boolT, arrow(boolT, boolT))
	binop := func(name string, body func(a, b expr.Expr) expr.Expr) *env.DefinitionVal {
		return def(name, boolBin, lam("a", boolT, func(a expr.Expr) expr.Expr {
			return lam("b", boolT, func(b expr.Expr) expr.Expr {
				return body(a, b)
			})
		}))
	}

	b.Add(
		&env.InductiveVal{
			ConstantVal: decl("Bool", expr.Type),
			All:         names("Bool"),
			Ctors:       names("Bool.false", "Bool.true"),
		},
		ctor("Bool.false", boolT, "Bool", 0, 0, 0),
		ctor("Bool.true", boolT, "Bool", 1, 0, 0),
		&env.RecursorVal{
			ConstantVal: decl("Bool.rec",
				pi("motive", motiveT, func(motive expr.Expr) expr.Expr {
					return pi("false", app(motive, ff), func(expr.Expr) expr.Expr {
						return pi("true", app(motive, tt), func(expr.Expr) expr.Expr {
							return pi("t", boolT, func(t expr.Expr) expr.Expr {
								return app(motive, t)
							})
						})
					})
				}), "u"),
			All:        names("Bool"),
			NumMotives: 1,
			NumMinors:  2,
			Rules: []env.RecursorRule{
				rule("Bool.false", 0, lam("motive", motiveT, func(motive expr.Expr) expr.Expr {
					return lam("false", app(motive, ff), func(f expr.Expr) expr.Expr {
						return constant(app(motive, tt), f)
					})
				})),
				rule("Bool.true", 0, lam("motive", motiveT, func(motive expr.Expr) expr.Expr {
					return lam("false", app(motive, ff), func(expr.Expr) expr.Expr {
						return lam("true", app(motive, tt), func(t expr.Expr) expr.Expr {
							return t
						})
					})
				})),
			},
		},
		abbrev("Bool.casesOn",
			pi("motive", motiveT, func(motive expr.Expr) expr.Expr {
				return pi("t", boolT, func(t expr.Expr) expr.Expr {
					return pi("false", app(motive, ff), func(expr.Expr) expr.Expr {
						return pi("true", app(motive, tt), func(expr.Expr) expr.Expr {
							return app(motive, t)
						})
					})
				})
			}),
			lam("motive", motiveT, func(motive expr.Expr) expr.Expr {
				return lam("t", boolT, func(t expr.Expr) expr.Expr {
					return lam("false", app(motive, ff), func(f expr.Expr) expr.Expr {
						return lam("true", app(motive, tt), func(tr expr.Expr) expr.Expr {
							return app(c("Bool.rec", u), motive, f, tr, t)
						})
					})
				})
			}), "u"),

		def("not", arrow(boolT, boolT), lam("b", boolT, func(b expr.Expr) expr.Expr {
			return boolCases(b, tt, ff)
		})),
		binop("and", func(a, b expr.Expr) expr.Expr { return boolCases(a, ff, b) }),
		binop("or", func(a, b expr.Expr) expr.Expr { return boolCases(a, b, tt) }),
		binop("xor", func(a, b expr.Expr) expr.Expr { return boolCases(a, b, app(c("not"), b)) }),
	)
	b.SetReducibility("Bool.casesOn", env.Reducible)
}
