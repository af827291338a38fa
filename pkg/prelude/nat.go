package prelude

import (
	"github.com/vito/redex/pkg/env"
	"github.com/vito/redex/pkg/expr"
	"github.com/vito/redex/pkg/level"
)

var (
	natT  = c("Nat")
	zero  = c("Nat.zero")
	succ  = c("Nat.succ")
	boolT = c("Bool")
	tt    = c("Bool.true")
	ff    = c("Bool.false")
)

func natRec(l level.Level) expr.Expr     { return c("Nat.rec", l) }
func natCasesOn(l level.Level) expr.Expr { return c("Nat.casesOn", l) }

// natFold builds `Nat.rec (fun _ => motive) z (fun n ih => s n ih) t`
// at a non-dependent motive in Type.
func natFold(motive, z expr.Expr, s func(n, ih expr.Expr) expr.Expr, t expr.Expr) expr.Expr {
	return app(natRec(level.One), constant(natT, motive), z,
		lam("n", natT, func(n expr.Expr) expr.Expr {
			return lam("ih", motive, func(ih expr.Expr) expr.Expr {
				return s(n, ih)
			})
		}), t)
}

// natCases builds `Nat.casesOn (fun _ => motive) t z (fun n => s n)`.
func natCases(motive, t, z expr.Expr, s func(n expr.Expr) expr.Expr) expr.Expr {
	return app(natCasesOn(level.One), constant(natT, motive), t, z, lam("n", natT, s))
}

func natSuccMinor(motive expr.Expr) expr.Expr {
	return pi("n", natT, func(n expr.Expr) expr.Expr {
		return arrow(app(motive, n), app(motive, app(succ, n)))
	})
}

func natBinOp() expr.Expr {
	return arrow(natT, arrow(natT, natT))
}

func addNat(b *env.Builder) {
	motiveT := arrow(natT, sort(u))

	b.Add(
		&env.InductiveVal{
			ConstantVal: decl("Nat", expr.Type),
			All:         names("Nat"),
			Ctors:       names("Nat.zero", "Nat.succ"),
			IsRec:       true,
		},
		ctor("Nat.zero", natT, "Nat", 0, 0, 0),
		ctor("Nat.succ", arrow(natT, natT), "Nat", 1, 0, 1),
		&env.RecursorVal{
			ConstantVal: decl("Nat.rec",
				pi("motive", motiveT, func(motive expr.Expr) expr.Expr {
					return pi("zero", app(motive, zero), func(expr.Expr) expr.Expr {
						return pi("succ", natSuccMinor(motive), func(expr.Expr) expr.Expr {
							return pi("t", natT, func(t expr.Expr) expr.Expr {
								return app(motive, t)
							})
						})
					})
				}), "u"),
			All:        names("Nat"),
			NumMotives: 1,
			NumMinors:  2,
			Rules: []env.RecursorRule{
				rule("Nat.zero", 0, lam("motive", motiveT, func(motive expr.Expr) expr.Expr {
					return lam("zero", app(motive, zero), func(z expr.Expr) expr.Expr {
						return constant(natSuccMinor(motive), z)
					})
				})),
				rule("Nat.succ", 1, lam("motive", motiveT, func(motive expr.Expr) expr.Expr {
					return lam("zero", app(motive, zero), func(z expr.Expr) expr.Expr {
						return lam("succ", natSuccMinor(motive), func(s expr.Expr) expr.Expr {
							return lam("n", natT, func(n expr.Expr) expr.Expr {
								return app(s, n, app(natRec(u), motive, z, s, n))
							})
						})
					})
				})),
			},
		},
		abbrev("Nat.casesOn",
			pi("motive", motiveT, func(motive expr.Expr) expr.Expr {
				return pi("t", natT, func(t expr.Expr) expr.Expr {
					return pi("zero", app(motive, zero), func(expr.Expr) expr.Expr {
						return pi("succ", pi("n", natT, func(n expr.Expr) expr.Expr {
							return app(motive, app(succ, n))
						}), func(expr.Expr) expr.Expr {
							return app(motive, t)
						})
					})
				})
			}),
			lam("motive", motiveT, func(motive expr.Expr) expr.Expr {
				return lam("t", natT, func(t expr.Expr) expr.Expr {
					return lam("zero", app(motive, zero), func(z expr.Expr) expr.Expr {
						succT := pi("n", natT, func(n expr.Expr) expr.Expr {
							return app(motive, app(succ, n))
						})
						return lam("succ", succT, func(s expr.Expr) expr.Expr {
							return app(natRec(u), motive, z,
								lam("n", natT, func(n expr.Expr) expr.Expr {
									return lam("ih", app(motive, n), func(expr.Expr) expr.Expr {
										return app(s, n)
									})
								}), t)
						})
					})
				})
			}), "u"),

		def("Nat.pred", arrow(natT, natT), lam("n", natT, func(n expr.Expr) expr.Expr {
			return natFold(natT, zero, func(m, _ expr.Expr) expr.Expr { return m }, n)
		})),
		def("Nat.add", natBinOp(), lam("n", natT, func(n expr.Expr) expr.Expr {
			return lam("m", natT, func(m expr.Expr) expr.Expr {
				return natFold(natT, n, func(_, ih expr.Expr) expr.Expr { return app(succ, ih) }, m)
			})
		})),
		def("Nat.sub", natBinOp(), lam("n", natT, func(n expr.Expr) expr.Expr {
			return lam("m", natT, func(m expr.Expr) expr.Expr {
				return natFold(natT, n, func(_, ih expr.Expr) expr.Expr { return app(c("Nat.pred"), ih) }, m)
			})
		})),
		def("Nat.mul", natBinOp(), lam("n", natT, func(n expr.Expr) expr.Expr {
			return lam("m", natT, func(m expr.Expr) expr.Expr {
				return natFold(natT, zero, func(_, ih expr.Expr) expr.Expr { return app(c("Nat.add"), ih, n) }, m)
			})
		})),
		def("Nat.pow", natBinOp(), lam("n", natT, func(n expr.Expr) expr.Expr {
			return lam("m", natT, func(m expr.Expr) expr.Expr {
				return natFold(natT, nat(1), func(_, ih expr.Expr) expr.Expr { return app(c("Nat.mul"), ih, n) }, m)
			})
		})),
		def("Nat.beq", arrow(natT, arrow(natT, boolT)), lam("n", natT, func(n expr.Expr) expr.Expr {
			return natFold(arrow(natT, boolT),
				lam("m", natT, func(m expr.Expr) expr.Expr {
					return natCases(boolT, m, tt, func(expr.Expr) expr.Expr { return ff })
				}),
				func(_, ih expr.Expr) expr.Expr {
					return lam("m", natT, func(m expr.Expr) expr.Expr {
						return natCases(boolT, m, ff, func(k expr.Expr) expr.Expr { return app(ih, k) })
					})
				}, n)
		})),
		def("Nat.ble", arrow(natT, arrow(natT, boolT)), lam("n", natT, func(n expr.Expr) expr.Expr {
			return natFold(arrow(natT, boolT),
				constant(natT, tt),
				func(_, ih expr.Expr) expr.Expr {
					return lam("m", natT, func(m expr.Expr) expr.Expr {
						return natCases(boolT, m, ff, func(k expr.Expr) expr.Expr { return app(ih, k) })
					})
				}, n)
		})),
		def("Nat.blt", arrow(natT, arrow(natT, boolT)), lam("n", natT, func(n expr.Expr) expr.Expr {
			return lam("m", natT, func(m expr.Expr) expr.Expr {
				return app(c("Nat.ble"), app(succ, n), m)
			})
		})),
	)

	// Defined by well-founded recursion in Lean. Here only the literal
	// fast path evaluates them.
	for _, name := range []string{"Nat.div", "Nat.mod", "Nat.gcd", "Nat.land", "Nat.lor", "Nat.xor", "Nat.shiftLeft", "Nat.shiftRight"} {
		b.Add(opaque(name, natBinOp(), nil))
	}
	b.Add(opaque("Nat.log2", arrow(natT, natT), nil))
	b.SetReducibility("Nat.casesOn", env.Reducible)
}
