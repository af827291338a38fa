package prelude

import (
	"github.com/vito/redex/pkg/env"
	"github.com/vito/redex/pkg/expr"
	"github.com/vito/redex/pkg/level"
)

// Prod returns `Prod.{u,v} α β`.
func Prod(lu, lv level.Level, α, β expr.Expr) expr.Expr {
	return app(c("Prod", lu, lv), α, β)
}

// ProdMk returns `@Prod.mk.{u,v} α β a b`.
func ProdMk(lu, lv level.Level, α, β, a, b expr.Expr) expr.Expr {
	return app(c("Prod.mk", lu, lv), α, β, a, b)
}

func addProd(b *env.Builder) {
	prod := func(α, β expr.Expr) expr.Expr { return Prod(u, v, α, β) }
	overTypes := func(implicit bool, body func(α, β expr.Expr) expr.Expr) expr.Expr {
		bind := pi
		if implicit {
			bind = ipi
		}
		return bind("α", typeOf(u), func(α expr.Expr) expr.Expr {
			return bind("β", typeOf(v), func(β expr.Expr) expr.Expr {
				return body(α, β)
			})
		})
	}
	motiveT := func(α, β expr.Expr) expr.Expr { return arrow(prod(α, β), sort(u1)) }
	minorT := func(α, β, motive expr.Expr) expr.Expr {
		return pi("fst", α, func(fst expr.Expr) expr.Expr {
			return pi("snd", β, func(snd expr.Expr) expr.Expr {
				return app(motive, ProdMk(u, v, α, β, fst, snd))
			})
		})
	}
	proj := func(name string, idx int, field func(α, β expr.Expr) expr.Expr) *env.DefinitionVal {
		ty := overTypes(true, func(α, β expr.Expr) expr.Expr {
			return arrow(prod(α, β), field(α, β))
		})
		val := ilam("α", typeOf(u), func(α expr.Expr) expr.Expr {
			return ilam("β", typeOf(v), func(β expr.Expr) expr.Expr {
				return lam("self", prod(α, β), func(self expr.Expr) expr.Expr {
					return expr.NewProj("Prod", idx, self)
				})
			})
		})
		return abbrev(name, ty, val, "u", "v")
	}

	b.Add(
		&env.InductiveVal{
			ConstantVal: decl("Prod", overTypes(false, func(α, β expr.Expr) expr.Expr {
				return typeOf(level.Max{LHS: u, RHS: v})
			}), "u", "v"),
			NumParams: 2,
			All:       names("Prod"),
			Ctors:     names("Prod.mk"),
		},
		ctor("Prod.mk", overTypes(true, func(α, β expr.Expr) expr.Expr {
			return pi("fst", α, func(expr.Expr) expr.Expr {
				return pi("snd", β, func(expr.Expr) expr.Expr {
					return prod(α, β)
				})
			})
		}), "Prod", 0, 2, 2, "u", "v"),
		&env.RecursorVal{
			ConstantVal: decl("Prod.rec", overTypes(true, func(α, β expr.Expr) expr.Expr {
				return ipi("motive", motiveT(α, β), func(motive expr.Expr) expr.Expr {
					return pi("mk", minorT(α, β, motive), func(expr.Expr) expr.Expr {
						return pi("t", prod(α, β), func(t expr.Expr) expr.Expr {
							return app(motive, t)
						})
					})
				})
			}), "u_1", "u", "v"),
			All:        names("Prod"),
			NumParams:  2,
			NumMotives: 1,
			NumMinors:  1,
			Rules: []env.RecursorRule{
				rule("Prod.mk", 2, lam("α", typeOf(u), func(α expr.Expr) expr.Expr {
					return lam("β", typeOf(v), func(β expr.Expr) expr.Expr {
						return lam("motive", motiveT(α, β), func(motive expr.Expr) expr.Expr {
							return lam("mk", minorT(α, β, motive), func(mk expr.Expr) expr.Expr {
								return lam("fst", α, func(fst expr.Expr) expr.Expr {
									return lam("snd", β, func(snd expr.Expr) expr.Expr {
										return app(mk, fst, snd)
									})
								})
							})
						})
					})
				})),
			},
		},
		proj("Prod.fst", 0, func(α, _ expr.Expr) expr.Expr { return α }),
		proj("Prod.snd", 1, func(_, β expr.Expr) expr.Expr { return β }),
	)
	b.AddProjection("Prod.fst", env.ProjectionInfo{Ctor: "Prod.mk", NumParams: 2, Idx: 0})
	b.AddProjection("Prod.snd", env.ProjectionInfo{Ctor: "Prod.mk", NumParams: 2, Idx: 1})
}

// List returns `List.{l} α`.
func List(l level.Level, α expr.Expr) expr.Expr {
	return app(c("List", l), α)
}

func addList(b *env.Builder) {
	list := func(α expr.Expr) expr.Expr { return List(u, α) }
	nilOf := func(α expr.Expr) expr.Expr { return app(c("List.nil", u), α) }
	consOf := func(α, h, t expr.Expr) expr.Expr { return app(c("List.cons", u), α, h, t) }
	motiveT := func(α expr.Expr) expr.Expr { return arrow(list(α), sort(u1)) }
	consMinorT := func(α, motive expr.Expr) expr.Expr {
		return pi("head", α, func(h expr.Expr) expr.Expr {
			return pi("tail", list(α), func(t expr.Expr) expr.Expr {
				return arrow(app(motive, t), app(motive, consOf(α, h, t)))
			})
		})
	}
	// binds α, motive, nil and cons, the leading arguments of List.rec
	recPrefix := func(bind, bindI func(string, expr.Expr, func(expr.Expr) expr.Expr) expr.Expr, body func(α, motive, n, cs expr.Expr) expr.Expr) expr.Expr {
		return bindI("α", typeOf(u), func(α expr.Expr) expr.Expr {
			return bindI("motive", motiveT(α), func(motive expr.Expr) expr.Expr {
				return bind("nil", app(motive, nilOf(α)), func(n expr.Expr) expr.Expr {
					return bind("cons", consMinorT(α, motive), func(cs expr.Expr) expr.Expr {
						return body(α, motive, n, cs)
					})
				})
			})
		})
	}

	b.Add(
		&env.InductiveVal{
			ConstantVal: decl("List", pi("α", typeOf(u), func(expr.Expr) expr.Expr {
				return typeOf(u)
			}), "u"),
			NumParams: 1,
			All:       names("List"),
			Ctors:     names("List.nil", "List.cons"),
			IsRec:     true,
		},
		ctor("List.nil", ipi("α", typeOf(u), list), "List", 0, 1, 0, "u"),
		ctor("List.cons", ipi("α", typeOf(u), func(α expr.Expr) expr.Expr {
			return pi("head", α, func(expr.Expr) expr.Expr {
				return pi("tail", list(α), func(expr.Expr) expr.Expr {
					return list(α)
				})
			})
		}), "List", 1, 1, 2, "u"),
		&env.RecursorVal{
			ConstantVal: decl("List.rec", recPrefix(pi, ipi, func(α, motive, _, _ expr.Expr) expr.Expr {
				return pi("t", list(α), func(t expr.Expr) expr.Expr {
					return app(motive, t)
				})
			}), "u_1", "u"),
			All:        names("List"),
			NumParams:  1,
			NumMotives: 1,
			NumMinors:  2,
			Rules: []env.RecursorRule{
				rule("List.nil", 0, recPrefix(lam, lam, func(_, _, n, _ expr.Expr) expr.Expr {
					return n
				})),
				rule("List.cons", 2, recPrefix(lam, lam, func(α, motive, n, cs expr.Expr) expr.Expr {
					return lam("head", α, func(h expr.Expr) expr.Expr {
						return lam("tail", list(α), func(t expr.Expr) expr.Expr {
							return app(cs, h, t, app(c("List.rec", u1, u), α, motive, n, cs, t))
						})
					})
				})),
			},
		},
		def("List.length",
			ipi("α", typeOf(u), func(α expr.Expr) expr.Expr {
				return arrow(list(α), natT)
			}),
			ilam("α", typeOf(u), func(α expr.Expr) expr.Expr {
				return lam("l", list(α), func(l expr.Expr) expr.Expr {
					return app(c("List.rec", level.One, u), α, constant(list(α), natT), zero,
						lam("head", α, func(expr.Expr) expr.Expr {
							return lam("tail", list(α), func(expr.Expr) expr.Expr {
								return lam("ih", natT, func(ih expr.Expr) expr.Expr {
									return app(succ, ih)
								})
							})
						}), l)
				})
			}), "u"),
	)
}

func addString(b *env.Builder) {
	charT := c("Char")
	strT := c("String")
	chars := List(level.Zero, charT)
	motiveT := arrow(strT, sort(u))
	minorT := func(motive expr.Expr) expr.Expr {
		return pi("data", chars, func(data expr.Expr) expr.Expr {
			return app(motive, app(c("String.mk"), data))
		})
	}
	b.Add(
		axiom("Char", expr.Type),
		axiom("Char.ofNat", arrow(natT, charT)),
		&env.InductiveVal{
			ConstantVal: decl("String", expr.Type),
			All:         names("String"),
			Ctors:       names("String.mk"),
		},
		ctor("String.mk", arrow(chars, strT), "String", 0, 0, 1),
		&env.RecursorVal{
			ConstantVal: decl("String.rec",
				ipi("motive", motiveT, func(motive expr.Expr) expr.Expr {
					return pi("mk", minorT(motive), func(expr.Expr) expr.Expr {
						return pi("t", strT, func(t expr.Expr) expr.Expr {
							return app(motive, t)
						})
					})
				}), "u"),
			All:        names("String"),
			NumMotives: 1,
			NumMinors:  1,
			Rules: []env.RecursorRule{
				rule("String.mk", 1, lam("motive", motiveT, func(motive expr.Expr) expr.Expr {
					return lam("mk", minorT(motive), func(mk expr.Expr) expr.Expr {
						return lam("data", chars, func(data expr.Expr) expr.Expr {
							return app(mk, data)
						})
					})
				})),
			},
		},
		def("String.length", arrow(strT, natT), lam("s", strT, func(s expr.Expr) expr.Expr {
			return app(c("String.rec", level.One), constant(strT, natT),
				lam("data", chars, func(data expr.Expr) expr.Expr {
					return app(c("List.length", level.Zero), charT, data)
				}), s)
		})),
	)
}

// addInhabited declares the Inhabited class, its projection and the Nat
// instance.
func addInhabited(b *env.Builder) {
	inh := func(l level.Level, α expr.Expr) expr.Expr { return app(c("Inhabited", l), α) }
	motiveT := func(α expr.Expr) expr.Expr { return arrow(inh(u, α), sort(u1)) }
	minorT := func(α, motive expr.Expr) expr.Expr {
		return pi("default", α, func(d expr.Expr) expr.Expr {
			return app(motive, app(c("Inhabited.mk", u), α, d))
		})
	}
	b.Add(
		&env.InductiveVal{
			ConstantVal: decl("Inhabited", pi("α", sort(u), func(expr.Expr) expr.Expr {
				return sort(level.Max{LHS: level.One, RHS: u})
			}), "u"),
			NumParams: 1,
			All:       names("Inhabited"),
			Ctors:     names("Inhabited.mk"),
		},
		ctor("Inhabited.mk", ipi("α", sort(u), func(α expr.Expr) expr.Expr {
			return pi("default", α, func(expr.Expr) expr.Expr {
				return inh(u, α)
			})
		}), "Inhabited", 0, 1, 1, "u"),
		&env.RecursorVal{
			ConstantVal: decl("Inhabited.rec", ipi("α", sort(u), func(α expr.Expr) expr.Expr {
				return ipi("motive", motiveT(α), func(motive expr.Expr) expr.Expr {
					return pi("mk", minorT(α, motive), func(expr.Expr) expr.Expr {
						return pi("t", inh(u, α), func(t expr.Expr) expr.Expr {
							return app(motive, t)
						})
					})
				})
			}), "u_1", "u"),
			All:        names("Inhabited"),
			NumParams:  1,
			NumMotives: 1,
			NumMinors:  1,
			Rules: []env.RecursorRule{
				rule("Inhabited.mk", 1, lam("α", sort(u), func(α expr.Expr) expr.Expr {
					return lam("motive", motiveT(α), func(motive expr.Expr) expr.Expr {
						return lam("mk", minorT(α, motive), func(mk expr.Expr) expr.Expr {
							return lam("default", α, func(d expr.Expr) expr.Expr {
								return app(mk, d)
							})
						})
					})
				})),
			},
		},
		abbrev("Inhabited.default",
			ipi("α", sort(u), func(α expr.Expr) expr.Expr {
				return arrow(inh(u, α), α)
			}),
			ilam("α", sort(u), func(α expr.Expr) expr.Expr {
				return lam("self", inh(u, α), func(self expr.Expr) expr.Expr {
					return expr.NewProj("Inhabited", 0, self)
				})
			}), "u"),
		def("instInhabitedNat", inh(level.One, natT), app(c("Inhabited.mk", level.One), natT, zero)),
	)
	b.AddProjection("Inhabited.default", env.ProjectionInfo{Ctor: "Inhabited.mk", NumParams: 1, Idx: 0, FromClass: true})
	b.AddInstance("instInhabitedNat")
}
