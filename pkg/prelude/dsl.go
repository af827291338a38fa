package prelude

import (
	"fmt"
	"sync/atomic"

	"github.com/vito/redex/pkg/env"
	"github.com/vito/redex/pkg/expr"
	"github.com/vito/redex/pkg/level"
)

// Terms are written with Go closures standing in for binders: the closure
// receives a fresh free variable, and the result is abstracted over it.

var fresh atomic.Uint64

func freshFVar(name string) *expr.FVar {
	return expr.NewFVar(expr.FVarID(fmt.Sprintf("_prelude.%s.%d", name, fresh.Add(1))))
}

func binder(name string, info expr.BinderInfo, body func(x expr.Expr) expr.Expr) (expr.Binder, expr.Expr) {
	fv := freshFVar(name)
	return expr.Binder{Name: expr.Name(name), Info: info}, expr.Abstract(body(fv), fv)
}

func lam(name string, ty expr.Expr, body func(x expr.Expr) expr.Expr) expr.Expr {
	b, bd := binder(name, expr.BinderDefault, body)
	return expr.NewLambdaInfo(b, ty, bd)
}

func ilam(name string, ty expr.Expr, body func(x expr.Expr) expr.Expr) expr.Expr {
	b, bd := binder(name, expr.BinderImplicit, body)
	return expr.NewLambdaInfo(b, ty, bd)
}

func pi(name string, ty expr.Expr, body func(x expr.Expr) expr.Expr) expr.Expr {
	b, bd := binder(name, expr.BinderDefault, body)
	return expr.NewPiInfo(b, ty, bd)
}

func ipi(name string, ty expr.Expr, body func(x expr.Expr) expr.Expr) expr.Expr {
	b, bd := binder(name, expr.BinderImplicit, body)
	return expr.NewPiInfo(b, ty, bd)
}

func arrow(dom, cod expr.Expr) expr.Expr {
	return expr.Arrow(dom, cod)
}

// constant ignores its argument, for motives like `fun _ => Nat`.
func constant(ty, val expr.Expr) expr.Expr {
	return lam("_", ty, func(expr.Expr) expr.Expr { return val })
}

func c(name string, levels ...level.Level) expr.Expr {
	return expr.NewConst(expr.Name(name), levels...)
}

func app(f expr.Expr, args ...expr.Expr) expr.Expr {
	return expr.MkApp(f, args...)
}

func sort(l level.Level) expr.Expr {
	return expr.NewSort(l)
}

func typeOf(l level.Level) expr.Expr {
	return expr.NewSort(level.Succ{Of: l})
}

func nat(n uint64) expr.Expr {
	return expr.NatLit(n)
}

var (
	u  = level.Param("u")
	v  = level.Param("v")
	u1 = level.Param("u_1")
)

func decl(name string, ty expr.Expr, params ...string) env.ConstantVal {
	return env.ConstantVal{Name: expr.Name(name), LevelParams: params, Type: ty}
}

func def(name string, ty, val expr.Expr, params ...string) *env.DefinitionVal {
	return &env.DefinitionVal{
		ConstantVal: decl(name, ty, params...),
		Val:         val,
		Hints:       env.ReducibilityHints{Kind: env.HintRegular, Height: 1},
	}
}

func abbrev(name string, ty, val expr.Expr, params ...string) *env.DefinitionVal {
	d := def(name, ty, val, params...)
	d.Hints = env.ReducibilityHints{Kind: env.HintAbbrev}
	return d
}

func axiom(name string, ty expr.Expr, params ...string) *env.AxiomVal {
	return &env.AxiomVal{ConstantVal: decl(name, ty, params...)}
}

func opaque(name string, ty, val expr.Expr, params ...string) *env.OpaqueVal {
	return &env.OpaqueVal{ConstantVal: decl(name, ty, params...), Val: val}
}

func ctor(name string, ty expr.Expr, induct string, cidx, numParams, numFields int, params ...string) *env.ConstructorVal {
	return &env.ConstructorVal{
		ConstantVal: decl(name, ty, params...),
		Induct:      expr.Name(induct),
		Cidx:        cidx,
		NumParams:   numParams,
		NumFields:   numFields,
	}
}

func rule(ctor string, numFields int, rhs expr.Expr) env.RecursorRule {
	return env.RecursorRule{Ctor: expr.Name(ctor), NumFields: numFields, RHS: rhs}
}

func names(ns ...string) []expr.Name {
	out := make([]expr.Name, len(ns))
	for i, n := range ns {
		out[i] = expr.Name(n)
	}
	return out
}
