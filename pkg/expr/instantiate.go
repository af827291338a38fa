package expr

import (
	"github.com/vito/redex/pkg/level"
)

type replaceKey struct {
	e      Expr
	offset uint32
}

// replacer rebuilds a term bottom-up. fn is consulted first at every node;
// returning ok=true short-circuits the traversal with its result. Results are
// memoized per (node, binder depth) so shared subterms are visited once.
type replacer struct {
	fn    func(e Expr, offset uint32) (Expr, bool)
	skip  func(e Expr, offset uint32) bool
	cache map[replaceKey]Expr
}

func (r *replacer) visit(e Expr, offset uint32) Expr {
	if r.skip != nil && r.skip(e, offset) {
		return e
	}
	if res, ok := r.fn(e, offset); ok {
		return res
	}
	shared := false
	switch e.(type) {
	case *App, *Lambda, *Pi, *Let, *Proj:
		shared = true
	}
	if shared {
		if r.cache == nil {
			r.cache = map[replaceKey]Expr{}
		}
		if res, ok := r.cache[replaceKey{e, offset}]; ok {
			return res
		}
	}
	var res Expr
	switch e := e.(type) {
	case *App:
		res = UpdateApp(e, r.visit(e.Fn, offset), r.visit(e.Arg, offset))
	case *Lambda:
		res = UpdateLambda(e, r.visit(e.Type, offset), r.visit(e.Body, offset+1))
	case *Pi:
		res = UpdatePi(e, r.visit(e.Type, offset), r.visit(e.Body, offset+1))
	case *Let:
		res = UpdateLet(e, r.visit(e.Type, offset), r.visit(e.Value, offset), r.visit(e.Body, offset+1))
	case *Proj:
		res = UpdateProj(e, r.visit(e.Struct, offset))
	default:
		return e
	}
	r.cache[replaceKey{e, offset}] = res
	return res
}

func skipClosedBelow(e Expr, offset uint32) bool {
	return e.LooseBVarRange() <= offset
}

// Instantiate replaces loose BVar i with subst[i]; loose indices at or above
// len(subst) are lowered by len(subst).
func Instantiate(e Expr, subst ...Expr) Expr {
	if len(subst) == 0 || !e.HasLooseBVars() {
		return e
	}
	n := uint32(len(subst))
	r := &replacer{
		skip: skipClosedBelow,
		fn: func(e Expr, offset uint32) (Expr, bool) {
			bv, ok := e.(*BVar)
			if !ok {
				return nil, false
			}
			if bv.Idx < offset {
				return bv, true
			}
			if bv.Idx < offset+n {
				return LiftLooseBVars(subst[bv.Idx-offset], 0, offset), true
			}
			return NewBVar(bv.Idx - n), true
		},
	}
	return r.visit(e, 0)
}

// Instantiate1 replaces BVar 0 with v.
func Instantiate1(e, v Expr) Expr {
	return Instantiate(e, v)
}

// InstantiateRev replaces loose BVar i with subst[len(subst)-1-i], i.e. the
// last element of subst is the innermost binder.
func InstantiateRev(e Expr, subst ...Expr) Expr {
	if len(subst) == 0 || !e.HasLooseBVars() {
		return e
	}
	rev := make([]Expr, len(subst))
	for i, s := range subst {
		rev[len(subst)-1-i] = s
	}
	return Instantiate(e, rev...)
}

// LiftLooseBVars adds d to every loose index >= s.
func LiftLooseBVars(e Expr, s, d uint32) Expr {
	if d == 0 || e.LooseBVarRange() <= s {
		return e
	}
	r := &replacer{
		skip: func(e Expr, offset uint32) bool {
			return e.LooseBVarRange() <= s+offset
		},
		fn: func(e Expr, offset uint32) (Expr, bool) {
			bv, ok := e.(*BVar)
			if !ok {
				return nil, false
			}
			if bv.Idx >= s+offset {
				return NewBVar(bv.Idx + d), true
			}
			return bv, true
		},
	}
	return r.visit(e, 0)
}

// Abstract replaces each free variable in fvars with a bound variable; the
// last element of fvars becomes BVar 0.
func Abstract(e Expr, fvars ...Expr) Expr {
	if len(fvars) == 0 || !e.HasFVar() {
		return e
	}
	n := uint32(len(fvars))
	r := &replacer{
		skip: func(e Expr, _ uint32) bool {
			return !e.HasFVar()
		},
		fn: func(e Expr, offset uint32) (Expr, bool) {
			fv, ok := e.(*FVar)
			if !ok {
				return nil, false
			}
			for i := len(fvars) - 1; i >= 0; i-- {
				if other, ok := fvars[i].(*FVar); ok && other.ID == fv.ID {
					return NewBVar(offset + n - 1 - uint32(i)), true
				}
			}
			return fv, true
		},
	}
	return r.visit(e, 0)
}

// ReplaceFVar substitutes v for every occurrence of the free variable fv.
func ReplaceFVar(e Expr, fv *FVar, v Expr) Expr {
	return Instantiate1(Abstract(e, fv), v)
}

// InstantiateLevelParams substitutes universe parameters in every sort and
// constant of e.
func InstantiateLevelParams(e Expr, params []string, levels []level.Level) Expr {
	if len(params) == 0 || !e.HasLevelParam() {
		return e
	}
	subs := level.NewSubs(params, levels)
	r := &replacer{
		skip: func(e Expr, _ uint32) bool {
			return !e.HasLevelParam()
		},
		fn: func(e Expr, _ uint32) (Expr, bool) {
			switch e := e.(type) {
			case *Sort:
				return NewSort(subs.Apply(e.Level)), true
			case *Const:
				return NewConst(e.Name, subs.ApplyAll(e.Levels)...), true
			}
			return nil, false
		},
	}
	return r.visit(e, 0)
}

// Replace rebuilds e, consulting fn at every node before descending. It is
// the generic traversal behind metavariable instantiation.
func Replace(e Expr, fn func(e Expr) (Expr, bool)) Expr {
	r := &replacer{
		fn: func(e Expr, _ uint32) (Expr, bool) {
			return fn(e)
		},
	}
	return r.visit(e, 0)
}

// Update helpers return the original node when no child changed.

func UpdateApp(e *App, fn, arg Expr) Expr {
	if fn == e.Fn && arg == e.Arg {
		return e
	}
	return NewApp(fn, arg)
}

func UpdateLambda(e *Lambda, ty, body Expr) Expr {
	if ty == e.Type && body == e.Body {
		return e
	}
	return NewLambdaInfo(e.Binder, ty, body)
}

func UpdatePi(e *Pi, ty, body Expr) Expr {
	if ty == e.Type && body == e.Body {
		return e
	}
	return NewPiInfo(e.Binder, ty, body)
}

func UpdateLet(e *Let, ty, value, body Expr) Expr {
	if ty == e.Type && value == e.Value && body == e.Body {
		return e
	}
	return NewLet(e.Name, ty, value, body)
}

func UpdateProj(e *Proj, s Expr) Expr {
	if s == e.Struct {
		return e
	}
	return NewProj(e.TypeName, e.Idx, s)
}
