package meta

import (
	"github.com/vito/redex/pkg/expr"
	"github.com/vito/redex/pkg/level"
)

// InstantiateMVars replaces every assigned metavariable in e by its value,
// transitively. An assigned metavariable in head position is beta-reduced
// against its arguments, so `?f a` with `?f := fun x => b` becomes `b[a]`.
func (mctx *MetavarContext) InstantiateMVars(e expr.Expr) expr.Expr {
	if !e.HasMVar() && !e.HasLevelMVar() {
		return e
	}
	memo := map[expr.MVarID]expr.Expr{}
	var inst func(e expr.Expr) expr.Expr
	inst = func(e expr.Expr) expr.Expr {
		return expr.Replace(e, func(e expr.Expr) (expr.Expr, bool) {
			if !e.HasMVar() && !e.HasLevelMVar() {
				return e, true
			}
			switch e := e.(type) {
			case *expr.MVar:
				if v, ok := memo[e.ID]; ok {
					return v, true
				}
				v, ok := mctx.ExprAssignment(e.ID)
				if !ok {
					return e, true
				}
				v = inst(v)
				memo[e.ID] = v
				return v, true
			case *expr.Sort:
				l := mctx.InstantiateLevelMVars(e.Level)
				if l.Eq(e.Level) {
					return e, true
				}
				return expr.NewSort(l), true
			case *expr.Const:
				ls := make([]level.Level, len(e.Levels))
				changed := false
				for i, l := range e.Levels {
					ls[i] = mctx.InstantiateLevelMVars(l)
					changed = changed || !ls[i].Eq(l)
				}
				if !changed {
					return e, true
				}
				return expr.NewConst(e.Name, ls...), true
			case *expr.App:
				f := expr.GetAppFn(e)
				m, ok := f.(*expr.MVar)
				if !ok {
					return nil, false
				}
				if _, assigned := mctx.ExprAssignment(m.ID); !assigned {
					return nil, false
				}
				args := expr.GetAppArgs(e)
				for i, a := range args {
					args[i] = inst(a)
				}
				head := inst(m)
				return expr.HeadBeta(expr.MkApp(head, args...)), true
			}
			return nil, false
		})
	}
	return inst(e)
}

// InstantiateLevelMVars replaces assigned universe metavariables.
func (mctx *MetavarContext) InstantiateLevelMVars(l level.Level) level.Level {
	if !l.HasMVar() {
		return l
	}
	switch l := l.(type) {
	case level.MVar:
		v, ok := mctx.LevelAssignment(l)
		if !ok {
			return l
		}
		return mctx.InstantiateLevelMVars(v)
	case level.Succ:
		return level.Succ{Of: mctx.InstantiateLevelMVars(l.Of)}
	case level.Max:
		return level.Max{LHS: mctx.InstantiateLevelMVars(l.LHS), RHS: mctx.InstantiateLevelMVars(l.RHS)}
	case level.IMax:
		return level.IMax{LHS: mctx.InstantiateLevelMVars(l.LHS), RHS: mctx.InstantiateLevelMVars(l.RHS)}
	}
	return l
}

// HasAssignedMVar reports whether e mentions a metavariable that has a
// value, i.e. whether InstantiateMVars would change it.
func (mctx *MetavarContext) HasAssignedMVar(e expr.Expr) bool {
	if !e.HasMVar() {
		return false
	}
	found := false
	expr.Replace(e, func(e expr.Expr) (expr.Expr, bool) {
		if found || !e.HasMVar() {
			return e, true
		}
		if m, ok := e.(*expr.MVar); ok {
			found = mctx.IsAssigned(m.ID)
			return e, true
		}
		return nil, false
	})
	return found
}
