package whnf

import (
	"context"

	"github.com/vito/redex/pkg/env"
	"github.com/vito/redex/pkg/expr"
)

// GetStuckMVar finds the unassigned metavariable, if any, whose value
// would let reduction of e make progress: the head of an application, the
// major premise of a recursor or quotient eliminator, the structure of a
// class projection, or the argument of a primitive projection.
func (s *Session) GetStuckMVar(ctx context.Context, e expr.Expr) (expr.MVarID, bool, error) {
	for {
		switch x := e.(type) {
		case *expr.MVar:
			v := s.mctx.InstantiateMVars(x)
			if m, ok := v.(*expr.MVar); ok {
				return m.ID, true, nil
			}
			e = v

		case *expr.Proj:
			c, err := s.Whnf(ctx, x.Struct)
			if err != nil {
				return "", false, err
			}
			e = c

		case *expr.App:
			next, ok, err := s.stuckAppArg(ctx, x)
			if err != nil || !ok {
				return "", false, err
			}
			e = next

		default:
			return "", false, nil
		}
	}
}

// stuckAppArg returns the subterm of an application that GetStuckMVar
// should examine next.
func (s *Session) stuckAppArg(ctx context.Context, e *expr.App) (expr.Expr, bool, error) {
	f, args := expr.GetAppFnArgs(e)
	switch f := f.(type) {
	case *expr.MVar:
		v := s.mctx.InstantiateMVars(e)
		if v == expr.Expr(e) {
			return f, true, nil
		}
		return v, true, nil

	case *expr.Proj:
		c, err := s.Whnf(ctx, f.Struct)
		return c, err == nil, err

	case *expr.Const:
		info, ok := s.env.Find(f.Name)
		if !ok {
			return nil, false, nil
		}
		switch info := info.(type) {
		case *env.RecursorVal:
			// K-like recursors reduce without inspecting the major premise.
			if info.K {
				return nil, false, nil
			}
			return s.whnfArg(ctx, args, info.MajorIdx())
		case *env.QuotVal:
			major, _, ok := quotPositions(info.QuotKind)
			if !ok {
				return nil, false, nil
			}
			return s.whnfArg(ctx, args, major)
		default:
			if !e.HasMVar() {
				return nil, false, nil
			}
			proj, ok := s.env.ProjectionInfo(f.Name)
			if !ok || !proj.FromClass || proj.NumParams >= len(args) {
				return nil, false, nil
			}
			return s.whnfArg(ctx, args, proj.NumParams)
		}
	}
	return nil, false, nil
}

func (s *Session) whnfArg(ctx context.Context, args []expr.Expr, i int) (expr.Expr, bool, error) {
	if i >= len(args) {
		return nil, false, nil
	}
	r, err := s.Whnf(ctx, args[i])
	if err != nil {
		return nil, false, err
	}
	return r, true, nil
}

// UnstuckMVar asks synth to assign the metavariable blocking e. On success
// the session adopts the new metavariable context and the instantiated
// term is returned.
func (s *Session) UnstuckMVar(ctx context.Context, e expr.Expr, synth PendingSynthesizer) (expr.Expr, bool, error) {
	id, ok, err := s.GetStuckMVar(ctx, e)
	if err != nil || !ok {
		return e, false, err
	}
	mctx, ok, err := synth.SynthPending(ctx, id, s.mctx)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return e, false, nil
	}
	s.SetMetavarContext(mctx)
	return s.mctx.InstantiateMVars(e), true, nil
}
