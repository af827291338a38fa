package whnf

import (
	"context"

	"github.com/vito/redex/pkg/env"
	"github.com/vito/redex/pkg/expr"
)

// whnfEasyCases settles the shapes that need no rewriting machinery:
// binders, sorts, literals and unassigned variables are already in normal
// form, let-bound free variables and assigned metavariables are replaced
// by their values. It reports true when the result still has to go
// through the structural reducer.
func (s *Session) whnfEasyCases(e expr.Expr) (expr.Expr, bool, error) {
	for {
		switch x := e.(type) {
		case *expr.BVar, *expr.Sort, *expr.Lit, *expr.Lambda, *expr.Pi:
			return e, false, nil
		case *expr.Const, *expr.App, *expr.Let, *expr.Proj:
			return e, true, nil
		case *expr.FVar:
			decl, ok := s.lctx.Find(x.ID)
			if !ok {
				return nil, false, unknownFVar(x.ID)
			}
			if decl.Value == nil || !s.cfg.Zeta {
				return e, false, nil
			}
			s.record(StepZeta, e)
			e = decl.Value
		case *expr.MVar:
			v, ok := s.mctx.ExprAssignment(x.ID)
			if !ok {
				return e, false, nil
			}
			e = v
		default:
			return e, false, nil
		}
	}
}

// WhnfCore reduces e to weak head normal form using beta, zeta, iota,
// quotient and projection reduction, but no delta reduction except for
// auxiliary definitions such as casesOn.
func (s *Session) WhnfCore(ctx context.Context, e expr.Expr) (expr.Expr, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		r, more, err := s.whnfEasyCases(e)
		if err != nil || !more {
			return r, err
		}
		next, progress, err := s.coreStep(ctx, r)
		if err != nil {
			return nil, err
		}
		if !progress {
			return next, nil
		}
		e = next
	}
}

// coreStep performs one structural rewrite at the head of e. Without
// progress it returns the term it got stuck on, which may already have a
// reduced head.
func (s *Session) coreStep(ctx context.Context, e expr.Expr) (expr.Expr, bool, error) {
	switch x := e.(type) {
	case *expr.Let:
		if !s.cfg.Zeta {
			return e, false, nil
		}
		s.record(StepZeta, e)
		return expr.Instantiate1(x.Body, x.Value), true, nil
	case *expr.App:
		return s.appStep(ctx, x)
	case *expr.Proj:
		return s.projStep(ctx, x)
	}
	return e, false, nil
}

func (s *Session) appStep(ctx context.Context, e *expr.App) (expr.Expr, bool, error) {
	f0 := expr.GetAppFn(e)
	f, err := s.WhnfCore(ctx, f0)
	if err != nil {
		return nil, false, err
	}
	if expr.IsLambda(f) {
		s.record(StepBeta, e)
		return expr.BetaRev(f, expr.GetAppRevArgs(e)), true, nil
	}
	var cur expr.Expr = e
	if f != f0 {
		cur = expr.UpdateFn(e, f)
	}
	c, ok := expr.GetAppFn(cur).(*expr.Const)
	if !ok {
		return cur, false, nil
	}
	info, err := s.getConst(c.Name)
	if err != nil {
		return nil, false, err
	}
	switch info := info.(type) {
	case *env.RecursorVal:
		r, ok, err := s.reduceRec(ctx, info, c.Levels, expr.GetAppArgs(cur), cur)
		if err != nil || ok {
			return r, ok, err
		}
	case *env.QuotVal:
		r, ok, err := s.reduceQuotRec(ctx, info, expr.GetAppArgs(cur), cur)
		if err != nil || ok {
			return r, ok, err
		}
	case *env.DefinitionVal:
		if s.IsAuxDef(c.Name) {
			if r, ok := s.deltaBetaDefinition(info, c.Levels, expr.GetAppRevArgs(cur)); ok {
				s.trace("unfold aux", "const", c.Name)
				s.record(StepDelta, cur)
				return r, true, nil
			}
		}
	}
	return cur, false, nil
}

func (s *Session) projStep(ctx context.Context, p *expr.Proj) (expr.Expr, bool, error) {
	if !s.cfg.Proj {
		return p, false, nil
	}
	c, err := s.Whnf(ctx, p.Struct)
	if err != nil {
		return nil, false, err
	}
	r, ok := s.projectCore(c, p)
	if !ok {
		return p, false, nil
	}
	s.record(StepProj, p)
	return r, true, nil
}

// Whnf reduces e to weak head normal form, unfolding definitions allowed
// by the current transparency. Results for closed terms are cached, and
// every intermediate term of an unfolding chain is cached along with the
// final result.
func (s *Session) Whnf(ctx context.Context, e expr.Expr) (expr.Expr, error) {
	mode := s.cfg.Transparency
	var visited []expr.Expr
	done := func(r expr.Expr) (expr.Expr, error) {
		for _, v := range visited {
			s.cache = s.cache.Insert(mode, v, r)
		}
		return r, nil
	}
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		r, more, err := s.whnfEasyCases(e)
		if err != nil {
			return nil, err
		}
		if !more {
			return done(r)
		}
		if s.cfg.Cache && Cacheable(mode, r) {
			if hit, ok := s.cache.Find(mode, r); ok {
				s.record(StepCacheHit, r)
				return done(hit)
			}
			s.stats.CacheMisses++
			visited = append(visited, r)
		}
		c, err := s.WhnfCore(ctx, r)
		if err != nil {
			return nil, err
		}
		if v, ok, err := s.reduceLit(ctx, c); err != nil {
			return nil, err
		} else if ok {
			return done(v)
		}
		if v, ok := s.reduceNative(c); ok {
			return done(v)
		}
		next, ok, err := s.UnfoldDefinition(ctx, c)
		if err != nil {
			return nil, err
		}
		if !ok {
			return done(c)
		}
		e = next
	}
}
