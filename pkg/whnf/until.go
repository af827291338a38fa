package whnf

import (
	"context"

	"github.com/vito/redex/pkg/expr"
)

// WhnfHeadPred reduces e like Whnf, but stops unfolding definitions as
// soon as pred rejects the structurally reduced term.
func (s *Session) WhnfHeadPred(ctx context.Context, e expr.Expr, pred func(expr.Expr) (bool, error)) (expr.Expr, error) {
	for {
		r, more, err := s.whnfEasyCases(e)
		if err != nil {
			return nil, err
		}
		if !more {
			return r, nil
		}
		c, err := s.WhnfCore(ctx, r)
		if err != nil {
			return nil, err
		}
		ok, err := pred(c)
		if err != nil {
			return nil, err
		}
		if !ok {
			return c, nil
		}
		next, ok, err := s.UnfoldDefinition(ctx, c)
		if err != nil {
			return nil, err
		}
		if !ok {
			return c, nil
		}
		e = next
	}
}

// WhnfUntil unfolds e until its head is the constant target. It reports
// false when reduction gets stuck before reaching it.
func (s *Session) WhnfUntil(ctx context.Context, e expr.Expr, target expr.Name) (expr.Expr, bool, error) {
	r, err := s.WhnfHeadPred(ctx, e, func(e expr.Expr) (bool, error) {
		return !expr.IsAppOf(e, target), nil
	})
	if err != nil {
		return nil, false, err
	}
	if !expr.IsAppOf(r, target) {
		return nil, false, nil
	}
	return r, true, nil
}
