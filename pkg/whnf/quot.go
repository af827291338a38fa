package whnf

import (
	"context"

	"github.com/vito/redex/pkg/env"
	"github.com/vito/redex/pkg/expr"
)

// quotPositions gives the argument positions of the major premise and the
// function to apply for Quot.lift and Quot.ind.
func quotPositions(kind env.QuotKind) (major, fn int, ok bool) {
	switch kind {
	case env.QuotLift:
		return 5, 3, true
	case env.QuotInd:
		return 4, 3, true
	}
	return 0, 0, false
}

// reduceQuotRec reduces `Quot.lift f h (Quot.mk r a)` to `f a`, and
// likewise for Quot.ind.
func (s *Session) reduceQuotRec(ctx context.Context, q *env.QuotVal, args []expr.Expr, orig expr.Expr) (expr.Expr, bool, error) {
	majorPos, fnPos, ok := quotPositions(q.QuotKind)
	if !ok || majorPos >= len(args) {
		return nil, false, nil
	}
	major, err := s.Whnf(ctx, args[majorPos])
	if err != nil {
		return nil, false, err
	}
	mk, mkArgs := expr.GetAppFnArgs(major)
	if len(mkArgs) != 3 || !s.isQuotCtor(mk) {
		return nil, false, nil
	}
	res := expr.MkAppRange(expr.NewApp(args[fnPos], mkArgs[2]), majorPos+1, len(args), args)
	s.trace("quot", "const", q.Name)
	s.record(StepQuot, orig)
	return res, true, nil
}

func (s *Session) isQuotCtor(e expr.Expr) bool {
	name, ok := expr.ConstName(e)
	if !ok {
		return false
	}
	info, ok := s.env.Find(name)
	if !ok {
		return false
	}
	q, ok := info.(*env.QuotVal)
	return ok && q.QuotKind == env.QuotCtor
}
