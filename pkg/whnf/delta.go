package whnf

import (
	"context"

	"github.com/vito/redex/pkg/env"
	"github.com/vito/redex/pkg/expr"
	"github.com/vito/redex/pkg/level"
)

// canUnfold applies Config.CanUnfold, or the transparency ordering when
// no policy is set.
func (s *Session) canUnfold(info env.ConstantInfo) bool {
	if s.cfg.CanUnfold != nil {
		return s.cfg.CanUnfold(s.cfg.Transparency, s.env, info)
	}
	return s.cfg.Transparency.Allows(RequiredTransparency(s.env, info))
}

// getConst looks up the head of an application during structural
// reduction. Definitions the current transparency hides come back nil; an
// undeclared name is an error.
func (s *Session) getConst(name expr.Name) (env.ConstantInfo, error) {
	info, ok := s.env.Find(name)
	if !ok {
		return nil, unknownConstant(name)
	}
	switch info.(type) {
	case *env.DefinitionVal, *env.TheoremVal:
		if !s.canUnfold(info) {
			return nil, nil
		}
	}
	return info, nil
}

// getUnfoldableConst is getConst for delta reduction: unknown names and
// constants without a value are simply not unfoldable.
func (s *Session) getUnfoldableConst(name expr.Name) env.ConstantInfo {
	info, ok := s.env.Find(name)
	if !ok {
		return nil
	}
	switch info.(type) {
	case *env.DefinitionVal, *env.TheoremVal:
		if s.canUnfold(info) {
			return info
		}
	}
	return nil
}

// IsAuxDef reports whether name is an auxiliary definition (casesOn, recOn,
// noConfusion and the like) that structural reduction unfolds eagerly.
func (s *Session) IsAuxDef(name expr.Name) bool {
	return s.env.IsAuxRecursor(name) || s.env.IsNoConfusion(name)
}

// InstantiateValueLevelParams returns the body of info with its universe
// parameters replaced by levels. Results are memoized per session.
func (s *Session) InstantiateValueLevelParams(info env.ConstantInfo, levels []level.Level) (expr.Expr, bool) {
	val, ok := info.Value()
	if !ok {
		return nil, false
	}
	base := info.Base()
	if len(base.LevelParams) != len(levels) {
		return nil, false
	}
	if len(levels) == 0 {
		return val, true
	}
	key := instKey{name: base.Name, levels: levelsHash(levels)}
	if ent, ok := s.insts.Get(key); ok && level.EqAll(ent.levels, levels) {
		return ent.value, true
	}
	res := expr.InstantiateLevelParams(val, base.LevelParams, levels)
	s.insts.Add(key, instEntry{levels: levels, value: res})
	return res, true
}

func levelsHash(ls []level.Level) uint64 {
	h := uint64(len(ls))
	for _, l := range ls {
		h = h*31 + l.Hash()
	}
	return h
}

// deltaBetaDefinition unfolds info applied to revArgs, beta-reducing the
// body against the arguments and dropping an idRhs marker at the head.
func (s *Session) deltaBetaDefinition(info env.ConstantInfo, levels []level.Level, revArgs []expr.Expr) (expr.Expr, bool) {
	val, ok := s.InstantiateValueLevelParams(info, levels)
	if !ok {
		return nil, false
	}
	return extractIdRhs(expr.BetaRev(val, revArgs)), true
}

func isIdRhsApp(e expr.Expr) bool {
	return expr.IsAppOf(e, IdRhs) && expr.GetAppNumArgs(e) >= 2
}

// extractIdRhs turns `idRhs α v a₁ … aₙ` into `v a₁ … aₙ`.
func extractIdRhs(e expr.Expr) expr.Expr {
	if !isIdRhsApp(e) {
		return e
	}
	args := expr.GetAppArgs(e)
	return expr.MkAppRange(args[1], 2, len(args), args)
}

// UnfoldDefinition performs one delta step at the head of e. It reports
// false when the head is not a definition unfoldable under the current
// transparency.
//
// With smart unfolding enabled, a definition with a NAME.eq companion is
// unfolded through the companion, and only if doing so exposes an idRhs
// marker; otherwise it is left alone.
func (s *Session) UnfoldDefinition(ctx context.Context, e expr.Expr) (expr.Expr, bool, error) {
	switch x := e.(type) {
	case *expr.App:
		c, ok := expr.GetAppFn(x).(*expr.Const)
		if !ok {
			return nil, false, nil
		}
		info := s.getUnfoldableConst(c.Name)
		if info == nil || len(info.Base().LevelParams) != len(c.Levels) {
			return nil, false, nil
		}
		revArgs := expr.GetAppRevArgs(x)
		if s.cfg.SmartUnfolding {
			if aux := s.getSmartUnfoldingConst(c.Name); aux != nil {
				return s.smartUnfold(ctx, aux, c.Levels, revArgs, e)
			}
		}
		r, ok := s.deltaBetaDefinition(info, c.Levels, revArgs)
		if ok {
			s.trace("unfold", "const", c.Name)
			s.record(StepDelta, e)
		}
		return r, ok, nil

	case *expr.Const:
		if s.cfg.SmartUnfolding && s.getSmartUnfoldingConst(x.Name) != nil {
			return nil, false, nil
		}
		info := s.getUnfoldableConst(x.Name)
		if info == nil {
			return nil, false, nil
		}
		r, ok := s.InstantiateValueLevelParams(info, x.Levels)
		if ok {
			s.trace("unfold", "const", x.Name)
			s.record(StepDelta, e)
		}
		return r, ok, nil
	}
	return nil, false, nil
}

func (s *Session) getSmartUnfoldingConst(name expr.Name) env.ConstantInfo {
	info, ok := s.env.Find(s.cfg.smartUnfoldingName(name))
	if !ok {
		return nil
	}
	if _, ok := info.Value(); !ok {
		return nil
	}
	return info
}

// smartUnfold unfolds the companion definition, reduces it structurally and
// accepts the result only when it is an idRhs application.
func (s *Session) smartUnfold(ctx context.Context, aux env.ConstantInfo, levels []level.Level, revArgs []expr.Expr, orig expr.Expr) (expr.Expr, bool, error) {
	val, ok := s.InstantiateValueLevelParams(aux, levels)
	if !ok {
		return nil, false, nil
	}
	r, err := s.WhnfCore(ctx, expr.BetaRev(val, revArgs))
	if err != nil {
		return nil, false, err
	}
	if !isIdRhsApp(r) {
		s.trace("smart unfolding stuck", "const", aux.Base().Name, "at", r.String())
		return nil, false, nil
	}
	s.trace("smart unfold", "const", aux.Base().Name)
	s.record(StepSmartDelta, orig)
	return extractIdRhs(r), true, nil
}
