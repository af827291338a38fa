package whnf

import (
	"context"
	"math/big"

	"github.com/vito/redex/pkg/env"
	"github.com/vito/redex/pkg/expr"
	"github.com/vito/redex/pkg/level"
)

// reduceRec fires a recursor rule when the major premise reduces to a
// constructor application. args are all arguments of the recursor.
func (s *Session) reduceRec(ctx context.Context, rec *env.RecursorVal, levels []level.Level, args []expr.Expr, orig expr.Expr) (expr.Expr, bool, error) {
	majorIdx := rec.MajorIdx()
	if majorIdx >= len(args) {
		return nil, false, nil
	}
	major, err := s.Whnf(ctx, args[majorIdx])
	if err != nil {
		return nil, false, err
	}
	major = toCtorIfLit(major)
	if rec.K && !s.isConstructorApp(major) {
		major, err = s.toCtorWhenK(ctx, rec, major)
		if err != nil {
			return nil, false, err
		}
	}
	if s.cfg.EtaStruct {
		major, err = s.toCtorWhenStructure(ctx, rec.Induct(), major)
		if err != nil {
			return nil, false, err
		}
	}
	ctor, ok := expr.ConstName(expr.GetAppFn(major))
	if !ok {
		return nil, false, nil
	}
	rule, ok := rec.RuleFor(ctor)
	if !ok {
		return nil, false, nil
	}
	majorArgs := expr.GetAppArgs(major)
	if len(levels) != len(rec.LevelParams) || rule.NumFields > len(majorArgs) {
		return nil, false, nil
	}
	rhs := expr.InstantiateLevelParams(rule.RHS, rec.LevelParams, levels)
	// params, motives and minor premises
	rhs = expr.MkAppRange(rhs, 0, rec.NumParams+rec.NumMotives+rec.NumMinors, args)
	// constructor fields, skipping its parameters
	rhs = expr.MkAppRange(rhs, len(majorArgs)-rule.NumFields, len(majorArgs), majorArgs)
	// arguments past the major premise
	rhs = expr.MkAppRange(rhs, majorIdx+1, len(args), args)
	s.trace("iota", "rec", rec.Name, "ctor", ctor)
	s.record(StepIota, orig)
	return rhs, true, nil
}

// isConstructorApp reports whether e is a saturated constructor application.
func (s *Session) isConstructorApp(e expr.Expr) bool {
	name, ok := expr.ConstName(expr.GetAppFn(e))
	if !ok {
		return false
	}
	info, ok := s.env.Find(name)
	if !ok {
		return false
	}
	ctor, ok := info.(*env.ConstructorVal)
	return ok && expr.GetAppNumArgs(e) == ctor.NumParams+ctor.NumFields
}

var one = big.NewInt(1)

// toCtorIfLit exposes the constructor form of a literal: 0 as Nat.zero,
// n+1 as Nat.succ n, and strings as String.mk of a character list.
func toCtorIfLit(e expr.Expr) expr.Expr {
	lit, ok := e.(*expr.Lit)
	if !ok {
		return e
	}
	switch v := lit.Value.(type) {
	case expr.NatVal:
		if v.V.Sign() == 0 {
			return expr.NewConst(NatZero)
		}
		return expr.NewApp(expr.NewConst(NatSucc), expr.BigNatLit(new(big.Int).Sub(v.V, one)))
	case expr.StrVal:
		return stringToCtor(v.V)
	}
	return e
}

func stringToCtor(str string) expr.Expr {
	char := expr.NewConst(CharName)
	var list expr.Expr = expr.NewApp(expr.NewConst(ListNil, level.Zero), char)
	runes := []rune(str)
	for i := len(runes) - 1; i >= 0; i-- {
		c := expr.NewApp(expr.NewConst(CharOfNat), expr.NatLit(uint64(runes[i])))
		list = expr.MkApp(expr.NewConst(ListCons, level.Zero), char, c, list)
	}
	return expr.NewApp(expr.NewConst(StringMk), list)
}

// inferWhnfType is the weak head normal type of e, with metavariables
// instantiated.
func (s *Session) inferWhnfType(ctx context.Context, e expr.Expr) (expr.Expr, error) {
	ty, err := s.oracle.InferType(ctx, e)
	if err != nil {
		return nil, err
	}
	ty, err = s.Whnf(ctx, ty)
	if err != nil {
		return nil, err
	}
	return s.mctx.InstantiateMVars(ty), nil
}

// toCtorWhenK replaces the major premise of a K-like recursor by the unique
// nullary constructor, provided its type is definitionally equal to the
// major's. Indices containing metavariables block the rule.
func (s *Session) toCtorWhenK(ctx context.Context, rec *env.RecursorVal, major expr.Expr) (expr.Expr, error) {
	if s.oracle == nil {
		return major, nil
	}
	majorType, err := s.inferWhnfType(ctx, major)
	if err != nil {
		return nil, err
	}
	if !expr.IsAppOf(majorType, rec.Induct()) {
		return major, nil
	}
	if majorType.HasMVar() {
		for _, idx := range expr.GetAppArgs(majorType)[rec.NumParams:] {
			if idx.HasMVar() {
				return major, nil
			}
		}
	}
	ctor, ok := s.mkNullaryCtor(majorType, rec.NumParams)
	if !ok {
		return major, nil
	}
	ctorType, err := s.oracle.InferType(ctx, ctor)
	if err != nil {
		return nil, err
	}
	eq, err := s.oracle.IsDefEq(ctx, majorType, ctorType)
	if err != nil {
		return nil, err
	}
	if !eq {
		return major, nil
	}
	s.trace("k rule", "rec", rec.Name, "ctor", ctor.String())
	return ctor, nil
}

// mkNullaryCtor applies the first constructor of the inductive at the
// head of ty to ty's parameters.
func (s *Session) mkNullaryCtor(ty expr.Expr, numParams int) (expr.Expr, bool) {
	head, ok := expr.GetAppFn(ty).(*expr.Const)
	if !ok {
		return nil, false
	}
	info, ok := s.env.Find(head.Name)
	if !ok {
		return nil, false
	}
	ind, ok := info.(*env.InductiveVal)
	if !ok || len(ind.Ctors) == 0 {
		return nil, false
	}
	args := expr.GetAppArgs(ty)
	if numParams > len(args) {
		return nil, false
	}
	return expr.MkApp(expr.NewConst(ind.Ctors[0], head.Levels...), args[:numParams]...), true
}

// toCtorWhenStructure eta-expands a major premise of a structure-like type
// into its constructor applied to projections, so that the recursor can
// fire on a variable. Propositions are left alone.
func (s *Session) toCtorWhenStructure(ctx context.Context, induct expr.Name, major expr.Expr) (expr.Expr, error) {
	if s.oracle == nil {
		return major, nil
	}
	info, ok := s.env.Find(induct)
	if !ok {
		return major, nil
	}
	ind, ok := info.(*env.InductiveVal)
	if !ok || !env.IsStructureLike(ind) || s.isConstructorApp(major) {
		return major, nil
	}
	majorType, err := s.inferWhnfType(ctx, major)
	if err != nil {
		return nil, err
	}
	head, ok := expr.GetAppFn(majorType).(*expr.Const)
	if !ok || head.Name != induct {
		return major, nil
	}
	sort, err := s.inferWhnfType(ctx, majorType)
	if err != nil {
		return nil, err
	}
	if srt, ok := sort.(*expr.Sort); ok && level.IsZero(srt.Level) {
		return major, nil
	}
	cinfo, ok := s.env.Find(ind.Ctors[0])
	if !ok {
		return major, nil
	}
	ctor, ok := cinfo.(*env.ConstructorVal)
	if !ok {
		return major, nil
	}
	params := expr.GetAppArgs(majorType)
	if ctor.NumParams > len(params) {
		return major, nil
	}
	res := expr.MkApp(expr.NewConst(ctor.Name, head.Levels...), params[:ctor.NumParams]...)
	for i := range ctor.NumFields {
		res = expr.NewApp(res, expr.NewProj(induct, i, major))
	}
	s.trace("eta struct", "type", induct)
	return res, nil
}

// projectCore takes field idx of a constructor application. Literals are
// exposed as constructors first.
func (s *Session) projectCore(c expr.Expr, p *expr.Proj) (expr.Expr, bool) {
	c = toCtorIfLit(c)
	name, ok := expr.ConstName(expr.GetAppFn(c))
	if !ok {
		return nil, false
	}
	info, ok := s.env.Find(name)
	if !ok {
		return nil, false
	}
	ctor, ok := info.(*env.ConstructorVal)
	if !ok || ctor.Induct != p.TypeName {
		return nil, false
	}
	args := expr.GetAppArgs(c)
	i := ctor.NumParams + p.Idx
	if p.Idx < 0 || p.Idx >= ctor.NumFields || i >= len(args) {
		return nil, false
	}
	return args[i], true
}
