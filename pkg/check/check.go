// Package check is a small type inferencer and definitional equality test
// built on the whnf engine. It is the reference Oracle: enough to drive
// the K rule and structure eta, not a full kernel.
package check

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/vito/redex/pkg/env"
	"github.com/vito/redex/pkg/expr"
	"github.com/vito/redex/pkg/level"
	"github.com/vito/redex/pkg/whnf"
)

// Checker infers types and decides definitional equality against a
// Session's environment and contexts.
type Checker struct {
	s    *whnf.Session
	next int
}

var _ whnf.Oracle = (*Checker)(nil)

// New creates a Checker for s and installs it as the session's oracle.
func New(s *whnf.Session) *Checker {
	c := &Checker{s: s}
	s.SetOracle(c)
	return c
}

// TypeError reports an ill-typed term.
type TypeError struct {
	Term expr.Expr
	Msg  string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("%s: %s", e.Msg, e.Term)
}

func typeErrorf(e expr.Expr, format string, args ...any) error {
	return errors.WithStack(&TypeError{Term: e, Msg: fmt.Sprintf(format, args...)})
}

// withBinder opens the body of a binder with a fresh local and runs fn on it.
func (c *Checker) withBinder(name expr.Name, ty expr.Expr, fn func(fv *expr.FVar) error) error {
	c.next++
	id := expr.FVarID(fmt.Sprintf("_check.%s.%d", name, c.next))
	lctx := c.s.LocalContext().MkLocalDecl(id, name, ty)
	return c.s.WithLocalContext(lctx, func() error {
		return fn(expr.NewFVar(id))
	})
}

// InferType computes the type of e.
func (c *Checker) InferType(ctx context.Context, e expr.Expr) (expr.Expr, error) {
	switch x := e.(type) {
	case *expr.BVar:
		return nil, typeErrorf(e, "loose bound variable")
	case *expr.FVar:
		decl, ok := c.s.LocalContext().Find(x.ID)
		if !ok {
			return nil, errors.WithStack(&whnf.UnknownFVarError{ID: x.ID})
		}
		return decl.Type, nil
	case *expr.MVar:
		decl, ok := c.s.MCtx().Decl(x.ID)
		if !ok {
			return nil, typeErrorf(e, "undeclared metavariable")
		}
		return decl.Type, nil
	case *expr.Sort:
		return expr.NewSort(level.Succ{Of: x.Level}), nil
	case *expr.Const:
		info, ok := c.s.Env().Find(x.Name)
		if !ok {
			return nil, errors.WithStack(&whnf.UnknownConstantError{Name: x.Name})
		}
		if len(info.Base().LevelParams) != len(x.Levels) {
			return nil, typeErrorf(e, "expected %d universe levels", len(info.Base().LevelParams))
		}
		return env.InstantiateTypeLevelParams(info, x.Levels), nil
	case *expr.App:
		return c.inferApp(ctx, x)
	case *expr.Lambda:
		var res expr.Expr
		err := c.withBinder(x.Name, x.Type, func(fv *expr.FVar) error {
			bodyType, err := c.InferType(ctx, expr.Instantiate1(x.Body, fv))
			if err != nil {
				return err
			}
			res = expr.NewPiInfo(x.Binder, x.Type, expr.Abstract(bodyType, fv))
			return nil
		})
		return res, err
	case *expr.Pi:
		dom, err := c.inferSort(ctx, x.Type)
		if err != nil {
			return nil, err
		}
		var res expr.Expr
		err = c.withBinder(x.Name, x.Type, func(fv *expr.FVar) error {
			cod, err := c.inferSort(ctx, expr.Instantiate1(x.Body, fv))
			if err != nil {
				return err
			}
			res = expr.NewSort(level.Normalize(level.IMax{LHS: dom, RHS: cod}))
			return nil
		})
		return res, err
	case *expr.Let:
		return c.InferType(ctx, expr.Instantiate1(x.Body, x.Value))
	case *expr.Lit:
		switch x.Value.(type) {
		case expr.NatVal:
			return expr.NewConst(whnf.NatName), nil
		case expr.StrVal:
			return expr.NewConst(whnf.StringName), nil
		}
	case *expr.Proj:
		return c.inferProj(ctx, x)
	}
	return nil, typeErrorf(e, "cannot infer type")
}

func (c *Checker) inferApp(ctx context.Context, e *expr.App) (expr.Expr, error) {
	f, args := expr.GetAppFnArgs(e)
	ty, err := c.InferType(ctx, f)
	if err != nil {
		return nil, err
	}
	for _, arg := range args {
		pi, err := c.ensurePi(ctx, ty)
		if err != nil {
			return nil, err
		}
		ty = expr.Instantiate1(pi.Body, arg)
	}
	return ty, nil
}

func (c *Checker) ensurePi(ctx context.Context, ty expr.Expr) (*expr.Pi, error) {
	if pi, ok := ty.(*expr.Pi); ok {
		return pi, nil
	}
	r, err := c.s.Whnf(ctx, ty)
	if err != nil {
		return nil, err
	}
	pi, ok := r.(*expr.Pi)
	if !ok {
		return nil, typeErrorf(ty, "function expected")
	}
	return pi, nil
}

// inferSort returns the universe of a type.
func (c *Checker) inferSort(ctx context.Context, ty expr.Expr) (level.Level, error) {
	s, err := c.InferType(ctx, ty)
	if err != nil {
		return nil, err
	}
	s, err = c.s.Whnf(ctx, s)
	if err != nil {
		return nil, err
	}
	srt, ok := s.(*expr.Sort)
	if !ok {
		return nil, typeErrorf(ty, "type expected")
	}
	return srt.Level, nil
}

func (c *Checker) inferProj(ctx context.Context, p *expr.Proj) (expr.Expr, error) {
	structType, err := c.InferType(ctx, p.Struct)
	if err != nil {
		return nil, err
	}
	structType, err = c.s.Whnf(ctx, structType)
	if err != nil {
		return nil, err
	}
	head, args := expr.GetAppFnArgs(structType)
	ind, ok := head.(*expr.Const)
	if !ok || ind.Name != p.TypeName {
		return nil, typeErrorf(p, "projection of a value not of type %s", p.TypeName)
	}
	info, ok := c.s.Env().Find(ind.Name)
	if !ok {
		return nil, errors.WithStack(&whnf.UnknownConstantError{Name: ind.Name})
	}
	indVal, ok := info.(*env.InductiveVal)
	if !ok || !env.IsStructureLike(indVal) {
		return nil, typeErrorf(p, "%s is not a structure", ind.Name)
	}
	ctorInfo, ok := c.s.Env().Find(indVal.Ctors[0])
	if !ok {
		return nil, errors.WithStack(&whnf.UnknownConstantError{Name: indVal.Ctors[0]})
	}
	ty := env.InstantiateTypeLevelParams(ctorInfo, ind.Levels)
	for i := range indVal.NumParams {
		pi, err := c.ensurePi(ctx, ty)
		if err != nil {
			return nil, err
		}
		ty = expr.Instantiate1(pi.Body, args[i])
	}
	for i := range p.Idx {
		pi, err := c.ensurePi(ctx, ty)
		if err != nil {
			return nil, err
		}
		ty = expr.Instantiate1(pi.Body, expr.NewProj(p.TypeName, i, p.Struct))
	}
	pi, err := c.ensurePi(ctx, ty)
	if err != nil {
		return nil, typeErrorf(p, "field index %d out of range", p.Idx)
	}
	return pi.Type, nil
}
