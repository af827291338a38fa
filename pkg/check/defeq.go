package check

import (
	"context"
	"math/big"

	"github.com/vito/redex/pkg/expr"
	"github.com/vito/redex/pkg/level"
	"github.com/vito/redex/pkg/whnf"
)

// IsDefEq decides whether a and b are definitionally equal by comparing
// their weak head normal forms structurally, with lambda eta and the
// literal/constructor correspondence for Nat.
func (c *Checker) IsDefEq(ctx context.Context, a, b expr.Expr) (bool, error) {
	if expr.Equal(a, b) {
		return true, nil
	}
	a, err := c.s.Whnf(ctx, a)
	if err != nil {
		return false, err
	}
	b, err = c.s.Whnf(ctx, b)
	if err != nil {
		return false, err
	}
	if expr.Equal(a, b) {
		return true, nil
	}
	return c.isDefEqWhnf(ctx, a, b)
}

func (c *Checker) isDefEqWhnf(ctx context.Context, a, b expr.Expr) (bool, error) {
	if la, ok := a.(*expr.Lambda); ok {
		if lb, ok := b.(*expr.Lambda); ok {
			return c.isDefEqBinding(ctx, la.Name, la.Type, lb.Type, la.Body, lb.Body)
		}
		return c.isDefEqEta(ctx, la, b)
	}
	if lb, ok := b.(*expr.Lambda); ok {
		return c.isDefEqEta(ctx, lb, a)
	}
	if na, ok := natOf(a); ok {
		if nb, ok := natOf(b); ok {
			return na.Cmp(nb) == 0, nil
		}
		if expr.IsAppOf(b, whnf.NatSucc) && na.Sign() > 0 {
			return c.IsDefEq(ctx, expr.BigNatLit(new(big.Int).Sub(na, big.NewInt(1))), b.(*expr.App).Arg)
		}
		return false, nil
	}
	if _, ok := natOf(b); ok {
		return c.isDefEqWhnf(ctx, b, a)
	}
	switch x := a.(type) {
	case *expr.Sort:
		y, ok := b.(*expr.Sort)
		return ok && level.IsEquiv(x.Level, y.Level), nil
	case *expr.Const:
		y, ok := b.(*expr.Const)
		return ok && x.Name == y.Name && level.IsEquivAll(x.Levels, y.Levels), nil
	case *expr.FVar:
		y, ok := b.(*expr.FVar)
		return ok && x.ID == y.ID, nil
	case *expr.MVar:
		y, ok := b.(*expr.MVar)
		return ok && x.ID == y.ID, nil
	case *expr.Lit:
		y, ok := b.(*expr.Lit)
		return ok && x.Value.Eq(y.Value), nil
	case *expr.Pi:
		y, ok := b.(*expr.Pi)
		if !ok {
			return false, nil
		}
		return c.isDefEqBinding(ctx, x.Name, x.Type, y.Type, x.Body, y.Body)
	case *expr.Proj:
		y, ok := b.(*expr.Proj)
		if !ok || x.Idx != y.Idx || x.TypeName != y.TypeName {
			return false, nil
		}
		return c.IsDefEq(ctx, x.Struct, y.Struct)
	case *expr.App:
		y, ok := b.(*expr.App)
		if !ok {
			return false, nil
		}
		fa, argsA := expr.GetAppFnArgs(x)
		fb, argsB := expr.GetAppFnArgs(y)
		if len(argsA) != len(argsB) {
			return false, nil
		}
		eq, err := c.IsDefEq(ctx, fa, fb)
		if err != nil || !eq {
			return false, err
		}
		for i := range argsA {
			eq, err := c.IsDefEq(ctx, argsA[i], argsB[i])
			if err != nil || !eq {
				return false, err
			}
		}
		return true, nil
	}
	return false, nil
}

func (c *Checker) isDefEqBinding(ctx context.Context, name expr.Name, tyA, tyB, bodyA, bodyB expr.Expr) (bool, error) {
	eq, err := c.IsDefEq(ctx, tyA, tyB)
	if err != nil || !eq {
		return false, err
	}
	err = c.withBinder(name, tyA, func(fv *expr.FVar) error {
		eq, err = c.IsDefEq(ctx, expr.Instantiate1(bodyA, fv), expr.Instantiate1(bodyB, fv))
		return err
	})
	return eq, err
}

// isDefEqEta compares `fun x => b` with f by expanding f to `fun x => f x`.
func (c *Checker) isDefEqEta(ctx context.Context, lam *expr.Lambda, f expr.Expr) (bool, error) {
	expanded := expr.NewLambdaInfo(lam.Binder, lam.Type, expr.NewApp(expr.LiftLooseBVars(f, 0, 1), expr.NewBVar(0)))
	return c.isDefEqBinding(ctx, lam.Name, lam.Type, lam.Type, lam.Body, expanded.Body)
}

func natOf(e expr.Expr) (*big.Int, bool) {
	if v, ok := expr.NatValue(e); ok {
		return v, true
	}
	if expr.IsConstOf(e, whnf.NatZero) {
		return new(big.Int), true
	}
	return nil, false
}
