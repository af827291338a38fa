package whnf

import (
	"context"
	"fmt"
	"math/big"

	"github.com/vito/redex/pkg/expr"
)

// natLitValue reads a Nat literal, treating Nat.zero as 0.
func natLitValue(e expr.Expr) (*big.Int, bool) {
	if v, ok := expr.NatValue(e); ok {
		return v, true
	}
	if expr.IsConstOf(e, NatZero) {
		return new(big.Int), true
	}
	return nil, false
}

func boolLitValue(e expr.Expr) (bool, bool) {
	switch {
	case expr.IsConstOf(e, BoolTrue):
		return true, true
	case expr.IsConstOf(e, BoolFalse):
		return false, true
	}
	return false, false
}

// reduceLit evaluates a primitive from LitOps when all of its operands
// reduce to literals.
func (s *Session) reduceLit(ctx context.Context, e expr.Expr) (expr.Expr, bool, error) {
	if !s.cfg.NatLiterals {
		return nil, false, nil
	}
	app, ok := e.(*expr.App)
	if !ok {
		return nil, false, nil
	}
	fn, args := expr.GetAppFnArgs(app)
	c, ok := fn.(*expr.Const)
	if !ok {
		return nil, false, nil
	}
	op, ok := s.cfg.LitOps[c.Name]
	if !ok || op.Arity != len(args) {
		return nil, false, nil
	}
	var res expr.Expr
	switch op.Domain {
	case NatDomain:
		vals := make([]*big.Int, len(args))
		for i, a := range args {
			a, err := s.Whnf(ctx, a)
			if err != nil {
				return nil, false, err
			}
			v, ok := natLitValue(a)
			if !ok {
				return nil, false, nil
			}
			vals[i] = v
		}
		res = op.Nat(vals)
	case BoolDomain:
		vals := make([]bool, len(args))
		for i, a := range args {
			a, err := s.Whnf(ctx, a)
			if err != nil {
				return nil, false, err
			}
			v, ok := boolLitValue(a)
			if !ok {
				return nil, false, nil
			}
			vals[i] = v
		}
		res = op.Bool(vals)
	default:
		return nil, false, nil
	}
	if res == nil {
		return nil, false, nil
	}
	s.trace("literal", "op", c.Name, "result", res.String())
	s.record(StepLit, e)
	return res, true, nil
}

// reduceNative evaluates `R c` for a native reducer R (Lean.reduceBool,
// Lean.reduceNat) by running the compiled implementation of c. Any
// failure leaves the term to ordinary reduction.
func (s *Session) reduceNative(e expr.Expr) (expr.Expr, bool) {
	if !s.cfg.Native {
		return nil, false
	}
	app, ok := e.(*expr.App)
	if !ok {
		return nil, false
	}
	fn, ok := app.Fn.(*expr.Const)
	if !ok {
		return nil, false
	}
	ty, ok := s.cfg.NativeReducers[fn.Name]
	if !ok {
		return nil, false
	}
	arg, ok := app.Arg.(*expr.Const)
	if !ok {
		return nil, false
	}
	v, err := s.env.EvalConstCheck(arg.Name, ty)
	if err != nil {
		s.trace("native evaluation failed", "const", arg.Name, "error", err)
		return nil, false
	}
	res, err := nativeToExpr(v)
	if err != nil {
		s.trace("native evaluation failed", "const", arg.Name, "error", err)
		return nil, false
	}
	s.record(StepNative, e)
	return res, true
}

func nativeToExpr(v any) (expr.Expr, error) {
	switch v := v.(type) {
	case bool:
		return ToBoolExpr(v), nil
	case uint64:
		return expr.NatLit(v), nil
	case *big.Int:
		if v.Sign() < 0 {
			return nil, fmt.Errorf("negative natural %s", v)
		}
		return expr.BigNatLit(v), nil
	case string:
		return expr.StrLit(v), nil
	}
	return nil, fmt.Errorf("unsupported native value %T", v)
}
