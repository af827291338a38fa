package whnf_test

import (
	"context"
	"math/big"

	"github.com/dagger/testctx"
	"github.com/stretchr/testify/require"

	"github.com/vito/redex/pkg/expr"
	"github.com/vito/redex/pkg/whnf"
)

func (WhnfSuite) TestLitOps(ctx context.Context, t *testctx.T) {
	op := func(name string, args ...expr.Expr) expr.Expr {
		return app(cnst(name), args...)
	}
	pow100 := new(big.Int).Lsh(big.NewInt(1), 100)

	for _, example := range []struct {
		Name string
		Term expr.Expr
		Want expr.Expr
	}{
		{"succ", op("Nat.succ", lit(41)), lit(42)},
		{"pred", op("Nat.pred", lit(5)), lit(4)},
		{"pred zero", op("Nat.pred", lit(0)), lit(0)},
		{"add", op("Nat.add", lit(2), lit(3)), lit(5)},
		{"sub", op("Nat.sub", lit(10), lit(4)), lit(6)},
		{"sub truncates", op("Nat.sub", lit(3), lit(5)), lit(0)},
		{"mul", op("Nat.mul", lit(6), lit(7)), lit(42)},
		{"div", op("Nat.div", lit(7), lit(2)), lit(3)},
		{"div by zero", op("Nat.div", lit(7), lit(0)), lit(0)},
		{"mod", op("Nat.mod", lit(7), lit(3)), lit(1)},
		{"mod by zero", op("Nat.mod", lit(7), lit(0)), lit(7)},
		{"gcd", op("Nat.gcd", lit(12), lit(18)), lit(6)},
		{"pow", op("Nat.pow", lit(2), lit(100)), expr.BigNatLit(pow100)},
		{"log2", op("Nat.log2", lit(1024)), lit(10)},
		{"log2 zero", op("Nat.log2", lit(0)), lit(0)},
		{"land", op("Nat.land", lit(12), lit(10)), lit(8)},
		{"lor", op("Nat.lor", lit(12), lit(10)), lit(14)},
		{"xor", op("Nat.xor", lit(12), lit(10)), lit(6)},
		{"shiftLeft", op("Nat.shiftLeft", lit(1), lit(10)), lit(1024)},
		{"shiftLeft wide", op("Nat.shiftLeft", lit(3), lit(100)), expr.BigNatLit(new(big.Int).Lsh(big.NewInt(3), 100))},
		{"shiftRight", op("Nat.shiftRight", lit(1024), lit(3)), lit(128)},
		{"beq", op("Nat.beq", lit(3), lit(3)), boolTT},
		{"beq zero constructor", op("Nat.beq", natZero, lit(0)), boolTT},
		{"ble", op("Nat.ble", lit(3), lit(2)), boolFF},
		{"blt", op("Nat.blt", lit(2), lit(3)), boolTT},
		{"not", op("not", boolTT), boolFF},
		{"and", op("and", boolTT, boolFF), boolFF},
		{"or", op("or", boolFF, boolTT), boolTT},
		{"bool xor", op("xor", boolTT, boolTT), boolFF},
		{"operands reduced", op("Nat.add", cnst("Nat.two"), op("Nat.mul", lit(2), lit(2))), lit(6)},
		{"nested succ", op("Nat.succ", op("Nat.succ", natZero)), lit(2)},
	} {
		t.Run(example.Name, func(ctx context.Context, t *testctx.T) {
			s := newSession(t, whnf.DefaultConfig())
			got, err := s.Whnf(ctx, example.Term)
			require.NoError(t, err)
			requireExpr(t, example.Want, got)
			require.Positive(t, s.Stats().LitReductions)
		})
	}
}

func (WhnfSuite) TestLitOpsPartial(ctx context.Context, t *testctx.T) {
	s := newSession(t, whnf.DefaultConfig(), withLocal("x", natT))
	x := expr.NewFVar("x")

	// a symbolic operand falls back to the definition
	got, err := s.Whnf(ctx, app(cnst("Nat.add"), x, lit(1)))
	require.NoError(t, err)
	require.True(t, expr.IsAppOf(got, "Nat.succ"), "got %s", got)

	// partial applications are not evaluated
	partial := app(cnst("Nat.div"), lit(4))
	got, err = s.Whnf(ctx, partial)
	require.NoError(t, err)
	requireExpr(t, partial, got)

	// huge exponents and shifts are declined
	ops := whnf.DefaultLitOps()
	two64 := new(big.Int).Lsh(big.NewInt(1), 64)
	for _, name := range []expr.Name{"Nat.pow", "Nat.shiftLeft"} {
		op := ops[name]
		require.Nil(t, op.Nat([]*big.Int{big.NewInt(2), big.NewInt(1<<24 + 1)}), name)
		require.Nil(t, op.Nat([]*big.Int{big.NewInt(2), big.NewInt(1 << 32)}), name)
		require.Nil(t, op.Nat([]*big.Int{big.NewInt(2), two64}), name)
		require.NotNil(t, op.Nat([]*big.Int{big.NewInt(2), big.NewInt(1 << 10)}), name)
	}

	// a declined shift is left alone rather than truncated
	shl := app(cnst("Nat.shiftLeft"), lit(1), expr.BigNatLit(two64))
	got, err = s.Whnf(ctx, shl)
	require.NoError(t, err)
	requireExpr(t, shl, got)
}

func (WhnfSuite) TestLitOpsDisabled(ctx context.Context, t *testctx.T) {
	t.Run("single op", func(ctx context.Context, t *testctx.T) {
		cfg := whnf.DefaultConfig()
		cfg.LitOps = cfg.LitOps.Without("Nat.div")
		require.NotContains(t, cfg.LitOps.Names(), expr.Name("Nat.div"))
		require.Contains(t, cfg.LitOps.Names(), expr.Name("Nat.mod"))

		s := newSession(t, cfg)
		div := app(cnst("Nat.div"), lit(7), lit(2))
		got, err := s.Whnf(ctx, div)
		require.NoError(t, err)
		requireExpr(t, div, got)

		got, err = s.Whnf(ctx, app(cnst("Nat.mod"), lit(7), lit(2)))
		require.NoError(t, err)
		requireExpr(t, lit(1), got)
	})

	t.Run("all", func(ctx context.Context, t *testctx.T) {
		cfg := whnf.DefaultConfig()
		cfg.NatLiterals = false
		s := newSession(t, cfg)
		div := app(cnst("Nat.div"), lit(7), lit(2))
		got, err := s.Whnf(ctx, div)
		require.NoError(t, err)
		requireExpr(t, div, got)
		require.Zero(t, s.Stats().LitReductions)
	})
}

func (WhnfSuite) TestNative(ctx context.Context, t *testctx.T) {
	reduceBool := func(c string) expr.Expr { return app(cnst("Lean.reduceBool"), cnst(c)) }
	reduceNat := func(c string) expr.Expr { return app(cnst("Lean.reduceNat"), cnst(c)) }

	t.Run("bool", func(ctx context.Context, t *testctx.T) {
		s := newSession(t, whnf.DefaultConfig())
		got, err := s.Whnf(ctx, reduceBool("Native.isEven"))
		require.NoError(t, err)
		requireExpr(t, boolTT, got)
		require.Equal(t, 1, s.Stats().NativeCalls)
		require.Zero(t, s.Stats().Unfolds)
	})

	t.Run("nat", func(ctx context.Context, t *testctx.T) {
		s := newSession(t, whnf.DefaultConfig())
		got, err := s.Whnf(ctx, reduceNat("Native.answer"))
		require.NoError(t, err)
		requireExpr(t, lit(42), got)
		require.Equal(t, 1, s.Stats().NativeCalls)
	})

	t.Run("failure falls back to unfolding", func(ctx context.Context, t *testctx.T) {
		s := newSession(t, whnf.DefaultConfig())
		got, err := s.Whnf(ctx, reduceNat("Native.broken"))
		require.NoError(t, err)
		requireExpr(t, lit(5), got)
		require.Zero(t, s.Stats().NativeCalls)
	})

	t.Run("type mismatch falls back", func(ctx context.Context, t *testctx.T) {
		s := newSession(t, whnf.DefaultConfig())
		got, err := s.Whnf(ctx, reduceNat("Native.isEven"))
		require.NoError(t, err)
		requireExpr(t, boolTT, got)
		require.Zero(t, s.Stats().NativeCalls)
	})

	t.Run("disabled", func(ctx context.Context, t *testctx.T) {
		cfg := whnf.DefaultConfig()
		cfg.Native = false
		s := newSession(t, cfg)
		got, err := s.Whnf(ctx, reduceBool("Native.isEven"))
		require.NoError(t, err)
		requireExpr(t, boolTT, got)
		require.Zero(t, s.Stats().NativeCalls)
		require.Positive(t, s.Stats().LitReductions)
	})
}
