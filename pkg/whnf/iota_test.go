package whnf_test

import (
	"context"

	"github.com/dagger/testctx"
	"github.com/stretchr/testify/require"

	"github.com/vito/redex/pkg/env"
	"github.com/vito/redex/pkg/expr"
	"github.com/vito/redex/pkg/level"
	"github.com/vito/redex/pkg/meta"
	"github.com/vito/redex/pkg/prelude"
	"github.com/vito/redex/pkg/whnf"
)

// natRec builds `Nat.rec (fun _ => Nat) z (fun n ih => Nat.succ ih) major`.
func natRec(z, major expr.Expr) expr.Expr {
	succCase := expr.NewLambda("n", natT, expr.NewLambda("ih", natT, app(natSucc, expr.NewBVar(0))))
	return app(cnst("Nat.rec", level.One), natMotive, z, succCase, major)
}

func (WhnfSuite) TestRecursor(ctx context.Context, t *testctx.T) {
	s := newSession(t, whnf.DefaultConfig())

	got, err := s.WhnfCore(ctx, natRec(lit(10), natZero))
	require.NoError(t, err)
	requireExpr(t, lit(10), got)

	got, err = s.WhnfCore(ctx, natRec(lit(10), lit(0)))
	require.NoError(t, err)
	requireExpr(t, lit(10), got)

	got, err = s.WhnfCore(ctx, natRec(lit(10), lit(3)))
	require.NoError(t, err)
	requireExpr(t, app(natSucc, natRec(lit(10), lit(2))), got)

	got, err = s.Whnf(ctx, natRec(lit(10), lit(3)))
	require.NoError(t, err)
	requireExpr(t, lit(13), got)

	got, err = s.Whnf(ctx, app(cnst("not"), boolTT))
	require.NoError(t, err)
	requireExpr(t, boolFF, got)

	t.Run("major reduced first", func(ctx context.Context, t *testctx.T) {
		s := newSession(t, whnf.DefaultConfig())
		got, err := s.WhnfCore(ctx, natRec(lit(10), cnst("Nat.two")))
		require.NoError(t, err)
		requireExpr(t, app(natSucc, natRec(lit(10), lit(1))), got)
	})

	t.Run("stuck on a variable", func(ctx context.Context, t *testctx.T) {
		s := newSession(t, whnf.DefaultConfig(), withLocal("x", natT))
		e := natRec(lit(10), expr.NewFVar("x"))
		got, err := s.Whnf(ctx, e)
		require.NoError(t, err)
		requireExpr(t, e, got)
	})

	t.Run("without literal arithmetic", func(ctx context.Context, t *testctx.T) {
		cfg := whnf.DefaultConfig()
		cfg.NatLiterals = false
		s := newSession(t, cfg)
		got, err := s.Whnf(ctx, app(cnst("Nat.add"), lit(2), lit(3)))
		require.NoError(t, err)
		require.True(t, expr.IsAppOf(got, "Nat.succ"), "got %s", got)
		require.Zero(t, s.Stats().LitReductions)
		require.Positive(t, s.Stats().Iotas)
	})
}

func (WhnfSuite) TestKRule(ctx context.Context, t *testctx.T) {
	eq := func(a, b expr.Expr) expr.Expr { return prelude.Eq(level.One, natT, a, b) }
	// fun b (h : 3 = b) => Nat
	motive := expr.NewLambda("b", natT, expr.NewLambda("h", eq(lit(3), expr.NewBVar(0)), natT))
	rec := func(b, h expr.Expr) expr.Expr {
		return app(cnst("Eq.rec", level.One, level.One), natT, lit(3), motive, lit(42), b, h)
	}
	h := expr.NewFVar("h")

	t.Run("refl type", func(ctx context.Context, t *testctx.T) {
		s := newSession(t, whnf.DefaultConfig(), withLocal("h", eq(lit(3), lit(3))))
		got, err := s.Whnf(ctx, rec(lit(3), h))
		require.NoError(t, err)
		requireExpr(t, lit(42), got)
	})

	t.Run("indices equal after reduction", func(ctx context.Context, t *testctx.T) {
		three := app(cnst("Nat.add"), lit(1), lit(2))
		s := newSession(t, whnf.DefaultConfig(), withLocal("h", eq(lit(3), three)))
		got, err := s.Whnf(ctx, rec(three, h))
		require.NoError(t, err)
		requireExpr(t, lit(42), got)
	})

	t.Run("indices differ", func(ctx context.Context, t *testctx.T) {
		s := newSession(t, whnf.DefaultConfig(), withLocal("h", eq(lit(3), lit(4))))
		e := rec(lit(4), h)
		got, err := s.Whnf(ctx, e)
		require.NoError(t, err)
		requireExpr(t, e, got)
	})

	t.Run("no oracle", func(ctx context.Context, t *testctx.T) {
		e, err := preludeEnv()
		require.NoError(t, err)
		lctx := meta.NewLocalContext().MkLocalDecl("h", "h", eq(lit(3), lit(3)))
		s := whnf.NewSession(whnf.Context{Env: e, LCtx: lctx, MCtx: meta.NewMetavarContext()})
		term := rec(lit(3), h)
		got, err := s.Whnf(ctx, term)
		require.NoError(t, err)
		requireExpr(t, term, got)
	})

	t.Run("explicit refl", func(ctx context.Context, t *testctx.T) {
		s := newSession(t, whnf.DefaultConfig())
		got, err := s.WhnfCore(ctx, rec(lit(3), prelude.EqRefl(level.One, natT, lit(3))))
		require.NoError(t, err)
		requireExpr(t, lit(42), got)
	})
}

func (WhnfSuite) TestStructureEta(ctx context.Context, t *testctx.T) {
	prodNat := prelude.Prod(level.Zero, level.Zero, natT, natT)
	// Prod.rec (fun _ => Nat) (fun a b => a) p
	fstOf := func(p expr.Expr) expr.Expr {
		motive := expr.NewLambda("_", prodNat, natT)
		minor := expr.NewLambda("a", natT, expr.NewLambda("b", natT, expr.NewBVar(1)))
		return app(cnst("Prod.rec", level.One, level.Zero, level.Zero), natT, natT, motive, minor, p)
	}
	p := expr.NewFVar("p")

	t.Run("variable", func(ctx context.Context, t *testctx.T) {
		s := newSession(t, whnf.DefaultConfig(), withLocal("p", prodNat))
		got, err := s.Whnf(ctx, fstOf(p))
		require.NoError(t, err)
		requireExpr(t, expr.NewProj("Prod", 0, p), got)
	})

	t.Run("constructor", func(ctx context.Context, t *testctx.T) {
		s := newSession(t, whnf.DefaultConfig())
		got, err := s.Whnf(ctx, fstOf(prelude.ProdMk(level.Zero, level.Zero, natT, natT, lit(1), lit(2))))
		require.NoError(t, err)
		requireExpr(t, lit(1), got)
	})

	t.Run("disabled", func(ctx context.Context, t *testctx.T) {
		cfg := whnf.DefaultConfig()
		cfg.EtaStruct = false
		s := newSession(t, cfg, withLocal("p", prodNat))
		got, err := s.Whnf(ctx, fstOf(p))
		require.NoError(t, err)
		requireExpr(t, fstOf(p), got)
	})
}

func (WhnfSuite) TestProjections(ctx context.Context, t *testctx.T) {
	pair := prelude.ProdMk(level.Zero, level.Zero, natT, natT, lit(1), app(cnst("Nat.add"), lit(1), lit(1)))

	s := newSession(t, whnf.DefaultConfig())
	got, err := s.Whnf(ctx, app(cnst("Prod.fst", level.Zero, level.Zero), natT, natT, pair))
	require.NoError(t, err)
	requireExpr(t, lit(1), got)

	got, err = s.Whnf(ctx, expr.NewProj("Prod", 1, pair))
	require.NoError(t, err)
	requireExpr(t, lit(2), got)
	require.Positive(t, s.Stats().Projections)

	// the structure is reduced before projecting
	got, err = s.WhnfCore(ctx, expr.NewProj("Inhabited", 0, cnst("instInhabitedNat")))
	require.NoError(t, err)
	requireExpr(t, natZero, got)

	t.Run("disabled", func(ctx context.Context, t *testctx.T) {
		cfg := whnf.DefaultConfig()
		cfg.Proj = false
		s := newSession(t, cfg)
		e := expr.NewProj("Prod", 0, pair)
		got, err := s.Whnf(ctx, e)
		require.NoError(t, err)
		requireExpr(t, e, got)
	})

	t.Run("wrong structure", func(ctx context.Context, t *testctx.T) {
		s := newSession(t, whnf.DefaultConfig())
		e := expr.NewProj("Inhabited", 0, pair)
		got, err := s.Whnf(ctx, e)
		require.NoError(t, err)
		requireExpr(t, e, got)
	})
}

func (WhnfSuite) TestQuot(ctx context.Context, t *testctx.T) {
	// fun a b => a = b
	rel := expr.NewLambda("a", natT, expr.NewLambda("b", natT,
		prelude.Eq(level.One, natT, expr.NewBVar(1), expr.NewBVar(0))))
	mk := func(a expr.Expr) expr.Expr {
		return app(cnst("Quot.mk", level.One), natT, rel, a)
	}
	quotT := app(cnst("Quot", level.One), natT, rel)
	h := expr.NewFVar("h")
	f := expr.NewFVar("f")

	t.Run("lift", func(ctx context.Context, t *testctx.T) {
		s := newSession(t, whnf.DefaultConfig(), withLocal("h", natT))
		e := app(cnst("Quot.lift", level.One, level.One), natT, rel, natT, natSucc, h, mk(lit(5)))
		got, err := s.WhnfCore(ctx, e)
		require.NoError(t, err)
		requireExpr(t, app(natSucc, lit(5)), got)
		require.Equal(t, 1, s.Stats().QuotReductions)

		got, err = s.Whnf(ctx, e)
		require.NoError(t, err)
		requireExpr(t, lit(6), got)
	})

	t.Run("ind", func(ctx context.Context, t *testctx.T) {
		motive := expr.NewLambda("q", quotT, prelude.Eq(level.One, natT, lit(0), lit(0)))
		s := newSession(t, whnf.DefaultConfig(), withLocal("f", natT))
		e := app(cnst("Quot.ind", level.One), natT, rel, motive, f, mk(lit(5)))
		got, err := s.WhnfCore(ctx, e)
		require.NoError(t, err)
		requireExpr(t, app(f, lit(5)), got)
	})

	t.Run("stuck", func(ctx context.Context, t *testctx.T) {
		s := newSession(t, whnf.DefaultConfig(), withLocal("h", natT), withLocal("q", quotT))
		e := app(cnst("Quot.lift", level.One, level.One), natT, rel, natT, natSucc, h, expr.NewFVar("q"))
		got, err := s.Whnf(ctx, e)
		require.NoError(t, err)
		requireExpr(t, e, got)
	})
}

func (WhnfSuite) TestStringLiterals(ctx context.Context, t *testctx.T) {
	s := newSession(t, whnf.DefaultConfig())
	got, err := s.Whnf(ctx, app(cnst("String.length"), expr.StrLit("héllo")))
	require.NoError(t, err)
	requireExpr(t, lit(5), got)

	got, err = s.Whnf(ctx, app(cnst("String.length"), expr.StrLit("")))
	require.NoError(t, err)
	requireExpr(t, natZero, got)
}

func (WhnfSuite) TestRecursorRuleMismatch(ctx context.Context, t *testctx.T) {
	// a recursor applied to a constructor of another type stays put
	s := newSession(t, whnf.DefaultConfig())
	e := natRec(lit(10), boolTT)
	got, err := s.WhnfCore(ctx, e)
	require.NoError(t, err)
	requireExpr(t, e, got)

	info, ok := s.Env().Find("Nat.rec")
	require.True(t, ok)
	rec, ok := info.(*env.RecursorVal)
	require.True(t, ok)
	require.Equal(t, 3, rec.MajorIdx())
}
