package whnf_test

import (
	"context"

	"github.com/dagger/testctx"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/vito/redex/pkg/expr"
	"github.com/vito/redex/pkg/level"
	"github.com/vito/redex/pkg/meta"
	"github.com/vito/redex/pkg/prelude"
	"github.com/vito/redex/pkg/whnf"
)

func (WhnfSuite) TestGetStuckMVar(ctx context.Context, t *testctx.T) {
	inhNat := app(cnst("Inhabited", level.One), natT)
	prodNat := app(cnst("Prod", level.Zero, level.Zero), natT, natT)
	rel := expr.NewLambda("a", natT, expr.NewLambda("b", natT, boolT))
	quotT := app(cnst("Quot", level.One), natT, rel)
	m := func(id string) expr.Expr { return expr.NewMVar(expr.MVarID(id)) }
	eq33 := prelude.Eq(level.One, natT, lit(3), lit(3))
	eqMotive := expr.NewLambda("b", natT, expr.NewLambda("h", prelude.Eq(level.One, natT, lit(3), expr.NewBVar(0)), natT))
	eqRec := app(cnst("Eq.rec", level.One, level.One), natT, lit(3), eqMotive, lit(42), lit(3), m("h"))
	// fun x => x, applied to the instance metavariable
	viaBeta := app(expr.NewLambda("x", inhNat, expr.NewBVar(0)), m("inst"))

	for _, example := range []struct {
		Name  string
		Term  expr.Expr
		Stuck expr.MVarID
	}{
		{"bare", m("n"), "n"},
		{"recursor major", natRec(lit(10), m("n")), "n"},
		{"application head", app(m("f"), lit(3)), "f"},
		{"class projection", app(cnst("Inhabited.default", level.One), natT, m("inst")), "inst"},
		{"class projection reduced", app(cnst("Inhabited.default", level.One), natT, viaBeta), "inst"},
		{"K recursor", eqRec, ""},
		{"quotient major", app(cnst("Quot.lift", level.One, level.One), natT, rel, natT, natSucc, natZero, m("q")), "q"},
		{"primitive projection", expr.NewProj("Prod", 0, m("p")), "p"},
		{"nested", app(cnst("Nat.add"), natRec(lit(10), m("n")), lit(1)), ""},
		{"constructor", app(natSucc, m("n")), ""},
		{"closed", app(cnst("Nat.add"), lit(1), lit(2)), ""},
	} {
		t.Run(example.Name, func(ctx context.Context, t *testctx.T) {
			s := newSession(t, whnf.DefaultConfig(),
				withMVar("n", natT),
				withMVar("f", expr.Arrow(natT, natT)),
				withMVar("inst", inhNat),
				withMVar("q", quotT),
				withMVar("p", prodNat),
				withMVar("h", eq33),
			)
			id, ok, err := s.GetStuckMVar(ctx, example.Term)
			require.NoError(t, err)
			require.Equal(t, example.Stuck != "", ok)
			require.Equal(t, example.Stuck, id)
		})
	}

	t.Run("K recursor reduces instead", func(ctx context.Context, t *testctx.T) {
		s := newSession(t, whnf.DefaultConfig(), withMVar("h", eq33))
		got, err := s.Whnf(ctx, eqRec)
		require.NoError(t, err)
		requireExpr(t, lit(42), got)
	})

	t.Run("through an assignment", func(ctx context.Context, t *testctx.T) {
		s := newSession(t, whnf.DefaultConfig(), withMVar("a", natT), withMVar("b", natT))
		s.SetMetavarContext(s.MCtx().Assign("a", expr.NewMVar("b")))
		id, ok, err := s.GetStuckMVar(ctx, natRec(lit(10), expr.NewMVar("a")))
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, expr.MVarID("b"), id)
	})
}

type instSynth struct {
	inst   expr.Expr
	called []expr.MVarID
}

func (s *instSynth) SynthPending(ctx context.Context, id expr.MVarID, mctx *meta.MetavarContext) (*meta.MetavarContext, bool, error) {
	s.called = append(s.called, id)
	if s.inst == nil {
		return mctx, false, nil
	}
	return mctx.Assign(id, s.inst), true, nil
}

func (WhnfSuite) TestUnstuckMVar(ctx context.Context, t *testctx.T) {
	inhNat := app(cnst("Inhabited", level.One), natT)
	e := app(cnst("Inhabited.default", level.One), natT, expr.NewMVar("inst"))

	t.Run("synthesized", func(ctx context.Context, t *testctx.T) {
		s := newSession(t, whnf.DefaultConfig(), withMVar("inst", inhNat))
		stuck, err := s.Whnf(ctx, e)
		require.NoError(t, err)
		requireExpr(t, expr.NewProj("Inhabited", 0, expr.NewMVar("inst")), stuck)

		synth := &instSynth{inst: cnst("instInhabitedNat")}
		next, ok, err := s.UnstuckMVar(ctx, e, synth)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, []expr.MVarID{"inst"}, synth.called)
		requireExpr(t, app(cnst("Inhabited.default", level.One), natT, cnst("instInhabitedNat")), next)
		require.True(t, s.MCtx().IsAssigned("inst"))

		got, err := s.Whnf(ctx, next)
		require.NoError(t, err)
		requireExpr(t, natZero, got)
	})

	t.Run("declined", func(ctx context.Context, t *testctx.T) {
		s := newSession(t, whnf.DefaultConfig(), withMVar("inst", inhNat))
		synth := &instSynth{}
		next, ok, err := s.UnstuckMVar(ctx, e, synth)
		require.NoError(t, err)
		require.False(t, ok)
		requireExpr(t, e, next)
		require.Equal(t, []expr.MVarID{"inst"}, synth.called)
	})

	t.Run("not stuck", func(ctx context.Context, t *testctx.T) {
		s := newSession(t, whnf.DefaultConfig())
		synth := &instSynth{inst: cnst("instInhabitedNat")}
		closed := app(cnst("Nat.add"), lit(1), lit(2))
		next, ok, err := s.UnstuckMVar(ctx, closed, synth)
		require.NoError(t, err)
		require.False(t, ok)
		requireExpr(t, closed, next)
		require.Empty(t, synth.called)
	})
}

func (WhnfSuite) TestWhnfUntil(ctx context.Context, t *testctx.T) {
	s := newSession(t, whnf.DefaultConfig())

	got, ok, err := s.WhnfUntil(ctx, app(cnst("Nat.double"), lit(3)), "Nat.succ")
	require.NoError(t, err)
	require.True(t, ok)
	requireExpr(t, app(natSucc, app(natSucc, app(cnst("Nat.double"), lit(2)))), got)

	_, ok, err = s.WhnfUntil(ctx, cnst("Nat.two"), "Nat.succ")
	require.NoError(t, err)
	require.False(t, ok)

	// already there
	e := app(cnst("Nat.add"), lit(1), lit(1))
	got, ok, err = s.WhnfUntil(ctx, e, "Nat.add")
	require.NoError(t, err)
	require.True(t, ok)
	requireExpr(t, e, got)
}

func (WhnfSuite) TestWhnfHeadPred(ctx context.Context, t *testctx.T) {
	s := newSession(t, whnf.DefaultConfig())

	var seen []expr.Expr
	got, err := s.WhnfHeadPred(ctx, app(cnst("Nat.ident"), cnst("Nat.two")), func(e expr.Expr) (bool, error) {
		seen = append(seen, e)
		return true, nil
	})
	require.NoError(t, err)
	requireExpr(t, lit(2), got)
	require.Len(t, seen, 2)

	boom := errors.New("boom")
	_, err = s.WhnfHeadPred(ctx, cnst("Nat.two"), func(expr.Expr) (bool, error) {
		return false, boom
	})
	require.ErrorIs(t, err, boom)
}
