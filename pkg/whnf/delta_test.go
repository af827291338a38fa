package whnf_test

import (
	"context"

	"github.com/dagger/testctx"
	"github.com/stretchr/testify/require"

	"github.com/vito/redex/pkg/env"
	"github.com/vito/redex/pkg/expr"
	"github.com/vito/redex/pkg/level"
	"github.com/vito/redex/pkg/prelude"
	"github.com/vito/redex/pkg/whnf"
)

func (WhnfSuite) TestTransparency(ctx context.Context, t *testctx.T) {
	ident3 := app(cnst("Nat.ident"), lit(3))
	twoEq := prelude.EqRefl(level.One, natT, lit(2))
	inst := app(cnst("Inhabited.mk", level.One), natT, natZero)

	for _, example := range []struct {
		Name string
		Term expr.Expr
		Mode whnf.TransparencyMode
		Want expr.Expr
	}{
		{"reducible hidden from instances", ident3, whnf.TransparencyInstances, ident3},
		{"reducible under reducible", ident3, whnf.TransparencyReducible, lit(3)},
		{"regular hidden from reducible", cnst("Nat.two"), whnf.TransparencyReducible, cnst("Nat.two")},
		{"regular under default", cnst("Nat.two"), whnf.TransparencyDefault, lit(2)},
		{"irreducible hidden from default", cnst("Nat.secret"), whnf.TransparencyDefault, cnst("Nat.secret")},
		{"irreducible under all", cnst("Nat.secret"), whnf.TransparencyAll, lit(7)},
		{"theorem hidden from default", cnst("Nat.two_eq"), whnf.TransparencyDefault, cnst("Nat.two_eq")},
		{"theorem under all", cnst("Nat.two_eq"), whnf.TransparencyAll, twoEq},
		{"instance under instances", cnst("instInhabitedNat"), whnf.TransparencyInstances, inst},
		{"instance under default", cnst("instInhabitedNat"), whnf.TransparencyDefault, inst},
	} {
		t.Run(example.Name, func(ctx context.Context, t *testctx.T) {
			cfg := whnf.DefaultConfig()
			cfg.Transparency = example.Mode
			s := newSession(t, cfg)
			got, err := s.Whnf(ctx, example.Term)
			require.NoError(t, err)
			requireExpr(t, example.Want, got)
		})
	}
}

func (WhnfSuite) TestTransparencyHelpers(ctx context.Context, t *testctx.T) {
	s := newSession(t, whnf.DefaultConfig())
	ident3 := app(cnst("Nat.ident"), lit(3))

	got, err := s.WhnfI(ctx, ident3)
	require.NoError(t, err)
	requireExpr(t, ident3, got)
	require.Equal(t, whnf.TransparencyDefault, s.Transparency())

	got, err = s.WhnfR(ctx, ident3)
	require.NoError(t, err)
	requireExpr(t, lit(3), got)

	got, err = s.WhnfR(ctx, cnst("Nat.two"))
	require.NoError(t, err)
	requireExpr(t, cnst("Nat.two"), got)

	got, err = s.WhnfD(ctx, cnst("Nat.two"))
	require.NoError(t, err)
	requireExpr(t, lit(2), got)
	require.Equal(t, whnf.TransparencyDefault, s.Transparency())
}

func (WhnfSuite) TestParseTransparencyMode(ctx context.Context, t *testctx.T) {
	for _, mode := range []whnf.TransparencyMode{
		whnf.TransparencyInstances,
		whnf.TransparencyReducible,
		whnf.TransparencyDefault,
		whnf.TransparencyAll,
	} {
		parsed, err := whnf.ParseTransparencyMode(mode.String())
		require.NoError(t, err)
		require.Equal(t, mode, parsed)
	}
	_, err := whnf.ParseTransparencyMode("sometimes")
	require.Error(t, err)

	require.True(t, whnf.TransparencyAll.Allows(whnf.TransparencyDefault))
	require.True(t, whnf.TransparencyReducible.Allows(whnf.TransparencyInstances))
	require.False(t, whnf.TransparencyInstances.Allows(whnf.TransparencyReducible))
	require.False(t, whnf.TransparencyDefault.Allows(whnf.TransparencyAll))
}

func (WhnfSuite) TestUnfoldPolicy(ctx context.Context, t *testctx.T) {
	cfg := whnf.DefaultConfig()
	cfg.CanUnfold = func(mode whnf.TransparencyMode, e whnf.Environment, info env.ConstantInfo) bool {
		return info.Base().Name != "Nat.two" && mode.Allows(whnf.RequiredTransparency(e, info))
	}
	s := newSession(t, cfg)

	got, err := s.Whnf(ctx, cnst("Nat.two"))
	require.NoError(t, err)
	requireExpr(t, cnst("Nat.two"), got)

	got, err = s.Whnf(ctx, app(cnst("Nat.ident"), cnst("Nat.two")))
	require.NoError(t, err)
	requireExpr(t, cnst("Nat.two"), got)
}

func (WhnfSuite) TestSmartUnfolding(ctx context.Context, t *testctx.T) {
	t.Run("literal argument", func(ctx context.Context, t *testctx.T) {
		s := newSession(t, whnf.DefaultConfig())
		got, err := s.Whnf(ctx, app(cnst("Nat.double"), lit(3)))
		require.NoError(t, err)
		requireExpr(t, lit(6), got)
		require.Positive(t, s.Stats().SmartUnfolds)
	})

	t.Run("zero", func(ctx context.Context, t *testctx.T) {
		s := newSession(t, whnf.DefaultConfig())
		got, ok, err := s.UnfoldDefinition(ctx, app(cnst("Nat.double"), lit(0)))
		require.NoError(t, err)
		require.True(t, ok)
		requireExpr(t, natZero, got)
	})

	t.Run("stuck on a variable", func(ctx context.Context, t *testctx.T) {
		s := newSession(t, whnf.DefaultConfig(), withLocal("x", natT))
		e := app(cnst("Nat.double"), expr.NewFVar("x"))

		_, ok, err := s.UnfoldDefinition(ctx, e)
		require.NoError(t, err)
		require.False(t, ok)

		got, err := s.Whnf(ctx, e)
		require.NoError(t, err)
		requireExpr(t, e, got)
		require.Zero(t, s.Stats().SmartUnfolds)
	})

	t.Run("bare constant", func(ctx context.Context, t *testctx.T) {
		s := newSession(t, whnf.DefaultConfig())
		_, ok, err := s.UnfoldDefinition(ctx, cnst("Nat.double"))
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("disabled", func(ctx context.Context, t *testctx.T) {
		cfg := whnf.DefaultConfig()
		cfg.SmartUnfolding = false
		s := newSession(t, cfg)
		got, err := s.Whnf(ctx, app(cnst("Nat.double"), lit(3)))
		require.NoError(t, err)
		requireExpr(t, app(cnst("Nat.doubleImpl"), lit(3)), got)
	})
}

func (WhnfSuite) TestIdRhs(ctx context.Context, t *testctx.T) {
	s := newSession(t, whnf.DefaultConfig(), withLocal("x", natT))
	x := expr.NewFVar("x")
	add := func(a, b expr.Expr) expr.Expr { return app(cnst("Nat.add"), a, b) }

	got, ok, err := s.UnfoldDefinition(ctx, app(cnst("Nat.triple"), x))
	require.NoError(t, err)
	require.True(t, ok)
	requireExpr(t, add(x, add(x, x)), got)
}

func (WhnfSuite) TestAuxDefinitions(ctx context.Context, t *testctx.T) {
	s := newSession(t, whnf.DefaultConfig())
	require.True(t, s.IsAuxDef("Nat.casesOn"))
	require.False(t, s.IsAuxDef("Nat.add"))

	// casesOn is unfolded by structural reduction alone
	succCase := expr.NewLambda("n", natT, expr.NewBVar(0))
	got, err := s.WhnfCore(ctx, app(cnst("Nat.casesOn", level.One), natMotive, lit(8), lit(0), succCase))
	require.NoError(t, err)
	requireExpr(t, lit(7), got)

	// ordinary definitions are not
	add := app(cnst("Nat.add"), lit(1), lit(2))
	got, err = s.WhnfCore(ctx, add)
	require.NoError(t, err)
	requireExpr(t, add, got)

	t.Run("noConfusion", func(ctx context.Context, t *testctx.T) {
		b := prelude.Builder()
		b.Add(&env.DefinitionVal{
			ConstantVal: env.ConstantVal{Name: "Nat.confuse", Type: expr.Arrow(natT, natT)},
			Val:         expr.NewLambda("n", natT, app(natSucc, expr.NewBVar(0))),
		})
		b.MarkNoConfusion("Nat.confuse")
		e, err := b.Build()
		require.NoError(t, err)

		s := newSession(t, whnf.DefaultConfig(), withEnv(e))
		require.True(t, s.IsAuxDef("Nat.confuse"))
		got, err := s.WhnfCore(ctx, app(cnst("Nat.confuse"), lit(1)))
		require.NoError(t, err)
		requireExpr(t, app(natSucc, lit(1)), got)
	})
}

func (WhnfSuite) TestInstantiateValueLevelParams(ctx context.Context, t *testctx.T) {
	s := newSession(t, whnf.DefaultConfig())
	info, ok := s.Env().Find("idRhs")
	require.True(t, ok)

	val, ok := s.InstantiateValueLevelParams(info, []level.Level{level.One})
	require.True(t, ok)
	require.False(t, val.HasLevelParam())

	again, ok := s.InstantiateValueLevelParams(info, []level.Level{level.One})
	require.True(t, ok)
	require.Same(t, val, again)

	_, ok = s.InstantiateValueLevelParams(info, nil)
	require.False(t, ok)

	axiom, ok := s.Env().Find("Char")
	require.True(t, ok)
	_, ok = s.InstantiateValueLevelParams(axiom, nil)
	require.False(t, ok)
}
