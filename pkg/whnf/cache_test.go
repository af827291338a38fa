package whnf_test

import (
	"context"

	"github.com/dagger/testctx"
	"github.com/stretchr/testify/require"

	"github.com/vito/redex/pkg/expr"
	"github.com/vito/redex/pkg/meta"
	"github.com/vito/redex/pkg/whnf"
)

func (WhnfSuite) TestCacheHit(ctx context.Context, t *testctx.T) {
	s := newSession(t, whnf.DefaultConfig())
	e := app(cnst("Nat.double"), lit(3))

	got, err := s.Whnf(ctx, e)
	require.NoError(t, err)
	requireExpr(t, lit(6), got)
	require.Positive(t, s.Stats().CacheMisses)

	s.ResetStats()
	got, err = s.Whnf(ctx, e)
	require.NoError(t, err)
	requireExpr(t, lit(6), got)
	require.Equal(t, 1, s.Stats().CacheHits)
	require.Zero(t, s.Stats().Unfolds)
	require.Zero(t, s.Stats().CacheMisses)
}

func (WhnfSuite) TestCacheIntermediates(ctx context.Context, t *testctx.T) {
	s := newSession(t, whnf.DefaultConfig())
	_, err := s.Whnf(ctx, app(cnst("Nat.ident"), cnst("Nat.two")))
	require.NoError(t, err)

	c := s.Cache()
	for _, e := range []expr.Expr{
		app(cnst("Nat.ident"), cnst("Nat.two")),
		cnst("Nat.two"),
	} {
		got, ok := c.Find(whnf.TransparencyDefault, e)
		require.True(t, ok, "not cached: %s", e)
		requireExpr(t, lit(2), got)
	}
}

func (WhnfSuite) TestCachePartitions(ctx context.Context, t *testctx.T) {
	s := newSession(t, whnf.DefaultConfig())

	_, err := s.WhnfD(ctx, cnst("Nat.two"))
	require.NoError(t, err)
	_, err = s.WhnfR(ctx, cnst("Nat.two"))
	require.NoError(t, err)

	got, ok := s.Cache().Find(whnf.TransparencyDefault, cnst("Nat.two"))
	require.True(t, ok)
	requireExpr(t, lit(2), got)

	got, ok = s.Cache().Find(whnf.TransparencyReducible, cnst("Nat.two"))
	require.True(t, ok)
	requireExpr(t, cnst("Nat.two"), got)

	t.Run("all is never cached", func(ctx context.Context, t *testctx.T) {
		s := newSession(t, whnf.DefaultConfig())
		err := s.WithTransparency(whnf.TransparencyAll, func() error {
			got, err := s.Whnf(ctx, cnst("Nat.secret"))
			if err != nil {
				return err
			}
			requireExpr(t, lit(7), got)
			return nil
		})
		require.NoError(t, err)
		require.Zero(t, s.Cache().Len(whnf.TransparencyAll))
		require.False(t, whnf.Cacheable(whnf.TransparencyAll, cnst("Nat.secret")))
	})

	t.Run("free variables are never cached", func(ctx context.Context, t *testctx.T) {
		s := newSession(t, whnf.DefaultConfig(), withLet("x", natT, lit(1)))
		e := app(cnst("Nat.succ"), expr.NewFVar("x"))
		got, err := s.Whnf(ctx, e)
		require.NoError(t, err)
		requireExpr(t, lit(2), got)

		_, ok := s.Cache().Find(whnf.TransparencyDefault, e)
		require.False(t, ok)
		require.False(t, whnf.Cacheable(whnf.TransparencyDefault, e))
	})
}

func (WhnfSuite) TestCacheSnapshots(ctx context.Context, t *testctx.T) {
	s := newSession(t, whnf.DefaultConfig())
	e := app(cnst("Nat.double"), lit(2))
	empty := s.Cache()

	_, err := s.Whnf(ctx, e)
	require.NoError(t, err)
	full := s.Cache()

	_, ok := empty.Find(whnf.TransparencyDefault, e)
	require.False(t, ok)
	_, ok = full.Find(whnf.TransparencyDefault, e)
	require.True(t, ok)
	require.Positive(t, full.Len(whnf.TransparencyDefault))

	s.RestoreCache(empty)
	s.ResetStats()
	_, err = s.Whnf(ctx, e)
	require.NoError(t, err)
	require.Zero(t, s.Stats().CacheHits)

	t.Run("seeded session", func(ctx context.Context, t *testctx.T) {
		env, err := preludeEnv()
		require.NoError(t, err)
		seeded := whnf.NewSession(whnf.Context{Env: env}, whnf.WithCache(full))
		got, err := seeded.Whnf(ctx, e)
		require.NoError(t, err)
		requireExpr(t, lit(4), got)
		require.Equal(t, 1, seeded.Stats().CacheHits)
	})
}

func (WhnfSuite) TestCacheReset(ctx context.Context, t *testctx.T) {
	s := newSession(t, whnf.DefaultConfig())
	_, err := s.Whnf(ctx, cnst("Nat.two"))
	require.NoError(t, err)
	require.Positive(t, s.Cache().Len(whnf.TransparencyDefault))

	// the same context keeps the cache
	s.SetMetavarContext(s.MCtx())
	require.Positive(t, s.Cache().Len(whnf.TransparencyDefault))

	s.SetMetavarContext(s.MCtx().AddDecl(&meta.MetavarDecl{ID: "m", Type: natT}))
	require.Zero(t, s.Cache().Len(whnf.TransparencyDefault))
}

func (WhnfSuite) TestCacheDisabled(ctx context.Context, t *testctx.T) {
	cfg := whnf.DefaultConfig()
	cfg.Cache = false
	s := newSession(t, cfg)
	e := app(cnst("Nat.double"), lit(3))

	for range 2 {
		got, err := s.Whnf(ctx, e)
		require.NoError(t, err)
		requireExpr(t, lit(6), got)
	}
	require.Zero(t, s.Stats().CacheHits)
	require.Zero(t, s.Cache().Len(whnf.TransparencyDefault))
}
