package meta_test

import (
	"context"
	"os"
	"testing"

	"github.com/dagger/testctx"
	"github.com/dagger/testctx/oteltest"
	"github.com/stretchr/testify/require"

	"github.com/vito/redex/pkg/expr"
	"github.com/vito/redex/pkg/level"
	"github.com/vito/redex/pkg/meta"
)

func TestMain(m *testing.M) {
	os.Exit(oteltest.Main(m))
}

type MetaSuite struct{}

func TestMeta(tT *testing.T) {
	testctx.New(tT,
		oteltest.WithTracing[*testing.T](),
		oteltest.WithLogging[*testing.T](),
	).RunTests(MetaSuite{})
}

var natT = expr.NewConst("Nat")

func requireExpr(t *testctx.T, want, got expr.Expr) {
	t.Helper()
	require.True(t, expr.Equal(want, got), "want: %s\n got: %s", want, got)
}

func (MetaSuite) TestLocalContext(ctx context.Context, t *testctx.T) {
	empty := meta.NewLocalContext()
	lctx := empty.
		MkLocalDecl("x", "x", natT).
		MkLetDecl("y", "y", natT, expr.NatLit(3))

	require.Zero(t, empty.Len())
	require.False(t, empty.Contains("x"))
	require.Equal(t, 2, lctx.Len())

	x, ok := lctx.Find("x")
	require.True(t, ok)
	require.False(t, x.IsLet())
	require.Equal(t, expr.FVarID("x"), x.ToExpr().ID)

	y, ok := lctx.Find("y")
	require.True(t, ok)
	require.True(t, y.IsLet())
	requireExpr(t, expr.NatLit(3), y.Value)

	var order []expr.FVarID
	for _, d := range lctx.Decls() {
		order = append(order, d.FVarID)
	}
	require.Equal(t, []expr.FVarID{"x", "y"}, order)

	var nilCtx *meta.LocalContext
	require.Zero(t, nilCtx.Len())
	_, ok = nilCtx.Find("x")
	require.False(t, ok)
	require.Equal(t, 1, nilCtx.MkLocalDecl("z", "z", natT).Len())
}

func (MetaSuite) TestMetavarContext(ctx context.Context, t *testctx.T) {
	base := meta.NewMetavarContext().AddDecl(&meta.MetavarDecl{ID: "m", Type: natT})
	assigned := base.Assign("m", expr.NatLit(1))

	_, ok := base.Decl("m")
	require.True(t, ok)
	require.False(t, base.IsAssigned("m"))
	require.True(t, assigned.IsAssigned("m"))
	require.Equal(t, 1, assigned.NumAssignments())
	require.Zero(t, base.NumAssignments())

	lvl := assigned.AssignLevel("u", level.One)
	l, ok := lvl.LevelAssignment("u")
	require.True(t, ok)
	require.True(t, l.Eq(level.One))
	_, ok = assigned.LevelAssignment("u")
	require.False(t, ok)
}

func (MetaSuite) TestInstantiateMVars(ctx context.Context, t *testctx.T) {
	succ := expr.NewConst("Nat.succ")
	mctx := meta.NewMetavarContext().
		Assign("a", expr.NewApp(succ, expr.NewMVar("b"))).
		Assign("b", expr.NatLit(0)).
		Assign("f", expr.NewLambda("x", natT, expr.NewApp(succ, expr.NewBVar(0)))).
		AssignLevel("u", level.Succ{Of: level.MVar("v")}).
		AssignLevel("v", level.Zero)

	t.Run("transitive", func(ctx context.Context, t *testctx.T) {
		got := mctx.InstantiateMVars(expr.NewMVar("a"))
		requireExpr(t, expr.NewApp(succ, expr.NatLit(0)), got)
	})

	t.Run("head beta", func(ctx context.Context, t *testctx.T) {
		got := mctx.InstantiateMVars(expr.NewApp(expr.NewMVar("f"), expr.NewMVar("b")))
		requireExpr(t, expr.NewApp(succ, expr.NatLit(0)), got)
	})

	t.Run("levels", func(ctx context.Context, t *testctx.T) {
		got := mctx.InstantiateMVars(expr.NewSort(level.MVar("u")))
		requireExpr(t, expr.NewSort(level.One), got)

		got = mctx.InstantiateMVars(expr.NewConst("List", level.MVar("u")))
		requireExpr(t, expr.NewConst("List", level.One), got)
	})

	t.Run("unassigned keeps identity", func(ctx context.Context, t *testctx.T) {
		for _, e := range []expr.Expr{
			expr.NewApp(expr.NewMVar("g"), expr.NatLit(1)),
			expr.NewSort(level.MVar("w")),
			expr.NewConst("List", level.MVar("w")),
			expr.NewApp(succ, natT),
		} {
			require.Same(t, e, mctx.InstantiateMVars(e))
		}
	})

	t.Run("has assigned", func(ctx context.Context, t *testctx.T) {
		require.True(t, mctx.HasAssignedMVar(expr.NewApp(succ, expr.NewMVar("a"))))
		require.False(t, mctx.HasAssignedMVar(expr.NewApp(succ, expr.NewMVar("g"))))
		require.False(t, mctx.HasAssignedMVar(natT))
	})
}
