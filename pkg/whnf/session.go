package whnf

import (
	"context"
	"log/slog"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/vito/redex/pkg/env"
	"github.com/vito/redex/pkg/expr"
	"github.com/vito/redex/pkg/level"
	"github.com/vito/redex/pkg/meta"
)

// Environment is the read-only view of the declaration table the engine
// needs. *env.Environment implements it.
type Environment interface {
	Find(name expr.Name) (env.ConstantInfo, bool)
	ReducibilityStatus(name expr.Name) env.ReducibilityStatus
	IsInstance(name expr.Name) bool
	IsAuxRecursor(name expr.Name) bool
	IsNoConfusion(name expr.Name) bool
	ProjectionInfo(name expr.Name) (env.ProjectionInfo, bool)
	EvalConstCheck(name, expectedType expr.Name) (env.NativeValue, error)
}

var _ Environment = (*env.Environment)(nil)

// Oracle supplies type inference and definitional equality. The engine
// only consults it for the K rule and structure eta; without one, both
// are skipped.
type Oracle interface {
	InferType(ctx context.Context, e expr.Expr) (expr.Expr, error)
	IsDefEq(ctx context.Context, a, b expr.Expr) (bool, error)
}

// PendingSynthesizer tries to assign a metavariable that blocks reduction,
// e.g. a pending instance problem. It returns the updated context and
// whether it made progress.
type PendingSynthesizer interface {
	SynthPending(ctx context.Context, id expr.MVarID, mctx *meta.MetavarContext) (*meta.MetavarContext, bool, error)
}

// Context is what a Session reduces against.
type Context struct {
	Env  Environment
	LCtx *meta.LocalContext
	MCtx *meta.MetavarContext
}

// Session carries one reduction context and its cache. A Session is not
// safe for concurrent use; run independent sessions instead.
type Session struct {
	env  Environment
	lctx *meta.LocalContext
	mctx *meta.MetavarContext

	cfg      Config
	cache    Cache
	oracle   Oracle
	observer Observer
	stats    Stats
	log      *slog.Logger

	insts *lru.Cache[instKey, instEntry]
}

type instKey struct {
	name   expr.Name
	levels uint64
}

type instEntry struct {
	levels []level.Level
	value  expr.Expr
}

// Option configures a Session.
type Option func(*Session)

// WithConfig replaces DefaultConfig.
func WithConfig(cfg Config) Option {
	return func(s *Session) {
		s.cfg = cfg
	}
}

// WithOracle installs the type oracle used for the K rule and structure eta.
func WithOracle(o Oracle) Option {
	return func(s *Session) {
		s.oracle = o
	}
}

// WithLogger sets the logger used for trace output.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		s.log = l
	}
}

// WithObserver registers a callback invoked after every reduction step.
func WithObserver(o Observer) Option {
	return func(s *Session) {
		s.observer = o
	}
}

// WithCache seeds the session with a previously captured cache.
func WithCache(c Cache) Option {
	return func(s *Session) {
		s.cache = c
	}
}

// NewSession creates a session over c. Missing contexts start out empty.
func NewSession(c Context, opts ...Option) *Session {
	s := &Session{
		env:   c.Env,
		lctx:  c.LCtx,
		mctx:  c.MCtx,
		cfg:   DefaultConfig(),
		cache: NewCache(),
		log:   slog.Default(),
	}
	if s.lctx == nil {
		s.lctx = meta.NewLocalContext()
	}
	if s.mctx == nil {
		s.mctx = meta.NewMetavarContext()
	}
	for _, opt := range opts {
		opt(s)
	}
	s.cfg = s.cfg.withDefaults()
	insts, err := lru.New[instKey, instEntry](s.cfg.InstCacheSize)
	if err != nil {
		// only fails for a non-positive size, which withDefaults rules out
		panic(err)
	}
	s.insts = insts
	return s
}

func (s *Session) Env() Environment                 { return s.env }
func (s *Session) LocalContext() *meta.LocalContext { return s.lctx }
func (s *Session) MCtx() *meta.MetavarContext       { return s.mctx }
func (s *Session) Config() Config                   { return s.cfg }
func (s *Session) Oracle() Oracle                   { return s.oracle }
func (s *Session) Stats() Stats                     { return s.stats }

// Transparency is the active transparency mode.
func (s *Session) Transparency() TransparencyMode {
	return s.cfg.Transparency
}

// SetOracle installs o, replacing any previous oracle.
func (s *Session) SetOracle(o Oracle) {
	s.oracle = o
}

// ResetStats zeroes the step counters.
func (s *Session) ResetStats() {
	s.stats = Stats{}
}

// Cache returns a snapshot of the result cache. Snapshots are persistent:
// later reductions do not affect them.
func (s *Session) Cache() Cache {
	return s.cache
}

// RestoreCache replaces the result cache with a snapshot.
func (s *Session) RestoreCache(c Cache) {
	s.cache = c
}

// SetMetavarContext replaces the metavariable context. Cached results may
// depend on old assignments, so the cache is dropped.
func (s *Session) SetMetavarContext(mctx *meta.MetavarContext) {
	if mctx == s.mctx {
		return
	}
	s.mctx = mctx
	s.cache = NewCache()
}

// WithLocalContext runs fn with lctx as the local context, restoring the
// previous one afterwards. Cached entries never mention free variables, so
// the cache survives the switch.
func (s *Session) WithLocalContext(lctx *meta.LocalContext, fn func() error) error {
	prev := s.lctx
	s.lctx = lctx
	defer func() { s.lctx = prev }()
	return fn()
}

// WithTransparency runs fn under mode, restoring the previous mode
// afterwards. The cache is partitioned by mode, so nothing is invalidated.
func (s *Session) WithTransparency(mode TransparencyMode, fn func() error) error {
	prev := s.cfg.Transparency
	s.cfg.Transparency = mode
	defer func() { s.cfg.Transparency = prev }()
	return fn()
}

func (s *Session) whnfAt(ctx context.Context, mode TransparencyMode, e expr.Expr) (expr.Expr, error) {
	var res expr.Expr
	err := s.WithTransparency(mode, func() error {
		var err error
		res, err = s.Whnf(ctx, e)
		return err
	})
	return res, err
}

// WhnfR reduces e under Reducible transparency.
func (s *Session) WhnfR(ctx context.Context, e expr.Expr) (expr.Expr, error) {
	return s.whnfAt(ctx, TransparencyReducible, e)
}

// WhnfD reduces e under Default transparency.
func (s *Session) WhnfD(ctx context.Context, e expr.Expr) (expr.Expr, error) {
	return s.whnfAt(ctx, TransparencyDefault, e)
}

// WhnfI reduces e under Instances transparency.
func (s *Session) WhnfI(ctx context.Context, e expr.Expr) (expr.Expr, error) {
	return s.whnfAt(ctx, TransparencyInstances, e)
}

func (s *Session) trace(msg string, args ...any) {
	if s.cfg.Trace {
		s.log.Debug("whnf: "+msg, args...)
	}
}
