package whnf

import (
	"github.com/vito/redex/pkg/expr"
)

// Config selects which reductions a Session performs.
type Config struct {
	// Transparency bounds delta reduction.
	Transparency TransparencyMode

	// Zeta enables let reduction and unfolding of let-bound free variables.
	Zeta bool

	// EtaStruct lets a recursor on a structure-like type fire on a major
	// premise that is not a constructor application, by expanding it into
	// projections.
	EtaStruct bool

	// Proj enables projection reduction.
	Proj bool

	// SmartUnfolding unfolds definitions through their NAME.<suffix>
	// companion when one exists, and only when it exposes an idRhs marker.
	SmartUnfolding       bool
	SmartUnfoldingSuffix string

	// NatLiterals enables the literal fast path for the operations in LitOps.
	NatLiterals bool
	LitOps      LitOps

	// Native enables Lean.reduceBool / Lean.reduceNat style evaluation.
	// NativeReducers maps each wrapper constant to the type its argument
	// must be declared at.
	Native         bool
	NativeReducers map[expr.Name]expr.Name

	// CanUnfold overrides the transparency check for delta reduction.
	CanUnfold UnfoldPolicy

	// Cache enables the per-session result cache.
	Cache bool

	// InstCacheSize bounds the memo of level-instantiated definition bodies.
	InstCacheSize int

	// Trace logs every reduction step at debug level.
	Trace bool
}

// DefaultConfig enables every reduction at Default transparency.
func DefaultConfig() Config {
	return Config{
		Transparency:         TransparencyDefault,
		Zeta:                 true,
		EtaStruct:            true,
		Proj:                 true,
		SmartUnfolding:       true,
		SmartUnfoldingSuffix: "eq",
		NatLiterals:          true,
		LitOps:               DefaultLitOps(),
		Native:               true,
		NativeReducers: map[expr.Name]expr.Name{
			ReduceBool: BoolName,
			ReduceNat:  NatName,
		},
		Cache:         true,
		InstCacheSize: 1024,
	}
}

func (cfg Config) withDefaults() Config {
	if cfg.Transparency == 0 {
		cfg.Transparency = TransparencyDefault
	}
	if cfg.SmartUnfoldingSuffix == "" {
		cfg.SmartUnfoldingSuffix = "eq"
	}
	if cfg.InstCacheSize <= 0 {
		cfg.InstCacheSize = 1024
	}
	return cfg
}

// smartUnfoldingName names the companion definition of name.
func (cfg Config) smartUnfoldingName(name expr.Name) expr.Name {
	return name.Str(cfg.SmartUnfoldingSuffix)
}
