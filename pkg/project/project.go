package project

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"github.com/BurntSushi/toml"

	"github.com/vito/redex/pkg/expr"
	"github.com/vito/redex/pkg/whnf"
)

// FileName is the name of the project configuration file.
const FileName = "redex.toml"

// Config represents a redex.toml project configuration file.
type Config struct {
	Whnf WhnfConfig `toml:"whnf"`
}

// WhnfConfig holds the [whnf] table. Keys left out of the file keep the
// values from whnf.DefaultConfig.
type WhnfConfig struct {
	Transparency         whnf.TransparencyMode `toml:"transparency"`
	Zeta                 bool                  `toml:"zeta"`
	EtaStruct            bool                  `toml:"eta_struct"`
	Proj                 bool                  `toml:"proj"`
	SmartUnfolding       bool                  `toml:"smart_unfolding"`
	SmartUnfoldingSuffix string                `toml:"smart_unfolding_suffix"`
	NatLiterals          bool                  `toml:"nat_literals"`

	// DisabledLitOps names operations (e.g. "Nat.div") to leave to ordinary
	// unfolding.
	DisabledLitOps []string `toml:"disabled_lit_ops"`

	Native bool `toml:"native"`

	// NativeReducers maps a wrapper constant to the type its argument must
	// be declared at, e.g. "Lean.reduceBool" = "Bool". Entries extend the
	// default table.
	NativeReducers map[string]string `toml:"native_reducers"`

	InstCacheSize int  `toml:"inst_cache_size"`
	Trace         bool `toml:"trace"`
}

// Default returns the configuration used when no redex.toml is found.
func Default() *Config {
	def := whnf.DefaultConfig()
	reducers := make(map[string]string, len(def.NativeReducers))
	for wrapper, ty := range def.NativeReducers {
		reducers[string(wrapper)] = string(ty)
	}
	return &Config{
		Whnf: WhnfConfig{
			Transparency:         def.Transparency,
			Zeta:                 def.Zeta,
			EtaStruct:            def.EtaStruct,
			Proj:                 def.Proj,
			SmartUnfolding:       def.SmartUnfolding,
			SmartUnfoldingSuffix: def.SmartUnfoldingSuffix,
			NatLiterals:          def.NatLiterals,
			Native:               def.Native,
			NativeReducers:       reducers,
			InstCacheSize:        def.InstCacheSize,
			Trace:                def.Trace,
		},
	}
}

// Load loads a redex.toml file from the given path on top of Default.
func Load(path string) (*Config, error) {
	config := Default()
	md, err := toml.DecodeFile(path, config)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	for _, key := range md.Undecoded() {
		slog.Warn("unknown config key", "path", path, "key", key.String())
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return config, nil
}

// FindProjectConfig searches for a redex.toml file starting from dir and
// walking up to parent directories. Returns the path to redex.toml and the
// parsed config, or ("", nil, nil) if not found.
func FindProjectConfig(dir string) (string, *Config, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", nil, err
	}
	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			config, err := Load(path)
			if err != nil {
				return "", nil, err
			}
			return path, config, nil
		}

		// Stop at .git boundary
		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			return "", nil, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil, nil
		}
		dir = parent
	}
}

// Validate rejects settings that no session could run with.
func (c *Config) Validate() error {
	if c.Whnf.SmartUnfolding && c.Whnf.SmartUnfoldingSuffix == "" {
		return fmt.Errorf("whnf.smart_unfolding_suffix must not be empty")
	}
	if c.Whnf.InstCacheSize < 0 {
		return fmt.Errorf("whnf.inst_cache_size must not be negative, got %d", c.Whnf.InstCacheSize)
	}
	known := whnf.DefaultLitOps()
	for _, name := range c.Whnf.DisabledLitOps {
		if _, ok := known[expr.Name(name)]; !ok {
			return fmt.Errorf("whnf.disabled_lit_ops: unknown operation %q", name)
		}
	}
	return nil
}

// WhnfConfig converts the [whnf] table into a session configuration.
func (c *Config) WhnfConfig() whnf.Config {
	cfg := whnf.DefaultConfig()
	w := c.Whnf
	cfg.Transparency = w.Transparency
	cfg.Zeta = w.Zeta
	cfg.EtaStruct = w.EtaStruct
	cfg.Proj = w.Proj
	cfg.SmartUnfolding = w.SmartUnfolding
	cfg.SmartUnfoldingSuffix = w.SmartUnfoldingSuffix
	cfg.NatLiterals = w.NatLiterals
	cfg.Native = w.Native
	cfg.InstCacheSize = w.InstCacheSize
	cfg.Trace = w.Trace

	if len(w.DisabledLitOps) > 0 {
		disabled := make([]expr.Name, len(w.DisabledLitOps))
		for i, name := range w.DisabledLitOps {
			disabled[i] = expr.Name(name)
		}
		cfg.LitOps = cfg.LitOps.Without(disabled...)
	}

	cfg.NativeReducers = make(map[expr.Name]expr.Name, len(w.NativeReducers))
	for wrapper, ty := range w.NativeReducers {
		cfg.NativeReducers[expr.Name(wrapper)] = expr.Name(ty)
	}
	return cfg
}

// Summary lists the non-default settings, for debug logging.
func (c *Config) Summary() []any {
	def := Default().Whnf
	w := c.Whnf
	var attrs []any
	if w.Transparency != def.Transparency {
		attrs = append(attrs, "transparency", w.Transparency.String())
	}
	for _, flag := range []struct {
		key       string
		got, want bool
	}{
		{"zeta", w.Zeta, def.Zeta},
		{"eta_struct", w.EtaStruct, def.EtaStruct},
		{"proj", w.Proj, def.Proj},
		{"smart_unfolding", w.SmartUnfolding, def.SmartUnfolding},
		{"nat_literals", w.NatLiterals, def.NatLiterals},
		{"native", w.Native, def.Native},
		{"trace", w.Trace, def.Trace},
	} {
		if flag.got != flag.want {
			attrs = append(attrs, flag.key, flag.got)
		}
	}
	if len(w.DisabledLitOps) > 0 {
		ops := slices.Clone(w.DisabledLitOps)
		slices.Sort(ops)
		attrs = append(attrs, "disabled_lit_ops", ops)
	}
	return attrs
}
