package whnf

import (
	"fmt"
	"strings"

	"github.com/vito/redex/pkg/env"
)

// TransparencyMode controls which definitions delta reduction may unfold.
// Modes are totally ordered, Instances < Reducible < Default < All; a
// constant unfolds when its required mode is at most the active one.
type TransparencyMode uint8

const (
	// TransparencyInstances unfolds instances only.
	TransparencyInstances TransparencyMode = iota + 1
	// TransparencyReducible additionally unfolds @[reducible] definitions.
	TransparencyReducible
	// TransparencyDefault unfolds everything except @[irreducible]
	// definitions and theorems.
	TransparencyDefault
	// TransparencyAll unfolds everything. Results under All are never cached.
	TransparencyAll
)

var modeNames = map[TransparencyMode]string{
	TransparencyInstances: "instances",
	TransparencyReducible: "reducible",
	TransparencyDefault:   "default",
	TransparencyAll:       "all",
}

func (m TransparencyMode) String() string {
	if s, ok := modeNames[m]; ok {
		return s
	}
	return fmt.Sprintf("TransparencyMode(%d)", uint8(m))
}

// ParseTransparencyMode parses the lower-case mode name.
func ParseTransparencyMode(s string) (TransparencyMode, error) {
	for m, name := range modeNames {
		if strings.EqualFold(s, name) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown transparency mode %q (want instances, reducible, default or all)", s)
}

// Allows reports whether a constant requiring mode required may unfold under m.
func (m TransparencyMode) Allows(required TransparencyMode) bool {
	return required <= m
}

// MarshalText and UnmarshalText let modes appear in TOML config.

func (m TransparencyMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *TransparencyMode) UnmarshalText(text []byte) error {
	parsed, err := ParseTransparencyMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// RequiredTransparency is the least mode under which info may be unfolded.
func RequiredTransparency(e Environment, info env.ConstantInfo) TransparencyMode {
	if _, ok := info.(*env.TheoremVal); ok {
		return TransparencyAll
	}
	name := info.Base().Name
	if e.IsInstance(name) {
		return TransparencyInstances
	}
	switch e.ReducibilityStatus(name) {
	case env.Reducible:
		return TransparencyReducible
	case env.Irreducible:
		return TransparencyAll
	default:
		return TransparencyDefault
	}
}

// UnfoldPolicy decides whether info may be unfolded under mode. It replaces
// the RequiredTransparency check when set in Config.
type UnfoldPolicy func(mode TransparencyMode, e Environment, info env.ConstantInfo) bool
