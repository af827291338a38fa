package whnf

import (
	"fmt"
	"strings"

	"github.com/vito/redex/pkg/expr"
)

// Step identifies a kind of reduction.
type Step uint8

const (
	StepBeta Step = iota
	StepZeta
	StepDelta
	StepSmartDelta
	StepIota
	StepQuot
	StepProj
	StepLit
	StepNative
	StepCacheHit
)

var stepNames = [...]string{
	StepBeta:       "beta",
	StepZeta:       "zeta",
	StepDelta:      "delta",
	StepSmartDelta: "smart-delta",
	StepIota:       "iota",
	StepQuot:       "quot",
	StepProj:       "proj",
	StepLit:        "lit",
	StepNative:     "native",
	StepCacheHit:   "cache-hit",
}

func (s Step) String() string {
	return stepNames[s]
}

// Observer is called after each reduction step with the term that was
// rewritten.
type Observer func(step Step, before expr.Expr)

// Stats counts reduction steps taken by a Session.
type Stats struct {
	Betas          int
	Zetas          int
	Unfolds        int
	SmartUnfolds   int
	Iotas          int
	QuotReductions int
	Projections    int
	LitReductions  int
	NativeCalls    int
	CacheHits      int
	CacheMisses    int
}

// String lists the non-zero counters, e.g. "delta=2 lit=1".
func (s Stats) String() string {
	var parts []string
	for _, c := range []struct {
		name string
		n    int
	}{
		{"beta", s.Betas},
		{"zeta", s.Zetas},
		{"delta", s.Unfolds},
		{"smart", s.SmartUnfolds},
		{"iota", s.Iotas},
		{"quot", s.QuotReductions},
		{"proj", s.Projections},
		{"lit", s.LitReductions},
		{"native", s.NativeCalls},
		{"cache-hit", s.CacheHits},
		{"cache-miss", s.CacheMisses},
	} {
		if c.n > 0 {
			parts = append(parts, fmt.Sprintf("%s=%d", c.name, c.n))
		}
	}
	if len(parts) == 0 {
		return "no steps"
	}
	return strings.Join(parts, " ")
}

func (s *Session) record(step Step, before expr.Expr) {
	switch step {
	case StepBeta:
		s.stats.Betas++
	case StepZeta:
		s.stats.Zetas++
	case StepDelta:
		s.stats.Unfolds++
	case StepSmartDelta:
		s.stats.Unfolds++
		s.stats.SmartUnfolds++
	case StepIota:
		s.stats.Iotas++
	case StepQuot:
		s.stats.QuotReductions++
	case StepProj:
		s.stats.Projections++
	case StepLit:
		s.stats.LitReductions++
	case StepNative:
		s.stats.NativeCalls++
	case StepCacheHit:
		s.stats.CacheHits++
	}
	if s.cfg.Trace {
		s.log.Debug("whnf: step", "kind", step.String(), "term", before.String())
	}
	if s.observer != nil {
		s.observer(step, before)
	}
}
