package level

// Subs maps universe parameters to the levels that replace them.
type Subs map[Param]Level

// NewSubs pairs up parameter names with levels. Extra names or levels are
// ignored; callers check arity before instantiating.
func NewSubs(params []string, levels []Level) Subs {
	subs := make(Subs, len(params))
	for i, p := range params {
		if i >= len(levels) {
			break
		}
		subs[Param(p)] = levels[i]
	}
	return subs
}

// Apply applies the substitution to a level.
func (s Subs) Apply(l Level) Level {
	if len(s) == 0 || !l.HasParam() {
		return l
	}
	return l.Apply(s)
}

// ApplyAll applies the substitution to every level in ls.
func (s Subs) ApplyAll(ls []Level) []Level {
	if len(s) == 0 || !AnyHasParam(ls) {
		return ls
	}
	out := make([]Level, len(ls))
	for i, l := range ls {
		out[i] = s.Apply(l)
	}
	return out
}

// Compose composes two substitutions
func (s Subs) Compose(other Subs) Subs {
	result := make(Subs)

	// Apply other to all levels in s
	for p, l := range s {
		result[p] = other.Apply(l)
	}

	// Add mappings from other that aren't in s
	for p, l := range other {
		if _, exists := result[p]; !exists {
			result[p] = l
		}
	}

	return result
}

// Get gets the level for a parameter
func (s Subs) Get(p Param) (Level, bool) {
	l, exists := s[p]
	return l, exists
}
