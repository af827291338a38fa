package level

import "slices"

// ParamSet represents a set of universe parameters
type ParamSet map[Param]bool

// NewParamSet creates a new ParamSet
func NewParamSet(ps ...Param) ParamSet {
	set := make(ParamSet)
	for _, p := range ps {
		set[p] = true
	}
	return set
}

// Union returns the union of two ParamSets
func (ps ParamSet) Union(other ParamSet) ParamSet {
	if len(other) == 0 {
		return ps
	}
	if len(ps) == 0 {
		return other
	}
	result := make(ParamSet, len(ps)+len(other))
	for p := range ps {
		result[p] = true
	}
	for p := range other {
		result[p] = true
	}
	return result
}

// Contains checks if a parameter is in the set
func (ps ParamSet) Contains(p Param) bool {
	return ps[p]
}

// Sorted returns the parameters in lexical order.
func (ps ParamSet) Sorted() []Param {
	result := make([]Param, 0, len(ps))
	for p := range ps {
		result = append(result, p)
	}
	slices.Sort(result)
	return result
}
