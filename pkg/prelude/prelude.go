// Package prelude declares a small core library: Nat, Bool, Eq, Quot,
// Prod, List, String and Inhabited with their recursors, plus a handful
// of constants that exercise smart unfolding, transparency and native
// evaluation.
package prelude

import (
	"github.com/vito/redex/pkg/env"
)

// Builder returns a builder holding the prelude, for callers that want to
// add declarations of their own before building.
func Builder() *env.Builder {
	b := env.NewBuilder()
	addNat(b)
	addBool(b)
	addEq(b)
	addQuot(b)
	addProd(b)
	addList(b)
	addString(b)
	addInhabited(b)
	addIdRhs(b)
	addSmartUnfolding(b)
	addTransparency(b)
	addNative(b)
	return b
}

// New builds the prelude environment.
func New() (*env.Environment, error) {
	return Builder().Build()
}
