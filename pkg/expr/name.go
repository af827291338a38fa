package expr

import "strings"

// Name is a hierarchical declaration name such as `Nat.rec`, stored in its
// dotted form.
type Name string

// Anonymous is the empty name.
const Anonymous Name = ""

// Str extends the name with one more component.
func (n Name) Str(s string) Name {
	if n == Anonymous {
		return Name(s)
	}
	return n + "." + Name(s)
}

// Prefix drops the last component.
func (n Name) Prefix() Name {
	i := strings.LastIndexByte(string(n), '.')
	if i < 0 {
		return Anonymous
	}
	return n[:i]
}

// Last returns the last component.
func (n Name) Last() string {
	i := strings.LastIndexByte(string(n), '.')
	return string(n[i+1:])
}

func (n Name) IsAnonymous() bool {
	return n == Anonymous
}

func (n Name) String() string {
	if n == Anonymous {
		return "[anonymous]"
	}
	return string(n)
}

// FVarID identifies a free variable in a local context.
type FVarID string

// MVarID identifies a metavariable in a metavariable context.
type MVarID string

// BinderInfo records how a binder was written. It affects printing only;
// equality and hashing ignore it.
type BinderInfo uint8

const (
	BinderDefault BinderInfo = iota
	BinderImplicit
	BinderStrictImplicit
	BinderInstImplicit
)
