package env

import (
	"fmt"
	"math/big"
	"slices"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/vito/redex/pkg/expr"
)

// ReducibilityStatus is the unfolding attribute of a constant.
type ReducibilityStatus uint8

const (
	Semireducible ReducibilityStatus = iota
	Reducible
	Irreducible
)

func (s ReducibilityStatus) String() string {
	switch s {
	case Reducible:
		return "reducible"
	case Irreducible:
		return "irreducible"
	default:
		return "semireducible"
	}
}

// ProjectionInfo describes a projection function `S.field` generated for a
// structure: applied to NumParams parameters and the structure value, it
// returns field Idx of constructor Ctor.
type ProjectionInfo struct {
	Ctor      expr.Name
	NumParams int
	Idx       int
	FromClass bool
}

// NativeValue is the result of evaluating a compiled constant: a bool, a
// uint64, a *big.Int or a string.
type NativeValue any

// NativeFunc is a compiled implementation of a closed constant.
type NativeFunc func() (NativeValue, error)

// ErrNoNativeImpl is returned by EvalConstCheck for constants without a
// registered implementation.
var ErrNoNativeImpl = errors.New("no native implementation")

// Environment is an immutable set of declarations plus the attributes the
// reduction engine consults. Build one with a Builder.
type Environment struct {
	constants    map[expr.Name]ConstantInfo
	status       map[expr.Name]ReducibilityStatus
	instances    map[expr.Name]bool
	auxRecursors map[expr.Name]bool
	noConfusion  map[expr.Name]bool
	projections  map[expr.Name]ProjectionInfo
	natives      map[expr.Name]NativeFunc
}

// Find looks up a declaration.
func (env *Environment) Find(name expr.Name) (ConstantInfo, bool) {
	c, ok := env.constants[name]
	return c, ok
}

// Contains reports whether name is declared.
func (env *Environment) Contains(name expr.Name) bool {
	_, ok := env.constants[name]
	return ok
}

// Names returns every declared name in lexical order.
func (env *Environment) Names() []expr.Name {
	names := make([]expr.Name, 0, len(env.constants))
	for n := range env.constants {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Len is the number of declarations.
func (env *Environment) Len() int {
	return len(env.constants)
}

func (env *Environment) ReducibilityStatus(name expr.Name) ReducibilityStatus {
	return env.status[name]
}

func (env *Environment) IsInstance(name expr.Name) bool {
	return env.instances[name]
}

// IsAuxRecursor reports whether name is an auxiliary recursor such as
// `casesOn` or `recOn`, built on top of the primitive recursor.
func (env *Environment) IsAuxRecursor(name expr.Name) bool {
	if env.auxRecursors[name] {
		return true
	}
	switch name.Last() {
	case "casesOn", "recOn", "brecOn", "binductionOn":
		_, ok := env.constants[name.Prefix()].(*InductiveVal)
		return ok
	}
	return false
}

// IsNoConfusion reports whether name was marked with MarkNoConfusion.
func (env *Environment) IsNoConfusion(name expr.Name) bool {
	return env.noConfusion[name]
}

func (env *Environment) ProjectionInfo(name expr.Name) (ProjectionInfo, bool) {
	info, ok := env.projections[name]
	return info, ok
}

// EvalConstCheck runs the compiled implementation of name after checking
// that the declared type of name is the constant expectedType.
func (env *Environment) EvalConstCheck(name, expectedType expr.Name) (NativeValue, error) {
	c, ok := env.constants[name]
	if !ok {
		return nil, errors.Errorf("unknown constant '%s'", name)
	}
	if !expr.IsConstOf(c.Base().Type, expectedType) {
		return nil, errors.Errorf("constant '%s' has type %s, expected %s", name, c.Base().Type, expectedType)
	}
	fn, ok := env.natives[name]
	if !ok {
		return nil, errors.Wrapf(ErrNoNativeImpl, "constant '%s'", name)
	}
	v, err := fn()
	if err != nil {
		return nil, errors.Wrapf(err, "evaluating '%s'", name)
	}
	switch v.(type) {
	case bool, uint64, *big.Int, string:
		return v, nil
	default:
		return nil, errors.Errorf("constant '%s' evaluated to unsupported %T", name, v)
	}
}

// Builder accumulates declarations and attributes; Build validates them all
// at once.
type Builder struct {
	env  *Environment
	errs *multierror.Error
}

func NewBuilder() *Builder {
	return &Builder{
		env: &Environment{
			constants:    map[expr.Name]ConstantInfo{},
			status:       map[expr.Name]ReducibilityStatus{},
			instances:    map[expr.Name]bool{},
			auxRecursors: map[expr.Name]bool{},
			noConfusion:  map[expr.Name]bool{},
			projections:  map[expr.Name]ProjectionInfo{},
			natives:      map[expr.Name]NativeFunc{},
		},
	}
}

func (b *Builder) fail(format string, args ...any) {
	b.errs = multierror.Append(b.errs, fmt.Errorf(format, args...))
}

// Add declares constants.
func (b *Builder) Add(cs ...ConstantInfo) *Builder {
	for _, c := range cs {
		name := c.Base().Name
		if _, dup := b.env.constants[name]; dup {
			b.fail("duplicate declaration '%s'", name)
			continue
		}
		b.env.constants[name] = c
	}
	return b
}

func (b *Builder) SetReducibility(name expr.Name, status ReducibilityStatus) *Builder {
	b.env.status[name] = status
	return b
}

func (b *Builder) AddInstance(name expr.Name) *Builder {
	b.env.instances[name] = true
	return b
}

func (b *Builder) MarkAuxRecursor(name expr.Name) *Builder {
	b.env.auxRecursors[name] = true
	return b
}

func (b *Builder) MarkNoConfusion(name expr.Name) *Builder {
	b.env.noConfusion[name] = true
	return b
}

func (b *Builder) AddProjection(name expr.Name, info ProjectionInfo) *Builder {
	b.env.projections[name] = info
	return b
}

func (b *Builder) RegisterNative(name expr.Name, fn NativeFunc) *Builder {
	b.env.natives[name] = fn
	return b
}

// Build validates the declarations and returns the environment. Every
// problem found is reported in a single multierror.
func (b *Builder) Build() (*Environment, error) {
	errs := b.errs
	fail := func(format string, args ...any) {
		errs = multierror.Append(errs, fmt.Errorf(format, args...))
	}

	for _, name := range b.env.Names() {
		c := b.env.constants[name]
		base := c.Base()
		if base.Type == nil {
			fail("'%s': missing type", name)
		}
		if dup := firstDuplicate(base.LevelParams); dup != "" {
			fail("'%s': duplicate universe parameter '%s'", name, dup)
		}
		switch c := c.(type) {
		case *DefinitionVal:
			if c.Val == nil {
				fail("'%s': definition without a value", name)
			}
		case *TheoremVal:
			if c.Val == nil {
				fail("'%s': theorem without a value", name)
			}
		case *InductiveVal:
			for _, ctor := range c.Ctors {
				cv, ok := b.env.constants[ctor].(*ConstructorVal)
				if !ok {
					fail("'%s': unknown constructor '%s'", name, ctor)
					continue
				}
				if cv.Induct != name {
					fail("'%s': constructor '%s' belongs to '%s'", name, ctor, cv.Induct)
				}
			}
		case *ConstructorVal:
			ind, ok := b.env.constants[c.Induct].(*InductiveVal)
			if !ok {
				fail("'%s': unknown inductive '%s'", name, c.Induct)
			} else if ind.NumParams != c.NumParams {
				fail("'%s': %d params, inductive '%s' has %d", name, c.NumParams, c.Induct, ind.NumParams)
			}
		case *RecursorVal:
			if _, ok := b.env.constants[c.Induct()].(*InductiveVal); !ok {
				fail("'%s': unknown inductive '%s'", name, c.Induct())
			}
			for _, rule := range c.Rules {
				cv, ok := b.env.constants[rule.Ctor].(*ConstructorVal)
				if !ok {
					fail("'%s': rule for unknown constructor '%s'", name, rule.Ctor)
					continue
				}
				if cv.NumFields != rule.NumFields {
					fail("'%s': rule for '%s' has %d fields, constructor has %d", name, rule.Ctor, rule.NumFields, cv.NumFields)
				}
				if rule.RHS == nil {
					fail("'%s': rule for '%s' has no right-hand side", name, rule.Ctor)
				}
			}
		}
	}

	for _, attr := range []struct {
		what  string
		names []expr.Name
	}{
		{"reducibility status", keys(b.env.status)},
		{"instance", keys(b.env.instances)},
		{"aux recursor", keys(b.env.auxRecursors)},
		{"no-confusion", keys(b.env.noConfusion)},
		{"projection", keys(b.env.projections)},
		{"native implementation", keys(b.env.natives)},
	} {
		for _, n := range attr.names {
			if !b.env.Contains(n) {
				fail("%s for unknown constant '%s'", attr.what, n)
			}
		}
	}

	for name, info := range b.env.projections {
		if _, ok := b.env.constants[info.Ctor].(*ConstructorVal); !ok {
			fail("projection '%s': unknown constructor '%s'", name, info.Ctor)
		}
	}

	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}
	return b.env, nil
}

func keys[V any](m map[expr.Name]V) []expr.Name {
	names := make([]expr.Name, 0, len(m))
	for n := range m {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

func firstDuplicate(ss []string) string {
	seen := map[string]bool{}
	for _, s := range ss {
		if seen[s] {
			return s
		}
		seen[s] = true
	}
	return ""
}
