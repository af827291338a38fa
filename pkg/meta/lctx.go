package meta

import (
	"slices"

	iradix "github.com/hashicorp/go-immutable-radix/v2"

	"github.com/vito/redex/pkg/expr"
)

// LocalDecl is a free variable declaration. Value is non-nil iff the
// variable is let-bound.
type LocalDecl struct {
	FVarID   expr.FVarID
	UserName expr.Name
	Type     expr.Expr
	Value    expr.Expr
	// Index is the position of the declaration in its context.
	Index int
}

// IsLet reports whether the declaration carries a value.
func (d *LocalDecl) IsLet() bool {
	return d.Value != nil
}

// ToExpr returns the free variable the declaration introduces.
func (d *LocalDecl) ToExpr() *expr.FVar {
	return expr.NewFVar(d.FVarID)
}

// LocalContext is an immutable set of local declarations. Extending it
// returns a new context sharing structure with the old one, so callers can
// hold on to earlier versions while working under binders.
//
// The nil *LocalContext is a valid empty context.
type LocalContext struct {
	decls *iradix.Tree[*LocalDecl]
}

func NewLocalContext() *LocalContext {
	return &LocalContext{decls: iradix.New[*LocalDecl]()}
}

func (lctx *LocalContext) tree() *iradix.Tree[*LocalDecl] {
	if lctx == nil || lctx.decls == nil {
		return iradix.New[*LocalDecl]()
	}
	return lctx.decls
}

// Find looks up a declaration.
func (lctx *LocalContext) Find(id expr.FVarID) (*LocalDecl, bool) {
	if lctx == nil || lctx.decls == nil {
		return nil, false
	}
	return lctx.decls.Get([]byte(id))
}

// Contains reports whether id is declared.
func (lctx *LocalContext) Contains(id expr.FVarID) bool {
	_, ok := lctx.Find(id)
	return ok
}

// Len is the number of declarations.
func (lctx *LocalContext) Len() int {
	if lctx == nil || lctx.decls == nil {
		return 0
	}
	return lctx.decls.Len()
}

func (lctx *LocalContext) add(decl *LocalDecl) *LocalContext {
	t := lctx.tree()
	decl.Index = t.Len()
	t, _, _ = t.Insert([]byte(decl.FVarID), decl)
	return &LocalContext{decls: t}
}

// MkLocalDecl declares a variable without a value.
func (lctx *LocalContext) MkLocalDecl(id expr.FVarID, name expr.Name, ty expr.Expr) *LocalContext {
	return lctx.add(&LocalDecl{FVarID: id, UserName: name, Type: ty})
}

// MkLetDecl declares a let-bound variable.
func (lctx *LocalContext) MkLetDecl(id expr.FVarID, name expr.Name, ty, value expr.Expr) *LocalContext {
	return lctx.add(&LocalDecl{FVarID: id, UserName: name, Type: ty, Value: value})
}

// Decls returns the declarations in the order they were added.
func (lctx *LocalContext) Decls() []*LocalDecl {
	var decls []*LocalDecl
	lctx.tree().Root().Walk(func(_ []byte, d *LocalDecl) bool {
		decls = append(decls, d)
		return false
	})
	slices.SortFunc(decls, func(a, b *LocalDecl) int {
		return a.Index - b.Index
	})
	return decls
}
