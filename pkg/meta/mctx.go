package meta

import (
	iradix "github.com/hashicorp/go-immutable-radix/v2"

	"github.com/vito/redex/pkg/expr"
	"github.com/vito/redex/pkg/level"
)

// MetavarDecl declares an expression metavariable and its type.
type MetavarDecl struct {
	ID       expr.MVarID
	UserName expr.Name
	Type     expr.Expr
	LCtx     *LocalContext
}

// MetavarContext holds metavariable declarations and assignments. Like
// LocalContext it is immutable; Assign returns a new context.
//
// The nil *MetavarContext is a valid empty context.
type MetavarContext struct {
	decls       *iradix.Tree[*MetavarDecl]
	assignments *iradix.Tree[expr.Expr]
	levels      *iradix.Tree[level.Level]
}

func NewMetavarContext() *MetavarContext {
	return &MetavarContext{
		decls:       iradix.New[*MetavarDecl](),
		assignments: iradix.New[expr.Expr](),
		levels:      iradix.New[level.Level](),
	}
}

func (mctx *MetavarContext) clone() *MetavarContext {
	if mctx == nil {
		return NewMetavarContext()
	}
	c := *mctx
	return &c
}

// AddDecl declares a metavariable.
func (mctx *MetavarContext) AddDecl(decl *MetavarDecl) *MetavarContext {
	c := mctx.clone()
	c.decls, _, _ = c.decls.Insert([]byte(decl.ID), decl)
	return c
}

// Decl looks up a metavariable declaration.
func (mctx *MetavarContext) Decl(id expr.MVarID) (*MetavarDecl, bool) {
	if mctx == nil {
		return nil, false
	}
	return mctx.decls.Get([]byte(id))
}

// Assign records the value of a metavariable.
func (mctx *MetavarContext) Assign(id expr.MVarID, v expr.Expr) *MetavarContext {
	c := mctx.clone()
	c.assignments, _, _ = c.assignments.Insert([]byte(id), v)
	return c
}

// ExprAssignment returns the value assigned to id, if any.
func (mctx *MetavarContext) ExprAssignment(id expr.MVarID) (expr.Expr, bool) {
	if mctx == nil {
		return nil, false
	}
	return mctx.assignments.Get([]byte(id))
}

// IsAssigned reports whether id has a value.
func (mctx *MetavarContext) IsAssigned(id expr.MVarID) bool {
	_, ok := mctx.ExprAssignment(id)
	return ok
}

// AssignLevel records the value of a universe metavariable.
func (mctx *MetavarContext) AssignLevel(m level.MVar, l level.Level) *MetavarContext {
	c := mctx.clone()
	c.levels, _, _ = c.levels.Insert([]byte(m), l)
	return c
}

// LevelAssignment returns the value assigned to a universe metavariable.
func (mctx *MetavarContext) LevelAssignment(m level.MVar) (level.Level, bool) {
	if mctx == nil {
		return nil, false
	}
	return mctx.levels.Get([]byte(m))
}

// NumAssignments counts assigned expression metavariables.
func (mctx *MetavarContext) NumAssignments() int {
	if mctx == nil {
		return 0
	}
	return mctx.assignments.Len()
}
