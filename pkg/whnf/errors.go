package whnf

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/vito/redex/pkg/expr"
)

// UnknownConstantError is returned when reduction reaches a constant that
// the environment does not declare.
type UnknownConstantError struct {
	Name expr.Name
}

func (e *UnknownConstantError) Error() string {
	return fmt.Sprintf("unknown constant '%s'", e.Name)
}

// UnknownFVarError is returned when reduction reaches a free variable that
// the local context does not declare.
type UnknownFVarError struct {
	ID expr.FVarID
}

func (e *UnknownFVarError) Error() string {
	return fmt.Sprintf("unknown free variable '%s'", e.ID)
}

func unknownConstant(name expr.Name) error {
	return errors.WithStack(&UnknownConstantError{Name: name})
}

func unknownFVar(id expr.FVarID) error {
	return errors.WithStack(&UnknownFVarError{ID: id})
}
