package whnf

import "github.com/vito/redex/pkg/expr"

// Constants the engine knows by name.
const (
	NatName      expr.Name = "Nat"
	NatZero      expr.Name = "Nat.zero"
	NatSucc      expr.Name = "Nat.succ"
	BoolName     expr.Name = "Bool"
	BoolTrue     expr.Name = "Bool.true"
	BoolFalse    expr.Name = "Bool.false"
	StringName   expr.Name = "String"
	StringMk     expr.Name = "String.mk"
	CharName     expr.Name = "Char"
	CharOfNat    expr.Name = "Char.ofNat"
	ListNil      expr.Name = "List.nil"
	ListCons     expr.Name = "List.cons"
	IdRhs        expr.Name = "idRhs"
	ReduceBool   expr.Name = "Lean.reduceBool"
	ReduceNat    expr.Name = "Lean.reduceNat"
	QuotLiftName expr.Name = "Quot.lift"
	QuotIndName  expr.Name = "Quot.ind"
	QuotMkName   expr.Name = "Quot.mk"
)
