package expr

import "github.com/vito/redex/pkg/level"

// GetAppFn returns the head of an application spine.
func GetAppFn(e Expr) Expr {
	for {
		app, ok := e.(*App)
		if !ok {
			return e
		}
		e = app.Fn
	}
}

// GetAppNumArgs counts the arguments of an application spine.
func GetAppNumArgs(e Expr) int {
	n := 0
	for {
		app, ok := e.(*App)
		if !ok {
			return n
		}
		e = app.Fn
		n++
	}
}

// GetAppArgs returns the arguments of an application spine in order.
func GetAppArgs(e Expr) []Expr {
	n := GetAppNumArgs(e)
	args := make([]Expr, n)
	for i := n - 1; i >= 0; i-- {
		app := e.(*App)
		args[i] = app.Arg
		e = app.Fn
	}
	return args
}

// GetAppRevArgs returns the arguments of an application spine, last first.
func GetAppRevArgs(e Expr) []Expr {
	var revArgs []Expr
	for {
		app, ok := e.(*App)
		if !ok {
			return revArgs
		}
		revArgs = append(revArgs, app.Arg)
		e = app.Fn
	}
}

// GetAppFnArgs returns the head and the arguments of a spine.
func GetAppFnArgs(e Expr) (Expr, []Expr) {
	return GetAppFn(e), GetAppArgs(e)
}

// MkApp applies f to args.
func MkApp(f Expr, args ...Expr) Expr {
	for _, a := range args {
		f = NewApp(f, a)
	}
	return f
}

// MkAppRange applies f to args[i:j].
func MkAppRange(f Expr, i, j int, args []Expr) Expr {
	for ; i < j; i++ {
		f = NewApp(f, args[i])
	}
	return f
}

// MkAppRev applies f to the reverse of revArgs.
func MkAppRev(f Expr, revArgs []Expr) Expr {
	for i := len(revArgs) - 1; i >= 0; i-- {
		f = NewApp(f, revArgs[i])
	}
	return f
}

// MkConstApp applies the constant name.{levels} to args.
func MkConstApp(name Name, levels []level.Level, args ...Expr) Expr {
	return MkApp(NewConst(name, levels...), args...)
}

// UpdateFn replaces the head of a spine.
func UpdateFn(e, newFn Expr) Expr {
	app, ok := e.(*App)
	if !ok {
		return newFn
	}
	return UpdateApp(app, UpdateFn(app.Fn, newFn), app.Arg)
}

// ConstName returns the name of a constant head, if e is one.
func ConstName(e Expr) (Name, bool) {
	if c, ok := e.(*Const); ok {
		return c.Name, true
	}
	return Anonymous, false
}

// IsConstOf reports whether e is the constant name.
func IsConstOf(e Expr, name Name) bool {
	c, ok := e.(*Const)
	return ok && c.Name == name
}

// IsAppOf reports whether the head of e is the constant name.
func IsAppOf(e Expr, name Name) bool {
	return IsConstOf(GetAppFn(e), name)
}

// IsAppOfArity reports whether e is name applied to exactly n arguments.
func IsAppOfArity(e Expr, name Name, n int) bool {
	for ; n > 0; n-- {
		app, ok := e.(*App)
		if !ok {
			return false
		}
		e = app.Fn
	}
	return IsConstOf(e, name)
}

// BetaRev instantiates as many leading lambdas of f as there are arguments
// and applies the remainder. revArgs holds the arguments last first, which is
// the order they are collected from a spine.
//
// All substitutions happen in one pass, so `(λ x y z. b) a1 a2 a3` costs a
// single traversal of b rather than one per redex.
func BetaRev(f Expr, revArgs []Expr) Expr {
	if len(revArgs) == 0 {
		return f
	}
	sz := len(revArgs)
	body := f
	i := 0
	for i < sz {
		lam, ok := body.(*Lambda)
		if !ok {
			break
		}
		body = lam.Body
		i++
	}
	n := sz - i
	body = Instantiate(body, revArgs[n:]...)
	return MkAppRev(body, revArgs[:n])
}

// HeadBeta beta-reduces e while its head is a lambda.
func HeadBeta(e Expr) Expr {
	for {
		f := GetAppFn(e)
		if _, ok := f.(*Lambda); !ok || f == e {
			return e
		}
		e = BetaRev(f, GetAppRevArgs(e))
	}
}

// IsLambda reports whether e is a lambda.
func IsLambda(e Expr) bool {
	_, ok := e.(*Lambda)
	return ok
}
