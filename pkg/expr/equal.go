package expr

// Equal is structural equality up to binder names and binder info. Pointer
// identity and hash mismatches short-circuit, so comparing shared or unequal
// terms is cheap; comparing large distinct-but-equal terms is O(size).
func Equal(a, b Expr) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	if a.Hash() != b.Hash() || a.Kind() != b.Kind() {
		return false
	}
	switch a := a.(type) {
	case *BVar:
		return a.Idx == b.(*BVar).Idx
	case *FVar:
		return a.ID == b.(*FVar).ID
	case *MVar:
		return a.ID == b.(*MVar).ID
	case *Sort:
		return a.Level.Eq(b.(*Sort).Level)
	case *Const:
		o := b.(*Const)
		if a.Name != o.Name || len(a.Levels) != len(o.Levels) {
			return false
		}
		for i := range a.Levels {
			if !a.Levels[i].Eq(o.Levels[i]) {
				return false
			}
		}
		return true
	case *App:
		o := b.(*App)
		// walk the spine iteratively; arguments recurse
		for {
			if !Equal(a.Arg, o.Arg) {
				return false
			}
			fa, ok1 := a.Fn.(*App)
			fo, ok2 := o.Fn.(*App)
			if !ok1 || !ok2 {
				return Equal(a.Fn, o.Fn)
			}
			if fa == fo {
				return true
			}
			a, o = fa, fo
		}
	case *Lambda:
		o := b.(*Lambda)
		return Equal(a.Type, o.Type) && Equal(a.Body, o.Body)
	case *Pi:
		o := b.(*Pi)
		return Equal(a.Type, o.Type) && Equal(a.Body, o.Body)
	case *Let:
		o := b.(*Let)
		return Equal(a.Type, o.Type) && Equal(a.Value, o.Value) && Equal(a.Body, o.Body)
	case *Lit:
		return a.Value.Eq(b.(*Lit).Value)
	case *Proj:
		o := b.(*Proj)
		return a.TypeName == o.TypeName && a.Idx == o.Idx && Equal(a.Struct, o.Struct)
	}
	return false
}

// EqualAll compares two term lists pointwise.
func EqualAll(as, bs []Expr) bool {
	if len(as) != len(bs) {
		return false
	}
	for i := range as {
		if !Equal(as[i], bs[i]) {
			return false
		}
	}
	return true
}
