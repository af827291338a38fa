package level

// Normalize simplifies a level. It is not a complete decision procedure for
// level equivalence, but it folds the shapes produced by instantiating
// universe-polymorphic declarations with concrete levels.
func Normalize(l Level) Level {
	switch l := l.(type) {
	case Succ:
		of := Normalize(l.Of)
		if of == l.Of {
			return l
		}
		return Succ{of}
	case Max:
		return mkMax(Normalize(l.LHS), Normalize(l.RHS))
	case IMax:
		rhs := Normalize(l.RHS)
		if rhs.Eq(Zero) {
			return Zero
		}
		lhs := Normalize(l.LHS)
		if IsNeverZero(rhs) {
			return mkMax(lhs, rhs)
		}
		if lhs.Eq(Zero) || lhs.Eq(rhs) {
			return rhs
		}
		return IMax{lhs, rhs}
	default:
		return l
	}
}

func mkMax(lhs, rhs Level) Level {
	switch {
	case lhs.Eq(Zero):
		return rhs
	case rhs.Eq(Zero):
		return lhs
	case lhs.Eq(rhs):
		return lhs
	}
	lb, lk := ToOffset(lhs)
	rb, rk := ToOffset(rhs)
	if lb.Eq(rb) {
		if lk >= rk {
			return lhs
		}
		return rhs
	}
	// max (n) (u+k) = u+k whenever n <= k
	if lb.Eq(Zero) && lk <= rk {
		return rhs
	}
	if rb.Eq(Zero) && rk <= lk {
		return lhs
	}
	return Max{lhs, rhs}
}

// IsNeverZero reports whether l is positive under every parameter assignment.
func IsNeverZero(l Level) bool {
	switch l := l.(type) {
	case Succ:
		return true
	case Max:
		return IsNeverZero(l.LHS) || IsNeverZero(l.RHS)
	case IMax:
		return IsNeverZero(l.RHS)
	default:
		return false
	}
}

// IsZero reports whether l normalizes to the level of propositions.
func IsZero(l Level) bool {
	return Normalize(l).Eq(Zero)
}

// IsEquiv compares two levels up to normalization.
func IsEquiv(a, b Level) bool {
	if a == b || a.Eq(b) {
		return true
	}
	return Normalize(a).Eq(Normalize(b))
}

// IsEquivAll compares two level lists pointwise up to normalization.
func IsEquivAll(as, bs []Level) bool {
	if len(as) != len(bs) {
		return false
	}
	for i := range as {
		if !IsEquiv(as[i], bs[i]) {
			return false
		}
	}
	return true
}
