package expr

import "cmp"

// Equal reports whether a and b are structurally identical.
func Equal(a, b Expr) bool {
	return Compare(a, b) == 0
}

// Compare is a total order on expressions: first by Kind, then by
// payload, recursively. It returns -1, 0 or +1.
func Compare(a, b Expr) int {
	if a == b {
		return 0
	}
	if c := cmp.Compare(a.Kind(), b.Kind()); c != 0 {
		return c
	}
	switch x := a.(type) {
	case *Var:
		return cmp.Compare(x.index, b.(*Var).index)
	case *Const:
		return cmp.Compare(x.value, b.(*Const).value)
	case *Add:
		return compareList(x.args, b.(*Add).args)
	case *Mul:
		return compareList(x.args, b.(*Mul).args)
	case *Neg:
		return Compare(x.arg, b.(*Neg).arg)
	case *Div:
		y := b.(*Div)
		if c := Compare(x.num, y.num); c != 0 {
			return c
		}
		return Compare(x.den, y.den)
	case *Func:
		return Compare(x.arg, b.(*Func).arg)
	case *Pow:
		y := b.(*Pow)
		if c := Compare(x.base, y.base); c != 0 {
			return c
		}
		return cmp.Compare(x.exp, y.exp)
	case *Poly:
		y := b.(*Poly)
		if c := cmp.Compare(x.v, y.v); c != 0 {
			return c
		}
		return compareList(x.coeffs, y.coeffs)
	case *Sum:
		return x.compare(&b.(*Sum).bound)
	case *Prod:
		return x.compare(&b.(*Prod).bound)
	}
	panic("unknown expression node")
}

func (x *bound) compare(y *bound) int {
	if c := cmp.Compare(x.v, y.v); c != 0 {
		return c
	}
	if c := cmp.Compare(x.start, y.start); c != 0 {
		return c
	}
	if c := cmp.Compare(x.end, y.end); c != 0 {
		return c
	}
	return Compare(x.body, y.body)
}

// compareList orders lists element-wise, shorter lists first on a
// common prefix.
func compareList(a, b []Expr) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := Compare(a[i], b[i]); c != 0 {
			return c
		}
	}
	return cmp.Compare(len(a), len(b))
}
