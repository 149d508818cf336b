package expr

import (
	"fmt"
	"sort"
)

// Substitute replaces every free occurrence of the variables in m with
// the mapped expressions. Replacement is simultaneous, so x_0 -> x_1
// and x_1 -> x_0 swaps the two. Variables bound by a Sum or Prod
// are not replaced inside its body.
func Substitute(e Expr, m map[uint]Expr) Expr {
	if len(m) == 0 {
		return e
	}
	switch x := e.(type) {
	case *Var:
		if r, ok := m[x.index]; ok {
			return r
		}
		return x
	case *Const:
		return x
	case *Add:
		return &Add{args: substituteAll(x.args, m)}
	case *Mul:
		return &Mul{args: substituteAll(x.args, m)}
	case *Neg:
		return &Neg{arg: Substitute(x.arg, m)}
	case *Div:
		return &Div{num: Substitute(x.num, m), den: Substitute(x.den, m)}
	case *Func:
		return &Func{kind: x.kind, arg: Substitute(x.arg, m)}
	case *Pow:
		return &Pow{base: Substitute(x.base, m), exp: x.exp}
	case *Poly:
		cs := substituteAll(x.coeffs, m)
		r, ok := m[x.v]
		if !ok {
			return &Poly{v: x.v, coeffs: cs}
		}
		if v, ok := r.(*Var); ok {
			return &Poly{v: v.index, coeffs: cs}
		}
		return horner(cs, r)
	case *Sum:
		return &Sum{x.substitute(m)}
	case *Prod:
		return &Prod{x.substitute(m)}
	}
	panic(fmt.Sprintf("unknown expression node %T", e))
}

func substituteAll(es []Expr, m map[uint]Expr) []Expr {
	r := make([]Expr, len(es))
	for i, e := range es {
		r[i] = Substitute(e, m)
	}
	return r
}

// substitute replaces the free variables of the body. The bound
// variable is renamed first if a replacement for a variable free in
// the body mentions it.
func (b *bound) substitute(m map[uint]Expr) bound {
	inner := m
	if _, shadowed := m[b.v]; shadowed {
		inner = make(map[uint]Expr, len(m))
		for k, v := range m {
			if k != b.v {
				inner[k] = v
			}
		}
	}
	v, body := b.v, b.body
	for k, r := range inner {
		if Depends(r, v) && Depends(body, k) {
			fresh := freshVar(body, inner, v)
			body = Substitute(body, map[uint]Expr{v: NewVar(fresh)})
			v = fresh
			break
		}
	}
	return bound{v: v, start: b.start, end: b.end, body: Substitute(body, inner)}
}

// freshVar returns an index above v and every variable free in body
// or mentioned by m.
func freshVar(body Expr, m map[uint]Expr, v uint) uint {
	top := v
	raise := func(i uint) {
		if i > top {
			top = i
		}
	}
	for _, i := range Vars(body) {
		raise(i)
	}
	for k, r := range m {
		raise(k)
		for _, i := range Vars(r) {
			raise(i)
		}
	}
	return top + 1
}

// horner rewrites sum_k cs[k]*t^k as c0 + t*(c1 + t*(c2 + ...)) for
// a general expression t.
func horner(cs []Expr, t Expr) Expr {
	r := cs[len(cs)-1]
	for k := len(cs) - 2; k >= 0; k-- {
		r = &Add{args: []Expr{cs[k], &Mul{args: []Expr{t, r}}}}
	}
	return r
}

// Fix returns e with x_i replaced by the constant v, turning a
// function of n variables into one of n-1. It panics if v is not
// finite.
func Fix(e Expr, i uint, v float64) Expr {
	return Substitute(e, map[uint]Expr{i: C(v)})
}

// Vars returns the sorted indices of the free variables of e.
func Vars(e Expr) []uint {
	seen := make(map[uint]bool)
	collect(e, seen, nil)
	var vs []uint
	for v := range seen {
		vs = append(vs, v)
	}
	sort.Slice(vs, func(i, j int) bool { return vs[i] < vs[j] })
	return vs
}

// Depends reports whether x_i occurs free in e.
func Depends(e Expr, i uint) bool {
	seen := make(map[uint]bool)
	collect(e, seen, nil)
	return seen[i]
}

func collect(e Expr, seen map[uint]bool, bound []uint) {
	isBound := func(i uint) bool {
		for _, b := range bound {
			if b == i {
				return true
			}
		}
		return false
	}
	switch x := e.(type) {
	case *Var:
		if !isBound(x.index) {
			seen[x.index] = true
		}
	case *Const:
	case *Add:
		for _, a := range x.args {
			collect(a, seen, bound)
		}
	case *Mul:
		for _, a := range x.args {
			collect(a, seen, bound)
		}
	case *Neg:
		collect(x.arg, seen, bound)
	case *Div:
		collect(x.num, seen, bound)
		collect(x.den, seen, bound)
	case *Func:
		collect(x.arg, seen, bound)
	case *Pow:
		collect(x.base, seen, bound)
	case *Poly:
		if !isBound(x.v) {
			seen[x.v] = true
		}
		for _, c := range x.coeffs {
			collect(c, seen, bound)
		}
	case *Sum:
		collect(x.body, seen, append(bound[:len(bound):len(bound)], x.v))
	case *Prod:
		collect(x.body, seen, append(bound[:len(bound):len(bound)], x.v))
	default:
		panic(fmt.Sprintf("unknown expression node %T", e))
	}
}

// Point is a sample (x, f(x)) of a univariate function.
type Point struct {
	X, Y float64
}

// Sample evaluates e, a function of x_0, at steps+1 equally spaced
// points from a to b inclusive. Plotting front ends draw the result as
// a polyline.
func Sample(e Expr, a, b float64, steps int) ([]Point, error) {
	if steps < 1 {
		return nil, fmt.Errorf("%w: %d sample steps", ErrBounds, steps)
	}
	delta := (b - a) / float64(steps)
	ps := make([]Point, 0, steps+1)
	at := Binding{0: 0}
	for i := 0; i <= steps; i++ {
		x := a + delta*float64(i)
		at[0] = x
		y, err := Evaluate(e, at)
		if err != nil {
			return nil, fmt.Errorf("sample at x=%v: %w", x, err)
		}
		ps = append(ps, Point{X: x, Y: y})
	}
	return ps, nil
}
