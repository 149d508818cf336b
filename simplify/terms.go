package simplify

import (
	"math"
	"sort"

	"zappem.net/pub/math/calc/expr"
)

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// term is a numerical coefficient times a product of non-numerical
// factors.
type term struct {
	coeff float64
	rest  expr.Expr
}

// split separates the numerical coefficient from a canonical term.
func split(e expr.Expr) term {
	switch x := e.(type) {
	case *expr.Neg:
		t := split(x.Arg())
		t.coeff = -t.coeff
		return t
	case *expr.Mul:
		args := x.Args()
		c, ok := constant(args[0])
		if !ok {
			break
		}
		if len(args) == 2 {
			return term{coeff: c, rest: args[1]}
		}
		return term{coeff: c, rest: expr.Times(args[1:]...)}
	}
	return term{coeff: 1, rest: e}
}

// sum builds the canonical sum of already simplified operands.
// Nested sums are flattened, numbers folded, polynomials in the same
// variable added (a multiple of a polynomial is scaled into one
// first, and numerical multiples of x_v^k join a polynomial in x_v),
// and like terms combined, keyed by the text of their non-numerical
// part. Operands whose folding would overflow are left as they are.
func sum(args []expr.Expr) expr.Expr {
	var (
		total  float64
		polys  = make(map[uint]*expr.Poly)
		order  []string
		terms  = make(map[string]term)
		inPoly = polyVars(args)
	)
	for queue := append([]expr.Expr(nil), args...); len(queue) != 0; {
		e := queue[0]
		queue = queue[1:]
		switch x := e.(type) {
		case *expr.Const:
			total += x.Value()
			continue
		case *expr.Add:
			queue = append(x.Args(), queue...)
			continue
		case *expr.Poly:
			old, ok := polys[x.Var()]
			if !ok {
				polys[x.Var()] = x
				continue
			}
			delete(polys, x.Var())
			queue = append(queue, addPolys(old, x))
			continue
		}
		t := split(e)
		if p, ok := t.rest.(*expr.Poly); ok {
			queue = append(queue, scalePoly(p, t.coeff))
			continue
		}
		if v, k, ok := monomial(t.rest); ok && inPoly[v] {
			queue = append(queue, monomialPoly(v, k, t.coeff))
			continue
		}
		s := t.rest.String()
		old, ok := terms[s]
		if !ok {
			order = append(order, s)
			terms[s] = t
			continue
		}
		old.coeff += t.coeff
		terms[s] = old
	}
	if !finite(total) {
		return unfolded(args, expr.Plus)
	}

	var out []expr.Expr
	for _, p := range polys {
		out = append(out, p)
	}
	for _, s := range order {
		t := terms[s]
		if !finite(t.coeff) {
			return unfolded(args, expr.Plus)
		}
		if t.coeff == 0 {
			continue
		}
		out = append(out, product([]expr.Expr{expr.C(t.coeff), t.rest}))
	}
	if total != 0 {
		out = append(out, expr.C(total))
	}
	switch len(out) {
	case 0:
		return expr.C(0)
	case 1:
		return out[0]
	}
	sortExprs(out)
	return expr.Plus(out...)
}

// unfolded joins args with join without combining anything.
func unfolded(args []expr.Expr, join func(...expr.Expr) expr.Expr) expr.Expr {
	if len(args) == 1 {
		return args[0]
	}
	return join(args...)
}

// polyVars returns the variables of the polynomials, or multiples of
// polynomials, among the flattened terms of a sum.
func polyVars(args []expr.Expr) map[uint]bool {
	vs := make(map[uint]bool)
	for _, e := range args {
		if a, ok := e.(*expr.Add); ok {
			for v := range polyVars(a.Args()) {
				vs[v] = true
			}
			continue
		}
		if p, ok := split(e).rest.(*expr.Poly); ok {
			vs[p.Var()] = true
		}
	}
	return vs
}

// monomial reports whether e is x_v^k for some k >= 1.
func monomial(e expr.Expr) (v uint, k int, ok bool) {
	switch x := e.(type) {
	case *expr.Var:
		return x.Index(), 1, true
	case *expr.Pow:
		if b, isVar := x.Base().(*expr.Var); isVar && x.Exp() >= 1 {
			return b.Index(), x.Exp(), true
		}
	}
	return 0, 0, false
}

// monomialPoly returns c*x_v^k as a polynomial.
func monomialPoly(v uint, k int, c float64) expr.Expr {
	cs := make([]expr.Expr, k+1)
	for i := range cs {
		cs[i] = expr.C(0)
	}
	cs[k] = expr.C(c)
	return polynomial(v, cs)
}

// powered is a base with its accumulated integer exponent.
type powered struct {
	base expr.Expr
	exp  int
}

// product builds the canonical product of already simplified
// operands. Nested products are flattened, numbers and negations
// folded into one coefficient, polynomials in the same variable
// multiplied out, and equal bases combined by adding exponents.
func product(args []expr.Expr) expr.Expr {
	var (
		coeff = 1.0
		polys = make(map[uint]*expr.Poly)
		order []string
		bases = make(map[string]powered)
	)
	for queue := append([]expr.Expr(nil), args...); len(queue) != 0; {
		e := queue[0]
		queue = queue[1:]
		switch x := e.(type) {
		case *expr.Const:
			coeff *= x.Value()
			continue
		case *expr.Neg:
			coeff = -coeff
			queue = append(queue, x.Arg())
			continue
		case *expr.Mul:
			queue = append(x.Args(), queue...)
			continue
		case *expr.Poly:
			old, ok := polys[x.Var()]
			if !ok {
				polys[x.Var()] = x
				continue
			}
			delete(polys, x.Var())
			queue = append(queue, mulPolys(old, x))
			continue
		}
		p := powered{base: e, exp: 1}
		if x, ok := e.(*expr.Pow); ok {
			p = powered{base: x.Base(), exp: x.Exp()}
		}
		s := p.base.String()
		old, ok := bases[s]
		if !ok {
			order = append(order, s)
			bases[s] = p
			continue
		}
		old.exp += p.exp
		bases[s] = old
	}
	if coeff == 0 {
		return expr.C(0)
	}
	if !finite(coeff) {
		return unfolded(args, expr.Times)
	}

	var out []expr.Expr
	for _, p := range polys {
		out = append(out, p)
	}
	for _, s := range order {
		p := bases[s]
		if p.exp == 0 {
			continue
		}
		out = append(out, power(p.base, p.exp))
	}
	sortExprs(out)

	var e expr.Expr
	switch len(out) {
	case 0:
		return expr.C(coeff)
	case 1:
		e = out[0]
	default:
		e = expr.Times(out...)
	}
	switch coeff {
	case 1:
		return e
	case -1:
		return expr.NewNeg(e)
	}
	return expr.Times(append([]expr.Expr{expr.C(coeff)}, out...)...)
}

func sortExprs(es []expr.Expr) {
	sort.SliceStable(es, func(i, j int) bool {
		return expr.Compare(es[i], es[j]) < 0
	})
}

// polynomial builds a canonical polynomial: trailing zero coefficients
// are dropped, and a polynomial of degree zero is its coefficient.
func polynomial(v uint, cs []expr.Expr) expr.Expr {
	n := len(cs)
	for n > 0 && expr.IsConst(cs[n-1], 0) {
		n--
	}
	switch n {
	case 0:
		return expr.C(0)
	case 1:
		return cs[0]
	}
	p, _ := expr.NewPoly(v, cs[:n]...)
	return p
}

// addPolys adds two polynomials in the same variable coefficient-wise.
func addPolys(a, b *expr.Poly) expr.Expr {
	as, bs := a.Coeffs(), b.Coeffs()
	if len(as) < len(bs) {
		as, bs = bs, as
	}
	cs := make([]expr.Expr, len(as))
	for k := range as {
		if k < len(bs) {
			cs[k] = sum([]expr.Expr{as[k], bs[k]})
		} else {
			cs[k] = as[k]
		}
	}
	return polynomial(a.Var(), cs)
}

// scalePoly multiplies every coefficient of p by c.
func scalePoly(p *expr.Poly, c float64) expr.Expr {
	cs := p.Coeffs()
	for k, a := range cs {
		cs[k] = product([]expr.Expr{expr.C(c), a})
	}
	return polynomial(p.Var(), cs)
}

// mulPolys multiplies two polynomials in the same variable by
// convolving their coefficients.
func mulPolys(a, b *expr.Poly) expr.Expr {
	as, bs := a.Coeffs(), b.Coeffs()
	cs := make([]expr.Expr, len(as)+len(bs)-1)
	for k := range cs {
		var ts []expr.Expr
		for i := 0; i <= k; i++ {
			if i < len(as) && k-i < len(bs) {
				ts = append(ts, product([]expr.Expr{as[i], bs[k-i]}))
			}
		}
		cs[k] = sum(ts)
	}
	return polynomial(a.Var(), cs)
}
