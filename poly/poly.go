// Package poly implements univariate polynomials with float64
// coefficients. A Poly lists its coefficients lowest degree first; the
// zero polynomial is the empty list.
package poly

import (
	"fmt"
	"strings"

	"zappem.net/pub/math/calc/expr"
)

// Poly is sum_k p[k] * t^k.
type Poly []float64

// Trim drops trailing zero coefficients.
func (p Poly) Trim() Poly {
	n := len(p)
	for n > 0 && p[n-1] == 0 {
		n--
	}
	return p[:n]
}

// Degree returns the degree of p, -1 for the zero polynomial.
func (p Poly) Degree() int {
	return len(p.Trim()) - 1
}

// Eval evaluates p at t by Horner's scheme.
func (p Poly) Eval(t float64) float64 {
	total := 0.0
	for k := len(p) - 1; k >= 0; k-- {
		total = total*t + p[k]
	}
	return total
}

// Add returns p + q.
func Add(p, q Poly) Poly {
	if len(p) < len(q) {
		p, q = q, p
	}
	r := append(Poly(nil), p...)
	for k, c := range q {
		r[k] += c
	}
	return r.Trim()
}

// Scale returns s*p.
func (p Poly) Scale(s float64) Poly {
	r := make(Poly, len(p))
	for k, c := range p {
		r[k] = s * c
	}
	return r.Trim()
}

// Mul returns p*q, the convolution of the coefficient lists.
func Mul(p, q Poly) Poly {
	if len(p) == 0 || len(q) == 0 {
		return nil
	}
	r := make(Poly, len(p)+len(q)-1)
	for i, a := range p {
		for j, b := range q {
			r[i+j] += a * b
		}
	}
	return r.Trim()
}

// Derivative returns dp/dt.
func (p Poly) Derivative() Poly {
	if len(p) < 2 {
		return nil
	}
	r := make(Poly, len(p)-1)
	for k := 1; k < len(p); k++ {
		r[k-1] = float64(k) * p[k]
	}
	return r.Trim()
}

// Compose returns p(q(t)).
func Compose(p, q Poly) Poly {
	var r Poly
	for k := len(p) - 1; k >= 0; k-- {
		r = Add(Mul(r, q), Poly{p[k]})
	}
	return r
}

// Expr returns p as a polynomial expression in x_v with constant
// coefficients. The zero polynomial is the constant 0. It panics if a
// coefficient is not finite.
func (p Poly) Expr(v uint) expr.Expr {
	p = p.Trim()
	if len(p) == 0 {
		return expr.C(0)
	}
	cs := make([]expr.Expr, len(p))
	for k, c := range p {
		cs[k] = expr.C(c)
	}
	e, err := expr.NewPoly(v, cs...)
	if err != nil {
		panic(err)
	}
	return e
}

func (p Poly) String() string {
	if len(p) == 0 {
		return "0"
	}
	var s []string
	for k, c := range p {
		switch k {
		case 0:
			s = append(s, fmt.Sprint(c))
		case 1:
			s = append(s, fmt.Sprintf("%v*t", c))
		default:
			s = append(s, fmt.Sprintf("%v*t^%d", c, k))
		}
	}
	return strings.Join(s, " + ")
}

// Legendre returns the Legendre polynomial L_n, computed with Bonnet's
// recurrence (k+1) L_{k+1} = (2k+1) t L_k - k L_{k-1}.
func Legendre(n int) Poly {
	if n < 0 {
		panic(fmt.Sprintf("negative Legendre degree %d", n))
	}
	prev, cur := Poly{1}, Poly{0, 1}
	if n == 0 {
		return prev
	}
	for k := 1; k < n; k++ {
		next := Add(Mul(Poly{0, float64(2*k + 1)}, cur), prev.Scale(-float64(k)))
		prev, cur = cur, next.Scale(1/float64(k+1))
	}
	return cur
}

// Rodrigues returns L_n from Rodrigues' formula,
// L_n = 1/(2^n n!) d^n/dt^n (t^2 - 1)^n.
func Rodrigues(n int) Poly {
	p := Poly{1}
	for i := 0; i < n; i++ {
		p = Mul(p, Poly{-1, 0, 1})
	}
	scale := 1.0
	for i := 1; i <= n; i++ {
		p = p.Derivative()
		scale *= 2 * float64(i)
	}
	return p.Scale(1 / scale)
}
