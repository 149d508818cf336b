// Package diff computes symbolic partial derivatives.
//
// Differentiate is a purely structural transform: it never evaluates
// numbers and never simplifies, so its output for a given input is
// predictable. Callers normally pass the result to simplify.Simplify
// to keep repeated derivatives from growing without bound.
package diff

import (
	"fmt"

	"zappem.net/pub/math/calc/expr"
	"zappem.net/pub/math/calc/simplify"
)

var (
	zero = expr.C(0)
	one  = expr.C(1)
)

// plus returns the sum of es, collapsing zero or one operands.
func plus(es ...expr.Expr) expr.Expr {
	switch len(es) {
	case 0:
		return zero
	case 1:
		return es[0]
	}
	return expr.Plus(es...)
}

// Differentiate returns the partial derivative of e with respect to
// x_i.
func Differentiate(e expr.Expr, i uint) expr.Expr {
	switch x := e.(type) {
	case *expr.Var:
		if x.Index() == i {
			return one
		}
		return zero
	case *expr.Const:
		return zero
	case *expr.Add:
		args := x.Args()
		for j, a := range args {
			args[j] = Differentiate(a, i)
		}
		return expr.Plus(args...)
	case *expr.Neg:
		return expr.NewNeg(Differentiate(x.Arg(), i))
	case *expr.Mul:
		return productRule(x.Args(), i)
	case *expr.Div:
		f, g := x.Num(), x.Den()
		return expr.NewDiv(
			expr.Plus(
				expr.Times(Differentiate(f, i), g),
				expr.NewNeg(expr.Times(f, Differentiate(g, i))),
			),
			expr.NewPow(g, 2),
		)
	case *expr.Func:
		return chain(x, i)
	case *expr.Pow:
		k := x.Exp()
		if k == 0 {
			return zero
		}
		g := x.Base()
		return expr.Times(expr.C(float64(k)), expr.NewPow(g, k-1), Differentiate(g, i))
	case *expr.Poly:
		return polynomial(x, i)
	case *expr.Sum:
		if x.Var() == i {
			return zero
		}
		start, end := x.Range()
		s, _ := expr.NewSum(x.Var(), start, end, Differentiate(x.Body(), i))
		return s
	case *expr.Prod:
		if x.Var() == i {
			return zero
		}
		return productRule(unroll(x), i)
	}
	panic(fmt.Sprintf("unknown expression node %T", e))
}

// productRule applies the generalized product rule: the sum over
// operands of the product with that operand replaced by its
// derivative.
func productRule(fs []expr.Expr, i uint) expr.Expr {
	switch len(fs) {
	case 0:
		return zero
	case 1:
		return Differentiate(fs[0], i)
	}
	terms := make([]expr.Expr, len(fs))
	for j := range fs {
		t := append([]expr.Expr(nil), fs...)
		t[j] = Differentiate(fs[j], i)
		terms[j] = expr.Times(t...)
	}
	return expr.Plus(terms...)
}

// unroll expands a Prod into its factors, one per value of the bound
// variable.
func unroll(p *expr.Prod) []expr.Expr {
	start, end := p.Range()
	var fs []expr.Expr
	for j := start; j <= end; j++ {
		fs = append(fs, expr.Fix(p.Body(), p.Var(), float64(j)))
	}
	return fs
}

// chain differentiates f(g) as f'(g)*g'.
func chain(f *expr.Func, i uint) expr.Expr {
	g := f.Arg()
	dg := Differentiate(g, i)
	switch f.Kind() {
	case expr.KindSin:
		return expr.Times(expr.NewCos(g), dg)
	case expr.KindCos:
		return expr.Times(expr.NewNeg(expr.NewSin(g)), dg)
	case expr.KindTan:
		return expr.Times(expr.NewDiv(one, expr.NewPow(expr.NewCos(g), 2)), dg)
	case expr.KindExp:
		return expr.Times(expr.NewExp(g), dg)
	case expr.KindLog:
		return expr.NewDiv(dg, g)
	}
	panic(fmt.Sprintf("%v is not a function kind", f.Kind()))
}

// polynomial differentiates p. In its own variable the coefficient of
// degree k contributes k*c_k at degree k-1; in any other variable
// each coefficient is differentiated.
func polynomial(p *expr.Poly, i uint) expr.Expr {
	cs := p.Coeffs()
	dcs := make([]expr.Expr, len(cs))
	depends := false
	for k, c := range cs {
		if expr.Depends(c, i) {
			depends = true
			dcs[k] = Differentiate(c, i)
		} else {
			dcs[k] = zero
		}
	}
	var coeffs expr.Expr
	if depends {
		coeffs, _ = expr.NewPoly(p.Var(), dcs...)
	}
	if p.Var() != i {
		if coeffs == nil {
			return zero
		}
		return coeffs
	}
	if len(cs) == 1 {
		return plus(nonNil(coeffs)...)
	}
	shifted := make([]expr.Expr, len(cs)-1)
	for k := 1; k < len(cs); k++ {
		shifted[k-1] = scale(float64(k), cs[k])
	}
	dp, _ := expr.NewPoly(p.Var(), shifted...)
	return plus(append([]expr.Expr{dp}, nonNil(coeffs)...)...)
}

// scale returns k*c, folding the product when c is a number.
func scale(k float64, c expr.Expr) expr.Expr {
	if v, ok := c.(*expr.Const); ok {
		if f, err := expr.NewConst(k * v.Value()); err == nil {
			return f
		}
	}
	if k == 1 {
		return c
	}
	return expr.Times(expr.C(k), c)
}

func nonNil(e expr.Expr) []expr.Expr {
	if e == nil {
		return nil
	}
	return []expr.Expr{e}
}

// Nth returns the n-th partial derivative of e with respect to x_i,
// simplifying after every step.
func Nth(e expr.Expr, i uint, n int) expr.Expr {
	e = simplify.Simplify(e)
	for ; n > 0; n-- {
		e = simplify.Simplify(Differentiate(e, i))
	}
	return e
}

// Gradient returns the simplified partial derivatives of e with
// respect to x_0 .. x_{n-1}.
func Gradient(e expr.Expr, n uint) []expr.Expr {
	g := make([]expr.Expr, n)
	for i := range g {
		g[i] = simplify.Simplify(Differentiate(e, uint(i)))
	}
	return g
}
