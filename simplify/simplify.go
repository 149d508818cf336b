// Package simplify rewrites expressions into an equivalent canonical
// form.
//
// Simplification is total: an expression to which no rule applies is
// returned as is. The rules are applied bottom-up, and the pass is
// repeated until the expression stops changing, so that
//
//	Simplify(Simplify(e)) == Simplify(e)
//
// Operands of sums and products are sorted with expr.Compare.
// Wherever e is defined, Simplify(e) evaluates to the same value up to
// rounding. The converse does not hold: x*0 simplifies to 0 which is
// also defined where x is not.
package simplify

import (
	log "github.com/sirupsen/logrus"

	"zappem.net/pub/math/calc/expr"
)

// maxPasses bounds the fixed point iteration.
const maxPasses = 32

// Simplify returns the canonical form of e.
func Simplify(e expr.Expr) expr.Expr {
	for i := 0; i < maxPasses; i++ {
		next := pass(e)
		if expr.Equal(next, e) {
			return next
		}
		e = next
	}
	log.Debugf("simplify: no fixed point after %d passes: %v", maxPasses, e)
	return e
}

// pass simplifies the children of e and then e itself.
func pass(e expr.Expr) expr.Expr {
	switch x := e.(type) {
	case *expr.Var, *expr.Const:
		return e
	case *expr.Add:
		return sum(passAll(x.Args()))
	case *expr.Mul:
		return product(passAll(x.Args()))
	case *expr.Neg:
		return product([]expr.Expr{expr.C(-1), pass(x.Arg())})
	case *expr.Div:
		return quotient(pass(x.Num()), pass(x.Den()))
	case *expr.Func:
		return function(x.Kind(), pass(x.Arg()))
	case *expr.Pow:
		return power(pass(x.Base()), x.Exp())
	case *expr.Poly:
		return polynomial(x.Var(), passAll(x.Coeffs()))
	case *expr.Sum:
		start, end := x.Range()
		return series(true, x.Var(), start, end, pass(x.Body()))
	case *expr.Prod:
		start, end := x.Range()
		return series(false, x.Var(), start, end, pass(x.Body()))
	}
	panic("unknown expression node")
}

func passAll(es []expr.Expr) []expr.Expr {
	for i, e := range es {
		es[i] = pass(e)
	}
	return es
}

// constant returns the value of e if it is a number.
func constant(e expr.Expr) (float64, bool) {
	if c, ok := e.(*expr.Const); ok {
		return c.Value(), true
	}
	return 0, false
}

// quotient simplifies num/den.
func quotient(num, den expr.Expr) expr.Expr {
	d, dok := constant(den)
	n, nok := constant(num)
	switch {
	case dok && d == 0:
		return expr.NewDiv(num, den)
	case dok && nok:
		if !finite(n / d) {
			return expr.NewDiv(num, den)
		}
		return expr.C(n / d)
	case dok && d == 1:
		return num
	case dok:
		if !finite(1 / d) {
			return expr.NewDiv(num, den)
		}
		return product([]expr.Expr{expr.C(1 / d), num})
	case nok && n == 0:
		return expr.C(0)
	case expr.Equal(num, den):
		return expr.C(1)
	}
	return expr.NewDiv(num, den)
}

// function simplifies the unary function k applied to arg.
func function(k expr.Kind, arg expr.Expr) expr.Expr {
	f := expr.NewFunc(k, arg)
	if _, ok := constant(arg); ok {
		if v, err := expr.Evaluate(f, nil); err == nil && finite(v) {
			return expr.C(v)
		}
		return f
	}
	if inner, ok := arg.(*expr.Func); ok {
		switch {
		case k == expr.KindLog && inner.Kind() == expr.KindExp:
			return inner.Arg()
		case k == expr.KindExp && inner.Kind() == expr.KindLog:
			return inner.Arg()
		}
	}
	return f
}

// power simplifies base^k.
func power(base expr.Expr, k int) expr.Expr {
	switch k {
	case 0:
		return expr.C(1)
	case 1:
		return base
	}
	if b, ok := constant(base); ok {
		if v, ok := expr.IntPow(b, k); ok && finite(v) {
			return expr.C(v)
		}
		return expr.NewPow(base, k)
	}
	if p, ok := base.(*expr.Pow); ok {
		return power(p.Base(), p.Exp()*k)
	}
	return expr.NewPow(base, k)
}

// series simplifies a Sum (or Prod) over x_v = start..end.
func series(isSum bool, v uint, start, end int, body expr.Expr) expr.Expr {
	n := end - start + 1
	switch {
	case n <= 0 && isSum:
		return expr.C(0)
	case n <= 0:
		return expr.C(1)
	case !expr.Depends(body, v) && isSum:
		return product([]expr.Expr{expr.C(float64(n)), body})
	case !expr.Depends(body, v):
		return power(body, n)
	}
	var e expr.Expr
	if isSum {
		e, _ = expr.NewSum(v, start, end, body)
	} else {
		e, _ = expr.NewProd(v, start, end, body)
	}
	return e
}
