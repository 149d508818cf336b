// Package approx builds expressions that approximate a target function
// of one variable over a closed interval.
//
// Three methods are provided: projection onto Legendre polynomials,
// least squares polynomial fitting by gradient descent, and a small
// neural network trained by backpropagation. Each returns an
// expression in x_0.
//
// Internally every method works on the reference interval [-1, 1] and
// maps the result back onto the requested domain with the affine
// change of variable t = (2x - a - b)/(b - a).
package approx

import (
	"errors"
	"fmt"
	"math"

	"zappem.net/pub/math/calc/expr"
	"zappem.net/pub/math/calc/poly"
)

var (
	// ErrNonConvergence indicates an iterative fit ran out of
	// iterations before the loss settled. It is returned together with
	// the best approximation found.
	ErrNonConvergence = errors.New("no convergence")
	// ErrInvalidDomain indicates an empty interval or an unusable
	// method parameter.
	ErrInvalidDomain = errors.New("invalid domain")
)

// Target is a function to approximate.
type Target interface {
	At(x float64) (float64, error)
}

// TargetFunc adapts an ordinary function to a Target.
type TargetFunc func(x float64) (float64, error)

// At calls f(x).
func (f TargetFunc) At(x float64) (float64, error) {
	return f(x)
}

type exprTarget struct {
	e expr.Expr
	b expr.Binding
}

func (t *exprTarget) At(x float64) (float64, error) {
	t.b[0] = x
	return expr.Evaluate(t.e, t.b)
}

// Expr returns the expression e, a function of x_0, as a Target.
func Expr(e expr.Expr) Target {
	return &exprTarget{e: e, b: expr.Binding{0: 0}}
}

// Domain is the closed interval [A, B].
type Domain struct {
	A, B float64
}

// Unit is the reference interval [-1, 1].
var Unit = Domain{A: -1, B: 1}

func (d Domain) String() string {
	return fmt.Sprintf("[%v, %v]", d.A, d.B)
}

func (d Domain) check() error {
	if math.IsNaN(d.A) || math.IsNaN(d.B) || math.IsInf(d.A, 0) || math.IsInf(d.B, 0) || d.A >= d.B {
		return fmt.Errorf("%w: %v", ErrInvalidDomain, d)
	}
	return nil
}

// fromUnit maps t in [-1, 1] onto the domain.
func (d Domain) fromUnit(t float64) float64 {
	return (d.A+d.B)/2 + (d.B-d.A)/2*t
}

// toUnit is the inverse of fromUnit as a polynomial in x.
func (d Domain) toUnit() poly.Poly {
	w := d.B - d.A
	return poly.Poly{-(d.A + d.B) / w, 2 / w}
}

// toUnitExpr is toUnit as an expression in x_0.
func (d Domain) toUnitExpr() expr.Expr {
	if d == Unit {
		return expr.X(0)
	}
	p := d.toUnit()
	return expr.Plus(expr.Times(expr.C(p[1]), expr.X(0)), expr.C(p[0]))
}

// grid returns m equally spaced points of [-1, 1], ends included.
func grid(m int) []float64 {
	ts := make([]float64, m)
	for i := range ts {
		ts[i] = -1 + 2*float64(i)/float64(m-1)
	}
	return ts
}

// sample evaluates t at the domain points corresponding to ts.
func sample(t Target, d Domain, ts []float64) ([]float64, error) {
	ys := make([]float64, len(ts))
	for i, u := range ts {
		x := d.fromUnit(u)
		y, err := t.At(x)
		if err != nil {
			return nil, fmt.Errorf("target at x=%v: %w", x, err)
		}
		if !finite(y) {
			return nil, fmt.Errorf("target at x=%v: %w: %v", x, expr.ErrNonFinite, y)
		}
		ys[i] = y
	}
	return ys, nil
}

// Method is one of Legendre, GradientDescent or NeuralNet.
type Method interface {
	approximate(t Target, d Domain) (expr.Expr, error)
}

// Approximate returns an expression in x_0 that approximates t over
// d using method m. When the error wraps ErrNonConvergence the
// returned expression is still the best approximation found.
func Approximate(t Target, m Method, d Domain) (expr.Expr, error) {
	if err := d.check(); err != nil {
		return nil, err
	}
	return m.approximate(t, d)
}

// MSE returns the mean squared difference between e and t at m
// equally spaced points of d.
func MSE(t Target, e expr.Expr, d Domain, m int) (float64, error) {
	if err := d.check(); err != nil {
		return 0, err
	}
	if m < 2 {
		return 0, fmt.Errorf("%w: %d samples", ErrInvalidDomain, m)
	}
	ts := grid(m)
	ys, err := sample(t, d, ts)
	if err != nil {
		return 0, err
	}
	at := expr.Binding{0: 0}
	total := 0.0
	for i, u := range ts {
		at[0] = d.fromUnit(u)
		v, err := expr.Evaluate(e, at)
		if err != nil {
			return 0, err
		}
		total += (v - ys[i]) * (v - ys[i])
	}
	return total / float64(m), nil
}

// settled reports whether a fit whose loss moved from prev to loss
// has converged.
func settled(prev, loss, tol float64) bool {
	improvement := prev - loss
	return improvement >= 0 && improvement < tol
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
