// Package integrate approximates definite integrals numerically.
//
// All rules sample the integrand at equally spaced points of the
// closed interval [a, b]. A failure to evaluate the integrand at any
// sample point aborts the integration and is returned to the caller.
package integrate

import (
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"zappem.net/pub/math/calc/expr"
)

var (
	// ErrInterval indicates an interval with a > b.
	ErrInterval = errors.New("invalid interval")
	// ErrSubintervals indicates a composite rule with fewer than one
	// subinterval.
	ErrSubintervals = errors.New("invalid subinterval count")
)

type ruleKind int

const (
	midpoint ruleKind = iota
	trapezoidal
)

// Rule is a quadrature rule. Build one with the functions below; the
// zero value has no subintervals and is rejected.
type Rule struct {
	kind ruleKind
	n    int
}

// Midpoint evaluates once at (a+b)/2 and scales by b-a.
func Midpoint() Rule {
	return Rule{kind: midpoint, n: 1}
}

// Trapezoidal averages the endpoint values and scales by b-a.
func Trapezoidal() Rule {
	return Rule{kind: trapezoidal, n: 1}
}

// CompositeTrapezoidal applies the trapezoidal rule on each of n equal
// subintervals. Its error falls as 1/n^2 for twice differentiable
// integrands.
func CompositeTrapezoidal(n int) Rule {
	return Rule{kind: trapezoidal, n: n}
}

// CompositeMidpoint applies the midpoint rule on each of n equal
// subintervals.
func CompositeMidpoint(n int) Rule {
	return Rule{kind: midpoint, n: n}
}

// Subintervals returns the number of subintervals the rule uses.
func (r Rule) Subintervals() int {
	return r.n
}

func (r Rule) String() string {
	name := "midpoint"
	if r.kind == trapezoidal {
		name = "trapezoidal"
	}
	if n := r.Subintervals(); n != 1 {
		return fmt.Sprintf("composite %s(%d)", name, n)
	}
	return name
}

// Integrand is a univariate function that may fail to evaluate.
type Integrand func(x float64) (float64, error)

// Func integrates f over [a, b] with rule r.
func Func(f Integrand, r Rule, a, b float64) (float64, error) {
	if a > b {
		return 0, fmt.Errorf("%w: [%v, %v]", ErrInterval, a, b)
	}
	n := r.Subintervals()
	if n < 1 {
		return 0, fmt.Errorf("%w: %d", ErrSubintervals, n)
	}
	delta := (b - a) / float64(n)
	at := func(x float64) (float64, error) {
		y, err := f(x)
		if err != nil {
			return 0, fmt.Errorf("integrand at x=%v: %w", x, err)
		}
		return y, nil
	}

	total := 0.0
	switch r.kind {
	case midpoint:
		for i := 0; i < n; i++ {
			y, err := at(a + delta*(float64(i)+0.5))
			if err != nil {
				return 0, err
			}
			total += y
		}
	case trapezoidal:
		for i := 0; i <= n; i++ {
			y, err := at(a + delta*float64(i))
			if err != nil {
				return 0, err
			}
			if i == 0 || i == n {
				y /= 2
			}
			total += y
		}
	}
	return total * delta, nil
}

// Along integrates e over x_i from a to b with the other variables
// taken from at.
func Along(e expr.Expr, i uint, at expr.Binding, r Rule, a, b float64) (float64, error) {
	b2 := make(expr.Binding, len(at)+1)
	for k, v := range at {
		b2[k] = v
	}
	f := func(x float64) (float64, error) {
		b2[i] = x
		return expr.Evaluate(e, b2)
	}
	v, err := Func(f, r, a, b)
	if err == nil {
		log.Debugf("integrate %v over x_%d in [%v, %v] by %v = %v", e, i, a, b, r, v)
	}
	return v, err
}

// Integrate integrates e, a function of x_0, over [a, b].
func Integrate(e expr.Expr, r Rule, a, b float64) (float64, error) {
	return Along(e, 0, nil, r, a, b)
}

// InnerProduct returns the integral of f*g over [a, b], both
// functions of x_0, by the composite trapezoidal rule with n
// subintervals.
func InnerProduct(f, g expr.Expr, a, b float64, n int) (float64, error) {
	return Integrate(expr.Times(f, g), CompositeTrapezoidal(n), a, b)
}

// InnerProductFunc is InnerProduct for opaque functions.
func InnerProductFunc(f, g Integrand, a, b float64, n int) (float64, error) {
	fg := func(x float64) (float64, error) {
		u, err := f(x)
		if err != nil {
			return 0, err
		}
		v, err := g(x)
		if err != nil {
			return 0, err
		}
		return u * v, nil
	}
	return Func(fg, CompositeTrapezoidal(n), a, b)
}
