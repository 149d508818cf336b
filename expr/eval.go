package expr

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrUndefinedVariable indicates a variable with no binding.
	ErrUndefinedVariable = errors.New("undefined variable")
	// ErrDivisionByZero indicates a zero denominator, including a
	// zero base raised to a negative power.
	ErrDivisionByZero = errors.New("division by zero")
	// ErrDomain indicates a function argument outside its domain.
	ErrDomain = errors.New("domain error")
)

// Binding maps variable indices to values.
type Binding map[uint]float64

// At returns the binding x_0 = xs[0], x_1 = xs[1], ...
func At(xs ...float64) Binding {
	b := make(Binding, len(xs))
	for i, x := range xs {
		b[uint(i)] = x
	}
	return b
}

// scope resolves variables, innermost Sum/Prod bound variable first.
type scope struct {
	b     Binding
	v     uint
	x     float64
	outer *scope
}

func (s *scope) lookup(i uint) (float64, bool) {
	for ; s != nil; s = s.outer {
		if s.outer == nil {
			x, ok := s.b[i]
			return x, ok
		}
		if s.v == i {
			return s.x, true
		}
	}
	return 0, false
}

// Evaluate computes the value of e with the variables bound by b.
// It fails with ErrUndefinedVariable, ErrDivisionByZero or ErrDomain.
func Evaluate(e Expr, b Binding) (float64, error) {
	return eval(e, &scope{b: b})
}

func eval(e Expr, s *scope) (float64, error) {
	switch x := e.(type) {
	case *Var:
		v, ok := s.lookup(x.index)
		if !ok {
			return 0, fmt.Errorf("%w: x_%d", ErrUndefinedVariable, x.index)
		}
		return v, nil
	case *Const:
		return x.value, nil
	case *Add:
		total := 0.0
		for _, a := range x.args {
			v, err := eval(a, s)
			if err != nil {
				return 0, err
			}
			total += v
		}
		return total, nil
	case *Mul:
		total := 1.0
		for _, a := range x.args {
			v, err := eval(a, s)
			if err != nil {
				return 0, err
			}
			total *= v
		}
		return total, nil
	case *Neg:
		v, err := eval(x.arg, s)
		return -v, err
	case *Div:
		n, err := eval(x.num, s)
		if err != nil {
			return 0, err
		}
		d, err := eval(x.den, s)
		if err != nil {
			return 0, err
		}
		if d == 0 {
			return 0, fmt.Errorf("%w: %v", ErrDivisionByZero, x)
		}
		return n / d, nil
	case *Func:
		v, err := eval(x.arg, s)
		if err != nil {
			return 0, err
		}
		return apply(x.kind, v)
	case *Pow:
		v, err := eval(x.base, s)
		if err != nil {
			return 0, err
		}
		r, ok := IntPow(v, x.exp)
		if !ok {
			return 0, fmt.Errorf("%w: %v", ErrDivisionByZero, x)
		}
		return r, nil
	case *Poly:
		t, ok := s.lookup(x.v)
		if !ok {
			return 0, fmt.Errorf("%w: x_%d", ErrUndefinedVariable, x.v)
		}
		// Horner's scheme.
		total := 0.0
		for k := len(x.coeffs) - 1; k >= 0; k-- {
			c, err := eval(x.coeffs[k], s)
			if err != nil {
				return 0, err
			}
			total = total*t + c
		}
		return total, nil
	case *Sum:
		total := 0.0
		for j := x.start; j <= x.end; j++ {
			v, err := eval(x.body, &scope{v: x.v, x: float64(j), outer: s})
			if err != nil {
				return 0, err
			}
			total += v
		}
		return total, nil
	case *Prod:
		total := 1.0
		for j := x.start; j <= x.end; j++ {
			v, err := eval(x.body, &scope{v: x.v, x: float64(j), outer: s})
			if err != nil {
				return 0, err
			}
			total *= v
		}
		return total, nil
	}
	panic(fmt.Sprintf("unknown expression node %T", e))
}

// apply evaluates the unary function k at v.
func apply(k Kind, v float64) (float64, error) {
	switch k {
	case KindSin:
		return math.Sin(v), nil
	case KindCos:
		return math.Cos(v), nil
	case KindTan:
		return math.Tan(v), nil
	case KindExp:
		return math.Exp(v), nil
	case KindLog:
		if v <= 0 {
			return 0, fmt.Errorf("%w: log(%v)", ErrDomain, v)
		}
		return math.Log(v), nil
	}
	panic(fmt.Sprintf("%v is not a function kind", k))
}

// IntPow computes x^k by repeated squaring. A negative k yields the
// reciprocal; it returns false when x is zero and k is negative.
func IntPow(x float64, k int) (float64, bool) {
	neg := k < 0
	n := k
	if neg {
		if x == 0 {
			return 0, false
		}
		n = -k
	}
	r := 1.0
	for b := x; n > 0; n >>= 1 {
		if n&1 == 1 {
			r *= b
		}
		b *= b
	}
	if neg {
		return 1 / r, true
	}
	return r, true
}
