package approx

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"zappem.net/pub/math/calc/expr"
	"zappem.net/pub/math/calc/integrate"
	"zappem.net/pub/math/calc/poly"
	"zappem.net/pub/math/calc/simplify"
)

// DefaultSubintervals is the quadrature resolution used for Legendre
// coefficients when none is given.
const DefaultSubintervals = 1000

// Legendre projects the target onto the Legendre polynomials L_0 ..
// L_Degree. The coefficient of L_k is (2k+1)/2 <f, L_k>, the inner
// product taken over [-1, 1] with the composite trapezoidal rule on
// Subintervals pieces (DefaultSubintervals if zero).
type Legendre struct {
	Degree       int
	Subintervals int
}

func (m Legendre) approximate(t Target, d Domain) (expr.Expr, error) {
	if m.Degree < 0 {
		return nil, fmt.Errorf("%w: degree %d", ErrInvalidDomain, m.Degree)
	}
	n := m.Subintervals
	switch {
	case n == 0:
		n = DefaultSubintervals
	case n < 0:
		return nil, fmt.Errorf("%w: %d subintervals", ErrInvalidDomain, n)
	}
	f := func(u float64) (float64, error) {
		return t.At(d.fromUnit(u))
	}

	var p poly.Poly
	for k := 0; k <= m.Degree; k++ {
		l := poly.Legendre(k)
		ip, err := integrate.InnerProductFunc(f, func(u float64) (float64, error) {
			return l.Eval(u), nil
		}, -1, 1, n)
		if err != nil {
			return nil, err
		}
		c := float64(2*k+1) / 2 * ip
		if !finite(c) {
			return nil, fmt.Errorf("legendre coefficient %d: %w: %v", k, expr.ErrNonFinite, c)
		}
		log.Debugf("legendre: c_%d = %v", k, c)
		p = poly.Add(p, l.Scale(c))
	}
	return simplify.Simplify(poly.Compose(p, d.toUnit()).Expr(0)), nil
}
