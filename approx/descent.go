package approx

import (
	"fmt"
	"math"

	log "github.com/sirupsen/logrus"

	"zappem.net/pub/math/calc/expr"
	"zappem.net/pub/math/calc/poly"
	"zappem.net/pub/math/calc/simplify"
)

// Defaults for the iterative methods, used when a field is zero.
const (
	DefaultLearningRate = 0.1
	DefaultIterations   = 1000
	DefaultTolerance    = 1e-10
	DefaultSamples      = 200
)

// logEvery is the iteration interval of debug progress messages.
const logEvery = 100

// training holds the loop controls shared by the iterative methods.
type training struct {
	rate  float64
	iters int
	tol   float64
	m     int
}

func newTraining(rate float64, iters int, tol float64, samples int) (training, error) {
	tr := training{rate: rate, iters: iters, tol: tol, m: samples}
	if tr.rate == 0 {
		tr.rate = DefaultLearningRate
	}
	if tr.iters == 0 {
		tr.iters = DefaultIterations
	}
	if tr.tol == 0 {
		tr.tol = DefaultTolerance
	}
	if tr.m == 0 {
		tr.m = DefaultSamples
	}
	switch {
	case tr.rate < 0 || !finite(tr.rate):
		return tr, fmt.Errorf("%w: learning rate %v", ErrInvalidDomain, tr.rate)
	case tr.iters < 0:
		return tr, fmt.Errorf("%w: %d iterations", ErrInvalidDomain, tr.iters)
	case tr.tol < 0:
		return tr, fmt.Errorf("%w: tolerance %v", ErrInvalidDomain, tr.tol)
	case tr.m < 2:
		return tr, fmt.Errorf("%w: %d samples", ErrInvalidDomain, tr.m)
	}
	return tr, nil
}

// GradientDescent fits a polynomial of the given degree by minimizing
// the mean squared error at Samples equally spaced points with plain
// gradient descent. Coefficients start at zero. Training stops once
// an iteration improves the loss by less than Tolerance, or after
// Iterations steps, in which case the best polynomial seen is
// returned along with ErrNonConvergence.
type GradientDescent struct {
	Degree       int
	LearningRate float64
	Iterations   int
	Tolerance    float64
	Samples      int
}

func (m GradientDescent) approximate(t Target, d Domain) (expr.Expr, error) {
	if m.Degree < 0 {
		return nil, fmt.Errorf("%w: degree %d", ErrInvalidDomain, m.Degree)
	}
	tr, err := newTraining(m.LearningRate, m.Iterations, m.Tolerance, m.Samples)
	if err != nil {
		return nil, err
	}
	ts := grid(tr.m)
	ys, err := sample(t, d, ts)
	if err != nil {
		return nil, err
	}

	// powers[i][k] = ts[i]^k
	powers := make([][]float64, len(ts))
	for i, u := range ts {
		powers[i] = make([]float64, m.Degree+1)
		x := 1.0
		for k := range powers[i] {
			powers[i][k] = x
			x *= u
		}
	}

	var (
		coeffs   = make(poly.Poly, m.Degree+1)
		best     = append(poly.Poly(nil), coeffs...)
		bestLoss = math.Inf(1)
		prev     = math.Inf(1)
		grad     = make([]float64, len(coeffs))
		done     bool
	)
	for it := 0; it < tr.iters; it++ {
		for k := range grad {
			grad[k] = 0
		}
		loss := 0.0
		for i, u := range ts {
			r := coeffs.Eval(u) - ys[i]
			loss += r * r
			for k := range grad {
				grad[k] += r * powers[i][k]
			}
		}
		loss /= float64(len(ts))
		if !finite(loss) {
			log.Debugf("descent: loss diverged at iteration %d", it)
			break
		}
		if loss < bestLoss {
			bestLoss = loss
			copy(best, coeffs)
		}
		if it%logEvery == 0 {
			log.Debugf("descent: iteration %d loss %g", it, loss)
		}
		if settled(prev, loss, tr.tol) {
			done = true
			break
		}
		prev = loss
		for k := range coeffs {
			coeffs[k] -= tr.rate * 2 * grad[k] / float64(len(ts))
		}
	}

	e := simplify.Simplify(poly.Compose(best, d.toUnit()).Expr(0))
	if !done {
		return e, fmt.Errorf("%w: loss %g after %d iterations", ErrNonConvergence, bestLoss, tr.iters)
	}
	log.Debugf("descent: converged, loss %g", bestLoss)
	return e, nil
}
