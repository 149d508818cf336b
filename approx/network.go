package approx

import (
	"fmt"
	"math"
	"math/rand"

	log "github.com/sirupsen/logrus"

	"zappem.net/pub/math/calc/diff"
	"zappem.net/pub/math/calc/expr"
	"zappem.net/pub/math/calc/simplify"
)

// Activation is the nonlinearity applied by hidden neurons.
type Activation int

const (
	// Sigmoid is 1/(1 + exp(-z)).
	Sigmoid Activation = iota
	// Tanh is the hyperbolic tangent written with exponentials.
	Tanh
	// Softplus is log(1 + exp(z)).
	Softplus
)

var activationNames = map[Activation]string{
	Sigmoid:  "sigmoid",
	Tanh:     "tanh",
	Softplus: "softplus",
}

func (a Activation) String() string {
	if s, ok := activationNames[a]; ok {
		return s
	}
	return fmt.Sprintf("activation(%d)", int(a))
}

// ParseActivation returns the activation with the given name.
func ParseActivation(name string) (Activation, error) {
	for a, s := range activationNames {
		if s == name {
			return a, nil
		}
	}
	return 0, fmt.Errorf("unknown activation %q", name)
}

// Expr returns the activation as an expression in x_0.
func (a Activation) Expr() expr.Expr {
	z := expr.X(0)
	one := expr.C(1)
	switch a {
	case Sigmoid:
		return expr.NewDiv(one, expr.Plus(one, expr.NewExp(expr.NewNeg(z))))
	case Tanh:
		ez, emz := expr.NewExp(z), expr.NewExp(expr.NewNeg(z))
		return expr.NewDiv(expr.Plus(ez, expr.NewNeg(emz)), expr.Plus(ez, emz))
	case Softplus:
		return expr.NewLog(expr.Plus(one, expr.NewExp(z)))
	}
	panic(fmt.Sprintf("unknown %v", a))
}

// NeuralNet fits a fully connected network with one input, one linear
// output and hidden layers of the given widths (a single layer of 8
// neurons if Layers is empty). Weights are drawn uniformly from
// (-1, 1) by a generator seeded with Seed, so equal parameters give
// equal results. Training is full batch gradient descent on the mean
// squared error at Samples equally spaced points. The derivative of
// the activation used by backpropagation is computed symbolically.
// Training stops as for GradientDescent.
type NeuralNet struct {
	Layers       []int
	Activation   Activation
	LearningRate float64
	Iterations   int
	Tolerance    float64
	Samples      int
	Seed         int64
}

// layer is an affine map. w[j] holds the input weights of neuron j
// followed by its bias.
type layer struct {
	w [][]float64
}

func (l layer) clone() layer {
	c := layer{w: make([][]float64, len(l.w))}
	for j, r := range l.w {
		c.w[j] = append([]float64(nil), r...)
	}
	return c
}

// apply returns the pre-activations W*in + b.
func (l layer) apply(in []float64) []float64 {
	out := make([]float64, len(l.w))
	for j, r := range l.w {
		z := r[len(in)]
		for k, x := range in {
			z += r[k] * x
		}
		out[j] = z
	}
	return out
}

// network is a stack of layers; the last one is the linear output.
type network struct {
	layers []layer
	act    func(float64) (float64, error)
	dact   func(float64) (float64, error)
}

// evaluator compiles a univariate expression in x_0 into a function.
func evaluator(e expr.Expr) func(float64) (float64, error) {
	b := expr.Binding{0: 0}
	return func(z float64) (float64, error) {
		b[0] = z
		return expr.Evaluate(e, b)
	}
}

// forward returns the pre-activations zs and activations as of every
// layer for input u. as[0] is the input itself.
func (n *network) forward(u float64) (zs, as [][]float64, err error) {
	a := []float64{u}
	as = append(as, a)
	for i, l := range n.layers {
		z := l.apply(a)
		zs = append(zs, z)
		if i == len(n.layers)-1 {
			as = append(as, z)
			break
		}
		a = make([]float64, len(z))
		for j, v := range z {
			if a[j], err = n.act(v); err != nil {
				return nil, nil, err
			}
		}
		as = append(as, a)
	}
	return zs, as, nil
}

func (m NeuralNet) approximate(t Target, d Domain) (expr.Expr, error) {
	widths := m.Layers
	if len(widths) == 0 {
		widths = []int{8}
	}
	for _, w := range widths {
		if w < 1 {
			return nil, fmt.Errorf("%w: layer width %d", ErrInvalidDomain, w)
		}
	}
	if _, ok := activationNames[m.Activation]; !ok {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDomain, m.Activation)
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

	sigma := m.Activation.Expr()
	dsigma := simplify.Simplify(diff.Differentiate(sigma, 0))
	log.Debugf("network: %v activation %v, derivative %v", m.Activation, sigma, dsigma)
	n := &network{act: evaluator(sigma), dact: evaluator(dsigma)}

	rng := rand.New(rand.NewSource(m.Seed))
	in := 1
	for _, w := range append(append([]int(nil), widths...), 1) {
		l := layer{w: make([][]float64, w)}
		for j := range l.w {
			l.w[j] = make([]float64, in+1)
			for k := range l.w[j] {
				l.w[j][k] = 2*rng.Float64() - 1
			}
		}
		n.layers = append(n.layers, l)
		in = w
	}

	var (
		best     = n.snapshot()
		bestLoss = math.Inf(1)
		prev     = math.Inf(1)
		done     bool
	)
	for it := 0; it < tr.iters; it++ {
		grads, loss, err := n.gradients(ts, ys)
		if err != nil {
			return nil, err
		}
		if !finite(loss) {
			log.Debugf("network: loss diverged at iteration %d", it)
			break
		}
		if loss < bestLoss && n.finite() {
			bestLoss = loss
			best = n.snapshot()
		}
		if it%logEvery == 0 {
			log.Debugf("network: iteration %d loss %g", it, loss)
		}
		if settled(prev, loss, tr.tol) {
			done = true
			break
		}
		prev = loss
		for i, l := range n.layers {
			for j, r := range l.w {
				for k := range r {
					r[k] -= tr.rate * grads[i][j][k]
				}
			}
		}
	}

	e := build(best, sigma, d)
	if !done {
		return e, fmt.Errorf("%w: loss %g after %d iterations", ErrNonConvergence, bestLoss, tr.iters)
	}
	log.Debugf("network: converged, loss %g", bestLoss)
	return e, nil
}

// finite reports whether every weight is a finite number. A saturated
// activation can hide an infinite weight from the loss.
func (n *network) finite() bool {
	for _, l := range n.layers {
		for _, r := range l.w {
			for _, w := range r {
				if !finite(w) {
					return false
				}
			}
		}
	}
	return true
}

func (n *network) snapshot() []layer {
	ls := make([]layer, len(n.layers))
	for i, l := range n.layers {
		ls[i] = l.clone()
	}
	return ls
}

// gradients returns the gradient of the mean squared error with
// respect to every weight, in the shape of the layers, and the loss.
func (n *network) gradients(ts, ys []float64) ([][][]float64, float64, error) {
	grads := make([][][]float64, len(n.layers))
	for i, l := range n.layers {
		grads[i] = make([][]float64, len(l.w))
		for j, r := range l.w {
			grads[i][j] = make([]float64, len(r))
		}
	}
	scale := 2 / float64(len(ts))
	loss := 0.0
	for s, u := range ts {
		zs, as, err := n.forward(u)
		if err != nil {
			return nil, 0, err
		}
		last := len(n.layers) - 1
		r := as[last+1][0] - ys[s]
		loss += r * r

		// delta[j] is d(loss)/d(z_j) for the current layer.
		delta := []float64{scale * r}
		for i := last; i >= 0; i-- {
			a := as[i]
			for j, dj := range delta {
				g := grads[i][j]
				for k, x := range a {
					g[k] += dj * x
				}
				g[len(a)] += dj
			}
			if i == 0 {
				break
			}
			prev := make([]float64, len(a))
			for k := range prev {
				sum := 0.0
				for j, dj := range delta {
					sum += n.layers[i].w[j][k] * dj
				}
				ds, err := n.dact(zs[i-1][k])
				if err != nil {
					return nil, 0, err
				}
				prev[k] = sum * ds
			}
			delta = prev
		}
	}
	return grads, loss / float64(len(ts)), nil
}

// affine returns w . in + bias as an expression.
func affine(r []float64, in []expr.Expr) expr.Expr {
	terms := make([]expr.Expr, 0, len(in)+1)
	for k, x := range in {
		terms = append(terms, expr.Times(expr.C(r[k]), x))
	}
	terms = append(terms, expr.C(r[len(in)]))
	return expr.Plus(terms...)
}

// build writes the network out as an expression in x_0.
func build(ls []layer, sigma expr.Expr, d Domain) expr.Expr {
	in := []expr.Expr{d.toUnitExpr()}
	for i, l := range ls {
		out := make([]expr.Expr, len(l.w))
		for j, r := range l.w {
			z := affine(r, in)
			if i == len(ls)-1 {
				out[j] = z
				continue
			}
			out[j] = expr.Substitute(sigma, map[uint]expr.Expr{0: z})
		}
		in = out
	}
	return in[0]
}
