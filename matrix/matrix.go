// Package matrix manages matrices of expressions.
package matrix

import (
	"fmt"
	"strings"

	"zappem.net/pub/math/calc/diff"
	"zappem.net/pub/math/calc/expr"
	"zappem.net/pub/math/calc/simplify"
)

type Matrix struct {
	// row count and col count
	rows, cols int
	// The matrix elements arranged, [r=0,c=0], [0,1], [0,2] ...
	// A nil element is zero.
	data []expr.Expr
}

var zero = expr.C(0)

// NewMatrix creates a rows x cols matrix of zeros.
func NewMatrix(rows, cols int) (*Matrix, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("need positive dimensions, not %dx%d", rows, cols)
	}
	m := &Matrix{
		rows: rows,
		cols: cols,
		data: make([]expr.Expr, rows*cols),
	}
	return m, nil
}

// Dims returns the row and column counts.
func (m *Matrix) Dims() (rows, cols int) {
	return m.rows, m.cols
}

// String serializes a matrix for displaying.
func (m *Matrix) String() string {
	var rs []string
	for r := 0; r < m.rows; r++ {
		var cs []string
		for c := 0; c < m.cols; c++ {
			cs = append(cs, m.El(r, c).String())
		}
		rs = append(rs, "["+strings.Join(cs, ", ")+"]")
	}
	return "[" + strings.Join(rs, ", ") + "]"
}

// Set sets the value of a matrix element.
func (m *Matrix) Set(row, col int, e expr.Expr) error {
	if row < 0 || col < 0 || row >= m.rows || col >= m.cols {
		return fmt.Errorf("bad cell: [%d,%d] in %dx%d matrix", row, col, m.rows, m.cols)
	}
	m.data[col+m.cols*row] = e
	return nil
}

// El returns the row,col element of the matrix.
func (m *Matrix) El(row, col int) expr.Expr {
	if e := m.data[col+m.cols*row]; e != nil {
		return e
	}
	return zero
}

// Identity returns a square identity matrix of dimension n.
func Identity(n int) (*Matrix, error) {
	if n <= 0 {
		return nil, fmt.Errorf("invalid identity matrix of dimension n=%d", n)
	}
	m, _ := NewMatrix(n, n)
	for i := 0; i < n; i++ {
		m.Set(i, i, expr.C(1))
	}
	return m, nil
}

// Transpose returns the transpose of a specified matrix.
func (m *Matrix) Transpose() *Matrix {
	n, err := NewMatrix(m.cols, m.rows)
	if err != nil {
		panic(err)
	}
	for i := 0; i < m.rows; i++ {
		for j := 0; j < m.cols; j++ {
			n.Set(j, i, m.data[j+m.cols*i])
		}
	}
	return n
}

// sum returns the simplified sum of es.
func sum(es []expr.Expr) expr.Expr {
	switch len(es) {
	case 0:
		return zero
	case 1:
		return simplify.Simplify(es[0])
	}
	return simplify.Simplify(expr.Plus(es...))
}

// Mul multiplies m x n with conventional matrix multiplication. The
// elements of the product are simplified.
func (m *Matrix) Mul(n *Matrix) (*Matrix, error) {
	if m.cols != n.rows {
		return nil, fmt.Errorf("a cols(%d) != b rows(%d)", m.cols, n.rows)
	}
	a, err := NewMatrix(m.rows, n.cols)
	if err != nil {
		return nil, err
	}
	for r := 0; r < a.rows; r++ {
		for c := 0; c < a.cols; c++ {
			var e []expr.Expr
			for i := 0; i < m.cols; i++ {
				x, y := m.data[i+m.cols*r], n.data[c+n.cols*i]
				if x != nil && y != nil {
					e = append(e, expr.Times(x, y))
				}
			}
			a.Set(r, c, sum(e))
		}
	}
	return a, nil
}

// Mx multiplies two matrices and panics on error.
func (m *Matrix) Mx(n *Matrix) *Matrix {
	a, err := m.Mul(n)
	if err != nil {
		panic(err)
	}
	return a
}

// Sum returns m + scale*n.
func (m *Matrix) Sum(n *Matrix, scale expr.Expr) (*Matrix, error) {
	if m.rows != n.rows || m.cols != n.cols {
		return nil, fmt.Errorf("inequivalent dimensions %dx%d != %dx%d", m.rows, m.cols, n.rows, n.cols)
	}
	a, _ := NewMatrix(m.rows, m.cols)
	for i, p := range m.data {
		var e []expr.Expr
		if p != nil {
			e = append(e, p)
		}
		if q := n.data[i]; q != nil {
			e = append(e, expr.Times(scale, q))
		}
		a.data[i] = sum(e)
	}
	return a, nil
}

// Add adds two matrices, and panics on error.
func (m *Matrix) Add(n *Matrix, scale expr.Expr) *Matrix {
	a, err := m.Sum(n, scale)
	if err != nil {
		panic(err)
	}
	return a
}

// apply returns a matrix with f applied to every element.
func (m *Matrix) apply(f func(expr.Expr) expr.Expr) *Matrix {
	n, _ := NewMatrix(m.rows, m.cols)
	for i := range m.data {
		n.data[i] = f(m.El(i/m.cols, i%m.cols))
	}
	return n
}

// Substitute performs a substitution on all elements of a matrix.
func (m *Matrix) Substitute(s map[uint]expr.Expr) *Matrix {
	return m.apply(func(e expr.Expr) expr.Expr {
		return simplify.Simplify(expr.Substitute(e, s))
	})
}

// Eval evaluates every element with the variables bound by b.
func (m *Matrix) Eval(b expr.Binding) ([][]float64, error) {
	vs := make([][]float64, m.rows)
	for r := range vs {
		vs[r] = make([]float64, m.cols)
		for c := range vs[r] {
			v, err := expr.Evaluate(m.El(r, c), b)
			if err != nil {
				return nil, fmt.Errorf("element [%d,%d]: %w", r, c, err)
			}
			vs[r][c] = v
		}
	}
	return vs, nil
}

// Gradient returns the n x 1 column of partial derivatives of e with
// respect to x_0 .. x_{n-1}.
func Gradient(e expr.Expr, n int) (*Matrix, error) {
	j, err := Jacobian([]expr.Expr{e}, n)
	if err != nil {
		return nil, err
	}
	return j.Transpose(), nil
}

// Jacobian returns the len(es) x n matrix of partial derivatives,
// d es[r] / d x_c.
func Jacobian(es []expr.Expr, n int) (*Matrix, error) {
	m, err := NewMatrix(len(es), n)
	if err != nil {
		return nil, err
	}
	for r, e := range es {
		for c, d := range diff.Gradient(e, uint(n)) {
			m.Set(r, c, d)
		}
	}
	return m, nil
}

// Hessian returns the n x n matrix of second partial derivatives of e.
func Hessian(e expr.Expr, n int) (*Matrix, error) {
	m, err := NewMatrix(n, n)
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		di := simplify.Simplify(diff.Differentiate(e, uint(i)))
		for j := 0; j < n; j++ {
			m.Set(i, j, simplify.Simplify(diff.Differentiate(di, uint(j))))
		}
	}
	return m, nil
}
