// Package rotation generates rotation matrices with a symbolic angle
// and rotates the axes of functions.
package rotation

import (
	"fmt"
	"math"

	"zappem.net/pub/math/calc/expr"
	"zappem.net/pub/math/calc/matrix"
	"zappem.net/pub/math/calc/simplify"
)

var one = expr.C(1)

// trig returns cos(theta), sin(theta) and -sin(theta).
func trig(theta expr.Expr) (c, s, mS expr.Expr) {
	s = expr.NewSin(theta)
	return expr.NewCos(theta), s, expr.NewNeg(s)
}

// R2 is a matrix for rotating anticlockwise in the plane.
func R2(theta expr.Expr) *matrix.Matrix {
	m, _ := matrix.NewMatrix(2, 2)
	c, s, mS := trig(theta)

	m.Set(0, 0, c)
	m.Set(1, 1, c)

	m.Set(0, 1, mS)
	m.Set(1, 0, s)
	return m
}

// A matrix for rotating anticlockwise around the X-axis.
func RX(theta expr.Expr) *matrix.Matrix {
	m, _ := matrix.NewMatrix(3, 3)
	c, s, mS := trig(theta)

	m.Set(0, 0, one)
	m.Set(1, 1, c)
	m.Set(2, 2, c)

	m.Set(1, 2, mS)
	m.Set(2, 1, s)
	return m
}

// A matrix for rotating anticlockwise around the Y-axis.
func RY(theta expr.Expr) *matrix.Matrix {
	m, _ := matrix.NewMatrix(3, 3)
	c, s, mS := trig(theta)

	m.Set(0, 0, c)
	m.Set(1, 1, one)
	m.Set(2, 2, c)

	m.Set(0, 2, s)
	m.Set(2, 0, mS)

	return m
}

// A matrix for rotating anticlockwise around the Z-axis.
func RZ(theta expr.Expr) *matrix.Matrix {
	m, _ := matrix.NewMatrix(3, 3)
	c, s, mS := trig(theta)

	m.Set(0, 0, c)
	m.Set(1, 1, c)
	m.Set(2, 2, one)

	m.Set(0, 1, mS)
	m.Set(1, 0, s)

	return m
}

// Around returns the 3x3 matrix rotating anticlockwise by theta about
// the direction axis, I + sin(theta) K + (1 - cos(theta)) K^2 where K
// is the cross product matrix of the unit axis.
func Around(theta expr.Expr, axis [3]float64) (*matrix.Matrix, error) {
	norm := math.Sqrt(axis[0]*axis[0] + axis[1]*axis[1] + axis[2]*axis[2])
	if norm == 0 || math.IsNaN(norm) || math.IsInf(norm, 0) {
		return nil, fmt.Errorf("invalid rotation axis %v", axis)
	}
	x, y, z := axis[0]/norm, axis[1]/norm, axis[2]/norm
	k, _ := matrix.NewMatrix(3, 3)
	for _, el := range []struct {
		r, c int
		v    float64
	}{
		{0, 1, -z}, {0, 2, y},
		{1, 0, z}, {1, 2, -x},
		{2, 0, -y}, {2, 1, x},
	} {
		if el.v != 0 {
			k.Set(el.r, el.c, expr.C(el.v))
		}
	}
	id, _ := matrix.Identity(3)
	c, s, _ := trig(theta)
	return id.Add(k, s).Add(k.Mx(k), expr.Plus(one, expr.NewNeg(c))), nil
}

// turn substitutes inverse * (x_axes[0], x_axes[1], ...) for the
// variables named by axes.
func turn(e expr.Expr, inverse *matrix.Matrix, axes []uint) (expr.Expr, error) {
	if rows, cols := inverse.Dims(); rows != len(axes) || cols != len(axes) {
		return nil, fmt.Errorf("%dx%d rotation of %d axes", rows, cols, len(axes))
	}
	v, err := matrix.NewMatrix(len(axes), 1)
	if err != nil {
		return nil, err
	}
	for k, a := range axes {
		v.Set(k, 0, expr.X(a))
	}
	back := inverse.Mx(v)
	s := make(map[uint]expr.Expr, len(axes))
	for k, a := range axes {
		s[a] = back.El(k, 0)
	}
	return simplify.Simplify(expr.Substitute(e, s)), nil
}

// Rotate returns e with the graph turned anticlockwise by theta in the
// (x_i, x_j) plane: the result at a point p is e at p rotated back
// by theta.
func Rotate(e, theta expr.Expr, i, j uint) (expr.Expr, error) {
	if i == j {
		return nil, fmt.Errorf("rotation plane needs two axes, got x_%d twice", i)
	}
	return turn(e, R2(expr.NewNeg(theta)), []uint{i, j})
}

// Rotate3 turns e anticlockwise by theta about the x_0, x_1 or x_2
// axis of (x_0, x_1, x_2) space.
func Rotate3(e, theta expr.Expr, axis uint) (expr.Expr, error) {
	rs := []func(expr.Expr) *matrix.Matrix{RX, RY, RZ}
	if axis >= uint(len(rs)) {
		return nil, fmt.Errorf("no rotation about x_%d in 3 dimensions", axis)
	}
	return turn(e, rs[axis](expr.NewNeg(theta)), []uint{0, 1, 2})
}

// RotateAbout turns e anticlockwise by theta about the direction axis
// of (x_0, x_1, x_2) space.
func RotateAbout(e, theta expr.Expr, axis [3]float64) (expr.Expr, error) {
	r, err := Around(expr.NewNeg(theta), axis)
	if err != nil {
		return nil, err
	}
	return turn(e, r, []uint{0, 1, 2})
}
