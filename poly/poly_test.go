package poly

import (
	"math"
	"testing"

	"zappem.net/pub/math/calc/expr"
)

func same(a, b Poly) bool {
	a, b = a.Trim(), b.Trim()
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if math.Abs(a[k]-b[k]) > 1e-10*math.Max(1, math.Abs(b[k])) {
			return false
		}
	}
	return true
}

func TestArithmetic(t *testing.T) {
	vs := []struct {
		got, want Poly
	}{
		{got: Add(Poly{1, 2}, Poly{3, 4, 5}), want: Poly{4, 6, 5}},
		{got: Add(Poly{1, 2}, Poly{-1, -2}), want: nil},
		{got: Mul(Poly{1, 1}, Poly{-1, 1}), want: Poly{-1, 0, 1}},
		{got: Mul(Poly{2}, nil), want: nil},
		{got: Poly{5, 3, 2, 1}.Derivative(), want: Poly{3, 4, 3}},
		{got: Poly{5}.Derivative(), want: nil},
		{got: Compose(Poly{0, 0, 1}, Poly{1, 1}), want: Poly{1, 2, 1}},
		{got: Compose(Poly{3, 2}, Poly{-1, 2}), want: Poly{1, 4}},
		{got: Poly{1, 2, 0, 0}.Trim(), want: Poly{1, 2}},
		{got: Poly{1, 2}.Scale(0), want: nil},
	}
	for i, v := range vs {
		if !same(v.got, v.want) {
			t.Errorf("[%d] got=%v want=%v", i, v.got, v.want)
		}
	}
}

func TestEval(t *testing.T) {
	p := Poly{1, -3, 0, 2}
	for _, x := range []float64{-2, -0.5, 0, 1, 3} {
		want := 1 - 3*x + 2*x*x*x
		if got := p.Eval(x); math.Abs(got-want) > 1e-12 {
			t.Errorf("p(%v): got=%v want=%v", x, got, want)
		}
	}
	if got := Poly(nil).Eval(4); got != 0 {
		t.Errorf("zero polynomial: got=%v", got)
	}
}

func TestLegendre(t *testing.T) {
	known := []Poly{
		{1},
		{0, 1},
		{-0.5, 0, 1.5},
		{0, -1.5, 0, 2.5},
		{3.0 / 8, 0, -30.0 / 8, 0, 35.0 / 8},
	}
	for n, want := range known {
		if got := Legendre(n); !same(got, want) {
			t.Errorf("[%d] got=%v want=%v", n, got, want)
		}
	}
	for n := 0; n <= 10; n++ {
		l, r := Legendre(n), Rodrigues(n)
		if !same(l, r) {
			t.Errorf("[%d] Bonnet=%v Rodrigues=%v", n, l, r)
		}
		if got := l.Eval(1); math.Abs(got-1) > 1e-12 {
			t.Errorf("[%d] L(1)=%v", n, got)
		}
		if l.Degree() != n {
			t.Errorf("[%d] degree=%d", n, l.Degree())
		}
	}
}

func TestExpr(t *testing.T) {
	if e := Poly(nil).Expr(0); !expr.IsConst(e, 0) {
		t.Errorf("zero: got=%v", e)
	}
	p := Poly{1, -2, 0.5}
	e := p.Expr(3)
	if s, want := e.String(), "poly[x_3](1, -2, 0.5)"; s != want {
		t.Errorf("got=%q want=%q", s, want)
	}
	v, err := expr.Evaluate(e, expr.Binding{3: 2})
	if err != nil {
		t.Fatal(err)
	}
	if want := p.Eval(2); v != want {
		t.Errorf("got=%v want=%v", v, want)
	}
}
