package parse

import (
	"errors"
	"math"
	"testing"

	"zappem.net/pub/math/calc/expr"
)

func TestParse(t *testing.T) {
	vs := []struct {
		text, want string
	}{
		{text: "x", want: "x_0"},
		{text: "y + z", want: "(x_1 + x_2)"},
		{text: "x_12", want: "x_12"},
		{text: "x3", want: "x_3"},
		{text: "3", want: "3"},
		{text: "-3", want: "-3"},
		{text: "-3^2", want: "-(3^2)"},
		{text: "--x", want: "-(-x_0)"},
		{text: "1.5e3", want: "1500"},
		{text: ".25", want: "0.25"},
		{text: "x - y", want: "(x_0 + -x_1)"},
		{text: "x - 2", want: "(x_0 + -2)"},
		{text: "2*x*y", want: "(2 * x_0 * x_1)"},
		{text: "x/y/z", want: "((x_0 / x_1) / x_2)"},
		{text: "2*x/y", want: "((2 * x_0) / x_1)"},
		{text: "x^2^0", want: ""},
		{text: "x^-2", want: "x_0^-2"},
		{text: "(x + 1)^3", want: "(x_0 + 1)^3"},
		{text: "sin(x)*x", want: "(sin(x_0) * x_0)"},
		{text: "LN(x)", want: "log(x_0)"},
		{text: "exp(-x)", want: "exp(-x_0)"},
		{text: "poly[x](1, 0, -2)", want: "poly[x_0](1, 0, -2)"},
		{text: "sum[x_1=0..4](x^2 / (x_1 + 1))", want: "sum[x_1=0..4]((x_0^2 / (x_1 + 1)))"},
		{text: "prod[y=-1..2](y)", want: "prod[x_1=-1..2](x_1)"},
	}
	for i, v := range vs {
		e, err := Parse(v.text)
		if v.want == "" {
			if err == nil {
				t.Errorf("[%d] %q: parsed as %v", i, v.text, e)
			}
			continue
		}
		if err != nil {
			t.Errorf("[%d] %q: %v", i, v.text, err)
			continue
		}
		if got := e.String(); got != v.want {
			t.Errorf("[%d] %q: got=%q want=%q", i, v.text, got, v.want)
		}
	}
	e := MustParse("pi")
	if c, ok := e.(*expr.Const); !ok || c.Value() != math.Pi {
		t.Errorf("pi: got=%v", e)
	}
}

func TestRoundTrip(t *testing.T) {
	x, y := expr.X(0), expr.X(1)
	p, _ := expr.NewPoly(3, expr.C(1), expr.C(-2), expr.NewNeg(y))
	s, _ := expr.NewSum(1, -2, 3, expr.Times(x, y))
	q, _ := expr.NewProd(2, 1, 4, expr.NewDiv(expr.C(1), expr.X(2)))
	es := []expr.Expr{
		expr.Plus(x, y, expr.C(-0.125)),
		expr.Times(expr.C(-2), x),
		expr.NewNeg(expr.C(2)),
		expr.NewNeg(expr.NewNeg(x)),
		expr.NewNeg(expr.NewPow(x, 2)),
		expr.NewPow(expr.C(-2), 3),
		expr.NewPow(expr.NewNeg(x), 2),
		expr.NewPow(expr.Plus(x, y), -1),
		expr.NewDiv(expr.NewNeg(x), expr.Plus(y, expr.C(1e-7))),
		expr.NewTan(expr.NewExp(expr.NewLog(expr.NewCos(x)))),
		expr.Plus(expr.NewSin(x), expr.NewNeg(expr.Times(x, y))),
		expr.C(1.0 / 3),
		expr.C(6.02e23),
		p, s, q,
	}
	for i, e := range es {
		got, err := Parse(e.String())
		if err != nil {
			t.Errorf("[%d] %q: %v", i, e, err)
			continue
		}
		if !expr.Equal(got, e) {
			t.Errorf("[%d] got=%q want=%q", i, got, e)
		}
	}
}

func TestErrors(t *testing.T) {
	for i, text := range []string{
		"",
		"x +",
		"(x",
		"x)",
		"2 3",
		"w",
		"sin x",
		"x $ y",
		"x^y",
		"poly[x]()",
		"poly[2](1)",
		"sum[x=0..n](x)",
		"sum[x=0](x)",
	} {
		if _, err := Parse(text); !errors.Is(err, ErrSyntax) {
			t.Errorf("[%d] %q: got=%v want=%v", i, text, err, ErrSyntax)
		}
	}
	if _, err := Parse("x^0.5"); !errors.Is(err, expr.ErrNonIntegerExponent) {
		t.Errorf("x^0.5: got=%v", err)
	}
}

func TestVarIndex(t *testing.T) {
	vs := []struct {
		name string
		i    uint
		ok   bool
	}{
		{name: "x", i: 0, ok: true},
		{name: "y", i: 1, ok: true},
		{name: "z", i: 2, ok: true},
		{name: "x_7", i: 7, ok: true},
		{name: "x42", i: 42, ok: true},
		{name: "x_", ok: false},
		{name: "w", ok: false},
		{name: "xy", ok: false},
		{name: "x_-1", ok: false},
	}
	for _, v := range vs {
		i, ok := VarIndex(v.name)
		if ok != v.ok || (ok && i != v.i) {
			t.Errorf("%q: got=%d,%v want=%d,%v", v.name, i, ok, v.i, v.ok)
		}
	}
}

func TestBinding(t *testing.T) {
	b, err := Binding("x=1, x_3 = -2.5,z=1e2")
	if err != nil {
		t.Fatal(err)
	}
	want := expr.Binding{0: 1, 3: -2.5, 2: 100}
	if len(b) != len(want) {
		t.Fatalf("got=%v want=%v", b, want)
	}
	for k, v := range want {
		if b[k] != v {
			t.Errorf("x_%d: got=%v want=%v", k, b[k], v)
		}
	}
	if b, err := Binding("  "); err != nil || len(b) != 0 {
		t.Errorf("empty: got=%v, %v", b, err)
	}
	for _, text := range []string{"x", "w=1", "x=one", "x=1,", "x=NaN", "y=-Inf"} {
		if _, err := Binding(text); !errors.Is(err, ErrSyntax) {
			t.Errorf("%q: got=%v want=%v", text, err, ErrSyntax)
		}
	}
}
