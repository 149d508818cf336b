package expr

import (
	"errors"
	"math"
	"testing"
)

// mustPoly, mustSum and mustProd are for known good arguments.
func mustPoly(v uint, cs ...Expr) Expr {
	p, err := NewPoly(v, cs...)
	if err != nil {
		panic(err)
	}
	return p
}

func mustSum(v uint, start, end int, body Expr) Expr {
	s, err := NewSum(v, start, end, body)
	if err != nil {
		panic(err)
	}
	return s
}

func mustProd(v uint, start, end int, body Expr) Expr {
	p, err := NewProd(v, start, end, body)
	if err != nil {
		panic(err)
	}
	return p
}

func TestString(t *testing.T) {
	x, y := X(0), X(1)
	vs := []struct {
		e    Expr
		want string
	}{
		{e: x, want: "x_0"},
		{e: C(2.5), want: "2.5"},
		{e: C(-3), want: "-3"},
		{e: Plus(x, y, C(1)), want: "(x_0 + x_1 + 1)"},
		{e: Times(C(2), x), want: "(2 * x_0)"},
		{e: NewDiv(x, y), want: "(x_0 / x_1)"},
		{e: NewNeg(x), want: "-x_0"},
		{e: NewNeg(C(2)), want: "-(2)"},
		{e: NewNeg(NewPow(x, 2)), want: "-(x_0^2)"},
		{e: NewPow(C(-2), 3), want: "(-2)^3"},
		{e: NewSin(x), want: "sin(x_0)"},
		{e: NewLog(Plus(x, C(1))), want: "log((x_0 + 1))"},
		{e: NewPow(x, -1), want: "x_0^-1"},
		{e: mustPoly(3, C(1), C(-2), C(0.5)), want: "poly[x_3](1, -2, 0.5)"},
		{e: mustSum(1, 0, 3, NewPow(X(1), 2)), want: "sum[x_1=0..3](x_1^2)"},
		{e: mustProd(2, 1, 4, X(2)), want: "prod[x_2=1..4](x_2)"},
	}
	for i, v := range vs {
		if got := v.e.String(); got != v.want {
			t.Errorf("[%d] got=%q want=%q", i, got, v.want)
		}
	}
}

func TestEvaluate(t *testing.T) {
	x, y := X(0), X(1)
	vs := []struct {
		e    Expr
		at   Binding
		want float64
	}{
		{e: C(4), at: nil, want: 4},
		{e: Plus(x, y), at: At(1, 2), want: 3},
		{e: Times(x, y, C(3)), at: At(2, 5), want: 30},
		{e: NewDiv(x, y), at: At(1, 4), want: 0.25},
		{e: NewNeg(x), at: At(7), want: -7},
		{e: NewSin(x), at: At(math.Pi / 2), want: 1},
		{e: NewExp(x), at: At(0), want: 1},
		{e: NewLog(x), at: At(math.E), want: 1},
		{e: NewPow(x, 3), at: At(-2), want: -8},
		{e: NewPow(x, -2), at: At(2), want: 0.25},
		{e: NewPow(x, 0), at: At(0), want: 1},
		{e: mustPoly(0, C(1), C(-2), C(0.5)), at: At(2), want: 1 - 4 + 2},
		{e: mustPoly(1, x, C(1)), at: At(3, 4), want: 7},
		{e: mustSum(1, 0, 3, NewPow(X(1), 2)), at: nil, want: 14},
		{e: mustSum(1, 3, 0, X(1)), at: nil, want: 0},
		{e: mustProd(1, 1, 4, X(1)), at: nil, want: 24},
		{e: mustProd(1, 1, 0, X(1)), at: nil, want: 1},
		// The bound variable shadows the binding.
		{e: mustSum(0, 1, 2, Times(x, y)), at: At(100, 10), want: 30},
		{e: mustSum(0, 1, 2, mustSum(1, 1, 2, Times(x, y))), at: nil, want: 9},
	}
	for i, v := range vs {
		got, err := Evaluate(v.e, v.at)
		if err != nil {
			t.Errorf("[%d] %v: %v", i, v.e, err)
			continue
		}
		if math.Abs(got-v.want) > 1e-12 {
			t.Errorf("[%d] %v: got=%v want=%v", i, v.e, got, v.want)
		}
	}
}

func TestEvaluateErrors(t *testing.T) {
	x := X(0)
	vs := []struct {
		e    Expr
		at   Binding
		want error
	}{
		{e: X(2), at: At(1, 2), want: ErrUndefinedVariable},
		{e: mustPoly(4, C(1)), at: At(1), want: ErrUndefinedVariable},
		{e: NewDiv(C(1), x), at: At(0), want: ErrDivisionByZero},
		{e: NewPow(x, -1), at: At(0), want: ErrDivisionByZero},
		{e: NewLog(x), at: At(0), want: ErrDomain},
		{e: NewLog(NewNeg(x)), at: At(1), want: ErrDomain},
		{e: Plus(C(1), NewLog(x)), at: At(-1), want: ErrDomain},
		{e: mustSum(1, 0, 2, NewDiv(C(1), X(1))), at: nil, want: ErrDivisionByZero},
	}
	for i, v := range vs {
		if _, err := Evaluate(v.e, v.at); !errors.Is(err, v.want) {
			t.Errorf("[%d] %v: got=%v want=%v", i, v.e, err, v.want)
		}
	}
}

func TestConstruction(t *testing.T) {
	if _, err := NewAdd(X(0)); !errors.Is(err, ErrArity) {
		t.Errorf("unary add: got=%v", err)
	}
	if _, err := NewMul(); !errors.Is(err, ErrArity) {
		t.Errorf("nullary mul: got=%v", err)
	}
	if _, err := NewAdd(X(0), nil); !errors.Is(err, ErrArity) {
		t.Errorf("nil operand: got=%v", err)
	}
	if _, err := NewPoly(0); !errors.Is(err, ErrArity) {
		t.Errorf("empty polynomial: got=%v", err)
	}
	if _, err := NewSum(0, 0, 1, nil); !errors.Is(err, ErrBounds) {
		t.Errorf("sum without body: got=%v", err)
	}
	for _, k := range []float64{0.5, math.NaN(), math.Inf(1), 1e12} {
		if _, err := NewPowFloat(X(0), k); !errors.Is(err, ErrNonIntegerExponent) {
			t.Errorf("x^%v: got=%v", k, err)
		}
	}
	p, err := NewPowFloat(X(0), -3)
	if err != nil || p.String() != "x_0^-3" {
		t.Errorf("x^-3: got=%v, %v", p, err)
	}

	// Operand lists are copied.
	args := []Expr{X(0), X(1)}
	a := Plus(args...)
	args[0] = C(9)
	if got := a.String(); got != "(x_0 + x_1)" {
		t.Errorf("shared operands: got=%q", got)
	}
	as := a.(*Add).Args()
	as[1] = C(9)
	if got := a.String(); got != "(x_0 + x_1)" {
		t.Errorf("Args aliased: got=%q", got)
	}

	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if _, err := NewConst(v); !errors.Is(err, ErrNonFinite) {
			t.Errorf("NewConst(%v): got=%v", v, err)
		}
		if !panics(func() { C(v) }) {
			t.Errorf("C(%v) did not panic", v)
		}
	}
	for _, r := range [][2]int{
		{math.MinInt, math.MaxInt},
		{0, math.MaxInt},
		{math.MinInt, 0},
	} {
		if _, err := NewSum(0, r[0], r[1], X(0)); !errors.Is(err, ErrBounds) {
			t.Errorf("sum over %d..%d: got=%v", r[0], r[1], err)
		}
		if _, err := NewProd(0, r[0], r[1], X(0)); !errors.Is(err, ErrBounds) {
			t.Errorf("product over %d..%d: got=%v", r[0], r[1], err)
		}
	}
	if s, err := NewSum(0, 1, math.MinInt, X(0)); err != nil || s.(*Sum).Len() != 0 {
		t.Errorf("empty sum: got=%v, %v", s, err)
	}
	if s, err := NewSum(0, math.MinInt+1, -1, X(0)); err != nil || s.(*Sum).Len() != math.MaxInt {
		t.Errorf("longest sum: got=%v", err)
	}
	if !panics(func() { NewFunc(KindAdd, X(0)) }) {
		t.Error("NewFunc(KindAdd) did not panic")
	}
}

func panics(f func()) (did bool) {
	defer func() {
		did = recover() != nil
	}()
	f()
	return false
}

func TestIntPow(t *testing.T) {
	vs := []struct {
		x    float64
		k    int
		want float64
		ok   bool
	}{
		{x: 2, k: 10, want: 1024, ok: true},
		{x: -3, k: 3, want: -27, ok: true},
		{x: 2, k: -2, want: 0.25, ok: true},
		{x: 0, k: 0, want: 1, ok: true},
		{x: 0, k: 3, want: 0, ok: true},
		{x: 0, k: -1, ok: false},
	}
	for i, v := range vs {
		got, ok := IntPow(v.x, v.k)
		if ok != v.ok || (ok && got != v.want) {
			t.Errorf("[%d] %v^%d: got=%v,%v want=%v,%v", i, v.x, v.k, got, ok, v.want, v.ok)
		}
	}
}

func TestCompare(t *testing.T) {
	x, y := X(0), X(1)
	// Ascending.
	es := []Expr{
		C(-1),
		C(2),
		Plus(x, y),
		Times(C(2), x),
		NewDiv(x, y),
		NewNeg(x),
		NewSin(x),
		NewSin(y),
		NewCos(x),
		NewLog(x),
		NewPow(x, 2),
		NewPow(x, 3),
		NewPow(y, 1),
		mustPoly(0, C(1), C(2)),
		mustSum(1, 0, 2, y),
		mustProd(1, 0, 2, y),
		x,
		y,
	}
	for i := range es {
		for j := range es {
			want := 0
			switch {
			case i < j:
				want = -1
			case i > j:
				want = 1
			}
			if got := Compare(es[i], es[j]); got != want {
				t.Errorf("Compare(%v, %v): got=%d want=%d", es[i], es[j], got, want)
			}
		}
	}
	if !Equal(Plus(x, NewSin(y)), Plus(X(0), NewSin(X(1)))) {
		t.Error("equal trees compare unequal")
	}
	if Equal(Plus(x, y), Plus(x, y, C(0))) {
		t.Error("a prefix compares equal")
	}
}

func TestSubstitute(t *testing.T) {
	x, y := X(0), X(1)
	vs := []struct {
		e    Expr
		m    map[uint]Expr
		want string
	}{
		{e: Plus(x, Times(C(2), y)), m: map[uint]Expr{0: y, 1: x}, want: "(x_1 + (2 * x_0))"},
		{e: NewSin(x), m: map[uint]Expr{0: Plus(y, C(1))}, want: "sin((x_1 + 1))"},
		{e: mustSum(0, 0, 2, Times(x, y)), m: map[uint]Expr{0: C(5), 1: C(3)}, want: "sum[x_0=0..2]((x_0 * 3))"},
		{e: mustPoly(0, C(1), y), m: map[uint]Expr{0: X(2)}, want: "poly[x_2](1, x_1)"},
		{e: mustPoly(0, C(1), C(2)), m: map[uint]Expr{0: C(3)}, want: "(1 + (3 * 2))"},
		{e: NewPow(x, 2), m: nil, want: "x_0^2"},
	}
	for i, v := range vs {
		if got := Substitute(v.e, v.m).String(); got != v.want {
			t.Errorf("[%d] got=%q want=%q", i, got, v.want)
		}
	}
	if got := Fix(Plus(x, y), 1, 4).String(); got != "(x_0 + 4)" {
		t.Errorf("fix: got=%q", got)
	}
}

func TestSubstituteCapture(t *testing.T) {
	x, y, z := X(0), X(1), X(2)
	vs := []struct {
		e    Expr
		m    map[uint]Expr
		want string
		at   Binding
		val  float64
	}{
		{
			// The replacement mentions the bound x_1, which is renamed.
			e:    mustSum(1, 1, 2, Times(x, y)),
			m:    map[uint]Expr{0: y},
			want: "sum[x_2=1..2]((x_1 * x_2))",
			at:   At(0, 5),
			val:  15,
		},
		{
			// x_0 is not free in the body, so nothing is renamed.
			e:    mustProd(1, 1, 3, y),
			m:    map[uint]Expr{0: y},
			want: "prod[x_1=1..3](x_1)",
			val:  6,
		},
		{
			e:   mustSum(1, 1, 2, mustSum(2, 1, 2, Times(x, y, z))),
			m:   map[uint]Expr{0: Plus(y, z)},
			at:  At(0, 0.5, 0.25),
			val: 0.75 * 3 * 3,
		},
	}
	for i, v := range vs {
		got := Substitute(v.e, v.m)
		if v.want != "" && got.String() != v.want {
			t.Errorf("[%d] got=%q want=%q", i, got, v.want)
		}
		val, err := Evaluate(got, v.at)
		if err != nil {
			t.Errorf("[%d] %v: %v", i, got, err)
			continue
		}
		if math.Abs(val-v.val) > 1e-12 {
			t.Errorf("[%d] %v: got=%v want=%v", i, got, val, v.val)
		}
	}
}

func TestVars(t *testing.T) {
	e := Plus(X(3), mustSum(1, 0, 2, Times(X(1), X(0))), mustPoly(5, C(1)))
	got := Vars(e)
	want := []uint{0, 3, 5}
	if len(got) != len(want) {
		t.Fatalf("got=%v want=%v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got=%v want=%v", got, want)
		}
	}
	if Depends(e, 1) {
		t.Error("bound x_1 reported free")
	}
	if !Depends(e, 5) {
		t.Error("polynomial variable not reported")
	}
	if Vars(C(1)) != nil {
		t.Error("constant has variables")
	}
}

func TestSample(t *testing.T) {
	ps, err := Sample(NewPow(X(0), 2), -1, 1, 4)
	if err != nil {
		t.Fatal(err)
	}
	want := []Point{{-1, 1}, {-0.5, 0.25}, {0, 0}, {0.5, 0.25}, {1, 1}}
	if len(ps) != len(want) {
		t.Fatalf("got %d points want %d", len(ps), len(want))
	}
	for i, p := range ps {
		if p != want[i] {
			t.Errorf("[%d] got=%v want=%v", i, p, want[i])
		}
	}
	if _, err := Sample(X(0), 0, 1, 0); !errors.Is(err, ErrBounds) {
		t.Errorf("zero steps: got=%v", err)
	}
	if _, err := Sample(NewLog(X(0)), -1, 1, 2); !errors.Is(err, ErrDomain) {
		t.Errorf("log over [-1,1]: got=%v", err)
	}
}

func TestKind(t *testing.T) {
	if got := KindPoly.String(); got != "poly" {
		t.Errorf("got=%q", got)
	}
	if got := Kind(99).String(); got != "kind(99)" {
		t.Errorf("got=%q", got)
	}
	if NewTan(X(0)).Kind() != KindTan || !IsFunc(KindTan) || IsFunc(KindPow) {
		t.Error("tan is not a function")
	}
	if !IsConst(C(0), 0) || IsConst(X(0), 0) {
		t.Error("IsConst")
	}
}
