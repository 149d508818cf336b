// Package expr defines immutable expression trees for real valued
// functions of one or more real variables, x_0, x_1, ...
//
// An Expr is one of a closed set of node types. Nodes are never
// modified after construction, so subtrees may be shared between
// several parent expressions. Every transformation (simplification,
// differentiation, substitution) returns a new tree.
package expr

import (
	"errors"
	"fmt"
	"math"
)

// Kind identifies the variant of an expression node. The order of
// the constants is the order used to sort the operands of Add and Mul.
type Kind int

const (
	KindConst Kind = iota
	KindAdd
	KindMul
	KindDiv
	KindNeg
	KindSin
	KindCos
	KindTan
	KindExp
	KindLog
	KindPow
	KindPoly
	KindSum
	KindProd
	KindVar
)

var kindNames = [...]string{
	KindConst: "const",
	KindAdd:   "add",
	KindMul:   "mul",
	KindDiv:   "div",
	KindNeg:   "neg",
	KindSin:   "sin",
	KindCos:   "cos",
	KindTan:   "tan",
	KindExp:   "exp",
	KindLog:   "log",
	KindPow:   "pow",
	KindPoly:  "poly",
	KindSum:   "sum",
	KindProd:  "prod",
	KindVar:   "var",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// Expr is an immutable expression node. Only the node types of this
// package implement it.
type Expr interface {
	// Kind returns the variant of this node.
	Kind() Kind
	// String returns the canonical text form of the expression.
	String() string
	node()
}

var (
	// ErrArity indicates an n-ary node was built with too few
	// operands, or a polynomial with no coefficients.
	ErrArity = errors.New("arity mismatch")
	// ErrNonIntegerExponent indicates a power with a fractional or
	// non-finite exponent.
	ErrNonIntegerExponent = errors.New("non-integer exponent")
	// ErrBounds indicates an ill formed Sum or Prod.
	ErrBounds = errors.New("invalid bounds")
	// ErrNonFinite indicates a NaN or infinite constant.
	ErrNonFinite = errors.New("non-finite constant")
)

// Var is the variable x_i.
type Var struct {
	index uint
}

// Const is a literal number.
type Const struct {
	value float64
}

// Add is the sum of two or more operands.
type Add struct {
	args []Expr
}

// Mul is the product of two or more operands.
type Mul struct {
	args []Expr
}

// Neg is the additive inverse of its operand.
type Neg struct {
	arg Expr
}

// Div is the quotient num/den.
type Div struct {
	num, den Expr
}

// Func is one of the unary transcendental functions: sin, cos, tan,
// exp or log (natural).
type Func struct {
	kind Kind
	arg  Expr
}

// Pow raises a base to a fixed integer power.
type Pow struct {
	base Expr
	exp  int
}

// Poly is the polynomial sum_k coeffs[k] * x_v^k. Coefficients may be
// arbitrary expressions.
type Poly struct {
	v      uint
	coeffs []Expr
}

// Sum is the sum of body as the bound variable ranges over the
// literal integers start..end inclusive.
type Sum struct {
	bound
}

// Prod is the product of body as the bound variable ranges over the
// literal integers start..end inclusive.
type Prod struct {
	bound
}

// bound holds the shared payload of Sum and Prod.
type bound struct {
	v          uint
	start, end int
	body       Expr
}

func (*Var) node()   {}
func (*Const) node() {}
func (*Add) node()   {}
func (*Mul) node()   {}
func (*Neg) node()   {}
func (*Div) node()   {}
func (*Func) node()  {}
func (*Pow) node()   {}
func (*Poly) node()  {}
func (*Sum) node()   {}
func (*Prod) node()  {}

func (*Var) Kind() Kind   { return KindVar }
func (*Const) Kind() Kind { return KindConst }
func (*Add) Kind() Kind   { return KindAdd }
func (*Mul) Kind() Kind   { return KindMul }
func (*Neg) Kind() Kind   { return KindNeg }
func (*Div) Kind() Kind   { return KindDiv }
func (f *Func) Kind() Kind {
	return f.kind
}
func (*Pow) Kind() Kind  { return KindPow }
func (*Poly) Kind() Kind { return KindPoly }
func (*Sum) Kind() Kind  { return KindSum }
func (*Prod) Kind() Kind { return KindProd }

// NewVar returns the variable x_i.
func NewVar(i uint) Expr {
	return &Var{index: i}
}

// X is shorthand for NewVar.
func X(i uint) Expr {
	return NewVar(i)
}

// NewConst returns a literal number, which must be finite.
func NewConst(v float64) (Expr, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, fmt.Errorf("%w: %v", ErrNonFinite, v)
	}
	return &Const{value: v}, nil
}

// C is NewConst for callers that know v is finite. It panics
// otherwise.
func C(v float64) Expr {
	e, err := NewConst(v)
	if err != nil {
		panic(err)
	}
	return e
}

// NewAdd returns the sum of two or more expressions.
func NewAdd(es ...Expr) (Expr, error) {
	if err := checkArgs("add", es); err != nil {
		return nil, err
	}
	return &Add{args: clone(es)}, nil
}

// NewMul returns the product of two or more expressions.
func NewMul(es ...Expr) (Expr, error) {
	if err := checkArgs("mul", es); err != nil {
		return nil, err
	}
	return &Mul{args: clone(es)}, nil
}

// Plus is NewAdd for callers that know the arity is valid. It panics
// on error.
func Plus(es ...Expr) Expr {
	e, err := NewAdd(es...)
	if err != nil {
		panic(err)
	}
	return e
}

// Times is NewMul for callers that know the arity is valid. It
// panics on error.
func Times(es ...Expr) Expr {
	e, err := NewMul(es...)
	if err != nil {
		panic(err)
	}
	return e
}

// NewNeg returns -e.
func NewNeg(e Expr) Expr {
	return &Neg{arg: e}
}

// NewDiv returns num/den.
func NewDiv(num, den Expr) Expr {
	return &Div{num: num, den: den}
}

// NewSin returns sin(e).
func NewSin(e Expr) Expr { return &Func{kind: KindSin, arg: e} }

// NewCos returns cos(e).
func NewCos(e Expr) Expr { return &Func{kind: KindCos, arg: e} }

// NewTan returns tan(e).
func NewTan(e Expr) Expr { return &Func{kind: KindTan, arg: e} }

// NewExp returns e^e.
func NewExp(e Expr) Expr { return &Func{kind: KindExp, arg: e} }

// NewLog returns the natural logarithm of e.
func NewLog(e Expr) Expr { return &Func{kind: KindLog, arg: e} }

// NewFunc returns the unary function of kind k applied to e. It
// panics if k is not one of the function kinds.
func NewFunc(k Kind, e Expr) Expr {
	if !IsFunc(k) {
		panic(fmt.Sprintf("%v is not a function kind", k))
	}
	return &Func{kind: k, arg: e}
}

// IsFunc reports whether k is one of sin, cos, tan, exp or log.
func IsFunc(k Kind) bool {
	return k >= KindSin && k <= KindLog
}

// NewPow returns base^k.
func NewPow(base Expr, k int) Expr {
	return &Pow{base: base, exp: k}
}

// NewPowFloat returns base^k, failing unless k is a finite integer.
func NewPowFloat(base Expr, k float64) (Expr, error) {
	if math.IsNaN(k) || math.IsInf(k, 0) || k != math.Trunc(k) {
		return nil, fmt.Errorf("%w: %v", ErrNonIntegerExponent, k)
	}
	if k > math.MaxInt32 || k < math.MinInt32 {
		return nil, fmt.Errorf("%w: %v out of range", ErrNonIntegerExponent, k)
	}
	return NewPow(base, int(k)), nil
}

// NewPoly returns the polynomial in x_v with coefficients listed in
// ascending degree.
func NewPoly(v uint, coeffs ...Expr) (Expr, error) {
	if len(coeffs) == 0 {
		return nil, fmt.Errorf("%w: polynomial in x_%d has no coefficients", ErrArity, v)
	}
	for k, c := range coeffs {
		if c == nil {
			return nil, fmt.Errorf("%w: polynomial coefficient %d is nil", ErrArity, k)
		}
	}
	return &Poly{v: v, coeffs: clone(coeffs)}, nil
}

// NewSum returns the sum of body for x_v = start..end.
func NewSum(v uint, start, end int, body Expr) (Expr, error) {
	if err := checkRange("sum", v, start, end, body); err != nil {
		return nil, err
	}
	return &Sum{bound{v: v, start: start, end: end, body: body}}, nil
}

// NewProd returns the product of body for x_v = start..end.
func NewProd(v uint, start, end int, body Expr) (Expr, error) {
	if err := checkRange("product", v, start, end, body); err != nil {
		return nil, err
	}
	return &Prod{bound{v: v, start: start, end: end, body: body}}, nil
}

// checkRange rejects a missing body and ranges whose length end-start+1
// does not fit in an int. A range ending at math.MaxInt is also
// rejected since no int loop counter can step past it.
func checkRange(op string, v uint, start, end int, body Expr) error {
	if body == nil {
		return fmt.Errorf("%w: %s over x_%d has no body", ErrBounds, op, v)
	}
	if end < start {
		return nil
	}
	if end == math.MaxInt || end-start < 0 || end-start == math.MaxInt {
		return fmt.Errorf("%w: %s over x_%d=%d..%d is too long", ErrBounds, op, v, start, end)
	}
	return nil
}

func checkArgs(op string, es []Expr) error {
	if len(es) < 2 {
		return fmt.Errorf("%w: %s needs at least 2 operands, got %d", ErrArity, op, len(es))
	}
	for i, e := range es {
		if e == nil {
			return fmt.Errorf("%w: %s operand %d is nil", ErrArity, op, i)
		}
	}
	return nil
}

func clone(es []Expr) []Expr {
	return append([]Expr(nil), es...)
}

// Index returns i for x_i.
func (v *Var) Index() uint { return v.index }

// Value returns the number.
func (c *Const) Value() float64 { return c.value }

// Args returns a copy of the operands.
func (a *Add) Args() []Expr { return clone(a.args) }

// Args returns a copy of the operands.
func (m *Mul) Args() []Expr { return clone(m.args) }

// Arg returns the negated expression.
func (n *Neg) Arg() Expr { return n.arg }

// Num returns the numerator.
func (d *Div) Num() Expr { return d.num }

// Den returns the denominator.
func (d *Div) Den() Expr { return d.den }

// Arg returns the function argument.
func (f *Func) Arg() Expr { return f.arg }

// Base returns the base of the power.
func (p *Pow) Base() Expr { return p.base }

// Exp returns the integer exponent.
func (p *Pow) Exp() int { return p.exp }

// Var returns the index of the polynomial's variable.
func (p *Poly) Var() uint { return p.v }

// Coeffs returns a copy of the coefficients, lowest degree first.
func (p *Poly) Coeffs() []Expr { return clone(p.coeffs) }

// Degree returns the length of the coefficient list less one. It is
// the true degree only for canonical polynomials.
func (p *Poly) Degree() int { return len(p.coeffs) - 1 }

// Var returns the index of the bound variable.
func (b *bound) Var() uint { return b.v }

// Range returns the inclusive bounds.
func (b *bound) Range() (start, end int) { return b.start, b.end }

// Body returns the expression summed or multiplied.
func (b *bound) Body() Expr { return b.body }

// Len returns the number of terms in the range, zero if end < start.
func (b *bound) Len() int {
	if b.end < b.start {
		return 0
	}
	return b.end - b.start + 1
}

// IsConst reports whether e is the number v.
func IsConst(e Expr, v float64) bool {
	c, ok := e.(*Const)
	return ok && c.value == v
}
