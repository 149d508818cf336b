// Package parse converts text into expressions. It accepts the
// canonical form produced by expr.Expr.String, so that
//
//	Parse(e.String())
//
// is structurally equal to e, and also the looser notation people
// type:
//
//	sin(x)*x - 3*y^2
//	poly[x](1, 0, -2) / (1 + exp(-x_3))
//	sum[x_1=0..4](x^2 / (x_1 + 1))
//
// The names x, y and z stand for x_0, x_1 and x_2.
package parse

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"zappem.net/pub/math/calc/expr"
)

// ErrSyntax is returned, wrapped, for all malformed input.
var ErrSyntax = errors.New("syntax error")

var funcs = map[string]expr.Kind{
	"sin": expr.KindSin,
	"cos": expr.KindCos,
	"tan": expr.KindTan,
	"exp": expr.KindExp,
	"log": expr.KindLog,
	"ln":  expr.KindLog,
}

type parser struct {
	toks []token
	i    int
}

// Parse parses a single expression.
func Parse(text string) (expr.Expr, error) {
	toks, err := lex(text)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	e, err := p.expr()
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.kind != tokEOF {
		return nil, p.fail(t, "trailing input")
	}
	return e, nil
}

// MustParse is Parse for known good text. It panics on error.
func MustParse(text string) expr.Expr {
	e, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return e
}

func (p *parser) peek() token {
	return p.toks[p.i]
}

func (p *parser) next() token {
	t := p.toks[p.i]
	if t.kind != tokEOF {
		p.i++
	}
	return t
}

func (p *parser) is(text string) bool {
	t := p.peek()
	return t.kind == tokPunct && t.text == text
}

func (p *parser) expect(text string) error {
	if t := p.next(); t.kind != tokPunct || t.text != text {
		return p.fail(t, "expected %q", text)
	}
	return nil
}

func (p *parser) fail(t token, format string, args ...any) error {
	return fmt.Errorf("%w: %s, found %v at %d", ErrSyntax, fmt.Sprintf(format, args...), t, t.pos)
}

// expr := term {('+'|'-') term}
func (p *parser) expr() (expr.Expr, error) {
	e, err := p.term()
	if err != nil {
		return nil, err
	}
	terms := []expr.Expr{e}
	for p.is("+") || p.is("-") {
		neg := p.next().text == "-"
		e, err := p.term()
		if err != nil {
			return nil, err
		}
		if neg {
			e = expr.NewNeg(e)
		}
		terms = append(terms, e)
	}
	if len(terms) == 1 {
		return terms[0], nil
	}
	return expr.NewAdd(terms...)
}

// term := unary {('*'|'/') unary}
func (p *parser) term() (expr.Expr, error) {
	e, err := p.unary()
	if err != nil {
		return nil, err
	}
	factors := []expr.Expr{e}
	for p.is("*") || p.is("/") {
		div := p.next().text == "/"
		e, err := p.unary()
		if err != nil {
			return nil, err
		}
		if !div {
			factors = append(factors, e)
			continue
		}
		num := factors[0]
		if len(factors) > 1 {
			num = expr.Times(factors...)
		}
		factors = []expr.Expr{expr.NewDiv(num, e)}
	}
	if len(factors) == 1 {
		return factors[0], nil
	}
	return expr.NewMul(factors...)
}

// unary := '-' unary | power
//
// A minus sign directly before a number that is not raised to a power
// is read as part of the literal.
func (p *parser) unary() (expr.Expr, error) {
	if !p.is("-") {
		return p.power()
	}
	p.next()
	if t := p.peek(); t.kind == tokNum {
		after := p.toks[p.i+1]
		if after.kind != tokPunct || after.text != "^" {
			p.next()
			v, err := number(t)
			if err != nil {
				return nil, p.fail(t, "bad number")
			}
			return expr.NewConst(-v)
		}
	}
	e, err := p.unary()
	if err != nil {
		return nil, err
	}
	return expr.NewNeg(e), nil
}

// power := primary ['^' ['-'] number]
func (p *parser) power() (expr.Expr, error) {
	base, err := p.primary()
	if err != nil {
		return nil, err
	}
	if !p.is("^") {
		return base, nil
	}
	p.next()
	sign := 1.0
	if p.is("-") || p.is("+") {
		if p.next().text == "-" {
			sign = -1
		}
	}
	t := p.next()
	if t.kind != tokNum {
		return nil, p.fail(t, "expected an integer exponent")
	}
	k, err := number(t)
	if err != nil {
		return nil, p.fail(t, "bad exponent")
	}
	return expr.NewPowFloat(base, sign*k)
}

func (p *parser) primary() (expr.Expr, error) {
	t := p.next()
	switch t.kind {
	case tokNum:
		v, err := number(t)
		if err != nil {
			return nil, p.fail(t, "bad number")
		}
		return expr.NewConst(v)
	case tokIdent:
		return p.ident(t)
	case tokPunct:
		if t.text == "(" {
			e, err := p.expr()
			if err != nil {
				return nil, err
			}
			if err := p.expect(")"); err != nil {
				return nil, err
			}
			return e, nil
		}
	}
	return nil, p.fail(t, "expected an operand")
}

func (p *parser) ident(t token) (expr.Expr, error) {
	name := strings.ToLower(t.text)
	if k, ok := funcs[name]; ok {
		arg, err := p.group()
		if err != nil {
			return nil, err
		}
		return expr.NewFunc(k, arg), nil
	}
	switch name {
	case "pi":
		return expr.C(math.Pi), nil
	case "poly":
		return p.poly()
	case "sum", "prod":
		return p.bounded(name)
	}
	i, ok := VarIndex(t.text)
	if !ok {
		return nil, p.fail(t, "unknown name")
	}
	return expr.NewVar(i), nil
}

// group parses a parenthesized expression.
func (p *parser) group() (expr.Expr, error) {
	if err := p.expect("("); err != nil {
		return nil, err
	}
	e, err := p.expr()
	if err != nil {
		return nil, err
	}
	return e, p.expect(")")
}

// variable parses '[' var.
func (p *parser) variable() (uint, error) {
	if err := p.expect("["); err != nil {
		return 0, err
	}
	t := p.next()
	i, ok := VarIndex(t.text)
	if t.kind != tokIdent || !ok {
		return 0, p.fail(t, "expected a variable")
	}
	return i, nil
}

// poly := 'poly' '[' var ']' '(' expr {',' expr} ')'
func (p *parser) poly() (expr.Expr, error) {
	v, err := p.variable()
	if err != nil {
		return nil, err
	}
	if err := p.expect("]"); err != nil {
		return nil, err
	}
	if err := p.expect("("); err != nil {
		return nil, err
	}
	var cs []expr.Expr
	for {
		c, err := p.expr()
		if err != nil {
			return nil, err
		}
		cs = append(cs, c)
		if !p.is(",") {
			break
		}
		p.next()
	}
	if err := p.expect(")"); err != nil {
		return nil, err
	}
	return expr.NewPoly(v, cs...)
}

// bounded := ('sum'|'prod') '[' var '=' int '..' int ']' '(' expr ')'
func (p *parser) bounded(op string) (expr.Expr, error) {
	v, err := p.variable()
	if err != nil {
		return nil, err
	}
	if err := p.expect("="); err != nil {
		return nil, err
	}
	start, err := p.integer()
	if err != nil {
		return nil, err
	}
	if err := p.expect(".."); err != nil {
		return nil, err
	}
	end, err := p.integer()
	if err != nil {
		return nil, err
	}
	if err := p.expect("]"); err != nil {
		return nil, err
	}
	body, err := p.group()
	if err != nil {
		return nil, err
	}
	if op == "sum" {
		return expr.NewSum(v, start, end, body)
	}
	return expr.NewProd(v, start, end, body)
}

func (p *parser) integer() (int, error) {
	sign := 1
	if p.is("-") {
		p.next()
		sign = -1
	}
	t := p.next()
	n, err := strconv.Atoi(t.text)
	if t.kind != tokNum || err != nil {
		return 0, p.fail(t, "expected an integer bound")
	}
	return sign * n, nil
}

func number(t token) (float64, error) {
	return strconv.ParseFloat(t.text, 64)
}

// VarIndex maps a variable name to its index: x, y and z are 0, 1
// and 2; x_N and xN are N.
func VarIndex(name string) (uint, bool) {
	switch name {
	case "x":
		return 0, true
	case "y":
		return 1, true
	case "z":
		return 2, true
	}
	if !strings.HasPrefix(name, "x") {
		return 0, false
	}
	digits := strings.TrimPrefix(name[1:], "_")
	if digits == "" {
		return 0, false
	}
	n, err := strconv.ParseUint(digits, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(n), true
}

// Binding parses a comma separated list of assignments such as
// "x=1, y_3=-2.5" into variable values.
func Binding(text string) (expr.Binding, error) {
	b := make(expr.Binding)
	if strings.TrimSpace(text) == "" {
		return b, nil
	}
	for _, part := range strings.Split(text, ",") {
		name, val, ok := strings.Cut(part, "=")
		if !ok {
			return nil, fmt.Errorf("%w: %q is not an assignment", ErrSyntax, part)
		}
		name = strings.TrimSpace(name)
		i, ok := VarIndex(name)
		if !ok {
			return nil, fmt.Errorf("%w: unknown variable %q", ErrSyntax, name)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: bad value for %s: %v", ErrSyntax, name, err)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: %s=%v is not finite", ErrSyntax, name, v)
		}
		b[i] = v
	}
	return b, nil
}
