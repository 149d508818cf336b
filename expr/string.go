package expr

import (
	"fmt"
	"strconv"
	"strings"
)

// formatNum renders a number so that it parses back to the same
// float64.
func formatNum(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func (v *Var) String() string {
	return fmt.Sprintf("x_%d", v.index)
}

func (c *Const) String() string {
	return formatNum(c.value)
}

func join(es []Expr, sep string) string {
	s := make([]string, len(es))
	for i, e := range es {
		s[i] = e.String()
	}
	return strings.Join(s, sep)
}

func (a *Add) String() string {
	return "(" + join(a.args, " + ") + ")"
}

func (m *Mul) String() string {
	return "(" + join(m.args, " * ") + ")"
}

func (d *Div) String() string {
	return "(" + d.num.String() + " / " + d.den.String() + ")"
}

// atom renders e so that it binds tighter than a unary minus or a
// power.
func atom(e Expr) string {
	switch x := e.(type) {
	case *Const:
		if x.value < 0 {
			return "(" + x.String() + ")"
		}
	case *Neg, *Pow:
		return "(" + e.String() + ")"
	}
	return e.String()
}

func (n *Neg) String() string {
	if _, ok := n.arg.(*Const); ok {
		// Keeps -(2) distinct from the literal -2.
		return "-(" + n.arg.String() + ")"
	}
	return "-" + atom(n.arg)
}

func (f *Func) String() string {
	return f.kind.String() + "(" + f.arg.String() + ")"
}

func (p *Pow) String() string {
	return fmt.Sprintf("%s^%d", atom(p.base), p.exp)
}

func (p *Poly) String() string {
	return fmt.Sprintf("poly[x_%d](%s)", p.v, join(p.coeffs, ", "))
}

func (b *bound) format(op string) string {
	return fmt.Sprintf("%s[x_%d=%d..%d](%s)", op, b.v, b.start, b.end, b.body)
}

func (s *Sum) String() string {
	return s.format("sum")
}

func (p *Prod) String() string {
	return p.format("prod")
}
