package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"zappem.net/pub/io/lined"
	"zappem.net/pub/math/calc/diff"
	"zappem.net/pub/math/calc/expr"
	"zappem.net/pub/math/calc/integrate"
	"zappem.net/pub/math/calc/parse"
	"zappem.net/pub/math/calc/simplify"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Explore expressions interactively.",
	Long: `Read lines of the form

  name := <expr>          define name (an empty right hand side deletes it)
  diff <expr>, <var>      differentiate
  integrate <expr>, a, b  integrate over x from a to b
  <expr> at x=1, y=2      evaluate
  <expr>                  simplify
  list                    show the definitions
  exit

Names defined with := may be used in later expressions.`,
	Run: func(cmd *cobra.Command, args []string) {
		interactive := term.IsTerminal(0)
		var readLine func() (string, error)
		if interactive {
			fmt.Printf("calc: type exit to quit\n\n")
			t := lined.NewReader()
			readLine = t.ReadString
		} else {
			readLine = (&plainReader{bufio.NewReader(os.Stdin)}).ReadString
		}
		s := newSession(os.Stdout, getInt(cmd, "n"))
		for {
			if interactive {
				fmt.Print("> ")
			}
			line, err := readLine()
			if errors.Is(err, io.EOF) {
				if line != "" {
					s.line(line)
				}
				return
			}
			if err != nil {
				log.Fatalf("unable to recover: %v", err)
			}
			if s.line(line) {
				return
			}
		}
	},
}

func init() {
	replCmd.Flags().Int("n", 1000, "subintervals used by integrate")
	rootCmd.AddCommand(replCmd)
}

// plainReader reads lines from a pipe or file.
type plainReader struct {
	r *bufio.Reader
}

func (p *plainReader) ReadString() (string, error) {
	line, err := p.r.ReadString('\n')
	return strings.TrimRight(line, "\r\n"), err
}

var (
	ident  = regexp.MustCompile(`[a-zA-Z_][a-zA-Z0-9_]*`)
	symbol = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]*$`)
)

// reserved names mean something to the parser.
var reserved = map[string]bool{
	"sin": true, "cos": true, "tan": true, "exp": true, "log": true, "ln": true,
	"pi": true, "poly": true, "sum": true, "prod": true,
	"at": true, "diff": true, "integrate": true, "list": true, "exit": true,
}

// session holds the named definitions of a repl.
type session struct {
	out  io.Writer
	vars map[string]expr.Expr
	n    int
}

func newSession(out io.Writer, n int) *session {
	return &session{out: out, vars: make(map[string]expr.Expr), n: n}
}

// expand replaces defined names in text with their values.
func (s *session) expand(text string) string {
	return ident.ReplaceAllStringFunc(text, func(name string) string {
		if e, ok := s.vars[name]; ok {
			return "(" + e.String() + ")"
		}
		return name
	})
}

// parse parses text after expanding defined names.
func (s *session) parse(text string) (expr.Expr, error) {
	return parse.Parse(s.expand(strings.TrimSpace(text)))
}

func (s *session) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}

// line executes one line of input and reports whether the session
// should end.
func (s *session) line(text string) bool {
	text = strings.TrimSpace(text)
	switch {
	case text == "" || strings.HasPrefix(text, "#"):
		return false
	case text == "exit":
		s.printf("exiting\n")
		return true
	case text == "list":
		var ns []string
		for k := range s.vars {
			ns = append(ns, k)
		}
		sort.Strings(ns)
		for _, k := range ns {
			s.printf(" %s := %v\n", k, s.vars[k])
		}
		return false
	}

	if name, rhs, ok := strings.Cut(text, ":="); ok {
		s.assign(strings.TrimSpace(name), rhs)
		return false
	}
	if rest, ok := strings.CutPrefix(text, "diff "); ok {
		s.diff(rest)
		return false
	}
	if rest, ok := strings.CutPrefix(text, "integrate "); ok {
		s.integrate(rest)
		return false
	}
	if body, at, ok := strings.Cut(text, " at "); ok {
		s.eval(body, at)
		return false
	}
	e, err := s.parse(text)
	if err != nil {
		s.printf("%v\n", err)
		return false
	}
	s.printf(" %v\n", simplify.Simplify(e))
	return false
}

func (s *session) assign(name, rhs string) {
	if _, isVar := parse.VarIndex(name); isVar || reserved[name] || !symbol.MatchString(name) {
		s.printf("invalid assignment to %q\n", name)
		return
	}
	if strings.TrimSpace(rhs) == "" {
		delete(s.vars, name)
		return
	}
	e, err := s.parse(rhs)
	if err != nil {
		s.printf("assignment to %q failed: %v\n", name, err)
		return
	}
	s.vars[name] = simplify.Simplify(e)
}

// lastFields splits off the final n comma separated fields of text.
func lastFields(text string, n int) (string, []string, bool) {
	fs := make([]string, n)
	for k := n - 1; k >= 0; k-- {
		i := strings.LastIndex(text, ",")
		if i < 0 {
			return "", nil, false
		}
		fs[k] = strings.TrimSpace(text[i+1:])
		text = text[:i]
	}
	return text, fs, true
}

func (s *session) diff(rest string) {
	body, fs, ok := lastFields(rest, 1)
	if !ok {
		s.printf("usage: diff <expr>, <var>\n")
		return
	}
	i, ok := parse.VarIndex(fs[0])
	if !ok {
		s.printf("%q is not a variable\n", fs[0])
		return
	}
	e, err := s.parse(body)
	if err != nil {
		s.printf("%v\n", err)
		return
	}
	s.printf(" %v\n", diff.Nth(e, i, 1))
}

func (s *session) integrate(rest string) {
	body, fs, ok := lastFields(rest, 2)
	if !ok {
		s.printf("usage: integrate <expr>, a, b\n")
		return
	}
	var bounds [2]float64
	for k, f := range fs {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			s.printf("bad bound %q\n", f)
			return
		}
		bounds[k] = v
	}
	e, err := s.parse(body)
	if err != nil {
		s.printf("%v\n", err)
		return
	}
	v, err := integrate.Integrate(e, integrate.CompositeTrapezoidal(s.n), bounds[0], bounds[1])
	if err != nil {
		s.printf("%v\n", err)
		return
	}
	s.printf(" %v\n", v)
}

func (s *session) eval(body, at string) {
	e, err := s.parse(body)
	if err != nil {
		s.printf("%v\n", err)
		return
	}
	b, err := parse.Binding(at)
	if err != nil {
		s.printf("%v\n", err)
		return
	}
	v, err := expr.Evaluate(e, b)
	if err != nil {
		s.printf("%v\n", err)
		return
	}
	s.printf(" %v\n", v)
}
