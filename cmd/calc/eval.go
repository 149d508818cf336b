package main

import (
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"zappem.net/pub/math/calc/diff"
	"zappem.net/pub/math/calc/expr"
	"zappem.net/pub/math/calc/matrix"
	"zappem.net/pub/math/calc/simplify"
)

var evalCmd = &cobra.Command{
	Use:   "eval [flags] expr",
	Short: "Evaluate an expression.",
	Run: func(cmd *cobra.Command, args []string) {
		e := parseArgs(cmd, args)
		b := getBinding(cmd, "at")
		log.Debugf("evaluating %v with %v", e, b)
		v, err := expr.Evaluate(e, b)
		if err != nil {
			fatal(err)
		}
		fmt.Println(v)
	},
}

var simplifyCmd = &cobra.Command{
	Use:   "simplify expr",
	Short: "Simplify an expression.",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(simplify.Simplify(parseArgs(cmd, args)))
	},
}

var diffCmd = &cobra.Command{
	Use:   "diff [flags] expr",
	Short: "Differentiate an expression.",
	Run: func(cmd *cobra.Command, args []string) {
		e := parseArgs(cmd, args)
		n := getInt(cmd, "order")
		if n < 0 {
			fatal(fmt.Errorf("negative order %d", n))
		}
		fmt.Println(diff.Nth(e, getVar(cmd, "var"), n))
	},
}

var gradCmd = &cobra.Command{
	Use:   "grad [flags] expr",
	Short: "Print the gradient, or Hessian, of an expression.",
	Run: func(cmd *cobra.Command, args []string) {
		e := parseArgs(cmd, args)
		n := getInt(cmd, "dim")
		if n == 0 {
			for _, v := range expr.Vars(e) {
				if int(v) >= n {
					n = int(v) + 1
				}
			}
		}
		f := matrix.Gradient
		if getFlag(cmd, "hessian") {
			f = matrix.Hessian
		}
		m, err := f(e, n)
		if err != nil {
			fatal(err)
		}
		at := getBinding(cmd, "at")
		if len(at) == 0 {
			fmt.Println(m)
			return
		}
		vs, err := m.Eval(at)
		if errors.Is(err, expr.ErrUndefinedVariable) {
			// Partially bound: print what is left.
			s := make(map[uint]expr.Expr, len(at))
			for i, v := range at {
				s[i] = expr.C(v)
			}
			fmt.Println(m.Substitute(s))
			return
		}
		if err != nil {
			fatal(err)
		}
		fmt.Println(vs)
	},
}

var sampleCmd = &cobra.Command{
	Use:   "sample [flags] expr",
	Short: "Tabulate a function of x.",
	Run: func(cmd *cobra.Command, args []string) {
		e := parseArgs(cmd, args)
		ps, err := expr.Sample(e, getFloat(cmd, "from"), getFloat(cmd, "to"), getInt(cmd, "steps"))
		if err != nil {
			fatal(err)
		}
		for _, p := range ps {
			fmt.Printf("%g\t%g\n", p.X, p.Y)
		}
	},
}

func init() {
	evalCmd.Flags().String("at", "", "variable values, for example \"x=1, y=2\"")
	diffCmd.Flags().String("var", "x", "variable to differentiate with respect to")
	diffCmd.Flags().Int("order", 1, "number of times to differentiate")
	gradCmd.Flags().Int("dim", 0, "number of variables (default: enough for the expression)")
	gradCmd.Flags().Bool("hessian", false, "print the matrix of second derivatives")
	gradCmd.Flags().String("at", "", "values of some or all of the variables")
	sampleCmd.Flags().Float64("from", -1, "first x")
	sampleCmd.Flags().Float64("to", 1, "last x")
	sampleCmd.Flags().Int("steps", 20, "number of intervals")
	rootCmd.AddCommand(evalCmd)
	rootCmd.AddCommand(simplifyCmd)
	rootCmd.AddCommand(diffCmd)
	rootCmd.AddCommand(gradCmd)
	rootCmd.AddCommand(sampleCmd)
}
