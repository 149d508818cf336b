package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"zappem.net/pub/math/calc/integrate"
)

// parseRule returns the quadrature rule with the given name. The
// composite rules use n subintervals.
func parseRule(name string, n int) (integrate.Rule, error) {
	switch name {
	case "midpoint":
		return integrate.Midpoint(), nil
	case "trapezoidal":
		return integrate.Trapezoidal(), nil
	case "composite-midpoint":
		return integrate.CompositeMidpoint(n), nil
	case "composite-trapezoidal":
		return integrate.CompositeTrapezoidal(n), nil
	}
	return integrate.Rule{}, fmt.Errorf("unknown rule %q", name)
}

var integrateCmd = &cobra.Command{
	Use:   "integrate [flags] expr",
	Short: "Integrate an expression over one variable.",
	Long: `Integrate an expression numerically with respect to one variable,
holding the others at the values given by --at.`,
	Run: func(cmd *cobra.Command, args []string) {
		e := parseArgs(cmd, args)
		r, err := parseRule(getString(cmd, "rule"), getInt(cmd, "n"))
		if err != nil {
			fatal(err)
		}
		v, err := integrate.Along(e, getVar(cmd, "var"), getBinding(cmd, "at"), r, getFloat(cmd, "from"), getFloat(cmd, "to"))
		if err != nil {
			fatal(err)
		}
		fmt.Println(v)
	},
}

func init() {
	integrateCmd.Flags().String("rule", "composite-trapezoidal", "midpoint, trapezoidal, composite-midpoint or composite-trapezoidal")
	integrateCmd.Flags().Int("n", 1000, "subintervals of the composite rules")
	integrateCmd.Flags().Float64("from", 0, "lower limit")
	integrateCmd.Flags().Float64("to", 1, "upper limit")
	integrateCmd.Flags().String("var", "x", "variable of integration")
	integrateCmd.Flags().String("at", "", "values of the other variables")
	rootCmd.AddCommand(integrateCmd)
}
