package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"zappem.net/pub/math/calc/expr"
	"zappem.net/pub/math/calc/parse"
	"zappem.net/pub/math/calc/rotation"
)

// rotate turns e by theta in the plane of two variables, or, if axis
// is set, about a coordinate axis ("x", "y" or "z") or a direction
// ("1,1,0") of (x, y, z) space.
func rotate(e, theta expr.Expr, plane, axis string) (expr.Expr, error) {
	if axis != "" {
		if i, ok := parse.VarIndex(strings.TrimSpace(axis)); ok {
			return rotation.Rotate3(e, theta, i)
		}
		fs := strings.Split(axis, ",")
		if len(fs) != 3 {
			return nil, fmt.Errorf("axis %q is neither a variable nor a direction", axis)
		}
		var dir [3]float64
		for k, f := range fs {
			v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
			if err != nil {
				return nil, fmt.Errorf("axis %q: %v", axis, err)
			}
			dir[k] = v
		}
		return rotation.RotateAbout(e, theta, dir)
	}
	vs := strings.Split(plane, ",")
	if len(vs) != 2 {
		return nil, fmt.Errorf("plane needs two variables, not %q", plane)
	}
	var ij [2]uint
	for k, name := range vs {
		i, ok := parse.VarIndex(strings.TrimSpace(name))
		if !ok {
			return nil, fmt.Errorf("%q is not a variable", name)
		}
		ij[k] = i
	}
	return rotation.Rotate(e, theta, ij[0], ij[1])
}

var rotateCmd = &cobra.Command{
	Use:   "rotate [flags] expr",
	Short: "Rotate a function in a plane or about an axis.",
	Run: func(cmd *cobra.Command, args []string) {
		e := parseArgs(cmd, args)
		theta, err := parse.Parse(getString(cmd, "angle"))
		if err != nil {
			fatal(err)
		}
		r, err := rotate(e, theta, getString(cmd, "plane"), getString(cmd, "axis"))
		if err != nil {
			fatal(err)
		}
		fmt.Println(r)
	},
}

func init() {
	rotateCmd.Flags().String("angle", "0", "angle, an expression")
	rotateCmd.Flags().String("plane", "x,y", "the two variables spanning the plane")
	rotateCmd.Flags().String("axis", "", "rotate about x, y, z or a direction such as \"1,1,0\" instead")
	rootCmd.AddCommand(rotateCmd)
}
