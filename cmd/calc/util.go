package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"zappem.net/pub/math/calc/expr"
	"zappem.net/pub/math/calc/parse"
)

// Get an expected flag, or exit if an error arises.
func getFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	return r
}

// Get an expected int flag, or exit if an error arises.
func getInt(cmd *cobra.Command, flag string) int {
	r, err := cmd.Flags().GetInt(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	return r
}

// Get an expected int64 flag, or exit if an error arises.
func getInt64(cmd *cobra.Command, flag string) int64 {
	r, err := cmd.Flags().GetInt64(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	return r
}

// Get an expected float flag, or exit if an error arises.
func getFloat(cmd *cobra.Command, flag string) float64 {
	r, err := cmd.Flags().GetFloat64(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	return r
}

// Get an expected string flag, or exit if an error arises.
func getString(cmd *cobra.Command, flag string) string {
	r, err := cmd.Flags().GetString(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}
	return r
}

// Get a flag naming a variable, such as "y" or "x_3".
func getVar(cmd *cobra.Command, flag string) uint {
	name := getString(cmd, flag)
	i, ok := parse.VarIndex(name)
	if !ok {
		fmt.Printf("--%s: %q is not a variable\n", flag, name)
		os.Exit(2)
	}
	return i
}

// Get a flag holding variable assignments, such as "x=1, y=2".
func getBinding(cmd *cobra.Command, flag string) expr.Binding {
	b, err := parse.Binding(getString(cmd, flag))
	if err != nil {
		fmt.Printf("--%s: %v\n", flag, err)
		os.Exit(2)
	}
	return b
}

// Get a comma separated list of positive integers.
func getInts(cmd *cobra.Command, flag string) []int {
	var ns []int
	for _, s := range strings.Split(getString(cmd, flag), ",") {
		if s = strings.TrimSpace(s); s == "" {
			continue
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			fmt.Printf("--%s: %v\n", flag, err)
			os.Exit(2)
		}
		ns = append(ns, n)
	}
	return ns
}

// parseArgs parses the single expression argument of a command, or
// exits with usage.
func parseArgs(cmd *cobra.Command, args []string) expr.Expr {
	if len(args) != 1 {
		fmt.Println(cmd.UsageString())
		os.Exit(1)
	}
	e, err := parse.Parse(args[0])
	if err != nil {
		fatal(err)
	}
	return e
}

// fatal reports err and exits.
func fatal(err error) {
	fmt.Println(err)
	os.Exit(1)
}
