package main

import (
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"zappem.net/pub/math/calc/approx"
)

// method builds the approximation method selected by the flags.
func method(cmd *cobra.Command) (approx.Method, error) {
	var (
		degree  = getInt(cmd, "degree")
		rate    = getFloat(cmd, "lr")
		iters   = getInt(cmd, "iters")
		tol     = getFloat(cmd, "tol")
		samples = getInt(cmd, "samples")
	)
	switch name := getString(cmd, "method"); name {
	case "legendre":
		return approx.Legendre{Degree: degree, Subintervals: getInt(cmd, "n")}, nil
	case "gd":
		return approx.GradientDescent{
			Degree:       degree,
			LearningRate: rate,
			Iterations:   iters,
			Tolerance:    tol,
			Samples:      samples,
		}, nil
	case "nn":
		a, err := approx.ParseActivation(getString(cmd, "activation"))
		if err != nil {
			return nil, err
		}
		return approx.NeuralNet{
			Layers:       getInts(cmd, "layers"),
			Activation:   a,
			LearningRate: rate,
			Iterations:   iters,
			Tolerance:    tol,
			Samples:      samples,
			Seed:         getInt64(cmd, "seed"),
		}, nil
	default:
		return nil, fmt.Errorf("unknown method %q", name)
	}
}

var approxCmd = &cobra.Command{
	Use:   "approx [flags] expr",
	Short: "Approximate a function of x.",
	Long: `Approximate a function of x over [from, to] with a Legendre series,
a polynomial fitted by gradient descent, or a small neural network.
The result is printed with its mean squared error.`,
	Run: func(cmd *cobra.Command, args []string) {
		e := parseArgs(cmd, args)
		m, err := method(cmd)
		if err != nil {
			fatal(err)
		}
		d := approx.Domain{A: getFloat(cmd, "from"), B: getFloat(cmd, "to")}
		t := approx.Expr(e)
		a, err := approx.Approximate(t, m, d)
		if errors.Is(err, approx.ErrNonConvergence) {
			log.Warn(err)
		} else if err != nil {
			fatal(err)
		}
		fmt.Println(a)
		mse, err := approx.MSE(t, a, d, approx.DefaultSamples)
		if err != nil {
			fatal(err)
		}
		fmt.Printf("mse %g\n", mse)
	},
}

func init() {
	approxCmd.Flags().String("method", "legendre", "legendre, gd or nn")
	approxCmd.Flags().Int("degree", 4, "polynomial degree")
	approxCmd.Flags().Int("n", approx.DefaultSubintervals, "quadrature subintervals of the legendre method")
	approxCmd.Flags().Float64("lr", approx.DefaultLearningRate, "learning rate")
	approxCmd.Flags().Int("iters", approx.DefaultIterations, "maximum number of iterations")
	approxCmd.Flags().Float64("tol", approx.DefaultTolerance, "stop once the loss improves by less than this")
	approxCmd.Flags().Int("samples", approx.DefaultSamples, "training points")
	approxCmd.Flags().String("layers", "8", "hidden layer widths, comma separated")
	approxCmd.Flags().String("activation", "sigmoid", "sigmoid, tanh or softplus")
	approxCmd.Flags().Int64("seed", 1, "weight initialization seed")
	approxCmd.Flags().Float64("from", -1, "domain start")
	approxCmd.Flags().Float64("to", 1, "domain end")
	rootCmd.AddCommand(approxCmd)
}
