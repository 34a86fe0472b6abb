package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/saralopezbz/iris-predictor/internal/adapter/client"
)

type options struct {
	baseURL string
	timeout time.Duration
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:          "predictctl",
		Short:        "Command line client for the prediction service",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.baseURL, "url", "http://localhost:5000", "base URL of the prediction service")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "per-request timeout")

	root.AddCommand(newInfoCmd(opts), newPredictCmd(opts), newSmokeCmd(opts))
	return root
}

func newInfoCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show the loaded model's classes and feature count",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c := client.NewPredictorClient(opts.baseURL, opts.timeout)
			info, err := c.Info(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd, info)
		},
	}
}

func newPredictCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "predict <feature>...",
		Short: "Classify one feature vector",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			features := make([]float64, len(args))
			for i, arg := range args {
				v, err := strconv.ParseFloat(arg, 64)
				if err != nil {
					return fmt.Errorf("feature %d: %q is not a number", i, arg)
				}
				features[i] = v
			}

			c := client.NewPredictorClient(opts.baseURL, opts.timeout)
			result, err := c.Predict(cmd.Context(), features)
			if err != nil {
				return err
			}
			return printJSON(cmd, result)
		},
	}
}

func newSmokeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "smoke",
		Short: "Run the scripted end-to-end checks against a running service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c := client.NewPredictorClient(opts.baseURL, opts.timeout)
			report := runSmoke(cmd.Context(), c, cmd.OutOrStdout())
			if report.Failed > 0 {
				return fmt.Errorf("%d of %d checks failed", report.Failed, report.Total())
			}
			return nil
		},
	}
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
