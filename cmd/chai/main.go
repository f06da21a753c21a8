package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kanye-quest/CHAI/accel"
)

var verbose bool

func main() {
	root := &cobra.Command{
		Use:   "chai",
		Short: "Dual-space pointer playground",
		Long: "chai exercises host/device owning pointers against an in-process\n" +
			"accelerator: construct in both spaces, resolve per context, tear down once.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				log, err := zap.NewDevelopment()
				if err != nil {
					return err
				}
				accel.SetLogger(log)
			}
			return nil
		},
		SilenceUsage: true,
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newDemoCmd())
	root.AddCommand(newBenchCmd())
	root.AddCommand(newStatsCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
