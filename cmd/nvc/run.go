package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"nvcgo/internal/kernel"
	"nvcgo/internal/shell"
)

var flagRunFor string

var runCmd = &cobra.Command{
	Use:   "run <unit>",
	Short: "elaborate a design unit and run its simulation to completion",
	Args:  cobra.ExactArgs(1),
	RunE:  runRun,
}

func init() {
	runCmd.Flags().StringVar(&flagRunFor, "run-for", "1 us", "how long to run the simulation")
}

func runRun(cmd *cobra.Command, args []string) error {
	design, err := elaborateFixture(args[0])
	if err != nil {
		return err
	}

	until, err := shell.ParseDuration(flagRunFor)
	if err != nil {
		return err
	}

	if flagWave != "" {
		f, err := os.Create(flagWave)
		if err != nil {
			return err
		}
		defer f.Close()

		names := make(map[kernel.SignalID]string, len(design.Signals))
		for name, id := range design.Signals {
			names[id] = name
		}
		design.Kernel.AttachWaveSink(names, kernel.NewTextSink(f))
	}

	if err := design.Kernel.Run(design.Kernel.Now() + until); err != nil {
		return err
	}

	if !flagQuiet {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "time is now %d fs\n", int64(design.Kernel.Now()))
		names := make([]string, 0, len(design.Signals))
		for name := range design.Signals {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(out, "%s = %v\n", name, design.Kernel.ValueOf(design.Signals[name]))
		}
	}
	return nil
}
