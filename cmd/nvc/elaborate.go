package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var elaborateCmd = &cobra.Command{
	Use:   "elaborate <unit>",
	Short: "elaborate a design unit into a runnable simulation",
	Args:  cobra.ExactArgs(1),
	RunE:  runElaborate,
}

func runElaborate(cmd *cobra.Command, args []string) error {
	design, err := elaborateFixture(args[0])
	if err != nil {
		return err
	}
	if !flagQuiet {
		fmt.Fprintf(cmd.OutOrStdout(), "elaborated %s: %d signal(s)\n", args[0], len(design.Signals))
	}
	return nil
}
