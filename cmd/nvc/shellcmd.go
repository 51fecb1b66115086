package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"nvcgo/internal/elab"
	"nvcgo/internal/shell"
)

var shellCmd = &cobra.Command{
	Use:   "shell <unit>",
	Short: "elaborate a design unit and drop into the interactive shell",
	Args:  cobra.ExactArgs(1),
	RunE:  runShell,
}

// runShell elaborates unit and serves the interactive shell over stdin/
// stdout via shell.TermTransport. `reset` re-runs elaborateFixture from
// scratch, standing in for a real rebuild-from-source cycle.
func runShell(cmd *cobra.Command, args []string) error {
	unit := args[0]
	design, err := elaborateFixture(unit)
	if err != nil {
		return err
	}

	rebuild := func() (*elab.Design, error) { return elaborateFixture(unit) }
	sh := shell.New(design, rebuild)

	sh.Handlers.Subscribe(func(ev shell.Event) {
		switch ev.Kind {
		case shell.Stderr:
			fmt.Fprintln(os.Stderr, ev.Text)
		default:
			fmt.Fprintln(cmd.OutOrStdout(), ev.Text)
		}
	})

	if !flagQuiet {
		banner := fmt.Sprintf("entering shell for %s (type 'quit' to exit)", unit)
		if useColor() {
			banner = color.New(color.FgCyan).Sprint(banner)
		}
		fmt.Fprintln(cmd.OutOrStdout(), banner)
	}

	transport := shell.NewTermTransport(os.Stdin, cmd.OutOrStdout())
	sh.Serve(transport)
	return nil
}
