// Package main implements the nvc CLI: the command-line driver spec.md
// §1 treats as an external collaborator to the core, realized here with
// github.com/spf13/cobra the way the teacher's cmd/surge wires its own
// subcommands onto a root command.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"nvcgo/internal/elab"
	"nvcgo/internal/ident"
	"nvcgo/internal/jit"
	"nvcgo/internal/kernel"
	"nvcgo/internal/library"
)

// schemaDigest versions the object schemas compiled into this binary
// (internal/library's SchemaDigest); bump it whenever a Kind's declared
// slot mask changes shape in a way that would make an old persisted unit
// unreadable.
const schemaDigest library.SchemaDigest = 1

var (
	flagStd     string
	flagWave    string
	flagWork    string
	flagColor   string
	flagQuiet   bool
)

var rootCmd = &cobra.Command{
	Use:           "nvc",
	Short:         "nvc is a VHDL core simulator",
	Long:          "nvc analyses, elaborates and runs VHDL designs over a discrete-event simulation kernel.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	rootCmd.PersistentFlags().StringVar(&flagStd, "std", "2008", "VHDL revision (1993|2002|2008|2019)")
	rootCmd.PersistentFlags().StringVar(&flagWave, "wave", "", "write a text waveform dump to this path")
	rootCmd.PersistentFlags().StringVar(&flagWork, "work", "work", "library directory")
	rootCmd.PersistentFlags().StringVar(&flagColor, "color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().BoolVar(&flagQuiet, "quiet", false, "suppress non-essential output")

	rootCmd.AddCommand(analyseCmd, elaborateCmd, runCmd, shellCmd)

	if err := rootCmd.Execute(); err != nil {
		printErr(err)
		os.Exit(exitCodeFor(err))
	}
}

// exitCodeFor maps an error to the exit codes spec.md §6 specifies: 0 is
// success (handled by Execute returning nil, never reaching here); 1 is
// a usage/elaboration/IO error; 2 is a runtime trap encountered while
// running the simulation.
func exitCodeFor(err error) int {
	if _, ok := err.(*kernel.Trap); ok {
		return 2
	}
	return 1
}

func printErr(err error) {
	label := "error"
	if useColor() {
		label = color.New(color.FgRed, color.Bold).Sprint(label)
	}
	msg := err.Error()
	if trap, ok := err.(*kernel.Trap); ok && lastIdc != nil {
		if unit, proc, ok := elab.DescribeFrame(lastIdc, jit.FuncID(trap.Frame)); ok {
			msg = fmt.Sprintf("%s (in %s.%s)", msg, unit, proc)
		}
	}
	fmt.Fprintf(os.Stderr, "%s: %s\n", label, msg)
}

// lastIdc is the identifier table of the most recently elaborated design,
// kept so printErr can resolve a *kernel.Trap's Frame back to a process
// name. Set by elaborateFixture; cobra's RunE chain only threads an error
// back to main, not the *elab.Design it came from.
var lastIdc *ident.Table

func useColor() bool {
	switch flagColor {
	case "on":
		return true
	case "off":
		return false
	default:
		return os.Getenv("NO_COLOR") == ""
	}
}

func openWorkLibrary() (*library.Catalog, error) {
	return library.OpenCatalog(flagWork, schemaDigest)
}

// elaborateFixture builds and elaborates the named fixture in one step,
// for elaborate/run/shell, all of which need a live *elab.Design.
func elaborateFixture(name string) (*elab.Design, error) {
	built, err := lookupFixture(name)
	if err != nil {
		return nil, err
	}
	e := elab.NewElaborator(built.tree, built.types)
	e.UnitName = name
	design, err := e.Elaborate(built.root, built.resolvers)
	if design != nil {
		lastIdc = design.Idc
	}
	return design, err
}
