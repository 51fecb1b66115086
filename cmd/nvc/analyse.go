package main

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var analyseCmd = &cobra.Command{
	Use:   "analyse <unit>...",
	Short: "analyse one or more design units and save them into the work library",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAnalyse,
}

// analyseResult is one unit's outcome, written to its own slice index so
// concurrent workers never contend on a shared mutex -- the same
// results-slice-by-index pattern the teacher's internal/driver/parallel.go
// uses for per-file tokenize/parse results.
type analyseResult struct {
	name string
	err  error
}

// runAnalyse stands in for a real front end's semantic-analysis pass: for
// each named unit it looks the unit up in the fixtures table (§1's
// lexer/parser boundary) and persists its tree into the work library,
// exercising the library manager (C5) the way a real analyse step would
// cache a compiled unit for later elaboration.
//
// Units named on one command line carry no instantiation dependency on
// one another (each builds its own tree.Builder/vtype.Interner from
// scratch), so §5 allows analysing them with bounded parallelism rather
// than one at a time; grounded on the teacher's driver.TokenizeDir/ParseDir
// errgroup.WithContext + SetLimit pattern.
func runAnalyse(cmd *cobra.Command, args []string) error {
	cat, err := openWorkLibrary()
	if err != nil {
		return err
	}

	jobs := runtime.GOMAXPROCS(0)
	results := make([]analyseResult, len(args))

	g, _ := errgroup.WithContext(cmd.Context())
	g.SetLimit(min(jobs, len(args)))

	for i, name := range args {
		g.Go(func() error {
			built, err := lookupFixture(name)
			if err != nil {
				results[i] = analyseResult{name: name, err: err}
				return nil
			}
			if err := cat.Save(built.tree.Store, "WORK", name, built.root); err != nil {
				results[i] = analyseResult{name: name, err: err}
				return nil
			}
			results[i] = analyseResult{name: name}
			return nil
		})
	}
	_ = g.Wait() // every worker always returns nil; failures are collected per unit instead

	var failed []string
	for _, r := range results {
		if r.err != nil {
			failed = append(failed, fmt.Sprintf("%s: %v", r.name, r.err))
			continue
		}
		if !flagQuiet {
			fmt.Fprintf(cmd.OutOrStdout(), "analysed %s.WORK into %s\n", r.name, flagWork)
		}
	}
	if len(failed) > 0 {
		return fmt.Errorf("analyse failed for %d unit(s):\n%s", len(failed), strings.Join(failed, "\n"))
	}
	return nil
}
