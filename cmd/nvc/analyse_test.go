package main

import (
	"context"
	"testing"

	"github.com/spf13/cobra"
)

func TestRunAnalyseHandlesMultipleUnitsConcurrently(t *testing.T) {
	oldWork, oldQuiet := flagWork, flagQuiet
	flagWork = t.TempDir()
	flagQuiet = true
	defer func() { flagWork, flagQuiet = oldWork, oldQuiet }()

	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	if err := runAnalyse(cmd, []string{"counter", "assert_demo"}); err != nil {
		t.Fatalf("runAnalyse: %v", err)
	}

	cat, err := openWorkLibrary()
	if err != nil {
		t.Fatalf("openWorkLibrary: %v", err)
	}
	units, err := cat.Units("WORK")
	if err != nil {
		t.Fatalf("Units: %v", err)
	}
	got := map[string]bool{}
	for _, u := range units {
		got[u] = true
	}
	for _, want := range []string{"counter", "assert_demo"} {
		if !got[want] {
			t.Fatalf("unit %q not saved into work library, got %v", want, units)
		}
	}
}

func TestRunAnalyseReportsUnknownUnit(t *testing.T) {
	oldWork, oldQuiet := flagWork, flagQuiet
	flagWork = t.TempDir()
	flagQuiet = true
	defer func() { flagWork, flagQuiet = oldWork, oldQuiet }()

	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	err := runAnalyse(cmd, []string{"counter", "no_such_unit"})
	if err == nil {
		t.Fatalf("expected an error for an unknown unit")
	}
}
