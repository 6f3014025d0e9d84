package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/inkmath/gram2d/tester"
	"github.com/spf13/cobra"
)

var testFlags = struct {
	timeout *time.Duration
	disable *disableFlags
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "test <grammar file path> <test file path>|<test directory path>",
		Short:   "Test a grammar",
		Example: `  gram2d test -t terminals.json calc.grm test`,
		Args:    cobra.ExactArgs(2),
		RunE:    runTest,
	}
	testFlags.timeout = cmd.Flags().Duration("timeout", 10*time.Second, "abort a test case after this duration")
	testFlags.disable = addDisableFlags(cmd)
	rootCmd.AddCommand(cmd)
}

func runTest(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	o, err := readTerminals()
	if err != nil {
		return err
	}
	ps, err := readProductions(ctx, args[0], o)
	if err != nil {
		return err
	}
	err = testFlags.disable.apply(ps)
	if err != nil {
		return err
	}

	var cs []*tester.TestCaseWithMetadata
	{
		cs = tester.ListTestCases(args[1])
		errOccurred := false
		for _, c := range cs {
			if c.Error != nil {
				fmt.Fprintf(os.Stderr, "Failed to read a test case or a directory: %v\n%v\n", c.FilePath, c.Error)
				errOccurred = true
			}
		}
		if errOccurred {
			return errors.New("Cannot run test")
		}
	}

	t := &tester.Tester{
		Productions: ps,
		Cases:       cs,
		Timeout:     *testFlags.timeout,
	}
	rs := t.Run(ctx)
	testFailed := false
	for _, r := range rs {
		fmt.Fprintln(os.Stdout, r)
		if r.Error != nil {
			testFailed = true
		}
	}
	if testFailed {
		return errors.New("Test failed")
	}
	return nil
}
