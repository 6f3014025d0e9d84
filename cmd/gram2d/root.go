package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/inkmath/gram2d/grammar"
	"github.com/inkmath/gram2d/spec"
	"github.com/inkmath/gram2d/terminal"
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/spf13/cobra"
)

var rootFlags = struct {
	terminals *string
	trace     *string
}{}

var rootCmd = &cobra.Command{
	Use:   "gram2d",
	Short: "Match spatial token collections against a two-dimensional grammar",
	Long: `gram2d provides the following features:
- Reports the analyses of a grammar: required types, possible types and children.
- Lists the productions a token collection can instantiate, with their heads.
- Runs test cases against a grammar.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupTracing(*rootFlags.trace)
	},
}

func init() {
	rootFlags.terminals = rootCmd.PersistentFlags().StringP("terminals", "t", "terminals.json", "terminal type definitions")
	rootFlags.trace = rootCmd.PersistentFlags().String("trace", "error", "trace level: error, info or debug")
}

func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return err
	}
	return nil
}

var traceLevels = map[string]tracing.TraceLevel{
	"error": tracing.LevelError,
	"info":  tracing.LevelInfo,
	"debug": tracing.LevelDebug,
}

func setupTracing(level string) error {
	l, ok := traceLevels[strings.ToLower(level)]
	if !ok {
		return fmt.Errorf("Unknown trace level: %v", level)
	}
	if gtrace.CoreTracer == nil {
		gtrace.CoreTracer = gologadapter.New()
	}
	gtrace.CoreTracer.SetTraceLevel(l)
	return nil
}

func readTerminals() (*terminal.Set, error) {
	s, err := terminal.LoadFile(*rootFlags.terminals)
	if err != nil {
		return nil, fmt.Errorf("Cannot read terminal types: %w", err)
	}
	return s, nil
}

// readProductions loads a grammar from a file path or an http(s) URL.
func readProductions(ctx context.Context, path string, oracle grammar.TerminalTypeOracle) (*grammar.ProductionSet, error) {
	var ps *grammar.ProductionSet
	var err error
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		ps, err = spec.LoadURL(ctx, path, oracle)
	} else {
		ps, err = spec.LoadFile(path, oracle)
	}
	if err != nil {
		return nil, fmt.Errorf("Cannot read a grammar: %w", err)
	}
	return ps, nil
}

// disableFlags are shared by the commands that run matching passes.
type disableFlags struct {
	lhs     *[]string
	summary *[]string
	node    *[]string
}

func addDisableFlags(cmd *cobra.Command) *disableFlags {
	return &disableFlags{
		lhs:     cmd.Flags().StringSlice("disable-lhs", nil, "disable the productions of these left-hand sides"),
		summary: cmd.Flags().StringSlice("disable-summary", nil, "disable the productions with these summaries"),
		node:    cmd.Flags().StringSlice("disable-node", nil, "disable the productions mentioning these grammar nodes"),
	}
}

func (f *disableFlags) apply(ps *grammar.ProductionSet) error {
	for _, lhs := range *f.lhs {
		if _, err := ps.DisableByLHS(lhs); err != nil {
			return fmt.Errorf("Cannot disable %v: %w", lhs, err)
		}
	}
	for _, s := range *f.summary {
		if _, err := ps.DisableBySummary(s); err != nil {
			return fmt.Errorf("Cannot disable %v: %w", s, err)
		}
	}
	for _, n := range *f.node {
		if _, err := ps.DisableByGrammarNode(n); err != nil {
			return fmt.Errorf("Cannot disable %v: %w", n, err)
		}
	}
	return nil
}
