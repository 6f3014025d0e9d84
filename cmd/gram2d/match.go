package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/inkmath/gram2d/grammar"
	"github.com/inkmath/gram2d/spec"
	"github.com/spf13/cobra"
)

var matchFlags = struct {
	source     *string
	lhs        *string
	timeout    *time.Duration
	structural *bool
	disable    *disableFlags
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "match <grammar file path>",
		Short:   "List the productions a token collection can instantiate",
		Example: `  cat tokens.json | gram2d match -t terminals.json calc.grm`,
		Args:    cobra.ExactArgs(1),
		RunE:    runMatch,
	}
	matchFlags.source = cmd.Flags().StringP("source", "s", "", "token collection file path (default stdin)")
	matchFlags.lhs = cmd.Flags().String("lhs", "", "match only the productions of this left-hand side")
	matchFlags.timeout = cmd.Flags().Duration("timeout", 0, "abort matching after this duration (default no limit)")
	matchFlags.structural = cmd.Flags().Bool("structural", false, "also list the productions that only match structurally")
	matchFlags.disable = addDisableFlags(cmd)
	rootCmd.AddCommand(cmd)
}

func runMatch(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	if *matchFlags.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *matchFlags.timeout)
		defer cancel()
	}

	o, err := readTerminals()
	if err != nil {
		return err
	}
	ps, err := readProductions(ctx, args[0], o)
	if err != nil {
		return err
	}
	err = matchFlags.disable.apply(ps)
	if err != nil {
		return err
	}

	var tokens grammar.TokenSet
	{
		src := io.Reader(os.Stdin)
		if *matchFlags.source != "" {
			f, err := os.Open(*matchFlags.source)
			if err != nil {
				return fmt.Errorf("Cannot open the token file %s: %w", *matchFlags.source, err)
			}
			defer f.Close()
			src = f
		}
		tokens, err = spec.ReadTokens(src)
		if err != nil {
			return fmt.Errorf("Cannot read tokens: %w", err)
		}
	}

	v, err := ps.ValidProductions(ctx, tokens, *matchFlags.lhs)
	if err != nil {
		return err
	}
	return writeValidity(os.Stdout, ps, v, *matchFlags.structural)
}

func writeValidity(w io.Writer, ps *grammar.ProductionSet, v *grammar.Validity, structural bool) error {
	for _, c := range v.Matched {
		p, err := ps.Production(c.Production)
		if err != nil {
			return err
		}
		heads := make([]string, len(c.Heads))
		for i, h := range c.Heads {
			heads[i] = formatHead(h)
		}
		fmt.Fprintf(w, "%4v %v\n     heads: %v\n", c.Production, p.Summary(), strings.Join(heads, " "))
	}
	if !structural {
		return nil
	}

	matched := map[int]struct{}{}
	for _, c := range v.Matched {
		matched[c.Production] = struct{}{}
	}
	for _, idx := range v.Structural {
		if _, ok := matched[idx]; ok {
			continue
		}
		p, err := ps.Production(idx)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%4v %v (structural only)\n", idx, p.Summary())
	}
	return nil
}

func formatHead(h grammar.HeadSet) string {
	idxs := make([]string, len(h))
	for i, idx := range h {
		idxs[i] = fmt.Sprint(idx)
	}
	return "{" + strings.Join(idxs, ",") + "}"
}
