package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:     "types <text>...",
		Short:   "Print the terminal types each recognized text belongs to",
		Example: `  gram2d types -t terminals.json 5 x +`,
		Args:    cobra.MinimumNArgs(1),
		RunE:    runTypes,
	}
	rootCmd.AddCommand(cmd)
}

func runTypes(cmd *cobra.Command, args []string) error {
	o, err := readTerminals()
	if err != nil {
		return err
	}
	for _, text := range args {
		types := o.TypesOf(text)
		if len(types) == 0 {
			fmt.Fprintf(os.Stdout, "%v: -\n", text)
			continue
		}
		fmt.Fprintf(os.Stdout, "%v: %v\n", text, strings.Join(types, ", "))
	}
	return nil
}
