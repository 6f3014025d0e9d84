package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/inkmath/gram2d/grammar"
	"github.com/inkmath/gram2d/terminal"
	"github.com/spf13/cobra"
)

var showFlags = struct {
	disable *disableFlags
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "show <grammar file path>",
		Short:   "Print the productions of a grammar and their analyses",
		Example: `  gram2d show -t terminals.json calc.grm`,
		Args:    cobra.ExactArgs(1),
		RunE:    runShow,
	}
	showFlags.disable = addDisableFlags(cmd)
	rootCmd.AddCommand(cmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	o, err := readTerminals()
	if err != nil {
		return err
	}
	ps, err := readProductions(context.Background(), args[0], o)
	if err != nil {
		return err
	}
	err = showFlags.disable.apply(ps)
	if err != nil {
		return err
	}

	return writeReport(os.Stdout, o, ps)
}

type productionReport struct {
	Number     int
	Enabled    bool
	Production *grammar.Production
	Required   *grammar.TypeSet
	Possible   *grammar.TypeSet
	Children   []int
}

type report struct {
	Terminals   []string
	Productions []*productionReport
	Enabled     int
}

func genReport(o *terminal.Set, ps *grammar.ProductionSet) (*report, error) {
	r := &report{
		Terminals: o.Names(),
		Enabled:   ps.EnabledCount(),
	}
	for i := 0; i < ps.Len(); i++ {
		p, err := ps.Production(i)
		if err != nil {
			return nil, err
		}
		enabled, err := ps.IsEnabled(i)
		if err != nil {
			return nil, err
		}
		required, err := ps.RequiredTypes(i)
		if err != nil {
			return nil, err
		}
		possible, err := ps.PossibleTypes(i)
		if err != nil {
			return nil, err
		}
		children, err := ps.TransitiveChildren(i)
		if err != nil {
			return nil, err
		}
		r.Productions = append(r.Productions, &productionReport{
			Number:     i,
			Enabled:    enabled,
			Production: p,
			Required:   required,
			Possible:   possible,
			Children:   children,
		})
	}
	return r, nil
}

const reportTemplate = `# Terminals

{{ range .Terminals -}}
{{ . }}
{{ end }}
# Productions

{{ .Enabled }} of {{ len .Productions }} productions are enabled.
{{ range .Productions }}
{{ printProduction . }}
    required: {{ printTypes .Required }}
    possible: {{ printTypes .Possible }}
    children: {{ printChildren .Children }}
{{ end }}`

func writeReport(w io.Writer, o *terminal.Set, ps *grammar.ProductionSet) error {
	r, err := genReport(o, ps)
	if err != nil {
		return err
	}

	fns := template.FuncMap{
		"printProduction": func(pr *productionReport) string {
			state := " "
			if !pr.Enabled {
				state = "x"
			}
			p := pr.Production
			var b strings.Builder
			rule := fmt.Sprintf("%v -> %v", p.LHS(), strings.Join(p.RHS(), " "))
			fmt.Fprintf(&b, "%4v %v %v", pr.Number, state, rule)
			if p.Summary() != rule {
				fmt.Fprintf(&b, " (%v)", p.Summary())
			}
			if p.Geometry().Kind != grammar.GeometryNone {
				fmt.Fprintf(&b, " [%v]", p.Geometry())
			}
			return b.String()
		},
		"printTypes": func(s *grammar.TypeSet) string {
			if s.IsEmpty() {
				return "-"
			}
			return strings.Join(s.Names(), ", ")
		},
		"printChildren": func(children []int) string {
			if len(children) == 0 {
				return "-"
			}
			cs := make([]string, len(children))
			for i, c := range children {
				cs[i] = fmt.Sprint(c)
			}
			return strings.Join(cs, ", ")
		},
	}

	tmpl, err := template.New("").Funcs(fns).Parse(reportTemplate)
	if err != nil {
		return err
	}

	return tmpl.Execute(w, r)
}
