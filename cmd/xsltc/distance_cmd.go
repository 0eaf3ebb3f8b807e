package main

import (
	"fmt"
	"io"

	"github.com/deepnoodle-ai/xsltc/types"
	"github.com/spf13/cobra"
)

// distanceResult omits Distance when no conversion exists.
type distanceResult struct {
	From        string `json:"from"`
	To          string `json:"to"`
	Distance    *int   `json:"distance,omitempty"`
	Convertible bool   `json:"convertible"`
	Via         string `json:"via,omitempty"`
}

func (d *distanceResult) renderText(w io.Writer) {
	if !d.Convertible {
		fmt.Fprintf(w, "%s -> %s: %s\n", d.From, d.To, red("no conversion"))
		return
	}
	fmt.Fprintf(w, "%s -> %s: %s", d.From, d.To, yellow(formatDistance(*d.Distance)))
	if d.Via != "" {
		fmt.Fprintf(w, " (%s)", d.Via)
	}
	fmt.Fprintln(w)
}

func newDistanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "distance <from> <to>",
		Short: "Print the conversion distance between two types",
		Long: `Print the conversion distance between two types.

Types are lattice names (int, real, boolean, string, node-set, node,
result-tree, reference, void), node types such as "node(element)", or
dotted class names for foreign objects.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := measure(args[0], args[1])
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), result)
		},
	}
}

func measure(fromName, toName string) (*distanceResult, error) {
	from, err := parseType(fromName)
	if err != nil {
		return nil, err
	}
	to, err := parseType(toName)
	if err != nil {
		return nil, err
	}
	d := types.DistanceTo(from, to)
	result := &distanceResult{
		From:        from.String(),
		To:          to.String(),
		Convertible: d != types.Infinite,
	}
	if result.Convertible {
		result.Distance = &d
	}
	if d == 0 {
		result.Via = "identity"
	} else if rule, ok := types.LookupRule(from.Kind(), to.Kind()); ok && result.Convertible {
		result.Via = rule.Via
	}
	return result, nil
}
