package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/deepnoodle-ai/xsltc/internal/table"
	"github.com/deepnoodle-ai/xsltc/types"
	"github.com/spf13/cobra"
)

type candidateRow struct {
	Index    int    `json:"index"`
	Method   string `json:"method"`
	Distance *int   `json:"distance,omitempty"`
	Selected bool   `json:"selected"`
}

type resolveResult struct {
	Call       string         `json:"call"`
	Policy     string         `json:"policy"`
	Selected   int            `json:"selected"`
	Distance   int            `json:"distance"`
	Ties       []int          `json:"ties,omitempty"`
	Candidates []candidateRow `json:"candidates"`
}

func (r *resolveResult) renderText(w io.Writer) {
	fmt.Fprintf(w, "call %s (%s)\n", r.Call, r.Policy)
	rows := make([][]string, 0, len(r.Candidates))
	for _, c := range r.Candidates {
		d := "inf"
		if c.Distance != nil {
			d = fmt.Sprintf("%d", *c.Distance)
		}
		mark := ""
		if c.Selected {
			mark = green("*")
		}
		rows = append(rows, []string{mark, fmt.Sprintf("%d", c.Index), c.Method, d})
	}
	table.NewTable(w).
		WithHeader([]string{"", "INDEX", "CANDIDATE", "DISTANCE"}).
		WithColumnAlignment([]table.Alignment{
			table.AlignCenter,
			table.AlignRight,
			table.AlignLeft,
			table.AlignRight,
		}).
		WithRows(rows).
		Render()
	if len(r.Ties) > 1 {
		fmt.Fprintf(w, "%s candidates %v share distance %d\n", yellow("warning:"), r.Ties, r.Distance)
	}
}

func newResolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <call> <candidate>...",
		Short: "Select the closest overload for a call",
		Long: `Select the closest overload for a call.

The call and each candidate are comma separated argument type lists, for
example: xsltc resolve "int,node-set" "real,string" "real,boolean".
Ties are broken by --tie-policy.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := compilerConfig(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			result, err := resolve(args[0], args[1:], cfg.TiePolicy)
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), result)
		},
	}
}

// parseArgs parses a comma separated argument type list into a method
// type with a void result.
func parseArgs(list string) (*types.MethodType, error) {
	var args []types.Type
	for _, name := range strings.Split(list, ",") {
		if strings.TrimSpace(name) == "" {
			continue
		}
		t, err := parseType(name)
		if err != nil {
			return nil, err
		}
		args = append(args, t)
	}
	return types.Method(types.Void, args...), nil
}

func resolve(callList string, candidateLists []string, policy types.TiePolicy) (*resolveResult, error) {
	call, err := parseArgs(callList)
	if err != nil {
		return nil, err
	}
	candidates := make([]*types.MethodType, 0, len(candidateLists))
	for _, list := range candidateLists {
		m, err := parseArgs(list)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, m)
	}
	res, err := types.Resolve(call, candidates, policy)
	if err != nil {
		return nil, err
	}
	result := &resolveResult{
		Call:     call.String(),
		Policy:   policy.String(),
		Selected: res.Index,
		Distance: res.Distance,
		Ties:     res.Ties,
	}
	for i, c := range candidates {
		row := candidateRow{Index: i, Method: c.String(), Selected: i == res.Index}
		if d := types.DistanceTo(call, c); d != types.Infinite {
			row.Distance = &d
		}
		result.Candidates = append(result.Candidates, row)
	}
	return result, nil
}
