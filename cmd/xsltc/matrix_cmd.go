package main

import (
	"fmt"
	"io"

	"github.com/deepnoodle-ai/xsltc/internal/table"
	"github.com/deepnoodle-ai/xsltc/types"
	"github.com/spf13/cobra"
)

type matrixRow struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Distance int    `json:"distance"`
	Via      string `json:"via"`
}

type matrixResult struct {
	Rules []matrixRow `json:"rules"`
}

func (m *matrixResult) renderText(w io.Writer) {
	rows := make([][]string, 0, len(m.Rules))
	for _, r := range m.Rules {
		rows = append(rows, []string{r.From, r.To, yellow(fmt.Sprintf("%d", r.Distance)), r.Via})
	}
	table.NewTable(w).
		WithHeader([]string{"FROM", "TO", "DISTANCE", "VIA"}).
		WithColumnAlignment([]table.Alignment{
			table.AlignLeft,
			table.AlignLeft,
			table.AlignRight,
			table.AlignLeft,
		}).
		WithRows(rows).
		Render()
}

func newMatrixCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "matrix",
		Short: "Print the declared conversions of the type lattice",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			from, _ := cmd.Flags().GetString("from")
			to, _ := cmd.Flags().GetString("to")
			result, err := buildMatrix(from, to)
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), result)
		},
	}
	cmd.Flags().String("from", "", "Only show conversions from this kind")
	cmd.Flags().String("to", "", "Only show conversions to this kind")
	return cmd
}

func buildMatrix(from, to string) (*matrixResult, error) {
	for _, name := range []string{from, to} {
		if name != "" && !isKindName(name) {
			return nil, fmt.Errorf("unknown type kind: %s", name)
		}
	}
	result := &matrixResult{Rules: []matrixRow{}}
	for _, r := range types.Rules() {
		if from != "" && r.From.String() != from {
			continue
		}
		if to != "" && r.To.String() != to {
			continue
		}
		result.Rules = append(result.Rules, matrixRow{
			From:     r.From.String(),
			To:       r.To.String(),
			Distance: r.Distance,
			Via:      r.Via,
		})
	}
	return result, nil
}

func isKindName(name string) bool {
	for _, k := range types.ValueKinds() {
		if k.String() == name {
			return true
		}
	}
	return false
}
