package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/deepnoodle-ai/xsltc/compiler"
	"github.com/deepnoodle-ai/xsltc/internal/table"
	"github.com/spf13/cobra"
)

type layoutEntry struct {
	*compiler.Layout
	Descriptor string `json:"signature"`
}

type layoutResult struct {
	Layouts []layoutEntry `json:"layouts"`
}

func (r *layoutResult) renderText(w io.Writer) {
	for i, l := range r.Layouts {
		if i > 0 {
			fmt.Fprintln(w)
		}
		var flags []string
		if l.External {
			flags = append(flags, "external")
		}
		if l.Static {
			flags = append(flags, "static")
		}
		header := green(l.Unit)
		if len(flags) > 0 {
			header += " (" + strings.Join(flags, ", ") + ")"
		}
		fmt.Fprintf(w, "%s %s\n", header, l.Descriptor)
		var rows [][]string
		for _, s := range l.Slots {
			name := s.Name
			if s.Local {
				name += " (local)"
			}
			rows = append(rows, []string{fmt.Sprintf("%d", s.Index), name, s.Signature})
		}
		for _, f := range l.Fields {
			rows = append(rows, []string{"-", f.Name + " (field " + f.Field + ")", f.Signature})
		}
		rows = append(rows, []string{fmt.Sprintf("%d+", l.FirstAvailable), "temporaries", ""})
		table.NewTable(w).
			WithHeader([]string{"SLOT", "VALUE", "SIGNATURE"}).
			WithColumnAlignment([]table.Alignment{
				table.AlignRight,
				table.AlignLeft,
				table.AlignLeft,
			}).
			WithRows(rows).
			Render()
	}
}

func newLayoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "layout [unit-kind]",
		Short:     "Print the fixed slot layout of generated unit kinds",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: unitKindNames(),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := buildLayouts(args)
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), result)
		},
	}
}

func unitKindNames() []string {
	var names []string
	for _, k := range compiler.UnitKinds() {
		names = append(names, k.String())
	}
	return names
}

func buildLayouts(args []string) (*layoutResult, error) {
	kinds := compiler.UnitKinds()
	if len(args) > 0 {
		kind, ok := compiler.ParseUnitKind(args[0])
		if !ok {
			return nil, fmt.Errorf("unknown unit kind: %s (expected one of %s)",
				args[0], strings.Join(unitKindNames(), ", "))
		}
		kinds = []compiler.UnitKind{kind}
	}
	result := &layoutResult{}
	for _, k := range kinds {
		l := compiler.LayoutOf(k)
		result.Layouts = append(result.Layouts, layoutEntry{Layout: l, Descriptor: l.Signature()})
	}
	return result, nil
}
