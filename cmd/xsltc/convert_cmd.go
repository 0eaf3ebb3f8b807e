package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/deepnoodle-ai/xsltc/abi"
	"github.com/deepnoodle-ai/xsltc/bytecode"
	"github.com/deepnoodle-ai/xsltc/compiler"
	"github.com/deepnoodle-ai/xsltc/dis"
	"github.com/deepnoodle-ai/xsltc/errors"
	"github.com/deepnoodle-ai/xsltc/types"
	"github.com/deepnoodle-ai/xsltc/vm"
	"github.com/spf13/cobra"
)

const (
	conversionClass  = "xsltc/Conversion"
	conversionMethod = "convert"
	conversionParam  = "value"
)

type convertResult struct {
	From         string            `json:"from"`
	To           string            `json:"to"`
	Distance     int               `json:"distance"`
	Signature    string            `json:"signature"`
	MaxLocals    int               `json:"max_locals"`
	MaxStack     int               `json:"max_stack"`
	Instructions []dis.Instruction `json:"instructions"`
	Input        string            `json:"input,omitempty"`
	Result       any               `json:"result,omitempty"`
	ran          bool
}

func (r *convertResult) renderText(w io.Writer) {
	fmt.Fprintf(w, "%s -> %s (distance %s)\n", r.From, r.To, yellow(formatDistance(r.Distance)))
	fmt.Fprintf(w, "%s %s max_locals=%d max_stack=%d\n",
		conversionMethod, r.Signature, r.MaxLocals, r.MaxStack)
	dis.Print(r.Instructions, w)
	if r.ran {
		fmt.Fprintf(w, "%s %q -> %s\n", green("result:"), r.Input, formatValue(r.Result))
	}
}

func newConvertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert <from> <to>",
		Short: "Generate and disassemble the code that converts between two types",
		Long: `Generate and disassemble the code that converts between two types.

The conversion is generated into a named template method whose single
parameter holds the source value. With --run the method is executed on
the reference interpreter against a document built from --node values.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := compilerConfig(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			result, err := runConvert(cmd, cfg, args[0], args[1])
			if err != nil {
				return err
			}
			return writeOutput(cmd.OutOrStdout(), result)
		},
	}
	cmd.Flags().String("run", "", "Execute the conversion with this input value")
	cmd.Flags().StringToString("node", nil, "Document node string values, as handle=value")
	return cmd
}

func runConvert(cmd *cobra.Command, cfg *compiler.Config, fromName, toName string) (*convertResult, error) {
	from, err := parseType(fromName)
	if err != nil {
		return nil, err
	}
	to, err := parseType(toName)
	if err != nil {
		return nil, err
	}
	class, method, err := generateConversion(cfg, from, to)
	if err != nil {
		return nil, err
	}
	instructions, err := dis.Disassemble(method, class.Pool())
	if err != nil {
		return nil, err
	}
	result := &convertResult{
		From:         from.String(),
		To:           to.String(),
		Distance:     types.DistanceTo(from, to),
		Signature:    method.Signature(),
		MaxLocals:    method.MaxLocals(),
		MaxStack:     method.MaxStack(),
		Instructions: instructions,
	}
	if !cmd.Flags().Changed("run") {
		return result, nil
	}
	input, _ := cmd.Flags().GetString("run")
	nodes, _ := cmd.Flags().GetStringToString("node")
	doc, err := buildDocument(nodes)
	if err != nil {
		return nil, err
	}
	value, err := parseValue(from, input, doc)
	if err != nil {
		return nil, err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out, err := vm.New(vm.WithDocument(doc)).Call(ctx, class, method,
		vm.NewObject(class.Name()), doc, vm.NewIterator(), nil, int32(abi.EndNode), value)
	if err != nil {
		return nil, err
	}
	result.Input = input
	result.Result = exportValue(out)
	result.ran = true
	return result, nil
}

// generateConversion builds a translet with one named template that takes
// a value of type from, converts it and returns it as type to.
func generateConversion(cfg *compiler.Config, from, to types.Type) (*bytecode.Class, *bytecode.Method, error) {
	bag := errors.NewBag()
	cfg.Sink = bag
	c := compiler.NewClassGenerator(conversionClass, abi.Translet, false, cfg)
	mg, err := c.NewMethod(conversionMethod, compiler.Named)
	if err != nil {
		return nil, nil, err
	}
	if _, err := mg.AddParameter(conversionParam, from); err != nil {
		return nil, nil, err
	}
	load, err := mg.LoadLocal(conversionParam)
	if err != nil {
		return nil, nil, err
	}
	mg.EmitSequence(load)
	if err := mg.Convert(from, to); err != nil {
		return nil, nil, &diagnosticsError{bag: bag}
	}
	mg.EmitReturn(to)
	method, err := c.AddMethod(mg)
	if err != nil {
		return nil, nil, err
	}
	if bag.HasErrors() {
		return nil, nil, &diagnosticsError{bag: bag}
	}
	return c.Finish(), method, nil
}

func buildDocument(nodes map[string]string) (*vm.Document, error) {
	values := map[int32]string{}
	for key, value := range nodes {
		handle, err := strconv.ParseInt(key, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid node handle %q: %w", key, err)
		}
		values[int32(handle)] = value
	}
	return vm.NewDocument(values), nil
}

// parseValue turns command line input into the interpreter's
// representation of a value of type t.
func parseValue(t types.Type, input string, doc *vm.Document) (any, error) {
	switch t.Kind() {
	case types.KindInt, types.KindNode:
		v, err := strconv.ParseInt(input, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid %s value %q: %w", t, input, err)
		}
		return int32(v), nil
	case types.KindReal:
		v, err := strconv.ParseFloat(input, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid %s value %q: %w", t, input, err)
		}
		return v, nil
	case types.KindBoolean:
		v, err := strconv.ParseBool(input)
		if err != nil {
			return nil, fmt.Errorf("invalid %s value %q: %w", t, input, err)
		}
		if v {
			return int32(1), nil
		}
		return int32(0), nil
	case types.KindNodeSet:
		var handles []int32
		for _, field := range strings.Split(input, ",") {
			field = strings.TrimSpace(field)
			if field == "" {
				continue
			}
			v, err := strconv.ParseInt(field, 10, 32)
			if err != nil {
				return nil, fmt.Errorf("invalid node handle %q: %w", field, err)
			}
			handles = append(handles, int32(v))
		}
		return vm.NewIterator(handles...), nil
	case types.KindResultTree:
		return doc, nil
	case types.KindVoid:
		return nil, nil
	case types.KindObject:
		if input == "null" {
			return nil, nil
		}
		return input, nil
	default:
		return input, nil
	}
}

// exportValue converts an interpreter value to a JSON friendly form.
func exportValue(v any) any {
	switch v := v.(type) {
	case *vm.Iterator:
		return iteratorNodes(v)
	case *vm.Object:
		if it, ok := v.Native.(*vm.Iterator); ok {
			return iteratorNodes(it)
		}
		return v.String()
	case *vm.Document:
		return v.Nodes()
	default:
		return v
	}
}

func iteratorNodes(it *vm.Iterator) []int32 {
	nodes := make([]int32, 0, it.Len())
	it.Reset()
	for n := it.Next(); n != abi.EndNode; n = it.Next() {
		nodes = append(nodes, n)
	}
	return nodes
}

func formatValue(v any) string {
	switch v := v.(type) {
	case nil:
		return "null"
	case string:
		return strconv.Quote(v)
	default:
		return fmt.Sprint(v)
	}
}
