package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/deepnoodle-ai/xsltc/compiler"
	"github.com/deepnoodle-ai/xsltc/errors"
	"github.com/deepnoodle-ai/xsltc/types"
	"github.com/fatih/color"
	"github.com/hokaccha/go-prettyjson"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

var (
	red    = color.New(color.FgRed).SprintFunc()
	green  = color.New(color.FgGreen).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
)

var (
	outputFormatsCompletion = []string{"json", "text"}
	tiePoliciesCompletion   = []string{"first-declared", "strict"}
)

func fatal(err error) {
	fmt.Fprint(os.Stderr, formatError(err, !color.NoColor))
	os.Exit(1)
}

// diagnosticsError carries every diagnostic reported while generating a
// unit, so they can be printed together.
type diagnosticsError struct {
	bag *errors.Bag
}

func (e *diagnosticsError) Error() string {
	if err := e.bag.Err(); err != nil {
		return err.Error()
	}
	return "code generation failed"
}

func formatError(err error, useColor bool) string {
	formatter := errors.NewFormatter(useColor)
	switch err := err.(type) {
	case *diagnosticsError:
		return formatter.FormatBag(err.bag)
	case *errors.CompileError:
		return formatter.Format(err.ToFormatted())
	default:
		msg := err.Error()
		if useColor {
			msg = red(msg)
		}
		return msg + "\n"
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Reads global flags from Viper and adjusts the environment accordingly.
func processGlobalFlags() {
	if viper.GetBool("no-color") {
		color.NoColor = true
	}
}

// textRenderer is implemented by results that have a tabular text form.
type textRenderer interface {
	renderText(w io.Writer)
}

// writeOutput prints a command result in the selected output format. With
// no format, results with a text form print as text and everything else as
// JSON.
func writeOutput(w io.Writer, result any) error {
	format := strings.ToLower(viper.GetString("output"))
	renderer, hasText := result.(textRenderer)
	switch format {
	case "":
		if hasText {
			renderer.renderText(w)
			return nil
		}
		return writeJSON(w, result)
	case "json":
		return writeJSON(w, result)
	case "text":
		if hasText {
			renderer.renderText(w)
			return nil
		}
		_, err := fmt.Fprintf(w, "%v\n", result)
		return err
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}

// writeJSON colorizes JSON only when writing to a terminal.
func writeJSON(w io.Writer, result any) error {
	var (
		data []byte
		err  error
	)
	if viper.GetBool("no-color") || !isTerminal(w) {
		data, err = json.MarshalIndent(result, "", "  ")
	} else {
		data, err = prettyjson.Marshal(result)
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}

func parseTiePolicy(name string) (types.TiePolicy, error) {
	switch strings.ToLower(name) {
	case "", "first-declared", "first":
		return types.FirstDeclared, nil
	case "strict":
		return types.StrictTies, nil
	default:
		return 0, fmt.Errorf("unknown tie policy: %s", name)
	}
}

// compilerConfig builds the code generation config from global flags.
func compilerConfig(stderr io.Writer) (*compiler.Config, error) {
	policy, err := parseTiePolicy(viper.GetString("tie-policy"))
	if err != nil {
		return nil, err
	}
	cfg := &compiler.Config{TiePolicy: policy}
	if viper.GetBool("debug") {
		logger := zerolog.New(zerolog.ConsoleWriter{
			Out:     stderr,
			NoColor: color.NoColor,
		}).Level(zerolog.DebugLevel).With().Timestamp().Logger()
		cfg.Logger = &logger
	}
	return cfg, nil
}

func parseType(name string) (types.Type, error) {
	t, err := types.Parse(strings.TrimSpace(name))
	if err != nil {
		return nil, err
	}
	return t, nil
}

func formatDistance(d int) string {
	if d == types.Infinite {
		return "inf"
	}
	return fmt.Sprintf("%d", d)
}
