// Package main provides the CLI entry point for tdlschema, a tool that
// converts Typedoc Definition Language documents into OpenAI Structured
// Outputs and Gemini JSON Schema.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"go.jacobcolvin.com/tdlschema/emit"
	"go.jacobcolvin.com/tdlschema/log"
	"go.jacobcolvin.com/tdlschema/tdl"
	"go.jacobcolvin.com/tdlschema/version"
)

func main() {
	logCfg := log.NewConfig()
	cfg := emit.NewConfig()

	rootCmd := &cobra.Command{
		Use:   "tdlschema [flags] [file]",
		Short: "Convert TDL documents to OpenAI and Gemini JSON Schema",
		Long: `tdlschema compiles a Typedoc Definition Language (TDL) document into two
JSON Schema dialects from one source of truth: the OpenAI Structured Outputs
subset and the Gemini jsonschema_gemini subset.

Input is read from standard input when no file is given (or when the argument
is - or /dev/stdin). By default both schemas are printed, separated by a ---
line.`,
		Version:       version.Info(),
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(_ *cobra.Command, args []string) error {
			handler, err := logCfg.NewHandler(os.Stderr)
			if err != nil {
				return err
			}

			slog.SetDefault(slog.New(handler))

			return run(cfg, args, os.Stdin, os.Stdout)
		},
	}

	cfg.RegisterFlags(rootCmd.Flags())
	logCfg.RegisterFlags(rootCmd.Flags())

	completionErr := cfg.RegisterCompletions(rootCmd)
	if completionErr == nil {
		completionErr = logCfg.RegisterCompletions(rootCmd)
	}

	if completionErr != nil {
		fmt.Fprintf(os.Stderr, "register completions: %v\n", completionErr)
	}

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg *emit.Config, args []string, stdin io.Reader, stdout io.Writer) error {
	err := cfg.Validate()
	if err != nil {
		return err
	}

	data, err := readInput(args, stdin)
	if err != nil {
		return err
	}

	doc, err := tdl.Parse(data)
	if err != nil {
		return err
	}

	slog.Debug("parsed document",
		slog.Int("types", len(doc.Types)),
		slog.Int("symbols", len(doc.Symbols)),
	)

	out, err := render(cfg, doc)
	if err != nil {
		return err
	}

	if cfg.Output == "" || cfg.Output == "-" {
		_, err = stdout.Write(out)
		if err != nil {
			return fmt.Errorf("%w: %w", emit.ErrWriteOutput, err)
		}

		return nil
	}

	err = os.WriteFile(cfg.Output, out, 0o644)
	if err != nil {
		return fmt.Errorf("%w: %w", emit.ErrWriteOutput, err)
	}

	return nil
}

func readInput(args []string, stdin io.Reader) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" || args[0] == "/dev/stdin" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("%w: stdin: %w", emit.ErrReadInput, err)
		}

		return data, nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", emit.ErrReadInput, err)
	}

	return data, nil
}

// render emits and marshals the selected schemas, pretty-printed, with a ---
// line between them when both are emitted.
func render(cfg *emit.Config, doc *tdl.Document) ([]byte, error) {
	indent := strings.Repeat(" ", cfg.Indent)

	var emitters []func(*tdl.Document) (*emit.JSON, error)

	switch cfg.Target {
	case emit.TargetOpenAI:
		emitters = []func(*tdl.Document) (*emit.JSON, error){emit.OpenAI}
	case emit.TargetGemini:
		emitters = []func(*tdl.Document) (*emit.JSON, error){emit.Gemini}
	default:
		emitters = []func(*tdl.Document) (*emit.JSON, error){emit.OpenAI, emit.Gemini}
	}

	var out []byte

	for i, emitSchema := range emitters {
		if i > 0 {
			out = append(out, []byte("---\n")...)
		}

		schema, err := emitSchema(doc)
		if err != nil {
			return nil, err
		}

		b, err := json.MarshalIndent(schema, "", indent)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", emit.ErrWriteOutput, err)
		}

		out = append(out, b...)
		out = append(out, '\n')
	}

	return out, nil
}
