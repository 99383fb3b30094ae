package main

import (
	"fmt"
	"io"
	"os"

	"github.com/dhamidi/phpcst/format"
	"github.com/dhamidi/phpcst/php/parser"
	"github.com/spf13/cobra"
)

// readSource reads a file, or standard input when path is "-".
func readSource(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read php file: %w", err)
	}
	return data, nil
}

func newParseCmd() *cobra.Command {
	var outputFormat string
	var includePositions bool
	var includeTrivia bool
	var maxDepth int

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a PHP file and dump the concrete syntax tree",
		Long: `Parse a PHP file and dump its concrete syntax tree. Syntax errors are part
of the tree and do not change the exit status. Use "-" to read standard input.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readSource(cmd, args[0])
			if err != nil {
				return err
			}

			opts := []parser.Option{parser.WithDocComments()}
			if maxDepth > 0 {
				opts = append(opts, parser.WithMaxDepth(maxDepth))
			}
			doc := parser.ParseDocument(data, opts...)

			var encoder format.Encoder
			switch outputFormat {
			case "json":
				encoder = format.NewJSONEncoder(cmd.OutOrStdout()).WithPositions(includePositions)
			case "tree":
				encoder = format.NewTreeEncoder(cmd.OutOrStdout()).
					WithPositions(includePositions).
					WithTrivia(includeTrivia)
			default:
				return fmt.Errorf("unknown format: %s", outputFormat)
			}

			if err := encoder.Encode(doc); err != nil {
				return fmt.Errorf("encode: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "json", "output format (json, tree)")
	cmd.Flags().BoolVar(&includePositions, "positions", false, "include line/column spans")
	cmd.Flags().BoolVar(&includeTrivia, "trivia", true, "include whitespace, comments and tags in tree output")
	cmd.Flags().IntVar(&maxDepth, "max-depth", 0, "maximum nesting depth before giving up on a construct (default 512)")

	return cmd
}

func newTokensCmd() *cobra.Command {
	var outputFormat string

	cmd := &cobra.Command{
		Use:   "tokens <file>",
		Short: "Print the raw token stream of a PHP file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readSource(cmd, args[0])
			if err != nil {
				return err
			}
			doc := &parser.Document{Source: data, Lines: parser.NewLineIndex(data)}

			var encoder format.Encoder
			switch outputFormat {
			case "table":
				encoder = format.NewTokenTableEncoder(cmd.OutOrStdout())
			case "json":
				encoder = format.NewTokensJSONEncoder(cmd.OutOrStdout())
			default:
				return fmt.Errorf("unknown format: %s", outputFormat)
			}

			if err := encoder.Encode(doc); err != nil {
				return fmt.Errorf("encode: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "table", "output format (table, json)")

	return cmd
}

func newHighlightCmd() *cobra.Command {
	var noColor bool

	cmd := &cobra.Command{
		Use:   "highlight <file>",
		Short: "Print a PHP file with syntax colouring",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readSource(cmd, args[0])
			if err != nil {
				return err
			}
			doc := parser.ParseDocument(data)
			if err := format.NewHighlighter(cmd.OutOrStdout(), !noColor).Encode(doc); err != nil {
				return fmt.Errorf("highlight: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&noColor, "no-color", false, "print the source without styling")

	return cmd
}
