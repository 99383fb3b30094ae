package main

import (
	"errors"
	"fmt"
	"io"
	"reflect"

	"github.com/dhamidi/phpcst/php/lexgrammar"
	"github.com/spf13/cobra"
	"golang.org/x/exp/ebnf"
)

func newGrammarCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "grammar",
		Short: "Lexical EBNF grammar tools",
		Long: `Tools for the EBNF description of PHP names, variables, numbers and
whitespace that the lexer is checked against.`,
		SilenceUsage: true,
	}

	cmd.AddCommand(newGrammarCheckCmd())
	cmd.AddCommand(newGrammarMatchCmd())
	cmd.AddCommand(newGrammarPrintCmd())
	cmd.AddCommand(newGrammarLexCmd())

	return cmd
}

// loadGrammar reads the grammar from filename, or the embedded one.
func loadGrammar(filename string) (ebnf.Grammar, error) {
	if filename == "" {
		return lexgrammar.Load()
	}
	return lexgrammar.LoadFile(filename)
}

func newGrammarCheckCmd() *cobra.Command {
	var startProduction string

	cmd := &cobra.Command{
		Use:          "check [file]",
		Short:        "Parse and verify a grammar file (the embedded grammar by default)",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var filename string
			if len(args) == 1 {
				filename = args[0]
			}

			grammar, err := loadGrammar(filename)
			if err != nil {
				printErrors(cmd.ErrOrStderr(), err)
				return err
			}

			if err := ebnf.Verify(grammar, startProduction); err != nil {
				printErrors(cmd.ErrOrStderr(), err)
				return fmt.Errorf("verify grammar: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "ok: %d productions\n", len(grammar))
			return nil
		},
	}

	cmd.Flags().StringVar(&startProduction, "start", lexgrammar.Start, "start production for verification")

	return cmd
}

func newGrammarMatchCmd() *cobra.Command {
	var production string
	var grammarFile string

	cmd := &cobra.Command{
		Use:   "match <text>",
		Short: "Print how much of text a production matches",
		Long: `Print the length of the longest prefix of text matched by --production,
or -1 when it does not match. Without --production the text is classified
against every alternative of the start production.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			grammar, err := loadGrammar(grammarFile)
			if err != nil {
				return err
			}
			m := lexgrammar.NewMatcher(grammar)
			input := []byte(args[0])

			if production == "" {
				name, n := m.Classify(input)
				if name == "" {
					name = "-"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\n", name, n)
				return nil
			}

			n, err := m.Match(production, input)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\n", production, n)
			return nil
		},
	}

	cmd.Flags().StringVarP(&production, "production", "p", "", "production to match")
	cmd.Flags().StringVar(&grammarFile, "grammar", "", "grammar file (the embedded grammar by default)")

	return cmd
}

func newGrammarPrintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "print",
		Short: "Print the embedded grammar",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := cmd.OutOrStdout().Write(lexgrammar.Source())
			return err
		},
	}
}

func newGrammarLexCmd() *cobra.Command {
	var grammarFile string

	cmd := &cobra.Command{
		Use:          "lex <file>",
		Short:        "Compare the lexer's tokens in a PHP file against the grammar",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			grammar, err := loadGrammar(grammarFile)
			if err != nil {
				return err
			}
			data, err := readSource(cmd, args[0])
			if err != nil {
				return err
			}

			mismatches := lexgrammar.Check(grammar, data)
			for _, m := range mismatches {
				fmt.Fprintf(cmd.OutOrStdout(), "%s:%s\n", args[0], m)
			}
			if len(mismatches) > 0 {
				return fmt.Errorf("%d tokens disagree with the grammar", len(mismatches))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&grammarFile, "grammar", "", "grammar file (the embedded grammar by default)")

	return cmd
}

// printErrors lists each entry of an error list on its own line.
func printErrors(w io.Writer, err error) {
	for e := err; e != nil; e = errors.Unwrap(e) {
		v := reflect.ValueOf(e)
		if v.Kind() == reflect.Slice {
			for i := 0; i < v.Len(); i++ {
				fmt.Fprintln(w, v.Index(i).Interface())
			}
			return
		}
	}
	fmt.Fprintln(w, err)
}
