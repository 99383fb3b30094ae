package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	"github.com/tliron/kutil/util"

	_ "github.com/tliron/commonlog/simple"
)

const version = "0.1.0"

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errDiagnostics) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		util.Exit(1)
	}
	util.Exit(0)
}

func newRootCmd() *cobra.Command {
	var verbose int
	var logFile string

	rootCmd := &cobra.Command{
		Use:           "phpcst",
		Short:         "Lossless PHP lexer and parser tools",
		Version:       version,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if logFile == "" {
				logFile = os.Getenv("PHPCST_LOG")
			}
			var path *string
			if logFile != "" {
				path = &logFile
			}
			// Warnings by default, one more level per -v.
			commonlog.Configure(verbose-1, path)
		},
	}

	rootCmd.PersistentFlags().CountVarP(&verbose, "verbose", "v", "increase log verbosity (repeatable)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write logs to this file instead of stderr (default $PHPCST_LOG)")

	rootCmd.AddCommand(newParseCmd())
	rootCmd.AddCommand(newTokensCmd())
	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newHighlightCmd())
	rootCmd.AddCommand(newLSPCmd())
	rootCmd.AddCommand(newReplCmd())
	rootCmd.AddCommand(newGrammarCmd())

	return rootCmd
}
