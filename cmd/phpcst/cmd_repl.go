package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhamidi/phpcst/format"
	"github.com/dhamidi/phpcst/php/parser"
	"github.com/dhamidi/phpcst/php/workspace"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"
)

const (
	promptMain = "php> "
	promptCont = "...> "
)

func newReplCmd() *cobra.Command {
	var historyPath string

	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Interactively parse PHP snippets and print their trees",
		Long: `Read PHP snippets and print their syntax trees. A missing "<?php" is added.
Input continues on the next line while the snippet is unfinished.
Commands: :tree and :json switch the output format, :quit exits.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if historyPath == "" {
				if home, err := os.UserHomeDir(); err == nil {
					historyPath = filepath.Join(home, ".phpcst_history")
				}
			}
			return runRepl(cmd.OutOrStdout(), historyPath)
		},
	}

	cmd.Flags().StringVar(&historyPath, "history", "", "history file (default ~/.phpcst_history)")

	return cmd
}

func runRepl(out io.Writer, historyPath string) error {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if historyPath != "" {
		if f, err := os.Open(historyPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
		defer func() {
			if f, err := os.Create(historyPath); err == nil {
				_, _ = ln.WriteHistory(f)
				_ = f.Close()
			}
		}()
	}

	r := &repl{out: out, format: "tree"}
	for {
		code, ok := readByParseProbe(ln, promptMain, promptCont)
		if !ok {
			fmt.Fprintln(out)
			return nil
		}
		if strings.TrimSpace(code) == "" {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))
		if quit := r.eval(code); quit {
			return nil
		}
	}
}

// readByParseProbe keeps prompting while the accumulated input only fails
// by running out of tokens.
func readByParseProbe(ln *liner.State, prompt, cont string) (string, bool) {
	var b strings.Builder

	for {
		var line string
		var err error
		if b.Len() == 0 {
			line, err = ln.Prompt(prompt)
		} else {
			line, err = ln.Prompt(cont)
		}
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			b.Reset()
			continue
		}
		if err != nil {
			return "", false
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if strings.HasPrefix(strings.TrimSpace(src), ":") {
			return src, true
		}
		if incomplete(parser.ParseDocument(replSource(src))) {
			continue
		}
		return src, true
	}
}

type repl struct {
	out    io.Writer
	format string
}

// eval handles one entry and reports whether the session should end.
func (r *repl) eval(code string) bool {
	if cmd := strings.TrimSpace(code); strings.HasPrefix(cmd, ":") {
		switch strings.ToLower(cmd) {
		case ":quit", ":q":
			return true
		case ":tree", ":json":
			r.format = strings.TrimPrefix(strings.ToLower(cmd), ":")
			fmt.Fprintf(r.out, "output format: %s\n", r.format)
		default:
			fmt.Fprintln(r.out, "unknown command. Use :tree, :json or :quit.")
		}
		return false
	}

	doc := parser.ParseDocument(replSource(code))
	var encoder format.Encoder
	if r.format == "json" {
		encoder = format.NewJSONEncoder(r.out)
	} else {
		encoder = format.NewTreeEncoder(r.out).WithTrivia(false)
	}
	if err := encoder.Encode(doc); err != nil {
		fmt.Fprintln(r.out, "error:", err)
	}
	for _, d := range workspace.Diagnose("input", doc) {
		fmt.Fprintln(r.out, d)
	}
	return false
}

// replSource adds an open tag unless the snippet starts with one.
func replSource(code string) []byte {
	trimmed := strings.TrimLeft(code, " \t\r\n")
	if strings.HasPrefix(trimmed, "<?") {
		return []byte(code)
	}
	return []byte("<?php " + code)
}

// incomplete reports whether every syntax error in doc is an unexpected end
// of input, meaning more lines could still complete it.
func incomplete(doc *parser.Document) bool {
	errs := doc.Errors()
	if len(errs) == 0 {
		return false
	}
	for _, e := range errs {
		if e.Unexpected.Kind != parser.TokenEndOfFile {
			return false
		}
	}
	return true
}
