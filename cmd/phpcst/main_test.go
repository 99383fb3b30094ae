package main

import (
	"archive/zip"
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/dhamidi/phpcst/php/parser"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
	"gotest.tools/v3/fs"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestParseTree(t *testing.T) {
	dir := fs.NewDir(t, "phpcst", fs.WithFile("x.php", "<?php 1;"))

	out, err := run(t, "", "parse", "-f", "tree", "--trivia=false", dir.Join("x.php"))
	assert.NilError(t, err)
	assert.Equal(t, out, `StatementList
  ExpressionStatement
    IntegerLiteral "1"
    Semicolon ";"
`)
}

func TestParseJSONFromStdin(t *testing.T) {
	out, err := run(t, "<?php $a = 1 2;", "parse", "-")
	assert.NilError(t, err)
	assert.Check(t, is.Contains(out, `"kind": "StatementList"`))
	assert.Check(t, is.Contains(out, `"message": "unexpected IntegerLiteral, expected Semicolon"`))
}

func TestParseUnknownFormat(t *testing.T) {
	_, err := run(t, "<?php", "parse", "-f", "xml", "-")
	assert.ErrorContains(t, err, "unknown format: xml")
}

func TestParseMissingFile(t *testing.T) {
	_, err := run(t, "", "parse", "does-not-exist.php")
	assert.ErrorContains(t, err, "read php file")
}

func TestTokensTable(t *testing.T) {
	out, err := run(t, "<?php 1;", "tokens", "-")
	assert.NilError(t, err)
	assert.Equal(t, out, strings.Join([]string{
		"1:1\tOpenTag\t\"<?php \"\tInitial",
		"1:7\tIntegerLiteral\t\"1\"\tScripting",
		"1:8\tSemicolon\t\";\"\tScripting",
		"1:9\tEndOfFile\t\"\"\tScripting",
		"",
	}, "\n"))
}

func TestHighlightNoColor(t *testing.T) {
	src := "<?php\necho \"hi $name\";\n"
	out, err := run(t, src, "highlight", "--no-color", "-")
	assert.NilError(t, err)
	assert.Equal(t, out, src)
}

func TestCheckDirectory(t *testing.T) {
	dir := fs.NewDir(t, "phpcst",
		fs.WithFile("ok.php", "<?php echo 1;\n"),
		fs.WithFile("bad.php", "<?php\necho 1"),
	)

	out, err := run(t, "", "check", dir.Path())
	assert.Assert(t, errors.Is(err, errDiagnostics), "got %v", err)
	assert.Equal(t, out, dir.Join("bad.php")+":2:7: unexpected EndOfFile, expected Semicolon\n")
}

func TestCheckClean(t *testing.T) {
	dir := fs.NewDir(t, "phpcst", fs.WithFile("ok.php", "<?php echo 1;\n"))

	out, err := run(t, "", "check", dir.Join("ok.php"))
	assert.NilError(t, err)
	assert.Equal(t, out, "")
}

func TestCheckZip(t *testing.T) {
	dir := fs.NewDir(t, "phpcst")
	archive := dir.Join("src.zip")

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range map[string]string{
		"lib/bad.php":  "<?php }",
		"lib/good.php": "<?php {}",
		"README":       "<?php }",
	} {
		w, err := zw.Create(name)
		assert.NilError(t, err)
		_, err = w.Write([]byte(content))
		assert.NilError(t, err)
	}
	assert.NilError(t, zw.Close())
	assert.NilError(t, os.WriteFile(archive, buf.Bytes(), 0o644))

	out, err := run(t, "", "check", archive)
	assert.Assert(t, errors.Is(err, errDiagnostics), "got %v", err)
	assert.Equal(t, out, archive+"!lib/bad.php:1:7: unexpected CloseBrace\n")
}

func TestCheckMissingPath(t *testing.T) {
	_, err := run(t, "", "check", "does-not-exist")
	assert.ErrorContains(t, err, "stat does-not-exist")
	assert.Assert(t, !errors.Is(err, errDiagnostics))
}

func TestGrammarCheck(t *testing.T) {
	out, err := run(t, "", "grammar", "check")
	assert.NilError(t, err)
	assert.Check(t, is.Contains(out, "ok: "))
}

func TestGrammarMatch(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"-p", "IntegerLiteral", "0x1Fz"}, "IntegerLiteral\t4\n"},
		{[]string{"-p", "FloatingLiteral", "42"}, "FloatingLiteral\t-1\n"},
		{[]string{"$a"}, "VariableName\t2\n"},
		{[]string{"+"}, "-\t-1\n"},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			out, err := run(t, "", append([]string{"grammar", "match"}, tt.args...)...)
			assert.NilError(t, err)
			assert.Equal(t, out, tt.want)
		})
	}
}

func TestGrammarMatchUnknownProduction(t *testing.T) {
	_, err := run(t, "", "grammar", "match", "-p", "Nope", "x")
	assert.ErrorContains(t, err, `no production "Nope"`)
}

func TestGrammarLex(t *testing.T) {
	out, err := run(t, "<?php $a = 0x1F + 1.5;", "grammar", "lex", "-")
	assert.NilError(t, err)
	assert.Equal(t, out, "")
}

func TestReplSource(t *testing.T) {
	assert.Equal(t, string(replSource("echo 1;")), "<?php echo 1;")
	assert.Equal(t, string(replSource("  <?= $a ?>")), "  <?= $a ?>")
}

func TestIncomplete(t *testing.T) {
	tests := []struct {
		src  string
		want bool
	}{
		{"<?php function f() {", true},
		{"<?php echo 1", true},
		{"<?php echo 1;", false},
		{"<?php }", false},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			assert.Equal(t, incomplete(parser.ParseDocument([]byte(tt.src))), tt.want)
		})
	}
}

func TestReplEval(t *testing.T) {
	var out bytes.Buffer
	r := &repl{out: &out, format: "tree"}

	assert.Check(t, !r.eval("1;"))
	assert.Equal(t, out.String(), `StatementList
  ExpressionStatement
    IntegerLiteral "1"
    Semicolon ";"
`)

	out.Reset()
	assert.Check(t, !r.eval(":json"))
	assert.Equal(t, out.String(), "output format: json\n")

	out.Reset()
	assert.Check(t, !r.eval("}"))
	assert.Check(t, is.Contains(out.String(), `"type": "error"`))
	assert.Check(t, is.Contains(out.String(), "input:1:7: unexpected CloseBrace\n"))

	assert.Check(t, r.eval(":quit"))
}
