package workspace

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dhamidi/phpcst/php/parser"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
	"gotest.tools/v3/fs"
)

func newProject(t *testing.T) *fs.Dir {
	t.Helper()
	return fs.NewDir(t, "phpcst",
		fs.WithFile("a.php", "<?php\nfunction a() {}\n"),
		fs.WithFile("b.php", "<?php\necho 1"),
		fs.WithFile("notes.txt", "not php"),
		fs.WithDir("lib",
			fs.WithFile("c.inc", "<?php class C {}\n"),
		),
		fs.WithDir(".git",
			fs.WithFile("hook.php", "<?php }"),
		),
		fs.WithDir("vendor",
			fs.WithFile("dep.php", "<?php }"),
		),
	)
}

func relPaths(t *testing.T, root string, files []*File) []string {
	t.Helper()
	var out []string
	for _, f := range files {
		rel, err := filepath.Rel(root, f.Path)
		assert.NilError(t, err)
		out = append(out, filepath.ToSlash(rel))
	}
	return out
}

func TestScanAll(t *testing.T) {
	dir := newProject(t)

	ws := New(dir.Path(), WithSkipVendor(true), WithWorkers(2))
	assert.NilError(t, ws.ScanAll(context.Background()))
	assert.DeepEqual(t, relPaths(t, dir.Path(), ws.Files()), []string{"a.php", "b.php", "lib/c.inc"})

	assert.Check(t, is.Len(ws.File(dir.Join("a.php")).Diagnostics, 0))
	assert.Check(t, is.Len(ws.Diagnostics(), 1))
}

func TestScanAllIncludesVendor(t *testing.T) {
	dir := newProject(t)

	ws := New(dir.Path())
	assert.NilError(t, ws.ScanAll(context.Background()))
	assert.DeepEqual(t, relPaths(t, dir.Path(), ws.Files()), []string{"a.php", "b.php", "lib/c.inc", "vendor/dep.php"})
	assert.Check(t, is.Len(ws.Diagnostics(), 2))
}

func TestScanAllCancelled(t *testing.T) {
	dir := newProject(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := New(dir.Path()).ScanAll(ctx)
	assert.Assert(t, errors.Is(err, context.Canceled), "got %v", err)
}

func TestScanFileMissing(t *testing.T) {
	dir := fs.NewDir(t, "phpcst")
	err := New(dir.Path()).ScanFile(context.Background(), dir.Join("gone.php"))
	assert.ErrorContains(t, err, "gone.php")
}

func TestWithExtensions(t *testing.T) {
	ws := New(".", WithExtensions(".PHP5"))
	assert.Check(t, ws.IsSource("x.php5"))
	assert.Check(t, !ws.IsSource("x.php"))
}

func TestUpdateAndRemoveFile(t *testing.T) {
	ws := New(".")
	ctx := context.Background()

	f, err := ws.UpdateFile(ctx, "x.php", []byte("<?php }"))
	assert.NilError(t, err)
	assert.Check(t, is.Len(f.Diagnostics, 1))

	f, err = ws.UpdateFile(ctx, "x.php", []byte("<?php {}"))
	assert.NilError(t, err)
	assert.Check(t, is.Len(f.Diagnostics, 0))
	assert.Equal(t, ws.File("x.php"), f)

	ws.RemoveFile("x.php")
	assert.Check(t, ws.File("x.php") == nil)
	assert.Check(t, is.Len(ws.Files(), 0))
}

func TestDiagnose(t *testing.T) {
	src := []byte("<?php\necho 1")
	diags := Diagnose("b.php", parser.ParseDocument(src))
	assert.Assert(t, is.Len(diags, 1))

	d := diags[0]
	assert.Equal(t, d.Expected, parser.TokenSemicolon)
	assert.Equal(t, d.Found, parser.TokenEndOfFile)
	assert.Equal(t, d.Span.Start.String(), "2:7")
	assert.Equal(t, d.String(), "b.php:2:7: unexpected EndOfFile, expected Semicolon")
}

func TestDiagnoseSkippedTokens(t *testing.T) {
	src := []byte("<?php $a = 1 2;")
	diags := Diagnose("x.php", parser.ParseDocument(src))
	assert.Assert(t, is.Len(diags, 1))
	assert.Equal(t, diags[0].Span.String(), "1:14-1:15")
}

func outlineLines(syms []Symbol, depth int) []string {
	var out []string
	for _, s := range syms {
		out = append(out, strings.Repeat("  ", depth)+s.Kind.String()+" "+s.Name)
		out = append(out, outlineLines(s.Children, depth+1)...)
	}
	return out
}

const outlineSource = `<?php
namespace App;

/** Greets. */
function greet($name) {}

const A = 1, B = 2;

class Foo extends Bar {
    const X = 1;
    public $a, $b = 2;
    /** Runs. */
    public function run() {}
}

interface I { function m(); }
trait T { private $t; }
`

func TestOutline(t *testing.T) {
	doc := parser.ParseDocument([]byte(outlineSource), parser.WithDocComments())
	syms := Outline(doc)

	assert.DeepEqual(t, outlineLines(syms, 0), []string{
		"namespace App",
		"  function greet",
		"  constant A",
		"  constant B",
		"  class Foo",
		"    class constant X",
		"    property $a",
		"    property $b",
		"    method run",
		"  interface I",
		"    method m",
		"  trait T",
		"    property $t",
	})

	ns := syms[0]
	assert.Equal(t, ns.Span.Start.String(), "2:1")
	assert.Equal(t, ns.Span.End.Line, 17)
	assert.Equal(t, ns.Selection.String(), "2:11-2:14")

	greet := ns.Children[0]
	assert.Equal(t, greet.Doc, "/** Greets. */")
	assert.Equal(t, greet.Selection.String(), "5:10-5:15")

	run := ns.Children[3].Children[3]
	assert.Equal(t, run.Name, "run")
	assert.Equal(t, run.Doc, "/** Runs. */")
	assert.Equal(t, ns.Children[3].Doc, "")
}

func TestOutlineBracedNamespaces(t *testing.T) {
	src := `<?php
namespace A { function f() {} }
namespace { class G {} }
function outside() {}
`
	syms := Outline(parser.ParseDocument([]byte(src)))
	assert.DeepEqual(t, outlineLines(syms, 0), []string{
		"namespace A",
		"  function f",
		"namespace (global)",
		"  class G",
		"function outside",
	})
}

func TestOutlineMissingName(t *testing.T) {
	doc := parser.ParseDocument([]byte("<?php class { public $a; }"))
	syms := Outline(doc)
	assert.DeepEqual(t, outlineLines(syms, 0), []string{
		"class (missing)",
		"  property $a",
	})
	assert.Equal(t, syms[0].Selection, syms[0].Span)
}

func TestWatcherScan(t *testing.T) {
	dir := fs.NewDir(t, "phpcst",
		fs.WithFile("a.php", "<?php }"),
		fs.WithFile("b.txt", "x"),
	)
	ws := New(dir.Path())

	var changes []Change
	w := NewWatcher(ws, time.Hour, func(c Change) {
		changes = append(changes, c)
	})
	ctx := context.Background()

	w.Scan(ctx)
	assert.Assert(t, is.Len(changes, 1))
	assert.Equal(t, changes[0].Path, dir.Join("a.php"))
	assert.NilError(t, changes[0].Err)
	assert.Check(t, is.Len(changes[0].File.Diagnostics, 1))

	changes = nil
	w.Scan(ctx)
	assert.Check(t, is.Len(changes, 0))

	path := dir.Join("a.php")
	assert.NilError(t, os.WriteFile(path, []byte("<?php {}"), 0o644))
	later := time.Now().Add(time.Minute)
	assert.NilError(t, os.Chtimes(path, later, later))
	w.Scan(ctx)
	assert.Assert(t, is.Len(changes, 1))
	assert.Check(t, is.Len(changes[0].File.Diagnostics, 0))

	changes = nil
	assert.NilError(t, os.Remove(path))
	w.Scan(ctx)
	assert.Assert(t, is.Len(changes, 1))
	assert.Check(t, changes[0].Removed)
	assert.Check(t, ws.File(path) == nil)
}

func TestWatcherStopTwice(t *testing.T) {
	w := NewWatcher(New(fs.NewDir(t, "phpcst").Path()), 0, nil)
	w.Start(context.Background())
	w.Stop()
	w.Stop()
}

func TestScanMissingKeepsStoredFiles(t *testing.T) {
	dir := newProject(t)
	ws := New(dir.Path(), WithSkipVendor(true))
	ctx := context.Background()

	edited := []byte("<?php\nfunction edited() {}\n")
	_, err := ws.UpdateFile(ctx, dir.Join("a.php"), edited)
	assert.NilError(t, err)

	assert.NilError(t, ws.ScanMissing(ctx))
	assert.DeepEqual(t, relPaths(t, dir.Path(), ws.Files()), []string{"a.php", "b.php", "lib/c.inc"})
	assert.Equal(t, string(ws.File(dir.Join("a.php")).Document.Source), string(edited))

	assert.NilError(t, ws.ScanAll(ctx))
	assert.Equal(t, string(ws.File(dir.Join("a.php")).Document.Source), "<?php\nfunction a() {}\n")
}

func TestScanFileExpiredTimeout(t *testing.T) {
	dir := fs.NewDir(t, "phpcst", fs.WithFile("a.php", "<?php {}"))
	ws := New(dir.Path(), WithTimeout(-time.Second))

	err := ws.ScanFile(context.Background(), dir.Join("a.php"))
	assert.Assert(t, errors.Is(err, ErrTimeout), "got %v", err)
	assert.Check(t, ws.File(dir.Join("a.php")) == nil)
}

func TestWatcherRetriesFailedScan(t *testing.T) {
	dir := fs.NewDir(t, "phpcst", fs.WithFile("a.php", "<?php {}"))
	ws := New(dir.Path(), WithTimeout(-time.Second))

	var changes []Change
	w := NewWatcher(ws, time.Hour, func(c Change) {
		changes = append(changes, c)
	})
	ctx := context.Background()

	w.Scan(ctx)
	assert.Assert(t, is.Len(changes, 1))
	assert.Assert(t, errors.Is(changes[0].Err, ErrTimeout), "got %v", changes[0].Err)
	assert.Check(t, changes[0].File == nil)

	changes = nil
	ws.timeout = DefaultTimeout
	w.Scan(ctx)
	assert.Assert(t, is.Len(changes, 1))
	assert.NilError(t, changes[0].Err)
	assert.Check(t, changes[0].File != nil)

	changes = nil
	w.Scan(ctx)
	assert.Check(t, is.Len(changes, 0))
}
