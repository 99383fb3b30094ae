// Package workspace keeps parsed PHP documents for a directory tree and
// derives diagnostics and symbol outlines from them. It backs the check
// command and the language server.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dhamidi/phpcst/php/parser"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("phpcst.workspace")

// ErrTimeout is returned when parsing a single file takes longer than the
// configured timeout.
var ErrTimeout = errors.New("parse timed out")

const (
	DefaultTimeout = 10 * time.Second
	DefaultWorkers = 4
)

var defaultExtensions = []string{".php", ".phtml", ".inc"}

type Option func(*Workspace)

// WithTimeout bounds the time spent parsing one file.
func WithTimeout(d time.Duration) Option {
	return func(w *Workspace) {
		w.timeout = d
	}
}

// WithWorkers sets how many files ScanAll parses concurrently.
func WithWorkers(n int) Option {
	return func(w *Workspace) {
		if n > 0 {
			w.workers = n
		}
	}
}

// WithSkipVendor excludes vendor directories from scans.
func WithSkipVendor(skip bool) Option {
	return func(w *Workspace) {
		w.skipVendor = skip
	}
}

func WithExtensions(exts ...string) Option {
	return func(w *Workspace) {
		w.extensions = make(map[string]bool)
		for _, ext := range exts {
			w.extensions[strings.ToLower(ext)] = true
		}
	}
}

// WithParserOptions passes options through to parser.ParseDocument.
func WithParserOptions(opts ...parser.Option) Option {
	return func(w *Workspace) {
		w.parserOpts = append(w.parserOpts, opts...)
	}
}

// File is a parsed document together with what was derived from it.
type File struct {
	Path        string
	Document    *parser.Document
	Diagnostics []Diagnostic
	Symbols     []Symbol
}

type Workspace struct {
	mu    sync.RWMutex
	root  string
	files map[string]*File

	timeout    time.Duration
	workers    int
	skipVendor bool
	extensions map[string]bool
	parserOpts []parser.Option
}

func New(root string, opts ...Option) *Workspace {
	w := &Workspace{
		root:       root,
		files:      make(map[string]*File),
		timeout:    DefaultTimeout,
		workers:    DefaultWorkers,
		parserOpts: []parser.Option{parser.WithDocComments()},
	}
	WithExtensions(defaultExtensions...)(w)
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *Workspace) Root() string {
	return w.root
}

// IsSource reports whether path has one of the configured extensions.
func (w *Workspace) IsSource(path string) bool {
	return w.extensions[strings.ToLower(filepath.Ext(path))]
}

// skipDir reports whether a directory is left out of scans.
func (w *Workspace) skipDir(path string, name string) bool {
	if path == w.root {
		return false
	}
	if strings.HasPrefix(name, ".") {
		return true
	}
	return w.skipVendor && name == "vendor"
}

// Walk lists the source files below the root.
func (w *Workspace) Walk() ([]string, error) {
	var paths []string
	err := filepath.WalkDir(w.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.Warningf("walk %s: %s", path, err)
			return nil
		}
		if d.IsDir() {
			if w.skipDir(path, d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if w.IsSource(path) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", w.root, err)
	}
	return paths, nil
}

// ScanAll parses every source file below the root using a pool of workers.
// Files that fail to load or time out are reported in the returned error;
// the others are stored.
func (w *Workspace) ScanAll(ctx context.Context) error {
	return w.scan(ctx, false)
}

// ScanMissing is ScanAll for files not stored yet. A file stored while it
// is being parsed, as an editor buffer opened during the scan, is kept.
func (w *Workspace) ScanMissing(ctx context.Context) error {
	return w.scan(ctx, true)
}

func (w *Workspace) scan(ctx context.Context, missingOnly bool) error {
	paths, err := w.Walk()
	if err != nil {
		return err
	}
	log.Infof("scanning %d files in %s with %d workers", len(paths), w.root, w.workers)

	jobs := make(chan string)
	var (
		mu   sync.Mutex
		errs []error
		wg   sync.WaitGroup
	)
	for i := 0; i < w.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				if err := w.scanFile(ctx, path, missingOnly); err != nil {
					mu.Lock()
					errs = append(errs, err)
					mu.Unlock()
				}
			}
		}()
	}

feed:
	for _, path := range paths {
		select {
		case jobs <- path:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// ScanFile reads and parses a single file.
func (w *Workspace) ScanFile(ctx context.Context, path string) error {
	return w.scanFile(ctx, path, false)
}

func (w *Workspace) scanFile(ctx context.Context, path string, missingOnly bool) error {
	if missingOnly && w.File(path) != nil {
		return nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	_, err = w.update(ctx, path, content, !missingOnly)
	return err
}

// UpdateFile parses content as the new text of path and stores the result.
func (w *Workspace) UpdateFile(ctx context.Context, path string, content []byte) (*File, error) {
	return w.update(ctx, path, content, true)
}

// update parses and stores a file. Without replace an entry stored in the
// meantime wins and is returned instead.
func (w *Workspace) update(ctx context.Context, path string, content []byte, replace bool) (*File, error) {
	f, err := w.parse(ctx, path, content)
	if err != nil {
		log.Warningf("%s", err)
		return nil, err
	}

	w.mu.Lock()
	if old, ok := w.files[path]; ok && !replace {
		w.mu.Unlock()
		return old, nil
	}
	w.files[path] = f
	w.mu.Unlock()

	log.Debugf("parsed %s: %d diagnostics", path, len(f.Diagnostics))
	return f, nil
}

// parse runs the parser in its own goroutine so that a timeout can be
// reported even though parsing itself cannot be interrupted.
func (w *Workspace) parse(ctx context.Context, path string, content []byte) (*File, error) {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()
	if err := ctx.Err(); err != nil {
		return nil, parseAborted(path, err)
	}

	done := make(chan *File, 1)
	go func() {
		doc := parser.ParseDocument(content, w.parserOpts...)
		done <- &File{
			Path:        path,
			Document:    doc,
			Diagnostics: Diagnose(path, doc),
			Symbols:     Outline(doc),
		}
	}()

	select {
	case f := <-done:
		return f, nil
	case <-ctx.Done():
		return nil, parseAborted(path, ctx.Err())
	}
}

func parseAborted(path string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("parse %s: %w", path, ErrTimeout)
	}
	return fmt.Errorf("parse %s: %w", path, err)
}

func (w *Workspace) RemoveFile(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.files, path)
}

func (w *Workspace) File(path string) *File {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.files[path]
}

// Files returns the stored files ordered by path.
func (w *Workspace) Files() []*File {
	w.mu.RLock()
	defer w.mu.RUnlock()
	files := make([]*File, 0, len(w.files))
	for _, f := range w.files {
		files = append(files, f)
	}
	sort.Slice(files, func(i, j int) bool {
		return files[i].Path < files[j].Path
	})
	return files
}

// Diagnostics returns the diagnostics of every stored file, ordered by path
// and position.
func (w *Workspace) Diagnostics() []Diagnostic {
	var all []Diagnostic
	for _, f := range w.Files() {
		all = append(all, f.Diagnostics...)
	}
	return all
}
