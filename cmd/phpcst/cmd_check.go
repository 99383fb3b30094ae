package main

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/dhamidi/phpcst/php/workspace"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("phpcst.cli")

// errDiagnostics makes check exit with status 1 once its report is printed.
var errDiagnostics = errors.New("syntax errors found")

type checkOptions struct {
	timeout    time.Duration
	workers    int
	skipVendor bool
	watch      bool
	interval   time.Duration
}

func (o checkOptions) workspaceOptions() []workspace.Option {
	return []workspace.Option{
		workspace.WithTimeout(o.timeout),
		workspace.WithWorkers(o.workers),
		workspace.WithSkipVendor(o.skipVendor),
	}
}

func newCheckCmd() *cobra.Command {
	var opts checkOptions

	cmd := &cobra.Command{
		Use:   "check <path>...",
		Short: "Report syntax errors in PHP files, directories or zip archives",
		Long: `Parse every PHP source below the given paths and print one line per syntax
error as path:line:column: message. Exits with status 1 when any error is found.
With --watch, directories are polled and rechecked until interrupted.`,
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			if opts.watch {
				return runWatch(ctx, cmd.OutOrStdout(), args, opts)
			}
			return runCheck(ctx, cmd.OutOrStdout(), args, opts)
		},
	}

	cmd.Flags().DurationVarP(&opts.timeout, "timeout", "t", workspace.DefaultTimeout, "timeout per file")
	cmd.Flags().IntVarP(&opts.workers, "workers", "j", workspace.DefaultWorkers, "number of files parsed concurrently")
	cmd.Flags().BoolVar(&opts.skipVendor, "skip-vendor", false, "skip vendor directories")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "keep rechecking directories as files change")
	cmd.Flags().DurationVar(&opts.interval, "interval", workspace.DefaultPollInterval, "polling interval for --watch")

	return cmd
}

func runCheck(ctx context.Context, out io.Writer, paths []string, opts checkOptions) error {
	var diags []workspace.Diagnostic
	var errs []error

	loose := workspace.New(".", opts.workspaceOptions()...)
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			errs = append(errs, fmt.Errorf("stat %s: %w", path, err))
			continue
		}

		switch {
		case info.IsDir():
			ws := workspace.New(path, opts.workspaceOptions()...)
			if err := ws.ScanAll(ctx); err != nil {
				errs = append(errs, err)
			}
			diags = append(diags, ws.Diagnostics()...)
		case strings.EqualFold(filepath.Ext(path), ".zip"):
			if err := checkZip(ctx, loose, path); err != nil {
				errs = append(errs, err)
			}
		default:
			if err := loose.ScanFile(ctx, path); err != nil {
				errs = append(errs, err)
			}
		}
	}
	diags = append(diags, loose.Diagnostics()...)

	for _, d := range diags {
		fmt.Fprintln(out, d)
	}
	log.Infof("checked %d paths: %d diagnostics, %d failures", len(paths), len(diags), len(errs))

	if err := errors.Join(errs...); err != nil {
		return err
	}
	if len(diags) > 0 {
		return errDiagnostics
	}
	return nil
}

// checkZip parses the PHP entries of a zip archive. Entries are stored
// under the virtual path "archive.zip!entry".
func checkZip(ctx context.Context, ws *workspace.Workspace, path string) error {
	r, err := zip.OpenReader(path)
	if err != nil {
		return fmt.Errorf("open zip: %w", err)
	}
	defer r.Close()

	var errs []error
	for _, f := range r.File {
		if f.FileInfo().IsDir() || !ws.IsSource(f.Name) {
			continue
		}
		content, err := readZipEntry(f)
		if err != nil {
			errs = append(errs, fmt.Errorf("read %s!%s: %w", path, f.Name, err))
			continue
		}
		if _, err := ws.UpdateFile(ctx, path+"!"+f.Name, content); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func readZipEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// runWatch polls every directory argument and prints the diagnostics of
// each file whenever it changes, until interrupted.
func runWatch(ctx context.Context, out io.Writer, paths []string, opts checkOptions) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var watchers []*workspace.Watcher
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("stat %s: %w", path, err)
		}
		if !info.IsDir() {
			return fmt.Errorf("--watch needs directories, %s is not one", path)
		}
		ws := workspace.New(path, opts.workspaceOptions()...)
		w := workspace.NewWatcher(ws, opts.interval, func(c workspace.Change) {
			reportChange(out, c)
		})
		watchers = append(watchers, w)
	}

	for _, w := range watchers {
		w.Start(ctx)
	}
	<-ctx.Done()
	for _, w := range watchers {
		w.Stop()
	}
	return nil
}

func reportChange(out io.Writer, c workspace.Change) {
	switch {
	case c.Removed:
		fmt.Fprintf(out, "%s: removed\n", c.Path)
	case c.Err != nil:
		fmt.Fprintf(out, "%s: %s\n", c.Path, c.Err)
	case c.File != nil && len(c.File.Diagnostics) == 0:
		fmt.Fprintf(out, "%s: ok\n", c.Path)
	case c.File != nil:
		for _, d := range c.File.Diagnostics {
			fmt.Fprintln(out, d)
		}
	}
}
