package main

import (
	"context"
	"fmt"

	"github.com/spf13/pflag"

	"github.com/kbukum/linepar/errors"
	"github.com/kbukum/linepar/source"
	"github.com/kbukum/linepar/transform"
	"github.com/kbukum/linepar/version"
)

// parseOne parses fs and requires exactly one positional argument. The
// returned code is -1 when the command should proceed.
func (a *app) parseOne(fs *pflag.FlagSet, args []string, what string) (string, int) {
	fs.SetOutput(a.stderr)
	if err := fs.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return "", exitOK
		}
		return "", exitUsage
	}
	if fs.NArg() != 1 {
		return "", a.fail(errors.InvalidInput("args", "expected "+what))
	}
	return fs.Arg(0), -1
}

func (a *app) countCmd(_ context.Context, args []string) int {
	fs := pflag.NewFlagSet("count", pflag.ContinueOnError)
	bufSize := fs.Int("buffer-size", 0, "read buffer size in bytes")
	path, code := a.parseOne(fs, args, "FILE")
	if code >= 0 {
		return code
	}

	n, err := source.CountFileLines(path, source.WithBufferSize(*bufSize))
	if err != nil {
		return a.fail(err)
	}
	fmt.Fprintln(a.stdout, n)
	return exitOK
}

func (a *app) estimateCmd(_ context.Context, args []string) int {
	fs := pflag.NewFlagSet("estimate", pflag.ContinueOnError)
	budget := fs.Int64("budget", source.DefaultEstimateBudget, "decompressed bytes to sample (-1 reads the whole file)")
	path, code := a.parseOne(fs, args, "FILE.gz")
	if code >= 0 {
		return code
	}

	est, err := source.EstimateSize(path, *budget)
	if err != nil {
		return a.fail(err)
	}
	kind := "estimated"
	if est.Exact {
		kind = "exact"
	}
	fmt.Fprintf(a.stdout, "%d\t%s\tratio=%.2f\tcompressed=%d\n", est.Bytes, kind, est.Ratio(), est.CompressedSize)
	return exitOK
}

func (a *app) transformsCmd(_ context.Context, _ []string) int {
	for _, spec := range transform.Specs() {
		fmt.Fprintf(a.stdout, "%-8s %s\n", spec.Name, spec.Description)
	}
	return exitOK
}

func (a *app) versionCmd(_ context.Context, _ []string) int {
	fmt.Fprintln(a.stdout, version.Get().String())
	return exitOK
}
