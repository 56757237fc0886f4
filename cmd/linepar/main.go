// Command linepar runs a line transform over a text file on a pool of
// workers.
//
//	linepar run [flags] INPUT [OUTPUT]
//	linepar count FILE
//	linepar estimate [--budget N] FILE.gz
//	linepar transforms
//	linepar version
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/kbukum/linepar/errors"
)

const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

func main() {
	a := &app{stdout: os.Stdout, stderr: os.Stderr}
	os.Exit(a.execute(context.Background(), os.Args[1:]))
}

// app carries the output streams so commands can be run from tests.
type app struct {
	stdout io.Writer
	stderr io.Writer
}

type command struct {
	name    string
	summary string
	run     func(a *app, ctx context.Context, args []string) int
}

var commands = []command{
	{"run", "process INPUT with a transform, streaming to OUTPUT or stdout", (*app).runCmd},
	{"count", "count the lines of a file", (*app).countCmd},
	{"estimate", "estimate the decompressed size of a .gz file", (*app).estimateCmd},
	{"transforms", "list the built-in transforms", (*app).transformsCmd},
	{"version", "print version information", (*app).versionCmd},
}

func (a *app) execute(ctx context.Context, args []string) int {
	if len(args) == 0 {
		a.usage()
		return exitUsage
	}
	switch args[0] {
	case "-h", "--help", "help":
		a.usage()
		return exitOK
	}
	for _, c := range commands {
		if c.name == args[0] {
			return c.run(a, ctx, args[1:])
		}
	}
	fmt.Fprintf(a.stderr, "linepar: unknown command %q\n\n", args[0])
	a.usage()
	return exitUsage
}

func (a *app) usage() {
	fmt.Fprintln(a.stderr, "usage: linepar <command> [flags] [args]")
	fmt.Fprintln(a.stderr)
	fmt.Fprintln(a.stderr, "commands:")
	for _, c := range commands {
		fmt.Fprintf(a.stderr, "  %-11s %s\n", c.name, c.summary)
	}
}

// fail prints err and maps it to an exit code.
func (a *app) fail(err error) int {
	fmt.Fprintf(a.stderr, "linepar: %v\n", err)
	switch errors.Wrap(err).Code {
	case errors.ErrCodeInvalidInput:
		return exitUsage
	default:
		return exitError
	}
}
