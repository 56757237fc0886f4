// Package transform holds the named line transforms the CLI can run.
package transform

import (
	"context"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/kbukum/linepar/errors"
	"github.com/kbukum/linepar/loader"
	"github.com/kbukum/linepar/logger"
	"github.com/kbukum/linepar/observability"
	"github.com/kbukum/linepar/pipeline"
	"github.com/kbukum/linepar/process"
)

// Config carries the parameters a transform may need.
type Config struct {
	// Pattern is the regular expression for grep and grep-v.
	Pattern string `mapstructure:"pattern"`
	// Separator joins the index and the line for number. Defaults to a tab.
	Separator string `mapstructure:"separator"`
	// Exec configures the exec transform.
	Exec process.Config `mapstructure:"exec"`
}

// Factory builds a transform from cfg.
type Factory func(cfg Config) (pipeline.Transform, error)

// Spec describes a registered transform.
type Spec struct {
	Name        string
	Description string
	// LineNumbers reports whether the transform needs record indices.
	LineNumbers bool
	New         Factory
}

var (
	mu       sync.RWMutex
	registry = map[string]Spec{}
)

// Register adds or replaces a transform.
func Register(spec Spec) {
	mu.Lock()
	defer mu.Unlock()
	registry[spec.Name] = spec
}

// Lookup returns the transform registered under name.
func Lookup(name string) (Spec, bool) {
	mu.RLock()
	defer mu.RUnlock()
	spec, ok := registry[name]
	return spec, ok
}

// Specs returns every registered transform sorted by name.
func Specs() []Spec {
	mu.RLock()
	defer mu.RUnlock()
	specs := make([]Spec, 0, len(registry))
	for _, s := range registry {
		specs = append(specs, s)
	}
	sort.Slice(specs, func(i, j int) bool { return specs[i].Name < specs[j].Name })
	return specs
}

// Names returns the registered transform names, sorted.
func Names() []string {
	specs := Specs()
	names := make([]string, len(specs))
	for i, s := range specs {
		names[i] = s.Name
	}
	return names
}

// Build looks up name and constructs the transform.
func Build(name string, cfg Config) (pipeline.Transform, Spec, error) {
	spec, ok := Lookup(name)
	if !ok {
		return nil, Spec{}, errors.InvalidInput("transform",
			"unknown transform "+strconv.Quote(name)+", expected one of "+strings.Join(Names(), " "))
	}
	fn, err := spec.New(cfg)
	if err != nil {
		return nil, Spec{}, err
	}
	return fn, spec, nil
}

func stateless(f func(string) string) Factory {
	return func(Config) (pipeline.Transform, error) {
		return func(_ context.Context, rec loader.Record) (string, error) {
			return f(rec.Line), nil
		}, nil
	}
}

func grep(keep bool) Factory {
	return func(cfg Config) (pipeline.Transform, error) {
		if cfg.Pattern == "" {
			return nil, errors.InvalidInput("pattern", "is required")
		}
		re, err := regexp.Compile(cfg.Pattern)
		if err != nil {
			return nil, errors.InvalidInput("pattern", err.Error())
		}
		return func(_ context.Context, rec loader.Record) (string, error) {
			if re.MatchString(rec.Line) != keep {
				return "", pipeline.SkipLine
			}
			return rec.Line, nil
		}, nil
	}
}

func number(cfg Config) (pipeline.Transform, error) {
	sep := cfg.Separator
	if sep == "" {
		sep = "\t"
	}
	return func(_ context.Context, rec loader.Record) (string, error) {
		return strconv.FormatInt(rec.Index, 10) + sep + rec.Line, nil
	}, nil
}

func execLine(cfg Config) (pipeline.Transform, error) {
	a, err := process.NewAdapter(cfg.Exec)
	if err != nil {
		return nil, err
	}
	return func(ctx context.Context, rec loader.Record) (string, error) {
		out, err := a.Line(ctx, rec.Line)
		if err != nil {
			execFailed(ctx, a.Name(), err)
			return "", err
		}
		if out == "" {
			return "", pipeline.SkipLine
		}
		return out, nil
	}, nil
}

// execFailed tags the run span with the failing command and logs it under
// the run's identifier when one is in ctx.
func execFailed(ctx context.Context, command string, err error) {
	observability.SetSpanAttribute(ctx, observability.AttrExecCommand, command)
	observability.SetSpanError(ctx, err)

	log := logger.Get("transform")
	if rc := observability.RunContextFromContext(ctx); rc != nil {
		log = log.WithRunID(rc.RunID)
	}
	log.Warn("exec command failed", logger.MergeWithError(
		logger.Fields(logger.FieldOperation, command), err))
}

func init() {
	Register(Spec{Name: "identity", Description: "copy lines unchanged", New: stateless(func(s string) string { return s })})
	Register(Spec{Name: "upper", Description: "upper-case each line", New: stateless(strings.ToUpper)})
	Register(Spec{Name: "lower", Description: "lower-case each line", New: stateless(strings.ToLower)})
	Register(Spec{Name: "trim", Description: "strip leading and trailing whitespace", New: stateless(strings.TrimSpace)})
	Register(Spec{Name: "number", Description: "prefix each line with its line number", LineNumbers: true, New: number})
	Register(Spec{Name: "grep", Description: "keep lines matching --pattern", New: grep(true)})
	Register(Spec{Name: "grep-v", Description: "drop lines matching --pattern", New: grep(false)})
	Register(Spec{Name: "exec", Description: "pipe each line through --exec; empty output drops the line", New: execLine})
}
