package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jcorbin/ccl/internal/lang"
	"github.com/jcorbin/ccl/internal/logio"
	"github.com/jcorbin/ccl/internal/panicerr"
	"github.com/jcorbin/ccl/internal/parser"
	"github.com/jcorbin/ccl/internal/vm"
)

func main() {
	var (
		showStack bool
		debug     bool
		timeout   time.Duration
		stepLimit int
		trace     bool
	)
	flag.BoolVar(&showStack, "showstack", false, "parse the program, dump its instruction list, and exit")
	flag.BoolVar(&showStack, "ss", false, "shorthand for -showstack")
	flag.BoolVar(&debug, "debug", false, "single-step with a source trace after every instruction")
	flag.BoolVar(&debug, "d", false, "shorthand for -debug")
	flag.DurationVar(&timeout, "timeout", 0, "bound total run time")
	flag.IntVar(&stepLimit, "step-limit", 0, "bound the total instruction-fetch count (0 disables)")
	flag.BoolVar(&trace, "trace", false, "log one line per fetch-execute tick")
	flag.Parse()

	log := logio.Logger{}
	log.SetOutput(os.Stderr)
	defer func() { os.Exit(log.ExitCode()) }()

	// flags may also follow the source path
	args := flag.Args()
	if len(args) > 0 {
		flag.CommandLine.Parse(args[1:])
	}
	if len(args) == 0 || flag.NArg() != 0 {
		usage()
		log.Errorf("expected exactly one source path")
		return
	}
	path := args[0]

	src, err := os.ReadFile(path)
	if err != nil {
		usage()
		log.Errorf("%v", err)
		return
	}

	prog, err := parser.Parse(string(src))
	if err != nil {
		reportError(&log, err)
		return
	}

	if showStack {
		dumpProgram(os.Stdout, prog)
		return
	}

	opts := []vm.Option{
		vm.WithInput(os.Stdin),
		vm.WithOutput(os.Stdout),
		vm.WithStepLimit(stepLimit),
	}
	if trace {
		opts = append(opts, vm.WithLogf(log.Leveledf("TRACE")))
	}
	if debug {
		opts = append(opts, vm.WithLogf(newDebugTracer(os.Stderr)))
	}

	machine := vm.New(prog, opts...)

	ctx := context.Background()
	if timeout != 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	err = panicerr.Recover("ccl", func() error {
		return machine.Run(ctx)
	})
	if err != nil {
		reportError(&log, err)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "usage: %s <source-path> [flags]\n", os.Args[0])
	flag.PrintDefaults()
}

// reportError formats a *parser.ParseError or *vm.RuntimeError with its
// source position and the offending line, caret-marked in plain text (no
// ANSI colour), grounded on interpreter/main.py's error-reporting branches.
func reportError(log *logio.Logger, err error) {
	var pos lang.Pos
	var perr *parser.ParseError
	var rerr *vm.RuntimeError
	switch {
	case errors.As(err, &perr):
		pos = perr.Pos
	case errors.As(err, &rerr):
		pos = rerr.Pos
	default:
		log.Errorf("%v", err)
		return
	}
	if pos.Text != "" {
		log.Errorf("%v\n%s\n%s^", err, pos.Text, strings.Repeat(" ", pos.Col))
		return
	}
	log.Errorf("%v", err)
}
