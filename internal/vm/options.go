package vm

import (
	"bytes"
	"io"
	"io/ioutil"

	"github.com/jcorbin/ccl/internal/flushio"
	"github.com/jcorbin/ccl/internal/runeio"
)

// Option configures a VM at construction, in the same functional-options
// style as the teacher's VMOption in options.go.
type Option interface{ apply(vm *VM) }

var defaultOptions = Options(
	WithInput(bytes.NewReader(nil)),
	WithOutput(ioutil.Discard),
)

// Options flattens a list of Options into one, exactly as the teacher's
// VMOptions does.
func Options(opts ...Option) Option {
	var res options
	for _, opt := range opts {
		switch impl := opt.(type) {
		case nil, noption:
		case options:
			res = append(res, impl...)
		default:
			res = append(res, opt)
		}
	}
	switch len(res) {
	case 0:
		return noption{}
	case 1:
		return res[0]
	default:
		return res
	}
}

type noption struct{}

func (noption) apply(*VM) {}

type options []Option

func (opts options) apply(vm *VM) {
	for _, opt := range opts {
		if opt != nil {
			opt.apply(vm)
		}
	}
}

type inputOption struct{ io.Reader }
type outputOption struct{ io.Writer }
type logfOption func(mess string, args ...interface{})
type stepLimitOption int

// WithInput sets the stream >X reads keys from.
func WithInput(r io.Reader) Option { return inputOption{r} }

// WithOutput sets the stream <X and echoed >X keys are written to.
func WithOutput(w io.Writer) Option { return outputOption{w} }

// WithLogf sets a trace sink used by -debug; nil discards traces.
func WithLogf(logf func(mess string, args ...interface{})) Option { return logfOption(logf) }

// WithStepLimit bounds the number of fetch-execute ticks a Run performs,
// guarding an unbounded WHILE loop that never reaches '#'. Zero (the
// default) means unlimited.
func WithStepLimit(n int) Option { return stepLimitOption(n) }

func (o inputOption) apply(vm *VM)     { vm.in = runeio.NewReader(o.Reader) }
func (o outputOption) apply(vm *VM)    { vm.out = flushio.NewWriteFlusher(o.Writer) }
func (o logfOption) apply(vm *VM)      { vm.logf = o }
func (o stepLimitOption) apply(vm *VM) { vm.stepLimit = int(o) }
