package roar

import (
	"github.com/roar-lang/roar/ast"
	"github.com/roar-lang/roar/codegen"
)

// Option configures a compilation.
type Option func(*options)

type options struct {
	filename     string
	target       codegen.Target
	optimize     bool
	transformers []ast.Transformer
}

func collectOptions(opts ...Option) *options {
	o := &options{target: codegen.JS, optimize: true}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

// WithFilename sets the filename reported in error messages.
func WithFilename(filename string) Option {
	return func(o *options) {
		o.filename = filename
	}
}

// WithTarget selects the generation dialect. The default is codegen.JS.
func WithTarget(target codegen.Target) Option {
	return func(o *options) {
		o.target = target
	}
}

// WithoutOptimization skips the optimizer, so generated code follows
// the source statement for statement.
func WithoutOptimization() Option {
	return func(o *options) {
		o.optimize = false
	}
}

// WithTransformer appends a custom tree transformation that runs after
// optimization and before generation. This option is additive, so
// multiple transformers may be supplied; they run in the order given.
func WithTransformer(t ast.Transformer) Option {
	return func(o *options) {
		o.transformers = append(o.transformers, t)
	}
}
