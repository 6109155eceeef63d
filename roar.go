package roar

import (
	"context"

	"github.com/roar-lang/roar/analyzer"
	"github.com/roar-lang/roar/ast"
	"github.com/roar-lang/roar/codegen"
	"github.com/roar-lang/roar/optimizer"
	"github.com/roar-lang/roar/parser"
)

// Compile translates Roar source into the target dialect. The stages
// run in order: parse, analyze, optimize (unless disabled), any custom
// transformers, generate. The first failing stage aborts the pipeline
// and its error is returned as is.
func Compile(ctx context.Context, source string, opts ...Option) (string, error) {
	o := collectOptions(opts...)
	program, err := check(ctx, source, o)
	if err != nil {
		return "", err
	}
	if o.optimize {
		program = optimizer.Optimize(program)
	}
	for _, transformer := range o.transformers {
		program, err = transformer.Transform(program)
		if err != nil {
			return "", err
		}
	}
	return codegen.Generate(program, o.target)
}

// Check parses and analyzes source without generating any output. The
// returned program is fully typed and every name in it is resolved.
func Check(ctx context.Context, source string, opts ...Option) (*ast.Program, error) {
	return check(ctx, source, collectOptions(opts...))
}

func check(ctx context.Context, source string, o *options) (*ast.Program, error) {
	var parserOpts []parser.Option
	if o.filename != "" {
		parserOpts = append(parserOpts, parser.WithFilename(o.filename))
	}
	tree, err := parser.Parse(ctx, source, parserOpts...)
	if err != nil {
		return nil, err
	}
	analyzerOpts := []analyzer.Option{analyzer.WithSource(source)}
	if o.filename != "" {
		analyzerOpts = append(analyzerOpts, analyzer.WithFilename(o.filename))
	}
	return analyzer.Analyze(tree, analyzerOpts...)
}
