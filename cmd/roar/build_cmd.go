package main

import (
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/roar-lang/roar"
	"github.com/roar-lang/roar/codegen"
)

func buildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build [file]",
		Short: "Compile a Roar program",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runBuild,
	}
	cmd.Flags().StringP("code", "c", "", "Code to compile")
	cmd.Flags().Bool("stdin", false, "Read code from stdin")
	cmd.Flags().StringP("out", "o", "", "Write output to a file instead of stdout")
	cmd.Flags().String("target", string(codegen.JS), "Generation target")
	cmd.Flags().Bool("no-optimize", false, "Skip the optimizer")
	return cmd
}

func runBuild(cmd *cobra.Command, args []string) error {
	code, name, err := source(cmd, args)
	if err != nil {
		return err
	}

	opts := []roar.Option{roar.WithFilename(name)}
	if target, _ := cmd.Flags().GetString("target"); target != "" {
		opts = append(opts, roar.WithTarget(codegen.Target(target)))
	}
	if noOptimize, _ := cmd.Flags().GetBool("no-optimize"); noOptimize {
		opts = append(opts, roar.WithoutOptimization())
	}

	start := time.Now()
	output, err := roar.Compile(cmd.Context(), code, opts...)
	if err != nil {
		return err
	}
	log.Debug().
		Str("source", name).
		Dur("elapsed", time.Since(start)).
		Int("bytes", len(output)).
		Msg("compiled")

	if outPath, _ := cmd.Flags().GetString("out"); outPath != "" {
		return os.WriteFile(outPath, []byte(output), 0o644)
	}
	_, err = cmd.OutOrStdout().Write([]byte(output))
	return err
}
