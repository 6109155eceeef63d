package main

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/roar-lang/roar"
)

func checkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [files...]",
		Short: "Parse and analyze Roar programs without generating code",
		Args:  cobra.ArbitraryArgs,
		RunE:  runCheck,
	}
	cmd.Flags().StringP("code", "c", "", "Code to check")
	cmd.Flags().Bool("stdin", false, "Read code from stdin")
	return cmd
}

func runCheck(cmd *cobra.Command, args []string) error {
	if len(args) < 2 {
		code, name, err := source(cmd, args)
		if err != nil {
			return err
		}
		return checkOne(cmd, code, name)
	}

	// With several files, every file is checked and the failures are
	// reported together.
	var result *multierror.Error
	for _, path := range args {
		data, err := os.ReadFile(path)
		if err != nil {
			result = multierror.Append(result, err)
			continue
		}
		if err := checkOne(cmd, string(data), path); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

func checkOne(cmd *cobra.Command, code, name string) error {
	start := time.Now()
	program, err := roar.Check(cmd.Context(), code, roar.WithFilename(name))
	if err != nil {
		return err
	}
	log.Debug().
		Str("source", name).
		Dur("elapsed", time.Since(start)).
		Int("statements", len(program.Stmts)).
		Msg("checked")
	fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", name)
	return nil
}
