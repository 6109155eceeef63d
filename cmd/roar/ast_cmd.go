package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/hokaccha/go-prettyjson"
	"github.com/spf13/cobra"

	"github.com/roar-lang/roar"
	"github.com/roar-lang/roar/optimizer"
)

func astCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ast [file]",
		Short: "Print the analyzed tree for a Roar program",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runAst,
	}
	cmd.Flags().StringP("code", "c", "", "Code to analyze")
	cmd.Flags().Bool("stdin", false, "Read code from stdin")
	cmd.Flags().StringP("output", "o", "json", "Output format (json or text)")
	cmd.Flags().Bool("optimize", false, "Run the single optimizer pass before printing")
	return cmd
}

func runAst(cmd *cobra.Command, args []string) error {
	code, name, err := source(cmd, args)
	if err != nil {
		return err
	}
	program, err := roar.Check(cmd.Context(), code, roar.WithFilename(name))
	if err != nil {
		return err
	}
	if optimize, _ := cmd.Flags().GetBool("optimize"); optimize {
		program = optimizer.Optimize(program)
	}

	format, _ := cmd.Flags().GetString("output")
	switch format {
	case "json":
		var data []byte
		if useColor(os.Stdout) {
			data, err = prettyjson.Marshal(program)
		} else {
			data, err = json.MarshalIndent(program, "", "  ")
		}
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
	case "text":
		// The canonical source form of the tree, which shows what
		// optimization rewrote.
		fmt.Fprintln(cmd.OutOrStdout(), program.String())
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
	return nil
}
