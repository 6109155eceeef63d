package main

import (
	"errors"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// source returns the Roar code for a command along with the name to
// report in error messages. There are three possible sources:
//
//  1. --code <code>
//  2. --stdin (read code from stdin)
//  3. a file path as args[0]
//
// Supplying more than one is an error.
func source(cmd *cobra.Command, args []string) (code, name string, err error) {
	codeSet := cmd.Flags().Changed("code")
	stdinSet, _ := cmd.Flags().GetBool("stdin")
	pathSupplied := len(args) > 0

	switch {
	case pathSupplied && (codeSet || stdinSet), codeSet && stdinSet:
		return "", "", errors.New("multiple input sources specified")
	case stdinSet:
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", "", err
		}
		return string(data), "<stdin>", nil
	case pathSupplied:
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", "", err
		}
		return string(data), args[0], nil
	case codeSet:
		code, _ := cmd.Flags().GetString("code")
		return code, "<code>", nil
	}
	return "", "", errors.New("no input: pass a file, -c code, or --stdin")
}
