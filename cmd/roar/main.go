package main

import (
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/roar-lang/roar/errz"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	root := &cobra.Command{
		Use:           "roar",
		Short:         "Compiler for the Roar language",
		Long:          "Compiles Roar programs to JavaScript: parse, analyze, optimize, generate.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			configureLogging()
		},
	}

	flags := root.PersistentFlags()
	flags.Bool("no-color", false, "Disable colored output")
	flags.BoolP("verbose", "v", false, "Log pipeline stages")
	viper.BindPFlag("no-color", flags.Lookup("no-color"))
	viper.BindPFlag("verbose", flags.Lookup("verbose"))
	viper.BindEnv("no-color", "NO_COLOR")

	root.AddCommand(buildCmd(), checkCmd(), astCmd(), versionCmd())

	if err := root.Execute(); err != nil {
		printError(err)
		os.Exit(1)
	}
}

func configureLogging() {
	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:     os.Stderr,
		NoColor: !useColor(os.Stderr),
	})
	if viper.GetBool("verbose") {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	}
}

func useColor(f *os.File) bool {
	if viper.GetBool("no-color") {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func printError(err error) {
	formatter := errz.NewFormatter(useColor(os.Stderr))
	msg := strings.TrimRight(formatter.Format(err), "\n")
	os.Stderr.WriteString(msg + "\n")
}
