package main

import (
	"io"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "puffs",
	Short: "PUFFS runs valid/ready handshake benches.",
	Long: `PUFFS runs valid/ready handshake benches against a clocked ` +
		`circuit model, checks every token against a reference model and ` +
		`reports the diagnostics of earlier runs.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		atexit.Exit(1)
	}

	atexit.Exit(0)
}

func newLogger(out io.Writer) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.RFC3339,
		NoColor:    true,
	}

	return zerolog.New(output).With().Timestamp().Str("app", "puffs").Logger()
}
