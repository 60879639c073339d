package main

import (
	"io"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/evolvablehardware/PUFFS/config"
	"github.com/evolvablehardware/PUFFS/diag"
	"github.com/evolvablehardware/PUFFS/examples/adder"
)

// BenchFile is the bench file looked up at the project root when --config
// is not given.
const BenchFile = "puffs.toml"

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the adder bench.",
	Long: "`run --config bench.toml` runs the adder bench described by the " +
		"file. PARAM_* variables, including those of --env files, override " +
		"the [params] table.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := benchConfig(cmd)
		if err != nil {
			return err
		}

		return runBench(cmd, cfg)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().String("config", "", "Bench file, "+BenchFile+
		" at the project root by default")
	runCmd.Flags().StringSlice("env", nil, "Load PARAM_* variables from .env files")
	runCmd.Flags().Uint64("seed", 0, "Override the seed of the bench file")
	runCmd.Flags().Int("cycles", 0, "Override the number of cycles")
	runCmd.Flags().Bool("quiet", false, "Do not echo the test log")
}

func benchConfig(cmd *cobra.Command) (config.BenchConfig, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		if root, err := config.FindRoot(BenchFile); err == nil {
			path = filepath.Join(root, BenchFile)
		}
	}

	cfg := config.DefaultBenchConfig()

	if path != "" {
		var err error

		cfg, err = config.LoadBenchConfig(path)
		if err != nil {
			return config.BenchConfig{}, err
		}
	}

	envFiles, _ := cmd.Flags().GetStringSlice("env")

	params, err := config.LoadParams(envFiles...)
	if err != nil {
		return config.BenchConfig{}, err
	}

	cfg.Params = cfg.Params.Merge(params)

	if cmd.Flags().Changed("seed") {
		cfg.Seed, _ = cmd.Flags().GetUint64("seed")
	}

	if cmd.Flags().Changed("cycles") {
		cfg.Cycles, _ = cmd.Flags().GetInt("cycles")
	}

	return cfg, cfg.Validate()
}

func runBench(cmd *cobra.Command, cfg config.BenchConfig) error {
	log := newLogger(cmd.ErrOrStderr())

	var console io.Writer = cmd.OutOrStdout()
	if quiet, _ := cmd.Flags().GetBool("quiet"); quiet {
		console = nil
	}

	bench, err := adder.NewBench(cfg, console)
	if err != nil {
		return err
	}

	log.Info().
		Str("bench", cfg.Name).
		Int("cycles", cfg.Cycles).
		Stringer("freq", cfg.Freq()).
		Strs("params", cfg.Params.Environ()).
		Msg("running")

	err = bench.Run()

	switch {
	case err == nil:
		log.Info().Str("bench", cfg.Name).Msg("PASS")
	case errors.Is(err, diag.ErrTestFailed):
		log.Error().Str("bench", cfg.Name).Err(err).Msg("FAIL")
	case errors.Is(err, diag.ErrOutput):
		log.Error().Str("bench", cfg.Name).Err(err).Msg("PASS with incomplete output")
	default:
		log.Error().Str("bench", cfg.Name).Err(err).Msg("bench aborted")
	}

	return err
}
