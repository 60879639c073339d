package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/evolvablehardware/PUFFS/config"
)

var paramsCmd = &cobra.Command{
	Use:   "params",
	Short: "Print the PARAM_* parameters a bench would see.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		envFiles, _ := cmd.Flags().GetStringSlice("env")

		params, err := config.LoadParams(envFiles...)
		if err != nil {
			return err
		}

		for _, kv := range params.Environ() {
			fmt.Fprintln(cmd.OutOrStdout(), kv)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(paramsCmd)
	paramsCmd.Flags().StringSlice("env", nil, "Load PARAM_* variables from .env files")
}
