package main

import (
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/evolvablehardware/PUFFS/datarecording"
	"github.com/evolvablehardware/PUFFS/diag"
)

var reportCmd = &cobra.Command{
	Use:   "report <db>",
	Short: "Print the diagnostics recorded by a bench.",
	Long: "`report <db>` prints the diagnostics stored in a SQLite " +
		"recording, in the format of the test log. With --tokens it prints " +
		"the token trace instead.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		reader, err := datarecording.NewReader(args[0])
		if err != nil {
			return err
		}
		defer reader.Close()

		errorsOnly, _ := cmd.Flags().GetBool("errors")
		tokens, _ := cmd.Flags().GetBool("tokens")

		if tokens {
			return printTokens(cmd, reader)
		}

		return printDiagnostics(cmd, reader, errorsOnly)
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().Bool("errors", false, "Only print errors")
	reportCmd.Flags().Bool("tokens", false, "Print the token trace")
}

func requireTable(cmd *cobra.Command, reader datarecording.DataReader, table string) error {
	tables, err := reader.Tables(cmd.Context())
	if err != nil {
		return err
	}

	if !slices.Contains(tables, table) {
		return errors.Newf("no %s table in recording", table)
	}

	return nil
}

func printDiagnostics(
	cmd *cobra.Command,
	reader datarecording.DataReader,
	errorsOnly bool,
) error {
	if err := requireTable(cmd, reader, diag.DiagnosticsTable); err != nil {
		return err
	}

	reader.MapTable(diag.DiagnosticsTable, diag.DiagnosticRow{})

	params := datarecording.QueryParams{OrderBy: "Run, Seq"}
	if errorsOnly {
		params.Where = "Severity = ?"
		params.Args = []any{diag.SeverityError.String()}
	}

	rows, err := datarecording.QueryAs[diag.DiagnosticRow](
		cmd.Context(), reader, diag.DiagnosticsTable, params)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, row := range rows {
		fmt.Fprintf(out, "%s %s %s %s\n",
			row.Run, ns(row.Time), row.Severity, row.Msg)
	}

	return summary(out, len(rows), "diagnostics")
}

func printTokens(cmd *cobra.Command, reader datarecording.DataReader) error {
	if err := requireTable(cmd, reader, diag.TokensTable); err != nil {
		return err
	}

	reader.MapTable(diag.TokensTable, diag.TokenRow{})

	rows, err := datarecording.QueryAs[diag.TokenRow](cmd.Context(), reader,
		diag.TokensTable, datarecording.QueryParams{OrderBy: "Cycle, Channel"})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, row := range rows {
		fmt.Fprintf(out, "%d %s %s %s %s\n",
			row.Cycle, ns(row.Time), row.Channel, row.Direction, row.Value)
	}

	return summary(out, len(rows), "tokens")
}

func ns(t float64) string {
	return strconv.FormatFloat(t*1e9, 'f', 3, 64)
}

func summary(out io.Writer, n int, what string) error {
	_, err := fmt.Fprintf(out, "%d %s\n", n, what)
	return err
}
