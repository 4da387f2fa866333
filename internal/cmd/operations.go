package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/catwhisperingninja/cat-dexscreener/internal/output"
)

var operationsCmd = &cobra.Command{
	Use:   "operations",
	Short: "List the operation catalog",
	Long:  "List every operation the gateway exposes, its rate limit class, and current window usage.",
	RunE:  runOperations,
}

func init() {
	rootCmd.AddCommand(operationsCmd)

	operationsCmd.Flags().String("output", "table", "Output format: table, json, markdown, yaml")
	operationsCmd.Flags().String("out", "", "Write output to file instead of stdout")
}

func runOperations(cmd *cobra.Command, args []string) error {
	formatValue, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	format, err := output.ParseFormat(formatValue)
	if err != nil {
		return err
	}

	outPath, err := cmd.Flags().GetString("out")
	if err != nil {
		return err
	}

	gw, db, err := buildGateway(cmd.Context())
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close() // nolint:errcheck // best-effort cleanup
	}

	rendered, err := output.NewFormatter(format).FormatOperations(gw.Registry.Operations(), gw.Usage())
	if err != nil {
		return err
	}

	sink, err := openSink(outPath)
	if err != nil {
		return err
	}
	defer func() { _ = sink.close() }()

	_, err = fmt.Fprintln(sink.writer, rendered)
	return err
}
