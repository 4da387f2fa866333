package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/catwhisperingninja/cat-dexscreener/internal/observability"
	"github.com/catwhisperingninja/cat-dexscreener/internal/output"
)

var callCmd = &cobra.Command{
	Use:   "call <operation>",
	Short: "Invoke a gateway operation",
	Long: `Invoke one operation from the catalog against the upstream API,
honoring the per-class rate ceiling before the request leaves the process.

Arguments are passed as repeated --arg key=value flags. Alias spellings
are accepted, for example:

  cat-dexscreener call get_token_orders --arg chain_id=solana --arg contractAddress=ABC
  cat-dexscreener call search_pairs --arg q=SOL/USDC`,
	Args: cobra.ExactArgs(1),
	RunE: runCall,
}

func init() {
	rootCmd.AddCommand(callCmd)

	callCmd.Flags().StringArray("arg", nil, "operation argument as key=value (repeatable)")
	callCmd.Flags().String("output", "json", "Output format: table, json, markdown, yaml")
	callCmd.Flags().String("out", "", "Write output to file instead of stdout")
}

func runCall(cmd *cobra.Command, args []string) error {
	operation := strings.TrimSpace(args[0])

	rawArgs, err := cmd.Flags().GetStringArray("arg")
	if err != nil {
		return err
	}
	callArgs, err := parseCallArgs(rawArgs)
	if err != nil {
		return err
	}

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

	observability.CLILogger.Debug("Invoking operation",
		zap.String("operation", operation),
		zap.Int("arguments", len(callArgs)))

	payload := gw.Invoke(cmd.Context(), operation, callArgs)

	rendered, err := output.NewFormatter(format).FormatPayload(payload)
	if err != nil {
		return err
	}

	sink, err := openSink(outPath)
	if err != nil {
		return err
	}
	defer func() { _ = sink.close() }()

	if _, err := fmt.Fprintln(sink.writer, rendered); err != nil {
		return err
	}

	if payload.Error != nil {
		return fmt.Errorf("%s: %s", payload.Error.Kind, payload.Error.Message)
	}
	return nil
}

// parseCallArgs converts repeated key=value flags into an argument map.
func parseCallArgs(raw []string) (map[string]string, error) {
	args := make(map[string]string, len(raw))
	for _, pair := range raw {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --arg %q: expected key=value", pair)
		}
		args[key] = value
	}
	return args, nil
}
