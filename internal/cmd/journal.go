package cmd

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fulmenhq/gofulmen/ascii"
	"github.com/spf13/cobra"

	"github.com/catwhisperingninja/cat-dexscreener/internal/output"
)

var (
	journalListOutput    string
	journalListOut       string
	journalListOutDir    string
	journalListOperation string
	journalListLimit     int

	journalPruneOlderThan time.Duration
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Inspect the invocation journal",
	Long:  "Inspect or prune the local journal of past gateway invocations.",
}

var journalListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded invocations",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := output.ParseFormat(journalListOutput)
		if err != nil {
			return err
		}

		db, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close() // nolint:errcheck // best-effort cleanup

		entries, err := db.ListCalls(cmd.Context(), journalListOperation, journalListLimit)
		if err != nil {
			return err
		}

		outPath := strings.TrimSpace(journalListOut)
		outDir := strings.TrimSpace(journalListOutDir)
		if outPath != "" && outDir != "" {
			return fmt.Errorf("--out and --out-dir are mutually exclusive")
		}

		if outDir != "" {
			outDir, err = ensureOutDir(outDir)
			if err != nil {
				return err
			}
			outPath = filepath.Join(outDir, fmt.Sprintf("journal.list.%s", outputExtension(format)))
		}

		sink, err := openSink(outPath)
		if err != nil {
			return err
		}
		defer func() { _ = sink.close() }()

		if len(entries) == 0 && format == output.FormatTable {
			lines := []string{"Invocation Journal", "", "(no recorded invocations)"}
			_, _ = fmt.Fprint(sink.writer, ascii.DrawBox(strings.Join(lines, "\n"), 0))
			return nil
		}

		rendered, err := output.NewFormatter(format).FormatJournal(entries)
		if err != nil {
			return err
		}

		_, err = fmt.Fprintln(sink.writer, rendered)
		return err
	},
}

var journalPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete journal entries older than a cutoff",
	RunE: func(cmd *cobra.Command, args []string) error {
		if journalPruneOlderThan <= 0 {
			return fmt.Errorf("--older-than must be a positive duration")
		}

		db, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer db.Close() // nolint:errcheck // best-effort cleanup

		cutoff := time.Now().UTC().Add(-journalPruneOlderThan)
		removed, err := db.PruneCalls(cmd.Context(), cutoff)
		if err != nil {
			return err
		}

		fmt.Printf("Pruned %d journal entries older than %s\n", removed, journalPruneOlderThan)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.AddCommand(journalListCmd)
	journalCmd.AddCommand(journalPruneCmd)

	journalListCmd.Flags().StringVar(&journalListOutput, "output", "table", "Output format: table, json, markdown, yaml")
	journalListCmd.Flags().StringVar(&journalListOut, "out", "", "Write output to file instead of stdout")
	journalListCmd.Flags().StringVar(&journalListOutDir, "out-dir", "", "Write output into directory with a derived filename")
	journalListCmd.Flags().StringVar(&journalListOperation, "operation", "", "Only show entries for this operation")
	journalListCmd.Flags().IntVar(&journalListLimit, "limit", 50, "Maximum entries to list")

	journalPruneCmd.Flags().DurationVar(&journalPruneOlderThan, "older-than", 7*24*time.Hour, "Delete entries older than this duration")
}
