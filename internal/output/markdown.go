package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/catwhisperingninja/cat-dexscreener/internal/core"
	"github.com/catwhisperingninja/cat-dexscreener/internal/core/engine"
)

// MarkdownFormatter renders results as markdown tables.
type MarkdownFormatter struct{}

// FormatPayload renders the payload status with the result in a code fence.
func (f *MarkdownFormatter) FormatPayload(payload engine.Payload) (string, error) {
	status, detail := payloadStatus(payload)

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("**Status**: %s (%s)\n", escapeMarkdownCell(status), escapeMarkdownCell(detail)))

	if len(payload.Result) > 0 {
		var pretty bytes.Buffer
		if err := json.Indent(&pretty, payload.Result, "", "  "); err != nil {
			return "", err
		}
		sb.WriteString("\n```json\n")
		sb.WriteString(pretty.String())
		sb.WriteString("\n```\n")
	}

	return sb.String(), nil
}

// FormatOperations renders the catalog and class usage as markdown tables.
func (f *MarkdownFormatter) FormatOperations(specs []*engine.OperationSpec, usages []core.ClassUsage) (string, error) {
	var sb strings.Builder
	sb.WriteString("## Operations\n\n")
	sb.WriteString("| Operation | Class | Required | Description |\n")
	sb.WriteString("|-----------|-------|----------|-------------|\n")

	for _, spec := range specs {
		if spec == nil {
			continue
		}
		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s |\n",
			escapeMarkdownCell(spec.Name),
			escapeMarkdownCell(spec.Class),
			escapeMarkdownCell(strings.Join(spec.Required, ", ")),
			escapeMarkdownCell(spec.Description),
		))
	}

	if len(usages) > 0 {
		sb.WriteString("\n## Rate limit classes\n\n")
		sb.WriteString("| Class | In Window | Capacity | Window |\n")
		sb.WriteString("|-------|-----------|----------|--------|\n")
		for _, usage := range usages {
			sb.WriteString(fmt.Sprintf("| %s | %d | %d | %s |\n",
				escapeMarkdownCell(usage.Class),
				usage.InFlight,
				usage.Capacity,
				usage.Window.String(),
			))
		}
	}

	return sb.String(), nil
}

// FormatJournal renders journal entries as a markdown table.
func (f *MarkdownFormatter) FormatJournal(entries []core.JournalEntry) (string, error) {
	var sb strings.Builder
	sb.WriteString("| Requested | Operation | Class | Outcome | Status | Duration |\n")
	sb.WriteString("|-----------|-----------|-------|---------|--------|----------|\n")

	for _, entry := range entries {
		status := ""
		if entry.StatusCode != 0 {
			status = fmt.Sprintf("%d", entry.StatusCode)
		}
		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s | %dms |\n",
			entry.RequestedAt.Format("2006-01-02 15:04:05"),
			escapeMarkdownCell(entry.Operation),
			escapeMarkdownCell(entry.Class),
			escapeMarkdownCell(journalOutcome(entry)),
			status,
			entry.DurationMS,
		))
	}

	return sb.String(), nil
}

func escapeMarkdownCell(value string) string {
	return strings.ReplaceAll(value, "|", "\\|")
}
