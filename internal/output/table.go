package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/catwhisperingninja/cat-dexscreener/internal/core"
	"github.com/catwhisperingninja/cat-dexscreener/internal/core/engine"
)

// TableFormatter renders results as an ASCII table.
type TableFormatter struct{}

// FormatPayload renders a status line followed by the pretty-printed result.
func (f *TableFormatter) FormatPayload(payload engine.Payload) (string, error) {
	status, detail := payloadStatus(payload)

	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Status", "Detail"})
	t.AppendRow(table.Row{status, detail})
	rendered := t.Render()

	if len(payload.Result) > 0 {
		var pretty bytes.Buffer
		if err := json.Indent(&pretty, payload.Result, "", "  "); err != nil {
			return "", err
		}
		rendered += "\n" + pretty.String()
	}

	return rendered, nil
}

// FormatOperations renders the catalog and live class usage as tables.
func (f *TableFormatter) FormatOperations(specs []*engine.OperationSpec, usages []core.ClassUsage) (string, error) {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Operation", "Class", "Required", "Description"})

	for _, spec := range specs {
		if spec == nil {
			continue
		}
		t.AppendRow(table.Row{
			spec.Name,
			spec.Class,
			strings.Join(spec.Required, ", "),
			spec.Description,
		})
	}

	rendered := t.Render()

	if len(usages) > 0 {
		u := table.NewWriter()
		u.SetStyle(table.StyleRounded)
		u.AppendHeader(table.Row{"Class", "In Window", "Capacity", "Window"})
		for _, usage := range usages {
			u.AppendRow(table.Row{
				usage.Class,
				usage.InFlight,
				usage.Capacity,
				usage.Window.String(),
			})
		}
		rendered += "\n" + u.Render()
	}

	return rendered, nil
}

// FormatJournal renders journal entries as a table.
func (f *TableFormatter) FormatJournal(entries []core.JournalEntry) (string, error) {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"Requested", "Operation", "Class", "Outcome", "Status", "Duration"})

	for _, entry := range entries {
		status := ""
		if entry.StatusCode != 0 {
			status = fmt.Sprintf("%d", entry.StatusCode)
		}
		t.AppendRow(table.Row{
			entry.RequestedAt.Format("2006-01-02 15:04:05"),
			entry.Operation,
			entry.Class,
			journalOutcome(entry),
			status,
			fmt.Sprintf("%dms", entry.DurationMS),
		})
	}

	return t.Render(), nil
}
