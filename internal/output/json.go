package output

import (
	"encoding/json"

	"github.com/catwhisperingninja/cat-dexscreener/internal/core"
	"github.com/catwhisperingninja/cat-dexscreener/internal/core/engine"
)

// JSONFormatter renders results as JSON.
type JSONFormatter struct {
	Indent bool
}

func (f *JSONFormatter) marshal(value any) (string, error) {
	var (
		data []byte
		err  error
	)

	if f.Indent {
		data, err = json.MarshalIndent(value, "", "  ")
	} else {
		data, err = json.Marshal(value)
	}
	if err != nil {
		return "", err
	}

	return string(data), nil
}

// FormatPayload renders an invocation payload as JSON.
func (f *JSONFormatter) FormatPayload(payload engine.Payload) (string, error) {
	return f.marshal(payload)
}

// FormatOperations renders the operation catalog as JSON.
func (f *JSONFormatter) FormatOperations(specs []*engine.OperationSpec, usages []core.ClassUsage) (string, error) {
	return f.marshal(catalogDocument(specs, usages))
}

// FormatJournal renders journal entries as JSON.
func (f *JSONFormatter) FormatJournal(entries []core.JournalEntry) (string, error) {
	return f.marshal(entries)
}
