package output

import (
	"encoding/json"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/catwhisperingninja/cat-dexscreener/internal/core"
	"github.com/catwhisperingninja/cat-dexscreener/internal/core/engine"
)

// YAMLFormatter renders results as YAML.
type YAMLFormatter struct{}

func (f *YAMLFormatter) marshal(value any) (string, error) {
	data, err := yaml.Marshal(value)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(data), "\n"), nil
}

// FormatPayload renders an invocation payload as YAML. The raw JSON result
// is decoded first so it nests as structured YAML instead of a quoted blob.
func (f *YAMLFormatter) FormatPayload(payload engine.Payload) (string, error) {
	doc := map[string]any{}

	if len(payload.Result) > 0 {
		var result any
		if err := json.Unmarshal(payload.Result, &result); err != nil {
			return "", err
		}
		doc["result"] = result
	}
	if payload.Error != nil {
		doc["error"] = map[string]any{
			"kind":    string(payload.Error.Kind),
			"message": payload.Error.Message,
		}
	}

	return f.marshal(doc)
}

// FormatOperations renders the operation catalog as YAML.
func (f *YAMLFormatter) FormatOperations(specs []*engine.OperationSpec, usages []core.ClassUsage) (string, error) {
	return f.marshal(catalogDocument(specs, usages))
}

// FormatJournal renders journal entries as YAML.
func (f *YAMLFormatter) FormatJournal(entries []core.JournalEntry) (string, error) {
	return f.marshal(entries)
}
