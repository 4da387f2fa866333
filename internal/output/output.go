package output

import (
	"fmt"
	"strings"

	"github.com/catwhisperingninja/cat-dexscreener/internal/core"
	"github.com/catwhisperingninja/cat-dexscreener/internal/core/engine"
)

// Format represents an output format.
type Format string

const (
	FormatTable    Format = "table"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
	FormatYAML     Format = "yaml"
)

// Formatter renders gateway results for the CLI.
type Formatter interface {
	FormatPayload(payload engine.Payload) (string, error)
	FormatOperations(specs []*engine.OperationSpec, usages []core.ClassUsage) (string, error)
	FormatJournal(entries []core.JournalEntry) (string, error)
}

// ParseFormat validates and normalizes a format string.
func ParseFormat(value string) (Format, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	switch normalized {
	case "", string(FormatTable):
		return FormatTable, nil
	case string(FormatJSON):
		return FormatJSON, nil
	case string(FormatMarkdown):
		return FormatMarkdown, nil
	case string(FormatYAML), "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported output format: %s", value)
	}
}

// NewFormatter returns a formatter for the requested format.
func NewFormatter(format Format) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Indent: true}
	case FormatMarkdown:
		return &MarkdownFormatter{}
	case FormatYAML:
		return &YAMLFormatter{}
	default:
		return &TableFormatter{}
	}
}

// catalogEntry is the serializable shape of one operation for JSON and YAML.
type catalogEntry struct {
	Name        string              `json:"name" yaml:"name"`
	Description string              `json:"description" yaml:"description"`
	Class       string              `json:"class" yaml:"class"`
	Required    []string            `json:"required,omitempty" yaml:"required,omitempty"`
	Aliases     map[string][]string `json:"aliases,omitempty" yaml:"aliases,omitempty"`
}

type catalogDoc struct {
	Operations []catalogEntry    `json:"operations" yaml:"operations"`
	Classes    []core.ClassUsage `json:"classes,omitempty" yaml:"classes,omitempty"`
}

func catalogDocument(specs []*engine.OperationSpec, usages []core.ClassUsage) catalogDoc {
	doc := catalogDoc{Classes: usages}
	for _, spec := range specs {
		if spec == nil {
			continue
		}
		doc.Operations = append(doc.Operations, catalogEntry{
			Name:        spec.Name,
			Description: spec.Description,
			Class:       spec.Class,
			Required:    spec.Required,
			Aliases:     spec.Aliases,
		})
	}
	return doc
}

// payloadStatus summarizes a payload for one-line displays.
func payloadStatus(payload engine.Payload) (status string, detail string) {
	if payload.Error != nil {
		return string(payload.Error.Kind), payload.Error.Message
	}
	return "ok", fmt.Sprintf("%d bytes", len(payload.Result))
}

// journalOutcome renders how a journaled call ended.
func journalOutcome(entry core.JournalEntry) string {
	if entry.FailureKind != "" {
		return entry.FailureKind
	}
	return "success"
}
