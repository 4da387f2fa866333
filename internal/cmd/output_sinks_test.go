package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/catwhisperingninja/cat-dexscreener/internal/output"
)

func TestOutputExtension(t *testing.T) {
	cases := []struct {
		format   output.Format
		expected string
	}{
		{output.FormatJSON, "json"},
		{output.FormatMarkdown, "md"},
		{output.FormatYAML, "yaml"},
		{output.FormatTable, "txt"},
	}

	for _, tc := range cases {
		if got := outputExtension(tc.format); got != tc.expected {
			t.Fatalf("expected %s for %s, got %s", tc.expected, tc.format, got)
		}
	}
}

func TestOpenSinkStdout(t *testing.T) {
	for _, path := range []string{"", "-", " "} {
		sink, err := openSink(path)
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", path, err)
		}
		if sink.writer != os.Stdout {
			t.Fatalf("expected stdout sink for %q", path)
		}
		if err := sink.close(); err != nil {
			t.Fatalf("unexpected close error: %v", err)
		}
	}
}

func TestOpenSinkFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "result.json")

	sink, err := openSink(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := sink.writer.Write([]byte("{}\n")); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if err := sink.close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back failed: %v", err)
	}
	if string(data) != "{}\n" {
		t.Fatalf("unexpected file content: %q", data)
	}
}
