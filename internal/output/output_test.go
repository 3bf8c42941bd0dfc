package output

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"
)

// captureStdout runs fn with stdout redirected to a buffer.
func captureStdout(t *testing.T, fn func() error) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	os.Stdout = w
	defer func() { os.Stdout = old }()

	if err := fn(); err != nil {
		w.Close()
		t.Fatal(err)
	}
	w.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		t.Fatal(err)
	}
	return buf.String()
}

type sample struct {
	OK     bool   `yaml:"ok"              json:"ok"`
	Chain  string `yaml:"chain"           json:"chain"`
	Method string `yaml:"method,omitempty" json:"method,omitempty"`
}

func TestPrintYAML(t *testing.T) {
	got := captureStdout(t, func() error {
		return PrintYAML(sample{OK: true, Chain: "window:Calculator >> name:Seven"})
	})
	if !strings.Contains(got, "ok: true") || !strings.Contains(got, "chain: window:Calculator >> name:Seven") {
		t.Errorf("unexpected yaml output: %q", got)
	}
}

func TestPrintJSON_Compact(t *testing.T) {
	got := captureStdout(t, func() error {
		return PrintJSON(sample{OK: true, Chain: "name:Seven"})
	})
	if strings.Count(strings.TrimSpace(got), "\n") != 0 {
		t.Errorf("compact json must be single-line, got %q", got)
	}
	var decoded sample
	if err := json.Unmarshal([]byte(got), &decoded); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if !decoded.OK || decoded.Chain != "name:Seven" {
		t.Errorf("round-trip mismatch: %+v", decoded)
	}
}

func TestPrint_FormatSwitch(t *testing.T) {
	saved := OutputFormat
	defer func() { OutputFormat = saved }()

	OutputFormat = FormatJSON
	got := captureStdout(t, func() error { return Print(sample{OK: true}) })
	if !strings.HasPrefix(strings.TrimSpace(got), "{") {
		t.Errorf("FormatJSON must emit json, got %q", got)
	}

	OutputFormat = FormatYAML
	got = captureStdout(t, func() error { return Print(sample{OK: true}) })
	if strings.HasPrefix(strings.TrimSpace(got), "{") {
		t.Errorf("FormatYAML must emit yaml, got %q", got)
	}

	OutputFormat = Format("csv")
	if err := Print(sample{}); err == nil {
		t.Error("unknown format must error")
	}
}
