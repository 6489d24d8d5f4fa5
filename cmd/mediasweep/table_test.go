package main

import (
	"strings"
	"testing"
)

func TestRenderTablePadsShortRows(t *testing.T) {
	out := renderTable([]string{"Path", "Verdict", "Reason"}, [][]string{{"/lib/clip.avi", "transcode"}}, nil)
	if !strings.Contains(out, "Path") || !strings.Contains(out, "/lib/clip.avi") {
		t.Fatalf("unexpected table:\n%s", out)
	}
	lines := strings.Split(out, "\n")
	if len(lines) != 5 {
		t.Fatalf("expected 5 rendered lines, got %d:\n%s", len(lines), out)
	}
}

func TestRenderTableWithoutHeaders(t *testing.T) {
	if out := renderTable(nil, [][]string{{"x"}}, nil); out != "" {
		t.Fatalf("expected empty output, got %q", out)
	}
}
