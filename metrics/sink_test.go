package metrics_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/tracerepair/tr/metrics"
)

func TestSinkRecordsStartEndMarkLines(t *testing.T) {
	var buf bytes.Buffer
	s := metrics.NewForTest(&buf)

	s.Start("repair:block-1")
	s.Mark("helper:3:timeout")
	s.End("repair:block-1")

	out := buf.String()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3: %q", len(lines), out)
	}
	wantKinds := []string{"START", "MARK", "END"}
	for i, line := range lines {
		cols := strings.Split(line, "\t")
		if len(cols) != 4 {
			t.Fatalf("line %d: got %d columns, want 4: %q", i, len(cols), line)
		}
		if cols[2] != wantKinds[i] {
			t.Fatalf("line %d: event = %q, want %q", i, cols[2], wantKinds[i])
		}
	}
}

func TestSinkEndWithErrorAppendsErrorText(t *testing.T) {
	var buf bytes.Buffer
	s := metrics.NewForTest(&buf)
	s.Start("repair:block-2")
	s.EndWithError("repair:block-2", errBoom)
	if !strings.Contains(buf.String(), errBoom.Error()) {
		t.Fatalf("expected error text in log, got %q", buf.String())
	}
}

var errBoom = boomError{}

type boomError struct{}

func (boomError) Error() string { return "boom" }
