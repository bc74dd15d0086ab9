package progress

import (
	"bytes"
	"strings"
	"testing"
)

func TestLineReporter(t *testing.T) {
	var buf bytes.Buffer
	r := &LineReporter{w: &buf, label: "Seeding"}
	r.Start(2)
	r.Update(1, "product lap-air")
	r.Update(2, "order ORD-12345")
	r.Finish()

	want := "Seeding: 2 records\n[1/2] product lap-air\n[2/2] order ORD-12345\nSeeding: done\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}

func TestNewReporterUnderCI(t *testing.T) {
	t.Setenv("CI", "true")
	var buf bytes.Buffer
	r := NewReporter(&buf, "Seeding")
	if _, ok := r.(*LineReporter); !ok {
		t.Fatalf("expected *LineReporter under CI, got %T", r)
	}
	r.Start(1)
	if !strings.Contains(buf.String(), "1 records") {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestTerminalReporterNoStart(t *testing.T) {
	r := &TerminalReporter{}
	// Update and Finish before Start must not panic.
	r.Update(1, "x")
	r.Finish()
}
