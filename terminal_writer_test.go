package plots

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	logrustest "github.com/sirupsen/logrus/hooks/test"
)

func newTestTerminalWriter(t *testing.T, opts TerminalPlotWriterOptions) (*TerminalPlotWriter, *bytes.Buffer) {
	t.Helper()
	logger, _ := logrustest.NewNullLogger()
	out := &bytes.Buffer{}
	w := NewTerminalPlotWriter()
	w.logger = logger
	w.out = out
	w.opts = opts
	if err := w.Initialize(NewSession()); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	return w, out
}

func TestTerminalPlotWriter(t *testing.T) {
	t.Run("draws title and chart", func(t *testing.T) {
		w, out := newTestTerminalWriter(t, TerminalPlotWriterOptions{PlotType: PlotLine})

		if err := w.WriteBatch([]Plot{xyTestPlot()}); err != nil {
			t.Fatalf("WriteBatch failed: %v", err)
		}
		rendered := out.String()
		if !strings.HasPrefix(rendered, "a.csv\n") {
			t.Fatalf("expected title line, got %q", rendered[:Min(len(rendered), 40)])
		}
		if len(rendered) < 100 {
			t.Fatalf("chart output suspiciously short: %d bytes", len(rendered))
		}
	})

	t.Run("exports a copy when output configured", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "copy.png")
		w, _ := newTestTerminalWriter(t, TerminalPlotWriterOptions{PlotType: PlotScatter, Output: path})

		if err := w.WriteBatch([]Plot{xyTestPlot()}); err != nil {
			t.Fatalf("WriteBatch failed: %v", err)
		}
		if _, err := os.Stat(path); err != nil {
			t.Fatalf("exported copy missing: %v", err)
		}
	})

	t.Run("unhandled plot type selector", func(t *testing.T) {
		w, _ := newTestTerminalWriter(t, TerminalPlotWriterOptions{})
		w.opts.PlotType = "pie"

		err := w.WriteBatch([]Plot{xyTestPlot()})
		if err == nil || !strings.Contains(err.Error(), "unhandled plot type") {
			t.Fatalf("expected unhandled plot type error, got %v", err)
		}
	})

	t.Run("empty batch is a no-op", func(t *testing.T) {
		w, out := newTestTerminalWriter(t, TerminalPlotWriterOptions{})

		if err := w.WriteBatch(nil); err != nil {
			t.Fatalf("WriteBatch failed: %v", err)
		}
		if out.Len() != 0 {
			t.Fatalf("expected no terminal output, got %q", out.String())
		}
	})
}
