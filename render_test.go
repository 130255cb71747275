package plots

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	logrustest "github.com/sirupsen/logrus/hooks/test"
)

func TestRenderContext(t *testing.T) {
	t.Run("line plot saves as png", func(t *testing.T) {
		logger, _ := logrustest.NewNullLogger()
		rc := newRenderContext(logger)

		if err := rc.render(xyTestPlot(), PlotLine); err != nil {
			t.Fatalf("render failed: %v", err)
		}
		if rc.figure.Title.Text != "a.csv" {
			t.Fatalf("unexpected title: %q", rc.figure.Title.Text)
		}
		if rc.figure.X.Label.Text != "time" || rc.figure.Y.Label.Text != "value" {
			t.Fatalf("unexpected labels: %q / %q", rc.figure.X.Label.Text, rc.figure.Y.Label.Text)
		}

		path := filepath.Join(t.TempDir(), "out.png")
		if err := rc.save(path); err != nil {
			t.Fatalf("save failed: %v", err)
		}
		file, err := os.Open(path)
		if err != nil {
			t.Fatalf("output missing: %v", err)
		}
		defer file.Close()
		if _, err := png.Decode(file); err != nil {
			t.Fatalf("output is not a valid PNG: %v", err)
		}
	})

	t.Run("scatter plot of a sequence", func(t *testing.T) {
		logger, _ := logrustest.NewNullLogger()
		rc := newRenderContext(logger)

		plot := &SequencePlot{Data: []string{"1", "2", "3"}}
		if err := rc.render(plot, PlotScatter); err != nil {
			t.Fatalf("render failed: %v", err)
		}
		if rc.figure.Title.Text != "Plot" {
			t.Fatalf("expected title fallback, got %q", rc.figure.Title.Text)
		}
		if rc.figure.Y.Label.Text != "value" {
			t.Fatalf("expected value-axis fallback, got %q", rc.figure.Y.Label.Text)
		}

		var buffer bytes.Buffer
		if err := rc.writePNG(&buffer); err != nil {
			t.Fatalf("writePNG failed: %v", err)
		}
		if _, err := png.Decode(&buffer); err != nil {
			t.Fatalf("stream is not a valid PNG: %v", err)
		}
	})

	t.Run("unhandled plot type selector", func(t *testing.T) {
		logger, _ := logrustest.NewNullLogger()
		rc := newRenderContext(logger)

		err := rc.render(xyTestPlot(), "pie")
		if err == nil || !strings.Contains(err.Error(), "unhandled plot type") {
			t.Fatalf("expected unhandled plot type error, got %v", err)
		}
	})

	t.Run("unhandled plot class", func(t *testing.T) {
		logger, _ := logrustest.NewNullLogger()
		rc := newRenderContext(logger)

		err := rc.render(&fakePlot{}, PlotLine)
		if err == nil || !strings.Contains(err.Error(), "unhandled plot class") {
			t.Fatalf("expected unhandled plot class error, got %v", err)
		}
	})
}
