package plots

import (
	"fmt"
	"io"
	"os"

	tm "github.com/buger/goterm"
	"github.com/sirupsen/logrus"
)

type TerminalPlotWriterOptions struct {
	Output   string `short:"o" long:"output" description:"The file to save the plot in; placeholders are expanded"`
	PlotType string `short:"t" long:"plot_type" choice:"line" choice:"scatter" default:"line" description:"The type of plot to generate"`
}

// TerminalPlotWriter plots the data directly in the terminal. If an output
// file is configured, a rendered copy is exported after the display.
type TerminalPlotWriter struct {
	opts    TerminalPlotWriterOptions
	session *Session
	out     io.Writer
	logger  logrus.FieldLogger
}

func NewTerminalPlotWriter() *TerminalPlotWriter {
	return &TerminalPlotWriter{
		out:    os.Stdout,
		logger: logrus.WithField("tag", "TerminalPlotWriter"),
	}
}

func (w *TerminalPlotWriter) Name() string {
	return "to-terminal-plot"
}

func (w *TerminalPlotWriter) Description() string {
	return "Plots the data directly in the terminal."
}

func (w *TerminalPlotWriter) OptionsRef() any {
	return &w.opts
}

func (w *TerminalPlotWriter) Initialize(session *Session) error {
	w.session = session
	if w.opts.PlotType == "" {
		w.opts.PlotType = PlotLine
	}
	return nil
}

func (w *TerminalPlotWriter) WriteBatch(batch []Plot) error {
	data, ok := firstOfBatch(batch, w.logger)
	if !ok {
		return nil
	}

	switch w.opts.PlotType {
	case PlotLine, PlotScatter:
		// the terminal backend draws the data points of the table either
		// way, the distinction only matters for the exported copy
	default:
		return fmt.Errorf("unhandled plot type: %s", w.opts.PlotType)
	}

	points, err := numericPoints(data, w.logger)
	if err != nil {
		return err
	}
	xLabel, yLabel := axisLabels(data)

	table := new(tm.DataTable)
	table.AddColumn(orDefault(xLabel, "index"))
	table.AddColumn(yLabel)
	for _, p := range points {
		table.AddRow(p.X, p.Y)
	}

	chartWidth := Min(tm.Width(), 100)
	if chartWidth <= 0 {
		chartWidth = 80
	}
	chart := tm.NewLineChart(chartWidth, 20)

	fmt.Fprintln(w.out, orDefault(data.PlotTitle(), "Plot"))
	fmt.Fprintln(w.out, chart.Draw(table))

	if w.opts.Output != "" {
		rc := newRenderContext(w.logger)
		if err := rc.render(data, w.opts.PlotType); err != nil {
			return err
		}
		return rc.save(w.session.ExpandPlaceholders(w.opts.Output))
	}
	return nil
}

func (w *TerminalPlotWriter) Finalize() error {
	return nil
}
