package plots

import (
	"os"

	"github.com/sirupsen/logrus"
)

type GraphicalPlotWriterOptions struct {
	Output   string `short:"o" long:"output" description:"The file to save the plot in; placeholders are expanded"`
	PlotType string `short:"t" long:"plot_type" choice:"line" choice:"scatter" default:"line" description:"The type of plot to generate"`
	Block    bool   `short:"b" long:"block" description:"Whether to block the execution until the viewer is closed"`
}

// GraphicalPlotWriter renders the plot to an image file. With --block it
// additionally opens the image in the platform's viewer and waits for the
// viewer to exit; if no output file is configured in that case, the image
// goes to a temporary file that gets removed on finalization.
type GraphicalPlotWriter struct {
	opts    GraphicalPlotWriterOptions
	session *Session
	tmpFile string
	logger  logrus.FieldLogger
}

func NewGraphicalPlotWriter() *GraphicalPlotWriter {
	return &GraphicalPlotWriter{
		logger: logrus.WithField("tag", "GraphicalPlotWriter"),
	}
}

func (w *GraphicalPlotWriter) Name() string {
	return "to-graphical-plot"
}

func (w *GraphicalPlotWriter) Description() string {
	return "Renders the plot as image, optionally displaying it with the platform's image viewer."
}

func (w *GraphicalPlotWriter) OptionsRef() any {
	return &w.opts
}

func (w *GraphicalPlotWriter) Initialize(session *Session) error {
	w.session = session
	if w.opts.PlotType == "" {
		w.opts.PlotType = PlotLine
	}
	return nil
}

func (w *GraphicalPlotWriter) WriteBatch(batch []Plot) error {
	data, ok := firstOfBatch(batch, w.logger)
	if !ok {
		return nil
	}

	rc := newRenderContext(w.logger)
	if err := rc.render(data, w.opts.PlotType); err != nil {
		return err
	}

	path := ""
	if w.opts.Output != "" {
		path = w.session.ExpandPlaceholders(w.opts.Output)
	}
	if path == "" && w.opts.Block {
		tmp, err := os.CreateTemp("", "kasperl-plot-*.png")
		if err != nil {
			return err
		}
		tmp.Close()
		w.tmpFile = tmp.Name()
		path = w.tmpFile
	}

	if path != "" {
		if err := rc.save(path); err != nil {
			return err
		}
	}
	if w.opts.Block && path != "" {
		openExternal(path, true, w.logger)
	}
	return nil
}

func (w *GraphicalPlotWriter) Finalize() error {
	if w.tmpFile != "" {
		w.logger.Infof("cleaning up: %s", w.tmpFile)
		// removal is best-effort, a stale temp file is not worth failing over
		_ = os.Remove(w.tmpFile)
		w.tmpFile = ""
	}
	return nil
}
