package plots

import (
	"image/png"
	"io"
	"os"

	sixel "github.com/mattn/go-sixel"
	"github.com/sirupsen/logrus"
)

type SixelPlotWriterOptions struct {
	Output   string `short:"o" long:"output" description:"The file to save the plot in; placeholders are expanded"`
	PlotType string `short:"t" long:"plot_type" choice:"line" choice:"scatter" default:"line" description:"The type of plot to generate"`
}

// SixelPlotWriter displays the plot as graphic in a terminal that supports
// sixel. For more information on sixel see:
// https://en.wikipedia.org/wiki/Sixel
// For sixel support see: https://www.arewesixelyet.com/
//
// The plot is always rendered to a private temporary PNG first, which then
// gets encoded as sixel and streamed to stdout. The temporary file is
// removed on finalization.
type SixelPlotWriter struct {
	opts    SixelPlotWriterOptions
	session *Session
	tmpFile string
	out     io.Writer
	logger  logrus.FieldLogger
}

func NewSixelPlotWriter() *SixelPlotWriter {
	return &SixelPlotWriter{
		out:    os.Stdout,
		logger: logrus.WithField("tag", "SixelPlotWriter"),
	}
}

func (w *SixelPlotWriter) Name() string {
	return "to-sixel-plot"
}

func (w *SixelPlotWriter) Description() string {
	return "Displays the plot as graphic in a terminal that supports sixel."
}

func (w *SixelPlotWriter) OptionsRef() any {
	return &w.opts
}

func (w *SixelPlotWriter) Initialize(session *Session) error {
	w.session = session
	if w.opts.PlotType == "" {
		w.opts.PlotType = PlotLine
	}

	tmp, err := os.CreateTemp("", "kasperl-plot-*.png")
	if err != nil {
		return err
	}
	tmp.Close()
	w.tmpFile = tmp.Name()
	return nil
}

func (w *SixelPlotWriter) WriteBatch(batch []Plot) error {
	data, ok := firstOfBatch(batch, w.logger)
	if !ok {
		return nil
	}

	rc := newRenderContext(w.logger)
	if err := rc.render(data, w.opts.PlotType); err != nil {
		return err
	}

	if w.opts.Output != "" {
		if err := rc.save(w.session.ExpandPlaceholders(w.opts.Output)); err != nil {
			return err
		}
	}

	// render to the temp file and stream its sixel encoding to the terminal
	if err := rc.save(w.tmpFile); err != nil {
		return err
	}
	file, err := os.Open(w.tmpFile)
	if err != nil {
		return err
	}
	defer file.Close()

	img, err := png.Decode(file)
	if err != nil {
		return err
	}
	return sixel.NewEncoder(w.out).Encode(img)
}

func (w *SixelPlotWriter) Finalize() error {
	if w.tmpFile != "" {
		w.logger.Infof("cleaning up: %s", w.tmpFile)
		// deletion failures are deliberately ignored, a stale temp file is
		// not worth aborting the pipeline over
		_ = os.Remove(w.tmpFile)
		w.tmpFile = ""
	}
	return nil
}
