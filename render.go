package plots

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// The recognized plot type selectors.
const (
	PlotLine    = "line"
	PlotScatter = "scatter"
)

var PlotTypes = []string{PlotLine, PlotScatter}

const (
	figureWidth  = 8 * vg.Inch
	figureHeight = 6 * vg.Inch
)

// renderContext holds the gonum figure for a single write call. Every
// WriteBatch creates a fresh context and discards it afterwards; no figure
// state is shared between calls or instances.
type renderContext struct {
	figure *plot.Plot
	logger logrus.FieldLogger
}

func newRenderContext(logger logrus.FieldLogger) *renderContext {
	return &renderContext{
		figure: plot.New(),
		logger: logger,
	}
}

// render draws the plot's data into the figure as a line or scatter series
// and sets up title and axis labels, applying the usual fallbacks ("Plot",
// "x"/"y", "value").
func (rc *renderContext) render(data Plot, plotType string) error {
	points, err := numericPoints(data, rc.logger)
	if err != nil {
		return err
	}

	xys := make(plotter.XYs, len(points))
	for i, p := range points {
		xys[i] = plotter.XY{X: p.X, Y: p.Y}
	}

	switch plotType {
	case PlotLine:
		line, err := plotter.NewLine(xys)
		if err != nil {
			return err
		}
		rc.figure.Add(line)
	case PlotScatter:
		scatter, err := plotter.NewScatter(xys)
		if err != nil {
			return err
		}
		rc.figure.Add(scatter)
	default:
		return fmt.Errorf("unhandled plot type: %s", plotType)
	}

	xLabel, yLabel := axisLabels(data)
	rc.figure.X.Label.Text = xLabel
	rc.figure.Y.Label.Text = yLabel
	rc.figure.Title.Text = orDefault(data.PlotTitle(), "Plot")
	return nil
}

// save persists the figure to the given path, the format is derived from the
// file extension.
func (rc *renderContext) save(path string) error {
	rc.logger.Infof("saving plot to: %s", path)
	return rc.figure.Save(figureWidth, figureHeight, path)
}

// writePNG streams the figure as PNG.
func (rc *renderContext) writePNG(w io.Writer) error {
	writerTo, err := rc.figure.WriterTo(figureWidth, figureHeight, "png")
	if err != nil {
		return err
	}
	_, err = writerTo.WriteTo(w)
	return err
}
