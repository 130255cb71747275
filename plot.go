package plots

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// Plot is the result of a read operation and the input to a write operation:
// the data and metadata of a single chart. The union is closed; XYPlot and
// SequencePlot are the only variants. Writers dispatch with a type switch
// whose default branch reports the plot class as unhandled.
//
// Values are kept in the raw textual form they were read in. The data model
// performs no coercion: the CSV writer passes them through as-is, the
// rendering writers coerce to float64 at draw time.
type Plot interface {
	PlotTitle() string
	PlotMeta() map[string]any

	isPlot()
}

// XYPlot is a plot with two equal-length series (independent/dependent).
type XYPlot struct {
	Title  string
	Meta   map[string]any
	XData  []string
	XLabel string
	YData  []string
	YLabel string
}

func (p *XYPlot) PlotTitle() string { return p.Title }

func (p *XYPlot) PlotMeta() map[string]any { return p.Meta }

func (p *XYPlot) isPlot() {}

// SequencePlot is a plot with a single series and an implicit index-based
// x-axis.
type SequencePlot struct {
	Title string
	Meta  map[string]any
	Data  []string
	Label string
}

func (p *SequencePlot) PlotTitle() string { return p.Title }

func (p *SequencePlot) PlotMeta() map[string]any { return p.Meta }

func (p *SequencePlot) isPlot() {}

var errSkipValue = errors.New("skip this value")

// Parses a raw plot value into a float64 for rendering. Unparsable values
// map to errSkipValue so callers can drop the point instead of aborting.
func parseValue(value string) (float64, error) {
	floatValue, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, errSkipValue
	}
	return floatValue, nil
}

type point struct {
	X float64
	Y float64
}

// Coerces the plot's raw values into numeric points for the rendering
// backends. A SequencePlot gets its element index as X. Points that fail to
// parse are logged and skipped.
func numericPoints(data Plot, logger logrus.FieldLogger) ([]point, error) {
	switch p := data.(type) {
	case *XYPlot:
		points := make([]point, 0, len(p.XData))
		for i := range p.XData {
			x, errX := parseValue(p.XData[i])
			y, errY := parseValue(p.YData[i])
			if errX != nil || errY != nil {
				logger.Warnf("cannot parse point #%d (%q, %q), ignoring...", i, p.XData[i], p.YData[i])
				continue
			}
			points = append(points, point{X: x, Y: y})
		}
		return points, nil
	case *SequencePlot:
		points := make([]point, 0, len(p.Data))
		for i, value := range p.Data {
			y, err := parseValue(value)
			if err != nil {
				logger.Warnf("cannot parse value #%d (%q), ignoring...", i, value)
				continue
			}
			points = append(points, point{X: float64(len(points)), Y: y})
		}
		return points, nil
	default:
		return nil, fmt.Errorf("unhandled plot class: %T", data)
	}
}

// Default axis labels for rendering: "x"/"y" for an XYPlot, "value" on the
// y-axis for a SequencePlot.
func axisLabels(data Plot) (xLabel string, yLabel string) {
	switch p := data.(type) {
	case *XYPlot:
		return orDefault(p.XLabel, "x"), orDefault(p.YLabel, "y")
	case *SequencePlot:
		return "", orDefault(p.Label, "value")
	}
	return "", ""
}
