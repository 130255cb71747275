package plots

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

type CsvPlotReaderOptions struct {
	Inputs     []string `short:"i" long:"input" description:"Path to the CSV file(s) to read; glob syntax is supported"`
	InputLists []string `short:"I" long:"input_list" description:"Path to the text file(s) listing the CSV files to use"`
	ResumeFrom string   `long:"resume_from" description:"Glob expression matching the file to resume from, e.g., '*/012345.csv'"`
	Title      string   `short:"t" long:"title" description:"The title for the plot, default is the file name"`
	XData      int      `short:"x" long:"x_data" description:"The 1-based index of the column in the CSV file to use for the x values"`
	XLabel     string   `short:"X" long:"x_label" description:"The label to use for the x-axis, default is the column name"`
	YData      int      `short:"y" long:"y_data" description:"The 1-based index of the column in the CSV file to use for the y values"`
	YLabel     string   `short:"Y" long:"y_label" description:"The label to use for the y-axis, default is the column name"`
	Separator  string   `short:"s" long:"separator" default:"," description:"The separator to use for reading the CSV file"`
}

// CsvPlotReader reads CSV files and turns the data into data for a plot: an
// XYPlot when x and y columns are specified, a SequencePlot when only the y
// column is given.
type CsvPlotReader struct {
	opts    CsvPlotReaderOptions
	session *Session

	inputs   []string
	resolved bool
	xCol     int // 0-based, <0 when not configured
	yCol     int // 0-based

	logger logrus.FieldLogger
}

func NewCsvPlotReader() *CsvPlotReader {
	return &CsvPlotReader{
		logger: logrus.WithField("tag", "CsvPlotReader"),
	}
}

func (r *CsvPlotReader) Name() string {
	return "from-csv-plot"
}

func (r *CsvPlotReader) Description() string {
	return "Reads CSV files and turns the data into data for a plot: an XYPlot when x and y columns are specified, a SequencePlot when only specifying the y column."
}

func (r *CsvPlotReader) OptionsRef() any {
	return &r.opts
}

func (r *CsvPlotReader) Initialize(session *Session) error {
	r.session = session
	r.resolved = false
	r.inputs = nil

	if r.opts.YData <= 0 {
		return errors.New("at least the column for the y values must be specified (-y/--y_data)")
	}
	r.yCol = r.opts.YData - 1

	r.xCol = -1
	if r.opts.XData != 0 {
		if r.opts.XData < 0 {
			return fmt.Errorf("x column index must be 1-based, got %d", r.opts.XData)
		}
		r.xCol = r.opts.XData - 1
	}

	if r.opts.Separator == "" {
		r.opts.Separator = ","
	}
	if len([]rune(r.opts.Separator)) != 1 {
		return fmt.Errorf("separator must be a single character, got %q", r.opts.Separator)
	}

	return nil
}

// Read consumes the next input file and returns the Plot generated from it.
// The configured sources are resolved on the first call.
func (r *CsvPlotReader) Read() ([]Plot, error) {
	if !r.resolved {
		inputs, err := LocateFiles(r.opts.Inputs, r.opts.InputLists, r.opts.ResumeFrom, "*.csv")
		if err != nil {
			return nil, err
		}
		r.inputs = inputs
		r.resolved = true
	}
	if len(r.inputs) == 0 {
		return nil, io.EOF
	}

	current := r.inputs[0]
	r.inputs = r.inputs[1:]
	r.session.CurrentInput = current
	r.logger.Infof("reading from: %s", current)

	plot, err := r.readFile(current)
	if err != nil {
		return nil, err
	}
	return []Plot{plot}, nil
}

func (r *CsvPlotReader) HasFinished() bool {
	return r.resolved && len(r.inputs) == 0
}

func (r *CsvPlotReader) readFile(path string) (Plot, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	csvReader := csv.NewReader(file)
	csvReader.Comma = []rune(r.opts.Separator)[0]
	csvReader.FieldsPerRecord = -1 // column bounds are checked per cell below

	var xData []string
	var yData []string
	var xLabel, yLabel string

	rowNum := 0
	for {
		row, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		rowNum++

		var x, y string
		if r.xCol >= 0 {
			if x, err = cellAt(row, r.xCol); err != nil {
				return nil, fmt.Errorf("%s: row %d: %w", path, rowNum, err)
			}
		}
		if y, err = cellAt(row, r.yCol); err != nil {
			return nil, fmt.Errorf("%s: row %d: %w", path, rowNum, err)
		}

		// header row supplies the default labels
		if rowNum == 1 {
			xLabel = x
			yLabel = y
			continue
		}

		if r.xCol >= 0 {
			xData = append(xData, x)
		}
		yData = append(yData, y)
	}

	title := r.opts.Title
	if title == "" {
		title = filepath.Base(path)
	}
	if r.opts.XLabel != "" {
		xLabel = r.opts.XLabel
	}
	if r.opts.YLabel != "" {
		yLabel = r.opts.YLabel
	}
	meta := map[string]any{"source": path}

	if r.xCol >= 0 {
		return &XYPlot{
			Title:  title,
			Meta:   meta,
			XData:  xData,
			XLabel: xLabel,
			YData:  yData,
			YLabel: yLabel,
		}, nil
	}
	return &SequencePlot{
		Title: title,
		Meta:  meta,
		Data:  yData,
		Label: yLabel,
	}, nil
}

func cellAt(row []string, col int) (string, error) {
	if col >= len(row) {
		return "", fmt.Errorf("no column %d, row only has %d column(s)", col+1, len(row))
	}
	return row[col], nil
}
