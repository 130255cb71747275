package plots

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
)

type CsvPlotWriterOptions struct {
	Output    string `short:"o" long:"output" required:"true" description:"The file to save the plot data in; placeholders are expanded"`
	Separator string `short:"s" long:"separator" default:"," description:"The separator to use for writing the CSV file"`
}

// CsvPlotWriter saves just the plot data as CSV file: two columns for an
// XYPlot, one column for a SequencePlot, with a header row generated from
// the plot's labels.
type CsvPlotWriter struct {
	opts    CsvPlotWriterOptions
	session *Session
	logger  logrus.FieldLogger
}

func NewCsvPlotWriter() *CsvPlotWriter {
	return &CsvPlotWriter{
		logger: logrus.WithField("tag", "CsvPlotWriter"),
	}
}

func (w *CsvPlotWriter) Name() string {
	return "to-csv-plot"
}

func (w *CsvPlotWriter) Description() string {
	return "Saves just the plot data as CSV file."
}

func (w *CsvPlotWriter) OptionsRef() any {
	return &w.opts
}

func (w *CsvPlotWriter) Initialize(session *Session) error {
	w.session = session
	if w.opts.Output == "" {
		return errors.New("no output file specified (-o/--output)")
	}
	if w.opts.Separator == "" {
		w.opts.Separator = ","
	}
	if len([]rune(w.opts.Separator)) != 1 {
		return fmt.Errorf("separator must be a single character, got %q", w.opts.Separator)
	}
	return nil
}

func (w *CsvPlotWriter) WriteBatch(batch []Plot) error {
	data, ok := firstOfBatch(batch, w.logger)
	if !ok {
		return nil
	}

	// assemble the rows before touching the file system, so an unhandled
	// plot class does not leave a truncated file behind
	var rows [][]string
	switch p := data.(type) {
	case *XYPlot:
		rows = append(rows, []string{orDefault(p.XLabel, "x"), orDefault(p.YLabel, "y")})
		for i := range p.XData {
			rows = append(rows, []string{p.XData[i], p.YData[i]})
		}
	case *SequencePlot:
		rows = append(rows, []string{orDefault(p.Label, "value")})
		for _, value := range p.Data {
			rows = append(rows, []string{value})
		}
	default:
		return fmt.Errorf("unhandled plot class: %T", data)
	}

	path := w.session.ExpandPlaceholders(w.opts.Output)
	w.logger.Infof("writing to: %s", path)

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	csvWriter := csv.NewWriter(file)
	csvWriter.Comma = []rune(w.opts.Separator)[0]
	for _, row := range rows {
		if err := csvWriter.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	csvWriter.Flush()
	return csvWriter.Error()
}

func (w *CsvPlotWriter) Finalize() error {
	return nil
}
