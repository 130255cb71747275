package plots

import (
	"github.com/sirupsen/logrus"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// The pipeline is linear: a Reader produces one Plot per input file, the
// chosen BatchWriter consumes each batch as a whole. Handlers are registered
// under their sub-command name and wired up by the CLI; options are parsed
// into the struct returned by OptionsRef before Initialize is called.

type Handler interface {
	// The sub-command name of the handler.
	Name() string

	// A short description for the usage output.
	Description() string

	// Pointer to the go-flags option struct of the handler.
	OptionsRef() any
}

type Reader interface {
	Handler

	// Validates the options. Called once, before any I/O.
	Initialize(session *Session) error

	// Returns the plots of the next input file.
	Read() ([]Plot, error)

	// True once all inputs have been consumed.
	HasFinished() bool
}

type BatchWriter interface {
	Handler

	// Validates the options. Called once, before any I/O.
	Initialize(session *Session) error

	// Writes the batch in one go.
	WriteBatch(batch []Plot) error

	// Cleans up any transient state, e.g., temporary files.
	Finalize() error
}

// AvailableReaders returns the reader sub-commands this package provides.
func AvailableReaders() map[string]func() Reader {
	return map[string]func() Reader{
		"from-csv-plot": func() Reader { return NewCsvPlotReader() },
	}
}

// AvailableWriters returns the writer sub-commands this package provides.
func AvailableWriters() map[string]func() BatchWriter {
	return map[string]func() BatchWriter{
		"to-csv-plot":       func() BatchWriter { return NewCsvPlotWriter() },
		"to-graphical-plot": func() BatchWriter { return NewGraphicalPlotWriter() },
		"to-sixel-plot":     func() BatchWriter { return NewSixelPlotWriter() },
		"to-terminal-plot":  func() BatchWriter { return NewTerminalPlotWriter() },
		"to-web-plot":       func() BatchWriter { return NewWebPlotWriter() },
	}
}

// ReaderCommands returns the registered reader names, sorted.
func ReaderCommands() []string {
	names := maps.Keys(AvailableReaders())
	slices.Sort(names)
	return names
}

// WriterCommands returns the registered writer names, sorted.
func WriterCommands() []string {
	names := maps.Keys(AvailableWriters())
	slices.Sort(names)
	return names
}

// Applies the shared batch semantics of all writers: an empty batch degrades
// to a warning and a no-op, anything beyond the first item is discarded with
// a warning naming the count.
func firstOfBatch(batch []Plot, logger logrus.FieldLogger) (Plot, bool) {
	if len(batch) == 0 {
		logger.Warn("no data in batch, nothing to do")
		return nil, false
	}
	if len(batch) > 1 {
		logger.Warnf("can only process the first of %d data items, discarding %d", len(batch), len(batch)-1)
	}
	return batch[0], true
}
