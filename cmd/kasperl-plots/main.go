package main

import (
	"fmt"
	"os"
	"strings"

	flags "github.com/jessevdk/go-flags"
	"github.com/sirupsen/logrus"

	plots "github.com/waikato-datamining/kasperl-plots"
)

type globalOptions struct {
	Verbose bool `short:"v" long:"verbose" description:"Enable debug logging"`
	Help    bool `short:"h" long:"help" description:"Show this help message"`
}

type segment struct {
	name string
	args []string
}

// splitArgs splits the raw arguments into the global part (everything before
// the first sub-command) and one segment per sub-command.
func splitArgs(args []string, commands map[string]bool) ([]string, []segment) {
	var global []string
	var segments []segment

	for _, arg := range args {
		if commands[arg] {
			segments = append(segments, segment{name: arg})
			continue
		}
		if len(segments) == 0 {
			global = append(global, arg)
			continue
		}
		last := &segments[len(segments)-1]
		last.args = append(last.args, arg)
	}
	return global, segments
}

func usage() string {
	b := strings.Builder{}
	b.WriteString("usage: kasperl-plots [-v] <reader> [options] <writer> [options]\n")
	b.WriteString("\nreaders:\n")
	readers := plots.AvailableReaders()
	for _, name := range plots.ReaderCommands() {
		fmt.Fprintf(&b, "  %-18s %s\n", name, readers[name]().Description())
	}
	b.WriteString("\nwriters:\n")
	writers := plots.AvailableWriters()
	for _, name := range plots.WriterCommands() {
		fmt.Fprintf(&b, "  %-18s %s\n", name, writers[name]().Description())
	}
	b.WriteString("\nuse '<sub-command> --help' for the options of a sub-command\n")
	return b.String()
}

func parseSegment(handler plots.Handler, args []string) error {
	parser := flags.NewParser(handler.OptionsRef(), flags.HelpFlag|flags.PassDoubleDash)
	parser.Usage = handler.Name() + " [options]"
	extra, err := parser.ParseArgs(args)
	if err != nil {
		return err
	}
	if len(extra) > 0 {
		return fmt.Errorf("%s: unexpected arguments: %v", handler.Name(), extra)
	}
	return nil
}

func run(args []string) error {
	readers := plots.AvailableReaders()
	writers := plots.AvailableWriters()

	commands := map[string]bool{}
	for name := range readers {
		commands[name] = true
	}
	for name := range writers {
		commands[name] = true
	}

	globalArgs, segments := splitArgs(args, commands)

	var global globalOptions
	if _, err := flags.NewParser(&global, flags.PassDoubleDash).ParseArgs(globalArgs); err != nil {
		return err
	}
	if global.Help || len(segments) == 0 {
		fmt.Print(usage())
		return nil
	}
	if global.Verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	if len(segments) != 2 {
		return fmt.Errorf("expected exactly one reader and one writer sub-command, got %d", len(segments))
	}

	readerFactory, ok := readers[segments[0].name]
	if !ok {
		return fmt.Errorf("first sub-command must be a reader, got %q", segments[0].name)
	}
	writerFactory, ok := writers[segments[1].name]
	if !ok {
		return fmt.Errorf("second sub-command must be a writer, got %q", segments[1].name)
	}

	reader := readerFactory()
	writer := writerFactory()

	if err := parseSegment(reader, segments[0].args); err != nil {
		return err
	}
	if err := parseSegment(writer, segments[1].args); err != nil {
		return err
	}

	session := plots.NewSession()
	if err := reader.Initialize(session); err != nil {
		return fmt.Errorf("%s: %w", reader.Name(), err)
	}
	if err := writer.Initialize(session); err != nil {
		return fmt.Errorf("%s: %w", writer.Name(), err)
	}
	defer func() {
		if err := writer.Finalize(); err != nil {
			logrus.WithError(err).Warn("failed to finalize writer")
		}
	}()

	for !reader.HasFinished() {
		batch, err := reader.Read()
		if err != nil {
			return err
		}
		if err := writer.WriteBatch(batch); err != nil {
			return err
		}
	}
	return nil
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		if flags.WroteHelp(err) {
			fmt.Println(err)
			return
		}
		logrus.Fatal(err)
	}
}
