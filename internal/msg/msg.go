package msg

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/fatih/color"
)

// Stdout receives progress output, Stderr receives diagnostics.
var (
	Stdout io.Writer = color.Output
	Stderr io.Writer = color.Error
)

// stderrWriter follows reassignments of Stderr
type stderrWriter struct{}

func (stderrWriter) Write(p []byte) (int, error) { return Stderr.Write(p) }

var logger = log.NewWithOptions(stderrWriter{}, log.Options{
	Level:  log.InfoLevel,
	Prefix: "qbuild",
})

// SetVerbose enables debug logging to stderr
func SetVerbose(verbose bool) {
	if verbose {
		logger.SetLevel(log.DebugLevel)
	} else {
		logger.SetLevel(log.InfoLevel)
	}
}

// Debug logs a structured debug line, shown only with --verbose
func Debug(message string, keyvals ...any) {
	logger.Debug(message, keyvals...)
}

func Error(format string, a ...any) {
	fmt.Fprint(Stderr, color.HiRedString("error"))
	fmt.Fprint(Stderr, ": ")
	fmt.Fprintf(Stderr, format, a...)
	fmt.Fprint(Stderr, "\n")
}

func Warn(format string, a ...any) {
	fmt.Fprint(Stderr, color.YellowString("warn"))
	fmt.Fprint(Stderr, ": ")
	fmt.Fprintf(Stderr, format, a...)
	fmt.Fprint(Stderr, "\n")
}

func Fatal(format string, a ...any) {
	fmt.Fprint(Stderr, color.RedString("fatal"))
	fmt.Fprint(Stderr, ": ")
	fmt.Fprintf(Stderr, format, a...)
	fmt.Fprint(Stderr, "\n")
	os.Exit(1)
}

func Info(format string, a ...any) {
	fmt.Fprint(Stdout, color.HiGreenString("info"))
	fmt.Fprint(Stdout, ": ")
	fmt.Fprintf(Stdout, format, a...)
	fmt.Fprint(Stdout, "\n")
}

// Status prints a right-aligned verb followed by a message, e.g. `   Compiling main.cpp`
func Status(verb, format string, a ...any) {
	fmt.Fprintf(Stdout, "%s %s\n", color.HiGreenString("%12s", verb), fmt.Sprintf(format, a...))
}

type IndentWriter struct {
	Indent    string
	W         io.Writer
	didIndent bool
}

func (w *IndentWriter) Write(p []byte) (n int, err error) {
	for _, c := range p {
		if !w.didIndent {
			w.W.Write([]byte(w.Indent))
			w.didIndent = true
		}
		w.W.Write([]byte{c}) // FIXME-perf: buffer this
		if c == '\n' || c == '\r' {
			w.didIndent = false
		}
	}
	return len(p), nil
}
