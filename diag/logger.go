// Package diag collects the diagnostics of a test run.
//
// A Logger writes a timestamped text log, counts errors, keeps every record
// for later inspection, and at the end of the run turns the errors into
// named markers of a GTKWave save file so that they can be found in the
// waveform. Checks never stop the run. The verdict is reported once, by
// Done.
package diag

import (
	"fmt"
	"io"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"

	"github.com/evolvablehardware/PUFFS/datarecording"
	"github.com/evolvablehardware/PUFFS/sim"
)

// ErrTestFailed marks the error returned by Done when any check failed.
var ErrTestFailed = errors.New("test failed")

// ErrOutput marks the error returned by Done when an artifact of the run
// could not be written. It is not a verdict: a run without errors that hits
// ErrOutput still passed, but its files are incomplete.
var ErrOutput = errors.New("cannot write run output")

// Severity classifies records.
type Severity int

// Severities.
const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	}

	return "Severity(" + strconv.Itoa(int(s)) + ")"
}

func (s Severity) level() zerolog.Level {
	switch s {
	case SeverityWarning:
		return zerolog.WarnLevel
	case SeverityError:
		return zerolog.ErrorLevel
	}

	return zerolog.InfoLevel
}

// A Record is one logged message.
type Record struct {
	Severity Severity
	Time     sim.VTimeInSec
	Msg      string
}

// Logger is the diagnostic accumulator of a test run.
type Logger struct {
	name       string
	timeTeller sim.TimeTeller
	log        zerolog.Logger
	closer     io.Closer
	markerPath string
	dumpFile   string
	timescale  sim.VTimeInSec
	recorder   datarecording.DataRecorder

	records []Record
	errs    int
	done    bool
	verdict error
}

// Name returns the name of the run.
func (l *Logger) Name() string {
	return l.name
}

// Info logs an informational message.
func (l *Logger) Info(msg string) {
	l.add(SeverityInfo, msg)
}

// Infof logs a formatted informational message.
func (l *Logger) Infof(format string, args ...any) {
	l.add(SeverityInfo, fmt.Sprintf(format, args...))
}

// Warn logs a warning. Warnings do not fail the run.
func (l *Logger) Warn(msg string) {
	l.add(SeverityWarning, msg)
}

// Warnf logs a formatted warning.
func (l *Logger) Warnf(format string, args ...any) {
	l.add(SeverityWarning, fmt.Sprintf(format, args...))
}

// Error logs an error. The run continues but fails at Done.
func (l *Logger) Error(msg string) {
	l.add(SeverityError, msg)
}

// Errorf logs a formatted error.
func (l *Logger) Errorf(format string, args ...any) {
	l.add(SeverityError, fmt.Sprintf(format, args...))
}

// Check logs msg as an error unless cond holds.
func (l *Logger) Check(cond bool, msg string) {
	if !cond {
		l.Error(msg)
	}
}

// Checkf is Check with a message that is only formatted on failure.
func (l *Logger) Checkf(cond bool, format string, args ...any) {
	if !cond {
		l.Errorf(format, args...)
	}
}

// Errors returns the number of errors so far.
func (l *Logger) Errors() int {
	return l.errs
}

// Records returns every record so far.
func (l *Logger) Records() []Record {
	cp := make([]Record, len(l.records))
	copy(cp, l.records)

	return cp
}

func (l *Logger) now() sim.VTimeInSec {
	if l.timeTeller == nil {
		return 0
	}

	return l.timeTeller.CurrentTime()
}

func (l *Logger) add(sev Severity, msg string) {
	if l.done {
		panic("logger " + l.name + " is already done")
	}

	r := Record{Severity: sev, Time: l.now(), Msg: msg}
	l.records = append(l.records, r)

	if sev == SeverityError {
		l.errs++
	}

	l.log.WithLevel(sev.level()).
		Str(zerolog.TimestampFieldName, strconv.FormatFloat(r.Time.Nanoseconds(), 'f', 3, 64)).
		Msg(msg)

	if l.recorder != nil {
		l.recorder.InsertData(DiagnosticsTable, DiagnosticRow{
			Seq:      len(l.records) - 1,
			Run:      l.name,
			Severity: sev.String(),
			Time:     float64(r.Time),
			Msg:      msg,
		})
	}
}

// Done finishes the run. It writes the marker file, flushes the recorder
// and closes the log. It returns an error marked with ErrTestFailed iff an
// error was logged. Failures to write the artifacts are returned marked with
// ErrOutput, combined with the verdict. Later calls return the same result.
func (l *Logger) Done() error {
	if l.done {
		return l.verdict
	}

	l.done = true

	var err error

	if l.markerPath != "" {
		err = errors.CombineErrors(err, l.writeMarkers())
	}

	if l.recorder != nil {
		err = errors.CombineErrors(err, l.recorder.Flush())
	}

	if l.closer != nil {
		err = errors.CombineErrors(err, errors.Wrap(l.closer.Close(), "close log"))
	}

	var verdict error

	if l.errs > 0 {
		verdict = errors.Mark(
			errors.Newf("test failed with %d errors", l.errs), ErrTestFailed)
	}

	if err != nil {
		verdict = errors.Mark(errors.CombineErrors(verdict, err), ErrOutput)
	}

	l.verdict = verdict

	return verdict
}
