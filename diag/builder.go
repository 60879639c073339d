package diag

import (
	"fmt"
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"

	"github.com/evolvablehardware/PUFFS/datarecording"
	"github.com/evolvablehardware/PUFFS/sim"
)

// Builder can build loggers.
type Builder struct {
	timeTeller sim.TimeTeller
	writer     io.Writer
	logPath    string
	markerPath string
	dumpFile   string
	timescale  sim.VTimeInSec
	recorder   datarecording.DataRecorder
}

// MakeBuilder creates a builder with the default settings: no log output,
// no marker file, a 1 ns timescale and "dump.vcd" as the waveform.
func MakeBuilder() Builder {
	return Builder{
		dumpFile:  "dump.vcd",
		timescale: 1e-9,
	}
}

// WithTimeTeller sets the source of timestamps.
func (b Builder) WithTimeTeller(tt sim.TimeTeller) Builder {
	b.timeTeller = tt
	return b
}

// WithWriter sends the text log to w.
func (b Builder) WithWriter(w io.Writer) Builder {
	b.writer = w
	return b
}

// WithLogPath sends the text log to a new file.
func (b Builder) WithLogPath(path string) Builder {
	b.logPath = path
	return b
}

// WithMarkerPath sets the GTKWave save file written at Done.
func (b Builder) WithMarkerPath(path string) Builder {
	b.markerPath = path
	return b
}

// WithDumpFile sets the waveform the marker file refers to.
func (b Builder) WithDumpFile(path string) Builder {
	b.dumpFile = path
	return b
}

// WithTimescale sets the duration of one simulator time step.
func (b Builder) WithTimescale(ts sim.VTimeInSec) Builder {
	if ts <= 0 {
		panic(fmt.Sprintf("timescale must be positive, got %v", ts))
	}

	b.timescale = ts

	return b
}

// WithRecorder also stores every record in the diagnostics table of rec.
func (b Builder) WithRecorder(rec datarecording.DataRecorder) Builder {
	b.recorder = rec
	return b
}

// Build creates the logger. It fails if the log file cannot be created.
func (b Builder) Build(name string) (*Logger, error) {
	l := &Logger{
		name:       name,
		timeTeller: b.timeTeller,
		markerPath: b.markerPath,
		dumpFile:   b.dumpFile,
		timescale:  b.timescale,
		recorder:   b.recorder,
	}

	out := b.writer

	if b.logPath != "" {
		f, err := os.Create(b.logPath)
		if err != nil {
			return nil, errors.Wrapf(err, "create log %s", b.logPath)
		}

		l.closer = f

		if out == nil {
			out = f
		} else {
			out = io.MultiWriter(out, f)
		}
	}

	if out == nil {
		out = io.Discard
	}

	l.log = zerolog.New(consoleWriter(out)).Level(zerolog.InfoLevel)

	if l.recorder != nil {
		l.recorder.CreateTable(DiagnosticsTable, DiagnosticRow{})
	}

	return l, nil
}

func consoleWriter(out io.Writer) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{
		Out:     out,
		NoColor: true,
		PartsOrder: []string{
			zerolog.TimestampFieldName,
			zerolog.LevelFieldName,
			zerolog.MessageFieldName,
		},
		FormatTimestamp: func(i any) string {
			return fmt.Sprint(i)
		},
	}
}
