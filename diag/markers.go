package diag

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
)

// MaxMarkers is the number of named markers a GTKWave save file holds.
const MaxMarkers = 26

// A Marker is a named position in the waveform.
type Marker struct {
	Name byte
	Step int64
	Msg  string
}

// Markers returns one marker per error, in simulator time steps. Errors past
// MaxMarkers are only in the log.
func (l *Logger) Markers() []Marker {
	var markers []Marker

	for _, r := range l.records {
		if r.Severity != SeverityError {
			continue
		}

		if len(markers) == MaxMarkers {
			break
		}

		markers = append(markers, Marker{
			Name: byte('A' + len(markers)),
			Step: int64(math.Round(float64(r.Time / l.timescale))),
			Msg:  r.Msg,
		})
	}

	return markers
}

func (l *Logger) writeMarkers() error {
	f, err := os.Create(l.markerPath)
	if err != nil {
		return errors.Wrapf(err, "create marker file %s", l.markerPath)
	}

	w := bufio.NewWriter(f)
	writeGTKW(w, l.dumpFile, filepath.Base(l.markerPath), l.Markers())

	if err := w.Flush(); err != nil {
		f.Close()
		return errors.Wrapf(err, "write marker file %s", l.markerPath)
	}

	return errors.Wrapf(f.Close(), "close marker file %s", l.markerPath)
}

func writeGTKW(w *bufio.Writer, dumpFile, saveFile string, markers []Marker) {
	fmt.Fprintf(w, "[dumpfile] %q\n", dumpFile)
	fmt.Fprintf(w, "[savefile] %q\n", saveFile)

	var line strings.Builder
	line.WriteString("*1.0 0")

	for _, m := range markers {
		fmt.Fprintf(&line, " %d", m.Step)
	}

	fmt.Fprintln(w, line.String())

	for _, m := range markers {
		fmt.Fprintf(w, "[markername] %c %s\n", m.Name, m.Msg)
	}
}
