package ui

import "io"

// Destination is where one output channel goes.
type Destination int

const (
	Discard Destination = iota
	Stdout
	Stderr
)

func (d Destination) String() string {
	switch d {
	case Stdout:
		return "stdout"
	case Stderr:
		return "stderr"
	default:
		return "discard"
	}
}

// Occurrence is the position of a flag's last appearance in the argument
// list. The zero value means the flag was not given.
type Occurrence struct {
	Index   int
	Present bool
}

// At returns an Occurrence at index i.
func At(i int) Occurrence {
	return Occurrence{Index: i, Present: true}
}

// Routing holds the verify-mode destinations for OK lines (Primary) and
// MISSING/FAILED lines plus the summary (Diagnostic).
type Routing struct {
	Primary    Destination
	Diagnostic Destination
}

// Route resolves the destinations from the last --quiet and --status
// occurrences. Either flag silences OK lines. --status also silences
// diagnostics unless a --quiet appears after the last --status.
func Route(quiet, status Occurrence) Routing {
	r := Routing{Primary: Stdout, Diagnostic: Stderr}
	if quiet.Present || status.Present {
		r.Primary = Discard
	}
	if status.Present && !(quiet.Present && quiet.Index > status.Index) {
		r.Diagnostic = Discard
	}
	return r
}

// Writers maps the routing onto concrete writers.
func (r Routing) Writers(stdout, stderr io.Writer) (io.Writer, io.Writer) {
	return pick(r.Primary, stdout, stderr), pick(r.Diagnostic, stdout, stderr)
}

func pick(d Destination, stdout, stderr io.Writer) io.Writer {
	switch d {
	case Stdout:
		return stdout
	case Stderr:
		return stderr
	default:
		return io.Discard
	}
}
