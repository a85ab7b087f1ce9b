package main

import (
	"strconv"

	"github.com/spf13/pflag"

	"github.com/bamsammich/archivesum/internal/ui"
)

// occurrenceFlag is a boolean pflag.Value that remembers where on the
// command line it was last set. Flags sharing seq can be ordered against
// each other.
type occurrenceFlag struct {
	seq *int
	occ ui.Occurrence
}

func (f *occurrenceFlag) String() string { return strconv.FormatBool(f.occ.Present) }
func (*occurrenceFlag) Type() string     { return "bool" }

func (f *occurrenceFlag) Set(val string) error {
	b, err := strconv.ParseBool(val)
	if err != nil {
		return err
	}
	*f.seq++
	if b {
		f.occ = ui.At(*f.seq)
	} else {
		f.occ = ui.Occurrence{}
	}
	return nil
}

// addOccurrenceFlag registers f as a flag that takes no value.
func addOccurrenceFlag(fs *pflag.FlagSet, f *occurrenceFlag, name, usage string) {
	fs.VarPF(f, name, "", usage).NoOptDefVal = "true"
}
