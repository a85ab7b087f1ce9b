// Package engine drives an archive scan: it hashes every regular-file
// member and, in verify mode, compares each digest against the member's
// on-disk copy.
package engine

import (
	"fmt"
	"io"
	"time"

	"github.com/bamsammich/archivesum/internal/archive"
	"github.com/bamsammich/archivesum/internal/digest"
	"github.com/bamsammich/archivesum/internal/event"
	"github.com/bamsammich/archivesum/internal/stats"
)

// Outcome classifies one regular-file member in verify mode.
type Outcome int

const (
	OK Outcome = iota + 1
	Failed
	Missing
)

func (o Outcome) String() string {
	switch o {
	case OK:
		return "OK"
	case Failed:
		return "FAILED"
	case Missing:
		return "MISSING"
	default:
		return "UNKNOWN"
	}
}

// skipMember records a non-regular member.
func skipMember(m *archive.Member, st *stats.Collector, onEvent func(event.Event)) {
	st.AddMembersSkipped(1)
	emitEvent(onEvent, event.Event{
		Type: event.MemberSkipped,
		Path: m.Path(),
		Kind: m.FileType().String(),
	})
}

func writeLine(w io.Writer, channel, format string, args ...any) error {
	if _, err := fmt.Fprintf(w, format, args...); err != nil {
		return fmt.Errorf("write %s: %w", channel, err)
	}
	return nil
}

func emitEvent(fn func(event.Event), e event.Event) {
	if fn == nil {
		return
	}
	e.Timestamp = time.Now()
	fn(e)
}

func accumulatorOrDefault(acc digest.Accumulator) (digest.Accumulator, error) {
	if acc != nil {
		return acc, nil
	}
	return digest.New(digest.Default)
}
