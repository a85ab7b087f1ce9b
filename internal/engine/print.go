package engine

import (
	"io"
	"log/slog"

	"github.com/bamsammich/archivesum/internal/archive"
	"github.com/bamsammich/archivesum/internal/digest"
	"github.com/bamsammich/archivesum/internal/event"
	"github.com/bamsammich/archivesum/internal/stats"
)

// PrintConfig controls a print run. A nil Out discards.
type PrintConfig struct {
	Digest  digest.Accumulator // defaults to digest.Default
	Out     io.Writer
	Stats   *stats.Collector
	OnEvent func(event.Event)
}

// Print writes "<hex>  <path>" to cfg.Out for every regular-file member,
// in archive order. Other members are skipped. Any read or write error
// aborts the run. The archive is closed on return.
func Print(a *archive.Archive, cfg PrintConfig) error {
	defer a.Close() //nolint:errcheck // read-only handle

	acc, err := accumulatorOrDefault(cfg.Digest)
	if err != nil {
		return err
	}
	out := orDiscard(cfg.Out)
	st := cfg.Stats
	if st == nil {
		st = stats.NewCollector()
	}

	for m, err := range a.Entries() {
		if err != nil {
			return err
		}
		st.AddMembersScanned(1)

		if !m.IsRegular() {
			skipMember(m, st, cfg.OnEvent)
			continue
		}

		sum, n, err := hashMember(acc, m)
		if err != nil {
			return err
		}
		st.AddMembersHashed(1)
		st.AddBytesHashed(n)
		emitEvent(cfg.OnEvent, event.Event{
			Type:   event.MemberHashed,
			Path:   m.Path(),
			Digest: sum,
			Size:   n,
		})

		if err := writeLine(out, "digest", "%s  %s\n", sum, m.Path()); err != nil {
			return err
		}
	}

	slog.Debug("print complete", "stats", st.Snapshot().String())
	return nil
}
