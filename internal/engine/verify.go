package engine

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"syscall"

	"github.com/bamsammich/archivesum/internal/archive"
	"github.com/bamsammich/archivesum/internal/digest"
	"github.com/bamsammich/archivesum/internal/event"
	"github.com/bamsammich/archivesum/internal/platform"
	"github.com/bamsammich/archivesum/internal/stats"
)

// VerifyConfig controls a verify run. Nil writers discard.
type VerifyConfig struct {
	Digest digest.Accumulator // defaults to digest.Default
	// Source is the directory member paths are resolved against. Empty
	// means the working directory.
	Source  string
	Append  io.Writer // receives every archive digest line
	Out     io.Writer // OK lines
	Err     io.Writer // MISSING/FAILED lines and the summary
	Stats   *stats.Collector
	OnEvent func(event.Event)
}

// VerifyResult is the run's tally.
type VerifyResult struct {
	OK      int64
	Failed  int64
	Missing int64
}

// Success reports whether every member verified OK.
func (r VerifyResult) Success() bool {
	return r.Failed == 0 && r.Missing == 0
}

// Total is the number of regular-file members classified.
func (r VerifyResult) Total() int64 {
	return r.OK + r.Failed + r.Missing
}

// Verify hashes every regular-file member and compares it against the file
// at the same relative path under cfg.Source. MISSING and FAILED members
// are counted and reported, never returned as errors; the scan always runs
// to the end of the archive. A returned error means the run aborted. The
// archive is closed on return.
func Verify(a *archive.Archive, cfg VerifyConfig) (VerifyResult, error) {
	defer a.Close() //nolint:errcheck // read-only handle

	var result VerifyResult

	acc, err := accumulatorOrDefault(cfg.Digest)
	if err != nil {
		return result, err
	}
	v := &verifier{
		acc:     acc,
		source:  cfg.Source,
		appendW: orDiscard(cfg.Append),
		out:     orDiscard(cfg.Out),
		errW:    orDiscard(cfg.Err),
		stats:   cfg.Stats,
		onEvent: cfg.OnEvent,
	}
	if v.stats == nil {
		v.stats = stats.NewCollector()
	}

	for m, err := range a.Entries() {
		if err != nil {
			return result, err
		}
		v.stats.AddMembersScanned(1)

		if !m.IsRegular() {
			skipMember(m, v.stats, v.onEvent)
			continue
		}

		outcome, err := v.verifyMember(m)
		if err != nil {
			return result, err
		}
		switch outcome {
		case OK:
			result.OK++
		case Failed:
			result.Failed++
		case Missing:
			result.Missing++
		}
	}

	if result.Missing > 0 {
		if err := writeLine(v.errW, "diagnostic", "archive-sum: WARNING: %d MISSING file(s)\n", result.Missing); err != nil {
			return result, err
		}
	}
	if result.Failed > 0 {
		if err := writeLine(v.errW, "diagnostic", "archive-sum: FATAL: %d FAILED checksum(s)\n", result.Failed); err != nil {
			return result, err
		}
	}

	slog.Debug("verify complete", "stats", v.stats.Snapshot().String(), "success", result.Success())
	return result, nil
}

type verifier struct {
	acc     digest.Accumulator
	source  string
	appendW io.Writer
	out     io.Writer
	errW    io.Writer
	stats   *stats.Collector
	onEvent func(event.Event)
	buf     []byte
}

func (v *verifier) verifyMember(m *archive.Member) (Outcome, error) {
	hashArchive, n, err := hashMember(v.acc, m)
	if err != nil {
		return 0, err
	}
	v.stats.AddMembersHashed(1)
	v.stats.AddBytesHashed(n)

	// The append log mirrors the archive's content regardless of outcome.
	if err := writeLine(v.appendW, "append", "%s  %s\n", hashArchive, m.Path()); err != nil {
		return 0, err
	}

	path := m.Path()
	sourcePath := resolveSource(v.source, path)
	ev := event.Event{Path: path, Source: sourcePath, Digest: hashArchive, Size: n}

	exists, err := sourceExists(sourcePath)
	if err != nil {
		return 0, err
	}
	if !exists {
		v.stats.AddFilesMissing(1)
		ev.Type = event.VerifyMissing
		emitEvent(v.onEvent, ev)
		return Missing, writeLine(v.errW, "diagnostic", "%s: %s\n", path, Missing)
	}

	hashSource, err := v.hashSource(sourcePath)
	if err != nil {
		return 0, err
	}

	if hashArchive == hashSource {
		v.stats.AddFilesOK(1)
		ev.Type = event.VerifyOK
		emitEvent(v.onEvent, ev)
		return OK, writeLine(v.out, "primary", "%s: %s\n", path, OK)
	}

	v.stats.AddFilesFailed(1)
	ev.Type = event.VerifyFailed
	emitEvent(v.onEvent, ev)
	return Failed, writeLine(v.errW, "diagnostic", "%s: %s\n", path, Failed)
}

func (v *verifier) hashSource(path string) (string, error) {
	size := platform.PreferredBlockSize(path)
	if cap(v.buf) < size {
		v.buf = make([]byte, size)
	}
	return hashFile(v.acc, path, v.buf[:size])
}

// resolveSource maps a member path onto the filesystem.
func resolveSource(root, memberPath string) string {
	p := filepath.FromSlash(memberPath)
	if root == "" {
		return p
	}
	return filepath.Join(root, p)
}

// sourceExists treats a path whose parent is not a directory the same as a
// path that does not exist. Other stat failures abort the run.
func sourceExists(path string) (bool, error) {
	_, err := os.Stat(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist), errors.Is(err, syscall.ENOTDIR):
		return false, nil
	default:
		return false, fmt.Errorf("stat %s: %w", path, err)
	}
}

func orDiscard(w io.Writer) io.Writer {
	if w == nil {
		return io.Discard
	}
	return w
}
