package stats

import (
	"fmt"
	"sync/atomic"
	"time"
)

// Collector tracks the run's tally. The scan is single-threaded, but the
// counters are atomic so a progress display may read them concurrently.
type Collector struct {
	membersScanned atomic.Int64
	membersHashed  atomic.Int64
	membersSkipped atomic.Int64
	bytesHashed    atomic.Int64
	filesOK        atomic.Int64
	filesFailed    atomic.Int64
	filesMissing   atomic.Int64
	startTime      time.Time
}

// NewCollector creates a Collector with startTime set to now.
func NewCollector() *Collector {
	return &Collector{startTime: time.Now()}
}

// Snapshot is a point-in-time read of all counters.
type Snapshot struct {
	MembersScanned int64
	MembersHashed  int64
	MembersSkipped int64
	BytesHashed    int64
	FilesOK        int64
	FilesFailed    int64
	FilesMissing   int64
	Elapsed        time.Duration
}

func (c *Collector) AddMembersScanned(n int64) { c.membersScanned.Add(n) }
func (c *Collector) AddMembersHashed(n int64)  { c.membersHashed.Add(n) }
func (c *Collector) AddMembersSkipped(n int64) { c.membersSkipped.Add(n) }
func (c *Collector) AddBytesHashed(n int64)    { c.bytesHashed.Add(n) }
func (c *Collector) AddFilesOK(n int64)        { c.filesOK.Add(n) }
func (c *Collector) AddFilesFailed(n int64)    { c.filesFailed.Add(n) }
func (c *Collector) AddFilesMissing(n int64)   { c.filesMissing.Add(n) }

// Snapshot returns a consistent point-in-time read of all counters.
func (c *Collector) Snapshot() Snapshot {
	return Snapshot{
		MembersScanned: c.membersScanned.Load(),
		MembersHashed:  c.membersHashed.Load(),
		MembersSkipped: c.membersSkipped.Load(),
		BytesHashed:    c.bytesHashed.Load(),
		FilesOK:        c.filesOK.Load(),
		FilesFailed:    c.filesFailed.Load(),
		FilesMissing:   c.filesMissing.Load(),
		Elapsed:        c.Elapsed(),
	}
}

// Elapsed returns time since collector creation.
func (c *Collector) Elapsed() time.Duration {
	return time.Since(c.startTime)
}

// Success reports whether no member was FAILED or MISSING.
func (s Snapshot) Success() bool {
	return s.FilesFailed == 0 && s.FilesMissing == 0
}

func (s Snapshot) String() string {
	return fmt.Sprintf(
		"scanned=%d hashed=%d skipped=%d bytes=%d ok=%d failed=%d missing=%d",
		s.MembersScanned, s.MembersHashed, s.MembersSkipped, s.BytesHashed,
		s.FilesOK, s.FilesFailed, s.FilesMissing,
	)
}

// FormatBytes returns a human-readable byte count.
func FormatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(b)/float64(div), "KMGTPE"[exp])
}
