package ui

import (
	"io"
	"time"

	"github.com/schollz/progressbar/v3"
)

// Progress renders bytes consumed from the archive. It is an io.Writer so
// it can observe the raw stream through archive.WithTee.
type Progress struct {
	bar *progressbar.ProgressBar
}

// NewProgress creates a byte progress bar on w. A negative total renders a
// spinner for streams of unknown length. termWidth sizes the bar; zero keeps
// the library default.
func NewProgress(w io.Writer, total int64, desc string, termWidth int) *Progress {
	opts := []progressbar.Option{
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(desc),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionThrottle(120 * time.Millisecond),
		progressbar.OptionClearOnFinish(),
	}
	if termWidth > 0 {
		// description, byte counts and ETA take the rest of the line
		opts = append(opts, progressbar.OptionSetWidth(max(10, termWidth/3)))
	}
	return &Progress{bar: progressbar.NewOptions64(total, opts...)}
}

func (p *Progress) Write(b []byte) (int, error) {
	return p.bar.Write(b)
}

// Finish completes and clears the bar.
func (p *Progress) Finish() {
	_ = p.bar.Finish() //nolint:errcheck // rendering failure is cosmetic
}
