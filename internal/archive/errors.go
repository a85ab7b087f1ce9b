package archive

import (
	"errors"
	"io/fs"
)

// Kind classifies archive errors.
type Kind int

const (
	// KindIO is a failure of the underlying file or stream.
	KindIO Kind = iota + 1
	// KindFormat is corrupt, truncated or unsupported container data.
	KindFormat
)

func (k Kind) String() string {
	switch k {
	case KindIO:
		return "io"
	case KindFormat:
		return "format"
	default:
		return "unknown"
	}
}

// Error is the single error type returned by this package for open and
// read failures. Err carries the underlying library's message.
type Error struct {
	Kind Kind
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	var pe *fs.PathError
	if e.Path == "" || errors.As(e.Err, &pe) {
		return e.Op + ": " + e.Err.Error()
	}
	return e.Op + " " + e.Path + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// IsFormat reports whether err is a container format error.
func IsFormat(err error) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Kind == KindFormat
}

var (
	// ErrStaleMember is returned when reading a member after the archive
	// cursor has moved past it.
	ErrStaleMember = errors.New("archive: member read after cursor advanced")
	// ErrConsumed is yielded when Entries is ranged a second time.
	ErrConsumed = errors.New("archive: entries already consumed")
	// ErrClosed is returned by Next after Close.
	ErrClosed = errors.New("archive: closed")
)

// classify wraps err from the decompressor or tar reader. Errors from the
// backing file surface as *fs.PathError; everything else is a format error.
func classify(op, path string, err error) error {
	kind := KindFormat
	var pe *fs.PathError
	if errors.As(err, &pe) {
		kind = KindIO
	}
	return &Error{Kind: kind, Op: op, Path: path, Err: err}
}
