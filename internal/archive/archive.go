// Package archive reads tar containers, optionally compressed, one member
// at a time. An Archive owns its file and decoder state; a Member is only
// valid until the next call to Next.
package archive

import (
	"archive/tar"
	"bufio"
	"errors"
	"io"
	"iter"
	"os"

	"github.com/bamsammich/archivesum/internal/platform"
)

// Archive is a sequential cursor over the members of a container.
type Archive struct {
	file      *os.File
	release   func()
	tr        *tar.Reader
	filter    Filter
	path      string
	blockSize int
	buf       []byte

	// gen is bumped on every Next; members carry the value they were
	// created with and refuse to read once it moves on.
	gen      uint64
	consumed bool
	closed   bool
}

type options struct {
	blockSize int
	tee       io.Writer
}

// Option configures Open and FromReader.
type Option func(*options)

// WithBlockSize overrides the read block size.
func WithBlockSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.blockSize = n
		}
	}
}

// WithTee copies raw container bytes to w as they are consumed, before
// decompression.
func WithTee(w io.Writer) Option {
	return func(o *options) { o.tee = w }
}

// Open opens the container at path. The block size follows the host
// filesystem's preferred I/O size for path.
func Open(path string, opts ...Option) (*Archive, error) {
	o := options{blockSize: platform.PreferredBlockSize(path)}
	for _, opt := range opts {
		opt(&o)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, &Error{Kind: KindIO, Op: "open", Path: path, Err: err}
	}

	a, err := newArchive(f, path, o)
	if err != nil {
		f.Close()
		return nil, err
	}
	a.file = f
	return a, nil
}

// FromReader reads a container from a continuous stream such as stdin.
// The caller keeps ownership of r; Close releases only decoder state.
func FromReader(r io.Reader, opts ...Option) (*Archive, error) {
	o := options{blockSize: platform.DefaultBlockSize}
	for _, opt := range opts {
		opt(&o)
	}
	return newArchive(r, "", o)
}

func newArchive(r io.Reader, path string, o options) (*Archive, error) {
	if o.tee != nil {
		r = io.TeeReader(r, o.tee)
	}
	br := bufio.NewReaderSize(r, o.blockSize)

	filter, err := detectFilter(br)
	if err != nil {
		return nil, classify("read", path, err)
	}
	dec, release, err := openFilter(filter, br)
	if err != nil {
		return nil, classify(filter.String(), path, err)
	}

	return &Archive{
		release:   release,
		tr:        tar.NewReader(dec),
		filter:    filter,
		path:      path,
		blockSize: o.blockSize,
		buf:       make([]byte, o.blockSize),
	}, nil
}

// BlockSize is the chunk size used for member reads.
func (a *Archive) BlockSize() int { return a.blockSize }

// Filter reports the detected compression layer.
func (a *Archive) Filter() Filter { return a.filter }

// Path is the container path, or "" for a stream.
func (a *Archive) Path() string { return a.path }

// Next advances to the next member and invalidates the previous one.
// It returns io.EOF after the last member.
func (a *Archive) Next() (*Member, error) {
	if a.closed {
		return nil, ErrClosed
	}
	a.gen++

	hdr, err := a.tr.Next()
	if errors.Is(err, io.EOF) {
		return nil, io.EOF
	}
	if err != nil {
		return nil, classify("read header", a.path, err)
	}
	return &Member{
		archive: a,
		gen:     a.gen,
		hdr:     hdr,
		typ:     fileTypeOf(hdr),
	}, nil
}

// Entries returns a single-use iterator over the remaining members. The
// archive is closed when the loop ends, including on break or error.
func (a *Archive) Entries() iter.Seq2[*Member, error] {
	return func(yield func(*Member, error) bool) {
		if a.consumed {
			yield(nil, ErrConsumed)
			return
		}
		a.consumed = true
		defer a.Close() //nolint:errcheck // read-only handle

		for {
			m, err := a.Next()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(m, nil) {
				return
			}
		}
	}
}

// Close releases the decoder and the file opened by Open. It is safe to
// call more than once.
func (a *Archive) Close() error {
	if a.closed {
		return nil
	}
	a.closed = true
	a.gen++

	if a.release != nil {
		a.release()
	}
	if a.file != nil {
		if err := a.file.Close(); err != nil {
			return &Error{Kind: KindIO, Op: "close", Path: a.path, Err: err}
		}
	}
	return nil
}
