package archive

import (
	"bufio"
	"bytes"
	"compress/bzip2"
	"errors"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// Filter is the compression layer wrapped around the tar stream.
type Filter int

const (
	FilterNone Filter = iota
	FilterGzip
	FilterBzip2
	FilterZstd
	FilterXz
)

func (f Filter) String() string {
	switch f {
	case FilterNone:
		return "none"
	case FilterGzip:
		return "gzip"
	case FilterBzip2:
		return "bzip2"
	case FilterZstd:
		return "zstd"
	case FilterXz:
		return "xz"
	default:
		return "unknown"
	}
}

var magics = []struct {
	filter Filter
	magic  []byte
}{
	{filter: FilterGzip, magic: []byte{0x1f, 0x8b}},
	{filter: FilterBzip2, magic: []byte("BZh")},
	{filter: FilterZstd, magic: []byte{0x28, 0xb5, 0x2f, 0xfd}},
	{filter: FilterXz, magic: []byte{0xfd, '7', 'z', 'X', 'Z', 0x00}},
}

// detectFilter peeks at the head of the stream without consuming it.
// Short streams are treated as uncompressed and left to the tar reader.
func detectFilter(br *bufio.Reader) (Filter, error) {
	head, err := br.Peek(6)
	if err != nil && !errors.Is(err, io.EOF) {
		return FilterNone, err
	}
	for _, m := range magics {
		if bytes.HasPrefix(head, m.magic) {
			return m.filter, nil
		}
	}
	return FilterNone, nil
}

// openFilter returns the decompressed stream and a release func for any
// decoder state.
func openFilter(f Filter, r io.Reader) (io.Reader, func(), error) {
	switch f {
	case FilterGzip:
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, nil, err
		}
		return zr, func() { _ = zr.Close() }, nil //nolint:errcheck // gzip Close only reports a prior read error
	case FilterBzip2:
		return bzip2.NewReader(r), func() {}, nil
	case FilterZstd:
		zr, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, nil, err
		}
		return zr, zr.Close, nil
	case FilterXz:
		xr, err := xz.NewReader(r)
		if err != nil {
			return nil, nil, err
		}
		return xr, func() {}, nil
	default:
		return r, func() {}, nil
	}
}
