package archive

import (
	"archive/tar"
	"errors"
	"io"
	"io/fs"
	"iter"
)

// FileType is the kind of filesystem object a member describes.
type FileType int

const (
	Unknown FileType = iota
	RegularFile
	Directory
	SymbolicLink
	HardLink
	BlockDevice
	CharacterDevice
	NamedPipe
	Socket
)

var fileTypeNames = [...]string{
	Unknown:         "unknown",
	RegularFile:     "file",
	Directory:       "dir",
	SymbolicLink:    "symlink",
	HardLink:        "hardlink",
	BlockDevice:     "blockdev",
	CharacterDevice: "chardev",
	NamedPipe:       "fifo",
	Socket:          "socket",
}

func (t FileType) String() string {
	if t >= 0 && int(t) < len(fileTypeNames) {
		return fileTypeNames[t]
	}
	return "unknown"
}

func fileTypeOf(hdr *tar.Header) FileType {
	switch hdr.Typeflag {
	case tar.TypeReg, '\x00', tar.TypeCont, tar.TypeGNUSparse: // '\x00' is the pre-POSIX regular file flag
		return RegularFile
	case tar.TypeDir:
		return Directory
	case tar.TypeSymlink:
		return SymbolicLink
	case tar.TypeLink:
		return HardLink
	case tar.TypeBlock:
		return BlockDevice
	case tar.TypeChar:
		return CharacterDevice
	case tar.TypeFifo:
		return NamedPipe
	}
	if hdr.FileInfo().Mode()&fs.ModeSocket != 0 {
		return Socket
	}
	return Unknown
}

// Member is the archive's current entry.
type Member struct {
	archive *Archive
	gen     uint64
	hdr     *tar.Header
	typ     FileType
}

// Path is the member path as stored, forward-slash separated.
func (m *Member) Path() string { return m.hdr.Name }

// FileType reports what kind of object the member is.
func (m *Member) FileType() FileType { return m.typ }

// IsRegular reports whether the member carries file content.
func (m *Member) IsRegular() bool { return m.typ == RegularFile }

// Size is the content length recorded in the header.
func (m *Member) Size() int64 { return m.hdr.Size }

// Read reads member content from the container's current position. It
// returns io.EOF at the end of the member's data.
func (m *Member) Read(p []byte) (int, error) {
	if m.gen != m.archive.gen {
		return 0, ErrStaleMember
	}
	n, err := m.archive.tr.Read(p)
	if err != nil && !errors.Is(err, io.EOF) {
		return n, classify("read "+m.hdr.Name, m.archive.path, err)
	}
	return n, err
}

// Blocks yields the member's content in chunks of at most the archive's
// block size. Each slice is only valid until the next step. The sequence
// cannot be restarted.
func (m *Member) Blocks() iter.Seq2[[]byte, error] {
	return func(yield func([]byte, error) bool) {
		buf := m.archive.buf
		for {
			n, err := m.Read(buf)
			if n > 0 && !yield(buf[:n], nil) {
				return
			}
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(nil, err)
				return
			}
		}
	}
}
