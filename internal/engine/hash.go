package engine

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/bamsammich/archivesum/internal/archive"
	"github.com/bamsammich/archivesum/internal/digest"
)

// hashMember streams m through acc and returns the hex digest and the
// number of bytes read. acc is reset afterwards.
func hashMember(acc digest.Accumulator, m *archive.Member) (string, int64, error) {
	var n int64
	for block, err := range m.Blocks() {
		if err != nil {
			acc.Reset()
			return "", n, err
		}
		acc.Update(block)
		n += int64(len(block))
	}
	sum := acc.Sum()
	acc.Reset()
	return sum, n, nil
}

// hashFile computes the digest of the file at path, reading len(buf) bytes
// at a time. acc is reset afterwards.
func hashFile(acc digest.Accumulator, path string, buf []byte) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	for {
		n, err := f.Read(buf)
		if n > 0 {
			acc.Update(buf[:n])
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			acc.Reset()
			return "", fmt.Errorf("hash %s: %w", path, err)
		}
	}

	sum := acc.Sum()
	acc.Reset()
	return sum, nil
}
