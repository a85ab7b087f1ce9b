package engine_test

import (
	"archive/tar"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/require"

	"github.com/bamsammich/archivesum/internal/archive"
	"github.com/bamsammich/archivesum/internal/digest"
)

const (
	md5Foo = "d3b07384d113edec49eaa6238ad5ff00"
	md5Bar = "c157a79031e1c40f85931829bc5fc552"
	md5Baz = "258622b1688250cb619f3c9ccaefb7eb"
)

type tarMember struct {
	name     string
	body     string
	typeflag byte
}

var srcMembers = []tarMember{
	{name: "src/", typeflag: tar.TypeDir},
	{name: "src/foo", body: "foo\n"},
	{name: "src/bar", body: "bar\n"},
	{name: "src/baz", body: "baz\n"},
}

// setupSourceTree creates:
//
//	root/src/foo     "foo\n"
//	root/src/bar     "bar\n"
//	root/src/baz     "baz\n"
//	root/src.tar.gz  the three files above plus src/
func setupSourceTree(t *testing.T) (string, string) {
	t.Helper()

	root := t.TempDir()
	writeMembers(t, root, srcMembers)

	tarball := filepath.Join(root, "src.tar.gz")
	packTar(t, tarball, srcMembers, true)
	return root, tarball
}

func writeMembers(t *testing.T, root string, members []tarMember) {
	t.Helper()
	for _, m := range members {
		path := filepath.Join(root, filepath.FromSlash(m.name))
		if m.typeflag == tar.TypeDir {
			require.NoError(t, os.MkdirAll(path, 0o755))
			continue
		}
		if m.typeflag != 0 && m.typeflag != tar.TypeReg {
			continue
		}
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(m.body), 0o644))
	}
}

func packTar(t *testing.T, path string, members []tarMember, gz bool) {
	t.Helper()

	var buf bytes.Buffer
	var w io.Writer = &buf
	var zw *gzip.Writer
	if gz {
		zw = gzip.NewWriter(&buf)
		w = zw
	}

	tw := tar.NewWriter(w)
	for _, m := range members {
		typ := m.typeflag
		if typ == 0 {
			typ = tar.TypeReg
		}
		hdr := &tar.Header{Name: m.name, Typeflag: typ, Mode: 0o644}
		switch typ {
		case tar.TypeReg:
			hdr.Size = int64(len(m.body))
		case tar.TypeDir:
			hdr.Mode = 0o755
		case tar.TypeSymlink:
			hdr.Linkname = m.body
		}
		require.NoError(t, tw.WriteHeader(hdr))
		if typ == tar.TypeReg {
			_, err := io.WriteString(tw, m.body)
			require.NoError(t, err)
		}
	}
	require.NoError(t, tw.Close())
	if zw != nil {
		require.NoError(t, zw.Close())
	}
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func openArchive(t *testing.T, path string) *archive.Archive {
	t.Helper()
	a, err := archive.Open(path)
	require.NoError(t, err)
	return a
}

func newAccumulator(t *testing.T, alg digest.Algorithm) digest.Accumulator {
	t.Helper()
	acc, err := digest.New(alg)
	require.NoError(t, err)
	return acc
}

// errWriter fails every write.
type errWriter struct{}

func (errWriter) Write([]byte) (int, error) { return 0, os.ErrClosed }

func lines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}
