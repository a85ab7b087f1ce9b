package archive

import (
	"archive/tar"
	"bytes"
	"io"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/require"
	"github.com/ulikunitz/xz"
)

type testMember struct {
	name     string
	body     string
	typeflag byte
	linkname string
}

// srcTree mirrors `tar -czf src.tar.gz src` over three small files.
var srcTree = []testMember{
	{name: "src/", typeflag: tar.TypeDir},
	{name: "src/foo", body: "foo\n"},
	{name: "src/bar", body: "bar\n"},
	{name: "src/baz", body: "baz\n"},
}

func buildTar(t *testing.T, members []testMember) []byte {
	t.Helper()

	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	for _, m := range members {
		typ := m.typeflag
		if typ == 0 {
			typ = tar.TypeReg
		}
		hdr := &tar.Header{
			Name:     m.name,
			Typeflag: typ,
			Linkname: m.linkname,
			Mode:     0o644,
		}
		if typ == tar.TypeReg {
			hdr.Size = int64(len(m.body))
		}
		if typ == tar.TypeDir {
			hdr.Mode = 0o755
		}
		require.NoError(t, tw.WriteHeader(hdr))
		if typ == tar.TypeReg {
			_, err := io.WriteString(tw, m.body)
			require.NoError(t, err)
		}
	}
	require.NoError(t, tw.Close())
	return buf.Bytes()
}

func compress(t *testing.T, f Filter, data []byte) []byte {
	t.Helper()

	var buf bytes.Buffer
	var w io.WriteCloser
	var err error
	switch f {
	case FilterNone:
		return data
	case FilterGzip:
		w = gzip.NewWriter(&buf)
	case FilterZstd:
		w, err = zstd.NewWriter(&buf)
	case FilterXz:
		w, err = xz.NewWriter(&buf)
	default:
		t.Fatalf("no test writer for %s", f)
	}
	require.NoError(t, err)
	_, err = w.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}
