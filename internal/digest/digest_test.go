package digest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlgorithmString(t *testing.T) {
	assert.Equal(t, "md5", MD5.String())
	assert.Equal(t, "sha3-256", SHA3_256.String())
	assert.Equal(t, "xxh64", XXH64.String())
	assert.Equal(t, "unknown", Algorithm(0).String())
	assert.Equal(t, "unknown", Algorithm(999).String())
}

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Algorithm
	}{
		{in: "md5", want: MD5},
		{in: "MD5", want: MD5},
		{in: " Sha256 ", want: SHA256},
		{in: "blake2b-512", want: BLAKE2b512},
		{in: "BLAKE3", want: BLAKE3},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := Parse("crc32")
	assert.Error(t, err)
}

func TestAlgorithms_AllConstructible(t *testing.T) {
	algs := Algorithms()
	require.Len(t, algs, 12)
	assert.Equal(t, MD5, algs[0])

	for _, a := range algs {
		acc, err := New(a)
		require.NoError(t, err, a.String())
		assert.Equal(t, a, acc.Algorithm())
		assert.Len(t, acc.Sum(), acc.Size()*2, a.String())
	}
}

func TestNew_Unsupported(t *testing.T) {
	_, err := New(Algorithm(0))
	assert.Error(t, err)
}

func TestKnownVectors(t *testing.T) {
	tests := []struct {
		alg  Algorithm
		in   string
		want string
	}{
		{alg: MD5, in: "foo\n", want: "d3b07384d113edec49eaa6238ad5ff00"},
		{alg: MD5, in: "bar\n", want: "c157a79031e1c40f85931829bc5fc552"},
		{alg: MD5, in: "baz\n", want: "258622b1688250cb619f3c9ccaefb7eb"},
		{alg: MD5, in: "", want: "d41d8cd98f00b204e9800998ecf8427e"},
		{alg: SHA1, in: "", want: "da39a3ee5e6b4b0d3255bfef95601890afd80709"},
		{alg: SHA256, in: "", want: "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"},
		{alg: BLAKE3, in: "", want: "af1349b9f5f9a1a6a0404dea36dcc9499bcb25c9adc112b7cc9a93cae41f3262"},
		{alg: XXH64, in: "", want: "ef46db3751d8e999"},
	}
	for _, tt := range tests {
		t.Run(tt.alg.String(), func(t *testing.T) {
			acc, err := New(tt.alg)
			require.NoError(t, err)
			acc.Update([]byte(tt.in))
			assert.Equal(t, tt.want, acc.Sum())
		})
	}
}

func TestReset_MatchesFresh(t *testing.T) {
	for _, a := range Algorithms() {
		t.Run(a.String(), func(t *testing.T) {
			fresh, err := New(a)
			require.NoError(t, err)
			empty := fresh.Sum()

			acc, err := New(a)
			require.NoError(t, err)
			acc.Update([]byte("some content"))
			first := acc.Sum()
			acc.Reset()
			assert.Equal(t, empty, acc.Sum())

			// Same input after Reset gives the same digest.
			acc.Update([]byte("some content"))
			assert.Equal(t, first, acc.Sum())
		})
	}
}

func TestSum_DoesNotChangeState(t *testing.T) {
	acc, err := New(SHA256)
	require.NoError(t, err)

	acc.Update([]byte("foo"))
	_ = acc.Sum()
	acc.Update([]byte("bar"))

	whole, err := New(SHA256)
	require.NoError(t, err)
	whole.Update([]byte("foobar"))

	assert.Equal(t, whole.Sum(), acc.Sum())
}

func TestWrite_Chunked(t *testing.T) {
	acc, err := New(MD5)
	require.NoError(t, err)

	n, err := acc.Write([]byte("fo"))
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	_, err = acc.Write([]byte("o\n"))
	require.NoError(t, err)

	assert.Equal(t, "d3b07384d113edec49eaa6238ad5ff00", acc.Sum())
}
