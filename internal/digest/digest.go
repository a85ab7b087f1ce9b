// Package digest provides the reusable hash accumulators used to checksum
// archive members and their on-disk copies.
package digest

import (
	"crypto/md5"  //nolint:gosec // G501: integrity checksum, not a security boundary
	"crypto/sha1" //nolint:gosec // G505: integrity checksum, not a security boundary
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/zeebo/blake3"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"
)

// Algorithm identifies a supported digest algorithm.
type Algorithm int

const (
	MD5 Algorithm = iota + 1
	SHA1
	SHA224
	SHA256
	SHA384
	SHA512
	SHA3_256
	SHA3_512
	BLAKE2b256
	BLAKE2b512
	BLAKE3
	XXH64
)

// Default is the algorithm used when none is selected.
const Default = MD5

var algorithmNames = [...]string{
	MD5:        "md5",
	SHA1:       "sha1",
	SHA224:     "sha224",
	SHA256:     "sha256",
	SHA384:     "sha384",
	SHA512:     "sha512",
	SHA3_256:   "sha3-256",
	SHA3_512:   "sha3-512",
	BLAKE2b256: "blake2b-256",
	BLAKE2b512: "blake2b-512",
	BLAKE3:     "blake3",
	XXH64:      "xxh64",
}

func (a Algorithm) String() string {
	if a > 0 && int(a) < len(algorithmNames) {
		return algorithmNames[a]
	}
	return "unknown"
}

// Algorithms returns every supported algorithm in display order.
func Algorithms() []Algorithm {
	out := make([]Algorithm, 0, len(algorithmNames)-1)
	for a := MD5; int(a) < len(algorithmNames); a++ {
		out = append(out, a)
	}
	return out
}

// Parse looks up an algorithm by name, ignoring case.
func Parse(name string) (Algorithm, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, a := range Algorithms() {
		if a.String() == name {
			return a, nil
		}
	}
	return 0, fmt.Errorf("unsupported digest %q", name)
}

// Accumulator is an incremental hash bound to one algorithm. A single
// Accumulator is reused across members: Reset returns it to the state of a
// freshly constructed one.
type Accumulator interface {
	// Write feeds p into the digest. It never returns an error.
	Write(p []byte) (int, error)
	// Update is Write without the io.Writer signature.
	Update(p []byte)
	// Sum returns the lowercase hex digest of everything written since the
	// last Reset. It does not change the state.
	Sum() string
	// Reset clears all accumulated input.
	Reset()
	// Size is the digest length in bytes.
	Size() int
	Algorithm() Algorithm
}

// New returns an Accumulator for a.
//
//nolint:ireturn // factory returns interface by design
func New(a Algorithm) (Accumulator, error) {
	h, err := newHash(a)
	if err != nil {
		return nil, err
	}
	return &hashAccumulator{
		alg: a,
		h:   h,
		sum: make([]byte, 0, h.Size()),
	}, nil
}

func newHash(a Algorithm) (hash.Hash, error) {
	switch a {
	case MD5:
		return md5.New(), nil //nolint:gosec // G401: integrity checksum
	case SHA1:
		return sha1.New(), nil //nolint:gosec // G401: integrity checksum
	case SHA224:
		return sha256.New224(), nil
	case SHA256:
		return sha256.New(), nil
	case SHA384:
		return sha512.New384(), nil
	case SHA512:
		return sha512.New(), nil
	case SHA3_256:
		return sha3.New256(), nil
	case SHA3_512:
		return sha3.New512(), nil
	case BLAKE2b256:
		return blake2b.New256(nil)
	case BLAKE2b512:
		return blake2b.New512(nil)
	case BLAKE3:
		return blake3.New(), nil
	case XXH64:
		return xxhash.New(), nil
	default:
		return nil, fmt.Errorf("unsupported digest %v", a)
	}
}

// hashAccumulator adapts a hash.Hash. The sum buffer is kept between
// members so finalizing does not allocate.
type hashAccumulator struct {
	alg Algorithm
	h   hash.Hash
	sum []byte
}

func (d *hashAccumulator) Write(p []byte) (int, error) {
	d.Update(p)
	return len(p), nil
}

func (d *hashAccumulator) Update(p []byte) {
	_, _ = d.h.Write(p) //nolint:errcheck // hash.Hash.Write never returns an error
}

func (d *hashAccumulator) Sum() string {
	d.sum = d.h.Sum(d.sum[:0])
	return hex.EncodeToString(d.sum)
}

func (d *hashAccumulator) Reset()               { d.h.Reset() }
func (d *hashAccumulator) Size() int            { return d.h.Size() }
func (d *hashAccumulator) Algorithm() Algorithm { return d.alg }
