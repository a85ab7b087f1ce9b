package platform

// DefaultBlockSize is the I/O block size used when the host filesystem does
// not report a preferred one, or for streams that have no backing file.
const DefaultBlockSize = 65536

// PreferredBlockSize returns the filesystem's preferred I/O block size for
// path (st_blksize), or DefaultBlockSize when it cannot be determined.
func PreferredBlockSize(path string) int {
	n := statBlockSize(path)
	if n <= 0 {
		return DefaultBlockSize
	}
	return n
}
