//go:build darwin

package platform

import "golang.org/x/sys/unix"

// Blksize is int32 on darwin.
func statBlockSize(path string) int {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return 0
	}
	return int(st.Blksize)
}
