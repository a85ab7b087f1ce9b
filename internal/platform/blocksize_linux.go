//go:build linux

package platform

import "golang.org/x/sys/unix"

func statBlockSize(path string) int {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return 0
	}
	return int(st.Blksize)
}
