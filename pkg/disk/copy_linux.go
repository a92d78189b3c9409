//go:build linux

package disk

import (
	"errors"
	"os"

	"golang.org/x/sys/unix"
)

// copyRange copies src from offset to EOF into dst in the kernel, falling
// back to a userspace copy where copy_file_range is unavailable.
func copyRange(dst, src *os.File, offset int64) error {
	info, err := src.Stat()
	if err != nil {
		return err
	}
	remaining := info.Size() - offset
	off := offset
	for remaining > 0 {
		n, err := unix.CopyFileRange(int(src.Fd()), &off, int(dst.Fd()), nil, int(remaining), 0)
		if err != nil {
			if errors.Is(err, unix.ENOSYS) || errors.Is(err, unix.EXDEV) ||
				errors.Is(err, unix.EINVAL) || errors.Is(err, unix.EOPNOTSUPP) {
				return copyRangeGeneric(dst, src, off)
			}
			return err
		}
		if n == 0 {
			break
		}
		remaining -= int64(n)
	}
	return nil
}
