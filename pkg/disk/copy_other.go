//go:build !linux

package disk

import "os"

func copyRange(dst, src *os.File, offset int64) error {
	return copyRangeGeneric(dst, src, offset)
}
