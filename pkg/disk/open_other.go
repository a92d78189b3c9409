//go:build !linux

package disk

import "os"

func openAppend(path string) (fileHandle, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_RDWR, 0o644)
	if err != nil {
		return nil, err
	}
	return f, nil
}
