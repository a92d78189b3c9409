//go:build windows

package disk

// Windows refuses to replace a file that still has an open handle.
const closeBeforeRename = true
