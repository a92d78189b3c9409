//go:build !windows

package disk

const closeBeforeRename = false
