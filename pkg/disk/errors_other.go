//go:build !unix

package disk

func isReadOnlyFS(err error) bool {
	return false
}
