package util

import (
	"compress/gzip"
	"fmt"
	"io"

	"github.com/pierrec/lz4/v4"
)

// Extension returns the conventional file suffix for a compression type.
func Extension(compressionType string) string {
	switch compressionType {
	case "gzip":
		return ".gz"
	case "lz4":
		return ".lz4"
	default:
		return ""
	}
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// NewCompressWriter wraps w so that everything written is compressed with the
// given type. Close must be called to flush the trailing frame; it does not
// close w.
func NewCompressWriter(w io.Writer, compressionType string) (io.WriteCloser, error) {
	switch compressionType {
	case "gzip":
		return gzip.NewWriter(w), nil
	case "lz4":
		return lz4.NewWriter(w), nil
	case "none", "":
		return nopWriteCloser{w}, nil
	default:
		return nil, fmt.Errorf("unsupported compression type: %s", compressionType)
	}
}

// NewDecompressReader is the inverse of NewCompressWriter.
func NewDecompressReader(r io.Reader, compressionType string) (io.ReadCloser, error) {
	switch compressionType {
	case "gzip":
		return gzip.NewReader(r)
	case "lz4":
		return io.NopCloser(lz4.NewReader(r)), nil
	case "none", "":
		return io.NopCloser(r), nil
	default:
		return nil, fmt.Errorf("unsupported compression type: %s", compressionType)
	}
}

// CompressStream copies src into dst through a compressor and returns the
// number of uncompressed bytes consumed.
func CompressStream(dst io.Writer, src io.Reader, compressionType string) (int64, error) {
	cw, err := NewCompressWriter(dst, compressionType)
	if err != nil {
		return 0, err
	}
	n, err := io.Copy(cw, src)
	if err != nil {
		_ = cw.Close()
		return n, fmt.Errorf("compress copy: %w", err)
	}
	if err := cw.Close(); err != nil {
		return n, fmt.Errorf("compress close: %w", err)
	}
	return n, nil
}
