package sizemap

import (
	"fmt"

	"github.com/klauspost/compress/gzip"
)

// gzipLevel keeps sizes in line with gzip -9 while avoiding the slow path
// klauspost/compress takes at level 9 on long runs of a single byte.
const gzipLevel = 7

// SizeFunc computes the reported size of a file's contents.
type SizeFunc func(data []byte) (int64, error)

// GzipSize returns the length of data after gzip compression.
func GzipSize(data []byte) (int64, error) {
	var cw countingWriter

	zw, err := gzip.NewWriterLevel(&cw, gzipLevel)
	if err != nil {
		return 0, fmt.Errorf("creating gzip writer: %w", err)
	}

	if _, err := zw.Write(data); err != nil {
		return 0, fmt.Errorf("compressing: %w", err)
	}

	if err := zw.Close(); err != nil {
		return 0, fmt.Errorf("flushing gzip stream: %w", err)
	}

	return cw.n, nil
}

// RawSize returns the uncompressed length of data.
func RawSize(data []byte) (int64, error) {
	return int64(len(data)), nil
}

type countingWriter struct {
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	c.n += int64(len(p))
	return len(p), nil
}
