// internal/compression/compression.go
package compression

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// Algorithm names a compression codec.
type Algorithm string

const (
	AlgorithmGzip   Algorithm = "gzip"
	AlgorithmZstd   Algorithm = "zstd"
	AlgorithmSnappy Algorithm = "snappy"
)

// Compressor compresses whole buffers. Output must be deterministic for a
// given input so reported sizes are stable.
type Compressor interface {
	Compress(data []byte) ([]byte, error)
	Algorithm() Algorithm
}

// DefaultGzipLevel is the level gzip(1) and most HTTP clients reach for when
// size matters.
const DefaultGzipLevel = gzip.BestCompression

// GzipCompressor writes gzip members with no name and a zero mtime.
type GzipCompressor struct {
	level int
}

// NewGzipCompressor creates a gzip compressor at the given level, from
// gzip.HuffmanOnly to gzip.BestCompression.
func NewGzipCompressor(level int) (*GzipCompressor, error) {
	if level < gzip.HuffmanOnly || level > gzip.BestCompression {
		return nil, fmt.Errorf("gzip level must be %d-%d, got %d", gzip.HuffmanOnly, gzip.BestCompression, level)
	}
	return &GzipCompressor{level: level}, nil
}

// DefaultGzipCompressor compresses at DefaultGzipLevel.
func DefaultGzipCompressor() *GzipCompressor {
	return &GzipCompressor{level: DefaultGzipLevel}
}

func (c *GzipCompressor) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := gzip.NewWriterLevel(&buf, c.level)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip writer: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("gzip compression failed: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to close gzip writer: %w", err)
	}
	return buf.Bytes(), nil
}

func (c *GzipCompressor) Algorithm() Algorithm { return AlgorithmGzip }

// ZstdCompressor implements Compressor using zstd
type ZstdCompressor struct {
	level       int
	encoder     *zstd.Encoder
	encoderOnce sync.Once
	encoderErr  error
}

// DefaultZstdCompressor creates a compressor with default settings (level 3)
func DefaultZstdCompressor() *ZstdCompressor {
	return &ZstdCompressor{level: 3}
}

func (c *ZstdCompressor) getEncoder() (*zstd.Encoder, error) {
	c.encoderOnce.Do(func() {
		c.encoder, c.encoderErr = zstd.NewWriter(nil,
			zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(c.level)),
			zstd.WithEncoderConcurrency(1),
		)
	})
	return c.encoder, c.encoderErr
}

func (c *ZstdCompressor) Compress(data []byte) ([]byte, error) {
	encoder, err := c.getEncoder()
	if err != nil {
		return nil, fmt.Errorf("failed to get encoder: %w", err)
	}
	return encoder.EncodeAll(data, make([]byte, 0, len(data))), nil
}

func (c *ZstdCompressor) Algorithm() Algorithm { return AlgorithmZstd }

// SnappyCompressor uses the snappy block format.
type SnappyCompressor struct{}

func (SnappyCompressor) Compress(data []byte) ([]byte, error) {
	return snappy.Encode(nil, data), nil
}

func (SnappyCompressor) Algorithm() Algorithm { return AlgorithmSnappy }

// New returns the default compressor for an algorithm.
func New(algo Algorithm) (Compressor, error) {
	switch algo {
	case AlgorithmGzip:
		return DefaultGzipCompressor(), nil
	case AlgorithmZstd:
		return DefaultZstdCompressor(), nil
	case AlgorithmSnappy:
		return SnappyCompressor{}, nil
	default:
		return nil, fmt.Errorf("unsupported compression algorithm: %s", algo)
	}
}

// Size is the outcome of compressing one buffer.
type Size struct {
	Algorithm      Algorithm
	OriginalSize   int
	CompressedSize int
}

// Measure compresses data and reports only the sizes.
func Measure(c Compressor, data []byte) (Size, error) {
	out, err := c.Compress(data)
	if err != nil {
		return Size{}, fmt.Errorf("%s: %w", c.Algorithm(), err)
	}
	return Size{
		Algorithm:      c.Algorithm(),
		OriginalSize:   len(data),
		CompressedSize: len(out),
	}, nil
}
