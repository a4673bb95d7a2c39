package compression

import (
	"bytes"
	"io"
	"testing"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sample = bytes.Repeat([]byte(`{"transactions":[{"spans":[{"stacktrace":["frame"]}]}]}`), 50)

func TestGzipCompressor(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		c := DefaultGzipCompressor()
		assert.Equal(t, AlgorithmGzip, c.Algorithm())
		assert.Equal(t, DefaultGzipLevel, c.level)

		out, err := c.Compress(sample)
		require.NoError(t, err)
		assert.Less(t, len(out), len(sample))

		r, err := gzip.NewReader(bytes.NewReader(out))
		require.NoError(t, err)
		got, err := io.ReadAll(r)
		require.NoError(t, err)
		assert.Equal(t, sample, got)
		assert.True(t, r.Header.ModTime.IsZero())
		assert.Empty(t, r.Header.Name)
	})

	t.Run("deterministic", func(t *testing.T) {
		c := DefaultGzipCompressor()
		a, err := c.Compress(sample)
		require.NoError(t, err)
		b, err := c.Compress(sample)
		require.NoError(t, err)
		assert.Equal(t, a, b)
	})

	t.Run("empty input still has a header", func(t *testing.T) {
		out, err := DefaultGzipCompressor().Compress(nil)
		require.NoError(t, err)
		assert.NotEmpty(t, out)
	})

	t.Run("rejects bad level", func(t *testing.T) {
		_, err := NewGzipCompressor(42)
		assert.Error(t, err)
		_, err = NewGzipCompressor(gzip.HuffmanOnly - 1)
		assert.Error(t, err)
	})

	t.Run("lower level is never smaller", func(t *testing.T) {
		fast, err := NewGzipCompressor(gzip.BestSpeed)
		require.NoError(t, err)

		quick, err := Measure(fast, sample)
		require.NoError(t, err)
		best, err := Measure(DefaultGzipCompressor(), sample)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, quick.CompressedSize, best.CompressedSize)
	})
}

func TestZstdCompressor(t *testing.T) {
	c := DefaultZstdCompressor()
	out, err := c.Compress(sample)
	require.NoError(t, err)

	dec, err := zstd.NewReader(nil)
	require.NoError(t, err)
	defer dec.Close()
	got, err := dec.DecodeAll(out, nil)
	require.NoError(t, err)
	assert.Equal(t, sample, got)
}

func TestSnappyCompressor(t *testing.T) {
	out, err := SnappyCompressor{}.Compress(sample)
	require.NoError(t, err)
	got, err := snappy.Decode(nil, out)
	require.NoError(t, err)
	assert.Equal(t, sample, got)
}

func TestNew(t *testing.T) {
	for _, algo := range []Algorithm{AlgorithmGzip, AlgorithmZstd, AlgorithmSnappy} {
		c, err := New(algo)
		require.NoError(t, err)
		assert.Equal(t, algo, c.Algorithm())
	}

	_, err := New("lz4")
	assert.Error(t, err)
}

func TestMeasure(t *testing.T) {
	size, err := Measure(DefaultGzipCompressor(), sample)
	require.NoError(t, err)
	assert.Equal(t, len(sample), size.OriginalSize)
	assert.Greater(t, size.CompressedSize, 0)
	assert.Less(t, size.CompressedSize, size.OriginalSize)
}
