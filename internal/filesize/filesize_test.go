package filesize

import (
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func format(t *testing.T, n float64, mode Mode) string {
	t.Helper()
	s, err := Format(n, mode)
	require.NoError(t, err)
	return s
}

func TestFormat_Decimal(t *testing.T) {
	cases := map[float64]string{
		0:      "0 Bytes",
		1:      "1 Byte",
		2:      "2 Bytes",
		500:    "500 Bytes",
		999:    "999 Bytes",
		999.9:  "999 Bytes",
		1000:   "1.0 kB",
		1500:   "1.5 kB",
		999999: "1000.0 kB",
		1e6:    "1.0 MB",
		2.5e9:  "2.5 GB",
	}
	for in, want := range cases {
		got, err := Format(in, Decimal)
		require.NoError(t, err)
		assert.Equal(t, want, got, "bytes=%v", in)
	}
}

func TestFormat_Binary(t *testing.T) {
	t.Run("single byte keeps singular", func(t *testing.T) {
		got, err := Format(1, Binary)
		require.NoError(t, err)
		assert.Equal(t, "1 Byte", got)
	})

	t.Run("below base", func(t *testing.T) {
		got, err := Format(1023, Binary)
		require.NoError(t, err)
		assert.Equal(t, "1023 Bytes", got)
	})

	t.Run("scaled units", func(t *testing.T) {
		assert.Equal(t, "1.5 KiB", format(t, 1536, Binary))
		assert.Equal(t, "1.0 MiB", format(t, 1<<20, Binary))
		assert.Equal(t, "3.0 GiB", format(t, 3<<30, Binary))
	})
}

func TestFormat_GNU(t *testing.T) {
	assert.Equal(t, "1B", format(t, 1, GNU))
	assert.Equal(t, "512B", format(t, 512, GNU))
	assert.Equal(t, "1.5K", format(t, 1536, GNU))
	assert.Equal(t, "1.0M", format(t, 1<<20, GNU))
}

func TestFormat_BeyondLargestUnit(t *testing.T) {
	got, err := Format(5e30, Decimal)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(got, " YB"), got)

	got, err = Format(math.Pow(1024, 9), GNU)
	require.NoError(t, err)
	assert.Equal(t, "1024.0Y", got)
}

func TestFormat_InvalidInput(t *testing.T) {
	for _, in := range []float64{-1, math.NaN(), math.Inf(1)} {
		_, err := Format(in, Decimal)
		assert.ErrorIs(t, err, ErrInvalidInput)
	}

	_, err := Format(10, Mode(42))
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestParseMode(t *testing.T) {
	for _, m := range []Mode{Decimal, Binary, GNU} {
		got, err := ParseMode(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}

	got, err := ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, Decimal, got)

	_, err = ParseMode("metric")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

// Parsing the rendered number back must land within one decimal place of the
// scaled unit.
func TestFormat_DecimalRoundTrip(t *testing.T) {
	units := map[string]float64{"kB": 1e3, "MB": 1e6, "GB": 1e9, "TB": 1e12}
	for b := 1000.0; b < 5e12; b = b*1.37 + 11 {
		b = math.Floor(b)
		got, err := Format(b, Decimal)
		require.NoError(t, err)

		parts := strings.SplitN(got, " ", 2)
		require.Len(t, parts, 2, got)
		v, err := strconv.ParseFloat(parts[0], 64)
		require.NoError(t, err)
		unit, ok := units[parts[1]]
		require.True(t, ok, got)

		assert.InDelta(t, b, v*unit, 0.05*unit+1e-9, "bytes=%v rendered=%s", b, got)
	}
}
