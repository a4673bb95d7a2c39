// internal/filesize/filesize.go
package filesize

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

// Mode selects the unit system used by Format.
type Mode int

const (
	// Decimal uses SI suffixes (kB, MB) with base 1000.
	Decimal Mode = iota
	// Binary uses IEC suffixes (KiB, MiB) with base 1024.
	Binary
	// GNU uses ls -sh style suffixes (K, M) with base 1024 and no space.
	GNU
)

// ErrInvalidInput is returned for negative or non-finite byte counts and
// unknown modes.
var ErrInvalidInput = errors.New("filesize: invalid input")

var suffixes = map[Mode][]string{
	Decimal: {"kB", "MB", "GB", "TB", "PB", "EB", "ZB", "YB"},
	Binary:  {"KiB", "MiB", "GiB", "TiB", "PiB", "EiB", "ZiB", "YiB"},
	GNU:     {"K", "M", "G", "T", "P", "E", "Z", "Y"},
}

// String returns the mode name accepted by ParseMode.
func (m Mode) String() string {
	switch m {
	case Decimal:
		return "decimal"
	case Binary:
		return "binary"
	case GNU:
		return "gnu"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode maps a mode name to a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "decimal", "":
		return Decimal, nil
	case "binary":
		return Binary, nil
	case "gnu":
		return GNU, nil
	default:
		return Decimal, fmt.Errorf("%w: unknown size mode %q", ErrInvalidInput, s)
	}
}

func (m Mode) base() float64 {
	if m == Decimal {
		return 1000
	}
	return 1024
}

// Format renders a byte count as a human readable size, e.g. "1.5 kB",
// "1.5 KiB" or "1.5K".
func Format(bytes float64, mode Mode) (string, error) {
	table, ok := suffixes[mode]
	if !ok {
		return "", fmt.Errorf("%w: unknown size mode %d", ErrInvalidInput, int(mode))
	}
	if math.IsNaN(bytes) || math.IsInf(bytes, 0) || bytes < 0 {
		return "", fmt.Errorf("%w: byte count %v", ErrInvalidInput, bytes)
	}

	gnu := mode == GNU
	base := mode.base()

	switch {
	case bytes == 1 && !gnu:
		return "1 Byte", nil
	case bytes < base && !gnu:
		return strconv.FormatInt(int64(bytes), 10) + " Bytes", nil
	case bytes < base:
		return strconv.FormatInt(int64(bytes), 10) + "B", nil
	}

	// Past the last unit the value is scaled by the largest one.
	var unit float64
	var suffix string
	for i, s := range table {
		unit = math.Pow(base, float64(i+2))
		suffix = s
		if bytes < unit {
			break
		}
	}

	scaled := strconv.FormatFloat(base*bytes/unit, 'f', 1, 64)
	if gnu {
		return scaled + suffix, nil
	}
	return scaled + " " + suffix, nil
}
