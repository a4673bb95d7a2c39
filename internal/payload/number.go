// internal/payload/number.go
package payload

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
)

// normalizeNumber rewrites JSON number text to the form a decode and
// re-encode prints: integers keep their digits, everything else is printed as
// the shortest float64 repr ("1.50" -> "1.5", "1E+2" -> "100.0"). Non-finite
// and malformed text is refused.
func normalizeNumber(text string) (string, bool) {
	if !validNumber(text) {
		return "", false
	}
	if !strings.ContainsAny(text, ".eE") {
		if strings.TrimLeft(text, "-0") == "" {
			return "0", true
		}
		return text, true
	}

	f, err := strconv.ParseFloat(text, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return "", false
	}
	if math.IsInf(f, 0) {
		return "", false
	}
	return formatFloat(f), true
}

// formatFloat prints f with the shortest digits that round-trip. Fixed
// notation keeps a ".0" on integral values; exponents below -4 or above 16
// switch to "1e+16" style with at least two exponent digits.
func formatFloat(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	if f == 0 {
		if math.Signbit(f) {
			return "-0.0"
		}
		return "0.0"
	}

	s := strconv.FormatFloat(f, 'e', -1, 64)
	sign := ""
	if s[0] == '-' {
		sign, s = "-", s[1:]
	}
	mantissa, expText, _ := strings.Cut(s, "e")
	exp, _ := strconv.Atoi(expText)
	digits := strings.Replace(mantissa, ".", "", 1)
	point := exp + 1

	var b strings.Builder
	b.WriteString(sign)
	switch {
	case point > 16 || point < -3:
		b.WriteString(digits[:1])
		if len(digits) > 1 {
			b.WriteByte('.')
			b.WriteString(digits[1:])
		}
		b.WriteByte('e')
		if exp < 0 {
			b.WriteByte('-')
			exp = -exp
		} else {
			b.WriteByte('+')
		}
		if exp < 10 {
			b.WriteByte('0')
		}
		b.WriteString(strconv.Itoa(exp))
	case point <= 0:
		b.WriteString("0.")
		b.WriteString(strings.Repeat("0", -point))
		b.WriteString(digits)
	case point >= len(digits):
		b.WriteString(digits)
		b.WriteString(strings.Repeat("0", point-len(digits)))
		b.WriteString(".0")
	default:
		b.WriteString(digits[:point])
		b.WriteByte('.')
		b.WriteString(digits[point:])
	}
	return b.String()
}

// validNumber accepts exactly the JSON number grammar, so NaN and Inf are out.
func validNumber(text string) bool {
	if text == "" {
		return false
	}
	if c := text[0]; c != '-' && (c < '0' || c > '9') {
		return false
	}
	return json.Valid([]byte(text))
}
