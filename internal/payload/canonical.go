// internal/payload/canonical.go
package payload

import (
	"errors"
	"fmt"
	"sort"
	"unicode/utf16"

	jsoniter "github.com/json-iterator/go"
)

// ErrPayloadEncoding is returned when a tree cannot be written as JSON.
var ErrPayloadEncoding = errors.New("payload: cannot encode")

var canonicalAPI = jsoniter.Config{
	EscapeHTML:  false,
	SortMapKeys: true,
}.Froze()

// Canonical encodes m as compact JSON with keys in sorted order, numbers
// normalized and strings ASCII-only, so the same tree always measures the
// same no matter how its body was written.
func Canonical(m *Mapping) ([]byte, error) {
	return Encode(Object(m))
}

// Encode writes any node in canonical form.
func Encode(v *Value) ([]byte, error) {
	stream := canonicalAPI.BorrowStream(nil)
	defer canonicalAPI.ReturnStream(stream)

	if err := writeValue(stream, v); err != nil {
		return nil, err
	}
	if stream.Error != nil {
		return nil, fmt.Errorf("%w: %v", ErrPayloadEncoding, stream.Error)
	}

	buf := stream.Buffer()
	out := make([]byte, len(buf))
	copy(out, buf)
	return out, nil
}

func writeValue(stream *jsoniter.Stream, v *Value) error {
	if v == nil {
		return fmt.Errorf("%w: nil node", ErrPayloadEncoding)
	}

	switch v.kind {
	case KindNull:
		stream.WriteNil()
	case KindBool:
		stream.WriteBool(v.b)
	case KindString:
		writeString(stream, v.text)
	case KindNumber:
		text, ok := normalizeNumber(v.text)
		if !ok {
			return fmt.Errorf("%w: number %q", ErrPayloadEncoding, v.text)
		}
		stream.WriteRaw(text)
	case KindSequence:
		stream.WriteArrayStart()
		for i, item := range v.items {
			if i > 0 {
				stream.WriteMore()
			}
			if err := writeValue(stream, item); err != nil {
				return err
			}
		}
		stream.WriteArrayEnd()
	case KindMapping:
		keys := v.m.Keys()
		sort.Strings(keys)
		stream.WriteObjectStart()
		for i, k := range keys {
			if i > 0 {
				stream.WriteMore()
			}
			writeString(stream, k)
			stream.WriteRaw(":")
			child, _ := v.m.Get(k)
			if err := writeValue(stream, child); err != nil {
				return fmt.Errorf("%s: %w", k, err)
			}
		}
		stream.WriteObjectEnd()
	default:
		return fmt.Errorf("%w: unknown kind %s", ErrPayloadEncoding, v.kind)
	}
	return nil
}

func writeString(stream *jsoniter.Stream, s string) {
	stream.SetBuffer(appendASCIIString(stream.Buffer(), s))
}

const hexDigits = "0123456789abcdef"

// appendASCIIString quotes s using only printable ASCII. Everything outside
// space..'~' is written as \uXXXX, astral runes as a surrogate pair, and
// invalid UTF-8 as \ufffd.
func appendASCIIString(dst []byte, s string) []byte {
	dst = append(dst, '"')
	for _, r := range s {
		switch {
		case r == '"':
			dst = append(dst, '\\', '"')
		case r == '\\':
			dst = append(dst, '\\', '\\')
		case r == '\n':
			dst = append(dst, '\\', 'n')
		case r == '\r':
			dst = append(dst, '\\', 'r')
		case r == '\t':
			dst = append(dst, '\\', 't')
		case r == '\b':
			dst = append(dst, '\\', 'b')
		case r == '\f':
			dst = append(dst, '\\', 'f')
		case r >= 0x20 && r < 0x7f:
			dst = append(dst, byte(r))
		case r > 0xffff:
			hi, lo := utf16.EncodeRune(r)
			dst = appendEscapedRune(dst, hi)
			dst = appendEscapedRune(dst, lo)
		default:
			dst = appendEscapedRune(dst, r)
		}
	}
	return append(dst, '"')
}

func appendEscapedRune(dst []byte, r rune) []byte {
	return append(dst, '\\', 'u',
		hexDigits[r>>12&0xf], hexDigits[r>>8&0xf], hexDigits[r>>4&0xf], hexDigits[r&0xf])
}
