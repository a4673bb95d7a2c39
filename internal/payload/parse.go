// internal/payload/parse.go
package payload

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/valyala/fastjson"
)

// ErrNotMapping is returned when a body decodes to something other than a
// JSON object.
var ErrNotMapping = errors.New("payload: body is not a JSON object")

// Parse decodes a JSON request body into a mapping, keeping key order.
// Numbers are normalized and unpaired surrogate escapes decode to U+FFFD.
func Parse(body string) (*Mapping, error) {
	var p fastjson.Parser
	v, err := p.Parse(repairSurrogates(body))
	if err != nil {
		return nil, fmt.Errorf("payload: %w", err)
	}
	if v.Type() != fastjson.TypeObject {
		return nil, fmt.Errorf("%w: got %s", ErrNotMapping, v.Type())
	}
	return fromJSON(v).Mapping(), nil
}

// fromJSON copies a parser-owned value into a standalone tree.
func fromJSON(v *fastjson.Value) *Value {
	switch v.Type() {
	case fastjson.TypeObject:
		m := NewMapping()
		o, _ := v.Object()
		o.Visit(func(key []byte, child *fastjson.Value) {
			m.Set(string(key), fromJSON(child))
		})
		return Object(m)
	case fastjson.TypeArray:
		elems, _ := v.Array()
		items := make([]*Value, len(elems))
		for i, e := range elems {
			items[i] = fromJSON(e)
		}
		return Sequence(items...)
	case fastjson.TypeString:
		b, _ := v.StringBytes()
		return String(string(b))
	case fastjson.TypeNumber:
		text := string(v.MarshalTo(nil))
		if n, ok := normalizeNumber(text); ok {
			text = n
		}
		// NaN and out of range values keep their text and fail encoding
		return Number(text)
	case fastjson.TypeTrue:
		return Bool(true)
	case fastjson.TypeFalse:
		return Bool(false)
	default:
		return Null()
	}
}

const replacementEscape = `\ufffd`

// repairSurrogates rewrites \u escapes of unpaired UTF-16 surrogates inside
// strings to \ufffd. Well-formed pairs and every other escape are left alone.
func repairSurrogates(body string) string {
	if !strings.Contains(body, `\u`) {
		return body
	}

	var b strings.Builder
	last := 0
	inString := false
	for i := 0; i < len(body); i++ {
		c := body[i]
		if !inString {
			inString = c == '"'
			continue
		}
		switch c {
		case '"':
			inString = false
		case '\\':
			r, ok := escapedUnit(body, i)
			if !ok {
				// the escaped byte can't end the string
				i++
				continue
			}
			if !utf16.IsSurrogate(r) {
				i += 5
				continue
			}
			if r < 0xdc00 {
				if lo, ok := escapedUnit(body, i+6); ok && lo >= 0xdc00 && lo <= 0xdfff {
					i += 11
					continue
				}
			}
			b.WriteString(body[last:i])
			b.WriteString(replacementEscape)
			last = i + 6
			i += 5
		}
	}
	if last == 0 {
		return body
	}
	b.WriteString(body[last:])
	return b.String()
}

// escapedUnit decodes the \uXXXX escape starting at body[i].
func escapedUnit(body string, i int) (rune, bool) {
	if i+6 > len(body) || body[i] != '\\' || body[i+1] != 'u' {
		return 0, false
	}
	n, err := strconv.ParseUint(body[i+2:i+6], 16, 16)
	if err != nil {
		return 0, false
	}
	return rune(n), true
}
