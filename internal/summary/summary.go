// internal/summary/summary.go
package summary

import (
	"fmt"
	"io"
	"strconv"

	"github.com/FairForge/loadsize/internal/payload"
)

// Summarize writes one "<key>: <rendering>" line per key of record, in key
// order. Keys with falsy values are skipped, and when include is non-empty
// so is every key not listed in it. Only write errors are returned.
func Summarize(w io.Writer, record *payload.Mapping, include ...string) error {
	for _, key := range record.Keys() {
		v, _ := record.Get(key)
		if !v.Truthy() {
			continue
		}
		if len(include) > 0 && !contains(include, key) {
			continue
		}
		if _, err := fmt.Fprintf(w, "%s: %s\n", key, Render(v)); err != nil {
			return err
		}
	}
	return nil
}

// Render describes a value's shape: strings verbatim, sequences by length,
// everything else by its textual form.
func Render(v *payload.Value) string {
	switch v.Kind() {
	case payload.KindString, payload.KindNumber:
		return v.Text()
	case payload.KindSequence:
		return strconv.Itoa(v.Len()) + " elements"
	case payload.KindBool:
		return strconv.FormatBool(v.Bool())
	case payload.KindMapping:
		b, err := payload.Encode(v)
		if err != nil {
			return fmt.Sprintf("<%d keys>", v.Len())
		}
		return string(b)
	default:
		return "null"
	}
}

func contains(keys []string, key string) bool {
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}
