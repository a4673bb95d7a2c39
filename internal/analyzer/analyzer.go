// internal/analyzer/analyzer.go
package analyzer

import (
	"fmt"
	"io"
	"strings"

	"github.com/FairForge/loadsize/internal/compression"
	"github.com/FairForge/loadsize/internal/filesize"
	"github.com/FairForge/loadsize/internal/payload"
	"github.com/FairForge/loadsize/internal/summary"
)

const (
	keyTransactions = "transactions"
	keySpans        = "spans"
	keyStacktrace   = "stacktrace"
)

// Config configures an Analyzer
type Config struct {
	SizeMode    filesize.Mode
	GzipLevel   int // 0 selects compression.DefaultGzipLevel
	ExtraCodecs []compression.Algorithm
}

// Result holds the measurements of one analyzed payload.
type Result struct {
	RawSize        int
	CompressedSize int
	Extra          []compression.Size
	Transactions   int
	Spans          int
}

// Analyzer reports the size and transaction/span shape of payloads.
type Analyzer struct {
	mode  filesize.Mode
	gzip  compression.Compressor
	extra []compression.Compressor
}

// New creates an analyzer. A nil config reports decimal sizes and gzip at
// the default level only.
func New(config *Config) (*Analyzer, error) {
	if config == nil {
		config = &Config{}
	}
	if _, err := filesize.Format(0, config.SizeMode); err != nil {
		return nil, err
	}

	level := config.GzipLevel
	if level == 0 {
		level = compression.DefaultGzipLevel
	}
	gz, err := compression.NewGzipCompressor(level)
	if err != nil {
		return nil, err
	}

	a := &Analyzer{
		mode: config.SizeMode,
		gzip: gz,
	}
	for _, algo := range config.ExtraCodecs {
		c, err := compression.New(algo)
		if err != nil {
			return nil, err
		}
		a.extra = append(a.extra, c)
	}
	return a, nil
}

// Human formats n in the analyzer's size mode.
func (a *Analyzer) Human(n int) string {
	s, err := filesize.Format(float64(n), a.mode)
	if err != nil {
		// mode was checked in New and n is a length
		panic(err)
	}
	return s
}

// Analyze writes the size line for p, then a summary of every transaction
// and span it carries. Nothing is written when p cannot be encoded.
func (a *Analyzer) Analyze(w io.Writer, p *payload.Mapping) (*Result, error) {
	raw, err := payload.Canonical(p)
	if err != nil {
		return nil, err
	}

	gz, err := compression.Measure(a.gzip, raw)
	if err != nil {
		return nil, err
	}
	res := &Result{RawSize: gz.OriginalSize, CompressedSize: gz.CompressedSize}

	for _, c := range a.extra {
		size, err := compression.Measure(c, raw)
		if err != nil {
			return nil, err
		}
		res.Extra = append(res.Extra, size)
	}

	if _, err := fmt.Fprintf(w, "%d (%s) in (%d (%s) gz)\n",
		res.RawSize, a.Human(res.RawSize), res.CompressedSize, a.Human(res.CompressedSize)); err != nil {
		return nil, err
	}

	if len(res.Extra) > 0 {
		parts := make([]string, len(res.Extra))
		for i, s := range res.Extra {
			parts[i] = fmt.Sprintf("%s: %d (%s)", s.Algorithm, s.CompressedSize, a.Human(s.CompressedSize))
		}
		if _, err := fmt.Fprintf(w, "   %s\n", strings.Join(parts, ", ")); err != nil {
			return nil, err
		}
	}

	if err := a.summarizeTransactions(w, p, res); err != nil {
		return nil, err
	}
	return res, nil
}

func (a *Analyzer) summarizeTransactions(w io.Writer, p *payload.Mapping, res *Result) error {
	txs, ok := p.Sequence(keyTransactions)
	if !ok {
		return nil
	}

	res.Transactions = len(txs)
	if _, err := fmt.Fprintf(w, "** %d transactions\n", len(txs)); err != nil {
		return err
	}

	for _, tx := range txs {
		txm := tx.Mapping()
		if txm == nil {
			continue
		}
		if err := summary.Summarize(w, txm, keySpans); err != nil {
			return err
		}

		spans, ok := txm.Sequence(keySpans)
		if !ok {
			continue
		}
		for _, span := range spans {
			sm := span.Mapping()
			if sm == nil {
				continue
			}
			res.Spans++
			if err := summary.Summarize(w, sm, keyStacktrace); err != nil {
				return err
			}
		}
	}
	return nil
}
