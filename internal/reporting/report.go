// internal/reporting/report.go
package reporting

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/FairForge/loadsize/internal/analyzer"
	"github.com/FairForge/loadsize/internal/config"
	"github.com/FairForge/loadsize/internal/metrics"
	"github.com/FairForge/loadsize/internal/payload"
)

// ErrInvalidPayloadFormat is returned when a target body is not a JSON object.
var ErrInvalidPayloadFormat = errors.New("report: invalid payload format")

// Error kinds used as metric labels
const (
	KindInvalidPayload  = "invalid_payload"
	KindPayloadEncoding = "payload_encoding"
)

// ReporterConfig configures a reporter
type ReporterConfig struct {
	Output    io.Writer
	KeepGoing bool // report every target, then return all failures
	ShowRate  bool // print wire bytes per second at the target's qps

	// Uncompressed bodies go on the wire as-is, so the rate uses the raw size.
	Uncompressed bool
	// BaseURLCount multiplies the rate; each target is driven once per base
	// URL. Zero counts as one.
	BaseURLCount int
}

// Reporter prints one block per configured target.
type Reporter struct {
	config   *ReporterConfig
	analyzer *analyzer.Analyzer
	logger   *zap.Logger
	metrics  *metrics.Metrics
}

// NewReporter creates a reporter. Output defaults to stdout.
func NewReporter(cfg *ReporterConfig, a *analyzer.Analyzer, logger *zap.Logger) *Reporter {
	if cfg == nil {
		cfg = &ReporterConfig{}
	}
	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reporter{
		config:   cfg,
		analyzer: a,
		logger:   logger,
	}
}

// WithMetrics records every analyzed target in m.
func (r *Reporter) WithMetrics(m *metrics.Metrics) *Reporter {
	r.metrics = m
	return r
}

// Report walks targets in order. By default it stops at the first target
// that fails; with KeepGoing it reports all of them and returns the combined
// failures.
func (r *Reporter) Report(ctx context.Context, targets []config.Target) error {
	var errs error
	for i, t := range targets {
		if err := ctx.Err(); err != nil {
			return multierr.Append(errs, err)
		}

		err := r.reportTarget(i, t)
		if err == nil {
			continue
		}
		if !r.config.KeepGoing {
			return err
		}
		r.logger.Warn("skipping target",
			zap.Int("index", i),
			zap.String("url", t.URL),
			zap.Error(err))
		errs = multierr.Append(errs, err)
	}
	return errs
}

func (r *Reporter) reportTarget(i int, t config.Target) error {
	w := r.config.Output
	if _, err := fmt.Fprintf(w, "type: %s, concurrent: %d, qps: %s - ", t.URL, t.Concurrent, formatQPS(t.QPS)); err != nil {
		return err
	}
	if !t.HasBody() {
		_, err := fmt.Fprintln(w)
		return err
	}

	p, err := payload.Parse(*t.Body)
	if err != nil {
		err = fmt.Errorf("%w: target %d (%s): %w", ErrInvalidPayloadFormat, i, t.URL, err)
		return r.fail(KindInvalidPayload, err)
	}

	res, err := r.analyzer.Analyze(w, p)
	if err != nil {
		if errors.Is(err, payload.ErrPayloadEncoding) {
			err = fmt.Errorf("target %d (%s): %w", i, t.URL, err)
			return r.fail(KindPayloadEncoding, err)
		}
		return err
	}

	if r.config.ShowRate {
		if err := r.writeRate(res, t.QPS); err != nil {
			return err
		}
	}

	r.logger.Debug("analyzed target",
		zap.Int("index", i),
		zap.String("url", t.URL),
		zap.String("method", t.Method),
		zap.Int("raw_bytes", res.RawSize),
		zap.Int("gzip_bytes", res.CompressedSize),
		zap.Int("transactions", res.Transactions),
		zap.Int("spans", res.Spans))

	if r.metrics != nil {
		r.metrics.RecordPayload(metrics.PayloadSample{
			Index:          i,
			URL:            t.URL,
			RawSize:        res.RawSize,
			CompressedSize: res.CompressedSize,
			Transactions:   res.Transactions,
			Spans:          res.Spans,
		})
	}
	return nil
}

func (r *Reporter) writeRate(res *analyzer.Result, qps float64) error {
	size := res.CompressedSize
	if r.config.Uncompressed {
		size = res.RawSize
	}
	fanout := max(r.config.BaseURLCount, 1)
	perSecond := int(float64(size) * qps * float64(fanout))

	line := fmt.Sprintf("~ %s/s at %s qps", r.analyzer.Human(perSecond), formatQPS(qps))
	if fanout > 1 {
		line += fmt.Sprintf(" x %d base urls", fanout)
	}
	_, err := fmt.Fprintln(r.config.Output, line)
	return err
}

// fail terminates the target's line with the error and counts it.
func (r *Reporter) fail(kind string, err error) error {
	if r.metrics != nil {
		r.metrics.RecordError(kind)
	}
	if _, werr := fmt.Fprintf(r.config.Output, "error: %v\n", err); werr != nil {
		return multierr.Append(err, werr)
	}
	return err
}

// formatQPS drops the fraction of whole numbers: 10, 2.5.
func formatQPS(qps float64) string {
	return strconv.FormatFloat(qps, 'f', -1, 64)
}
