package main

import (
	"context"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/FairForge/loadsize/internal/analyzer"
	"github.com/FairForge/loadsize/internal/compression"
	"github.com/FairForge/loadsize/internal/config"
	"github.com/FairForge/loadsize/internal/filesize"
	"github.com/FairForge/loadsize/internal/logging"
	"github.com/FairForge/loadsize/internal/metrics"
	"github.com/FairForge/loadsize/internal/reporting"
)

func newRootCmd() *cobra.Command {
	settings := config.DefaultSettings()
	config.LoadFromEnv(settings)

	cmd := &cobra.Command{
		Use:           "loadsize [flags] <loadbeat.yml|->",
		Short:         "Summarize the size and shape of loadbeat target payloads",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr(), args[0], settings)
		},
	}

	cmd.Flags().StringVar(&settings.SizeMode, "size-mode", settings.SizeMode, "Size units: decimal, binary or gnu")
	cmd.Flags().IntVar(&settings.GzipLevel, "gzip-level", settings.GzipLevel, "Gzip level for the gz size, -2 (huffman only) to 9; 0 keeps the default")
	cmd.Flags().BoolVar(&settings.KeepGoing, "keep-going", settings.KeepGoing, "Report every target and fail at the end instead of stopping at the first bad body")
	cmd.Flags().BoolVar(&settings.ShowRate, "rate", settings.ShowRate, "Print wire bytes per second at each target's qps")
	cmd.Flags().StringSliceVar(&settings.ExtraCodecs, "extra-codecs", settings.ExtraCodecs, "Also report sizes for these codecs (zstd, snappy)")
	cmd.Flags().StringVar(&settings.MetricsFile, "metrics-file", settings.MetricsFile, "Write payload gauges to this Prometheus textfile")
	cmd.Flags().StringVar(&settings.LogLevel, "log-level", settings.LogLevel, "Log level: debug, info, warn or error")
	cmd.Flags().StringVar(&settings.LogFormat, "log-format", settings.LogFormat, "Log format: console or json")
	return cmd
}

func run(ctx context.Context, stdin io.Reader, stdout, stderr io.Writer, path string, s *config.Settings) error {
	logger, err := logging.NewLogger(&logging.LoggerConfig{
		Level:  s.LogLevel,
		Format: s.LogFormat,
		Output: stderr,
	})
	if err != nil {
		return err
	}
	logger = logging.WithRunID(logger)
	defer func() { _ = logger.Sync() }()

	mode, err := filesize.ParseMode(s.SizeMode)
	if err != nil {
		return err
	}
	codecs := make([]compression.Algorithm, 0, len(s.ExtraCodecs))
	for _, c := range s.ExtraCodecs {
		codecs = append(codecs, compression.Algorithm(c))
	}
	a, err := analyzer.New(&analyzer.Config{
		SizeMode:    mode,
		GzipLevel:   s.GzipLevel,
		ExtraCodecs: codecs,
	})
	if err != nil {
		return err
	}

	var doc *config.Document
	if path == "-" {
		doc, err = config.Load(stdin)
	} else {
		doc, err = config.LoadFile(path)
	}
	if err != nil {
		return err
	}
	logger.Info("loaded config",
		zap.String("path", path),
		zap.Int("targets", len(doc.Loadbeat.Targets)))

	r := reporting.NewReporter(&reporting.ReporterConfig{
		Output:       stdout,
		KeepGoing:    s.KeepGoing,
		ShowRate:     s.ShowRate,
		Uncompressed: !doc.Loadbeat.Compression.IsEnabled(),
		BaseURLCount: len(doc.Loadbeat.BaseURLs),
	}, a, logger)

	var m *metrics.Metrics
	if s.MetricsFile != "" {
		m = metrics.NewMetrics()
		r.WithMetrics(m)
	}

	reportErr := r.Report(ctx, doc.Loadbeat.Targets)
	if m != nil {
		if err := m.WriteTextfile(s.MetricsFile); err != nil {
			reportErr = multierr.Append(reportErr, err)
		}
	}
	return reportErr
}
