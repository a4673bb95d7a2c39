package config

import (
	"os"
	"strconv"
	"strings"
)

// Settings control the tool itself, as opposed to the document it reads.
type Settings struct {
	LogLevel    string
	LogFormat   string
	SizeMode    string
	GzipLevel   int
	KeepGoing   bool
	ShowRate    bool
	ExtraCodecs []string
	MetricsFile string
}

// DefaultSettings reproduces the plain report: decimal sizes, gzip only,
// stop at the first bad target.
func DefaultSettings() *Settings {
	return &Settings{
		LogLevel:  "warn",
		LogFormat: "console",
		SizeMode:  "decimal",
		GzipLevel: 9,
	}
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv(s *Settings) {
	s.LogLevel = GetEnvOrDefault("LOADSIZE_LOG_LEVEL", s.LogLevel)
	s.LogFormat = GetEnvOrDefault("LOADSIZE_LOG_FORMAT", s.LogFormat)
	s.SizeMode = GetEnvOrDefault("LOADSIZE_SIZE_MODE", s.SizeMode)
	s.MetricsFile = GetEnvOrDefault("LOADSIZE_METRICS_FILE", s.MetricsFile)

	if v := os.Getenv("LOADSIZE_GZIP_LEVEL"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			s.GzipLevel = n
		}
	}
	if v := os.Getenv("LOADSIZE_KEEP_GOING"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			s.KeepGoing = b
		}
	}
	if v := os.Getenv("LOADSIZE_RATE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			s.ShowRate = b
		}
	}
	if v := os.Getenv("LOADSIZE_EXTRA_CODECS"); v != "" {
		s.ExtraCodecs = nil
		for _, c := range strings.Split(v, ",") {
			if c = strings.TrimSpace(c); c != "" {
				s.ExtraCodecs = append(s.ExtraCodecs, c)
			}
		}
	}
}

// GetEnvOrDefault returns environment variable or default value
func GetEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
