package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// ErrConfigLoad is returned when the document cannot be read, decoded or
// lacks loadbeat.targets.
var ErrConfigLoad = errors.New("config: cannot load document")

// Document is the top level of a loadbeat configuration file.
type Document struct {
	Loadbeat LoadbeatConfig `yaml:"loadbeat"`
}

// LoadbeatConfig is the loadbeat section. Each target is driven once per
// base URL.
type LoadbeatConfig struct {
	Targets     []Target          `yaml:"targets"`
	BaseURLs    []string          `yaml:"base_urls"`
	Compression CompressionConfig `yaml:"compression"`
}

// CompressionConfig says whether bodies go on the wire gzipped.
type CompressionConfig struct {
	Enabled *bool `yaml:"enabled"`
}

// IsEnabled defaults to true when the setting is absent.
func (c CompressionConfig) IsEnabled() bool {
	return c.Enabled == nil || *c.Enabled
}

// Target is one endpoint under load. Body is nil when the target has none.
type Target struct {
	URL        string  `yaml:"url"`
	Method     string  `yaml:"method"`
	Concurrent int     `yaml:"concurrent"`
	QPS        float64 `yaml:"qps"`
	Body       *string `yaml:"body"`
}

// HasBody reports whether the target carries a request body.
func (t Target) HasBody() bool {
	return t.Body != nil
}

// documentSchema only pins what the report relies on; payload contents are
// not validated.
const documentSchema = `{
  "type": "object",
  "required": ["loadbeat"],
  "properties": {
    "loadbeat": {
      "type": "object",
      "required": ["targets"],
      "properties": {
        "targets": {
          "type": "array",
          "items": {
            "type": "object",
            "required": ["url"],
            "properties": {
              "url": {"type": "string"},
              "method": {"type": "string"},
              "concurrent": {"type": "integer"},
              "qps": {"type": "number"},
              "body": {"type": ["string", "null"]}
            }
          }
        },
        "base_urls": {"type": "array", "items": {"type": "string"}},
        "compression": {
          "type": "object",
          "properties": {"enabled": {"type": "boolean"}}
        }
      }
    }
  }
}`

var schemaLoader = gojsonschema.NewStringLoader(documentSchema)

// Load reads a YAML document from r.
func Load(r io.Reader) (*Document, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigLoad, err)
	}

	var generic interface{}
	if err := yaml.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigLoad, err)
	}
	if err := validate(generic); err != nil {
		return nil, err
	}

	var doc Document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigLoad, err)
	}
	for i := range doc.Loadbeat.Targets {
		if doc.Loadbeat.Targets[i].Method == "" {
			doc.Loadbeat.Targets[i].Method = "GET"
		}
	}
	return &doc, nil
}

// LoadFile reads the document at path; "-" reads standard input.
func LoadFile(path string) (*Document, error) {
	if path == "-" {
		return Load(os.Stdin)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigLoad, err)
	}
	defer func() { _ = f.Close() }()

	return Load(f)
}

func validate(generic interface{}) error {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewGoLoader(generic))
	if err != nil {
		return fmt.Errorf("%w: schema validation error: %v", ErrConfigLoad, err)
	}

	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return fmt.Errorf("%w: %s", ErrConfigLoad, strings.Join(msgs, "; "))
	}
	return nil
}
