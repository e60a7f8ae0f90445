package batch

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is the encoding of a batch file
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatHCL  Format = "hcl"
)

// DetectFormat picks the format from the file extension, falling back to the
// content: a leading '{' or '[' is JSON, a top-level block is HCL, anything
// else is treated as YAML.
func DetectFormat(name string, content []byte) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	case ".hcl":
		return FormatHCL
	}

	trimmed := bytes.TrimSpace(content)
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		return FormatJSON
	}
	if bytes.Contains(trimmed, []byte("conversion \"")) {
		return FormatHCL
	}
	return FormatYAML
}

// DecodeJSON reads a batch object, or a bare array of requests
func DecodeJSON(content []byte) (Batch, error) {
	var b Batch
	trimmed := bytes.TrimSpace(content)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &b.Requests); err != nil {
			return Batch{}, fmt.Errorf("failed to parse JSON batch: %w", err)
		}
		return b, nil
	}
	if err := json.Unmarshal(trimmed, &b); err != nil {
		return Batch{}, fmt.Errorf("failed to parse JSON batch: %w", err)
	}
	return b, nil
}

// DecodeYAML reads a batch document, or a bare sequence of requests
func DecodeYAML(content []byte) (Batch, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(content, &root); err != nil {
		return Batch{}, fmt.Errorf("failed to parse YAML batch: %w", err)
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return Batch{}, nil
	}

	var b Batch
	doc := root.Content[0]
	if doc.Kind == yaml.SequenceNode {
		if err := doc.Decode(&b.Requests); err != nil {
			return Batch{}, fmt.Errorf("failed to decode YAML batch: %w", err)
		}
		return b, nil
	}
	if err := doc.Decode(&b); err != nil {
		return Batch{}, fmt.Errorf("failed to decode YAML batch: %w", err)
	}
	return b, nil
}

// Decode reads a JSON or YAML batch. HCL batches are read by the hcl package.
func Decode(format Format, content []byte) (Batch, error) {
	switch format {
	case FormatJSON:
		return DecodeJSON(content)
	case FormatYAML:
		return DecodeYAML(content)
	default:
		return Batch{}, fmt.Errorf("unsupported batch format %q", format)
	}
}
