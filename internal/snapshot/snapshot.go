// Package snapshot encodes lists of records for export and import. JSON is
// the default; YAML is offered for hand-edited snapshots.
package snapshot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/vaultkeeper/internal/common"
	"gopkg.in/yaml.v3"
)

type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
)

// ParseFormat accepts json, yaml or yml in any case; "" means JSON.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	}
	return "", fmt.Errorf("%w: unknown snapshot format %q", common.ErrInvalidOptions, s)
}

// Ext is the file extension for f, without the dot.
func (f Format) Ext() string {
	return string(f)
}

// Encode renders records. A nil slice encodes as an empty list.
func Encode[T any](records []T, f Format) ([]byte, error) {
	if records == nil {
		records = []T{}
	}
	switch f {
	case JSON, "":
		b, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode json: %w", err)
		}
		return append(b, '\n'), nil
	case YAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(records); err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
		return buf.Bytes(), nil
	}
	return nil, fmt.Errorf("%w: unknown snapshot format %q", common.ErrInvalidOptions, f)
}

// Decode parses a list of records.
func Decode[T any](data []byte, f Format) ([]T, error) {
	var out []T
	switch f {
	case JSON, "":
		if err := json.Unmarshal(data, &out); err != nil {
			return nil, fmt.Errorf("%w: decode json: %v", common.ErrInvalidInput, err)
		}
	case YAML:
		if err := yaml.Unmarshal(data, &out); err != nil {
			return nil, fmt.Errorf("%w: decode yaml: %v", common.ErrInvalidInput, err)
		}
	default:
		return nil, fmt.Errorf("%w: unknown snapshot format %q", common.ErrInvalidOptions, f)
	}
	return out, nil
}
