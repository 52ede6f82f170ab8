// Package schema provides centralized JSON schema versioning and
// deterministic marshaling for the JSON artifacts depyler's CLI and
// pipeline emit (diagnostic bundles, transpile results).
package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Schema version constants for depyler's externally-consumed JSON shapes.
const (
	DiagnosticsV1 = "depyler.diagnostics/v1"
	ResultV1      = "depyler.result/v1"
	ModuleV1      = "depyler.module/v1"
)

// Accepts checks if a schema version is compatible with the expected
// version. Supports forward compatibility within major versions (v1.x
// accepts v1.0).
func Accepts(got, wantPrefix string) bool {
	if got == wantPrefix {
		return true
	}
	if strings.HasPrefix(got, wantPrefix+".") {
		return true
	}
	if strings.HasSuffix(wantPrefix, "/v1") && strings.HasPrefix(got, strings.TrimSuffix(wantPrefix, "1")+"1.") {
		return true
	}
	return false
}

// MarshalDeterministic marshals a value to JSON with sorted object keys,
// so two runs over equal data produce byte-identical output (the §8.1
// determinism invariant extended to the CLI's `-format json` output mode).
func MarshalDeterministic(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("initial marshal failed: %w", err)
	}
	data := buf.Bytes()
	if len(data) > 0 && data[len(data)-1] == '\n' {
		data = data[:len(data)-1]
	}

	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return data, nil
	}
	return marshalSorted(m)
}

func marshalSorted(v any) ([]byte, error) {
	switch val := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		result := "{"
		for i, k := range keys {
			if i > 0 {
				result += ","
			}
			var keyBuf bytes.Buffer
			keyEnc := json.NewEncoder(&keyBuf)
			keyEnc.SetEscapeHTML(false)
			if err := keyEnc.Encode(k); err != nil {
				return nil, err
			}
			keyJSON := keyBuf.Bytes()
			if len(keyJSON) > 0 && keyJSON[len(keyJSON)-1] == '\n' {
				keyJSON = keyJSON[:len(keyJSON)-1]
			}

			valJSON, err := marshalSorted(val[k])
			if err != nil {
				return nil, err
			}
			result += string(keyJSON) + ":" + string(valJSON)
		}
		result += "}"
		return []byte(result), nil

	case []any:
		result := "["
		for i, item := range val {
			if i > 0 {
				result += ","
			}
			itemJSON, err := marshalSorted(item)
			if err != nil {
				return nil, err
			}
			result += string(itemJSON)
		}
		result += "]"
		return []byte(result), nil

	default:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(v); err != nil {
			return nil, err
		}
		result := buf.Bytes()
		if len(result) > 0 && result[len(result)-1] == '\n' {
			result = result[:len(result)-1]
		}
		return result, nil
	}
}

// MustValidate checks v's "schema" field (if present, as a generic map)
// against schemaName via Accepts.
func MustValidate(schemaName string, v any) error {
	if m, ok := v.(map[string]any); ok {
		if schema, ok := m["schema"].(string); ok {
			if !Accepts(schema, schemaName) {
				return fmt.Errorf("schema mismatch: got %q, want %q", schema, schemaName)
			}
		}
	}
	return nil
}

// CompactMode toggles FormatJSON between pretty-printed and compact
// output. No CLI flag sets it; it changes only through SetCompactMode.
var CompactMode = false

// SetCompactMode enables or disables compact JSON output.
func SetCompactMode(enabled bool) {
	CompactMode = enabled
}

// FormatJSON re-formats already-valid JSON data per CompactMode.
func FormatJSON(data []byte) ([]byte, error) {
	if CompactMode {
		var buf bytes.Buffer
		if err := json.Compact(&buf, data); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	var prettyBuf bytes.Buffer
	if err := json.Indent(&prettyBuf, data, "", "  "); err != nil {
		return nil, err
	}
	return prettyBuf.Bytes(), nil
}
