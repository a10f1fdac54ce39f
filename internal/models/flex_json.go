package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// StatLine maps a category or volume column (e.g. "HR", "AB") to its raw value.
type StatLine map[string]float64

// UnmarshalJSON implements flexible JSON unmarshaling that accepts both
// numbers and string-encoded numbers. Spreadsheet exports frequently quote
// every cell; empty strings and nulls are treated as missing values.
func (s *StatLine) UnmarshalJSON(data []byte) error {
	// Fast path: every value is already a JSON number. A null would decode
	// to 0 here, so those payloads take the slow path.
	if !bytes.Contains(data, []byte("null")) {
		var native map[string]float64
		if err := json.Unmarshal(data, &native); err == nil {
			*s = native
			return nil
		}
	}

	// Slow path: value-by-value with string coercion
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("flex unmarshal: %w", err)
	}

	out := make(StatLine, len(raw))
	for key, rawVal := range raw {
		if string(rawVal) == "null" {
			continue
		}

		var n float64
		if err := json.Unmarshal(rawVal, &n); err == nil {
			out[key] = n
			continue
		}

		var str string
		if err := json.Unmarshal(rawVal, &str); err != nil {
			return fmt.Errorf("stat %q: unsupported value %s", key, string(rawVal))
		}
		str = strings.TrimSpace(str)
		if str == "" {
			continue
		}
		// ".285" style averages and "NaN"/"Inf" are accepted here; the
		// ranking pass decides what to do with non-finite values.
		f, err := strconv.ParseFloat(str, 64)
		if err != nil {
			return fmt.Errorf("stat %q: invalid number %q", key, str)
		}
		out[key] = f
	}

	*s = out
	return nil
}
