// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package normalize

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Raw is one provider-specific result as decoded from the upstream
// response. Accessors never fail: a missing key, a nil value, or a value of
// the wrong shape is reported as absent.
type Raw map[string]any

// Get walks path through nested objects and returns the value found.
func (r Raw) Get(path ...string) (any, bool) {
	var cur any = map[string]any(r)
	for _, key := range path {
		m, ok := asMap(cur)
		if !ok {
			return nil, false
		}
		cur, ok = m[key]
		if !ok || cur == nil {
			return nil, false
		}
	}
	return cur, true
}

// String returns the trimmed string at path, or "" when absent. Numbers
// are formatted without a fractional part when they are whole.
func (r Raw) String(path ...string) string {
	v, ok := r.Get(path...)
	if !ok {
		return ""
	}
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case float64:
		if s == math.Trunc(s) {
			return strconv.FormatInt(int64(s), 10)
		}
		return strconv.FormatFloat(s, 'f', -1, 64)
	case int:
		return strconv.Itoa(s)
	case json.Number:
		return s.String()
	case bool:
		return strconv.FormatBool(s)
	default:
		return ""
	}
}

// Map returns the nested object at path, or nil when absent.
func (r Raw) Map(path ...string) Raw {
	v, ok := r.Get(path...)
	if !ok {
		return nil
	}
	m, ok := asMap(v)
	if !ok {
		return nil
	}
	return Raw(m)
}

// Slice returns the elements of the array at path that are objects.
// Non-object elements are skipped.
func (r Raw) Slice(path ...string) []Raw {
	v, ok := r.Get(path...)
	if !ok {
		return nil
	}
	items, ok := v.([]any)
	if !ok {
		if typed, ok := v.([]Raw); ok {
			return typed
		}
		if typed, ok := v.([]map[string]any); ok {
			out := make([]Raw, len(typed))
			for i, m := range typed {
				out[i] = Raw(m)
			}
			return out
		}
		return nil
	}
	var out []Raw
	for _, item := range items {
		if m, ok := asMap(item); ok {
			out = append(out, Raw(m))
		}
	}
	return out
}

// Strings returns the string elements of the array at path.
func (r Raw) Strings(path ...string) []string {
	v, ok := r.Get(path...)
	if !ok {
		return nil
	}
	var out []string
	switch items := v.(type) {
	case []string:
		for _, s := range items {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	case []any:
		for _, item := range items {
			if s, ok := item.(string); ok {
				if s = strings.TrimSpace(s); s != "" {
					out = append(out, s)
				}
			}
		}
	}
	return out
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case Raw:
		return map[string]any(m), true
	default:
		return nil, false
	}
}

// DecodeResults unmarshals body and returns the objects in the array stored
// under key. It reports an error when body is not a JSON object or the key
// is missing, which callers treat as a structurally empty response.
func DecodeResults(body []byte, key string) (Raw, []Raw, error) {
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, nil, fmt.Errorf("decoding response: %w", err)
	}
	raw := Raw(payload)
	if _, ok := payload[key]; !ok {
		return raw, nil, fmt.Errorf("response carries no %q list", key)
	}
	return raw, raw.Slice(key), nil
}
