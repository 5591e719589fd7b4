package jsonutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// IsNull reports whether raw is absent, empty, or the JSON literal null.
func IsNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || string(trimmed) == "null"
}

// FlexibleStringValue converts a json.RawMessage to a string, handling cases where
// the API returns numbers or booleans instead of strings. Returns empty string for null/empty.
func FlexibleStringValue(raw json.RawMessage) string {
	if s := FlexibleString(raw); s != nil {
		return *s
	}
	return ""
}

// FlexibleString converts a json.RawMessage to an optional string.
// Absent and null values return nil; an empty JSON string stays "".
func FlexibleString(raw json.RawMessage) *string {
	if IsNull(raw) {
		return nil
	}

	var strVal string
	if err := json.Unmarshal(raw, &strVal); err == nil {
		return &strVal
	}

	if n, ok := decodeNumber(raw); ok {
		var s string
		if i, err := n.Int64(); err == nil {
			s = strconv.FormatInt(i, 10)
		} else if f, err := n.Float64(); err == nil {
			s = strconv.FormatFloat(f, 'g', -1, 64)
		} else {
			s = n.String()
		}
		return &s
	}

	var boolVal bool
	if err := json.Unmarshal(raw, &boolVal); err == nil {
		s := fmt.Sprintf("%t", boolVal)
		return &s
	}

	// Objects and arrays keep their raw text.
	s := string(bytes.TrimSpace(raw))
	return &s
}

// FlexibleInt converts a json.RawMessage to an optional int64.
// Accepts JSON integers, integral floats (1985.0) and numeric strings ("1985").
// Anything else, including fractional numbers, returns nil.
func FlexibleInt(raw json.RawMessage) *int64 {
	n, ok := numberFrom(raw)
	if !ok {
		return nil
	}
	if i, err := n.Int64(); err == nil {
		return &i
	}
	f, err := n.Float64()
	if err != nil || f != math.Trunc(f) || f > math.MaxInt64 || f < math.MinInt64 {
		return nil
	}
	i := int64(f)
	return &i
}

// FlexibleFloat converts a json.RawMessage to an optional float64.
// Accepts JSON numbers and numeric strings; anything else returns nil.
func FlexibleFloat(raw json.RawMessage) *float64 {
	n, ok := numberFrom(raw)
	if !ok {
		return nil
	}
	f, err := n.Float64()
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// numberFrom extracts a json.Number from either a JSON number or a string
// holding one.
func numberFrom(raw json.RawMessage) (json.Number, bool) {
	if IsNull(raw) {
		return "", false
	}
	if n, ok := decodeNumber(raw); ok {
		return n, true
	}

	var strVal string
	if err := json.Unmarshal(raw, &strVal); err != nil {
		return "", false
	}
	strVal = strings.TrimSpace(strVal)
	if strVal == "" {
		return "", false
	}
	if _, err := strconv.ParseFloat(strVal, 64); err != nil {
		return "", false
	}
	return json.Number(strVal), true
}

func decodeNumber(raw json.RawMessage) (json.Number, bool) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return "", false
	}
	n, ok := v.(json.Number)
	return n, ok
}
