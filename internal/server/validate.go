package server

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// coerceFloat accepts the number shapes a JSON body can carry (float, string,
// json.Number) and rejects NaN and infinities outright.
func coerceFloat(v any) (float64, bool) {
	var f float64

	switch value := v.(type) {
	case float64:
		f = value
	case int:
		f = float64(value)
	case json.Number:
		parsed, err := value.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}

	return f, true
}

// coerceInt is coerceFloat restricted to whole numbers.
func coerceInt(v any) (int, bool) {
	f, ok := coerceFloat(v)
	if !ok || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}
