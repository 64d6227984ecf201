// Package coerce converts host socket values into canonical JSON-safe values.
//
// The rules are fixed so that re-serializing a numerically identical scene
// always yields identical bytes:
//
//   - floats are rounded to 6 decimal places; NaN and infinities become nil
//   - vectors (2 to 4 components) become arrays of rounded floats in x, y, z order
//   - RGBA colors become 4-element arrays, unrounded
//   - integers, booleans, strings and enums pass through
//   - struct-like values become their name, or nil when they have none
package coerce

import (
	"fmt"
	"math"

	"github.com/matzehuels/nodetrees/pkg/scene"
)

// Precision is the number of decimal places floats are rounded to.
const Precision = 6

var scale = math.Pow10(Precision)

// Round6 rounds f to [Precision] decimal places. Values too large to carry
// a fractional part are returned unchanged.
func Round6(f float64) float64 {
	if math.Abs(f) >= 1e15 {
		return f
	}
	return math.Round(f*scale) / scale
}

// Value coerces a raw socket value of the given data type.
func Value(dataType string, raw any) any {
	switch v := raw.(type) {
	case nil:
		return nil
	case bool, string:
		return v
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil
		}
		if dataType == scene.TypeInt {
			return int64(v)
		}
		return Round6(v)
	case int:
		return coerceInt(dataType, int64(v))
	case int64:
		return coerceInt(dataType, v)
	case []float64:
		items := make([]any, len(v))
		for i, f := range v {
			items[i] = f
		}
		return array(dataType, items)
	case []any:
		return array(dataType, v)
	case map[string]any:
		if name, ok := v["name"].(string); ok {
			return name
		}
		return nil
	case fmt.Stringer:
		return v.String()
	}
	return nil
}

func coerceInt(dataType string, v int64) any {
	if dataType == scene.TypeInt {
		return v
	}
	return float64(v)
}

func array(dataType string, items []any) any {
	nums, ok := floats(items)
	if !ok {
		return nil
	}
	if dataType == scene.TypeRGBA {
		return nums
	}
	if scene.IsVectorType(dataType) || len(nums) == 2 || len(nums) == 3 {
		if len(nums) < 2 || len(nums) > 4 {
			return nil
		}
		for i := range nums {
			nums[i] = Round6(nums[i])
		}
		return nums
	}
	return nil
}

func floats(items []any) ([]float64, bool) {
	out := make([]float64, len(items))
	for i, it := range items {
		switch f := it.(type) {
		case float64:
			if math.IsNaN(f) || math.IsInf(f, 0) {
				return nil, false
			}
			out[i] = f
		case int:
			out[i] = float64(f)
		case int64:
			out[i] = float64(f)
		default:
			return nil, false
		}
	}
	return out, true
}

// TypeTag returns the type tag recorded next to a value. Vector types carry
// their arity derived from the raw value, so consumers can tell a 2D vector
// from a 3D one without looking at the array: VECTOR_2D, VECTOR_3D, ...
func TypeTag(dataType string, raw any) string {
	if !scene.IsVectorType(dataType) {
		return dataType
	}
	n := arity(raw)
	if n == 0 {
		return dataType
	}
	return fmt.Sprintf("%s_%dD", dataType, n)
}

func arity(raw any) int {
	switch v := raw.(type) {
	case []any:
		return len(v)
	case []float64:
		return len(v)
	}
	return 0
}
