// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package gl

import "math"

// Numeric is the closed set of value types state queries convert between.
type Numeric interface {
	bool | int32 | uint32 | int64 | float32
}

// Convert converts a query value to the requested representation.
// Floats convert to integers by rounding to nearest and saturating; any value
// converts to bool by testing against zero; integers of different width or
// signedness saturate.
func Convert[To Numeric, From Numeric](v From) To {
	var out To
	switch p := any(&out).(type) {
	case *bool:
		*p = !isZero(v)
	case *int32:
		*p = int32(clampInt(toInt64(v), math.MinInt32, math.MaxInt32))
	case *uint32:
		*p = uint32(clampInt(toInt64(v), 0, math.MaxUint32))
	case *int64:
		*p = toInt64(v)
	case *float32:
		*p = toFloat32(v)
	}
	return out
}

func isZero[From Numeric](v From) bool {
	switch x := any(v).(type) {
	case bool:
		return !x
	case int32:
		return x == 0
	case uint32:
		return x == 0
	case int64:
		return x == 0
	case float32:
		return x == 0
	}
	return true
}

func toInt64[From Numeric](v From) int64 {
	switch x := any(v).(type) {
	case bool:
		if x {
			return 1
		}
		return 0
	case int32:
		return int64(x)
	case uint32:
		return int64(x)
	case int64:
		return x
	case float32:
		r := math.Round(float64(x))
		switch {
		case math.IsNaN(r):
			return 0
		case r >= math.MaxInt64:
			return math.MaxInt64
		case r <= math.MinInt64:
			return math.MinInt64
		}
		return int64(r)
	}
	return 0
}

func toFloat32[From Numeric](v From) float32 {
	switch x := any(v).(type) {
	case bool:
		if x {
			return 1
		}
		return 0
	case int32:
		return float32(x)
	case uint32:
		return float32(x)
	case int64:
		return float32(x)
	case float32:
		return x
	}
	return 0
}

func clampInt(v, lo, hi int64) int64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
