package services

import (
	"fmt"
	"math"
	"strings"

	"github.com/spf13/cast"
)

// Loose scalar coercions for configuration values decoded from YAML or JSON.
// Numbers return an error instead of guessing when a value cannot be read.

// float64(math.MaxInt) rounds up to 2^63, the first value out of range.
const maxIntFloat = float64(math.MaxInt)

func trimmed(v any) any {
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s)
	}
	return v
}

func toFloat(v any) (float64, error) {
	if _, isBool := v.(bool); isBool {
		return 0, fmt.Errorf("value of type %T is not a number", v)
	}

	f, err := cast.ToFloat64E(trimmed(v))
	if err != nil {
		return 0, fmt.Errorf("parse number %v: %w", v, err)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("number %v is not finite", f)
	}
	return f, nil
}

// toInt applies the same range rule to every numeric kind; floats truncate
// toward zero.
func toInt(v any) (int, error) {
	f, err := toFloat(v)
	if err != nil {
		return 0, err
	}
	if f >= maxIntFloat || f < math.MinInt {
		return 0, fmt.Errorf("integer %v out of range", v)
	}

	switch v.(type) {
	case float32, float64:
		return int(f), nil
	}

	i, err := cast.ToIntE(trimmed(v))
	if err != nil {
		return 0, fmt.Errorf("parse integer %v: %w", v, err)
	}
	return i, nil
}

func toString(v any) string {
	if s, ok := v.(fmt.Stringer); ok {
		return s.String()
	}
	if s, err := cast.ToStringE(v); err == nil {
		return s
	}
	return fmt.Sprint(v)
}
