package model

import (
	"encoding/json"
	"fmt"
)

// ValueKind identifies which variant a Value holds
type ValueKind string

const (
	KindNumber   ValueKind = "number"   // Numeric score, always clamped to [0,1]
	KindCategory ValueKind = "category" // Categorical string (e.g., "gen-z", "deadpan")
	KindBool     ValueKind = "bool"     // Boolean flag (e.g., requires_acting)
)

// Value is the tagged union used for signal fields and extracted criteria.
// Exactly one variant is meaningful, selected by Kind.
type Value struct {
	Kind     ValueKind `json:"kind"`
	Number   float64   `json:"number,omitempty"`
	Category string    `json:"category,omitempty"`
	Bool     bool      `json:"bool,omitempty"`
}

// NumberValue creates a numeric value clamped to [0,1].
// Consumers (embedding text builder, UI) depend on this range.
func NumberValue(n float64) Value {
	return Value{Kind: KindNumber, Number: Clamp01(n)}
}

// CategoryValue creates a categorical value
func CategoryValue(s string) Value {
	return Value{Kind: KindCategory, Category: s}
}

// BoolValue creates a boolean value
func BoolValue(b bool) Value {
	return Value{Kind: KindBool, Bool: b}
}

// ValueFromAny coerces a loosely-typed JSON value into a tagged Value.
// Returns false when the input has no usable representation (null, object, array).
func ValueFromAny(v interface{}) (Value, bool) {
	switch t := v.(type) {
	case float64:
		return NumberValue(t), true
	case int:
		return NumberValue(float64(t)), true
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return Value{}, false
		}
		return NumberValue(f), true
	case bool:
		return BoolValue(t), true
	case string:
		if t == "" {
			return Value{}, false
		}
		return CategoryValue(t), true
	default:
		return Value{}, false
	}
}

// String renders the value for prompt/report output
func (v Value) String() string {
	switch v.Kind {
	case KindNumber:
		return fmt.Sprintf("%.2f", v.Number)
	case KindCategory:
		return v.Category
	case KindBool:
		if v.Bool {
			return "true"
		}
		return "false"
	default:
		return ""
	}
}

// Equal reports whether two values hold the same variant and payload
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindNumber:
		return v.Number == o.Number
	case KindCategory:
		return v.Category == o.Category
	case KindBool:
		return v.Bool == o.Bool
	default:
		return true
	}
}

// Clamp01 clamps n to the [0,1] range
func Clamp01(n float64) float64 {
	if n < 0 {
		return 0
	}
	if n > 1 {
		return 1
	}
	return n
}
