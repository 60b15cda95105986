package quantity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Value is an integer quantity that may be empty. An empty Value stands in for
// a numeric input that did not parse, and any arithmetic on it stays empty.
type Value struct {
	n     int
	valid bool
}

// Empty is the not-a-number quantity.
var Empty = Value{}

// Of returns a valid quantity holding n.
func Of(n int) Value {
	return Value{n: n, valid: true}
}

// FromFloat coerces a raw numeric input. NaN and infinities become Empty,
// everything else is rounded to the nearest integer.
func FromFloat(f float64) Value {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Empty
	}
	if f > math.MaxInt32 || f < math.MinInt32 {
		return Empty
	}
	return Of(int(math.Round(f)))
}

// Int returns the held integer and whether the value is valid.
func (v Value) Int() (int, bool) {
	return v.n, v.valid
}

// Valid reports whether v holds a number.
func (v Value) Valid() bool {
	return v.valid
}

// IsZero reports whether v is empty or zero.
func (v Value) IsZero() bool {
	return !v.valid || v.n == 0
}

// Add returns v+n, or Empty if v is empty.
func (v Value) Add(n int) Value {
	if !v.valid {
		return Empty
	}
	return Of(v.n + n)
}

func (v Value) String() string {
	if !v.valid {
		return "NaN"
	}
	return strconv.Itoa(v.n)
}

// MarshalJSON encodes an empty value as null.
func (v Value) MarshalJSON() ([]byte, error) {
	if !v.valid {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(v.n)), nil
}

// UnmarshalJSON accepts null, a JSON number, or an empty string. Numbers are
// coerced with FromFloat.
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) || bytes.Equal(data, []byte(`""`)) {
		*v = Empty
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("quantity must be a number or null: %w", err)
	}
	*v = FromFloat(f)
	return nil
}
