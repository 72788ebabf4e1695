// Package types defines the shared data model for the priority engine.
package types

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// ValueKind identifies the shape of a loosely-typed criterion value.
type ValueKind string

// Supported criterion value shapes
const (
	// ValueNumeric is a floating-point measurement (e.g., effort, revenue)
	ValueNumeric ValueKind = "numeric"
	// ValueCategorical is a named category (e.g., "high", "medium", "low")
	ValueCategorical ValueKind = "categorical"
	// ValueBoolean is a yes/no flag (e.g., "has executive sponsor")
	ValueBoolean ValueKind = "boolean"
)

// CriterionValue is a tagged union over the raw value shapes that external
// item sources supply. Unrecognized shapes are rejected at ingestion rather
// than coerced at use-time.
type CriterionValue struct {
	Kind     ValueKind
	Number   float64
	Category string
	Flag     bool
}

// Numeric creates a numeric criterion value.
func Numeric(v float64) CriterionValue {
	return CriterionValue{Kind: ValueNumeric, Number: v}
}

// Categorical creates a categorical criterion value.
func Categorical(category string) CriterionValue {
	return CriterionValue{Kind: ValueCategorical, Category: category}
}

// Boolean creates a boolean criterion value.
func Boolean(flag bool) CriterionValue {
	return CriterionValue{Kind: ValueBoolean, Flag: flag}
}

// String returns a human-readable rendition of the value for diagnostics.
func (v CriterionValue) String() string {
	switch v.Kind {
	case ValueNumeric:
		return strconv.FormatFloat(v.Number, 'g', -1, 64)
	case ValueCategorical:
		return v.Category
	case ValueBoolean:
		return strconv.FormatBool(v.Flag)
	default:
		return fmt.Sprintf("(unknown kind %q)", string(v.Kind))
	}
}

// UnmarshalJSON accepts a JSON number, string, or boolean and tags it with
// the matching kind. Any other JSON shape (object, array, null) is rejected
// so that malformed item data fails at ingestion.
func (v *CriterionValue) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to parse criterion value: %w", err)
	}

	switch typed := raw.(type) {
	case float64:
		*v = Numeric(typed)
	case string:
		*v = Categorical(typed)
	case bool:
		*v = Boolean(typed)
	default:
		return fmt.Errorf("unsupported criterion value shape %T (want number, string, or boolean)", raw)
	}
	return nil
}

// MarshalJSON renders the value back to its native JSON shape.
func (v CriterionValue) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case ValueNumeric:
		return json.Marshal(v.Number)
	case ValueCategorical:
		return json.Marshal(v.Category)
	case ValueBoolean:
		return json.Marshal(v.Flag)
	default:
		return nil, fmt.Errorf("cannot marshal criterion value with unknown kind %q", string(v.Kind))
	}
}
