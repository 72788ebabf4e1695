package types

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// WorkItem is an externally-owned, read-only work item to be ranked.
// Raw criterion values are keyed by criterion name and carry whatever shape
// the external source supplied (see CriterionValue).
type WorkItem struct {
	ID          string                    `json:"id" validate:"required"`
	Title       string                    `json:"title" validate:"required"`
	Description string                    `json:"description"`
	Values      map[string]CriterionValue `json:"values"`
}

// Validate validates the WorkItem using the validator.
func (w *WorkItem) Validate() error {
	validate := validator.New()
	return validate.Struct(w)
}

// Text returns the item's combined textual content used for alignment
// scoring.
func (w *WorkItem) Text() string {
	if w.Description == "" {
		return w.Title
	}
	return w.Title + " " + w.Description
}

// StrategyFragment is a single strategic goal, key result, or theme.
type StrategyFragment struct {
	ID     string  `json:"id" validate:"required"`
	Text   string  `json:"text" validate:"required"`
	Weight float64 `json:"weight,omitempty" validate:"gte=0"`
}

// StrategyContext is the read-only set of strategic text fragments that
// items are aligned against.
type StrategyContext struct {
	Fragments []StrategyFragment `json:"fragments" validate:"dive"`
}

// Validate validates the StrategyContext using the validator.
func (s *StrategyContext) Validate() error {
	validate := validator.New()
	return validate.Struct(s)
}

// Empty reports whether the context carries no usable fragments.
func (s *StrategyContext) Empty() bool {
	for _, f := range s.Fragments {
		if strings.TrimSpace(f.Text) != "" {
			return false
		}
	}
	return true
}

// FragmentWeight returns the fragment's aggregation weight, defaulting to
// 1.0 when unset.
func (f StrategyFragment) FragmentWeight() float64 {
	if f.Weight <= 0 {
		return 1.0
	}
	return f.Weight
}
