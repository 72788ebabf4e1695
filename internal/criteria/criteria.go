package criteria

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/priority-engine/internal/types"
)

// Polarity declares which direction of a raw value is better.
type Polarity string

// Supported polarities
const (
	HigherIsBetter Polarity = "higher_is_better"
	LowerIsBetter  Polarity = "lower_is_better"
)

// Method selects how raw values are normalized to [0,1].
type Method string

// Supported normalization methods
const (
	// MethodMinMax clamps a numeric value to [Min,Max] then scales linearly
	MethodMinMax Method = "minmax"
	// MethodValueMap maps a categorical value through a fixed value map
	MethodValueMap Method = "value_map"
	// MethodBoolean maps true to 1.0 and false to 0.0
	MethodBoolean Method = "boolean"
)

// Spec defines a single prioritization criterion. Immutable per session.
type Spec struct {
	Name                string             `json:"name" validate:"required"`
	Description         string             `json:"description"`
	DataSourceKey       string             `json:"data_source_key"`
	Polarity            Polarity           `json:"polarity"`
	Method              Method             `json:"method" validate:"required"`
	Min                 float64            `json:"min,omitempty"`
	Max                 float64            `json:"max,omitempty"`
	ValueMap            map[string]float64 `json:"value_map,omitempty"`
	Default             *float64           `json:"default,omitempty"`
	EnhancementEligible bool               `json:"enhancement_eligible"`
}

// AlignmentConfig configures how the strategic-alignment component blends
// with the AHP-weighted criteria. Alignment is treated as one configurable
// weighted factor rather than a hardcoded formula.
type AlignmentConfig struct {
	// Share is the blend share of the alignment component in the final
	// score: final = (1-Share)*ahp + Share*alignment. Nil means unset and
	// falls back to DefaultAlignmentShare; an explicit zero disables the
	// alignment component.
	Share *float64 `json:"share,omitempty" validate:"omitempty,gte=0,lte=1"`
	// EnhancementEligible gates whether the enhancement adapter may refine
	// alignment scores for this criteria set.
	EnhancementEligible bool `json:"enhancement_eligible"`
}

// DefaultAlignmentShare is the blend share used when the configuration
// leaves it unset.
const DefaultAlignmentShare = 0.25

// Set is a validated, ordered collection of criteria. The order defines the
// row/column order of the pairwise comparison matrix.
type Set struct {
	specs        []Spec
	byName       map[string]int
	share        float64
	allowEnhance bool
}

// DefineCriteria validates the given specs and builds a criteria set.
// It rejects duplicate names, malformed normalization ranges, and polarity
// conflicts with a ConfigurationError.
func DefineCriteria(specs []Spec, alignment AlignmentConfig) (*Set, error) {
	if len(specs) == 0 {
		return nil, &ConfigurationError{Message: "at least one criterion is required"}
	}

	validate := validator.New()
	byName := make(map[string]int, len(specs))
	for i, spec := range specs {
		if err := validate.Struct(spec); err != nil {
			return nil, &ConfigurationError{Criterion: spec.Name, Message: err.Error()}
		}
		if _, exists := byName[spec.Name]; exists {
			return nil, &ConfigurationError{Criterion: spec.Name, Message: "duplicate criterion name"}
		}
		if err := validateSpec(spec); err != nil {
			return nil, err
		}
		byName[spec.Name] = i
	}

	if err := validate.Struct(alignment); err != nil {
		return nil, &ConfigurationError{Criterion: "alignment", Message: err.Error()}
	}
	share := DefaultAlignmentShare
	if alignment.Share != nil {
		share = *alignment.Share
	}

	copied := make([]Spec, len(specs))
	copy(copied, specs)
	return &Set{
		specs:        copied,
		byName:       byName,
		share:        share,
		allowEnhance: alignment.EnhancementEligible,
	}, nil
}

// validateSpec checks per-method invariants of a single criterion spec.
func validateSpec(spec Spec) error {
	switch spec.Method {
	case MethodMinMax:
		if spec.Max <= spec.Min {
			return &ConfigurationError{
				Criterion: spec.Name,
				Message:   fmt.Sprintf("malformed normalization range [%g,%g]: max must exceed min", spec.Min, spec.Max),
			}
		}
		if spec.Polarity != HigherIsBetter && spec.Polarity != LowerIsBetter {
			return &ConfigurationError{Criterion: spec.Name, Message: fmt.Sprintf("unknown polarity %q", spec.Polarity)}
		}
	case MethodValueMap:
		if len(spec.ValueMap) == 0 {
			return &ConfigurationError{Criterion: spec.Name, Message: "value_map method requires a non-empty value map"}
		}
		// Mapped scores already encode direction, so declaring a polarity
		// on top of them is a conflict.
		if spec.Polarity != "" {
			return &ConfigurationError{
				Criterion: spec.Name,
				Message:   fmt.Sprintf("polarity %q conflicts with value_map scores (mapped values already encode direction)", spec.Polarity),
			}
		}
		for category, mapped := range spec.ValueMap {
			if mapped < 0 || mapped > 1 {
				return &ConfigurationError{
					Criterion: spec.Name,
					Message:   fmt.Sprintf("mapped score %g for %q is outside [0,1]", mapped, category),
				}
			}
		}
	case MethodBoolean:
		if spec.Polarity != HigherIsBetter && spec.Polarity != LowerIsBetter {
			return &ConfigurationError{Criterion: spec.Name, Message: fmt.Sprintf("unknown polarity %q", spec.Polarity)}
		}
	default:
		return &ConfigurationError{Criterion: spec.Name, Message: fmt.Sprintf("unknown normalization method %q", spec.Method)}
	}

	if spec.Default != nil && (*spec.Default < 0 || *spec.Default > 1) {
		return &ConfigurationError{Criterion: spec.Name, Message: fmt.Sprintf("default %g is outside [0,1]", *spec.Default)}
	}
	return nil
}

// Len returns the number of criteria in the set.
func (s *Set) Len() int {
	return len(s.specs)
}

// Names returns the criterion names in definition order.
func (s *Set) Names() []string {
	names := make([]string, len(s.specs))
	for i, spec := range s.specs {
		names[i] = spec.Name
	}
	return names
}

// Spec returns the criterion spec at position i in definition order.
func (s *Set) Spec(i int) Spec {
	return s.specs[i]
}

// Lookup returns the spec for a criterion name.
func (s *Set) Lookup(name string) (Spec, bool) {
	i, ok := s.byName[name]
	if !ok {
		return Spec{}, false
	}
	return s.specs[i], true
}

// AlignmentShare returns the configured blend share of the alignment
// component.
func (s *Set) AlignmentShare() float64 {
	return s.share
}

// AllowEnhancement reports whether the enhancement adapter may refine
// alignment scores for this criteria set.
func (s *Set) AllowEnhancement() bool {
	return s.allowEnhance
}

// Normalize maps a raw criterion value to [0,1] honoring the criterion's
// method and polarity. Pure and side-effect-free.
//
// Numeric values are clamped to [Min,Max] then scaled; categorical values
// pass through the fixed value map, falling back to the configured default
// or failing with an UnmappedValueError when absent.
func (s *Set) Normalize(name string, value types.CriterionValue) (float64, error) {
	spec, ok := s.Lookup(name)
	if !ok {
		return 0, &ConfigurationError{Criterion: name, Message: "criterion is not defined in this set"}
	}
	return normalize(spec, value)
}

// NormalizeMissing resolves a criterion with no supplied value: the
// configured default if present, otherwise an UnmappedValueError.
func (s *Set) NormalizeMissing(name string) (float64, error) {
	spec, ok := s.Lookup(name)
	if !ok {
		return 0, &ConfigurationError{Criterion: name, Message: "criterion is not defined in this set"}
	}
	if spec.Default != nil {
		return *spec.Default, nil
	}
	return 0, &UnmappedValueError{Criterion: name, Message: "no value supplied and no default configured"}
}

func normalize(spec Spec, value types.CriterionValue) (float64, error) {
	switch spec.Method {
	case MethodMinMax:
		if value.Kind != types.ValueNumeric {
			return 0, &UnmappedValueError{
				Criterion: spec.Name,
				Value:     value.String(),
				Message:   fmt.Sprintf("minmax criterion requires a numeric value, got %s", value.Kind),
			}
		}
		raw := value.Number
		if raw < spec.Min {
			raw = spec.Min
		}
		if raw > spec.Max {
			raw = spec.Max
		}
		scaled := (raw - spec.Min) / (spec.Max - spec.Min)
		if spec.Polarity == LowerIsBetter {
			scaled = 1.0 - scaled
		}
		return scaled, nil

	case MethodValueMap:
		if value.Kind != types.ValueCategorical {
			return 0, &UnmappedValueError{
				Criterion: spec.Name,
				Value:     value.String(),
				Message:   fmt.Sprintf("value_map criterion requires a categorical value, got %s", value.Kind),
			}
		}
		mapped, found := spec.ValueMap[value.Category]
		if !found {
			if spec.Default != nil {
				return *spec.Default, nil
			}
			return 0, &UnmappedValueError{
				Criterion: spec.Name,
				Value:     value.Category,
				Message:   "category has no mapping and no default is configured",
			}
		}
		return mapped, nil

	case MethodBoolean:
		if value.Kind != types.ValueBoolean {
			return 0, &UnmappedValueError{
				Criterion: spec.Name,
				Value:     value.String(),
				Message:   fmt.Sprintf("boolean criterion requires a boolean value, got %s", value.Kind),
			}
		}
		score := 0.0
		if value.Flag {
			score = 1.0
		}
		if spec.Polarity == LowerIsBetter {
			score = 1.0 - score
		}
		return score, nil

	default:
		// Unreachable for sets built through DefineCriteria.
		return 0, &ConfigurationError{Criterion: spec.Name, Message: fmt.Sprintf("unknown normalization method %q", spec.Method)}
	}
}
