// Package criteria defines prioritization criteria and value normalization.
package criteria

import "fmt"

// ConfigurationError represents a malformed criteria definition. It is
// fatal: the caller must fix the definition before retrying.
type ConfigurationError struct {
	Criterion string
	Message   string
}

func (e *ConfigurationError) Error() string {
	if e.Criterion != "" {
		return fmt.Sprintf("criteria configuration error for %q: %s", e.Criterion, e.Message)
	}
	return fmt.Sprintf("criteria configuration error: %s", e.Message)
}

// UnmappedValueError represents a raw item value that has no mapping for
// its criterion. Recoverable per item; the orchestrator's configured policy
// decides whether to skip, default, or abort.
type UnmappedValueError struct {
	Criterion string
	Value     string
	Message   string
}

func (e *UnmappedValueError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("unmapped value %q for criterion %q: %s", e.Value, e.Criterion, e.Message)
	}
	return fmt.Sprintf("unmapped value for criterion %q: %s", e.Criterion, e.Message)
}
