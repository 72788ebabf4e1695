// Package scoring orchestrates weight derivation, normalization, alignment,
// and ranking into a single run.
package scoring

import "fmt"

// Error represents an error that occurs during run orchestration
type Error struct {
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}
