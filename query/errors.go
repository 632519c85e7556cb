package query

import (
	"fmt"
)

// Error types for query operations
type (
	// CompilationError indicates a query expression could not be compiled
	CompilationError struct {
		Expression string
		Reason     string
		Position   int // -1 if position is unknown
		Err        error
	}

	// EvaluationError indicates a compiled query failed against a result
	EvaluationError struct {
		Expression    string
		PurchaseToken string
		Reason        string
		Err           error
	}
)

func (e *CompilationError) Error() string {
	if e.Position >= 0 {
		return fmt.Sprintf("compilation error at position %d in '%s': %s", e.Position, e.Expression, e.Reason)
	}
	return fmt.Sprintf("compilation error in '%s': %s", e.Expression, e.Reason)
}

func (e *CompilationError) Unwrap() error {
	return e.Err
}

func (e *EvaluationError) Error() string {
	if e.PurchaseToken == "" {
		return fmt.Sprintf("evaluation error for query '%s': %s", e.Expression, e.Reason)
	}
	return fmt.Sprintf("evaluation error for query '%s' on purchase '%s': %s", e.Expression, e.PurchaseToken, e.Reason)
}

func (e *EvaluationError) Unwrap() error {
	return e.Err
}
