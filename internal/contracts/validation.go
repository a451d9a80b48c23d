package contracts

import (
	"fmt"
	"strings"
)

// ValidationError carries every schema issue found in a snapshot. A snapshot
// that fails validation is untrustworthy: downstream consumers must not
// render a signal from it.
type ValidationError struct {
	Issues []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("snapshot validation failed: %s", strings.Join(e.Issues, "; "))
}

// Add records one issue.
func (e *ValidationError) Add(format string, args ...interface{}) {
	e.Issues = append(e.Issues, fmt.Sprintf(format, args...))
}

// OrNil returns the error when at least one issue was recorded.
func (e *ValidationError) OrNil() error {
	if len(e.Issues) == 0 {
		return nil
	}
	return e
}
