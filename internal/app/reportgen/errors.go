// internal/app/reportgen/errors.go
package reportgen

import "fmt"

// ValidationError is a caller-caused filter problem (HTTP 400). Message
// is user-facing and names the offending field; these are expected
// outcomes and are never logged as system errors.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// StoreError wraps a task store or directory failure (HTTP 500). The
// engine does not retry; retry policy, if any, belongs to the store
// client.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string { return fmt.Sprintf("report data fetch failed (%s): %v", e.Op, e.Err) }
func (e *StoreError) Unwrap() error { return e.Err }
