package matching

import (
	"errors"
	"fmt"
)

// ErrUnsupportedOperation is returned when an operation is not allowed in
// the current state, such as mutating a frozen request specification.
var ErrUnsupportedOperation = errors.New("unsupported operation")

// ConfigurationError reports a matcher that cannot be constructed, such as
// a malformed regular expression. It is always returned at construction
// time; matching itself never fails.
type ConfigurationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ConfigurationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("configuration error on %s: %s: %v", e.Field, e.Message, e.Err)
	}
	return fmt.Sprintf("configuration error on %s: %s", e.Field, e.Message)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

func configErr(field, message string, err error) *ConfigurationError {
	return &ConfigurationError{Field: field, Message: message, Err: err}
}
