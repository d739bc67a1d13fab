package app

import (
	"errors"
	"fmt"
)

// ValidationError reports a request that failed validation before reaching
// the core services. The web adapter maps it to 422.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// IsValidation reports whether err is a request validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
