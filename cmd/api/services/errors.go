package services

import (
	"errors"
	"fmt"
)

// ErrValidation marks input the caller must fix. Handlers map it to 400.
var ErrValidation = errors.New("validation failed")

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
