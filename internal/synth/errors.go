package synth

import (
	"errors"
	"fmt"
)

// ErrInvalidParameter is matched by every rejected control write.
var ErrInvalidParameter = errors.New("invalid parameter")

// ParamError describes a control value that was rejected. The previous value
// of the parameter is left in place.
type ParamError struct {
	Name  string
	Value any
}

func (e *ParamError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Name, e.Value)
}

func (e *ParamError) Unwrap() error {
	return ErrInvalidParameter
}
