package audio

import (
	"errors"
	"fmt"
)

// ErrStartup is matched by every StartupError.
var ErrStartup = errors.New("audio startup failed")

// StartupError reports that the host stream could not be started. The engine
// is left stopped.
type StartupError struct {
	Op  string
	Err error
}

func (e *StartupError) Error() string {
	return fmt.Sprintf("%v: %s: %v", ErrStartup, e.Op, e.Err)
}

func (e *StartupError) Unwrap() []error {
	return []error{ErrStartup, e.Err}
}
