package prediction

import (
	"errors"
	"fmt"
)

// ErrInvalidModelOutput is returned when the model produces a label outside {0,1}
// or a label count that does not match the input rows.
var ErrInvalidModelOutput = errors.New("invalid model output")

// InvalidOutputError reports the first offending label.
type InvalidOutputError struct {
	Index int
	Value int
}

func (e *InvalidOutputError) Error() string {
	return fmt.Sprintf("%v: label %d at row %d", ErrInvalidModelOutput, e.Value, e.Index)
}

// Is makes errors.Is(err, ErrInvalidModelOutput) match.
func (e *InvalidOutputError) Is(target error) bool { return target == ErrInvalidModelOutput }
