package upload

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingColumn is returned when a required input column is absent.
	ErrMissingColumn = errors.New("missing column")
	// ErrUnparseableFilename is returned when the upload filename carries no
	// DispatchHistory--YYYY-MM-DD date.
	ErrUnparseableFilename = errors.New("unparseable filename")
	// ErrMalformedFile is returned when the upload is not a readable
	// delimited table.
	ErrMalformedFile = errors.New("malformed file")
)

// MissingColumnError names the absent column.
type MissingColumnError struct {
	Name string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("%v: %s", ErrMissingColumn, e.Name)
}

// Is makes errors.Is(err, ErrMissingColumn) match.
func (e *MissingColumnError) Is(target error) bool { return target == ErrMissingColumn }

// IsClientError reports whether err is a conversion failure caused by the
// uploaded file itself, which the user can fix and retry.
func IsClientError(err error) bool {
	return errors.Is(err, ErrMissingColumn) ||
		errors.Is(err, ErrUnparseableFilename) ||
		errors.Is(err, ErrMalformedFile)
}
