package model

import "fmt"

// Label is the binary class returned by the failure model.
type Label int

const (
	LabelNoFailure Label = 0
	LabelFailure   Label = 1
)

// Display strings rendered for each label.
const (
	DisplayNoFailure = "no failure"
	DisplayFailure   = "will fail"
)

// Valid reports whether the label is one of the two known classes.
func (l Label) Valid() bool {
	return l == LabelNoFailure || l == LabelFailure
}

// String returns the human-readable rendering of the label.
func (l Label) String() string {
	switch l {
	case LabelNoFailure:
		return DisplayNoFailure
	case LabelFailure:
		return DisplayFailure
	default:
		return fmt.Sprintf("invalid(%d)", int(l))
	}
}
