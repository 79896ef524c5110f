// Package prediction runs a failure model over station records and attaches
// the rendered label to every row. The model is an opaque, read-only
// capability: it declares the ordered feature names it was trained on and
// returns one 0/1 label per input row. Any other label is a contract
// violation reported as ErrInvalidModelOutput.
package prediction
