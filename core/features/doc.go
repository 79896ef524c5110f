// Package features turns categorical station identifiers into the numeric
// matrix layout a failure model was trained on.
//
// Encoding is a plain one-hot over the observed identifiers. Alignment then
// projects that encoding onto the model's declared feature list: unknown
// identifiers are dropped (their row stays all zero) and missing features are
// zero columns, so the output always has exactly the model's columns in the
// model's order.
package features
