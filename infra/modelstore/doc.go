// Package modelstore provides the failure classifier backends registered
// with the prediction package: a logistic model loaded from a JSON or YAML
// artifact and a remote model served over HTTP.
package modelstore
