// Package infra contains technical adapters: model backends, notifiers,
// run log stores, metrics exporters and the tabular reader. These packages
// depend only on the interfaces defined in the core packages.
package infra
