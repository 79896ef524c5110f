// Package events defines the pipeline events emitted on the event bus.
//
// Available event types:
//   - RunEvent: a prediction pipeline pass finished (successfully or not)
//   - ConversionEvent: an uploaded dispatch history was converted or rejected
package events
