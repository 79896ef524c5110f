// Package pipeline runs the two prediction flows: pre-computed station
// tables filtered by line, and dispatch-history uploads converted to station
// records. All collaborators are carried by an explicit Context built once at
// start-up.
package pipeline
