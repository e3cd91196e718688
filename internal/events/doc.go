// Package events carries review outcomes from the review service to whatever
// records them.
//
// The service emits a ReviewEvent after every persisted rating and never
// learns which handlers consume it. Handlers registered with the emitter
// decide what to do with the event; the server wires one that hands events
// to the background task queue for delivery.
package events
