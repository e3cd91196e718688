// Package task manages background job queuing and processing.
// It delivers review events to the analytics sink on a bounded queue drained
// by a worker pool, so that rating submission never waits on the sink.
package task
