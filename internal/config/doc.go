// Package config loads the server settings: listen port and log level, the
// optional database URL, the scheduling policy and its tuning, batch sizes
// for rounds and due queues, and review event delivery. Values come from
// defaults, an optional config.yaml and SCRY_ environment variables.
package config
