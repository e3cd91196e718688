// Package store defines the card repository contract shared by the postgres
// and in-memory implementations, together with the error values callers
// match on and the transaction helper used for multi-row writes.
package store
