// Package postgres stores review cards in PostgreSQL through the pgx
// database/sql driver. The schema is embedded and applied with goose on
// startup, and driver errors are mapped onto the store sentinels.
package postgres
