// Package pg wires PostgreSQL through a pgx connection pool.
//
// Connect parses Config (PG_* env vars), opens the pool and retries the
// initial ping. Migrate runs goose migrations from an fs.FS, so the binary
// can ship its schema embedded (see package db). Error helpers classify pgx
// errors without leaking driver types to callers.
package pg
