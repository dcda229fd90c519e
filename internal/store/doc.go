// Package store provides read-only access to the ranking database.
//
// The database holds six tables: children, behavior (scores keyed by child
// and year), households, cities, countries and elf_plan (projected
// coordinates keyed by child). The store never writes; schema management
// belongs to whoever produces the database.
//
// # Backends
//
//   - A file path or file: URI opens SQLite (github.com/mattn/go-sqlite3)
//     with mode=ro and query_only enabled.
//   - A postgres:// or postgresql:// URL opens PostgreSQL through the pgx
//     database/sql driver.
//
// # Lifetime
//
// A Store wraps one connection. Callers open it, run TopRanked, and close it
// before doing anything else with the results.
package store
