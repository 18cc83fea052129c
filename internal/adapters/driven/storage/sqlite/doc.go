// Package sqlite provides a SQLite-backed implementation of the ChunkStore
// driven port.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO, enabling easy cross-compilation. The vector index holds
// only chunk ids; this store is the source of truth for chunk text and
// metadata, and search hits are hydrated against it.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql
// files.
//
// # Data Location
//
// By default, the database is stored at ~/.samarth/data/chunks.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking
// provided by SQLite in WAL mode.
package sqlite
