// Package history persists every ck-cmd invocation in a SQLite database.
//
// Records are append-only and grouped by the run ID of the batch session
// that produced them. The store follows the same conventions as the rest of
// the module's persistence: WAL journal, a busy timeout, short retries on
// SQLITE_BUSY, and RFC3339Nano UTC timestamps stored as text.
//
// A schema_version table guards the layout. Opening a database written by a
// different schema version fails with ErrSchemaMismatch; the remedy is to
// delete the database file.
package history
