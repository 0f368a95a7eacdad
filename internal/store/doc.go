// Package store provides SQLite-backed build history for ffbuilder.
//
// Every build the CLI runs with --history is appended as one row in builds,
// with one row per produced document in artifacts:
//   - builds: id (UUIDv7), digests of config, database and output, outcome
//   - artifacts: key, file name, digest and size of each document, by position
//
// # Ordering
//
// All reads order by seq (an autoincrement logical clock), never by
// created_at. Ties cannot occur but the queries still add id COLLATE BINARY
// so results are identical across platforms.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
