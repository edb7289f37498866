// Package store persists memory snapshots in SQLite.
//
// A snapshot is one row in snapshots plus one row per concept in concepts.
// Concept state is stored as JSON so that a single concept can be read by
// term without decoding the rest; the term table and intake buffer are
// stored whole on the snapshot row.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Concept rows are deleted with their snapshot
//
// Ordering always uses the seq column, never timestamps.
package store
