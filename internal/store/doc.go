// Package store keeps a durable log of sorting runs in SQLite.
//
// Each run is one row in runs (input, final contents, terminal status, trace
// hash) plus its mutation events in mutations, keyed by the run's logical
// sequence numbers. Events are always read back ORDER BY seq ASC, so a
// stored run can be replayed and checked against its recorded output.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Mutations must belong to a known run
//
// Recorder is an engine.Observer that writes runs into a Store as they
// happen.
package store
