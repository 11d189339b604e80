// Package store provides SQLite-backed durable storage for calculator
// history.
//
// The store keeps:
//   - Sessions: one row per calculator run, keyed by a UUIDv7 token
//   - Calculations: every evaluated input with its exact and approximate
//     results, the reduced tree as canonical JSON, and the trace hash
//
// # Ordering
//
// Calculations are ordered by seq INTEGER (logical clock), never by
// timestamps. Every query includes ORDER BY seq ASC, id ASC COLLATE BINARY
// so that reads are identical across replays.
//
// # Idempotency
//
// Calculation IDs are content-addressed (ir.CalculationID). Writing the same
// calculation twice is a no-op, which makes replays safe to record.
//
// # Checksum
//
// Checksum is a CRC-32 over the canonical records of a session, in order.
// It detects any change to the stored history, the same way the calculator
// firmware checks its record storage.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Deleting a session deletes its calculations
package store
