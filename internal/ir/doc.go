// Package ir is the canonical, hashable representation of calculator data:
// exported expression trees, reduction traces and calculation records.
//
// ir imports nothing internal; expr, engine and store all build on it.
//
// Constraints:
//   - No floats. Numbers that are not small integers travel as exact strings
//     ("-3/2", "1.5E3"), so identity never depends on float formatting
//   - Object keys are serialized in RFC 8785 order
//   - Strings are NFC normalized at the serialization boundary
//   - Identity uses logical sequence numbers, never wall-clock time
package ir
