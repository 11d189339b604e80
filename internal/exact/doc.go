// Package exact provides the arbitrary-precision integers and rationals used
// by every reduction rule.
//
// Integers are sign and magnitude, with zero canonically non-negative. Their
// magnitude is bounded by MaxBits: a result that would exceed it is the
// overflow integer, which every later operation propagates. Overflow is a
// state, never a wraparound.
//
// Rationals keep a signed numerator over a strictly positive denominator.
// Arithmetic is exact and does not reduce to lowest terms; call Normalize
// before comparing representations or printing.
//
// Division by zero is a precondition violation and panics. Callers check
// IsZero first and route to the infinity or undefined terminals.
package exact
