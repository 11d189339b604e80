// Package parser reads the linear syntax produced by expr.Serialize back
// into an expression tree.
//
// The grammar, from loosest to tightest binding:
//
//	sum      = product { ("+" | "-") product }
//	product  = prefix { ("*" | "/") prefix }
//	prefix   = "-" prefix | power
//	power    = atom [ "^" prefix ]
//	atom     = number | "inf" | "undef" | name | call | matrix | "(" sum ")"
//	call     = function "(" sum { "," sum } ")"
//	matrix   = "[" row { [","] row } "]"
//	row      = "[" sum { "," sum } "]"
//
// Functions are rem, quo, abs, floor, ceil, sin and cos.
//
// Literals are folded the way the serializer prints them: "-3" is the
// rational -3 rather than the opposite of 3, and "3/4" is the rational 3/4
// rather than a division. Folding only applies to number tokens written
// directly, so "-2^2" is still the opposite of 2^2 and "(3)/4" is a
// division. A run of the same operator at one level builds one n-ary node:
// "a+b+c" is a single addition with three terms while "(a+b)+c" nests.
//
// With these rules parse(serialize(t)) is structurally equal to t for every
// reduced tree t.
package parser
