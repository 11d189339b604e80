// Package expr defines the expression tree: the node variants stored in a
// pool.Arena, their local reduction laws, numeric approximation,
// serialization and display layout.
//
// An Expression is a non-owning view of a node. Trees are built with a
// Builder and mutated only through ReplaceWithInPlace, which splices a new
// subtree into the position the old one held and releases the old nodes.
//
// Every variant provides four behaviors:
//
//   - shallow reduce: the variant's simplification law, assuming its children
//     are already reduced. It returns the node unchanged, or the replacement it
//     spliced in. Mathematically invalid input yields the Undefined or
//     Infinity terminals, never an error. Errors are reserved for arena
//     exhaustion.
//   - approximate: numeric evaluation over float32 or float64, see
//     Approximate.
//   - serialize: the textual form read back by the parser package.
//   - layout: a layout.Node for two-dimensional display.
//
// The post-order traversal that drives shallow reduction over a whole tree
// lives in the engine package.
package expr
