// Package sequence holds the explicit sequences of the sequence app.
//
// At most three sequences exist at a time, named u, v and w. A new sequence
// takes the first name and the first default color not in use, so removing
// v and adding a sequence brings v back with v's color. A definition is an
// expression in n, evaluated term by term with n bound to the index.
package sequence
