package parser

import "fmt"

// Parse error codes (E200-E209)
const (
	ErrUnexpectedCharacter = "E200" // character outside the grammar
	ErrUnexpectedToken     = "E201" // token not valid at this point
	ErrUnexpectedEnd       = "E202" // input ended inside an expression
	ErrUnknownFunction     = "E203" // name followed by "(" is not a function
	ErrArgumentCount       = "E204" // wrong number of call arguments
	ErrRaggedMatrix        = "E205" // matrix rows of different lengths
	ErrInvalidNumber       = "E206" // malformed number literal
	ErrReservedName        = "E207" // function name used as a value
)

// Error describes input that is not in the grammar.
type Error struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Position int    `json:"position"` // Byte offset into the input
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("[%s] at %d: %s", e.Code, e.Position, e.Message)
}

func errorf(code string, pos int, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Position: pos}
}
