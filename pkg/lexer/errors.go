package lexer

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrorKind tags a lexical failure.
type ErrorKind string

// Error kinds.
const (
	// NumberError marks a malformed numeric literal.
	NumberError ErrorKind = "NumberError"
	// ExpressionError marks a malformed expression structure.
	ExpressionError ErrorKind = "ExpressionError"
)

// LexError is returned by Scan when the input is rejected.
type LexError struct {
	Kind    ErrorKind
	Message string
	Pos     int // byte offset of the offending character, len(input) at end of input
}

// Error implements the error interface.
func (e *LexError) Error() string {
	return fmt.Sprintf("%s: %s (position %d)", e.Kind, e.Message, e.Pos)
}

// ToMap returns the {"kind","message","position"} payload shared by the
// HTTP, gRPC and CLI outputs.
func (e *LexError) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"kind":     string(e.Kind),
		"message":  e.Message,
		"position": e.Pos,
	}
}

// MarshalJSON implements json.Marshaler.
func (e *LexError) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.ToMap())
}

// MarshalYAML implements yaml.Marshaler.
func (e *LexError) MarshalYAML() (interface{}, error) {
	return e.ToMap(), nil
}

// NewNumberError creates a NumberError.
func NewNumberError(pos int, msg string) *LexError {
	return &LexError{Kind: NumberError, Message: msg, Pos: pos}
}

// NewExpressionError creates an ExpressionError.
func NewExpressionError(pos int, msg string) *LexError {
	return &LexError{Kind: ExpressionError, Message: msg, Pos: pos}
}

// KindOf returns the kind of a LexError anywhere in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var le *LexError
	if errors.As(err, &le) {
		return le.Kind, true
	}
	return "", false
}

// IsNumberError reports whether err is a NumberError.
func IsNumberError(err error) bool {
	k, ok := KindOf(err)
	return ok && k == NumberError
}

// IsExpressionError reports whether err is an ExpressionError.
func IsExpressionError(err error) bool {
	k, ok := KindOf(err)
	return ok && k == ExpressionError
}
