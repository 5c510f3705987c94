// Package token defines the values produced by the arithmetic lexer and the
// classifier that decides which characters are operators.
package token

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
)

// OperatorKind identifies a single-character arithmetic operator.
type OperatorKind int

const (
	Plus     OperatorKind = iota // +
	Minus                        // -
	Multiply                     // *
	Divide                       // /
)

// String returns a debug-friendly name for the operator kind.
func (k OperatorKind) String() string {
	switch k {
	case Plus:
		return "PLUS"
	case Minus:
		return "MINUS"
	case Multiply:
		return "MULTIPLY"
	case Divide:
		return "DIVIDE"
	default:
		return "UNKNOWN"
	}
}

// Symbol returns the source character for the operator kind.
func (k OperatorKind) Symbol() string {
	switch k {
	case Plus:
		return "+"
	case Minus:
		return "-"
	case Multiply:
		return "*"
	case Divide:
		return "/"
	default:
		return "?"
	}
}

// Classify reports the operator kind of r. The boolean is false when r is
// not an operator.
func Classify(r rune) (OperatorKind, bool) {
	switch r {
	case '+':
		return Plus, true
	case '-':
		return Minus, true
	case '*':
		return Multiply, true
	case '/':
		return Divide, true
	}
	return 0, false
}

// Kind distinguishes number tokens from operator tokens.
type Kind int

const (
	KindNumber Kind = iota
	KindOperator
)

func (k Kind) String() string {
	if k == KindOperator {
		return "OPERATOR"
	}
	return "NUMBER"
}

// Token is a single lexical token: either a number or an operator.
type Token struct {
	kind Kind
	num  float64
	op   OperatorKind
}

// NewNumber creates a number token.
func NewNumber(v float64) Token {
	return Token{kind: KindNumber, num: v}
}

// NewOperator creates an operator token.
func NewOperator(op OperatorKind) Token {
	return Token{kind: KindOperator, op: op}
}

// Kind returns whether t is a number or an operator.
func (t Token) Kind() Kind { return t.kind }

// Number returns the numeric value. It is zero for operator tokens.
func (t Token) Number() float64 { return t.num }

// Operator returns the operator kind and whether t is an operator token.
func (t Token) Operator() (OperatorKind, bool) {
	return t.op, t.kind == KindOperator
}

// IsNumber reports whether t is a number token.
func (t Token) IsNumber() bool { return t.kind == KindNumber }

// IsOperator reports whether t is an operator token.
func (t Token) IsOperator() bool { return t.kind == KindOperator }

// Equal reports whether two tokens carry the same variant and value.
func (t Token) Equal(o Token) bool {
	if t.kind != o.kind {
		return false
	}
	if t.kind == KindOperator {
		return t.op == o.op
	}
	return t.num == o.num
}

// String formats numbers in their shortest exact form and operators as
// their symbol. Non-finite numbers use the names from wireValue.
func (t Token) String() string {
	if t.kind == KindOperator {
		return t.op.Symbol()
	}
	if s, ok := wireValue(t.num).(string); ok {
		return s
	}
	return strconv.FormatFloat(t.num, 'f', -1, 64)
}

// Map returns the wire form of t used by the JSON, YAML and gRPC surfaces:
// {"type":"NUMBER","value":9} or {"type":"OPERATOR","operator":"PLUS","symbol":"+"}.
// A literal too large for a float64 carries the value "Infinity".
func (t Token) Map() map[string]interface{} {
	if t.kind == KindOperator {
		return map[string]interface{}{
			"type":     t.kind.String(),
			"operator": t.op.String(),
			"symbol":   t.op.Symbol(),
		}
	}
	return map[string]interface{}{
		"type":  t.kind.String(),
		"value": wireValue(t.num),
	}
}

// wireValue spells non-finite numbers the way protojson does. encoding/json
// refuses to marshal them.
func wireValue(v float64) interface{} {
	switch {
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	case math.IsNaN(v):
		return "NaN"
	}
	return v
}

// MarshalJSON implements json.Marshaler.
func (t Token) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Map())
}

// MarshalYAML implements yaml.Marshaler.
func (t Token) MarshalYAML() (interface{}, error) {
	return t.Map(), nil
}

// Format renders a token list as "[9, +, 0]".
func Format(tokens []Token) string {
	parts := make([]string, len(tokens))
	for i, t := range tokens {
		parts[i] = t.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Parse converts the String form of a token back into a Token. It is used by
// conformance suites that list expected tokens as strings. Numbers must have
// the shape the lexer accepts: ASCII digits with at most one inner dot.
func Parse(s string) (Token, bool) {
	if r := []rune(s); len(r) == 1 {
		if op, ok := Classify(r[0]); ok {
			return NewOperator(op), true
		}
	}
	if !isLiteral(s) {
		return Token{}, false
	}
	// Overflow yields +Inf, matching what the lexer emits for the same text.
	v, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return Token{}, false
	}
	return NewNumber(v), true
}

func isLiteral(s string) bool {
	if s == "" || s[0] == '.' || s[len(s)-1] == '.' {
		return false
	}
	dots := 0
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '.':
			dots++
		case c < '0' || c > '9':
			return false
		}
	}
	return dots <= 1
}
