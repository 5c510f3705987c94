package lexer

import (
	"unicode"

	"github.com/lemonberrylabs/arith-lexer/pkg/token"
)

// State is the scanner's expectation about what may legally come next.
type State int

const (
	StateStart State = iota
	StateIntegerDigits
	StateLeadingZero
	StateAfterOperator
	StateDecimal
	StateWhitespaceAfterNumber
	StateWhitespaceAfterOperator
	StateError
)

func (s State) String() string {
	switch s {
	case StateStart:
		return "START"
	case StateIntegerDigits:
		return "INTEGER_DIGITS"
	case StateLeadingZero:
		return "LEADING_ZERO"
	case StateAfterOperator:
		return "AFTER_OPERATOR"
	case StateDecimal:
		return "DECIMAL"
	case StateWhitespaceAfterNumber:
		return "WHITESPACE_AFTER_NUMBER"
	case StateWhitespaceAfterOperator:
		return "WHITESPACE_AFTER_OPERATOR"
	case StateError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// charClass groups input characters by how the transition table treats them.
type charClass int

const (
	classDigit charClass = iota // 1-9
	classZero                   // 0
	classOperator
	classWhitespace
	classDot
	classOther

	numClasses
)

func (c charClass) String() string {
	switch c {
	case classDigit:
		return "digit"
	case classZero:
		return "zero"
	case classOperator:
		return "operator"
	case classWhitespace:
		return "whitespace"
	case classDot:
		return "dot"
	default:
		return "other"
	}
}

// classOf maps a rune to its character class. Only ASCII digits count as
// digits.
func classOf(r rune) charClass {
	switch {
	case r == '0':
		return classZero
	case r >= '1' && r <= '9':
		return classDigit
	case r == '.':
		return classDot
	case unicode.IsSpace(r):
		return classWhitespace
	}
	if _, ok := token.Classify(r); ok {
		return classOperator
	}
	return classOther
}
