// Package lexer implements the scanner for simple arithmetic expressions:
// non-negative decimal numbers separated by single-character operators.
//
// The scanner is a finite-state machine driven by the transition table in
// table.go. It reads the input one rune at a time and either returns the full
// token sequence or the first error it meets. No partial results are
// returned.
package lexer

import (
	"errors"
	"strconv"
	"strings"

	"github.com/lemonberrylabs/arith-lexer/pkg/token"
)

// Transition records one character consumed by the scanner.
type Transition struct {
	Pos  int
	Char rune
	From State
	To   State
}

// Lexer tokenizes a single arithmetic expression. A Lexer is used once;
// create a new one per input.
type Lexer struct {
	input  string
	state  State
	buf    strings.Builder
	tokens []token.Token
	trace  []Transition
	record bool
}

// NewLexer creates a new lexer for the given input.
func NewLexer(input string) *Lexer {
	return &Lexer{input: input, state: StateStart}
}

// Scan tokenizes input. On failure the error is a *LexError.
func Scan(input string) ([]token.Token, error) {
	return NewLexer(input).Tokenize()
}

// Trace scans input and returns every transition taken, including the
// failing one when the input is rejected. The error is the same one Scan
// would return.
func Trace(input string) ([]Transition, error) {
	l := NewLexer(input)
	l.record = true
	_, err := l.Tokenize()
	return l.trace, err
}

// State returns the state the lexer is currently in.
func (l *Lexer) State() State {
	return l.state
}

// Tokenize scans the entire input and returns all tokens.
func (l *Lexer) Tokenize() ([]token.Token, error) {
	if len(l.input) == 0 {
		l.state = StateError
		return nil, NewExpressionError(0, msgEmpty)
	}

	for pos, ch := range l.input {
		if err := l.advance(pos, ch); err != nil {
			return nil, err
		}
	}

	if err := l.finish(); err != nil {
		return nil, err
	}
	return l.tokens, nil
}

// advance applies the transition for one character.
func (l *Lexer) advance(pos int, ch rune) error {
	st := transition(l.state, classOf(ch))
	if l.record {
		l.trace = append(l.trace, Transition{Pos: pos, Char: ch, From: l.state, To: st.next})
	}

	switch st.act {
	case actFail:
		l.state = StateError
		return &LexError{Kind: st.kind, Message: st.msg, Pos: pos}
	case actBegin:
		l.buf.Reset()
		l.buf.WriteRune(ch)
	case actAppend:
		l.buf.WriteRune(ch)
	case actEmitNumber:
		if err := l.emitNumber(pos); err != nil {
			return err
		}
	case actEmitNumberOp:
		if err := l.emitNumber(pos); err != nil {
			return err
		}
		l.emitOperator(ch)
	case actEmitOperator:
		l.emitOperator(ch)
	}

	l.state = st.next
	return nil
}

// finish handles end of input based on the final state.
func (l *Lexer) finish() error {
	end := len(l.input)
	switch l.state {
	case StateDecimal:
		if strings.HasSuffix(l.buf.String(), ".") {
			l.state = StateError
			return NewNumberError(end, msgEndOnDot)
		}
		return l.emitNumber(end)
	case StateWhitespaceAfterNumber, StateWhitespaceAfterOperator:
		l.state = StateError
		return NewExpressionError(end, msgEndOnWhitespace)
	case StateAfterOperator:
		l.state = StateError
		return NewExpressionError(end, msgEndOnOperator)
	case StateIntegerDigits, StateLeadingZero:
		return l.emitNumber(end)
	default:
		l.state = StateError
		return NewExpressionError(end, msgInvalidExpression)
	}
}

// emitNumber converts the buffer into a number token and clears it. A literal
// too large for a float64 becomes +Inf rather than an error.
func (l *Lexer) emitNumber(pos int) error {
	raw := l.buf.String()
	l.buf.Reset()

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		l.state = StateError
		return NewNumberError(pos, msgInvalidChar)
	}
	l.tokens = append(l.tokens, token.NewNumber(v))
	return nil
}

func (l *Lexer) emitOperator(ch rune) {
	op, _ := token.Classify(ch)
	l.tokens = append(l.tokens, token.NewOperator(op))
}
