package lexer

// action is what the scanner does with the current character before moving
// to the next state.
type action int

const (
	actNone          action = iota // consume the character, emit nothing
	actBegin                       // buffer <- char
	actAppend                      // buffer += char
	actEmitNumber                  // emit Number(buffer), clear buffer
	actEmitNumberOp                // emit Number(buffer), emit Operator(char), clear buffer
	actEmitOperator                // emit Operator(char)
	actFail                        // reject the input
)

// step is one cell of the transition table.
type step struct {
	act  action
	next State
	kind ErrorKind // only for actFail
	msg  string    // only for actFail
}

func goTo(act action, next State) step { return step{act: act, next: next} }

func numberErr(msg string) step {
	return step{act: actFail, next: StateError, kind: NumberError, msg: msg}
}

func exprErr(msg string) step {
	return step{act: actFail, next: StateError, kind: ExpressionError, msg: msg}
}

// Failure reasons.
const (
	msgEmpty              = "String cannot be empty"
	msgFirstOperator      = "The first char cannot be an operator"
	msgFirstWhitespace    = "The first char cannot be a whitespace"
	msgFirstDot           = "The first char cannot be a dot"
	msgInvalidChar        = "Contain invalid char"
	msgDecimalBelowOne    = "Decimal can only be smaller than 1"
	msgDigitAfterZero     = "There cannot be any digit after zero"
	msgStartWithDot       = "A number cannot start with dot"
	msgOperatorAfterOp    = "Operator cannot be followed by an operator"
	msgOperatorAfterDot   = "There cannot be an operator after a dot"
	msgWhitespaceAfterDot = "There cannot be a whitespace after a dot"
	msgDotAfterDot        = "There cannot be a dot after a dot"
	msgSpaceBetweenDigits = "No whitespace between two digits"
	msgDotAfterWhitespace = "No dot after whitespace"
	msgConsecutiveOps     = "No two consecutive operators"
	msgEndOnDot           = "Cannot end on a '.'"
	msgEndOnWhitespace    = "cannot end with whitespace"
	msgEndOnOperator      = "Expression cannot end with an operator"
	msgInvalidExpression  = "Invalid expression"
)

// table holds every transition of the live states, indexed by character
// class. StateError has no row: it is absorbing and the scan returns as soon
// as a failing step is taken.
var table = map[State][numClasses]step{
	StateStart: {
		classDigit:      goTo(actBegin, StateIntegerDigits),
		classZero:       goTo(actBegin, StateLeadingZero),
		classOperator:   exprErr(msgFirstOperator),
		classWhitespace: exprErr(msgFirstWhitespace),
		classDot:        numberErr(msgFirstDot),
		classOther:      exprErr(msgInvalidChar),
	},
	StateIntegerDigits: {
		classDigit:      goTo(actAppend, StateIntegerDigits),
		classZero:       goTo(actAppend, StateIntegerDigits),
		classOperator:   goTo(actEmitNumberOp, StateAfterOperator),
		classWhitespace: goTo(actEmitNumber, StateWhitespaceAfterNumber),
		classDot:        numberErr(msgDecimalBelowOne),
		classOther:      numberErr(msgInvalidChar),
	},
	StateLeadingZero: {
		classDigit:      numberErr(msgDigitAfterZero),
		classZero:       numberErr(msgDigitAfterZero),
		classOperator:   goTo(actEmitNumberOp, StateAfterOperator),
		classWhitespace: goTo(actEmitNumber, StateWhitespaceAfterNumber),
		classDot:        goTo(actAppend, StateDecimal),
		classOther:      numberErr(msgInvalidChar),
	},
	StateAfterOperator: {
		classDigit:      goTo(actBegin, StateIntegerDigits),
		classZero:       goTo(actBegin, StateLeadingZero),
		classOperator:   exprErr(msgOperatorAfterOp),
		classWhitespace: goTo(actNone, StateWhitespaceAfterOperator),
		classDot:        numberErr(msgStartWithDot),
		classOther:      exprErr(msgOperatorAfterOp),
	},
	StateDecimal: {
		classDigit:      goTo(actAppend, StateIntegerDigits),
		classZero:       goTo(actAppend, StateIntegerDigits),
		classOperator:   exprErr(msgOperatorAfterDot),
		classWhitespace: exprErr(msgWhitespaceAfterDot),
		classDot:        exprErr(msgDotAfterDot),
		classOther:      numberErr(msgInvalidChar),
	},
	StateWhitespaceAfterNumber: {
		classDigit:      exprErr(msgSpaceBetweenDigits),
		classZero:       exprErr(msgSpaceBetweenDigits),
		classOperator:   goTo(actEmitOperator, StateAfterOperator),
		classWhitespace: goTo(actNone, StateWhitespaceAfterNumber),
		classDot:        exprErr(msgDotAfterWhitespace),
		classOther:      numberErr(msgInvalidChar),
	},
	StateWhitespaceAfterOperator: {
		classDigit:      goTo(actBegin, StateIntegerDigits),
		classZero:       goTo(actBegin, StateLeadingZero),
		classOperator:   exprErr(msgConsecutiveOps),
		classWhitespace: goTo(actNone, StateWhitespaceAfterOperator),
		classDot:        numberErr(msgDotAfterWhitespace),
		classOther:      numberErr(msgInvalidChar),
	},
}

// transition looks up the step for the given state and character class.
func transition(s State, c charClass) step {
	row, ok := table[s]
	if !ok {
		return exprErr(msgInvalidExpression)
	}
	return row[c]
}
