package lexer

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"
)

var liveStates = []State{
	StateStart,
	StateIntegerDigits,
	StateLeadingZero,
	StateAfterOperator,
	StateDecimal,
	StateWhitespaceAfterNumber,
	StateWhitespaceAfterOperator,
}

func TestTableComplete(t *testing.T) {
	for _, s := range liveStates {
		for c := charClass(0); c < numClasses; c++ {
			st := transition(s, c)
			// No transition returns to Start, so a zero-valued cell means a
			// missing entry.
			if st.next == StateStart {
				t.Errorf("%s x %s: missing transition", s, c)
			}
			if st.act == actFail && (st.kind == "" || st.msg == "") {
				t.Errorf("%s x %s: failing step without kind or message", s, c)
			}
			if (st.act == actFail) != (st.next == StateError) {
				t.Errorf("%s x %s: only failing steps may enter ERROR", s, c)
			}
		}
	}
}

func TestTableHasNoErrorRow(t *testing.T) {
	st := transition(StateError, classDigit)
	if st.act != actFail || st.kind != ExpressionError {
		t.Errorf("ERROR state must be absorbing, got %+v", st)
	}
}

func TestTableErrorKinds(t *testing.T) {
	// Rows where the two error kinds are easy to mix up.
	tests := []struct {
		state State
		class charClass
		want  ErrorKind
	}{
		{StateStart, classDot, NumberError},
		{StateStart, classOther, ExpressionError},
		{StateAfterOperator, classOperator, ExpressionError},
		{StateAfterOperator, classDot, NumberError},
		{StateDecimal, classDot, ExpressionError},
		{StateDecimal, classOther, NumberError},
		{StateWhitespaceAfterNumber, classDot, ExpressionError},
		{StateWhitespaceAfterOperator, classDot, NumberError},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s/%s", tt.state, tt.class), func(t *testing.T) {
			if got := transition(tt.state, tt.class).kind; got != tt.want {
				t.Errorf("kind = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestClassOf(t *testing.T) {
	tests := map[rune]charClass{
		'0':  classZero,
		'5':  classDigit,
		'9':  classDigit,
		'+':  classOperator,
		'/':  classOperator,
		' ':  classWhitespace,
		'\t': classWhitespace,
		'\n': classWhitespace,
		'.':  classDot,
		'x':  classOther,
		'٣':  classOther,
	}
	for r, want := range tests {
		if got := classOf(r); got != want {
			t.Errorf("classOf(%q) = %s, want %s", r, got, want)
		}
	}
}

func TestErrorHelpers(t *testing.T) {
	err := fmt.Errorf("scan failed: %w", NewNumberError(3, msgDigitAfterZero))
	if !IsNumberError(err) || IsExpressionError(err) {
		t.Errorf("wrapped NumberError not recognised: %v", err)
	}
	if k, ok := KindOf(errors.New("plain")); ok {
		t.Errorf("KindOf(plain) = %s, want no kind", k)
	}

	le := NewExpressionError(4, msgEndOnOperator)
	if got, want := le.Error(), "ExpressionError: Expression cannot end with an operator (position 4)"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	m := le.ToMap()
	if m["kind"] != "ExpressionError" || m["position"] != 4 {
		t.Errorf("ToMap() = %v", m)
	}
	b, err := json.Marshal(le)
	if err != nil {
		t.Fatal(err)
	}
	if want := `{"kind":"ExpressionError","message":"Expression cannot end with an operator","position":4}`; string(b) != want {
		t.Errorf("MarshalJSON = %s, want %s", b, want)
	}
}
